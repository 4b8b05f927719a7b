package asr

import (
	"math"
	"sync"
)

// Slaney mel-шкала: линейная до 1000 Hz, логарифмическая выше
const (
	melLinearStep = 200.0 / 3.0 // Hz на mel в линейной области
	melBreakHz    = 1000.0
	melBreak      = melBreakHz / melLinearStep
)

var melLogStep = math.Log(6.4) / 27.0

// hzToMel преобразует Hz в mel (Slaney, не HTK)
func hzToMel(hz float64) float64 {
	if hz < melBreakHz {
		return hz / melLinearStep
	}
	return melBreak + math.Log(hz/melBreakHz)/melLogStep
}

// melToHz преобразует mel в Hz (Slaney, не HTK)
func melToHz(mel float64) float64 {
	if mel < melBreak {
		return mel * melLinearStep
	}
	return melBreakHz * math.Exp(melLogStep*(mel-melBreak))
}

// createMelFilterbank создаёт mel-фильтры [nMels][nFFT/2+1] по Slaney-шкале
// с нормализацией по площади (каждый фильтр делится на ширину своей полосы)
func createMelFilterbank(nFFT, nMels, sampleRate int, fMin, fMax float64) [][]float64 {
	numBins := nFFT/2 + 1

	// Частоты FFT bin-ов
	allFreqs := make([]float64, numBins)
	for k := 0; k < numBins; k++ {
		allFreqs[k] = float64(k) * float64(sampleRate) / float64(nFFT)
	}

	// Опорные точки фильтров: nMels+2 точек равномерно по mel-шкале
	mMin := hzToMel(fMin)
	mMax := hzToMel(fMax)
	fPts := make([]float64, nMels+2)
	for i := range fPts {
		mel := mMin + float64(i)*(mMax-mMin)/float64(nMels+1)
		fPts[i] = melToHz(mel)
	}

	fDiff := make([]float64, nMels+1)
	for i := range fDiff {
		fDiff[i] = fPts[i+1] - fPts[i]
	}

	filters := make([][]float64, nMels)
	for m := 0; m < nMels; m++ {
		filters[m] = make([]float64, numBins)

		// Нормализация по площади: 2 / ширина полосы фильтра
		enorm := 2.0 / (fPts[m+2] - fPts[m])

		for k := 0; k < numBins; k++ {
			lower := (allFreqs[k] - fPts[m]) / fDiff[m]
			upper := (fPts[m+2] - allFreqs[k]) / fDiff[m+1]

			val := math.Min(lower, upper)
			if val < 0 {
				val = 0
			}
			filters[m][k] = val * enorm
		}
	}

	return filters
}

// melBasisKey ключ кэша mel-фильтров
type melBasisKey struct {
	sampleRate int
	nFFT       int
	nMels      int
	fMin       float64
	fMax       float64
}

// Кэш mel-фильтров: базис неизменяем после построения,
// поэтому его безопасно отдавать по ссылке конкурентным вызовам
var (
	melBasisMu    sync.Mutex
	melBasisCache = map[melBasisKey][][]float64{}
)

// melBasisFor возвращает mel-базис для конфигурации, лениво строя его при
// первом обращении
func melBasisFor(sampleRate, nFFT, nMels int, fMin, fMax float64) [][]float64 {
	key := melBasisKey{sampleRate, nFFT, nMels, fMin, fMax}

	melBasisMu.Lock()
	defer melBasisMu.Unlock()

	if basis, ok := melBasisCache[key]; ok {
		return basis
	}
	basis := createMelFilterbank(nFFT, nMels, sampleRate, fMin, fMax)
	melBasisCache[key] = basis
	return basis
}
