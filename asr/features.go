// Package asr реализует извлечение акустических признаков и CTC декодирование
// для frame-level моделей распознавания речи
package asr

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Ошибки валидации входных данных
var (
	// ErrUnsupportedSampleRate частота дискретизации не совпадает с требуемой
	ErrUnsupportedSampleRate = errors.New("unsupported sample rate")
	// ErrEmptyInput пустой входной сигнал
	ErrEmptyInput = errors.New("empty input waveform")
)

// FeatureConfig конфигурация извлечения признаков
type FeatureConfig struct {
	SampleRate  int     // Требуемая частота дискретизации (16000)
	PreEmphasis float64 // Коэффициент pre-emphasis фильтра
	WindowDur   float64 // Длительность окна в секундах (0.02 = 20ms)
	HopDur      float64 // Шаг окна в секундах (0.01 = 10ms)
	NFFT        int     // Размер FFT
	NMels       int     // Количество mel-фильтров
	FMin        float64 // Нижняя граница частот, Hz
	FMax        float64 // Верхняя граница частот, Hz
	LogFloor    float64 // Минимум перед логарифмом (защита от log(0))
	NormEpsilon float64 // Эпсилон в знаменателе нормализации
	PadMultiple int     // Временная ось дополняется до кратности этого значения
}

// DefaultFeatureConfig возвращает конфигурацию под 16kHz CTC модели
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		SampleRate:  16000,
		PreEmphasis: 0.97,
		WindowDur:   0.02,
		HopDur:      0.01,
		NFFT:        512,
		NMels:       64,
		FMin:        0,
		FMax:        8000,
		LogFloor:    math.Exp2(-24),
		NormEpsilon: 1e-5,
		PadMultiple: 16,
	}
}

// winLength длина окна в семплах
func (c FeatureConfig) winLength() int {
	return int(math.Round(float64(c.SampleRate) * c.WindowDur))
}

// hopLength шаг окна в семплах
func (c FeatureConfig) hopLength() int {
	return int(math.Round(float64(c.SampleRate) * c.HopDur))
}

// FeatureTensor результат извлечения признаков: (1, NMels, NFrames)
// Data хранится mel-major: Data[m*NFrames+t]
type FeatureTensor struct {
	Data        []float32
	NMels       int
	NFrames     int // Количество фреймов после паддинга (кратно PadMultiple)
	ValidFrames int // Количество фреймов до паддинга
}

// Shape возвращает форму тензора с batch-размерностью
func (t *FeatureTensor) Shape() []int64 {
	return []int64{1, int64(t.NMels), int64(t.NFrames)}
}

// At возвращает значение признака для mel-канала m и фрейма f
func (t *FeatureTensor) At(m, f int) float32 {
	return t.Data[m*t.NFrames+f]
}

// FeatureExtractor преобразует waveform в нормализованную log-mel спектрограмму.
// Детерминирован: одинаковый вход даёт бит-в-бит одинаковый выход.
// Безопасен для конкурентного использования: состояние после создания read-only
type FeatureExtractor struct {
	config   FeatureConfig
	window   []float64 // Окно Ханна, дополненное нулями до NFFT
	melBasis [][]float64
	fft      *fourier.FFT
}

// NewFeatureExtractor создаёт экстрактор признаков
func NewFeatureExtractor(config FeatureConfig) (*FeatureExtractor, error) {
	if config.NFFT < config.winLength() {
		return nil, fmt.Errorf("nfft %d smaller than window length %d", config.NFFT, config.winLength())
	}
	if config.NMels <= 0 || config.PadMultiple <= 0 {
		return nil, fmt.Errorf("invalid feature config: nmels=%d, pad=%d", config.NMels, config.PadMultiple)
	}

	return &FeatureExtractor{
		config:   config,
		window:   paddedHannWindow(config.winLength(), config.NFFT),
		melBasis: melBasisFor(config.SampleRate, config.NFFT, config.NMels, config.FMin, config.FMax),
		fft:      fourier.NewFFT(config.NFFT),
	}, nil
}

// Config возвращает конфигурацию экстрактора
func (e *FeatureExtractor) Config() FeatureConfig {
	return e.config
}

// Extract вычисляет feature tensor для waveform.
// samples - PCM16 семплы, sampleRate должен совпадать с конфигурацией
func (e *FeatureExtractor) Extract(samples []int16, sampleRate int) (*FeatureTensor, error) {
	if sampleRate != e.config.SampleRate {
		return nil, fmt.Errorf("%w: got %d Hz, need %d Hz", ErrUnsupportedSampleRate, sampleRate, e.config.SampleRate)
	}
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	// PCM16 -> float64. Масштаб не важен: per-channel нормализация
	// убирает константный сдвиг после логарифма
	signal := make([]float64, len(samples))
	for i, s := range samples {
		signal[i] = float64(s) / 32768.0
	}

	emphasized := preEmphasize(signal, e.config.PreEmphasis)
	power := e.powerSpectrogram(emphasized)
	mel := e.melSpectrogram(power)
	e.normalizePerChannel(mel)

	return e.padAndFlatten(mel), nil
}

// preEmphasize применяет pre-emphasis фильтр: y[i] = x[i] - a*x[i-1]
func preEmphasize(x []float64, coeff float64) []float64 {
	y := make([]float64, len(x))
	y[0] = x[0]
	for i := 1; i < len(x); i++ {
		y[i] = x[i] - coeff*x[i-1]
	}
	return y
}

// powerSpectrogram вычисляет спектрограмму мощности: [NFFT/2+1][T].
// Фреймы центрированы, сигнал дополнен отражением на NFFT/2 с каждой стороны
func (e *FeatureExtractor) powerSpectrogram(signal []float64) [][]float64 {
	nfft := e.config.NFFT
	hop := e.config.hopLength()
	pad := nfft / 2

	numFrames := len(signal)/hop + 1
	numBins := nfft/2 + 1

	power := make([][]float64, numBins)
	for k := range power {
		power[k] = make([]float64, numFrames)
	}

	frame := make([]float64, nfft)
	for t := 0; t < numFrames; t++ {
		start := t*hop - pad
		for i := 0; i < nfft; i++ {
			frame[i] = sampleReflected(signal, start+i) * e.window[i]
		}

		coeffs := e.fft.Coefficients(nil, frame)
		for k := 0; k < numBins; k++ {
			re := real(coeffs[k])
			im := imag(coeffs[k])
			power[k][t] = re*re + im*im
		}
	}

	return power
}

// sampleReflected возвращает signal[i] с отражением на границах (без повтора
// крайнего семпла). Отражение "отскакивает" для очень коротких сигналов
func sampleReflected(signal []float64, i int) float64 {
	n := len(signal)
	if n == 1 {
		return signal[0]
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return signal[i]
}

// melSpectrogram проецирует спектрограмму мощности на mel-фильтры
// и берёт натуральный логарифм с floor-константой
func (e *FeatureExtractor) melSpectrogram(power [][]float64) [][]float64 {
	numFrames := len(power[0])

	mel := make([][]float64, e.config.NMels)
	for m := 0; m < e.config.NMels; m++ {
		mel[m] = make([]float64, numFrames)
		filter := e.melBasis[m]
		for t := 0; t < numFrames; t++ {
			sum := 0.0
			for k := range power {
				sum += filter[k] * power[k][t]
			}
			mel[m][t] = math.Log(sum + e.config.LogFloor)
		}
	}

	return mel
}

// normalizePerChannel нормализует каждый mel-канал независимо:
// вычитает среднее по времени и делит на стандартное отклонение
func (e *FeatureExtractor) normalizePerChannel(mel [][]float64) {
	for m := range mel {
		mean := stat.Mean(mel[m], nil)
		std := stat.PopStdDev(mel[m], nil)
		for t := range mel[m] {
			mel[m][t] = (mel[m][t] - mean) / (std + e.config.NormEpsilon)
		}
	}
}

// padAndFlatten дополняет временную ось нулями до кратности PadMultiple
// и упаковывает результат в плоский float32 тензор (mel-major)
func (e *FeatureExtractor) padAndFlatten(mel [][]float64) *FeatureTensor {
	validFrames := len(mel[0])
	padded := validFrames
	if rem := validFrames % e.config.PadMultiple; rem != 0 {
		padded += e.config.PadMultiple - rem
	}

	data := make([]float32, e.config.NMels*padded)
	for m := range mel {
		row := data[m*padded:]
		for t, v := range mel[m] {
			row[t] = float32(v)
		}
	}

	return &FeatureTensor{
		Data:        data,
		NMels:       e.config.NMels,
		NFrames:     padded,
		ValidFrames: validFrames,
	}
}

// paddedHannWindow создаёт периодическое окно Ханна длины winLength,
// дополненное нулями до nfft (окно центрируется внутри FFT-фрейма)
func paddedHannWindow(winLength, nfft int) []float64 {
	window := make([]float64, nfft)
	offset := (nfft - winLength) / 2
	for i := 0; i < winLength; i++ {
		window[offset+i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(winLength)))
	}
	return window
}
