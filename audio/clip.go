// Package audio загружает и записывает waveform-данные для распознавания речи
package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Clip моно аудиоклип: PCM16 семплы с частотой дискретизации
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Duration возвращает длительность клипа в секундах
func (c Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// ReadFile загружает аудиофайл, выбирая декодер по расширению.
// Поддерживаются .wav (PCM16) и .mp3
func ReadFile(path string) (Clip, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return ReadWAV(path)
	case ".mp3":
		return ReadMP3(path)
	default:
		return Clip{}, fmt.Errorf("unsupported audio format: %s", path)
	}
}

// Resample приводит клип к целевой частоте линейной интерполяцией.
// Для совпадающих частот возвращает клип как есть
func Resample(clip Clip, targetRate int) Clip {
	if clip.SampleRate == targetRate || len(clip.Samples) == 0 {
		return Clip{Samples: clip.Samples, SampleRate: targetRate}
	}

	ratio := float64(clip.SampleRate) / float64(targetRate)
	newLen := int(float64(len(clip.Samples)) / ratio)
	if newLen < 1 {
		newLen = 1
	}

	resampled := make([]int16, newLen)
	for i := 0; i < newLen; i++ {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		if srcIdx+1 < len(clip.Samples) {
			v := float64(clip.Samples[srcIdx])*(1-frac) + float64(clip.Samples[srcIdx+1])*frac
			resampled[i] = int16(v)
		} else if srcIdx < len(clip.Samples) {
			resampled[i] = clip.Samples[srcIdx]
		}
	}

	return Clip{Samples: resampled, SampleRate: targetRate}
}

// mixToMono усредняет interleaved каналы в моно
func mixToMono(interleaved []int16, channels int) []int16 {
	if channels <= 1 {
		return interleaved
	}

	numSamples := len(interleaved) / channels
	mono := make([]int16, numSamples)
	for i := 0; i < numSamples; i++ {
		var sum int32
		for ch := 0; ch < channels; ch++ {
			sum += int32(interleaved[i*channels+ch])
		}
		mono[i] = int16(sum / int32(channels))
	}
	return mono
}
