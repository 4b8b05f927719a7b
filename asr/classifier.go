package asr

import (
	"fmt"
)

// Classifier интерфейс акустической модели: принимает feature tensor,
// возвращает per-frame оценки символов [T][alphabetSize].
// Позволяет подменять реальную модель заглушкой в тестах
type Classifier interface {
	// Infer выполняет один блокирующий проход модели
	Infer(features *FeatureTensor) ([][]float32, error)

	// Close освобождает ресурсы модели
	Close() error

	// Name возвращает имя классификатора (для логирования)
	Name() string
}

// Recognizer связывает экстрактор признаков, классификатор и алфавит
// в полный конвейер: waveform -> features -> оценки -> argmax -> текст
type Recognizer struct {
	extractor  *FeatureExtractor
	classifier Classifier
	alphabet   *Alphabet
}

// NewRecognizer создаёт распознаватель
func NewRecognizer(extractor *FeatureExtractor, classifier Classifier, alphabet *Alphabet) *Recognizer {
	return &Recognizer{
		extractor:  extractor,
		classifier: classifier,
		alphabet:   alphabet,
	}
}

// Alphabet возвращает алфавит распознавателя
func (r *Recognizer) Alphabet() *Alphabet {
	return r.alphabet
}

// Transcribe распознаёт waveform и возвращает текст.
// samples - PCM16 моно, sampleRate должен совпадать с конфигурацией экстрактора
func (r *Recognizer) Transcribe(samples []int16, sampleRate int) (string, error) {
	features, err := r.extractor.Extract(samples, sampleRate)
	if err != nil {
		return "", err
	}

	frames, err := r.classifier.Infer(features)
	if err != nil {
		return "", fmt.Errorf("inference failed: %w", err)
	}
	if len(frames) == 0 {
		return "", nil
	}

	text, err := DecodeGreedy(ArgMaxFrames(frames), r.alphabet)
	if err != nil {
		return "", fmt.Errorf("decoding failed: %w", err)
	}
	return text, nil
}

// Close освобождает ресурсы классификатора
func (r *Recognizer) Close() error {
	return r.classifier.Close()
}
