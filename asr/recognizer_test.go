package asr

import (
	"errors"
	"fmt"
	"testing"
)

// frameFor возвращает per-frame оценки с максимумом на заданном индексе
func frameFor(idx, size int) []float32 {
	frame := make([]float32, size)
	for i := range frame {
		frame[i] = 0.01
	}
	frame[idx] = 0.9
	return frame
}

func TestRecognizer_Transcribe(t *testing.T) {
	alphabet := mustAlphabet(t, " ab~")
	extractor := newTestExtractor(t)

	// Кодируем "a b": a a blank _ b b
	mock := &MockClassifier{
		Frames: [][]float32{
			frameFor(1, 4), frameFor(1, 4), frameFor(3, 4),
			frameFor(0, 4), frameFor(2, 4), frameFor(2, 4),
		},
	}

	recognizer := NewRecognizer(extractor, mock, alphabet)
	defer recognizer.Close()

	text, err := recognizer.Transcribe(noiseSamples(16000, 5), 16000)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "a b" {
		t.Errorf("expected %q, got %q", "a b", text)
	}

	if mock.Calls != 1 {
		t.Errorf("expected 1 inference call, got %d", mock.Calls)
	}

	// Классификатор должен получить тензор с паддингом по времени
	if mock.LastIn == nil {
		t.Fatal("classifier did not receive features")
	}
	if mock.LastIn.NFrames%16 != 0 {
		t.Errorf("classifier input frames %d not padded to 16", mock.LastIn.NFrames)
	}
	if mock.LastIn.NMels != 64 {
		t.Errorf("classifier input has %d mel channels, expected 64", mock.LastIn.NMels)
	}
}

func TestRecognizer_EmptyInference(t *testing.T) {
	recognizer := NewRecognizer(newTestExtractor(t), &MockClassifier{}, mustAlphabet(t, " ab~"))

	text, err := recognizer.Transcribe(noiseSamples(1600, 5), 16000)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestRecognizer_PropagatesErrors(t *testing.T) {
	alphabet := mustAlphabet(t, " ab~")
	extractor := newTestExtractor(t)

	// Ошибка валидации входа проходит как есть
	recognizer := NewRecognizer(extractor, &MockClassifier{}, alphabet)
	if _, err := recognizer.Transcribe(noiseSamples(1600, 1), 48000); !errors.Is(err, ErrUnsupportedSampleRate) {
		t.Errorf("expected ErrUnsupportedSampleRate, got %v", err)
	}

	// Ошибка классификатора оборачивается
	failing := &MockClassifier{Err: fmt.Errorf("session destroyed")}
	recognizer = NewRecognizer(extractor, failing, alphabet)
	if _, err := recognizer.Transcribe(noiseSamples(1600, 1), 16000); err == nil {
		t.Error("expected inference error")
	}

	// Индекс вне алфавита - нарушение контракта классификатора
	invalid := &MockClassifier{Frames: [][]float32{frameFor(7, 8)}}
	recognizer = NewRecognizer(extractor, invalid, mustAlphabet(t, " ab~"))
	if _, err := recognizer.Transcribe(noiseSamples(1600, 1), 16000); !errors.Is(err, ErrInvalidSymbolIndex) {
		t.Errorf("expected ErrInvalidSymbolIndex, got %v", err)
	}
}
