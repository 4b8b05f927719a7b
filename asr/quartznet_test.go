package asr

import (
	"os"
	"path/filepath"
	"testing"
)

func TestQuartzNetClassifier_Integration(t *testing.T) {
	// Пропускаем если нет модели или библиотеки ONNX Runtime
	modelPath := os.Getenv("QUARTZNET_MODEL_PATH")
	if modelPath == "" {
		t.Skip("QUARTZNET_MODEL_PATH not set")
	}
	if os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH") == "" {
		t.Skip("ONNXRUNTIME_SHARED_LIBRARY_PATH not set")
	}

	classifier, err := NewQuartzNetClassifier(modelPath)
	if err != nil {
		t.Fatalf("failed to create classifier: %v", err)
	}
	defer classifier.Close()

	if classifier.Name() != "quartznet" {
		t.Errorf("expected name 'quartznet', got %q", classifier.Name())
	}

	alphabet, err := NewAlphabet(EnglishAlphabet)
	if err != nil {
		t.Fatal(err)
	}
	extractor, err := NewFeatureExtractor(DefaultFeatureConfig())
	if err != nil {
		t.Fatal(err)
	}

	recognizer := NewRecognizer(extractor, classifier, alphabet)

	// Секунда тишины: текст не обязан быть пустым, но декодирование
	// не должно падать
	silence := make([]int16, 16000)
	text, err := recognizer.Transcribe(silence, 16000)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	t.Logf("Silence transcription: %q", text)
}

func TestLoadAlphabetFile(t *testing.T) {
	content := "\nа\nб\nв\n<blk>\n"
	path := filepath.Join(t.TempDir(), "alphabet.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	alphabet, err := LoadAlphabetFile(path)
	if err != nil {
		t.Fatalf("LoadAlphabetFile failed: %v", err)
	}

	if alphabet.Size() != 5 {
		t.Errorf("expected 5 symbols, got %d", alphabet.Size())
	}
	if alphabet.Symbol(0) != ' ' {
		t.Errorf("expected first symbol ' ', got %q", alphabet.Symbol(0))
	}
	if alphabet.BlankIndex() != 4 {
		t.Errorf("expected blank index 4, got %d", alphabet.BlankIndex())
	}
	if alphabet.Symbol(4) != '~' {
		t.Errorf("expected blank symbol '~', got %q", alphabet.Symbol(4))
	}
}

func TestLoadAlphabetFile_Missing(t *testing.T) {
	if _, err := LoadAlphabetFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
