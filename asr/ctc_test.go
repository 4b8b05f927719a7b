package asr

import (
	"errors"
	"testing"
)

func mustAlphabet(t *testing.T, symbols string) *Alphabet {
	t.Helper()
	a, err := NewAlphabet(symbols)
	if err != nil {
		t.Fatalf("NewAlphabet(%q) failed: %v", symbols, err)
	}
	return a
}

func TestDecodeGreedy(t *testing.T) {
	// Алфавит " ab~": 0=' ', 1='a', 2='b', 3=blank
	alphabet := mustAlphabet(t, " ab~")

	tests := []struct {
		name        string
		predictions []int
		expected    string
	}{
		{
			name:        "empty predictions",
			predictions: []int{},
			expected:    "",
		},
		{
			name:        "all blanks",
			predictions: []int{3, 3, 3},
			expected:    "",
		},
		{
			name:        "duplicates collapse around blanks and spaces",
			predictions: []int{1, 1, 0, 2, 0, 3, 1, 1, 1},
			expected:    "a b a",
		},
		{
			name:        "repeat after space is kept",
			predictions: []int{1, 1, 2, 0, 0, 3, 1, 1, 1},
			expected:    "ab a",
		},
		{
			name:        "blank separates identical symbols",
			predictions: []int{1, 3, 1},
			expected:    "aa",
		},
		{
			name:        "run of one symbol collapses to one",
			predictions: []int{2, 2, 2, 2},
			expected:    "b",
		},
		{
			name:        "leading and trailing blanks",
			predictions: []int{3, 3, 1, 2, 3, 3},
			expected:    "ab",
		},
		{
			name:        "single symbol",
			predictions: []int{0},
			expected:    " ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeGreedy(tt.predictions, alphabet)
			if err != nil {
				t.Fatalf("DecodeGreedy failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestDecodeGreedy_SinglePass проверяет что подавление blank и повторов
// выполняется совместно: последовательность символ-blank-символ обязана
// дать два символа, а не один
func TestDecodeGreedy_SinglePass(t *testing.T) {
	alphabet := mustAlphabet(t, " ab~")

	got, err := DecodeGreedy([]int{2, 2, 3, 2, 2}, alphabet)
	if err != nil {
		t.Fatalf("DecodeGreedy failed: %v", err)
	}
	if got != "bb" {
		t.Errorf("expected %q, got %q", "bb", got)
	}
}

func TestDecodeGreedy_InvalidIndex(t *testing.T) {
	alphabet := mustAlphabet(t, " ab~")

	tests := []struct {
		name        string
		predictions []int
	}{
		{"index too large", []int{1, 4, 2}},
		{"negative index", []int{-1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeGreedy(tt.predictions, alphabet)
			if !errors.Is(err, ErrInvalidSymbolIndex) {
				t.Errorf("expected ErrInvalidSymbolIndex, got %v", err)
			}
		})
	}
}

// TestDecodeGreedy_Invariants проверяет инварианты выхода на длинной
// детерминированной последовательности: blank не встречается в тексте,
// длина выхода не превышает вход, повторное схлопывание ничего не меняет
func TestDecodeGreedy_Invariants(t *testing.T) {
	alphabet := mustAlphabet(t, EnglishAlphabet)
	blank := alphabet.BlankIndex()

	// Псевдослучайная, но детерминированная последовательность
	predictions := make([]int, 500)
	state := uint32(12345)
	for i := range predictions {
		state = state*1664525 + 1013904223
		predictions[i] = int(state % uint32(alphabet.Size()))
	}

	text, err := DecodeGreedy(predictions, alphabet)
	if err != nil {
		t.Fatalf("DecodeGreedy failed: %v", err)
	}

	for _, r := range text {
		if r == alphabet.Symbol(blank) {
			t.Fatalf("decoded text contains blank symbol: %q", text)
		}
	}
	if len([]rune(text)) > len(predictions) {
		t.Fatalf("decoded text longer than predictions: %d > %d", len([]rune(text)), len(predictions))
	}

	// Неподвижная точка: схлопнутая последовательность индексов,
	// разделённая blank-ами, декодируется в тот же текст
	var separated []int
	prev := blank
	for _, idx := range predictions {
		if idx != blank && idx != prev {
			separated = append(separated, idx, blank)
		}
		prev = idx
	}
	again, err := DecodeGreedy(separated, alphabet)
	if err != nil {
		t.Fatalf("DecodeGreedy on collapsed sequence failed: %v", err)
	}
	if again != text {
		t.Errorf("re-decoding collapsed sequence changed text: %q vs %q", again, text)
	}
}

func TestNewAlphabet(t *testing.T) {
	if _, err := NewAlphabet(""); err == nil {
		t.Error("expected error for empty alphabet")
	}

	a := mustAlphabet(t, EnglishAlphabet)
	if a.Size() != 29 {
		t.Errorf("expected 29 symbols, got %d", a.Size())
	}
	if a.BlankIndex() != 28 {
		t.Errorf("expected blank index 28, got %d", a.BlankIndex())
	}
	if a.Symbol(a.BlankIndex()) != '~' {
		t.Errorf("expected blank symbol '~', got %q", a.Symbol(a.BlankIndex()))
	}
	if a.Symbol(0) != ' ' {
		t.Errorf("expected first symbol ' ', got %q", a.Symbol(0))
	}
}

// TestNewAlphabet_Unicode проверяет что алфавит работает по рунам, не байтам
func TestNewAlphabet_Unicode(t *testing.T) {
	a := mustAlphabet(t, " абв~")
	if a.Size() != 5 {
		t.Errorf("expected 5 symbols, got %d", a.Size())
	}

	text, err := DecodeGreedy([]int{1, 1, 4, 2, 3}, a)
	if err != nil {
		t.Fatalf("DecodeGreedy failed: %v", err)
	}
	if text != "абв" {
		t.Errorf("expected %q, got %q", "абв", text)
	}
}

func TestArgMaxFrames(t *testing.T) {
	frames := [][]float32{
		{0.1, 0.7, 0.2},
		{0.9, 0.05, 0.05},
		{-3.0, -1.0, -2.0},
		{0.5, 0.5, 0.5}, // при равенстве выигрывает первый индекс
	}

	got := ArgMaxFrames(frames)
	expected := []int{1, 0, 1, 0}

	if len(got) != len(expected) {
		t.Fatalf("expected %d predictions, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("frame %d: expected %d, got %d", i, expected[i], got[i])
		}
	}
}

func TestArgMaxFrames_Empty(t *testing.T) {
	got := ArgMaxFrames(nil)
	if len(got) != 0 {
		t.Errorf("expected empty predictions, got %v", got)
	}
}
