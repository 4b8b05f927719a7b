package asr

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidSymbolIndex предсказание вне диапазона алфавита —
// нарушение контракта со стороны классификатора
var ErrInvalidSymbolIndex = errors.New("symbol index out of alphabet range")

// EnglishAlphabet алфавит английских character-level CTC моделей,
// blank-маркер последним
const EnglishAlphabet = " abcdefghijklmnopqrstuvwxyz'~"

// Alphabet упорядоченный набор символов модели.
// Последний символ зарезервирован под CTC blank
type Alphabet struct {
	symbols []rune
}

// NewAlphabet создаёт алфавит из строки символов.
// Последний символ строки считается blank-маркером
func NewAlphabet(symbols string) (*Alphabet, error) {
	runes := []rune(symbols)
	if len(runes) == 0 {
		return nil, fmt.Errorf("alphabet must not be empty")
	}
	return &Alphabet{symbols: runes}, nil
}

// LoadAlphabetFile загружает алфавит из текстового файла: один символ на
// строку, blank-маркер (<blk>) последним. Пустая строка означает пробел
func LoadAlphabetFile(path string) (*Alphabet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open alphabet file: %w", err)
	}
	defer file.Close()

	var symbols []rune
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		switch line {
		case "":
			symbols = append(symbols, ' ')
		case "<blk>", "<blank>", "[blank]", "~":
			symbols = append(symbols, '~')
		default:
			runes := []rune(line)
			if len(runes) != 1 {
				return nil, fmt.Errorf("alphabet line %q is not a single symbol", line)
			}
			symbols = append(symbols, runes[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alphabet file: %w", err)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("alphabet file %s is empty", path)
	}

	return &Alphabet{symbols: symbols}, nil
}

// Size возвращает количество символов, включая blank
func (a *Alphabet) Size() int {
	return len(a.symbols)
}

// BlankIndex возвращает индекс blank-символа (всегда последний)
func (a *Alphabet) BlankIndex() int {
	return len(a.symbols) - 1
}

// Symbol возвращает символ по индексу
func (a *Alphabet) Symbol(i int) rune {
	return a.symbols[i]
}

// String возвращает алфавит одной строкой
func (a *Alphabet) String() string {
	return string(a.symbols)
}

// DecodeGreedy выполняет жадное CTC декодирование: один проход слева направо,
// blank и повторы подряд подавляются, курсор предыдущего индекса сдвигается
// на каждом шаге независимо от того, был ли символ выведен.
// Правила подавления применяются совместно в одном проходе: раздельные
// проходы (сначала дедупликация, потом удаление blank) дают другой результат
// на последовательностях вида символ-blank-тот-же-символ
func DecodeGreedy(predictions []int, alphabet *Alphabet) (string, error) {
	blank := alphabet.BlankIndex()
	prev := blank

	var out strings.Builder
	for pos, idx := range predictions {
		if idx < 0 || idx >= alphabet.Size() {
			return "", fmt.Errorf("%w: index %d at frame %d (alphabet size %d)",
				ErrInvalidSymbolIndex, idx, pos, alphabet.Size())
		}
		if idx != blank && idx != prev {
			out.WriteRune(alphabet.symbols[idx])
		}
		prev = idx
	}

	return out.String(), nil
}

// ArgMaxFrames сводит per-frame оценки классификатора к последовательности
// индексов символов. Работает одинаково для логитов и вероятностей
func ArgMaxFrames(frames [][]float32) []int {
	predictions := make([]int, len(frames))
	for t, frame := range frames {
		maxIdx := 0
		maxVal := frame[0]
		for i, v := range frame {
			if v > maxVal {
				maxVal = v
				maxIdx = i
			}
		}
		predictions[t] = maxIdx
	}
	return predictions
}
