package audio

import (
	"fmt"
	"os"
	"sync"

	"github.com/braheezy/shine-mp3/pkg/mp3"
)

// MP3Writer потоковый писатель MP3 через shine-mp3 (чистый Go, без FFmpeg)
type MP3Writer struct {
	file       *os.File
	encoder    *mp3.Encoder
	filePath   string
	sampleRate int
	channels   int

	// Буфер накопления: shine кодирует блоками фиксированного размера
	buffer []int16

	samplesWritten int64
	mu             sync.Mutex
	closed         bool
}

// Размер блока кодирования (семплов на канал)
const mp3BlockSamples = 1152

// NewMP3Writer создаёт новый MP3 writer
func NewMP3Writer(filePath string, sampleRate, channels int) (*MP3Writer, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &MP3Writer{
		file:       file,
		encoder:    mp3.NewEncoder(sampleRate, channels),
		filePath:   filePath,
		sampleRate: sampleRate,
		channels:   channels,
		buffer:     make([]int16, 0, mp3BlockSamples*2),
	}, nil
}

// Write записывает PCM16 семплы
func (w *MP3Writer) Write(samples []int16) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	w.buffer = append(w.buffer, samples...)
	w.samplesWritten += int64(len(samples))

	return w.flushBlocks()
}

// flushBlocks кодирует накопленные полные блоки
func (w *MP3Writer) flushBlocks() error {
	blockSize := mp3BlockSamples * w.channels
	for len(w.buffer) >= blockSize {
		w.encoder.Write(w.file, w.buffer[:blockSize])
		w.buffer = w.buffer[blockSize:]
	}
	return nil
}

// SamplesWritten возвращает количество принятых семплов
func (w *MP3Writer) SamplesWritten() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.samplesWritten
}

// Close дописывает хвост (с дополнением нулями до полного блока) и
// закрывает файл
func (w *MP3Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	blockSize := mp3BlockSamples * w.channels
	if len(w.buffer) > 0 {
		// Дополняем хвост нулями до полного блока
		for len(w.buffer)%blockSize != 0 {
			w.buffer = append(w.buffer, 0)
		}
		w.encoder.Write(w.file, w.buffer)
		w.buffer = w.buffer[:0]
	}

	return w.file.Close()
}

// FilePath возвращает путь к файлу
func (w *MP3Writer) FilePath() string {
	return w.filePath
}
