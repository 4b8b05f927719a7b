package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// ReadMP3 читает MP3 файл и возвращает моно клип (чистый Go, без FFmpeg).
// Декодер всегда отдаёт signed 16-bit stereo PCM, каналы усредняются
func ReadMP3(path string) (Clip, error) {
	file, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to create MP3 decoder: %w", err)
	}

	// Длина в байтах: 4 байта на фрейм (16-bit stereo)
	pcmData := make([]byte, decoder.Length())
	n, err := io.ReadFull(decoder, pcmData)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Clip{}, fmt.Errorf("failed to read PCM data: %w", err)
	}
	pcmData = pcmData[:n]

	numSamples := n / 4
	mono := make([]int16, numSamples)
	for i := 0; i < numSamples; i++ {
		left := int16(binary.LittleEndian.Uint16(pcmData[i*4:]))
		right := int16(binary.LittleEndian.Uint16(pcmData[i*4+2:]))
		mono[i] = int16((int32(left) + int32(right)) / 2)
	}

	return Clip{
		Samples:    mono,
		SampleRate: decoder.SampleRate(),
	}, nil
}
