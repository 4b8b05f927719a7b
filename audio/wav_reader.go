package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// ReadWAV читает RIFF/WAVE файл с PCM16 данными и возвращает моно клип.
// Стерео усредняется в моно
func ReadWAV(path string) (Clip, error) {
	file, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer file.Close()

	var riff [12]byte
	if _, err := io.ReadFull(file, riff[:]); err != nil {
		return Clip{}, fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Clip{}, fmt.Errorf("not a RIFF/WAVE file: %s", path)
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		haveFmt       bool
	)

	// Идём по чанкам до data
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(file, chunkHeader[:]); err != nil {
			if err == io.EOF {
				return Clip{}, fmt.Errorf("WAV file has no data chunk: %s", path)
			}
			return Clip{}, fmt.Errorf("failed to read chunk header: %w", err)
		}

		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			fmtData := make([]byte, chunkSize)
			if _, err := io.ReadFull(file, fmtData); err != nil {
				return Clip{}, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			if len(fmtData) < 16 {
				return Clip{}, fmt.Errorf("fmt chunk too short: %d bytes", len(fmtData))
			}

			audioFormat := binary.LittleEndian.Uint16(fmtData[0:2])
			if audioFormat != 1 {
				return Clip{}, fmt.Errorf("unsupported WAV format %d, only PCM is supported", audioFormat)
			}
			channels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(fmtData[14:16]))
			haveFmt = true

		case "data":
			if !haveFmt {
				return Clip{}, fmt.Errorf("data chunk before fmt chunk: %s", path)
			}
			if bitsPerSample != 16 {
				return Clip{}, fmt.Errorf("unsupported bit depth %d, only 16-bit PCM is supported", bitsPerSample)
			}
			if channels < 1 {
				return Clip{}, fmt.Errorf("invalid channel count %d", channels)
			}

			pcmData := make([]byte, chunkSize)
			n, err := io.ReadFull(file, pcmData)
			if err != nil && err != io.ErrUnexpectedEOF {
				return Clip{}, fmt.Errorf("failed to read PCM data: %w", err)
			}
			pcmData = pcmData[:n&^1]

			interleaved := make([]int16, len(pcmData)/2)
			for i := range interleaved {
				interleaved[i] = int16(binary.LittleEndian.Uint16(pcmData[i*2:]))
			}

			return Clip{
				Samples:    mixToMono(interleaved, channels),
				SampleRate: sampleRate,
			}, nil

		default:
			// Пропускаем незнакомый чанк (с выравниванием на чётный размер)
			skip := int64(chunkSize)
			if skip%2 == 1 {
				skip++
			}
			if _, err := file.Seek(skip, io.SeekCurrent); err != nil {
				return Clip{}, fmt.Errorf("failed to skip chunk %q: %w", chunkID, err)
			}
		}
	}
}
