package audio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWAVRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.wav")

	samples := make([]int16, 1600)
	for i := range samples {
		samples[i] = int16(i*37 - 800)
	}

	writer, err := NewWAVWriter(path, 16000, 1)
	if err != nil {
		t.Fatalf("NewWAVWriter failed: %v", err)
	}
	if err := writer.Write(samples[:700]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Write(samples[700:]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if writer.SamplesWritten() != 1600 {
		t.Errorf("expected 1600 samples written, got %d", writer.SamplesWritten())
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	clip, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}

	if clip.SampleRate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", clip.SampleRate)
	}
	if len(clip.Samples) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(clip.Samples))
	}
	for i := range samples {
		if clip.Samples[i] != samples[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, samples[i], clip.Samples[i])
		}
	}

	if clip.Duration() != 0.1 {
		t.Errorf("expected duration 0.1s, got %v", clip.Duration())
	}
}

func TestWAVRoundtrip_StereoToMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")

	// Interleaved стерео: левый 100, правый 300 -> моно 200
	interleaved := make([]int16, 200)
	for i := 0; i < len(interleaved); i += 2 {
		interleaved[i] = 100
		interleaved[i+1] = 300
	}

	writer, err := NewWAVWriter(path, 8000, 2)
	if err != nil {
		t.Fatalf("NewWAVWriter failed: %v", err)
	}
	if err := writer.Write(interleaved); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	clip, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}

	if len(clip.Samples) != 100 {
		t.Fatalf("expected 100 mono samples, got %d", len(clip.Samples))
	}
	for i, s := range clip.Samples {
		if s != 200 {
			t.Fatalf("sample %d: expected 200, got %d", i, s)
		}
	}
}

func TestReadWAV_NotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	if err := os.WriteFile(path, []byte("definitely not a wav file"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadWAV(path); err == nil {
		t.Error("expected error for non-WAV file")
	}
}

func TestReadWAV_Missing(t *testing.T) {
	if _, err := ReadWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMP3Writer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp3")

	writer, err := NewMP3Writer(path, 16000, 1)
	if err != nil {
		t.Fatalf("NewMP3Writer failed: %v", err)
	}

	// Полтора блока: проверяем и потоковую запись, и хвост в Close
	samples := make([]int16, 1152+576)
	for i := range samples {
		samples[i] = int16(i % 2000)
	}
	if err := writer.Write(samples); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if writer.SamplesWritten() != int64(len(samples)) {
		t.Errorf("expected %d samples written, got %d", len(samples), writer.SamplesWritten())
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("MP3 file is empty")
	}

	// Повторный Close безопасен
	if err := writer.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
