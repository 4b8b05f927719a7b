// Запись клипа с микрофона в 16kHz моно WAV или MP3
// Запуск: go run ./cmd/recordclip
// Остановка: Ctrl+C

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"quartzasr/audio"
)

const sampleRate = 16000

func main() {
	output := flag.String("output", "", "Output file path (default: clip-<uuid>.wav)")
	asMP3 := flag.Bool("mp3", false, "Encode to MP3 instead of WAV")
	flag.Parse()

	outputPath := *output
	if outputPath == "" {
		ext := ".wav"
		if *asMP3 {
			ext = ".mp3"
		}
		outputPath = fmt.Sprintf("clip-%s%s", uuid.NewString()[:8], ext)
	}

	log.Println("=== Запись клипа с микрофона ===")
	log.Printf("Выходной файл: %s", outputPath)
	log.Printf("Формат: %dHz, моно, PCM16", sampleRate)
	log.Println("Нажмите Ctrl+C для остановки...")

	capture, err := audio.NewCapture(sampleRate)
	if err != nil {
		log.Fatalf("Ошибка инициализации захвата: %v", err)
	}
	defer capture.Close()

	// Писатель выбирается по формату, интерфейс общий
	var writer interface {
		Write([]int16) error
		SamplesWritten() int64
		Close() error
	}
	if *asMP3 {
		writer, err = audio.NewMP3Writer(outputPath, sampleRate, 1)
	} else {
		writer, err = audio.NewWAVWriter(outputPath, sampleRate, 1)
	}
	if err != nil {
		log.Fatalf("Ошибка создания файла: %v", err)
	}

	if err := capture.Start(); err != nil {
		log.Fatalf("Ошибка запуска захвата: %v", err)
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for samples := range capture.Data() {
			if err := writer.Write(samples); err != nil {
				log.Printf("Ошибка записи: %v", err)
				return
			}
		}
	}()

	<-stopChan
	log.Println("Остановка записи...")

	capture.Stop()
	capture.Close()

	<-done
	if err := writer.Close(); err != nil {
		log.Fatalf("Ошибка закрытия файла: %v", err)
	}

	duration := float64(writer.SamplesWritten()) / float64(sampleRate)
	log.Printf("Готово! Записано %.1f секунд", duration)
	log.Printf("Файл: %s", outputPath)
}
