// quartzasr: оффлайн распознавание речи файла через CTC модель.
// Запуск: go run . -input speech.wav
package main

import (
	"context"
	"log"
	"os"
	"time"

	"quartzasr/asr"
	"quartzasr/audio"
	"quartzasr/internal/config"
	"quartzasr/models"
)

func main() {
	cfg := config.Load()

	if cfg.InputPath == "" {
		log.Fatal("no input file: use -input path/to/audio.wav")
	}

	modelPath, alphabetPath, err := resolveModel(cfg)
	if err != nil {
		log.Fatalf("Failed to resolve model: %v", err)
	}

	// Алфавит: из файла модели или встроенный английский
	var alphabet *asr.Alphabet
	if alphabetPath != "" {
		alphabet, err = asr.LoadAlphabetFile(alphabetPath)
		if err != nil {
			log.Fatalf("Failed to load alphabet: %v", err)
		}
	} else {
		alphabet, err = asr.NewAlphabet(asr.EnglishAlphabet)
		if err != nil {
			log.Fatalf("Failed to build alphabet: %v", err)
		}
	}

	featureConfig := asr.DefaultFeatureConfig()

	clip, err := audio.ReadFile(cfg.InputPath)
	if err != nil {
		log.Fatalf("Failed to read audio: %v", err)
	}
	log.Printf("Loaded %s: %.2f sec, %d Hz", cfg.InputPath, clip.Duration(), clip.SampleRate)

	// Экстрактор требует 16kHz: приводим частоту заранее
	if clip.SampleRate != featureConfig.SampleRate {
		log.Printf("Resampling %d Hz -> %d Hz", clip.SampleRate, featureConfig.SampleRate)
		clip = audio.Resample(clip, featureConfig.SampleRate)
	}

	extractor, err := asr.NewFeatureExtractor(featureConfig)
	if err != nil {
		log.Fatalf("Failed to create feature extractor: %v", err)
	}

	classifier, err := asr.NewQuartzNetClassifier(modelPath)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	recognizer := asr.NewRecognizer(extractor, classifier, alphabet)
	defer recognizer.Close()

	start := time.Now()
	text, err := recognizer.Transcribe(clip.Samples, clip.SampleRate)
	if err != nil {
		log.Fatalf("Transcription failed: %v", err)
	}
	log.Printf("Transcribed %.2f sec of audio in %v", clip.Duration(), time.Since(start))

	os.Stdout.WriteString(text + "\n")
}

// resolveModel возвращает пути к модели и алфавиту: локальный путь из флагов
// или модель из реестра (при необходимости скачивается)
func resolveModel(cfg *config.Config) (modelPath, alphabetPath string, err error) {
	if cfg.ModelPath != "" {
		return cfg.ModelPath, cfg.AlphabetPath, nil
	}

	manager, err := models.NewManager(cfg.ModelsDir)
	if err != nil {
		return "", "", err
	}

	if !manager.IsDownloaded(cfg.Model) && cfg.Download {
		lastPercent := -1
		err := manager.EnsureModel(context.Background(), cfg.Model, func(progress float64) {
			// Логируем каждые 10%
			percent := int(progress) / 10 * 10
			if percent != lastPercent {
				lastPercent = percent
				log.Printf("Downloading %s: %d%%", cfg.Model, percent)
			}
		})
		if err != nil {
			return "", "", err
		}
	}

	alphabetPath = cfg.AlphabetPath
	if alphabetPath == "" {
		if info := models.GetModelByID(cfg.Model); info != nil && info.AlphabetURL != "" {
			alphabetPath = manager.AlphabetPath(cfg.Model)
		}
	}

	return manager.ModelPath(cfg.Model), alphabetPath, nil
}
