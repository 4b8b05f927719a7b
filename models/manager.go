package models

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Manager управляет локальными копиями моделей
type Manager struct {
	modelsDir string
	mu        sync.Mutex
}

// NewManager создаёт менеджер моделей
func NewManager(modelsDir string) (*Manager, error) {
	if err := os.MkdirAll(modelsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create models directory: %w", err)
	}

	return &Manager{modelsDir: modelsDir}, nil
}

// ModelsDir возвращает путь к директории моделей
func (m *Manager) ModelsDir() string {
	return m.modelsDir
}

// ModelPath возвращает путь к файлу модели
func (m *Manager) ModelPath(modelID string) string {
	return filepath.Join(m.modelsDir, modelID+".onnx")
}

// AlphabetPath возвращает путь к файлу алфавита модели
func (m *Manager) AlphabetPath(modelID string) string {
	return filepath.Join(m.modelsDir, modelID+"_alphabet.txt")
}

// IsDownloaded проверяет, скачана ли модель
func (m *Manager) IsDownloaded(modelID string) bool {
	info := GetModelByID(modelID)
	if info == nil {
		return false
	}

	if _, err := os.Stat(m.ModelPath(modelID)); err != nil {
		return false
	}
	if info.AlphabetURL != "" {
		if _, err := os.Stat(m.AlphabetPath(modelID)); err != nil {
			return false
		}
	}
	return true
}

// EnsureModel скачивает модель и алфавит, если их ещё нет локально
func (m *Manager) EnsureModel(ctx context.Context, modelID string, onProgress ProgressFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := GetModelByID(modelID)
	if info == nil {
		return fmt.Errorf("unknown model: %s", modelID)
	}

	if m.IsDownloaded(modelID) {
		return nil
	}

	log.Printf("Downloading model %s (%s)", info.ID, info.Size)
	if err := DownloadFile(ctx, info.DownloadURL, m.ModelPath(modelID), info.SizeBytes, onProgress); err != nil {
		return fmt.Errorf("failed to download model %s: %w", modelID, err)
	}

	if info.AlphabetURL != "" {
		if err := DownloadFile(ctx, info.AlphabetURL, m.AlphabetPath(modelID), 0, nil); err != nil {
			return fmt.Errorf("failed to download alphabet for %s: %w", modelID, err)
		}
	}

	log.Printf("Model %s downloaded to %s", modelID, m.modelsDir)
	return nil
}
