package config

import (
	"flag"
	"path/filepath"
)

type Config struct {
	InputPath    string
	Model        string
	ModelPath    string
	AlphabetPath string
	ModelsDir    string
	Download     bool
}

func Load() *Config {
	inputPath := flag.String("input", "", "Path to audio file (.wav or .mp3)")
	model := flag.String("model", "quartznet-15x5-en", "Model ID from the registry")
	modelPath := flag.String("model-path", "", "Path to a local ONNX model (overrides -model)")
	alphabetPath := flag.String("alphabet", "", "Path to alphabet file (default: built-in English alphabet)")
	modelsDir := flag.String("models", "", "Directory for downloaded models (default: data/models)")
	download := flag.Bool("download", true, "Download the model if missing")
	flag.Parse()

	finalModelsDir := *modelsDir
	if finalModelsDir == "" {
		finalModelsDir = filepath.Join("data", "models")
	}

	return &Config{
		InputPath:    *inputPath,
		Model:        *model,
		ModelPath:    *modelPath,
		AlphabetPath: *alphabetPath,
		ModelsDir:    finalModelsDir,
		Download:     *download,
	}
}
