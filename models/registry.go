// Package models предоставляет реестр и загрузку акустических моделей
package models

// ModelInfo информация о модели
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        string `json:"size"`
	SizeBytes   int64  `json:"sizeBytes"`
	Description string `json:"description"`
	Language    string `json:"language"`
	WER         string `json:"wer,omitempty"`
	Recommended bool   `json:"recommended,omitempty"`
	DownloadURL string `json:"downloadUrl"`
	AlphabetURL string `json:"alphabetUrl,omitempty"` // URL файла алфавита
}

// ModelStatus статус модели на устройстве
type ModelStatus string

const (
	ModelStatusNotDownloaded ModelStatus = "not_downloaded"
	ModelStatusDownloading   ModelStatus = "downloading"
	ModelStatusDownloaded    ModelStatus = "downloaded"
	ModelStatusError         ModelStatus = "error"
)

// Registry реестр доступных CTC моделей
var Registry = []ModelInfo{
	{
		ID:          "quartznet-15x5-en",
		Name:        "QuartzNet 15x5 EN",
		Size:        "71 MB",
		SizeBytes:   71_000_000,
		Description: "Character-level CTC модель для английского языка",
		Language:    "en",
		WER:         "4.0%",
		Recommended: true,
		DownloadURL: "https://huggingface.co/istupakov/stt-en-quartznet15x5-onnx/resolve/main/quartznet15x5.onnx",
		AlphabetURL: "https://huggingface.co/istupakov/stt-en-quartznet15x5-onnx/resolve/main/alphabet.txt",
	},
	{
		ID:          "quartznet-15x5-en-int8",
		Name:        "QuartzNet 15x5 EN (INT8)",
		Size:        "19 MB",
		SizeBytes:   19_000_000,
		Description: "Квантизованная CTC модель, быстрее на CPU",
		Language:    "en",
		WER:         "4.4%",
		DownloadURL: "https://huggingface.co/istupakov/stt-en-quartznet15x5-onnx/resolve/main/quartznet15x5.int8.onnx",
		AlphabetURL: "https://huggingface.co/istupakov/stt-en-quartznet15x5-onnx/resolve/main/alphabet.txt",
	},
}

// GetModelByID возвращает модель по ID
func GetModelByID(id string) *ModelInfo {
	for _, m := range Registry {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// GetRecommendedModels возвращает рекомендуемые модели
func GetRecommendedModels() []ModelInfo {
	var result []ModelInfo
	for _, m := range Registry {
		if m.Recommended {
			result = append(result, m)
		}
	}
	return result
}

// GetModelsByLanguage возвращает модели для языка
func GetModelsByLanguage(lang string) []ModelInfo {
	var result []ModelInfo
	for _, m := range Registry {
		if m.Language == lang {
			result = append(result, m)
		}
	}
	return result
}
