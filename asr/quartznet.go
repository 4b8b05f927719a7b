package asr

import (
	"fmt"
	"log"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// QuartzNetClassifier акустическая модель QuartzNet-семейства (ONNX).
// Вход: log-mel признаки (1, NMels, T), выход: per-frame логиты символов
type QuartzNetClassifier struct {
	session     *ort.DynamicAdvancedSession
	modelPath   string
	inputCount  int
	mu          sync.Mutex
	initialized bool
}

// Проверяем что QuartzNetClassifier реализует Classifier
var _ Classifier = (*QuartzNetClassifier)(nil)

// NewQuartzNetClassifier создаёт классификатор из ONNX модели.
// modelPath - путь к модели (например quartznet15x5.onnx)
func NewQuartzNetClassifier(modelPath string) (*QuartzNetClassifier, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}

	if err := initONNXRuntime(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
	}

	// Получаем имена входов/выходов модели
	inputInfo, outputInfo, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get model info: %w", err)
	}

	inputNames := make([]string, len(inputInfo))
	for i, info := range inputInfo {
		inputNames[i] = info.Name
	}
	outputNames := make([]string, len(outputInfo))
	for i, info := range outputInfo {
		outputNames[i] = info.Name
	}

	log.Printf("QuartzNet model inputs: %v, outputs: %v", inputNames, outputNames)

	session, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, outputNames, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &QuartzNetClassifier{
		session:     session,
		modelPath:   modelPath,
		inputCount:  len(inputNames),
		initialized: true,
	}, nil
}

// ONNX Runtime глобальная инициализация
var (
	onnxInitialized bool
	onnxInitMu      sync.Mutex
)

func initONNXRuntime() error {
	onnxInitMu.Lock()
	defer onnxInitMu.Unlock()

	if onnxInitialized {
		return nil
	}

	// Путь к библиотеке из переменной окружения или стандартных мест
	libPath := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")
	if libPath == "" {
		searchPaths := []string{
			"./libonnxruntime.so",
			"./libonnxruntime.dylib",
			"/usr/local/lib/libonnxruntime.so",
			"/usr/lib/libonnxruntime.so",
		}
		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				libPath = path
				break
			}
		}
	}

	if libPath == "" {
		return fmt.Errorf("ONNX Runtime library not found")
	}

	log.Printf("Using ONNX Runtime library: %s", libPath)
	ort.SetSharedLibraryPath(libPath)

	if err := ort.InitializeEnvironment(); err != nil {
		return err
	}

	onnxInitialized = true
	log.Println("ONNX Runtime initialized successfully")
	return nil
}

// Name возвращает имя классификатора
func (c *QuartzNetClassifier) Name() string {
	return "quartznet"
}

// Infer выполняет проход модели и возвращает per-frame логиты [T][vocab]
func (c *QuartzNetClassifier) Infer(features *FeatureTensor) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return nil, fmt.Errorf("classifier is closed")
	}

	inputShape := ort.NewShape(features.Shape()...)
	inputTensor, err := ort.NewTensor(inputShape, features.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	inputs := []ort.Value{inputTensor}

	// Некоторые экспорты модели принимают второй вход - длину в фреймах
	if c.inputCount > 1 {
		lengthData := []int64{int64(features.NFrames)}
		lengthShape := ort.NewShape(1)
		lengthTensor, err := ort.NewTensor(lengthShape, lengthData)
		if err != nil {
			return nil, fmt.Errorf("failed to create length tensor: %w", err)
		}
		defer lengthTensor.Destroy()
		inputs = append(inputs, lengthTensor)
	}

	outputs := []ort.Value{nil}
	if err := c.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("failed to run inference: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				out.Destroy()
			}
		}
	}()

	outputTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type")
	}
	outputShape := outputTensor.GetShape()
	outputData := outputTensor.GetData()

	if len(outputShape) != 3 {
		return nil, fmt.Errorf("unexpected output shape: %v", outputShape)
	}

	// Выход (1, T, vocab): режем плоский массив на фреймы.
	// Данные копируются - outputTensor уничтожается при выходе
	timeSteps := int(outputShape[1])
	vocabSize := int(outputShape[2])

	frames := make([][]float32, timeSteps)
	for t := 0; t < timeSteps; t++ {
		frame := make([]float32, vocabSize)
		copy(frame, outputData[t*vocabSize:(t+1)*vocabSize])
		frames[t] = frame
	}

	return frames, nil
}

// Close освобождает ONNX сессию
func (c *QuartzNetClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
	c.initialized = false
	return nil
}
