package asr

// MockClassifier заглушка классификатора для тестов:
// возвращает заранее заданные per-frame оценки
type MockClassifier struct {
	Frames  [][]float32
	Err     error
	Calls   int
	LastIn  *FeatureTensor
	InferFn func(features *FeatureTensor) ([][]float32, error)
}

var _ Classifier = (*MockClassifier)(nil)

// Infer возвращает подготовленные оценки
func (m *MockClassifier) Infer(features *FeatureTensor) ([][]float32, error) {
	m.Calls++
	m.LastIn = features
	if m.InferFn != nil {
		return m.InferFn(features)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Frames, nil
}

// Close ничего не делает
func (m *MockClassifier) Close() error {
	return nil
}

// Name возвращает имя заглушки
func (m *MockClassifier) Name() string {
	return "mock"
}
