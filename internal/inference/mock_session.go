package inference

import "github.com/relieftext/reliefocr/internal/tensor"

// MockSession is a Session stub for tests: it invokes a caller-supplied
// function instead of a real ONNX backend.
type MockSession struct {
	RunFunc func(t tensor.Tensor) (tensor.Tensor, error)
	Closed  bool
}

// Run delegates to RunFunc.
func (m *MockSession) Run(t tensor.Tensor) (tensor.Tensor, error) {
	return m.RunFunc(t)
}

// Close marks the mock closed.
func (m *MockSession) Close() error {
	m.Closed = true
	return nil
}
