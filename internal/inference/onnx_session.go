package inference

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/relieftext/reliefocr/internal/tensor"
)

// ONNXSession wraps a single onnxruntime_go dynamic session behind the
// Session interface. Models are opaque: reliefocr only knows their declared
// input/output names and that they accept an NCHW float32 tensor.
type ONNXSession struct {
	mu       sync.Mutex
	session  *ort.DynamicAdvancedSession
	warm     bool
	inputName, outputName string
}

// NewONNXSession loads a model from modelPath and binds the named input and
// output tensors. The caller is responsible for having called
// ort.SetSharedLibraryPath and ort.InitializeEnvironment beforehand, exactly
// as the teacher's session bootstrap does.
func NewONNXSession(modelPath, inputName, outputName string) (*ONNXSession, error) {
	session, err := ort.NewDynamicAdvancedSession(modelPath, []string{inputName}, []string{outputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("inference: create onnx session: %w", err)
	}
	return &ONNXSession{session: session, inputName: inputName, outputName: outputName}, nil
}

// Run executes the session against t, returning the single named output
// tensor reshaped to whatever shape the backend reports.
func (s *ONNXSession) Run(t tensor.Tensor) (tensor.Tensor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inputOrt, err := ort.NewTensor(ort.NewShape(t.Shape...), t.Data)
	if err != nil {
		return tensor.Tensor{}, fmt.Errorf("inference: build input tensor: %w", err)
	}
	defer inputOrt.Destroy()

	outputs, err := s.session.Run([]ort.Value{inputOrt}, []ort.Value{nil})
	if err != nil {
		return tensor.Tensor{}, fmt.Errorf("inference: run session: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				o.Destroy()
			}
		}
	}()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, fmt.Errorf("inference: unexpected output value type")
	}
	shape := out.GetShape()
	shape64 := make([]int64, len(shape))
	for i, d := range shape {
		shape64[i] = int64(d)
	}
	data := append([]float32{}, out.GetData()...)
	s.warm = true
	return tensor.Tensor{Shape: shape64, Data: data}, nil
}

// Warm reports whether Run has completed at least once, mirroring the
// teacher's warmup-gated readiness check.
func (s *ONNXSession) Warm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warm
}

// Close releases the underlying ONNX session.
func (s *ONNXSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Destroy()
	s.session = nil
	return err
}
