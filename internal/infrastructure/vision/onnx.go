package vision

import (
	"context"
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

var (
	ortOnce sync.Once
	ortErr  error
)

// initRuntime инициализирует окружение onnxruntime один раз на процесс.
func initRuntime(libraryPath string) error {
	ortOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortErr = ort.InitializeEnvironment()
	})
	return ortErr
}

// ONNXClassifier классификатор областей на onnxruntime.
// Сессия onnxruntime допускает параллельные вызовы Run.
type ONNXClassifier struct {
	session    *ort.DynamicAdvancedSession
	options    *ort.SessionOptions
	inputName  string
	outputName string
}

// NewONNXClassifier загружает модель и проверяет, что у неё 8 выходов.
func NewONNXClassifier(modelPath, libraryPath string) (*ONNXClassifier, error) {
	if err := initRuntime(libraryPath); err != nil {
		return nil, fmt.Errorf("%w: onnxruntime init: %v", entity.ErrModelLoad, err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", entity.ErrModelLoad, modelPath, err)
	}
	if len(inputs) != 1 || len(outputs) == 0 {
		return nil, fmt.Errorf("%w: unexpected graph signature (%d inputs, %d outputs)",
			entity.ErrModelLoad, len(inputs), len(outputs))
	}
	dims := outputs[0].Dimensions
	if len(dims) == 0 || dims[len(dims)-1] != entity.NumClasses {
		return nil, fmt.Errorf("%w: output shape %v, want %d classes",
			entity.ErrModelLoad, dims, entity.NumClasses)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: session options: %v", entity.ErrModelLoad, err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, options)
	if err != nil {
		options.Destroy()
		return nil, fmt.Errorf("%w: create session: %v", entity.ErrModelLoad, err)
	}

	return &ONNXClassifier{
		session:    session,
		options:    options,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
	}, nil
}

// Classify прогоняет область через модель.
func (c *ONNXClassifier) Classify(ctx context.Context, crop image.Image) (entity.Classification, error) {
	if err := ctx.Err(); err != nil {
		return entity.Classification{}, err
	}

	data, err := Preprocess(crop)
	if err != nil {
		return entity.UnclassifiedResult(), err
	}

	input, err := ort.NewTensor(ort.NewShape(1, 3, InputSize, InputSize), data)
	if err != nil {
		return entity.UnclassifiedResult(), fmt.Errorf("%w: input tensor: %v", entity.ErrRegionDecode, err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := c.session.Run([]ort.Value{input}, outputs); err != nil {
		return entity.UnclassifiedResult(), fmt.Errorf("run %s: %w", c.outputName, err)
	}
	defer outputs[0].Destroy()

	logits, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return entity.UnclassifiedResult(), fmt.Errorf("output %s is not float32", c.outputName)
	}

	return FromLogits(logits.GetData())
}

// Close освобождает сессию.
func (c *ONNXClassifier) Close() error {
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			return err
		}
	}
	if c.options != nil {
		return c.options.Destroy()
	}
	return nil
}

var _ port.RegionClassifier = (*ONNXClassifier)(nil)
