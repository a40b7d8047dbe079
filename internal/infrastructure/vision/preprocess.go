package vision

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"film-inspector/internal/domain/entity"
)

// InputSize сторона входа классификатора.
const InputSize = 224

// Нормализация ImageNet, с ней обучалась модель.
var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// Crop вырезает область. Рамка обрезается по границам изображения.
func Crop(img image.Image, box entity.BoundingBox) (image.Image, error) {
	b := img.Bounds()
	r := box.Rect().Add(b.Min).Intersect(b)
	if r.Empty() {
		return nil, fmt.Errorf("%w: box %s is outside the image", entity.ErrRegionDecode, box.Location())
	}
	return imaging.Crop(img, r), nil
}

// Preprocess готовит тензор 1x3x224x224 (CHW, RGB) для классификатора.
func Preprocess(crop image.Image) ([]float32, error) {
	if crop == nil || crop.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty crop", entity.ErrRegionDecode)
	}

	resized := imaging.Resize(crop, InputSize, InputSize, imaging.Linear)

	plane := InputSize * InputSize
	tensor := make([]float32, 3*plane)
	for y := 0; y < InputSize; y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < InputSize; x++ {
			p := y*InputSize + x
			for c := 0; c < 3; c++ {
				v := float32(row[x*4+c]) / 255
				tensor[c*plane+p] = (v - channelMean[c]) / channelStd[c]
			}
		}
	}

	return tensor, nil
}

// FromLogits считает softmax и выбирает класс с максимальной вероятностью.
// При равенстве берётся меньший индекс.
func FromLogits(logits []float32) (entity.Classification, error) {
	if len(logits) == 0 {
		return entity.Classification{}, errors.New("empty model output")
	}

	best := 0
	for i, v := range logits {
		if v > logits[best] {
			best = i
		}
	}

	maxLogit := float64(logits[best])
	var sum float64
	for _, v := range logits {
		sum += math.Exp(float64(v) - maxLogit)
	}

	return entity.Classification{
		ClassIndex: best,
		Confidence: 1 / sum,
	}, nil
}
