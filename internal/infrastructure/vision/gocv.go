//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

// GoCVSegmenter сегментатор на OpenCV.
type GoCVSegmenter struct{}

// NewGoCVSegmenter создаёт сегментатор на OpenCV.
func NewGoCVSegmenter() *GoCVSegmenter {
	return &GoCVSegmenter{}
}

// DefaultSegmenter сегментатор сборки: при теге gocv это OpenCV.
func DefaultSegmenter() port.Segmenter {
	return NewGoCVSegmenter()
}

// Binarize переводит снимок в серый, применяет обратный порог и морфологию.
func (s *GoCVSegmenter) Binarize(img image.Image) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", entity.ErrInput)
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInput, err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, BinaryThreshold, 255, gocv.ThresholdBinaryInv)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(KernelSize, KernelSize))
	defer kernel.Close()

	tmp := gocv.NewMat()
	defer tmp.Close()

	for _, step := range cleanupCascade {
		for i := 0; i < step.iterations; i++ {
			switch step.op {
			case opOpen:
				gocv.MorphologyEx(mask, &tmp, gocv.MorphOpen, kernel)
			case opErode:
				gocv.Erode(mask, &tmp, kernel)
			case opDilate:
				gocv.Dilate(mask, &tmp, kernel)
			}
			tmp.CopyTo(&mask)
		}
	}

	out, err := mask.ToImage()
	if err != nil {
		return nil, err
	}
	g, ok := out.(*image.Gray)
	if !ok {
		return nil, errors.New("mask is not single channel")
	}
	return g, nil
}

// Contours ищет все контуры маски (RetrievalList).
func (s *GoCVSegmenter) Contours(mask *image.Gray) ([]entity.Region, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", entity.ErrInput)
	}

	mat, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	contours := gocv.FindContours(mat, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer contours.Close()

	regions := make([]entity.Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		regions = append(regions, entity.Region{
			Box:  entity.BoxFromRect(gocv.BoundingRect(c)),
			Area: gocv.ContourArea(c),
		})
	}
	return regions, nil
}

// GoCVClassifier классификатор на модуле dnn OpenCV.
// cv::dnn::Net не потокобезопасен, поэтому Forward под мьютексом.
type GoCVClassifier struct {
	mu  sync.Mutex
	net gocv.Net
}

// NewGoCVClassifier загружает ONNX-модель через OpenCV.
func NewGoCVClassifier(modelPath string) (*GoCVClassifier, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: cannot read %s", entity.ErrModelLoad, modelPath)
	}
	return &GoCVClassifier{net: net}, nil
}

// Classify прогоняет область через модель.
func (c *GoCVClassifier) Classify(ctx context.Context, crop image.Image) (entity.Classification, error) {
	if err := ctx.Err(); err != nil {
		return entity.Classification{}, err
	}

	data, err := Preprocess(crop)
	if err != nil {
		return entity.UnclassifiedResult(), err
	}

	blob := gocv.NewMatWithSizes([]int{1, 3, InputSize, InputSize}, gocv.MatTypeCV32F)
	defer blob.Close()
	dst, err := blob.DataPtrFloat32()
	if err != nil {
		return entity.UnclassifiedResult(), fmt.Errorf("%w: %v", entity.ErrRegionDecode, err)
	}
	copy(dst, data)

	c.mu.Lock()
	c.net.SetInput(blob, "")
	out := c.net.Forward("")
	c.mu.Unlock()
	defer out.Close()

	if int(out.Total()) != entity.NumClasses {
		return entity.UnclassifiedResult(), fmt.Errorf("model returned %d values, want %d", out.Total(), entity.NumClasses)
	}

	logits := make([]float32, entity.NumClasses)
	for i := range logits {
		logits[i] = out.GetFloatAt(0, i)
	}
	return FromLogits(logits)
}

// Close освобождает сеть.
func (c *GoCVClassifier) Close() error {
	return c.net.Close()
}

var (
	_ port.Segmenter        = (*GoCVSegmenter)(nil)
	_ port.RegionClassifier = (*GoCVClassifier)(nil)
)
