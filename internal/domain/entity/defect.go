package entity

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// BoundingBox прямоугольная область на изображении
type BoundingBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// BoxFromRect строит рамку из image.Rectangle
func BoxFromRect(r image.Rectangle) BoundingBox {
	r = r.Canon()
	return BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect возвращает рамку как image.Rectangle
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Center возвращает координаты центра рамки
func (b BoundingBox) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Empty сообщает, что у рамки нет площади
func (b BoundingBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Clamp обрезает рамку по границам изображения width x height.
func (b BoundingBox) Clamp(width, height int) BoundingBox {
	return BoxFromRect(b.Rect().Intersect(image.Rect(0, 0, width, height)))
}

// Location форматирует рамку как "(x,y,w,h)" для записи в хранилище.
func (b BoundingBox) Location() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", b.X, b.Y, b.Width, b.Height)
}

// ParseLocation разбирает строку "(x,y,w,h)" обратно в рамку.
// Старый префикс "位置" из исторических записей допускается.
func ParseLocation(s string) (BoundingBox, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "位置")
	clean = strings.TrimPrefix(clean, "(")
	clean = strings.TrimSuffix(clean, ")")

	parts := strings.Split(clean, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("location %q: expected 4 values, got %d", s, len(parts))
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return BoundingBox{}, fmt.Errorf("location %q: %w", s, err)
		}
		v[i] = n
	}

	return BoundingBox{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// Region контур, найденный на бинарной маске
type Region struct {
	Box  BoundingBox
	Area float64 // площадь самого контура, не рамки
}

// Candidate область-кандидат, прошедшая фильтр
type Candidate struct {
	Index int // порядковый номер в списке кандидатов изображения
	Box   BoundingBox
}
