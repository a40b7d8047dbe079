package vision

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"film-inspector/internal/domain/entity"
)

// AnnotateMode вид итоговой картинки.
type AnnotateMode int

const (
	// AnnotateCategories цвет и подпись по категории дефекта.
	AnnotateCategories AnnotateMode = iota
	// AnnotateLocations все дефекты одним цветом.
	AnnotateLocations
)

const (
	boxThickness = 2
	labelOffset  = 10
)

var (
	colorScratch    = color.RGBA{G: 255, A: 255}
	colorCoatingGap = color.RGBA{R: 255, A: 255}
	colorLocation   = color.RGBA{G: 255, A: 255}
)

// CategoryColor цвет рамки для категории.
func CategoryColor(c entity.Category) color.RGBA {
	if c == entity.CategoryCoatingGap {
		return colorCoatingGap
	}
	return colorScratch
}

// Annotate рисует рамки дефектов на копии снимка. Исходное изображение не меняется.
func Annotate(src image.Image, records []entity.DefectRecord, mode AnnotateMode) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)

	for _, rec := range records {
		if !rec.Category.IsDefect() {
			continue
		}

		clr, label := CategoryColor(rec.Category), rec.Category.ShortLabel()
		if mode == AnnotateLocations {
			clr, label = colorLocation, "defect"
		}

		drawBox(out, rec.Box.Rect(), clr)
		drawLabel(out, rec.Box.X, rec.Box.Y-labelOffset, label, clr)
	}

	return out
}

func drawBox(img *image.RGBA, r image.Rectangle, clr color.RGBA) {
	u := image.NewUniform(clr)
	for i := 0; i < boxThickness; i++ {
		inner := r.Inset(i)
		if inner.Empty() {
			return
		}
		edges := []image.Rectangle{
			image.Rect(inner.Min.X, inner.Min.Y, inner.Max.X, inner.Min.Y+1),
			image.Rect(inner.Min.X, inner.Max.Y-1, inner.Max.X, inner.Max.Y),
			image.Rect(inner.Min.X, inner.Min.Y, inner.Min.X+1, inner.Max.Y),
			image.Rect(inner.Max.X-1, inner.Min.Y, inner.Max.X, inner.Max.Y),
		}
		for _, e := range edges {
			draw.Draw(img, e.Intersect(img.Bounds()), u, image.Point{}, draw.Src)
		}
	}
}

// drawLabel пишет текст; baseline не выше высоты шрифта, иначе подпись уйдёт за край.
func drawLabel(img *image.RGBA, x, baseline int, text string, clr color.RGBA) {
	face := basicfont.Face7x13
	if top := face.Metrics().Ascent.Ceil(); baseline < top {
		baseline = top
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.P(max(x, 0), baseline),
	}
	d.DrawString(text)
}
