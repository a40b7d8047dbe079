package vision

import (
	"image"
	"math"

	"film-inspector/internal/domain/entity"
)

// neighbours восемь соседей по часовой стрелке (ось Y вниз), начиная с востока.
var neighbours = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// directionOf возвращает индекс соседа по смещению.
func directionOf(dx, dy int) int {
	for i, n := range neighbours {
		if n.X == dx && n.Y == dy {
			return i
		}
	}
	return 0
}

// borderTracer обход границ по Suzuki-Abe. Метки хранятся в сетке
// с рамкой в один нулевой пиксель, поэтому соседей можно не проверять на выход за край.
type borderTracer struct {
	labels []int32
	stride int
}

func (t *borderTracer) at(x, y int) int32 {
	return t.labels[y*t.stride+x]
}

func (t *borderTracer) set(x, y int, v int32) {
	t.labels[y*t.stride+x] = v
}

// findContours возвращает все границы маски (внешние и границы дыр)
// в порядке растрового обхода. Ненулевые пиксели считаются передним планом.
func findContours(mask *image.Gray) []entity.Region {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	t := &borderTracer{
		labels: make([]int32, (w+2)*(h+2)),
		stride: w + 2,
	}
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, v := range row {
			if v != 0 {
				t.set(x+1, y+1, 1)
			}
		}
	}

	var regions []entity.Region
	var nbd int32 = 1

	for y := 1; y <= h; y++ {
		for x := 1; x <= w; x++ {
			v := t.at(x, y)
			switch {
			case v == 1 && t.at(x-1, y) == 0:
				nbd++
				regions = append(regions, t.follow(x, y, x-1, y, nbd))
			case v >= 1 && t.at(x+1, y) == 0:
				nbd++
				regions = append(regions, t.follow(x, y, x+1, y, nbd))
			}
		}
	}

	return regions
}

// follow обходит одну границу, начиная с (x, y); (fromX, fromY) - нулевой сосед старта.
func (t *borderTracer) follow(x, y, fromX, fromY int, nbd int32) entity.Region {
	var acc contourAccumulator

	start := directionOf(fromX-x, fromY-y)
	first := -1
	for k := 0; k < 8; k++ {
		d := (start + k) % 8
		if t.at(x+neighbours[d].X, y+neighbours[d].Y) != 0 {
			first = d
			break
		}
	}
	if first < 0 {
		// одиночный пиксель
		t.set(x, y, -nbd)
		acc.add(x, y)
		return acc.region()
	}

	x1, y1 := x+neighbours[first].X, y+neighbours[first].Y
	x2, y2 := x1, y1
	x3, y3 := x, y

	for {
		d := directionOf(x2-x3, y2-y3)
		eastIsZero := false
		x4, y4 := x2, y2
		for k := 1; k <= 8; k++ {
			nd := (d - k + 8) % 8
			nx, ny := x3+neighbours[nd].X, y3+neighbours[nd].Y
			if t.at(nx, ny) != 0 {
				x4, y4 = nx, ny
				break
			}
			if nd == 0 {
				eastIsZero = true
			}
		}

		if eastIsZero {
			t.set(x3, y3, -nbd)
		} else if t.at(x3, y3) == 1 {
			t.set(x3, y3, nbd)
		}
		acc.add(x3, y3)

		if x4 == x && y4 == y && x3 == x1 && y3 == y1 {
			break
		}
		x2, y2 = x3, y3
		x3, y3 = x4, y4
	}

	return acc.region()
}

// contourAccumulator считает рамку и площадь многоугольника по формуле шнурков
// без хранения всех точек границы.
type contourAccumulator struct {
	n                      int
	minX, minY, maxX, maxY int
	firstX, firstY         int
	prevX, prevY           int
	twiceArea              int64
}

func (a *contourAccumulator) add(x, y int) {
	if a.n == 0 {
		a.minX, a.maxX, a.minY, a.maxY = x, x, y, y
		a.firstX, a.firstY = x, y
	} else {
		a.minX = min(a.minX, x)
		a.maxX = max(a.maxX, x)
		a.minY = min(a.minY, y)
		a.maxY = max(a.maxY, y)
		a.twiceArea += int64(a.prevX)*int64(y) - int64(x)*int64(a.prevY)
	}
	a.prevX, a.prevY = x, y
	a.n++
}

// region переводит координаты из сетки с рамкой обратно в координаты маски.
func (a *contourAccumulator) region() entity.Region {
	closing := int64(a.prevX)*int64(a.firstY) - int64(a.firstX)*int64(a.prevY)
	area := math.Abs(float64(a.twiceArea+closing)) / 2

	return entity.Region{
		Box: entity.BoundingBox{
			X:      a.minX - 1,
			Y:      a.minY - 1,
			Width:  a.maxX - a.minX + 1,
			Height: a.maxY - a.minY + 1,
		},
		Area: area,
	}
}
