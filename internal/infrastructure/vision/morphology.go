package vision

import "image"

// erode сжимает белые области ядром 3x3.
// Пиксели за краем не участвуют, как у OpenCV по умолчанию.
func erode(src *image.Gray) *image.Gray {
	return rankFilter3(src, false)
}

// dilate расширяет белые области ядром 3x3.
func dilate(src *image.Gray) *image.Gray {
	return rankFilter3(src, true)
}

// rankFilter3 прямоугольное ядро раскладывается на проходы 1x3 и 3x1.
func rankFilter3(src *image.Gray, grow bool) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	tmp := make([]uint8, w*h)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		out := tmp[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			v := row[x]
			if x > 0 {
				v = pick(v, row[x-1], grow)
			}
			if x+1 < w {
				v = pick(v, row[x+1], grow)
			}
			out[x] = v
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := 0; x < w; x++ {
			v := tmp[y*w+x]
			if y > 0 {
				v = pick(v, tmp[(y-1)*w+x], grow)
			}
			if y+1 < h {
				v = pick(v, tmp[(y+1)*w+x], grow)
			}
			out[x] = v
		}
	}

	return dst
}

func pick(a, b uint8, grow bool) uint8 {
	if grow == (b > a) {
		return b
	}
	return a
}
