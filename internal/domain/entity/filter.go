package entity

import "fmt"

// FilterPolicy набор геометрических правил отбора областей.
//
// Coarse применяется при первом проходе по большому снимку,
// Strict - при повторном поиске внутри найденной области.
type FilterPolicy struct {
	Name string

	MaxHeightDiv int     // отбрасываем, если h > H/MaxHeightDiv
	MinArea      float64 // отбрасываем, если area < MinArea
	MaxArea      float64 // отбрасываем, если area > MaxArea
	MaxAspect    float64 // отбрасываем, если w/h или h/w > MaxAspect

	MinSide       int // 0 - без ограничения
	MaxWidthFrac  int // отбрасываем, если w > W/MaxWidthFrac; 0 - без ограничения
	MaxHeightFrac int // отбрасываем, если h > H/MaxHeightFrac; 0 - без ограничения
}

var (
	// CoarsePolicy правила первого прохода.
	CoarsePolicy = FilterPolicy{
		Name:         "coarse",
		MaxHeightDiv: 2,
		MinArea:      800,
		MaxArea:      150000,
		MaxAspect:    3,
	}

	// StrictPolicy правила уточняющего прохода.
	StrictPolicy = FilterPolicy{
		Name:          "strict",
		MaxHeightDiv:  3,
		MinArea:       1000,
		MaxArea:       50000,
		MaxAspect:     2,
		MinSide:       30,
		MaxWidthFrac:  4,
		MaxHeightFrac: 4,
	}
)

// PolicyByName возвращает политику по имени ("coarse" или "strict").
func PolicyByName(name string) (FilterPolicy, error) {
	switch name {
	case CoarsePolicy.Name:
		return CoarsePolicy, nil
	case StrictPolicy.Name:
		return StrictPolicy, nil
	default:
		return FilterPolicy{}, fmt.Errorf("unknown filter policy %q", name)
	}
}

// Reject возвращает причину отказа или пустую строку, если область подходит.
func (p FilterPolicy) Reject(r Region, imageWidth, imageHeight int) string {
	w, h := r.Box.Width, r.Box.Height
	if w <= 0 || h <= 0 {
		return "empty box"
	}

	var reasons []string
	if p.MaxHeightDiv > 0 && h > imageHeight/p.MaxHeightDiv {
		reasons = append(reasons, "too tall")
	}
	if r.Area < p.MinArea {
		reasons = append(reasons, "area too small")
	}
	if r.Area > p.MaxArea {
		reasons = append(reasons, "area too large")
	}
	if float64(w)/float64(h) > p.MaxAspect {
		reasons = append(reasons, "too wide")
	}
	if float64(h)/float64(w) > p.MaxAspect {
		reasons = append(reasons, "too narrow")
	}
	if p.MinSide > 0 && (w < p.MinSide || h < p.MinSide) {
		reasons = append(reasons, "side too short")
	}
	if p.MaxWidthFrac > 0 && w > imageWidth/p.MaxWidthFrac {
		reasons = append(reasons, "wider than image fraction")
	}
	if p.MaxHeightFrac > 0 && h > imageHeight/p.MaxHeightFrac {
		reasons = append(reasons, "taller than image fraction")
	}

	if len(reasons) == 0 {
		return ""
	}
	return reasons[0]
}

// Accept сообщает, проходит ли область все правила политики.
func (p FilterPolicy) Accept(r Region, imageWidth, imageHeight int) bool {
	return p.Reject(r, imageWidth, imageHeight) == ""
}

// Filter оставляет области, прошедшие политику. Координаты не меняются.
func (p FilterPolicy) Filter(regions []Region, imageWidth, imageHeight int) []BoundingBox {
	boxes := make([]BoundingBox, 0, len(regions))
	for _, r := range regions {
		if p.Accept(r, imageWidth, imageHeight) {
			boxes = append(boxes, r.Box)
		}
	}
	return boxes
}
