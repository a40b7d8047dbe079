package entity

import "time"

// Summary счётчики категорий по одному изображению
type Summary struct {
	Normal       int `json:"normal" yaml:"normal"`
	Scratch      int `json:"scratch" yaml:"scratch"`
	CoatingGap   int `json:"coating_gap" yaml:"coating_gap"`
	Unclassified int `json:"unclassified" yaml:"unclassified"` // входят в Normal
}

// Add учитывает одну классификацию
func (s *Summary) Add(c Classification) Category {
	category := c.Category()
	switch category {
	case CategoryScratch:
		s.Scratch++
	case CategoryCoatingGap:
		s.CoatingGap++
	default:
		s.Normal++
		if c.Unclassified {
			s.Unclassified++
		}
	}
	return category
}

// Defects количество дефектных областей
func (s Summary) Defects() int {
	return s.Scratch + s.CoatingGap
}

// Total количество учтённых областей
func (s Summary) Total() int {
	return s.Normal + s.Scratch + s.CoatingGap
}

// DefectRecord найденный дефект на исходном изображении
type DefectRecord struct {
	SourceImageID string
	Category      Category
	Confidence    float64
	Box           BoundingBox
	Timestamp     time.Time
}

// InspectionResult хранит итог анализа изображения.
type InspectionResult struct {
	ImageID         string           // идентификатор исходного изображения
	ImageWidth      int              // ширина изображения
	ImageHeight     int              // высота изображения
	Candidates      []Candidate      // области после фильтра, в порядке обнаружения
	Classifications []Classification // по одной на каждого кандидата
	Summary         Summary          // счётчики категорий
	Records         []DefectRecord   // только дефектные области
	Interrupted     bool             // проверка остановлена до обработки всех областей
	Duration        time.Duration
}

// HasDefects флаг наличия дефектов
func (r *InspectionResult) HasDefects() bool {
	return len(r.Records) > 0
}

// Localization результат поиска областей без классификации
type Localization struct {
	ImageWidth  int
	ImageHeight int
	Regions     []Region      // все контуры маски
	Boxes       []BoundingBox // прошедшие фильтр
	Policy      string
}
