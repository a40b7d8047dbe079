package app

import (
	"gonum.org/v1/gonum/stat"

	"film-inspector/internal/domain/entity"
)

// CategoryStats уверенность модели по одной категории.
type CategoryStats struct {
	Category       string  `json:"category" yaml:"category"`
	Count          int     `json:"count" yaml:"count"`
	MeanConfidence float64 `json:"mean_confidence" yaml:"mean_confidence"`
	StdConfidence  float64 `json:"std_confidence" yaml:"std_confidence"`
}

// Report сводная статистика по одной или нескольким проверкам.
type Report struct {
	Images     int             `json:"images" yaml:"images"`
	Summary    entity.Summary  `json:"summary" yaml:"summary"`
	DefectRate float64         `json:"defect_rate" yaml:"defect_rate"`
	Categories []CategoryStats `json:"categories" yaml:"categories"`
}

// BuildReport собирает статистику. Нераспознанные области в уверенность не входят.
func BuildReport(results ...*entity.InspectionResult) Report {
	var r Report
	confidences := map[entity.Category][]float64{}

	for _, res := range results {
		if res == nil {
			continue
		}
		r.Images++
		r.Summary.Normal += res.Summary.Normal
		r.Summary.Scratch += res.Summary.Scratch
		r.Summary.CoatingGap += res.Summary.CoatingGap
		r.Summary.Unclassified += res.Summary.Unclassified

		for _, c := range res.Classifications {
			if c.Unclassified {
				continue
			}
			confidences[c.Category()] = append(confidences[c.Category()], c.Confidence)
		}
	}

	if total := r.Summary.Total(); total > 0 {
		r.DefectRate = float64(r.Summary.Defects()) / float64(total)
	}

	for _, category := range []entity.Category{entity.CategoryNormal, entity.CategoryScratch, entity.CategoryCoatingGap} {
		values := confidences[category]
		cs := CategoryStats{Category: category.String(), Count: len(values)}
		switch {
		case len(values) == 1:
			cs.MeanConfidence = values[0]
		case len(values) > 1:
			cs.MeanConfidence, cs.StdConfidence = stat.MeanStdDev(values, nil)
		}
		r.Categories = append(r.Categories, cs)
	}

	return r
}
