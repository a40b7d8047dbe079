package app

import (
	"time"

	"film-inspector/internal/domain/entity"
)

// Aggregate считает категории и собирает записи о дефектах в порядке кандидатов.
// classes[i] относится к candidates[i].
func Aggregate(imageID string, candidates []entity.Candidate, classes []entity.Classification, at time.Time) (entity.Summary, []entity.DefectRecord) {
	var summary entity.Summary
	records := make([]entity.DefectRecord, 0)

	for i, c := range classes {
		category := summary.Add(c)
		if !category.IsDefect() {
			continue
		}
		records = append(records, entity.DefectRecord{
			SourceImageID: imageID,
			Category:      category,
			Confidence:    c.Confidence,
			Box:           candidates[i].Box,
			Timestamp:     at,
		})
	}

	return summary, records
}
