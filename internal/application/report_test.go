package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"film-inspector/internal/domain/entity"
)

func TestBuildReport(t *testing.T) {
	first := &entity.InspectionResult{
		Summary: entity.Summary{Normal: 1, Scratch: 2},
		Classifications: []entity.Classification{
			{ClassIndex: 0, Confidence: 0.5},
			{ClassIndex: 6, Confidence: 0.8},
			{ClassIndex: 6, Confidence: 0.6},
		},
	}
	second := &entity.InspectionResult{
		Summary: entity.Summary{Normal: 1, CoatingGap: 1, Unclassified: 1},
		Classifications: []entity.Classification{
			entity.UnclassifiedResult(),
			{ClassIndex: 4, Confidence: 0.9},
		},
	}

	r := BuildReport(first, second, nil)
	require.Equal(t, 2, r.Images)
	require.Equal(t, entity.Summary{Normal: 2, Scratch: 2, CoatingGap: 1, Unclassified: 1}, r.Summary)
	require.InDelta(t, 0.6, r.DefectRate, 1e-9)
	require.Len(t, r.Categories, 3)

	normal, scratch, gap := r.Categories[0], r.Categories[1], r.Categories[2]
	require.Equal(t, 1, normal.Count)
	require.InDelta(t, 0.5, normal.MeanConfidence, 1e-9)
	require.Zero(t, normal.StdConfidence)

	require.Equal(t, "scratch", scratch.Category)
	require.InDelta(t, 0.7, scratch.MeanConfidence, 1e-9)
	require.InDelta(t, 0.1414213562, scratch.StdConfidence, 1e-6)

	require.Equal(t, 1, gap.Count)
}

func TestBuildReport_Empty(t *testing.T) {
	r := BuildReport()
	require.Zero(t, r.Images)
	require.Zero(t, r.DefectRate)
	for _, c := range r.Categories {
		require.Zero(t, c.Count)
	}
}
