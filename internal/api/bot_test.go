package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"film-inspector/internal/domain/entity"
)

func TestFormatSummary(t *testing.T) {
	clean := &entity.InspectionResult{Summary: entity.Summary{Normal: 3}}
	require.Contains(t, formatSummary(clean), msgNoDefects)

	result := &entity.InspectionResult{
		Summary: entity.Summary{Normal: 1, Scratch: 1, Unclassified: 1},
		Records: []entity.DefectRecord{
			{Category: entity.CategoryScratch, Confidence: 0.935, Box: entity.BoundingBox{X: 100, Y: 100, Width: 60, Height: 40}},
		},
		Interrupted: true,
	}
	text := formatSummary(result)
	require.Contains(t, text, "Царапины (7NG): 1")
	require.Contains(t, text, "Не классифицировано: 1")
	require.Contains(t, text, "scratch(7NG) (100,100,60,40) 93.5%")
	require.Contains(t, text, "прервана")
}

func TestImageFileID(t *testing.T) {
	photo := &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}}
	require.Equal(t, "large", imageFileID(photo))

	doc := &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", MimeType: "image/bmp"}}
	require.Equal(t, "doc", imageFileID(doc))

	text := &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "pdf", MimeType: "application/pdf"}}
	require.Empty(t, imageFileID(text))
}
