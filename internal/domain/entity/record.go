package entity

import "time"

// Picture запись о проверенном изображении
type Picture struct {
	ID          int64
	URL         string // путь или ссылка на исходный файл
	DefectCount int
	CreatedAt   time.Time
}

// StoredDefect запись о дефекте в хранилище
type StoredDefect struct {
	ID            int64
	PictureID     int64
	URL           string
	CategoryLabel string
	Confidence    float64
	Location      string // "(x,y,w,h)"
	CreatedAt     time.Time
}

// NewStoredDefect готовит запись хранилища из найденного дефекта.
func NewStoredDefect(pictureID int64, url string, rec DefectRecord) StoredDefect {
	return StoredDefect{
		PictureID:     pictureID,
		URL:           url,
		CategoryLabel: rec.Category.Label(),
		Confidence:    rec.Confidence,
		Location:      rec.Box.Location(),
		CreatedAt:     rec.Timestamp,
	}
}

// Box разбирает координаты дефекта.
func (d StoredDefect) Box() (BoundingBox, error) {
	return ParseLocation(d.Location)
}
