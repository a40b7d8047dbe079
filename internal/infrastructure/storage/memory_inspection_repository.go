package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

// MemoryInspectionRepository in-memory хранилище проверок и дефектов
type MemoryInspectionRepository struct {
	mu       sync.RWMutex
	nextID   int64
	pictures map[int64]entity.Picture
	defects  map[int64][]entity.StoredDefect
	now      func() time.Time
}

// NewMemoryInspectionRepository создаёт пустое хранилище
func NewMemoryInspectionRepository() *MemoryInspectionRepository {
	return &MemoryInspectionRepository{
		pictures: make(map[int64]entity.Picture),
		defects:  make(map[int64][]entity.StoredDefect),
		now:      time.Now,
	}
}

// SavePicture сохраняет изображение и присваивает ему ID
func (r *MemoryInspectionRepository) SavePicture(ctx context.Context, picture entity.Picture) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	picture.ID = r.nextID
	if picture.CreatedAt.IsZero() {
		picture.CreatedAt = r.now()
	}
	r.pictures[picture.ID] = picture

	return picture.ID, nil
}

// SaveDefects сохраняет дефекты; изображение должно быть сохранено раньше
func (r *MemoryInspectionRepository) SaveDefects(ctx context.Context, defects []entity.StoredDefect) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range defects {
		if _, ok := r.pictures[d.PictureID]; !ok {
			return fmt.Errorf("picture %d: %w", d.PictureID, entity.ErrNotFound)
		}
	}
	for _, d := range defects {
		r.nextID++
		d.ID = r.nextID
		if d.CreatedAt.IsZero() {
			d.CreatedAt = r.now()
		}
		r.defects[d.PictureID] = append(r.defects[d.PictureID], d)
	}

	return nil
}

// Picture возвращает изображение по ID
func (r *MemoryInspectionRepository) Picture(ctx context.Context, id int64) (entity.Picture, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pictures[id]
	if !ok {
		return entity.Picture{}, fmt.Errorf("picture %d: %w", id, entity.ErrNotFound)
	}
	return p, nil
}

// Pictures возвращает изображения в порядке сохранения
func (r *MemoryInspectionRepository) Pictures(ctx context.Context) ([]entity.Picture, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Picture, 0, len(r.pictures))
	for _, p := range r.pictures {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// Defects возвращает дефекты изображения
func (r *MemoryInspectionRepository) Defects(ctx context.Context, pictureID int64) ([]entity.StoredDefect, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.defects[pictureID]
	out := make([]entity.StoredDefect, len(src))
	copy(out, src)

	return out, nil
}

// Restore загружает записи архива, сохраняя их ID. Уже известные ID перезаписываются.
func (r *MemoryInspectionRepository) Restore(ctx context.Context, pictures []entity.Picture, defects []entity.StoredDefect) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pictures {
		r.pictures[p.ID] = p
		r.defects[p.ID] = r.defects[p.ID][:0]
		r.nextID = max(r.nextID, p.ID)
	}
	for _, d := range defects {
		if _, ok := r.pictures[d.PictureID]; !ok {
			return fmt.Errorf("defect %d: picture %d: %w", d.ID, d.PictureID, entity.ErrNotFound)
		}
		r.defects[d.PictureID] = append(r.defects[d.PictureID], d)
		r.nextID = max(r.nextID, d.ID)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.InspectionRepository = (*MemoryInspectionRepository)(nil)
