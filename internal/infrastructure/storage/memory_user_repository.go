package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище операторов бота
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает копию оператора по ID, создаёт нового если не найден.
// Копия нужна, чтобы обработчики разных сообщений не гонялись за одной структурой.
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}

	clone := *user
	return &clone, nil
}

// Save сохраняет состояние оператора
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	_ = ctx
	if user == nil {
		return errors.New("nil user")
	}

	clone := *user
	r.mu.Lock()
	r.users[user.ID] = &clone
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние оператора
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		return fmt.Errorf("user %d: %w", userID, entity.ErrNotFound)
	}
	user.SetState(state)

	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
