package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"film-inspector/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(10), user.ChatID)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestMemoryUserRepository_SaveAndUpdate(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)

	user.LocationView = true
	require.NoError(t, repo.Save(ctx, user))
	require.NoError(t, repo.UpdateState(ctx, 1, entity.StateAwaitingPhoto))

	stored, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, stored.LocationView)
	require.Equal(t, entity.StateAwaitingPhoto, stored.State)

	require.ErrorIs(t, repo.UpdateState(ctx, 2, entity.StateMainMenu), entity.ErrNotFound)
}
