package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_StartsInMainMenu(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.False(t, u.LocationView)
	require.Zero(t, u.LastPicture)
}

func TestUser_BusyOnlyWhileProcessing(t *testing.T) {
	u := NewUser(1, 10)

	for _, state := range []UserState{StateMainMenu, StateAwaitingPhoto, StateAwaitingCrop} {
		u.SetState(state)
		require.False(t, u.Busy(), state)
	}

	u.SetState(StateProcessing)
	require.True(t, u.Busy())
}
