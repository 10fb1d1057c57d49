package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

func TestMemorySessionStore_EmptyUntilFirstSave(t *testing.T) {
	store := NewMemorySessionStore()

	_, err := store.LoadLastShown(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	quote := domain.Quote{Text: "hold on to this one", Category: "Zen"}

	require.NoError(t, store.SaveLastShown(context.Background(), quote))

	loaded, err := store.LoadLastShown(context.Background())
	require.NoError(t, err)
	assert.Equal(t, quote, loaded)
}

func TestMemorySessionStore_LastWriteWins(t *testing.T) {
	store := NewMemorySessionStore()

	require.NoError(t, store.SaveLastShown(context.Background(), domain.Quote{Text: "first", Category: "A"}))
	require.NoError(t, store.SaveLastShown(context.Background(), domain.Quote{Text: "second", Category: "B"}))

	loaded, err := store.LoadLastShown(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Text)
}
