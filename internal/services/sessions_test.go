package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisevisionproductions/Vitema-sub001/internal/upload"
)

func TestSessionRegistry_OneCoordinatorPerAdmin(t *testing.T) {
	r := NewSessionRegistry(context.Background(), upload.Deps{})
	defer r.Close()

	a1, err := r.ForAdmin("admin-a")
	require.NoError(t, err)
	a2, err := r.ForAdmin("admin-a")
	require.NoError(t, err)
	b, err := r.ForAdmin("admin-b")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)

	got, ok := r.Lookup("admin-b")
	assert.True(t, ok)
	assert.Same(t, b, got)
	_, ok = r.Lookup("admin-c")
	assert.False(t, ok)
}

func TestSessionRegistry_Close(t *testing.T) {
	r := NewSessionRegistry(context.Background(), upload.Deps{})
	_, err := r.ForAdmin("admin-a")
	require.NoError(t, err)

	r.Close()

	_, err = r.ForAdmin("admin-a")
	assert.ErrorIs(t, err, upload.ErrClosed)
	_, ok := r.Lookup("admin-a")
	assert.False(t, ok)
}
