package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackhub/hackhub/internal/storage/memory"
)

func TestStore_PutAndGet(t *testing.T) {
	store := memory.New("")
	ctx := context.Background()

	url, err := store.Put(ctx, "user_123_456", "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	assert.Equal(t, "memory://objects/user_123_456", url)

	obj, err := store.Get("user_123_456")
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, obj.Data)
}

func TestStore_PutCopiesData(t *testing.T) {
	store := memory.New("")
	data := []byte("original")

	_, err := store.Put(context.Background(), "key", "text/plain", data)
	require.NoError(t, err)

	// Mutating the caller's slice must not change the stored object
	data[0] = 'X'

	obj, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), obj.Data)
}

func TestStore_Delete(t *testing.T) {
	store := memory.New("https://cdn.example.com/")

	url, err := store.Put(context.Background(), "key", "image/jpeg", []byte("jpg"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/key", url)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(context.Background(), "key"))
	assert.Equal(t, 0, store.Len())

	_, err = store.Get("key")
	assert.ErrorIs(t, err, memory.ErrNotFound)
}
