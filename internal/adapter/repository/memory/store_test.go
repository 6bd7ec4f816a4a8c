package memory

import (
	"strconv"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/yorum/internal/domain"
)

func TestStore_GetSetRemove(t *testing.T) {
	store := NewStore()

	_, ok, err := store.Get("music-player:volume")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("music-player:volume", "0.5"))
	value, ok, err := store.Get("music-player:volume")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0.5", value)
	assert.Equal(t, 1, store.Writes())

	require.NoError(t, store.Remove("music-player:volume"))
	require.NoError(t, store.Remove("music-player:volume"))
	_, ok, _ = store.Get("music-player:volume")
	assert.False(t, ok)
}

func TestStore_FailureInjection(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Set("k", "v"))

	store.SetFailReads(true)
	_, _, err := store.Get("k")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))

	store.SetFailWrites(true)
	assert.True(t, errors.Is(store.Set("k", "w"), domain.ErrStorageUnavailable))
	assert.True(t, errors.Is(store.Remove("k"), domain.ErrStorageUnavailable))

	store.SetFailReads(false)
	store.SetFailWrites(false)
	value, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "key-" + strconv.Itoa(n%5)
			_ = store.Set(key, strconv.Itoa(n))
			_, _, _ = store.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Writes())
}
