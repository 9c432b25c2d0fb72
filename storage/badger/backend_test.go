package badger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend(nil)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend(nil)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestBackend_PutGet(t *testing.T) {
	backend, err := OpenBackend(nil)
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Put([]byte("rel:1"), []byte("one")))

	value, err := backend.Get([]byte("rel:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), value)

	value, err = backend.Get([]byte("rel:2"))
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestBackend_CountPrefix(t *testing.T) {
	backend, err := OpenBackend(nil)
	require.NoError(t, err)
	defer backend.Close()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, backend.Put(makeDescriptionKey(fmt.Sprint(i)), []byte("x")))
		}(i)
	}
	wg.Wait()
	require.NoError(t, backend.Put(makeRelationshipKey("1"), []byte("x")))

	n, err := backend.CountPrefix([]byte(descriptionPrefix))
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}
