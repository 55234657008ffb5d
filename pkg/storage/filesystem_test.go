package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveReadDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("photos/2024/05/a.jpg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "photos/2024/05/a.jpg", rel)

	data, err := store.Read(rel)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)

	require.NoError(t, store.Delete(rel))
	_, err = store.Read(rel)
	assert.Error(t, err)
	assert.NoError(t, store.Delete(rel))
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"", "../secret", "photos/../../etc/passwd", "/etc/passwd"} {
		_, err := store.Save(p, []byte("x"))
		assert.Error(t, err, p)
	}
}
