package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	name, err := s.Save(strings.NewReader("certificate"), "Diploma.PDF")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "certificate", string(content))

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не ошибка
	assert.NoError(t, s.Remove(name))
}

func TestStorage_SaveGeneratesUniqueNames(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	first, err := s.Save(strings.NewReader("a"), "a.png")
	require.NoError(t, err)
	second, err := s.Save(strings.NewReader("b"), "a.png")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestStorage_RemoveRejectsTraversal(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	err = s.Remove("../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)

	err = s.Remove("")
	assert.ErrorIs(t, err, ErrInvalidName)
}
