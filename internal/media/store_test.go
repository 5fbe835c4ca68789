package media

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s := NewLocalStore(dir, "http://api.local/")
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	link, err := s.Save("Foto.JPG", "image/jpeg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://api.local/uploads/1700000000000-"), link)
	assert.True(t, strings.HasSuffix(link, ".jpg"), link)
	assert.True(t, IsLocal(link))

	path, ok := s.Path(link)
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
}

func TestLocalStore_SaveRejects(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "http://api.local")

	_, err := s.Save("a.pdf", "application/pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = s.Save("big.png", "image/png", bytes.NewReader(make([]byte, MaxUploadSize+1)))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "oversized file must be removed")
}

func TestLocalStore_Path(t *testing.T) {
	s := NewLocalStore("/srv/uploads", "http://api.local")

	tests := []struct {
		name string
		link string
		want string
		ok   bool
	}{
		{"local", "http://api.local/uploads/1-abc.png", filepath.Join("/srv/uploads", "1-abc.png"), true},
		{"traversal", "http://api.local/uploads/../../etc/passwd", filepath.Join("/srv/uploads", "passwd"), true},
		{"remote", "https://cdn.example.com/x.png", "", false},
		{"dir only", "http://api.local/uploads/", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Path(tt.link)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
