package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/Daniel-code69/Portfolio-hub/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (FileStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewDiskStorage(dir)
	require.NoError(t, err)
	return s, dir
}

// fileHeaders builds real multipart file headers the way an HTTP upload would.
func fileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["files"]
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"spaces", "my report.pdf", "my_report.pdf"},
		{"unix traversal", "../../etc/passwd.png", "passwd.png"},
		{"windows traversal", "..\\..\\boot.ini", "boot.ini"},
		{"leading dots", "...hidden.txt", "hidden.txt"},
		{"only dots", "....", ""},
		{"empty", "", ""},
		{"weird chars", "a&b?c.zip", "a_b_c.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestAllowedFile(t *testing.T) {
	assert.True(t, AllowedFile("report.pdf"))
	assert.True(t, AllowedFile("photo.JPG"))
	assert.True(t, AllowedFile("site.html"))
	assert.False(t, AllowedFile("malware.exe"))
	assert.False(t, AllowedFile("noextension"))
}

func TestSaveAndList(t *testing.T) {
	s, _ := newTestStorage(t)

	files := fileHeaders(t, map[string]string{
		"report.pdf":  "pdf content",
		"malware.exe": "nope",
	})

	require.NoError(t, s.Save("p1", files))

	names := s.List("p1")
	assert.Equal(t, []string{"report.pdf"}, names)
}

func TestSaveConfinesTraversalAttempts(t *testing.T) {
	s, base := newTestStorage(t)

	files := fileHeaders(t, map[string]string{
		"../../etc/passwd.png": "sneaky",
	})

	require.NoError(t, s.Save("p1", files))

	// Stored under the portfolio's own directory with a sanitized name.
	assert.FileExists(t, filepath.Join(base, "p1", "passwd.png"))

	// Nothing escaped the base directory.
	_, err := os.Stat(filepath.Join(base, "..", "etc"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestListMissingDirectory(t *testing.T) {
	s, _ := newTestStorage(t)
	assert.Empty(t, s.List("does-not-exist"))
}

func TestRemoveAll(t *testing.T) {
	s, base := newTestStorage(t)

	require.NoError(t, s.Save("p1", fileHeaders(t, map[string]string{"a.txt": "x"})))
	require.NoError(t, s.RemoveAll("p1"))

	assert.NoDirExists(t, filepath.Join(base, "p1"))
	assert.Empty(t, s.List("p1"))

	// Removing an absent directory is a no-op.
	require.NoError(t, s.RemoveAll("p1"))
}

func TestResolve(t *testing.T) {
	s, _ := newTestStorage(t)
	require.NoError(t, s.Save("p1", fileHeaders(t, map[string]string{"report.pdf": "content"})))

	path, name, err := s.Resolve("p1", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", name)
	assert.FileExists(t, path)

	_, _, err = s.Resolve("p1", "missing.pdf")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = s.Resolve("p1", "../p2/secret.pdf")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = s.Resolve("p1", "..")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestResolveRejectsTraversalPortfolioID(t *testing.T) {
	s, base := newTestStorage(t)

	// A file sitting right outside the uploads tree must stay unreachable
	// even when the portfolio id itself points at it.
	outside := filepath.Join(filepath.Dir(base), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("top secret"), 0o644))

	for _, id := range []string{"..", ".", "", "../p2", `..\p2`, "a/b"} {
		_, _, err := s.Resolve(id, "secret.txt")
		assert.ErrorIs(t, err, apperror.ErrNotFound, "id %q", id)
	}
}

func TestMutationsRejectTraversalPortfolioID(t *testing.T) {
	s, base := newTestStorage(t)

	assert.Error(t, s.Save("..", fileHeaders(t, map[string]string{"a.txt": "x"})))
	assert.Error(t, s.RemoveAll(".."))
	assert.Empty(t, s.List(".."))

	// The parent of the uploads tree is untouched.
	assert.DirExists(t, filepath.Dir(base))
}
