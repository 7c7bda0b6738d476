package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/Daniel-code69/Portfolio-hub/pkg/apperror"
)

// FileStorage defines contract for the attachment storage provider (local disk implementation).
type FileStorage interface {
	// Save writes the allowed files under the portfolio's directory. Files with a
	// disallowed extension or an unusable name are skipped; individual write
	// failures are logged and skipped as well.
	Save(portfolioID string, files []*multipart.FileHeader) error
	// List returns the attachment filenames for a portfolio. A missing directory
	// yields an empty list, not an error.
	List(portfolioID string) []string
	// RemoveAll deletes the portfolio's whole attachment directory. No-op when absent.
	RemoveAll(portfolioID string) error
	// Resolve returns the on-disk path and sanitized name of one attachment,
	// confined to the portfolio's own directory.
	Resolve(portfolioID, filename string) (path string, name string, err error)
}

// allowedExtensions mirrors the upload allow-list: images, documents, archives
// and plain source/text types.
var allowedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".pdf": true, ".doc": true, ".docx": true,
	".zip": true,
	".html": true, ".css": true, ".js": true, ".py": true,
	".txt": true, ".md": true,
}

type diskStorage struct {
	baseDir string
}

// NewDiskStorage creates a local-disk FileStorage rooted at baseDir,
// one subdirectory per portfolio id.
func NewDiskStorage(baseDir string) (FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", baseDir, err)
	}
	return &diskStorage{baseDir: baseDir}, nil
}

// SanitizeFilename strips any path components and normalizes the name to a
// safe character set. Returns "" when nothing usable remains.
func SanitizeFilename(name string) string {
	// Drop directory components from both separator conventions.
	name = name[strings.LastIndexByte(name, '/')+1:]
	name = name[strings.LastIndexByte(name, '\\')+1:]

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return ""
	}
	return cleaned
}

// AllowedFile reports whether the (already sanitized) filename carries an
// extension from the allow-list.
func AllowedFile(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// validPortfolioID accepts only a bare path segment, so a crafted id can
// never address anything outside the uploads tree.
func validPortfolioID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

func (s *diskStorage) dir(portfolioID string) string {
	return filepath.Join(s.baseDir, portfolioID)
}

func (s *diskStorage) Save(portfolioID string, files []*multipart.FileHeader) error {
	if !validPortfolioID(portfolioID) {
		return fmt.Errorf("invalid portfolio id %q", portfolioID)
	}
	if len(files) == 0 {
		return nil
	}

	dir := s.dir(portfolioID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create attachment directory: %w", err)
	}

	for _, file := range files {
		name := SanitizeFilename(file.Filename)
		if name == "" || !AllowedFile(name) {
			continue
		}

		if err := s.saveOne(dir, name, file); err != nil {
			// Partial attachment sets are accepted; keep going.
			log.Printf("failed to save attachment %s for portfolio %s: %v", name, portfolioID, err)
		}
	}

	return nil
}

func (s *diskStorage) saveOne(dir, name string, file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (s *diskStorage) List(portfolioID string) []string {
	if !validPortfolioID(portfolioID) {
		return []string{}
	}
	entries, err := os.ReadDir(s.dir(portfolioID))
	if err != nil {
		return []string{}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names
}

func (s *diskStorage) RemoveAll(portfolioID string) error {
	if !validPortfolioID(portfolioID) {
		return fmt.Errorf("invalid portfolio id %q", portfolioID)
	}
	return os.RemoveAll(s.dir(portfolioID))
}

func (s *diskStorage) Resolve(portfolioID, filename string) (string, string, error) {
	if !validPortfolioID(portfolioID) {
		return "", "", apperror.ErrNotFound
	}

	name := SanitizeFilename(filename)
	if name == "" {
		return "", "", apperror.ErrNotFound
	}

	path := filepath.Join(s.dir(portfolioID), name)

	// Validation should already confine the path; verify against the base
	// directory anyway.
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(absPath, absBase+string(os.PathSeparator)) {
		return "", "", apperror.ErrNotFound
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", apperror.ErrNotFound
		}
		return "", "", err
	}
	if info.IsDir() {
		return "", "", apperror.ErrNotFound
	}

	return absPath, name, nil
}
