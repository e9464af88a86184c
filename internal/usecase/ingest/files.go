package ingest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kailas-cloud/vecrag/internal/domain"
)

// readImport reads path from inside the import directory.
func (s *Service) readImport(path string) ([]byte, error) {
	if s.importDir == "" {
		return nil, fmt.Errorf("%w: file import disabled", domain.ErrNotFound)
	}

	clean := filepath.Clean(strings.TrimSpace(path))
	if clean == "." || !filepath.IsLocal(clean) {
		return nil, fmt.Errorf("%w: path must stay inside the import directory", domain.ErrInvalidInput)
	}

	root, err := os.OpenRoot(s.importDir)
	if err != nil {
		return nil, fmt.Errorf("open import dir: %w", err)
	}
	defer root.Close()

	data, err := root.ReadFile(clean)
	if err != nil {
		return nil, fileError(err)
	}
	return data, nil
}

// readLocal reads an operator-supplied file.
func readLocal(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fileError(err)
	}
	return data, nil
}

func fileError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: file not found", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%w: cannot read file: %w", domain.ErrInvalidInput, err)
}

// spool writes body to a uniquely named file in the upload directory and
// returns its path. The caller owns the file.
func (s *Service) spool(filename string, body io.Reader) (string, error) {
	pattern := fmt.Sprintf("%d-*-%s", time.Now().UnixMilli(), sanitizeFilename(filename))

	f, err := os.CreateTemp(s.uploadDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	path := f.Name()

	n, copyErr := io.Copy(f, io.LimitReader(body, s.maxUploadBytes+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("write upload file: %w", copyErr)
	case closeErr != nil:
		err = fmt.Errorf("close upload file: %w", closeErr)
	case n > s.maxUploadBytes:
		err = fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrPayloadTooLarge, s.maxUploadBytes)
	}
	if err != nil {
		// The file exists even when the copy failed.
		return path, err
	}
	return path, nil
}

// sanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with '_'.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "upload.json"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, base)
}
