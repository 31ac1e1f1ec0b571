package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"

	"github.com/google/uuid"
)

// DefaultMaxProofSize is 2 MiB.
const DefaultMaxProofSize int64 = 2 << 20

const proofPrefix = "bukti"

var extByContentType = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

var contentTypeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

var (
	ErrUnsupportedType = domain.NewValidationError("proof must be a jpeg, png, gif, webp or pdf file")
	ErrTooLarge        = domain.NewValidationError("proof file is too large")
	ErrInvalidKey      = domain.NewValidationError("invalid proof reference")
)

// LocalStorage implements ProofStorage on the local filesystem.
type LocalStorage struct {
	uploadsDir string
	maxSize    int64
	now        func() time.Time
}

// NewLocalStorage creates the upload directory if it doesn't exist
func NewLocalStorage(uploadsDir string, maxSize int64) (*LocalStorage, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxProofSize
	}
	if err := os.MkdirAll(filepath.Join(uploadsDir, proofPrefix), 0755); err != nil {
		return nil, fmt.Errorf("failed to create proof directory: %w", err)
	}
	return &LocalStorage{uploadsDir: uploadsDir, maxSize: maxSize, now: time.Now}, nil
}

// Save writes the receipt under bukti/bukti_<resident>_<timestamp>_<suffix>.<ext>.
// A partial file is removed when the upload exceeds the size limit.
func (s *LocalStorage) Save(ctx context.Context, residentID int32, contentType string, r io.Reader) (string, error) {
	ext, ok := extByContentType[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := fmt.Sprintf("%s_%d_%s_%s%s", proofPrefix, residentID, s.now().Format("20060102150405"), uuid.NewString()[:8], ext)
	key := proofPrefix + "/" + name
	fullPath := filepath.Join(s.uploadsDir, proofPrefix, name)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(file, io.LimitReader(r, s.maxSize+1))
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(fullPath)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logger.Info("Payment proof stored", "residentID", residentID, "key", key, "size", written)
	return key, nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", domain.NewNotFoundError("proof not found")
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	contentType, ok := contentTypeByExt[strings.ToLower(filepath.Ext(fullPath))]
	if !ok {
		contentType = "application/octet-stream"
	}
	return file, contentType, nil
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve maps a key to a path, refusing anything outside the proof directory.
func (s *LocalStorage) resolve(key string) (string, error) {
	dir, name := filepath.Split(filepath.ToSlash(key))
	if dir != proofPrefix+"/" || name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.uploadsDir, proofPrefix, name), nil
}

// OwnedBy reports whether key was uploaded for residentID.
func OwnedBy(key string, residentID int32) bool {
	return strings.HasPrefix(key, fmt.Sprintf("%s/%s_%d_", proofPrefix, proofPrefix, residentID))
}
