package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/applytrack/applytrack/internal/pkg/logger"
)

// Storage defines the interface for avatar file storage operations.
type Storage interface {
	// SaveFile stores an uploaded file and returns its accessible path.
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a stored file. Missing files are not an error.
	DeleteFile(filePath string) error
}

// LocalStorage saves files to the local filesystem and serves them
// through the static /uploads route.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a LocalStorage rooted at basePath. If baseURL is
// non-empty it is prepended to returned file paths.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveFile stores an uploaded file under a collision-free name.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	var accessiblePath string
	if ls.baseURL != "" {
		accessiblePath = strings.TrimRight(ls.baseURL, "/") + "/" + uniqueFilename
	} else {
		accessiblePath = filepath.Join("uploads", uniqueFilename)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", uniqueFilename).Msg("File saved")
	return accessiblePath, nil
}

// DeleteFile removes a stored file given its accessible path.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	name := filepath.Base(filePath)
	fullPath := filepath.Join(ls.basePath, name)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	return nil
}
