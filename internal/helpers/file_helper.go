package helpers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	ErrFileTooLarge = errors.New("file exceeds the maximum upload size")
	ErrFileType     = errors.New("file type not allowed")
)

type UploadConfig struct {
	MaxSizeBytes      int64
	AllowedMimeTypes  []string
	AllowedExtensions []string
}

func ImageUploadConfig(maxBytes int64) UploadConfig {
	return UploadConfig{
		MaxSizeBytes: maxBytes,
		AllowedMimeTypes: []string{
			"image/jpeg",
			"image/png",
			"image/gif",
			"image/webp",
		},
	}
}

func ImportUploadConfig(maxBytes int64) UploadConfig {
	return UploadConfig{
		MaxSizeBytes: maxBytes,
		AllowedMimeTypes: []string{
			"text/plain",
			"text/csv",
			"application/octet-stream",
			// xlsx workbooks are zip archives.
			"application/zip",
		},
		AllowedExtensions: []string{".csv", ".txt", ".xlsx"},
	}
}

// ReadUpload reads a multipart file into memory after checking its size,
// extension and sniffed content type.
func ReadUpload(fileHeader *multipart.FileHeader, config UploadConfig) ([]byte, error) {
	if config.MaxSizeBytes > 0 && fileHeader.Size > config.MaxSizeBytes {
		return nil, fmt.Errorf("%w of %d bytes", ErrFileTooLarge, config.MaxSizeBytes)
	}

	if len(config.AllowedExtensions) > 0 {
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !contains(config.AllowedExtensions, ext) {
			return nil, fmt.Errorf("%w: allowed extensions %v", ErrFileType, config.AllowedExtensions)
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	limit := config.MaxSizeBytes
	if limit <= 0 {
		limit = fileHeader.Size
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w of %d bytes", ErrFileTooLarge, limit)
	}

	mimeType, _, _ := strings.Cut(http.DetectContentType(data), ";")
	if !contains(config.AllowedMimeTypes, mimeType) {
		return nil, fmt.Errorf("%w: allowed types %v", ErrFileType, config.AllowedMimeTypes)
	}

	return data, nil
}

func contains(values []string, v string) bool {
	for _, allowed := range values {
		if v == allowed {
			return true
		}
	}
	return false
}
