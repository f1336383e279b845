package helpers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadURLPrefix is the route prefix under which UploadBasePath is served.
const UploadURLPrefix = "/uploads"

type UploadConfig struct {
	MaxSizeBytes     int64
	AllowedMimeTypes []string
	UploadBasePath   string
}

var DefaultImageUploadConfig = UploadConfig{
	MaxSizeBytes: 5 * 1024 * 1024, // 5MB
	AllowedMimeTypes: []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	},
	UploadBasePath: "./uploads/",
}

// ImageUploadConfig returns the default image rules rooted at basePath.
func ImageUploadConfig(basePath string, maxSize int64) UploadConfig {
	cfg := DefaultImageUploadConfig
	cfg.AllowedMimeTypes = slices.Clone(cfg.AllowedMimeTypes)
	if basePath != "" {
		cfg.UploadBasePath = basePath
	}
	if maxSize > 0 {
		cfg.MaxSizeBytes = maxSize
	}
	return cfg
}

// UploadFile stores fileHeader under <base>/<uploadType>/ and returns the
// public URL path it is served from.
func UploadFile(c *gin.Context, fileHeader *multipart.FileHeader, uploadType string, configs ...UploadConfig) (string, error) {
	config := DefaultImageUploadConfig
	if len(configs) > 0 {
		config = configs[0]
	}

	if fileHeader.Size > config.MaxSizeBytes {
		return "", fmt.Errorf("file size exceeds maximum limit of %d MB", config.MaxSizeBytes/(1024*1024))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	mimeType := http.DetectContentType(buffer[:n])

	if !slices.Contains(config.AllowedMimeTypes, mimeType) {
		return "", fmt.Errorf("invalid file type. Allowed types: %v", config.AllowedMimeTypes)
	}

	ext := filepath.Ext(fileHeader.Filename)

	uploadPath := filepath.Join(config.UploadBasePath, uploadType)
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	fullFilepath := filepath.Join(uploadPath, filename)

	if err := c.SaveUploadedFile(fileHeader, fullFilepath); err != nil {
		return "", err
	}

	return UploadURLPrefix + "/" + uploadType + "/" + filename, nil
}

// DeleteFile removes a file previously returned by UploadFile.
func DeleteFile(basePath, publicPath string) error {
	rel := strings.TrimPrefix(publicPath, UploadURLPrefix+"/")
	if rel == publicPath || strings.Contains(rel, "..") {
		return fmt.Errorf("not an upload path: %q", publicPath)
	}
	return os.Remove(filepath.Join(basePath, filepath.FromSlash(rel)))
}
