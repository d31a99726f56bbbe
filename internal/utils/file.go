package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func IsAllowedFileType(filename string, allowedTypes []string) bool {
	ext := strings.TrimPrefix(GetFileExtension(filename), ".")
	for _, allowedType := range allowedTypes {
		if ext == allowedType {
			return true
		}
	}
	return false
}

func IsImageFile(filename string) bool {
	return IsAllowedFileType(filename, AllowedImageTypes)
}

// StorageKey builds a date-partitioned object key under prefix.
func StorageKey(prefix, originalFilename string) string {
	ext := GetFileExtension(originalFilename)
	return path.Join(prefix, time.Now().UTC().Format("2006/01/02"), fmt.Sprintf("%s%s", uuid.NewString(), ext))
}

func GetContentType(filename string) string {
	switch GetFileExtension(filename) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
