package validation

import (
	"errors"
	"fmt"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes map[string]bool
	MaxSize          int64
}

// ImageConstraints defines validation rules for gallery uploads
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/jpg":  true,
		"image/gif":  true,
		"image/webp": true,
	},
	MaxSize: 1572864, // 1.5 MiB
}

// ValidateFile checks a declared content type and size against constraints
func ValidateFile(contentType string, size int64, constraints FileConstraints) error {
	if size > constraints.MaxSize {
		return errors.New(TooLargeMessage(constraints))
	}

	mediaType, _, _ := strings.Cut(contentType, ";")
	if !constraints.AllowedMimeTypes[strings.ToLower(strings.TrimSpace(mediaType))] {
		return fmt.Errorf("対応していない画像形式です (%s)", contentType)
	}

	return nil
}

// TooLargeMessage is the user-facing rejection for a file over MaxSize.
func TooLargeMessage(constraints FileConstraints) string {
	return fmt.Sprintf("ファイルサイズは%sMB以下にしてください", formatMB(constraints.MaxSize))
}

func formatMB(size int64) string {
	mb := float64(size) / (1 << 20)
	s := fmt.Sprintf("%.1f", mb)
	return strings.TrimSuffix(s, ".0")
}
