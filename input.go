package nanobanana

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// LoadInputImages reads reference images from local paths, preserving order.
//
// Preconditions are checked before any image bytes are read: the count must
// not exceed MaxInputImages and every path must exist.
func LoadInputImages(paths []string) ([]InputImage, error) {
	if len(paths) > MaxInputImages {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyImages, len(paths), MaxInputImages)
	}

	for _, path := range paths {
		if err := CheckInputFile(path); err != nil {
			return nil, err
		}
	}

	images := make([]InputImage, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		img := InputImage{
			Data:     data,
			MIMEType: DetectMIMEType(data, path),
			Path:     path,
		}
		if err := ValidateInputImage(img); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		images = append(images, img)
	}

	return images, nil
}

// CheckInputFile reports ErrInputNotFound, naming path, when path does not exist.
func CheckInputFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// DetectMIMEType sniffs the content type of data, falling back to the file
// extension for formats the sniffer does not know (HEIC, HEIF).
func DetectMIMEType(data []byte, path string) string {
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if mime, ok := MIMETypeFromPath(path); ok {
		return mime
	}
	return http.DetectContentType(data)
}
