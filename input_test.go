package nanobanana

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadInputImages(t *testing.T) {
	dir := t.TempDir()
	first := writeTemp(t, dir, "b.png", pngHeader)
	second := writeTemp(t, dir, "a.jpg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF"))

	images, err := LoadInputImages([]string{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	if images[0].Path != first || images[0].MIMEType != "image/png" {
		t.Errorf("first image = %s (%s)", images[0].Path, images[0].MIMEType)
	}
	if images[1].Path != second || images[1].MIMEType != "image/jpeg" {
		t.Errorf("second image = %s (%s)", images[1].Path, images[1].MIMEType)
	}
}

func TestLoadInputImages_Empty(t *testing.T) {
	images, err := LoadInputImages(nil)
	if err != nil || len(images) != 0 {
		t.Errorf("LoadInputImages(nil) = %v, %v", images, err)
	}
}

func TestLoadInputImages_MissingFile(t *testing.T) {
	dir := t.TempDir()
	present := writeTemp(t, dir, "here.png", pngHeader)
	missing := filepath.Join(dir, "missing.png")

	_, err := LoadInputImages([]string{present, missing})
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error %q does not name %s", err, missing)
	}
}

func TestLoadInputImages_TooManyChecksCountFirst(t *testing.T) {
	paths := make([]string, MaxInputImages+1)
	for i := range paths {
		paths[i] = "does-not-exist.png"
	}

	_, err := LoadInputImages(paths)
	if !errors.Is(err, ErrTooManyImages) {
		t.Errorf("expected ErrTooManyImages, got %v", err)
	}
}

func TestLoadInputImages_RejectsNonImage(t *testing.T) {
	path := writeTemp(t, t.TempDir(), "notes.txt", []byte("just text"))

	_, err := LoadInputImages([]string{path})
	if !errors.Is(err, ErrInvalidMIMEType) {
		t.Errorf("expected ErrInvalidMIMEType, got %v", err)
	}
}

func TestCheckInputFile_Directory(t *testing.T) {
	if err := CheckInputFile(t.TempDir()); err == nil {
		t.Error("expected an error for a directory")
	}
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		path string
		want string
	}{
		{"sniffed png", pngHeader, "photo.jpg", "image/png"},
		{"heic by extension", []byte("\x00\x00\x00\x18ftypheic"), "photo.HEIC", "image/heic"},
		{"unknown", []byte("hello"), "notes.txt", "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMIMEType(tt.data, tt.path); got != tt.want {
				t.Errorf("DetectMIMEType() = %q, want %q", got, tt.want)
			}
		})
	}
}
