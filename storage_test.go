package nanobanana

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

type recordingStorage struct {
	data        []byte
	path        string
	contentType string
}

func (r *recordingStorage) SaveFile(_ context.Context, data []byte, path string, contentType string) (string, error) {
	r.data, r.path, r.contentType = data, path, contentType
	return path, nil
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	m.Set(1, 1, color.NRGBA{R: 255, A: 128})
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFileStorage_SaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	got, err := FileStorage{}.SaveFile(context.Background(), []byte("data"), path, "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("SaveFile() = %q, want %q", got, path)
	}
	if data, _ := os.ReadFile(path); string(data) != "data" {
		t.Errorf("file contains %q", data)
	}
}

func TestRouter_SaveFile(t *testing.T) {
	local, remote := &recordingStorage{}, &recordingStorage{}
	router := &Router{
		Default: local,
		Schemes: map[string]Storage{"s3": remote},
	}
	ctx := context.Background()

	if _, err := router.SaveFile(ctx, []byte("a"), "out.png", "image/png"); err != nil {
		t.Fatal(err)
	}
	if _, err := router.SaveFile(ctx, []byte("b"), "S3://bucket/out.png", "image/png"); err != nil {
		t.Fatal(err)
	}
	if local.path != "out.png" || remote.path != "S3://bucket/out.png" {
		t.Errorf("routed local=%q remote=%q", local.path, remote.path)
	}

	_, err := router.SaveFile(ctx, []byte("c"), "gs://bucket/out.png", "image/png")
	if !errors.Is(err, ErrStorageNotConfigured) {
		t.Errorf("expected ErrStorageNotConfigured, got %v", err)
	}
}

func TestSaveImage_TranscodesByExtension(t *testing.T) {
	storage := &recordingStorage{}
	src := GeneratedImage{Data: encodePNG(t), MIMEType: "image/png"}

	if _, err := SaveImage(context.Background(), storage, src, "out.JPG"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storage.contentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", storage.contentType)
	}
	if _, format, err := image.Decode(bytes.NewReader(storage.data)); err != nil || format != "jpeg" {
		t.Errorf("saved data is %q (%v), want jpeg", format, err)
	}
}

func TestSaveImage_KeepsBytes(t *testing.T) {
	tests := []struct {
		name string
		img  GeneratedImage
		dest string
	}{
		{"matching extension", GeneratedImage{Data: []byte("png"), MIMEType: "image/png"}, "out.png"},
		{"no extension", GeneratedImage{Data: []byte("png"), MIMEType: "image/png"}, "out"},
		{"unencodable target", GeneratedImage{Data: []byte("png"), MIMEType: "image/png"}, "out.webp"},
		{"undecodable source", GeneratedImage{Data: []byte("not an image"), MIMEType: "image/png"}, "out.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &recordingStorage{}
			if _, err := SaveImage(context.Background(), storage, tt.img, tt.dest); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(storage.data, tt.img.Data) || storage.contentType != tt.img.MIMEType {
				t.Errorf("saved %q as %q, want original bytes", storage.data, storage.contentType)
			}
		})
	}
}

func TestSaveImage_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := SaveImage(ctx, nil, GeneratedImage{Data: []byte("x")}, "out.png"); !errors.Is(err, ErrStorageNotConfigured) {
		t.Errorf("nil storage: got %v", err)
	}
	if _, err := SaveImage(ctx, &recordingStorage{}, GeneratedImage{}, "out.png"); !errors.Is(err, ErrEmptyImageData) {
		t.Errorf("empty image: got %v", err)
	}
}

func TestMIMETypeFromPath(t *testing.T) {
	tests := map[string]string{
		"a.png":             "image/png",
		"a.jpeg":            "image/jpeg",
		"dir.v2/a.JPG":      "image/jpeg",
		"s3://b/k/out.webp": "image/webp",
		"a.heif":            "image/heif",
		"a.bmp":             "",
	}
	for path, want := range tests {
		got, ok := MIMETypeFromPath(path)
		if got != want || ok != (want != "") {
			t.Errorf("MIMETypeFromPath(%q) = %q, %v", path, got, ok)
		}
	}
}
