// Package imgutil converts image bytes between the formats the standard
// library can encode.
package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
)

// JPEGQuality is used when re-encoding to JPEG.
const JPEGQuality = 75

// CanEncode reports whether Transcode can produce mimeType.
func CanEncode(mimeType string) bool {
	return mimeType == "image/png" || mimeType == "image/jpeg"
}

// Transcode decodes data (PNG, JPEG or GIF) and re-encodes it as mimeType.
// Transparent areas are flattened onto white for JPEG output.
func Transcode(data []byte, mimeType string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	switch mimeType {
	case "image/png":
		err = png.Encode(buf, img)
	case "image/jpeg":
		err = jpeg.Encode(buf, flatten(img), &jpeg.Options{Quality: JPEGQuality})
	default:
		return nil, fmt.Errorf("unsupported target format: %s", mimeType)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func flatten(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
