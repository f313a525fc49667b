package nanobanana

import (
	"github.com/samber/lo"
)

// Model represents a specific image generation model.
type Model string

// ImageSize represents the output resolution for generated images.
type ImageSize string

const (
	ImageSize1K   ImageSize = "1K"
	ImageSize2K   ImageSize = "2K"
	ImageSize4K   ImageSize = "4K"
	ImageSizeAuto ImageSize = ""
)

// ImageSizes lists every accepted resolution tier.
var ImageSizes = []ImageSize{ImageSize1K, ImageSize2K, ImageSize4K}

// AspectRatio represents the aspect ratio for generated images.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio4x3  AspectRatio = "4:3"
	AspectRatio3x4  AspectRatio = "3:4"
	AspectRatio2x3  AspectRatio = "2:3"  // Photo portrait
	AspectRatio3x2  AspectRatio = "3:2"  // Photo landscape (35mm film ratio)
	AspectRatio4x5  AspectRatio = "4:5"  // Instagram portrait
	AspectRatio5x4  AspectRatio = "5:4"  // Large format photo
	AspectRatio21x9 AspectRatio = "21:9" // Ultrawide/cinematic
	AspectRatioAuto AspectRatio = ""
)

// AspectRatios lists every accepted aspect ratio in the order shown to users.
var AspectRatios = []AspectRatio{
	AspectRatio1x1,
	AspectRatio2x3,
	AspectRatio3x2,
	AspectRatio3x4,
	AspectRatio4x3,
	AspectRatio4x5,
	AspectRatio5x4,
	AspectRatio9x16,
	AspectRatio16x9,
	AspectRatio21x9,
}

// ParseAspectRatio converts s into an AspectRatio. The empty string yields
// AspectRatioAuto.
func ParseAspectRatio(s string) (AspectRatio, error) {
	a := AspectRatio(s)
	if a == AspectRatioAuto || lo.Contains(AspectRatios, a) {
		return a, nil
	}
	return "", &ValidationError{
		Field:   "aspect ratio",
		Value:   s,
		Allowed: lo.Map(AspectRatios, func(a AspectRatio, _ int) string { return a.String() }),
	}
}

// ParseImageSize converts s into an ImageSize. The empty string yields
// ImageSizeAuto.
func ParseImageSize(s string) (ImageSize, error) {
	size := ImageSize(s)
	if size == ImageSizeAuto || lo.Contains(ImageSizes, size) {
		return size, nil
	}
	return "", &ValidationError{
		Field:   "image size",
		Value:   s,
		Allowed: lo.Map(ImageSizes, func(s ImageSize, _ int) string { return s.String() }),
	}
}

// GenerateConfig holds configuration options for image generation.
type GenerateConfig struct {
	// Model to use for generation (if empty, uses manager's default)
	Model Model

	// Size of the output image (1K, 2K, 4K). Empty leaves it to the model.
	Size ImageSize

	// AspectRatio of the output image. Empty preserves the input shape on edits.
	AspectRatio AspectRatio

	// EnableGrounding enables Google Search grounding for current real-world data
	EnableGrounding bool
}

// WithModel returns a copy of the config with the specified model.
func (c *GenerateConfig) WithModel(model Model) *GenerateConfig {
	if c == nil {
		return &GenerateConfig{Model: model}
	}
	cX := *c
	cX.Model = model
	return &cX
}

// DefaultConfig returns a GenerateConfig that leaves every image directive
// to the model.
func DefaultConfig() *GenerateConfig {
	return &GenerateConfig{
		Model: ModelDefault,
	}
}

// DefaultConfigWithModel returns a default config with the specified model.
func DefaultConfigWithModel(model Model) *GenerateConfig {
	config := DefaultConfig()
	config.Model = model
	return config
}

// InputImage represents an image input for editing operations.
type InputImage struct {
	// Data is the raw image bytes
	Data []byte

	// MIMEType of the image (e.g., "image/jpeg", "image/png")
	MIMEType string

	// Path the image was loaded from, if any
	Path string
}

// String returns the string representation for API calls.
func (s ImageSize) String() string {
	return string(s)
}

// String returns the string representation for API calls.
func (a AspectRatio) String() string {
	return string(a)
}

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}
