package nanobanana

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Validation errors
var (
	ErrEmptyImageData  = errors.New("image data cannot be empty")
	ErrInvalidMIMEType = errors.New("invalid or unsupported MIME type")
	ErrImageTooLarge   = errors.New("image data exceeds maximum size")
	ErrTooManyImages   = errors.New("too many input images")
)

// Image size limits
const (
	// MaxImageSize is the maximum allowed image size in bytes (20MB)
	MaxImageSize = 20 * 1024 * 1024

	// MaxInputImages is the maximum number of reference images per request
	MaxInputImages = 14
)

// ValidMIMETypes contains the supported image MIME types
var ValidMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/heic": true,
	"image/heif": true,
}

// ValidateInputImage validates an input image.
func ValidateInputImage(img InputImage) error {
	if len(img.Data) == 0 {
		return ErrEmptyImageData
	}

	if len(img.Data) > MaxImageSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(img.Data), MaxImageSize)
	}

	if img.MIMEType == "" {
		return fmt.Errorf("%w: MIME type is required", ErrInvalidMIMEType)
	}

	if !ValidMIMETypes[img.MIMEType] {
		return fmt.Errorf("%w: %s", ErrInvalidMIMEType, img.MIMEType)
	}

	return nil
}

// ValidateInputImages validates a slice of input images.
func ValidateInputImages(images []InputImage) error {
	if len(images) == 0 {
		return ErrEmptyImageData
	}

	if len(images) > MaxInputImages {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyImages, len(images), MaxInputImages)
	}

	for i, img := range images {
		if err := ValidateInputImage(img); err != nil {
			if img.Path != "" {
				return fmt.Errorf("image %d (%s): %w", i, img.Path, err)
			}
			return fmt.Errorf("image %d: %w", i, err)
		}
	}

	return nil
}

// ValidateConstraints checks config against the limits a model declares.
// A zero-valued field in config is always accepted.
func ValidateConstraints(info *ModelInfo, config *GenerateConfig, imageCount int) error {
	if info == nil || config == nil {
		return nil
	}

	c := info.ImageConstraints
	if config.AspectRatio != AspectRatioAuto && len(c.SupportedAspectRatios) > 0 &&
		!slices.Contains(c.SupportedAspectRatios, config.AspectRatio) {
		return &ValidationError{
			Field:   "aspect ratio for " + info.Name,
			Value:   config.AspectRatio.String(),
			Allowed: lo.Map(c.SupportedAspectRatios, func(a AspectRatio, _ int) string { return a.String() }),
		}
	}

	if config.Size != ImageSizeAuto && len(c.SupportedSizes) > 0 &&
		!slices.Contains(c.SupportedSizes, config.Size) {
		return &ValidationError{
			Field:   "image size for " + info.Name,
			Value:   config.Size.String(),
			Allowed: lo.Map(c.SupportedSizes, func(s ImageSize, _ int) string { return s.String() }),
		}
	}

	if limit := info.Capabilities.MaxInputImages; limit > 0 && imageCount > limit {
		return fmt.Errorf("%w: %d (max %d for %s)", ErrTooManyImages, imageCount, limit, info.Name)
	}

	return nil
}
