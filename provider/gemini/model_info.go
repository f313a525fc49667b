package gemini

import "github.com/mhpenta/nanobanana"

// NanoBanana2Info is the model info for Gemini 3 Pro Image (nano-banana-2).
//
// Nano Banana Pro (official name: Gemini 3 Pro Image) is Google DeepMind's
// image generation and editing model, built on Gemini 3 Pro.
var NanoBanana2Info = nanobanana.ModelInfo{
	Name:         nanobanana.ModelNanoBanana2.String(),
	Provider:     nanobanana.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana2,

	Capabilities: nanobanana.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		SupportsConversation: true,
		SupportsGrounding:    true,
		MaxInputImages:       nanobanana.MaxInputImages,
	},

	ContextLength: 1048576, // 1M tokens

	ImageConstraints: nanobanana.ImageConstraints{
		SupportedAspectRatios: nanobanana.AspectRatios,
		SupportedSizes: []nanobanana.ImageSize{
			nanobanana.ImageSize1K,
			nanobanana.ImageSize2K,
			nanobanana.ImageSize4K,
		},
	},
}

// NanoBanana1Info is the model info for Gemini 2.5 Flash Image (nano-banana-1).
var NanoBanana1Info = nanobanana.ModelInfo{
	Name:         nanobanana.ModelNanoBanana1.String(),
	Provider:     nanobanana.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana1,

	Capabilities: nanobanana.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		SupportsConversation: true,
		SupportsGrounding:    true,
		MaxInputImages:       nanobanana.MaxInputImages, // Practical limit
	},

	ContextLength: 1048576, // 1M tokens

	ImageConstraints: nanobanana.ImageConstraints{
		SupportedAspectRatios: nanobanana.AspectRatios,

		// Flash Image only supports ~1024px output (1K)
		SupportedSizes: []nanobanana.ImageSize{
			nanobanana.ImageSize1K,
		},
	},
}
