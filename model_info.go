package nanobanana

// ModelCapabilities describes what features a model supports.
type ModelCapabilities struct {
	// Generation modes
	SupportsTextToImage  bool
	SupportsImageEditing bool
	SupportsMultiImage   bool // Multiple input images for composition
	SupportsConversation bool

	// Features
	SupportsGrounding bool // Google Search grounding

	// Limits
	MaxInputImages int // Max reference images per request (e.g., 14 for Gemini)
}

// ImageConstraints defines supported image configurations for a model.
type ImageConstraints struct {
	SupportedAspectRatios []AspectRatio
	SupportedSizes        []ImageSize
}

// ModelInfo contains complete metadata for a model.
type ModelInfo struct {
	// Identity
	Name         string   // Public model name (e.g., "nano-banana-2")
	Provider     Provider // Which provider serves this model
	APIModelName string   // Actual API name (e.g., "gemini-3-pro-image-preview")

	// Capabilities
	Capabilities ModelCapabilities

	// Constraints
	ContextLength    int
	ImageConstraints ImageConstraints
}
