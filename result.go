package nanobanana

// PartKind tags a response part.
type PartKind int

const (
	PartText PartKind = iota + 1
	PartImage
)

func (k PartKind) String() string {
	switch k {
	case PartText:
		return "text"
	case PartImage:
		return "image"
	default:
		return "unknown"
	}
}

// Part is one element of a model response: either text or inline image data.
// Exactly one of Text or Image is meaningful, selected by Kind.
type Part struct {
	Kind  PartKind
	Text  string
	Image *GeneratedImage
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// ImagePart builds an image part.
func ImagePart(img GeneratedImage) Part {
	return Part{Kind: PartImage, Image: &img}
}

// GeneratedImage represents a single generated image result.
type GeneratedImage struct {
	// Data contains the raw image bytes
	Data []byte

	// MIMEType of the generated image
	MIMEType string

	// Index is the position among the image parts of the response (0-indexed)
	Index int
}

// GenerateResult holds the complete result of an image generation request.
type GenerateResult struct {
	// Parts in the order the model returned them
	Parts []Part

	// FinishReason of the candidate, if the model reported one
	FinishReason string

	// BlockReason is set when the prompt itself was blocked
	BlockReason string

	// UsageMetadata contains token/billing information
	UsageMetadata *UsageMetadata
}

// Images returns every image part in order.
func (r *GenerateResult) Images() []GeneratedImage {
	if r == nil {
		return nil
	}
	var images []GeneratedImage
	for _, p := range r.Parts {
		if p.Kind == PartImage && p.Image != nil {
			images = append(images, *p.Image)
		}
	}
	return images
}

// Texts returns every text part in order.
func (r *GenerateResult) Texts() []string {
	if r == nil {
		return nil
	}
	var texts []string
	for _, p := range r.Parts {
		if p.Kind == PartText {
			texts = append(texts, p.Text)
		}
	}
	return texts
}

// Extraction is the outcome of scanning a response for its image.
type Extraction struct {
	// Image is the first image part, or nil when the response had none.
	Image *GeneratedImage

	// Texts are the text parts encountered before Image.
	Texts []string
}

// Extract scans parts in order and returns the first image together with the
// text parts that precede it. Image parts after the first are ignored.
func Extract(parts []Part) Extraction {
	var ex Extraction
	for _, p := range parts {
		switch p.Kind {
		case PartText:
			ex.Texts = append(ex.Texts, p.Text)
		case PartImage:
			if p.Image != nil {
				img := *p.Image
				ex.Image = &img
				return ex
			}
		}
	}
	return ex
}

// UsageMetadata contains usage information for billing and monitoring.
type UsageMetadata struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
	ImageCount       int
}

// ConversationTurn represents a single turn in a conversation.
type ConversationTurn struct {
	Role   string // "user" or "model"
	Text   string
	Images []GeneratedImage
}
