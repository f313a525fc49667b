// Package gemini provides an ImageGenerator implementation using Google's Gemini API.
//
// This provider uses the Gemini API backend via the official Go SDK:
// https://github.com/googleapis/go-genai
package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mhpenta/nanobanana"
	"google.golang.org/genai"
)

// Model name constants - the actual API model names.
const (
	// APIModelNanoBanana2 is the actual API name for Gemini 3 Pro Image
	APIModelNanoBanana2 = "gemini-3-pro-image-preview"

	// APIModelNanoBanana1 is the actual API name for Gemini 2.5 Flash Image
	APIModelNanoBanana1 = "gemini-2.5-flash-image"
)

// contentGenerator is the part of the genai client this provider uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements ImageGenerator using Google's Gemini API.
type GeminiGenerator struct {
	models contentGenerator
}

// Ensure GeminiGenerator implements the interfaces.
var (
	_ nanobanana.ImageGenerator               = (*GeminiGenerator)(nil)
	_ nanobanana.ConversationalImageGenerator = (*GeminiGenerator)(nil)
)

// New creates a new GeminiGenerator from a ProviderConfig.
// Creating the client performs no network activity.
func New(ctx context.Context, config *nanobanana.ProviderConfig) (*GeminiGenerator, error) {
	if config == nil {
		config = &nanobanana.ProviderConfig{}
	}

	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}

	if config.APIKey != "" {
		clientCfg.APIKey = config.APIKey
	}
	// If APIKey is empty, the SDK will try GOOGLE_API_KEY or GEMINI_API_KEY env vars

	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		models: client.Models,
	}, nil
}

// NewWithAPIKey creates a generator with an API key for Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	return New(ctx, &nanobanana.ProviderConfig{
		Provider: nanobanana.ProviderGeminiAPI,
		APIKey:   apiKey,
	})
}

// Generate creates an image from a text prompt.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, config *nanobanana.GenerateConfig) (*nanobanana.GenerateResult, error) {
	result, err := g.generate(ctx, prompt, nil, config)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	return result, nil
}

// Edit modifies an existing image based on a text instruction.
func (g *GeminiGenerator) Edit(ctx context.Context, image nanobanana.InputImage, instruction string, config *nanobanana.GenerateConfig) (*nanobanana.GenerateResult, error) {
	if err := nanobanana.ValidateInputImage(image); err != nil {
		return nil, err
	}

	result, err := g.generate(ctx, instruction, []nanobanana.InputImage{image}, config)
	if err != nil {
		return nil, fmt.Errorf("edit failed: %w", err)
	}
	return result, nil
}

// EditMultiple composes a new image from up to 14 reference images.
func (g *GeminiGenerator) EditMultiple(ctx context.Context, images []nanobanana.InputImage, instruction string, config *nanobanana.GenerateConfig) (*nanobanana.GenerateResult, error) {
	if err := nanobanana.ValidateInputImages(images); err != nil {
		return nil, err
	}

	result, err := g.generate(ctx, instruction, images, config)
	if err != nil {
		return nil, fmt.Errorf("multi-image edit failed: %w", err)
	}
	return result, nil
}

// generate sends a single-turn request: the prompt followed by images.
func (g *GeminiGenerator) generate(ctx context.Context, prompt string, images []nanobanana.InputImage, config *nanobanana.GenerateConfig) (*nanobanana.GenerateResult, error) {
	if config == nil {
		config = nanobanana.DefaultConfig()
	}

	modelName := g.resolveModel(config)

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: buildParts(prompt, images),
		},
	}

	result, err := g.models.GenerateContent(ctx, modelName, contents, buildGenerateContentConfig(config))
	if err != nil {
		return nil, checkRateLimitError(err, modelName)
	}

	return parseResult(result), nil
}

// Models returns the model definitions supported by this provider.
// The first model (NanoBanana2) is the default.
func (g *GeminiGenerator) Models() []nanobanana.ModelInfo {
	return []nanobanana.ModelInfo{
		NanoBanana2Info,
		NanoBanana1Info,
	}
}

// Close releases any resources held by the generator.
func (g *GeminiGenerator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// StartConversation begins a new image generation conversation.
func (g *GeminiGenerator) StartConversation() nanobanana.Conversation {
	return &GeminiConversation{
		generator: g,
		history:   make([]nanobanana.ConversationTurn, 0),
	}
}

// resolveModel determines which API model name to use.
// Falls back to the first model (default) if none specified.
func (g *GeminiGenerator) resolveModel(config *nanobanana.GenerateConfig) string {
	if config != nil && config.Model != "" && config.Model != nanobanana.ModelDefault {
		return string(config.Model)
	}
	// Default to first model in the list
	models := g.Models()
	if len(models) == 0 {
		return APIModelNanoBanana2
	}
	return models[0].APIModelName
}

// buildParts places the text first, then images in the given order.
func buildParts(prompt string, images []nanobanana.InputImage) []*genai.Part {
	parts := make([]*genai.Part, 0, len(images)+1)
	if prompt != "" {
		parts = append(parts, &genai.Part{Text: prompt})
	}
	for _, img := range images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				Data:     img.Data,
				MIMEType: img.MIMEType,
			},
		})
	}
	return parts
}

// buildGenerateContentConfig converts our config to Gemini's GenerateContentConfig format.
func buildGenerateContentConfig(config *nanobanana.GenerateConfig) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		// Image-only responses are not guaranteed, so both channels are requested.
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	if config.Size != nanobanana.ImageSizeAuto || config.AspectRatio != nanobanana.AspectRatioAuto {
		genConfig.ImageConfig = &genai.ImageConfig{
			AspectRatio: config.AspectRatio.String(),
			ImageSize:   config.Size.String(),
		}
	}

	if config.EnableGrounding {
		genConfig.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	return genConfig
}

// parseResult converts the first candidate of a Gemini response into ordered parts.
// Thought parts are dropped.
func parseResult(result *genai.GenerateContentResponse) *nanobanana.GenerateResult {
	genResult := &nanobanana.GenerateResult{}
	if result == nil {
		return genResult
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		genResult.BlockReason = string(result.PromptFeedback.BlockReason)
	}

	imageIndex := 0
	if len(result.Candidates) > 0 {
		candidate := result.Candidates[0]
		if candidate.FinishReason != "" {
			genResult.FinishReason = string(candidate.FinishReason)
		}

		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part == nil || part.Thought {
					continue
				}

				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					genResult.Parts = append(genResult.Parts, nanobanana.ImagePart(nanobanana.GeneratedImage{
						Data:     part.InlineData.Data,
						MIMEType: part.InlineData.MIMEType,
						Index:    imageIndex,
					}))
					imageIndex++
					continue
				}

				if part.Text != "" {
					genResult.Parts = append(genResult.Parts, nanobanana.TextPart(part.Text))
				}
			}
		}
	}

	// Parse usage metadata if available
	if result.UsageMetadata != nil {
		genResult.UsageMetadata = &nanobanana.UsageMetadata{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
			ImageCount:       imageIndex,
		}
	}

	return genResult
}

// GeminiConversation implements multi-turn image generation.
type GeminiConversation struct {
	generator *GeminiGenerator
	history   []nanobanana.ConversationTurn
	contents  []*genai.Content

	mu sync.Mutex
}

// Send sends a message and receives a response.
// The user message and the model reply are recorded only if the call succeeds.
func (c *GeminiConversation) Send(ctx context.Context, prompt string, images []nanobanana.InputImage, config *nanobanana.GenerateConfig) (*nanobanana.GenerateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if config == nil {
		config = nanobanana.DefaultConfig()
	}

	modelName := c.generator.resolveModel(config)

	userContent := &genai.Content{
		Role:  genai.RoleUser,
		Parts: buildParts(prompt, images),
	}

	contents := make([]*genai.Content, 0, len(c.contents)+1)
	contents = append(contents, c.contents...)
	contents = append(contents, userContent)

	result, err := c.generator.models.GenerateContent(ctx, modelName, contents, buildGenerateContentConfig(config))
	if err != nil {
		return nil, fmt.Errorf("conversation send failed: %w", checkRateLimitError(err, modelName))
	}

	genResult := parseResult(result)

	c.contents = contents
	// The reply is kept verbatim, thought signatures included.
	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		reply := result.Candidates[0].Content
		if reply.Role == "" {
			reply.Role = genai.RoleModel
		}
		c.contents = append(c.contents, reply)
	}

	userTurn := nanobanana.ConversationTurn{
		Role: "user",
		Text: prompt,
	}
	for _, img := range images {
		userTurn.Images = append(userTurn.Images, nanobanana.GeneratedImage{
			Data:     img.Data,
			MIMEType: img.MIMEType,
		})
	}

	modelTurn := nanobanana.ConversationTurn{
		Role:   "model",
		Images: genResult.Images(),
	}
	for _, t := range genResult.Texts() {
		modelTurn.Text += t
	}
	c.history = append(c.history, userTurn, modelTurn)

	return genResult, nil
}

// History returns the conversation history.
func (c *GeminiConversation) History() []nanobanana.ConversationTurn {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Return a copy to prevent external modification
	historyCopy := make([]nanobanana.ConversationTurn, len(c.history))
	copy(historyCopy, c.history)
	return historyCopy
}

// Clear resets the conversation history.
func (c *GeminiConversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = make([]nanobanana.ConversationTurn, 0)
	c.contents = make([]*genai.Content, 0)
}

// checkRateLimitError checks if an error from the Gemini API is a rate limit error.
// If so, it wraps it in a RateLimitError for standardized handling; otherwise returns the original error.
func checkRateLimitError(err error, model string) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	if apiErr.Code != 429 && apiErr.Status != "RESOURCE_EXHAUSTED" {
		return err
	}

	return &nanobanana.RateLimitError{
		RetryAfter: 60 * time.Second, // Default; API doesn't reliably provide Retry-After
		LimitType:  "requests",
		Model:      model,
		Err:        err,
	}
}
