package nanobanana

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	ModelNanoBanana2 Model = "nano-banana-2" // Gemini 3 Pro Image
	ModelNanoBanana1 Model = "nano-banana-1" // Gemini 2.5 Flash Image

	ModelDefault Model = ModelNanoBanana2
)

var (
	// ErrModelNotRegistered is returned when a model has no registered provider.
	ErrModelNotRegistered = errors.New("model not registered")

	// ErrProviderNotConfigured is returned when a provider lacks required config.
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// Provider represents a model provider/backend.
type Provider string

const (
	ProviderGeminiAPI Provider = "gemini"
)

// ProviderConfig configures a specific provider.
type ProviderConfig struct {
	// Provider type
	Provider Provider

	// APIKey for authentication
	APIKey string

	// BaseURL for custom endpoints (optional)
	BaseURL string
}

// ModelMapping maps a model identifier to its provider and actual model name.
type ModelMapping struct {
	Provider        Provider
	ActualModelName string
}

// Manager implements ImageGenerator and ConversationalImageGenerator,
// routing requests to the appropriate provider based on the Model in GenerateConfig.
//
// Identifiers that are not registered are forwarded verbatim to the provider
// of the default model, so callers may name any model the API accepts.
type Manager struct {
	// Model to provider mapping
	modelMappings map[Model]ModelMapping

	// Provider instances
	providers map[Provider]ImageGenerator

	// Default model to use when config.Model is empty
	defaultModel Model

	// Model info (per model)
	modelInfo map[Model]*ModelInfo

	// Logger for structured logging
	logger *slog.Logger

	mu sync.RWMutex
}

// Ensure Manager implements the interfaces.
var (
	_ ImageGenerator               = (*Manager)(nil)
	_ ConversationalImageGenerator = (*Manager)(nil)
)

// New creates a new Manager.
func New() *Manager {
	return &Manager{
		logger:        slog.Default(),
		modelMappings: make(map[Model]ModelMapping),
		providers:     make(map[Provider]ImageGenerator),
		modelInfo:     make(map[Model]*ModelInfo),
		defaultModel:  ModelDefault,
	}
}

// RegisterModel registers a model under the given identifier.
func (m *Manager) RegisterModel(model Model, mapping ModelMapping, info *ModelInfo) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.modelMappings[model] = mapping
	m.modelInfo[model] = info
	return m
}

// SetDefaultModel sets the default model used when config.Model is empty.
func (m *Manager) SetDefaultModel(model Model) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaultModel = model
	return m
}

// SetLogger sets a structured logger for the manager.
func (m *Manager) SetLogger(logger *slog.Logger) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger = logger
	return m
}

// Generate creates an image from a text prompt.
func (m *Manager) Generate(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
	return m.dispatch(ctx, "generation", config, 0,
		[]any{"prompt_length", len(prompt), "grounding", config != nil && config.EnableGrounding},
		func(gen ImageGenerator, actual *GenerateConfig) (*GenerateResult, error) {
			return gen.Generate(ctx, prompt, actual)
		})
}

// Edit modifies an existing image based on a text instruction.
func (m *Manager) Edit(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	return m.dispatch(ctx, "edit", config, 1,
		[]any{"instruction_length", len(instruction), "image_size", len(image.Data)},
		func(gen ImageGenerator, actual *GenerateConfig) (*GenerateResult, error) {
			return gen.Edit(ctx, image, instruction, actual)
		})
}

// EditMultiple composes a new image from several reference images.
func (m *Manager) EditMultiple(ctx context.Context, images []InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	return m.dispatch(ctx, "multi-edit", config, len(images),
		[]any{"instruction_length", len(instruction), "input_images", len(images)},
		func(gen ImageGenerator, actual *GenerateConfig) (*GenerateResult, error) {
			return gen.EditMultiple(ctx, images, instruction, actual)
		})
}

// dispatch routes one request and logs its lifecycle.
func (m *Manager) dispatch(
	ctx context.Context,
	op string,
	config *GenerateConfig,
	imageCount int,
	attrs []any,
	call func(ImageGenerator, *GenerateConfig) (*GenerateResult, error)) (*GenerateResult, error) {

	if config == nil {
		config = DefaultConfig()
	}

	model := m.resolveModel(config)
	logger := m.getLogger()
	start := time.Now()

	logger.DebugContext(ctx, "starting "+op, append([]any{"model", string(model)}, attrs...)...)

	gen, actualConfig, info, err := m.getGeneratorForConfig(config)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get generator for "+op,
			"model", string(model),
			"error", err.Error(),
		)
		return nil, err
	}

	if err := ValidateConstraints(info, actualConfig, imageCount); err != nil {
		return nil, err
	}

	result, err := call(gen, actualConfig)
	duration := time.Since(start)

	if err != nil {
		logger.ErrorContext(ctx, op+" failed",
			"model", string(model),
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	// Log success with usage metadata
	logAttrs := []any{
		"model", string(model),
		"duration_ms", duration.Milliseconds(),
		"image_count", len(result.Images()),
	}
	if result.UsageMetadata != nil {
		logAttrs = append(logAttrs,
			"prompt_tokens", result.UsageMetadata.PromptTokens,
			"response_tokens", result.UsageMetadata.CandidatesTokens,
			"total_tokens", result.UsageMetadata.TotalTokens,
		)
	}
	if result.FinishReason != "" {
		logAttrs = append(logAttrs, "finish_reason", result.FinishReason)
	}
	logger.InfoContext(ctx, op+" completed", logAttrs...)

	return result, nil
}

// Models returns all registered model definitions, one per provider model.
func (m *Manager) Models() []ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[*ModelInfo]bool, len(m.modelInfo))
	models := make([]ModelInfo, 0, len(m.modelInfo))
	for _, info := range m.modelInfo {
		if info == nil || seen[info] {
			continue
		}
		seen[info] = true
		models = append(models, *info)
	}
	return models
}

// Close releases all provider resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for provider, gen := range m.providers {
		if err := gen.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", provider, err))
		}
	}
	m.providers = make(map[Provider]ImageGenerator)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// StartConversation begins a new image generation conversation.
func (m *Manager) StartConversation() Conversation {
	return &ManagedConversation{
		manager: m,
		history: make([]ConversationTurn, 0),
	}
}

// StartConversationWithModel begins a conversation with a specific model.
func (m *Manager) StartConversationWithModel(model Model) Conversation {
	return &ManagedConversation{
		manager:     m,
		history:     make([]ConversationTurn, 0),
		lockedModel: model,
		modelLocked: model != "",
	}
}

// GetModelInfo returns model information for a specific model.
func (m *Manager) GetModelInfo(model Model) (*ModelInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.modelInfo[model]
	return info, ok
}

// resolveModel determines the model identifier to use.
func (m *Manager) resolveModel(config *GenerateConfig) Model {
	model := ModelDefault
	if config != nil && config.Model != "" {
		model = config.Model
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if model == ModelDefault {
		model = m.defaultModel
	}

	return model
}

// getGeneratorForConfig returns the appropriate generator, adjusted config
// and model info (nil for pass-through models).
func (m *Manager) getGeneratorForConfig(config *GenerateConfig) (ImageGenerator, *GenerateConfig, *ModelInfo, error) {
	model := m.resolveModel(config)

	m.mu.RLock()
	mapping, ok := m.modelMappings[model]
	info := m.modelInfo[model]
	if !ok {
		def, defOK := m.modelMappings[m.defaultModel]
		if !defOK {
			m.mu.RUnlock()
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrModelNotRegistered, model)
		}
		mapping = ModelMapping{Provider: def.Provider, ActualModelName: string(model)}
	}
	m.mu.RUnlock()

	gen, err := m.getProvider(mapping.Provider)
	if err != nil {
		return nil, nil, nil, err
	}

	actualConfig := config
	if actualConfig == nil {
		actualConfig = DefaultConfig()
	}
	configCopy := *actualConfig
	configCopy.Model = Model(mapping.ActualModelName)

	return gen, &configCopy, info, nil
}

// getProvider returns the provider instance for the given provider type.
func (m *Manager) getProvider(provider Provider) (ImageGenerator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	gen, ok := m.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, provider)
	}
	return gen, nil
}

func (m *Manager) getLogger() *slog.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger
}
