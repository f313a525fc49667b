package nanobanana

import (
	"context"
)

// MockImageGenerator is a mock implementation of ImageGenerator.
type MockImageGenerator struct {
	GenerateFunc     func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error)
	EditFunc         func(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error)
	EditMultipleFunc func(ctx context.Context, images []InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error)
	ModelsFunc       func() []ModelInfo
	CloseFunc        func() error
}

func (m *MockImageGenerator) Generate(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) Edit(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	if m.EditFunc != nil {
		return m.EditFunc(ctx, image, instruction, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) EditMultiple(ctx context.Context, images []InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	if m.EditMultipleFunc != nil {
		return m.EditMultipleFunc(ctx, images, instruction, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) Models() []ModelInfo {
	if m.ModelsFunc != nil {
		return m.ModelsFunc()
	}
	return []ModelInfo{}
}

func (m *MockImageGenerator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockConversationalGenerator adds StartConversation to MockImageGenerator.
type MockConversationalGenerator struct {
	MockImageGenerator
	StartConversationFunc func() Conversation
}

func (m *MockConversationalGenerator) StartConversation() Conversation {
	if m.StartConversationFunc != nil {
		return m.StartConversationFunc()
	}
	return &MockConversation{}
}

// MockConversation is a mock implementation of Conversation.
type MockConversation struct {
	SendFunc func(ctx context.Context, prompt string, images []InputImage, config *GenerateConfig) (*GenerateResult, error)

	history []ConversationTurn
	cleared int
}

func (m *MockConversation) Send(ctx context.Context, prompt string, images []InputImage, config *GenerateConfig) (*GenerateResult, error) {
	result := &GenerateResult{}
	if m.SendFunc != nil {
		var err error
		result, err = m.SendFunc(ctx, prompt, images, config)
		if err != nil {
			return nil, err
		}
	}
	m.history = append(m.history, ConversationTurn{Role: "user", Text: prompt}, modelTurn(result))
	return result, nil
}

func (m *MockConversation) History() []ConversationTurn {
	return m.history
}

func (m *MockConversation) Clear() {
	m.cleared++
	m.history = nil
}

func testModels() []ModelInfo {
	return []ModelInfo{
		{
			Name:         "test-model",
			Provider:     "test-provider",
			APIModelName: "test-model-api",
			Capabilities: ModelCapabilities{MaxInputImages: 2},
			ImageConstraints: ImageConstraints{
				SupportedAspectRatios: []AspectRatio{AspectRatio1x1, AspectRatio16x9},
				SupportedSizes:        []ImageSize{ImageSize1K, ImageSize2K},
			},
		},
		{
			Name:         "small-model",
			Provider:     "test-provider",
			APIModelName: "small-model-api",
			ImageConstraints: ImageConstraints{
				SupportedSizes: []ImageSize{ImageSize1K},
			},
		},
	}
}
