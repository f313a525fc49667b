package nanobanana

import (
	"context"
	"sync"
)

// ManagedConversation implements Conversation with model routing.
type ManagedConversation struct {
	manager *Manager
	history []ConversationTurn

	lockedModel Model
	modelLocked bool

	providerConv Conversation
	convProvider ImageGenerator

	mu sync.Mutex
}

// Send sends a message and receives a response.
func (c *ManagedConversation) Send(ctx context.Context, prompt string, images []InputImage, config *GenerateConfig) (*GenerateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if config == nil {
		config = DefaultConfig()
	}
	if c.modelLocked {
		config = config.WithModel(c.lockedModel)
	}

	gen, actualConfig, info, err := c.manager.getGeneratorForConfig(config)
	if err != nil {
		return nil, err
	}
	if err := ValidateConstraints(info, actualConfig, len(images)); err != nil {
		return nil, err
	}

	logger := c.manager.getLogger()

	// Continue the provider conversation while the provider stays the same.
	if c.providerConv == nil || c.convProvider != gen {
		if convGen, ok := gen.(ConversationalImageGenerator); ok {
			c.providerConv = convGen.StartConversation()
			c.convProvider = gen
		} else {
			c.providerConv = nil
			c.convProvider = nil
		}
	}

	if c.providerConv != nil {
		result, err := c.providerConv.Send(ctx, prompt, images, actualConfig)
		if err != nil {
			logger.ErrorContext(ctx, "conversation turn failed", "model", string(actualConfig.Model), "error", err.Error())
			return nil, err
		}

		c.history = c.providerConv.History()
		logger.InfoContext(ctx, "conversation turn completed",
			"model", string(actualConfig.Model),
			"turns", len(c.history)/2,
			"image_count", len(result.Images()),
		)
		return result, nil
	}

	// Provider doesn't support conversations, fall back to single generation
	var result *GenerateResult
	switch len(images) {
	case 0:
		result, err = gen.Generate(ctx, prompt, actualConfig)
	case 1:
		result, err = gen.Edit(ctx, images[0], prompt, actualConfig)
	default:
		result, err = gen.EditMultiple(ctx, images, prompt, actualConfig)
	}
	if err != nil {
		return nil, err
	}

	// Manually track history
	userTurn := ConversationTurn{Role: "user", Text: prompt}
	for _, img := range images {
		userTurn.Images = append(userTurn.Images, GeneratedImage{
			Data:     img.Data,
			MIMEType: img.MIMEType,
		})
	}
	c.history = append(c.history, userTurn)

	c.history = append(c.history, modelTurn(result))

	return result, nil
}

// History returns the conversation history.
func (c *ManagedConversation) History() []ConversationTurn {
	c.mu.Lock()
	defer c.mu.Unlock()

	historyCopy := make([]ConversationTurn, len(c.history))
	copy(historyCopy, c.history)
	return historyCopy
}

// Clear resets the conversation history.
func (c *ManagedConversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = make([]ConversationTurn, 0)
	if c.providerConv != nil {
		c.providerConv.Clear()
	}
	c.providerConv = nil
	c.convProvider = nil
}

func modelTurn(result *GenerateResult) ConversationTurn {
	turn := ConversationTurn{Role: "model", Images: result.Images()}
	for _, t := range result.Texts() {
		turn.Text += t
	}
	return turn
}
