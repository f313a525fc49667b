// Package chat runs an interactive, multi-turn image session on a terminal.
package chat

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/mhpenta/nanobanana"
	"github.com/mhpenta/nanobanana/internal/log"
)

// Session is the state of one interactive conversation. It is replaced
// wholesale on reset.
type Session struct {
	id      string
	start   func() nanobanana.Conversation
	conv    nanobanana.Conversation
	current *nanobanana.GeneratedImage
	turns   int

	storage nanobanana.Storage
	config  *nanobanana.GenerateConfig
	out     io.Writer
}

// NewSession starts a conversation with start and writes status to out.
// config is sent with every turn and may be nil.
func NewSession(start func() nanobanana.Conversation, storage nanobanana.Storage, config *nanobanana.GenerateConfig, out io.Writer) *Session {
	s := &Session{
		start:   start,
		storage: storage,
		config:  config,
		out:     out,
	}
	s.reset()
	return s
}

// ID identifies the current conversation.
func (s *Session) ID() string { return s.id }

// Current is the image held by the session, or nil.
func (s *Session) Current() *nanobanana.GeneratedImage { return s.current }

// Turns counts successful generation turns since the last reset.
func (s *Session) Turns() int { return s.turns }

func (s *Session) reset() {
	s.id = uuid.NewString()
	s.conv = s.start()
	s.current = nil
	s.turns = 0
}

// Handle processes one line of input. It returns true when the session
// should end.
func (s *Session) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	command, arg, _ := strings.Cut(line, " ")
	switch strings.ToLower(command) {
	case "quit", "exit":
		if arg == "" {
			fmt.Fprintln(s.out, "Goodbye!")
			return true
		}
	case "reset":
		if arg == "" {
			s.reset()
			log.FromContextOrDiscard(ctx).Debug("chat session reset", "session", s.id)
			fmt.Fprintln(s.out, "Session reset. Enter a new prompt to begin.")
			return false
		}
	case "save":
		s.save(ctx, strings.TrimSpace(arg))
		return false
	}

	s.turn(ctx, line)
	return false
}

func (s *Session) save(ctx context.Context, path string) {
	if path == "" {
		fmt.Fprintln(s.out, "Usage: save <filename>")
		return
	}
	if s.current == nil {
		fmt.Fprintln(s.out, "No image to save. Generate one first.")
		return
	}

	saved, err := nanobanana.SaveImage(ctx, s.storage, *s.current, path)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Image saved to: %s\n", saved)
}

func (s *Session) turn(ctx context.Context, prompt string) {
	logger := log.FromContextOrDiscard(ctx).With("session", s.id)

	fmt.Fprintf(s.out, "\n[Iteration %d] Generating...\n", s.turns+1)

	result, err := s.conv.Send(ctx, prompt, nil, s.config)
	if err != nil {
		logger.Debug("chat turn failed", "error", err)
		fmt.Fprintf(s.out, "Error: %v\n\n", err)
		return
	}
	if result == nil {
		result = &nanobanana.GenerateResult{}
	}

	s.turns++
	for _, text := range result.Texts() {
		fmt.Fprintf(s.out, "Model: %s\n", text)
	}

	ex := nanobanana.Extract(result.Parts)
	if ex.Image != nil {
		s.current = ex.Image
		fmt.Fprintln(s.out, "Image generated! Use 'save <filename>' to save it.")
	} else {
		fmt.Fprintln(s.out, "No image in this response.")
	}
	logger.Debug("chat turn completed", "turn", s.turns, "image", ex.Image != nil)
	fmt.Fprintln(s.out)
}
