package cli

import (
	"fmt"

	"github.com/mhpenta/nanobanana"
	"github.com/mhpenta/nanobanana/internal/chat"
	"github.com/mhpenta/nanobanana/internal/log"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

// request is one single-shot generation.
type request struct {
	prompt string
	output string
	inputs []string
	multi  bool
	config *nanobanana.GenerateConfig

	status     []string
	savedLabel string
}

func (s *runState) generateCommand() *cobra.Command {
	aspect, size := nanobanana.AspectRatio1x1, nanobanana.ImageSize1K
	cmd := &cobra.Command{
		Use:   "generate <prompt> <output>",
		Short: "Generate an image from a text prompt",
		Example: `  nanobanana generate "A cat wearing a wizard hat" cat.png
  nanobanana generate "Futuristic city" city.png --aspect 16:9 --size 2K`,
		Args:        usageArgs(cobra.ExactArgs(2)),
		Annotations: requiresAPIKey(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, request{
				prompt: args[0],
				output: args[1],
				config: s.config(aspect, size, false),
				status: []string{
					fmt.Sprintf("Generating image: '%s'", args[0]),
					fmt.Sprintf("Settings: aspect=%s, size=%s, model=%s", aspect, size, s.model),
				},
				savedLabel: "Image saved to",
			})
		},
	}
	imageFlags(cmd.Flags(), &aspect, &size)
	return cmd
}

func (s *runState) editCommand() *cobra.Command {
	aspect := nanobanana.AspectRatioAuto
	cmd := &cobra.Command{
		Use:         "edit <input> <instruction> <output>",
		Short:       "Edit an existing image with a text instruction",
		Example:     `  nanobanana edit photo.png "Add a rainbow in the sky" edited.png`,
		Args:        usageArgs(cobra.ExactArgs(3)),
		Annotations: requiresAPIKey(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, request{
				prompt: args[1],
				output: args[2],
				inputs: args[:1],
				config: s.config(aspect, nanobanana.ImageSizeAuto, false),
				status: []string{
					fmt.Sprintf("Editing image: '%s'", args[0]),
					fmt.Sprintf("Instruction: '%s'", args[1]),
				},
				savedLabel: "Edited image saved to",
			})
		},
	}
	imageFlags(cmd.Flags(), &aspect, nil)
	return cmd
}

func (s *runState) composeCommand() *cobra.Command {
	aspect, size := nanobanana.AspectRatio1x1, nanobanana.ImageSize2K
	cmd := &cobra.Command{
		Use:   "compose <instruction> <output> <image>...",
		Short: "Compose a new image from up to 14 reference images",
		Example: `  nanobanana compose "Put the cat on the sofa" scene.png cat.png sofa.png
  nanobanana compose "Group photo in an office" team.png p1.png p2.png p3.png --aspect 16:9`,
		Args:        usageArgs(cobra.MinimumNArgs(3)),
		Annotations: requiresAPIKey(),
		RunE: func(cmd *cobra.Command, args []string) error {
			images := args[2:]
			if len(images) > nanobanana.MaxInputImages {
				return fmt.Errorf("Maximum %d reference images supported", nanobanana.MaxInputImages)
			}
			return s.run(cmd, request{
				prompt: args[0],
				output: args[1],
				inputs: images,
				multi:  true,
				config: s.config(aspect, size, false),
				status: []string{
					fmt.Sprintf("Composing %d images", len(images)),
					fmt.Sprintf("Instruction: '%s'", args[0]),
					fmt.Sprintf("Settings: aspect=%s, size=%s", aspect, size),
				},
				savedLabel: "Composed image saved to",
			})
		},
	}
	imageFlags(cmd.Flags(), &aspect, &size)
	return cmd
}

func (s *runState) searchCommand() *cobra.Command {
	aspect, size := nanobanana.AspectRatio1x1, nanobanana.ImageSize2K
	cmd := &cobra.Command{
		Use:     "search <prompt> <output>",
		Aliases: []string{"search-grounded"},
		Short:   "Generate an image grounded in Google Search results",
		Example: `  nanobanana search "Visualize today's weather in Tokyo as an infographic" weather.png
  nanobanana search "Current Bitcoin price trends" btc.png --aspect 16:9`,
		Args:        usageArgs(cobra.ExactArgs(2)),
		Annotations: requiresAPIKey(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, request{
				prompt: args[0],
				output: args[1],
				config: s.config(aspect, size, true),
				status: []string{
					fmt.Sprintf("Generating search-grounded image: '%s'", args[0]),
					fmt.Sprintf("Settings: aspect=%s, size=%s", aspect, size),
					"Searching for real-time data...",
				},
				savedLabel: "Image saved to",
			})
		},
	}
	imageFlags(cmd.Flags(), &aspect, &size)
	return cmd
}

func (s *runState) chatCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "chat",
		Short:       "Refine an image over several turns",
		Args:        usageArgs(cobra.NoArgs),
		Annotations: requiresAPIKey(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			manager, err := do.Invoke[*nanobanana.Manager](s.injector)
			if err != nil {
				return err
			}
			defer manager.Close()

			storage, err := do.Invoke[nanobanana.Storage](s.injector)
			if err != nil {
				return err
			}

			model := nanobanana.Model(s.model)
			session := chat.NewSession(func() nanobanana.Conversation {
				return manager.StartConversationWithModel(model)
			}, storage, nil, cmd.OutOrStdout())
			log.FromContextOrDiscard(ctx).Debug("chat session started", "session", session.ID(), "model", s.model)

			return chat.Run(ctx, session, cmd.InOrStdin())
		},
	}
}

func (s *runState) config(aspect nanobanana.AspectRatio, size nanobanana.ImageSize, grounding bool) *nanobanana.GenerateConfig {
	return &nanobanana.GenerateConfig{
		Model:           nanobanana.Model(s.model),
		AspectRatio:     aspect,
		Size:            size,
		EnableGrounding: grounding,
	}
}

// run loads inputs, calls the model once and saves the first image.
func (s *runState) run(cmd *cobra.Command, req request) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	images, err := nanobanana.LoadInputImages(req.inputs)
	if err != nil {
		return err
	}

	for _, line := range req.status {
		fmt.Fprintln(out, line)
	}

	manager, err := do.Invoke[*nanobanana.Manager](s.injector)
	if err != nil {
		return err
	}
	defer manager.Close()

	var result *nanobanana.GenerateResult
	switch {
	case len(images) == 0:
		result, err = manager.Generate(ctx, req.prompt, req.config)
	case req.multi:
		result, err = manager.EditMultiple(ctx, images, req.prompt, req.config)
	default:
		result, err = manager.Edit(ctx, images[0], req.prompt, req.config)
	}
	if err != nil {
		return err
	}

	ex := nanobanana.Extract(result.Parts)
	for _, text := range ex.Texts {
		fmt.Fprintf(out, "Response text: %s\n", text)
	}
	if ex.Image == nil {
		return &noImageError{finishReason: result.FinishReason, blockReason: result.BlockReason}
	}

	storage, err := do.Invoke[nanobanana.Storage](s.injector)
	if err != nil {
		return err
	}
	saved, err := nanobanana.SaveImage(ctx, storage, *ex.Image, req.output)
	if err != nil {
		return fmt.Errorf("saving %s: %w", req.output, err)
	}

	fmt.Fprintf(out, "%s: %s\n", req.savedLabel, saved)
	return nil
}
