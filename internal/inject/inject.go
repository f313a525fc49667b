package inject

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mhpenta/nanobanana"
	"github.com/mhpenta/nanobanana/internal/log"
	"github.com/mhpenta/nanobanana/provider/gemini"
	"github.com/mhpenta/nanobanana/storage/s3store"
	"github.com/samber/do"
)

// Config holds the values the injector needs up front.
type Config struct {
	APIKey string
}

// Setup wires the generator, manager and storage. Nothing is constructed
// until it is invoked, so an s3:// destination is the only thing that loads
// AWS configuration.
func Setup(ctx context.Context, cfg Config) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[*slog.Logger](injector, logger)

	do.Provide[*gemini.GeminiGenerator](injector, func(i *do.Injector) (*gemini.GeminiGenerator, error) {
		return gemini.NewWithAPIKey(ctx, cfg.APIKey)
	})
	do.Provide[nanobanana.ImageGenerator](injector, func(i *do.Injector) (nanobanana.ImageGenerator, error) {
		return do.Invoke[*gemini.GeminiGenerator](i)
	})
	do.Provide[*nanobanana.Manager](injector, NewManager)

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return config.LoadDefaultConfig(ctx)
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3store.Store](injector, func(i *do.Injector) (*s3store.Store, error) {
		client, err := do.Invoke[*s3.Client](i)
		if err != nil {
			return nil, err
		}
		return s3store.New(client), nil
	})
	do.Provide[nanobanana.Storage](injector, NewStorage)

	return injector
}

// NewManager builds a Manager over whichever ImageGenerator is provided.
func NewManager(i *do.Injector) (*nanobanana.Manager, error) {
	gen, err := do.Invoke[nanobanana.ImageGenerator](i)
	if err != nil {
		return nil, err
	}
	return nanobanana.NewManager(gen, nanobanana.WithLogger(do.MustInvoke[*slog.Logger](i))), nil
}

// NewStorage routes plain paths to the filesystem and s3:// paths to S3.
func NewStorage(i *do.Injector) (nanobanana.Storage, error) {
	remote := nanobanana.StorageFunc(func(ctx context.Context, data []byte, path string, contentType string) (string, error) {
		store, err := do.Invoke[*s3store.Store](i)
		if err != nil {
			return "", fmt.Errorf("configuring s3: %w", err)
		}
		return store.SaveFile(ctx, data, path, contentType)
	})

	return &nanobanana.Router{
		Default: nanobanana.FileStorage{},
		Schemes: map[string]nanobanana.Storage{
			s3store.Scheme: remote,
		},
	}, nil
}
