package nanobanana

import (
	"log/slog"
)

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLogger sets a structured logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDefaultModel sets the default model used when config.Model is empty.
func WithDefaultModel(model Model) ManagerOption {
	return func(m *Manager) {
		m.defaultModel = model
	}
}

// NewManager creates a Manager with the given provider and options.
// Every model the provider reports is reachable both by its public name and
// by its API model name.
//
// Example:
//
//	gen, err := gemini.NewWithAPIKey(ctx, apiKey)
//	if err != nil {
//	    return err
//	}
//	manager := nanobanana.NewManager(gen,
//	    nanobanana.WithLogger(slog.Default()),
//	)
func NewManager(defaultProvider ImageGenerator, opts ...ManagerOption) *Manager {
	m := New()

	models := defaultProvider.Models()
	for i := range models {
		info := &models[i]

		m.providers[info.Provider] = defaultProvider

		mapping := ModelMapping{
			Provider:        info.Provider,
			ActualModelName: info.APIModelName,
		}
		m.RegisterModel(Model(info.Name), mapping, info)
		if info.APIModelName != "" && info.APIModelName != info.Name {
			m.RegisterModel(Model(info.APIModelName), mapping, info)
		}
	}

	if len(models) > 0 {
		m.defaultModel = Model(models[0].Name)
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}
