// internal/bootstrap/bootstrap.go
// Package bootstrap turns a configuration into a ready client and a chosen
// model: detect the backend, construct its client, list and select.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mwiater/llmbridge/internal/appconfig"
	"github.com/mwiater/llmbridge/internal/logging"
	"github.com/mwiater/llmbridge/internal/metrics"
	"github.com/mwiater/llmbridge/internal/models"
	"github.com/mwiater/llmbridge/internal/providerfactory"
	"github.com/mwiater/llmbridge/internal/providers"
	"github.com/mwiater/llmbridge/internal/selector"
)

// Bootstrapper wires the steps of a bootstrap together. Zero-valued hooks
// fall back to the provider factory, the default Prometheus registerer and
// the package logger.
type Bootstrapper struct {
	Config     *appconfig.Config
	Detect     func(ctx context.Context, cfg *appconfig.Config) providers.Kind
	NewClient  func(kind providers.Kind, cfg *appconfig.Config) (providers.BackendClient, error)
	Registerer prometheus.Registerer
	Logger     *zerolog.Logger
}

// Result is everything a bootstrap produced.
type Result struct {
	Client   providers.BackendClient
	Model    models.Descriptor
	Models   []models.Descriptor
	Decision selector.Decision
}

// New returns a Bootstrapper for cfg with default hooks.
func New(cfg *appconfig.Config) *Bootstrapper {
	return &Bootstrapper{Config: cfg}
}

// Bootstrap returns a client for the configured host and the model chosen
// for preferred and prompt. An empty preferred falls back to the configured
// preferred_model.
func (b *Bootstrapper) Bootstrap(ctx context.Context, preferred, prompt string) (providers.BackendClient, models.Descriptor, error) {
	res, err := b.Run(ctx, preferred, prompt)
	if err != nil {
		return nil, models.Descriptor{}, err
	}
	return res.Client, res.Model, nil
}

// Client performs only the detect and construct steps.
func (b *Bootstrapper) Client(ctx context.Context) (providers.BackendClient, error) {
	cfg := b.Config
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config provided to bootstrap", providers.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := b.logger()

	kind := cfg.BackendKind()
	if kind == providers.KindUnknown {
		kind = b.detect()(ctx, cfg)
		log.Info().Str("host", providers.HostIdentifier(cfg.Host)).Str("backend", string(kind)).Msg("backend detected")
	} else {
		log.Info().Str("host", providers.HostIdentifier(cfg.Host)).Str("backend", string(kind)).Msg("backend pinned by configuration")
	}

	client, err := b.newClient()(kind, cfg)
	if err != nil {
		return nil, err
	}
	client.SetSystemPrompt(cfg.SystemPrompt)

	if cfg.Metrics {
		reg := b.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		decorated, err := metrics.NewClient(client, reg)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		client = decorated
	}
	return client, nil
}

// DetectKind probes the configured host with the detect hook.
func (b *Bootstrapper) DetectKind(ctx context.Context) providers.Kind {
	return b.detect()(ctx, b.Config)
}

// Run is Bootstrap returning the full listing and the selection path too.
func (b *Bootstrapper) Run(ctx context.Context, preferred, prompt string) (Result, error) {
	client, err := b.Client(ctx)
	if err != nil {
		return Result{}, err
	}
	log := b.logger()

	list, err := client.ListModels(ctx)
	if err != nil {
		if !errors.Is(err, providers.ErrBackendUnavailable) {
			return Result{}, err
		}
		log.Warn().Err(err).Msg("model listing failed; treating as empty")
		list = nil
	}
	if len(list) == 0 {
		return Result{}, fmt.Errorf("%w: no models were retrieved from %s; check your '%s' configuration and ensure the server is returning models",
			providers.ErrNoModelsAvailable, providers.HostIdentifier(client.Host()), appconfig.KeyHost)
	}

	if preferred == "" {
		preferred = b.Config.PreferredModel
	}
	model, decision, err := selector.Select(list, preferred, prompt)
	if err != nil {
		return Result{}, err
	}
	log.Info().Str("model", model.Name).Str("size", model.ParameterSize).Str("decision", string(decision)).Msg("model selected")

	return Result{Client: client, Model: model, Models: list, Decision: decision}, nil
}

// FromFile loads the configuration at path and bootstraps with default hooks.
func FromFile(ctx context.Context, path, preferred, prompt string) (providers.BackendClient, models.Descriptor, error) {
	cfg, err := appconfig.LoadFile(path)
	if err != nil {
		return nil, models.Descriptor{}, err
	}
	return New(&cfg).Bootstrap(ctx, preferred, prompt)
}

func (b *Bootstrapper) detect() func(context.Context, *appconfig.Config) providers.Kind {
	if b.Detect != nil {
		return b.Detect
	}
	return providerfactory.Detect
}

func (b *Bootstrapper) newClient() func(providers.Kind, *appconfig.Config) (providers.BackendClient, error) {
	if b.NewClient != nil {
		return b.NewClient
	}
	return providerfactory.NewClientForKind
}

func (b *Bootstrapper) logger() *zerolog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	l := logging.Logger()
	return &l
}
