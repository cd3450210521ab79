package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/promptmux/relay/config"
	"github.com/promptmux/relay/services/health"
	"github.com/promptmux/relay/services/providers"
	"github.com/promptmux/relay/services/providers/anthropic"
	"github.com/promptmux/relay/services/providers/gemini"
	"github.com/promptmux/relay/services/providers/groq"
	"github.com/promptmux/relay/services/relay"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Registry holds one adapter per configured vendor, in failover
	// priority order.
	Registry *providers.Registry

	// Services
	Relay  *relay.RelayService
	Health *health.HealthService
}

// NewDependencies creates and wires up all application dependencies. Vendor
// clients are constructed exactly once here and are read-only afterwards.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initProviders(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("all dependencies initialized successfully",
		zap.Strings("providers", deps.Registry.Names()))
	return deps, nil
}

// MultiProvider reports whether more than one provider survived registration.
// The relay, health and test response shapes depend on it.
func (d *Dependencies) MultiProvider() bool {
	return d.Registry.Count() > 1
}

// initProviders builds one adapter per name in RELAY_PROVIDERS, preserving
// that order as the failover priority. Vendors without a credential are
// skipped with a warning so a partially configured environment still serves,
// but at least one adapter must survive.
func (d *Dependencies) initProviders(cfg *config.Config) error {
	registry := providers.NewRegistry()

	for _, name := range cfg.Relay.Providers {
		provider, err := d.buildProvider(name, cfg)
		if err != nil {
			return err
		}
		if provider == nil {
			continue
		}
		if err := registry.Register(provider); err != nil {
			return fmt.Errorf("failed to register provider %q: %w", name, err)
		}
		d.Logger.Info("registered provider", zap.String("provider", name))
	}

	if registry.Count() == 0 {
		return fmt.Errorf("no providers registered: configure at least one of %s, %s or %s",
			"GROQ_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY")
	}

	d.Registry = registry
	return nil
}

// buildProvider constructs the adapter for one vendor name. A nil provider
// with a nil error means the vendor has no credential and is skipped.
func (d *Dependencies) buildProvider(name string, cfg *config.Config) (providers.Provider, error) {
	switch name {
	case config.ProviderGroq:
		if cfg.Providers.Groq.APIKey == "" {
			d.Logger.Warn("skipping provider without credential", zap.String("provider", name))
			return nil, nil
		}
		return groq.NewGroqAdapter(providers.ProviderConfig{
			APIKey:  cfg.Providers.Groq.APIKey,
			BaseURL: cfg.Providers.Groq.BaseURL,
			Model:   cfg.Providers.Groq.Model,
			Timeout: cfg.Providers.Groq.Timeout,
		}, d.Logger), nil

	case config.ProviderGemini:
		if cfg.Providers.Gemini.APIKey == "" {
			d.Logger.Warn("skipping provider without credential", zap.String("provider", name))
			return nil, nil
		}
		return gemini.NewGeminiAdapter(providers.ProviderConfig{
			APIKey:  cfg.Providers.Gemini.APIKey,
			BaseURL: cfg.Providers.Gemini.BaseURL,
			Model:   cfg.Providers.Gemini.Model,
			Timeout: cfg.Providers.Gemini.Timeout,
		}, d.Logger), nil

	case config.ProviderAnthropic:
		if cfg.Providers.Anthropic.APIKey == "" {
			d.Logger.Warn("skipping provider without credential", zap.String("provider", name))
			return nil, nil
		}
		return anthropic.NewAnthropicAdapter(providers.ProviderConfig{
			APIKey:  cfg.Providers.Anthropic.APIKey,
			Model:   cfg.Providers.Anthropic.Model,
			Timeout: cfg.Providers.Anthropic.Timeout,
		}, d.Logger), nil

	default:
		// Config validation rejects unknown names before this point.
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// initServices wires the relay and health services over the registered
// adapters. Both see the same fixed priority order.
func (d *Dependencies) initServices() error {
	relayService, err := relay.NewRelayService(d.Registry.InOrder(), d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create relay service: %w", err)
	}

	d.Relay = relayService
	d.Health = health.NewHealthService(d.Registry.InOrder(), d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
