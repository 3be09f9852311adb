package util

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tcpspsuite/gridsubmit/pkg/config"
	"github.com/tcpspsuite/gridsubmit/pkg/system"
)

type contextKey struct {
	name string
}

var configKey = contextKey{name: "context key for the loaded configuration"}

// WithConfig stores the configuration loaded by the root command.
func WithConfig(ctx context.Context, cfg config.GridSubmitConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// GetConfig returns the configuration of the running command, or the
// defaults when a command runs outside the root command.
func GetConfig(ctx context.Context) (config.GridSubmitConfig, error) {
	if cfg, ok := ctx.Value(configKey).(config.GridSubmitConfig); ok {
		return cfg, nil
	}
	log.Ctx(ctx).Debug().Msg("no configuration in context, using defaults")
	return config.Load("")
}

var runContextKey = contextKey{name: "context key for the scheduler run context"}

// WithRunContext stores the scheduler environment read at start-up.
func WithRunContext(ctx context.Context, rc system.RunContext) context.Context {
	return context.WithValue(ctx, runContextKey, rc)
}

// GetRunContext returns the run context stored by the root command. Outside
// the root command the process environment is read.
func GetRunContext(ctx context.Context) system.RunContext {
	if rc, ok := ctx.Value(runContextKey).(system.RunContext); ok {
		return rc
	}
	return system.CurrentRunContext()
}
