package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/plugwire/internal/adapters/filesystem"
	"github.com/felixgeelhaar/plugwire/internal/adapters/logging"
	"github.com/felixgeelhaar/plugwire/internal/builtin"
	"github.com/felixgeelhaar/plugwire/internal/domain/config"
	"github.com/felixgeelhaar/plugwire/internal/domain/loader"
	"github.com/felixgeelhaar/plugwire/internal/domain/plugin"
	"github.com/felixgeelhaar/plugwire/internal/ports"
)

// session is everything one command needs: the effective configuration,
// a logger and a loader wired to a fresh plugin system.
type session struct {
	cfg    *config.Config
	logger ports.Logger
	host   *builtin.Host
	system *plugin.System
	loader *loader.Loader
}

// newSession loads the configuration, applies the global flags on top of it
// and wires the plugin system with the builtin catalog.
func newSession(cmd *cobra.Command) (*session, error) {
	fs := filesystem.NewRealFileSystem()

	cfg, err := config.Load(fs, cfgFile)
	if err != nil {
		return nil, err
	}
	if systemName != "" {
		cfg.System = systemName
	}
	if basePath != "" {
		cfg.BasePath = basePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, config.NewConfigInvalidError("command line", err)
	}

	level := cfg.LogLevel()
	if verbose {
		level = ports.LevelDebug
	}
	logger := logging.NewConsoleLogger(
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithLevel(level),
		logging.WithJSONFormat(jsonOutput || cfg.Log.JSON),
		logging.WithTimestamp(jsonOutput || cfg.Log.JSON),
		logging.WithColor(!jsonOutput && !cfg.Log.JSON),
	).With(ports.F("system", cfg.System))

	catalog, err := builtin.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}

	host := &builtin.Host{Logger: logger}
	system := plugin.NewSystem(host, plugin.WithLogger(logger))

	return &session{
		cfg:    cfg,
		logger: logger,
		host:   host,
		system: system,
		loader: loader.New(system, loader.NewLocator(cfg.System, fs), loader.NewManifestRequirer(fs, catalog)),
	}, nil
}

// context returns ctx carrying the session logger.
func (s *session) context(ctx context.Context) context.Context {
	return ports.ContextWithLogger(ctx, s.logger)
}

// pluginNames returns args, or the configured plugins when args is empty.
func (s *session) pluginNames(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(s.cfg.Plugins) == 0 {
		return nil, &config.UserError{
			Code:       config.ErrCodeConfigInvalid,
			Message:    "no plugins to load",
			Suggestion: "Name plugins on the command line or list them under 'plugins' in plugwire.yaml.",
		}
	}
	return s.cfg.Plugins, nil
}
