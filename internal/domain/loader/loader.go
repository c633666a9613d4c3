// Package loader turns plugin names into installed plugins: it locates each
// plugin's manifest on disk, decodes it, validates the result and hands the
// batch to a plugin.System.
package loader

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/plugwire/internal/adapters/logging"
	"github.com/felixgeelhaar/plugwire/internal/domain/plugin"
	"github.com/felixgeelhaar/plugwire/internal/ports"
)

// Loader loads plugins by name into a System.
type Loader struct {
	system   *plugin.System
	locator  *Locator
	requirer Requirer
}

// New creates a Loader installing into system.
func New(system *plugin.System, locator *Locator, requirer Requirer) *Loader {
	return &Loader{
		system:   system,
		locator:  locator,
		requirer: requirer,
	}
}

// Use locates, loads and validates every named plugin, then installs them
// as one batch in dependency order. Each phase completes for all names
// before the next begins, and the first failure ends the call. Nothing is
// installed unless every plugin was found, loaded and validated.
//
// The report is nil when the batch never reached the System.
func (l *Loader) Use(ctx context.Context, names []string, basePath string) (*plugin.BatchReport, error) {
	factories, err := l.prepare(ctx, names, basePath)
	if err != nil {
		return nil, err
	}
	return l.system.InstallBatch(factories)
}

// Resolve runs every step of Use except installation and returns the order
// the plugins would be installed in.
func (l *Loader) Resolve(ctx context.Context, names []string, basePath string) ([]*plugin.Factory, error) {
	factories, err := l.prepare(ctx, names, basePath)
	if err != nil {
		return nil, err
	}
	return l.system.Resolve(factories)
}

func (l *Loader) prepare(ctx context.Context, names []string, basePath string) ([]*plugin.Factory, error) {
	logger := ports.LoggerFromContext(ctx)
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	paths := make([]string, len(names))
	for i, name := range names {
		path, err := l.locator.Locate(name, basePath)
		if err != nil {
			return nil, err
		}
		logger.Debug(ctx, "plugin located", ports.F("plugin", name), ports.F("path", path))
		paths[i] = path
	}

	raws := make([]any, len(names))
	for i, name := range names {
		raw, err := l.load(name, paths[i])
		if err != nil {
			return nil, err
		}
		raws[i] = raw
	}

	factories := make([]*plugin.Factory, len(raws))
	for i, raw := range raws {
		f, err := plugin.Validate(raw)
		if err != nil {
			return nil, &plugin.Failure{
				Type:    plugin.ValidatePluginFactoryFailed,
				Message: fmt.Sprintf("an invalid plugin factory was loaded from %s", paths[i]),
				Name:    names[i],
				Path:    paths[i],
				Inner:   err,
			}
		}
		factories[i] = f
	}

	return factories, nil
}

// load requires the manifest at path. A mapping without a name takes the
// requested name; a mapping naming a different plugin is rejected.
func (l *Loader) load(name, path string) (any, error) {
	raw, err := l.requirer.Require(path)
	if err != nil {
		if plugin.TypeOf(err) == plugin.LoadFailed {
			return nil, err
		}
		return nil, &plugin.Failure{
			Type:    plugin.LoadFailed,
			Message: fmt.Sprintf("loading plugin '%s' from %s failed", name, path),
			Name:    name,
			Path:    path,
			Inner:   err,
		}
	}

	m, ok := raw.(map[string]any)
	if !ok || m == nil {
		return raw, nil
	}

	given, present := m[plugin.KeyName]
	if !present || given == nil {
		m[plugin.KeyName] = name
		return m, nil
	}
	if given != name {
		return nil, &plugin.Failure{
			Type:    plugin.InconsistentlyNamedPlugin,
			Message: fmt.Sprintf("tried to load plugin '%s'; loaded plugin named '%v' instead", name, given),
			Name:    name,
			Path:    path,
		}
	}

	return m, nil
}
