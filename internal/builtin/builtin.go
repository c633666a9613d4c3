// Package builtin holds the plugin constructors compiled into plugwire.
// Manifests on disk refer to them by entrypoint.
package builtin

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/plugwire/internal/domain/loader"
	"github.com/felixgeelhaar/plugwire/internal/domain/plugin"
	"github.com/felixgeelhaar/plugwire/internal/ports"
)

// Host is the value plugwire passes to every builtin constructor.
type Host struct {
	Logger ports.Logger
	// Announcements collects one line per plugin that announced itself.
	Announcements []string
}

// Dancer is exported by the waltz and tango plugins.
type Dancer struct {
	Dance string
}

// Ballroom is exported by the ballroom plugin.
type Ballroom struct {
	Dancer Dancer
}

// Entrypoint names.
const (
	EntrypointBare        = "bare"
	EntrypointExportsTrue = "exports-true"
	EntrypointWaltz       = "waltz"
	EntrypointTango       = "tango"
	EntrypointBallroom    = "ballroom"
	EntrypointHasTestHook = "has-test-hook"
	EntrypointAnnouncer   = "announcer"
)

// constructors lists the builtins in catalog order.
var constructors = []struct {
	entrypoint string
	init       plugin.InitFunc
}{
	{EntrypointBare, bare},
	{EntrypointExportsTrue, exportsTrue},
	{EntrypointWaltz, dancer("waltz")},
	{EntrypointTango, dancer("tango")},
	{EntrypointBallroom, ballroom},
	{EntrypointHasTestHook, hasTestHook},
	{EntrypointAnnouncer, announcer},
}

// Register adds every builtin constructor to catalog.
func Register(catalog *loader.Catalog) error {
	for _, c := range constructors {
		if err := catalog.Register(c.entrypoint, c.init); err != nil {
			return fmt.Errorf("registering builtin %s: %w", c.entrypoint, err)
		}
	}
	return nil
}

// NewCatalog returns a catalog holding all builtins.
func NewCatalog() (*loader.Catalog, error) {
	catalog := loader.NewCatalog()
	if err := Register(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func bare(_ any, _ plugin.Deps) (*plugin.Instance, error) {
	return &plugin.Instance{}, nil
}

func exportsTrue(_ any, _ plugin.Deps) (*plugin.Instance, error) {
	return &plugin.Instance{Exports: true}, nil
}

func dancer(dance string) plugin.InitFunc {
	return func(_ any, _ plugin.Deps) (*plugin.Instance, error) {
		return &plugin.Instance{
			Exports:    Dancer{Dance: dance},
			Properties: map[string]any{"announce": "ready to " + dance},
		}, nil
	}
}

func ballroom(_ any, deps plugin.Deps) (*plugin.Instance, error) {
	d, ok := deps["dancer"].(Dancer)
	if !ok {
		return nil, fmt.Errorf("ballroom needs a dancer, got %T", deps["dancer"])
	}
	return &plugin.Instance{Exports: Ballroom{Dancer: d}}, nil
}

func hasTestHook(_ any, _ plugin.Deps) (*plugin.Instance, error) {
	return &plugin.Instance{
		Properties: map[string]any{"test": true},
	}, nil
}

// announcer registers the after-install hook "announce". Every later
// plugin whose instance has an announce property is logged and recorded on
// the Host.
func announcer(host any, _ plugin.Deps) (*plugin.Instance, error) {
	h, ok := host.(*Host)
	if !ok || h == nil {
		return nil, fmt.Errorf("announcer needs a *builtin.Host, got %T", host)
	}

	announce := func(pluginName string, value any) {
		line := fmt.Sprintf("%s: %v", pluginName, value)
		h.Announcements = append(h.Announcements, line)
		if h.Logger != nil {
			h.Logger.Info(context.Background(), "plugin announced",
				ports.F("plugin", pluginName),
				ports.F("message", fmt.Sprint(value)),
			)
		}
	}

	return &plugin.Instance{
		AfterHooks: []plugin.Hook{{Name: "announce", Fn: announce}},
	}, nil
}
