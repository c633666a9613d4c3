package loader

import (
	"fmt"

	"github.com/felixgeelhaar/plugwire/internal/domain/plugin"
	"github.com/felixgeelhaar/plugwire/internal/registry"
)

// Catalog maps manifest entrypoints to compiled-in plugin constructors.
// Entrypoints are registered once and never replaced.
type Catalog struct {
	entries *registry.Registry[string, plugin.InitFunc]
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: registry.New[string, plugin.InitFunc]()}
}

// Register adds a constructor under entrypoint.
func (c *Catalog) Register(entrypoint string, fn plugin.InitFunc) error {
	if entrypoint == "" {
		return fmt.Errorf("entrypoint must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("entrypoint %s: constructor must not be nil", entrypoint)
	}
	if err := c.entries.Set(entrypoint, fn); err != nil {
		return fmt.Errorf("entrypoint %s: %w", entrypoint, err)
	}
	return nil
}

// Lookup returns the constructor registered under entrypoint.
func (c *Catalog) Lookup(entrypoint string) (plugin.InitFunc, bool) {
	return c.entries.Get(entrypoint)
}

// Entrypoints returns the registered entrypoints in registration order.
func (c *Catalog) Entrypoints() []string {
	return c.entries.Keys()
}
