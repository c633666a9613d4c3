package plugin

import (
	"fmt"

	"github.com/felixgeelhaar/plugwire/internal/adapters/logging"
	"github.com/felixgeelhaar/plugwire/internal/ports"
	"github.com/felixgeelhaar/plugwire/internal/registry"
)

// System owns the plugin, role and hook registries of one host. Systems are
// independent of each other. A System is not safe for concurrent use; a host
// that installs from several goroutines must serialize the calls.
type System struct {
	host        any
	plugins     *registry.Registry[string, *Instance]
	roles       *registry.Registry[string, *Instance]
	beforeHooks *registry.Registry[string, HookFunc]
	afterHooks  *registry.Registry[string, HookFunc]
	logger      ports.Logger
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger used for install and hook events.
func WithLogger(logger ports.Logger) Option {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSystem creates an empty System. host is forwarded unchanged to every
// factory's Init.
func NewSystem(host any, opts ...Option) *System {
	s := &System{
		host:        host,
		plugins:     registry.New[string, *Instance](),
		roles:       registry.New[string, *Instance](),
		beforeHooks: registry.New[string, HookFunc](),
		afterHooks:  registry.New[string, HookFunc](),
		logger:      logging.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// HasPlugin reports whether a plugin with the given name is installed.
func (s *System) HasPlugin(name string) bool {
	return s.plugins.Has(name)
}

// HasRole reports whether some installed plugin provides role.
func (s *System) HasRole(role string) bool {
	return s.roles.Has(role)
}

// LoadedNames returns the installed plugin names in install order.
func (s *System) LoadedNames() []string {
	return s.plugins.Keys()
}

// PluginExportsOf returns the exports of the named plugin.
func (s *System) PluginExportsOf(name string) (any, error) {
	instance, ok := s.plugins.Get(name)
	if !ok {
		return nil, &Failure{
			Type:    PluginNotInstalled,
			Message: fmt.Sprintf("cannot get exports from '%s': plugin not installed", name),
			Name:    name,
		}
	}
	return instance.Exports, nil
}

// RoleExportsOf returns the exports of the plugin that provides role.
func (s *System) RoleExportsOf(role string) (any, error) {
	instance, ok := s.roles.Get(role)
	if !ok {
		return nil, &Failure{
			Type:    RoleNotInstalled,
			Message: fmt.Sprintf("cannot get exports from role '%s': role not installed", role),
			Role:    role,
		}
	}
	return instance.Exports, nil
}
