package plugin

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/plugwire/internal/ports"
)

// Install installs f if CanInstall allows it and returns the new instance's
// exports. When CanInstall fails, the result is a CanInstallFailed failure
// wrapping the reason and nothing is changed.
func (s *System) Install(f *Factory) (any, error) {
	if err := s.CanInstall(f); err != nil {
		return nil, cannotInstall(f, err)
	}
	return s.UnsafeInstall(f)
}

// UnsafeInstall installs f without checking CanInstall first.
//
// Hook side effects are not rolled back: before-install hooks that fired,
// and hooks registered by the instance before a duplicate was found, stay
// in effect when a later step fails. The plugin and role registries are
// only written once every other step succeeded.
func (s *System) UnsafeInstall(f *Factory) (any, error) {
	ctx := context.Background()

	fireHooks(s.beforeHooks, f.Name, f.Property)

	instance, err := f.Init(s.host, s.dependencies(f))
	if err != nil {
		return nil, &Failure{
			Type:    InitFailed,
			Message: fmt.Sprintf("plugin '%s' failed to initialize", f.Name),
			Name:    f.Name,
			Factory: f,
			Inner:   err,
		}
	}
	if instance == nil {
		return nil, &Failure{
			Type:    PluginNotAnObject,
			Message: fmt.Sprintf("plugin instance from '%s' must be an object; init function returned nil instead", f.Name),
			Name:    f.Name,
			Factory: f,
		}
	}

	if err := registerHooks(instance.Hooks, s.AddAfterInstallHook); err != nil {
		return nil, withFactory(err, f)
	}
	if err := registerHooks(instance.AfterHooks, s.AddAfterInstallHook); err != nil {
		return nil, withFactory(err, f)
	}
	if err := registerHooks(instance.BeforeHooks, s.AddBeforeInstallHook); err != nil {
		return nil, withFactory(err, f)
	}
	if err := registerHooks(instance.StaticHooks, s.AddBeforeInstallHook); err != nil {
		return nil, withFactory(err, f)
	}

	fireHooks(s.afterHooks, f.Name, instance.Property)

	// CanInstall already ruled out both collisions.
	_ = s.plugins.Set(f.Name, instance)
	if f.Role != "" {
		_ = s.roles.Set(f.Role, instance)
	}

	s.logger.Info(ctx, "plugin installed",
		ports.F("plugin", f.Name),
		ports.F("role", f.Role),
		ports.F("requires", f.dependsOn()),
	)

	return instance.Exports, nil
}

// dependencies maps each required name and role to the provider's exports.
func (s *System) dependencies(f *Factory) Deps {
	deps := make(Deps, len(f.Requires)+len(f.RequiresRoles))

	for _, name := range f.Requires {
		if instance, ok := s.plugins.Get(name); ok {
			deps[name] = instance.Exports
		}
	}
	for _, role := range f.RequiresRoles {
		if instance, ok := s.roles.Get(role); ok {
			deps[role] = instance.Exports
		}
	}

	return deps
}

func withFactory(err error, f *Factory) error {
	if failure, ok := err.(*Failure); ok {
		failure.Name = f.Name
		failure.Factory = f
	}
	return err
}
