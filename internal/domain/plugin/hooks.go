package plugin

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/plugwire/internal/ports"
	"github.com/felixgeelhaar/plugwire/internal/registry"
)

// AddBeforeInstallHook registers fn to run before every later install whose
// factory has a property named name. Hook names are unique per registry;
// a second registration fails with BeforeInstallHookAlreadyExists.
//
// An empty name or nil fn is a programmer error and panics.
func (s *System) AddBeforeInstallHook(name string, fn HookFunc) error {
	checkHookArguments(name, fn)

	if err := s.beforeHooks.Set(name, fn); err != nil {
		return &Failure{
			Type:    BeforeInstallHookAlreadyExists,
			Message: fmt.Sprintf("tried to set before-install hook '%s', but a plugin already has that before-install hook", name),
			Hook:    name,
			Inner:   err,
		}
	}

	s.logger.Debug(context.Background(), "before-install hook added", ports.F("hook", name))
	return nil
}

// AddAfterInstallHook registers fn to run after every later install whose
// instance has a property named name. A second registration of the same
// name fails with AfterInstallHookAlreadyExists.
//
// An empty name or nil fn is a programmer error and panics.
func (s *System) AddAfterInstallHook(name string, fn HookFunc) error {
	checkHookArguments(name, fn)

	if err := s.afterHooks.Set(name, fn); err != nil {
		return &Failure{
			Type:    AfterInstallHookAlreadyExists,
			Message: fmt.Sprintf("tried to set after-install hook '%s', but a plugin already has that after-install hook", name),
			Hook:    name,
			Inner:   err,
		}
	}

	s.logger.Debug(context.Background(), "after-install hook added", ports.F("hook", name))
	return nil
}

func checkHookArguments(name string, fn HookFunc) {
	if name == "" {
		panic(&ArgumentError{Argument: "name", Reason: "hook name must be a non-empty string"})
	}
	if fn == nil {
		panic(&ArgumentError{Argument: "fn", Reason: "hook function must not be nil"})
	}
}

// registerHooks adds each hook in order and stops at the first duplicate.
// Hooks registered before the duplicate stay registered.
func registerHooks(hooks []Hook, add func(string, HookFunc) error) error {
	for _, hook := range hooks {
		if err := add(hook.Name, hook.Fn); err != nil {
			return err
		}
	}
	return nil
}

// fireHooks invokes, in registration order, every hook whose name is an own
// property of the factory or instance being installed.
func fireHooks(hooks *registry.Registry[string, HookFunc], pluginName string, property func(string) (any, bool)) {
	hooks.ForEach(func(name string, fn HookFunc) {
		if value, ok := property(name); ok {
			fn(pluginName, value)
		}
	})
}
