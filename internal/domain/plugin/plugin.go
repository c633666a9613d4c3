// Package plugin resolves and installs self-describing plugins into a host.
//
// A plugin is described by a Factory: a name, an optional role, the plugin
// names and roles it depends on, and an Init constructor. A System owns four
// set-once registries (plugins, roles, before-install hooks and after-install
// hooks) and installs factories once their dependencies are present,
// injecting the dependencies' exports into Init.
//
// Batches of factories are ordered with Resolve and installed with
// InstallBatch, which pull in whichever batch members satisfy a missing
// dependency and report unmet or cyclic dependencies.
package plugin

import (
	"fmt"
	"strings"
)

// Deps maps a required plugin name or role to that plugin's exports.
type Deps map[string]any

// InitFunc constructs a plugin instance. host is the opaque value the System
// was created with.
type InitFunc func(host any, deps Deps) (*Instance, error)

// HookFunc is invoked with the name of the plugin being installed and the
// value of the property the hook matched.
type HookFunc func(pluginName string, value any)

// Hook is a named hook declared by a plugin instance.
type Hook struct {
	Name string
	Fn   HookFunc
}

// Factory describes a plugin: its identity, its dependencies and how to
// construct it. A Factory must not be modified once submitted.
type Factory struct {
	// Name identifies the plugin; it must be unique.
	Name string
	// Role is an optional capability tag; at most one installed plugin may
	// claim it.
	Role string
	// Requires lists plugin names that must be installed first.
	Requires []string
	// RequiresRoles lists roles that must be provided first.
	RequiresRoles []string
	// Init constructs the plugin instance.
	Init InitFunc
	// Properties are the factory's own extra properties. Before-install hooks
	// fire for every property whose key matches the hook name.
	Properties map[string]any
}

// String returns the plugin name with its role, if any.
func (f *Factory) String() string {
	if f.Role != "" {
		return fmt.Sprintf("%s (%s)", f.Name, f.Role)
	}
	return f.Name
}

// Property returns the factory's own property name. The declared fields
// answer to their manifest keys (name, role, requires, requiresRoles and
// init) when set; any other name is looked up in Properties.
func (f *Factory) Property(name string) (any, bool) {
	switch name {
	case KeyName:
		return f.Name, true
	case KeyRole:
		return f.Role, f.Role != ""
	case KeyRequires:
		return f.Requires, f.Requires != nil
	case KeyRequiresRoles:
		return f.RequiresRoles, f.RequiresRoles != nil
	case KeyInit:
		return f.Init, f.Init != nil
	}
	v, ok := f.Properties[name]
	return v, ok
}

// dependsOn describes the factory's declared dependencies for log output.
func (f *Factory) dependsOn() string {
	parts := make([]string, 0, len(f.Requires)+len(f.RequiresRoles))
	parts = append(parts, f.Requires...)
	for _, role := range f.RequiresRoles {
		parts = append(parts, "role:"+role)
	}
	return strings.Join(parts, ",")
}

// Instance is the live plugin returned by a factory's Init.
type Instance struct {
	// Exports is what dependents receive in their Deps.
	Exports any
	// Properties are matched against after-install hook names.
	Properties map[string]any
	// Hooks registers after-install hooks. It is the older spelling of
	// AfterHooks and is registered first.
	Hooks []Hook
	// AfterHooks registers after-install hooks.
	AfterHooks []Hook
	// BeforeHooks registers before-install hooks.
	BeforeHooks []Hook
	// StaticHooks is the older spelling of BeforeHooks and is registered
	// after it.
	StaticHooks []Hook
}

// Instance keys answered by Instance.Property.
const (
	KeyExports     = "exports"
	KeyHooks       = "hooks"
	KeyAfterHooks  = "afterHooks"
	KeyBeforeHooks = "beforeHooks"
	KeyStaticHooks = "staticHooks"
)

// Property returns the instance's own property name. Exports and the hook
// declarations answer to their keys when set; any other name is looked up
// in Properties.
func (i *Instance) Property(name string) (any, bool) {
	switch name {
	case KeyExports:
		return i.Exports, i.Exports != nil
	case KeyHooks:
		return i.Hooks, i.Hooks != nil
	case KeyAfterHooks:
		return i.AfterHooks, i.AfterHooks != nil
	case KeyBeforeHooks:
		return i.BeforeHooks, i.BeforeHooks != nil
	case KeyStaticHooks:
		return i.StaticHooks, i.StaticHooks != nil
	}
	v, ok := i.Properties[name]
	return v, ok
}
