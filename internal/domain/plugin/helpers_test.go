package plugin

import (
	"errors"
)

// emptyInit returns an instance with no exports.
func emptyInit(_ any, _ Deps) (*Instance, error) {
	return &Instance{}, nil
}

// exporting returns an Init whose instance exports v.
func exporting(v any) InitFunc {
	return func(_ any, _ Deps) (*Instance, error) {
		return &Instance{Exports: v}, nil
	}
}

func newFactory(name string, edits ...func(*Factory)) *Factory {
	f := &Factory{Name: name, Init: emptyInit}
	for _, edit := range edits {
		edit(f)
	}
	return f
}

func withRole(role string) func(*Factory) {
	return func(f *Factory) { f.Role = role }
}

func withRequires(names ...string) func(*Factory) {
	return func(f *Factory) { f.Requires = names }
}

func withRequiresRoles(roles ...string) func(*Factory) {
	return func(f *Factory) { f.RequiresRoles = roles }
}

func withInit(fn InitFunc) func(*Factory) {
	return func(f *Factory) { f.Init = fn }
}

func withProperty(key string, value any) func(*Factory) {
	return func(f *Factory) {
		if f.Properties == nil {
			f.Properties = make(map[string]any)
		}
		f.Properties[key] = value
	}
}

// recordingInit appends name to calls each time the plugin is constructed.
func recordingInit(calls *[]string, name string) func(*Factory) {
	return withInit(func(_ any, _ Deps) (*Instance, error) {
		*calls = append(*calls, name)
		return &Instance{Exports: name}, nil
	})
}

var errBoom = errors.New("boom")
