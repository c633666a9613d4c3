package plugin

import (
	"fmt"
	"reflect"
)

// Manifest keys understood by Validate. Every other key of a map candidate
// becomes a factory property.
const (
	KeyName          = "name"
	KeyRole          = "role"
	KeyRequires      = "requires"
	KeyRequiresRoles = "requiresRoles"
	KeyInit          = "init"
)

// Validate checks a candidate's shape and returns it as a Factory.
//
// A *Factory (or Factory) is accepted as is, provided it has a name and an
// Init. A map[string]any, such as a decoded manifest, is checked key by key
// in a fixed order and the first failure is returned. Any other value fails
// with NotAnObject.
func Validate(candidate any) (*Factory, error) {
	switch c := candidate.(type) {
	case *Factory:
		if c == nil {
			return nil, notAnObject(candidate)
		}
		return validateTyped(c)
	case Factory:
		return validateTyped(&c)
	case map[string]any:
		if c == nil {
			return nil, notAnObject(candidate)
		}
		return validateMap(c)
	default:
		return nil, notAnObject(candidate)
	}
}

func validateTyped(f *Factory) (*Factory, error) {
	if f.Name == "" {
		return nil, &Failure{
			Type:    NameNotAString,
			Message: "PluginFactory 'name' property must be a non-empty string. Was given an empty string instead.",
			Factory: f,
		}
	}
	if f.Init == nil {
		return nil, initNotAFunction(f.Name, nil, false)
	}
	return f, nil
}

func validateMap(m map[string]any) (*Factory, error) {
	rawName, present := m[KeyName]
	name, ok := rawName.(string)
	if !ok || name == "" {
		given := aType(rawName, present)
		if ok {
			given = "an empty string"
		}
		return nil, &Failure{
			Type:    NameNotAString,
			Message: fmt.Sprintf("PluginFactory 'name' property must be a string. Was given %s instead.", given),
		}
	}

	f := &Factory{Name: name}

	if rawRole, present := m[KeyRole]; present && rawRole != nil {
		role, ok := rawRole.(string)
		if !ok {
			return nil, &Failure{
				Type: RoleNotAString,
				Message: fmt.Sprintf("PluginFactory 'role' property must be a string or not defined when the plugin does not declare a role. Was given %s instead.",
					aType(rawRole, true)),
				Name: name,
			}
		}
		f.Role = role
	}

	if rawRequires, present := m[KeyRequires]; present && rawRequires != nil {
		requires, ok := stringList(rawRequires)
		if !ok {
			return nil, &Failure{
				Type: RequiresNotAnArray,
				Message: fmt.Sprintf("PluginFactory 'requires' property must be an array of strings (the required plugins' names) or not defined when the plugin does not require other plugins. Was given %s instead.",
					aType(rawRequires, true)),
				Name: name,
			}
		}
		f.Requires = requires
	}

	if rawRequiresRoles, present := m[KeyRequiresRoles]; present && rawRequiresRoles != nil {
		requiresRoles, ok := stringList(rawRequiresRoles)
		if !ok {
			return nil, &Failure{
				Type: RequiresRolesNotAnArray,
				Message: fmt.Sprintf("PluginFactory 'requiresRoles' property must be an array of strings (the required roles' names) or not defined when the plugin does not require other roles. Was given %s instead.",
					aType(rawRequiresRoles, true)),
				Name: name,
			}
		}
		f.RequiresRoles = requiresRoles
	}

	rawInit, present := m[KeyInit]
	initFn, ok := initFunc(rawInit)
	if !ok {
		return nil, initNotAFunction(name, rawInit, present)
	}
	f.Init = initFn

	for key, value := range m {
		switch key {
		case KeyName, KeyRole, KeyRequires, KeyRequiresRoles, KeyInit:
			continue
		}
		if f.Properties == nil {
			f.Properties = make(map[string]any)
		}
		f.Properties[key] = value
	}

	return f, nil
}

func notAnObject(candidate any) *Failure {
	return &Failure{
		Type:    NotAnObject,
		Message: fmt.Sprintf("PluginFactory must be an object. Was given %s instead.", aType(candidate, true)),
	}
}

func initNotAFunction(name string, given any, present bool) *Failure {
	return &Failure{
		Type:    InitNotAFunction,
		Message: fmt.Sprintf("PluginFactory 'init' property must be a function. Was given %s instead.", aType(given, present)),
		Name:    name,
	}
}

// stringList accepts []string or a []any holding only strings, which is what
// YAML and TOML decoders produce.
func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func initFunc(v any) (InitFunc, bool) {
	switch fn := v.(type) {
	case InitFunc:
		return fn, fn != nil
	case func(any, Deps) (*Instance, error):
		return fn, fn != nil
	case func(any, map[string]any) (*Instance, error):
		if fn == nil {
			return nil, false
		}
		return func(host any, deps Deps) (*Instance, error) {
			return fn(host, deps)
		}, true
	default:
		return nil, false
	}
}

// aType describes the type of a value for diagnostics, prefixed with an
// article where one applies.
func aType(v any, present bool) string {
	if !present {
		return "undefined"
	}
	if v == nil {
		return "null"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Func:
		return "a function"
	case reflect.Pointer, reflect.Interface, reflect.Map:
		if rv.IsNil() {
			return "null"
		}
		return "an object"
	default:
		return "an object"
	}
}
