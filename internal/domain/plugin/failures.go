package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// FailureType classifies a Failure. It implements error so that
// errors.Is(err, CyclicDependency) matches any failure of that type,
// including failures wrapped by CanInstallFailed or InstallFailed.
type FailureType string

func (t FailureType) Error() string {
	return string(t)
}

// Validation failures: malformed factory shape.
const (
	NotAnObject             FailureType = "NotAnObject"
	NameNotAString          FailureType = "NameNotAString"
	RoleNotAString          FailureType = "RoleNotAString"
	RequiresNotAnArray      FailureType = "RequiresNotAnArray"
	RequiresRolesNotAnArray FailureType = "RequiresRolesNotAnArray"
	InitNotAFunction        FailureType = "InitNotAFunction"
)

// Cannot-install reasons: well formed but not installable right now.
const (
	PluginAlreadyInstalled        FailureType = "PluginAlreadyInstalled"
	RoleAlreadyInstalled          FailureType = "RoleAlreadyInstalled"
	UnfulfilledPluginDependencies FailureType = "UnfulfilledPluginDependencies"
	UnfulfilledRoleDependencies   FailureType = "UnfulfilledRoleDependencies"
)

// Install failures: raised after feasibility passed.
const (
	CanInstallFailed               FailureType = "CanInstallFailed"
	PluginNotAnObject              FailureType = "PluginNotAnObject"
	InitFailed                     FailureType = "InitFailed"
	BeforeInstallHookAlreadyExists FailureType = "BeforeInstallHookAlreadyExists"
	AfterInstallHookAlreadyExists  FailureType = "AfterInstallHookAlreadyExists"
)

// Batch failures. CannotFindPlugin, InconsistentlyNamedPlugin and LoadFailed
// are produced by the loader.
const (
	CannotFindPlugin            FailureType = "CannotFindPlugin"
	InconsistentlyNamedPlugin   FailureType = "InconsistentlyNamedPlugin"
	LoadFailed                  FailureType = "LoadFailed"
	UnmetDependency             FailureType = "UnmetDependency"
	CyclicDependency            FailureType = "CyclicDependency"
	ValidatePluginFactoryFailed FailureType = "ValidatePluginFactoryFailed"
	InstallFailed               FailureType = "InstallFailed"
)

// Accessor failures.
const (
	PluginNotInstalled FailureType = "PluginNotInstalled"
	RoleNotInstalled   FailureType = "RoleNotInstalled"
)

// DependencyType says whether a dependency was declared by name or by role.
type DependencyType string

const (
	// ByName is a dependency listed in Factory.Requires.
	ByName DependencyType = "name"
	// ByRole is a dependency listed in Factory.RequiresRoles.
	ByRole DependencyType = "role"
)

// Failure is the error returned by every fallible operation of the plugin
// system. Only the fields relevant to Type are populated.
type Failure struct {
	Type    FailureType
	Message string

	// Name is the offending plugin name.
	Name string
	// Role is the offending role.
	Role string
	// Hook is the duplicated hook name.
	Hook string
	// Path is the manifest location a loader failure refers to.
	Path string
	// Paths are the directories searched by the locator.
	Paths []string
	// Unfulfilled lists missing plugin names or roles.
	Unfulfilled []string
	// Chain is the recursion chain that closed a dependency cycle.
	Chain []string

	DependencyType DependencyType
	DependencyName string

	// Factory is the factory that triggered the failure.
	Factory *Factory
	// Inner is the wrapped failure or cause.
	Inner error
}

func (f *Failure) Error() string {
	if f.Inner != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Inner)
	}
	return f.Message
}

// Unwrap returns the wrapped failure.
func (f *Failure) Unwrap() error {
	return f.Inner
}

// Is matches a FailureType against this failure's type.
func (f *Failure) Is(target error) bool {
	t, ok := target.(FailureType)
	return ok && t == f.Type
}

// TypeOf returns the type of the outermost Failure in err's chain, or the
// empty string if there is none.
func TypeOf(err error) FailureType {
	var f *Failure
	if errors.As(err, &f) {
		return f.Type
	}
	return ""
}

// AsFailure returns the outermost Failure in err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}

// IsCyclicDependency returns true if err is or wraps a CyclicDependency failure.
func IsCyclicDependency(err error) bool {
	return errors.Is(err, CyclicDependency)
}

// IsUnmetDependency returns true if err is or wraps an UnmetDependency failure.
func IsUnmetDependency(err error) bool {
	return errors.Is(err, UnmetDependency)
}

// ArgumentError is the panic value for programmer errors, such as
// registering a hook with an empty name or nil function.
type ArgumentError struct {
	Argument string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Reason)
}

func cannotInstall(f *Factory, inner error) *Failure {
	return &Failure{
		Type:    CanInstallFailed,
		Message: fmt.Sprintf("the plugin '%s' cannot be installed", f.Name),
		Name:    f.Name,
		Factory: f,
		Inner:   inner,
	}
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
