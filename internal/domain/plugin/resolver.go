package plugin

import (
	"fmt"
)

// CanInstall reports whether f could be installed now. It returns nil when
// it can, and a Failure describing the first reason it cannot otherwise.
func (s *System) CanInstall(f *Factory) error {
	return s.CanInstallWith(f, nil)
}

// CanInstallWith reports whether f could be installed if every factory in
// assumed were installed as well. Name and role collisions are reported
// before missing dependencies. It never mutates the System.
func (s *System) CanInstallWith(f *Factory, assumed []*Factory) error {
	if s.plugins.Has(f.Name) || assumedName(assumed, f.Name) != nil {
		return &Failure{
			Type:    PluginAlreadyInstalled,
			Message: fmt.Sprintf("a plugin with the name '%s' has already been installed", f.Name),
			Name:    f.Name,
		}
	}

	if f.Role != "" {
		if s.roles.Has(f.Role) {
			return &Failure{
				Type:    RoleAlreadyInstalled,
				Message: fmt.Sprintf("a plugin with the role '%s' has already been installed", f.Role),
				Name:    f.Name,
				Role:    f.Role,
			}
		}

		if sibling := assumedRole(assumed, f.Role); sibling != nil {
			return &Failure{
				Type:    RoleAlreadyInstalled,
				Message: fmt.Sprintf("the plugins '%s' and '%s' both want to install the role '%s'", f.Name, sibling.Name, f.Role),
				Name:    f.Name,
				Role:    f.Role,
			}
		}
	}

	var unfulfilled []string
	for _, name := range f.Requires {
		if !s.plugins.Has(name) && assumedName(assumed, name) == nil {
			unfulfilled = append(unfulfilled, name)
		}
	}
	if len(unfulfilled) > 0 {
		return &Failure{
			Type:        UnfulfilledPluginDependencies,
			Message:     fmt.Sprintf("unfulfilled required plugins; provide these plugins first: %s", joinNames(unfulfilled)),
			Name:        f.Name,
			Unfulfilled: unfulfilled,
		}
	}

	var unfulfilledRoles []string
	for _, role := range f.RequiresRoles {
		if !s.roles.Has(role) && assumedRole(assumed, role) == nil {
			unfulfilledRoles = append(unfulfilledRoles, role)
		}
	}
	if len(unfulfilledRoles) > 0 {
		return &Failure{
			Type:        UnfulfilledRoleDependencies,
			Message:     fmt.Sprintf("unfulfilled required roles; provide these roles first: %s", joinNames(unfulfilledRoles)),
			Name:        f.Name,
			Unfulfilled: unfulfilledRoles,
		}
	}

	return nil
}

func assumedName(assumed []*Factory, name string) *Factory {
	for _, a := range assumed {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func assumedRole(assumed []*Factory, role string) *Factory {
	if role == "" {
		return nil
	}
	for _, a := range assumed {
		if a.Role == role {
			return a
		}
	}
	return nil
}
