package testutil

import (
	"bytes"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// TestManifest is a plugin manifest as written to disk by tests.
type TestManifest struct {
	Name          string
	Role          string
	Requires      []string
	RequiresRoles []string
	Entrypoint    string
	Version       string
	Extra         map[string]string
}

// ManifestBuilder builds test plugin manifests.
type ManifestBuilder struct {
	manifest TestManifest
}

// NewManifestBuilder creates a builder for a manifest whose entrypoint is
// the plugin name.
func NewManifestBuilder(name string) *ManifestBuilder {
	return &ManifestBuilder{
		manifest: TestManifest{
			Name:       name,
			Entrypoint: name,
			Extra:      make(map[string]string),
		},
	}
}

// WithoutName leaves the name key out of the manifest.
func (b *ManifestBuilder) WithoutName() *ManifestBuilder {
	b.manifest.Name = ""
	return b
}

// WithRole sets the provided role.
func (b *ManifestBuilder) WithRole(role string) *ManifestBuilder {
	b.manifest.Role = role
	return b
}

// WithRequires sets the required plugin names.
func (b *ManifestBuilder) WithRequires(names ...string) *ManifestBuilder {
	b.manifest.Requires = names
	return b
}

// WithRequiresRoles sets the required roles.
func (b *ManifestBuilder) WithRequiresRoles(roles ...string) *ManifestBuilder {
	b.manifest.RequiresRoles = roles
	return b
}

// WithEntrypoint sets the catalog entrypoint. An empty entrypoint is
// omitted.
func (b *ManifestBuilder) WithEntrypoint(entrypoint string) *ManifestBuilder {
	b.manifest.Entrypoint = entrypoint
	return b
}

// WithVersion sets the manifest version.
func (b *ManifestBuilder) WithVersion(version string) *ManifestBuilder {
	b.manifest.Version = version
	return b
}

// WithProperty adds an extra string property.
func (b *ManifestBuilder) WithProperty(key, value string) *ManifestBuilder {
	b.manifest.Extra[key] = value
	return b
}

// Build returns the constructed manifest.
func (b *ManifestBuilder) Build() TestManifest {
	return b.manifest
}

func (m TestManifest) fields() map[string]interface{} {
	out := make(map[string]interface{}, len(m.Extra)+6)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.Name != "" {
		out["name"] = m.Name
	}
	if m.Role != "" {
		out["role"] = m.Role
	}
	if m.Requires != nil {
		out["requires"] = m.Requires
	}
	if m.RequiresRoles != nil {
		out["requiresRoles"] = m.RequiresRoles
	}
	if m.Entrypoint != "" {
		out["entrypoint"] = m.Entrypoint
	}
	if m.Version != "" {
		out["version"] = m.Version
	}
	return out
}

// ToYAML renders the manifest as YAML.
func (m TestManifest) ToYAML() string {
	data, err := yaml.Marshal(m.fields())
	if err != nil {
		panic(err)
	}
	return string(data)
}

// ToTOML renders the manifest as TOML.
func (m TestManifest) ToTOML() string {
	data, err := toml.Marshal(m.fields())
	if err != nil {
		panic(err)
	}
	return string(data)
}

// ToINI renders the manifest as keys of the default INI section. Lists are
// comma-separated.
func (m TestManifest) ToINI() string {
	cfg := ini.Empty()
	section := cfg.Section(ini.DefaultSection)

	fields := m.fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		value := fields[k]
		if list, ok := value.([]string); ok {
			value = strings.Join(list, ",")
		}
		if _, err := section.NewKey(k, value.(string)); err != nil {
			panic(err)
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		panic(err)
	}
	return buf.String()
}
