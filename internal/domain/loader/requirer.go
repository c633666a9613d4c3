package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/plugwire/internal/domain/plugin"
	"github.com/felixgeelhaar/plugwire/internal/ports"
)

const (
	// maxManifestSize limits manifest file size to prevent memory exhaustion (256KB).
	maxManifestSize int64 = 256 * 1024

	// KeyEntrypoint names the catalog constructor bound to a manifest's init.
	KeyEntrypoint = "entrypoint"
	// KeyVersion is the optional semantic version of a plugin.
	KeyVersion = "version"
)

// Requirer turns a located path into a raw plugin candidate for
// plugin.Validate.
type Requirer interface {
	Require(path string) (any, error)
}

// ManifestRequirer decodes YAML, TOML and INI manifests and binds their
// entrypoint to a constructor from a Catalog.
type ManifestRequirer struct {
	fs      ports.FileSystem
	catalog *Catalog
}

// NewManifestRequirer creates a ManifestRequirer.
func NewManifestRequirer(fs ports.FileSystem, catalog *Catalog) *ManifestRequirer {
	return &ManifestRequirer{fs: fs, catalog: catalog}
}

// Require reads and decodes the manifest at path. A decoded mapping has its
// entrypoint replaced by an init constructor and its version checked.
// Values that are not mappings are returned as decoded; validation rejects
// them later.
func (r *ManifestRequirer) Require(path string) (any, error) {
	data, err := r.read(path)
	if err != nil {
		return nil, loadFailed(path, "reading manifest", err)
	}

	raw, err := decode(path, data)
	if err != nil {
		return nil, loadFailed(path, "decoding manifest", err)
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return raw, nil
	}

	if err := checkVersion(m); err != nil {
		return nil, loadFailed(path, "checking version", err)
	}
	if err := r.bindEntrypoint(m); err != nil {
		return nil, loadFailed(path, "binding entrypoint", err)
	}

	return m, nil
}

func (r *ManifestRequirer) read(path string) ([]byte, error) {
	info, err := r.fs.GetFileInfo(path)
	if err != nil {
		return nil, err
	}
	if info.Size > maxManifestSize {
		return nil, &ManifestSizeError{Size: info.Size, Limit: maxManifestSize}
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// The file may have grown since the stat.
	if int64(len(data)) > maxManifestSize {
		return nil, &ManifestSizeError{Size: int64(len(data)), Limit: maxManifestSize}
	}

	return data, nil
}

func (r *ManifestRequirer) bindEntrypoint(m map[string]any) error {
	raw, present := m[KeyEntrypoint]
	if !present {
		return nil
	}

	entrypoint, ok := raw.(string)
	if !ok || entrypoint == "" {
		return fmt.Errorf("entrypoint must be a non-empty string, got %v", raw)
	}

	fn, ok := r.catalog.Lookup(entrypoint)
	if !ok {
		return &UnknownEntrypointError{Entrypoint: entrypoint}
	}

	delete(m, KeyEntrypoint)
	m[plugin.KeyInit] = fn
	return nil
}

func decode(path string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	case ".toml":
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	case ".ini":
		return decodeINI(data)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", filepath.Ext(path))
	}
}

// listKeys are split on commas in INI manifests.
var listKeys = map[string]bool{
	plugin.KeyRequires:      true,
	plugin.KeyRequiresRoles: true,
}

// decodeINI maps the default section's keys to top-level values and every
// named section to a nested map of strings.
func decodeINI(data []byte) (any, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			for _, key := range section.Keys() {
				if listKeys[key.Name()] {
					raw[key.Name()] = key.Strings(",")
					continue
				}
				raw[key.Name()] = key.String()
			}
			continue
		}

		nested := make(map[string]any, len(section.Keys()))
		for _, key := range section.Keys() {
			nested[key.Name()] = key.String()
		}
		raw[section.Name()] = nested
	}

	return raw, nil
}

// checkVersion validates an optional version and stores it in canonical
// form. A missing "v" prefix is accepted.
func checkVersion(m map[string]any) error {
	raw, present := m[KeyVersion]
	if !present {
		return nil
	}

	version, ok := raw.(string)
	if !ok {
		return &InvalidVersionError{Version: fmt.Sprint(raw)}
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return &InvalidVersionError{Version: fmt.Sprint(raw)}
	}

	m[KeyVersion] = semver.Canonical(version)
	return nil
}

func loadFailed(path, step string, err error) *plugin.Failure {
	return &plugin.Failure{
		Type:    plugin.LoadFailed,
		Message: fmt.Sprintf("loading plugin manifest %s failed while %s", path, step),
		Path:    path,
		Inner:   err,
	}
}
