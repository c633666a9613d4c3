package loader

import (
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/plugwire/internal/domain/plugin"
	"github.com/felixgeelhaar/plugwire/internal/ports"
)

// manifestFile is the manifest looked for inside a plugin directory.
const manifestFile = "plugin.yaml"

// manifestExtensions are tried in order when a plugin is a single file.
var manifestExtensions = []string{".yaml", ".yml", ".toml", ".ini"}

// Locator finds plugin manifests by walking from a base directory up to the
// filesystem root.
type Locator struct {
	system string
	fs     ports.FileSystem
}

// NewLocator creates a Locator for the host system named system.
func NewLocator(system string, fs ports.FileSystem) *Locator {
	return &Locator{system: system, fs: fs}
}

// Locate returns the manifest path of the named plugin. In each directory
// from basePath up to the root it tries <dir>/<system>_plugins/<name> and
// then <dir>/.<system>/plugins/<name>, either as a manifest file with a
// known extension or as a directory holding plugin.yaml. The first match
// wins.
func (l *Locator) Locate(name, basePath string) (string, error) {
	base, err := filepath.Abs(ports.ExpandPath(basePath))
	if err != nil {
		return "", fmt.Errorf("resolving base path %s: %w", basePath, err)
	}

	paths := parentPaths(base)
	for _, dir := range paths {
		for _, pluginsDir := range l.pluginDirs(dir) {
			if path, ok := l.probe(filepath.Join(pluginsDir, name)); ok {
				return path, nil
			}
		}
	}

	return "", &plugin.Failure{
		Type:    plugin.CannotFindPlugin,
		Message: fmt.Sprintf("failed to locate plugin '%s'", name),
		Name:    name,
		Paths:   paths,
	}
}

func (l *Locator) pluginDirs(dir string) []string {
	return []string{
		filepath.Join(dir, l.system+"_plugins"),
		filepath.Join(dir, "."+l.system, "plugins"),
	}
}

func (l *Locator) probe(candidate string) (string, bool) {
	for _, ext := range manifestExtensions {
		path := candidate + ext
		if l.fs.Exists(path) && !l.fs.IsDir(path) {
			return path, true
		}
	}

	if l.fs.IsDir(candidate) {
		path := filepath.Join(candidate, manifestFile)
		if l.fs.Exists(path) && !l.fs.IsDir(path) {
			return path, true
		}
	}

	return "", false
}

// parentPaths lists path and each of its ancestors, ending with the root.
func parentPaths(path string) []string {
	var paths []string
	for {
		paths = append(paths, path)
		parent := filepath.Dir(path)
		if parent == path {
			return paths
		}
		path = parent
	}
}
