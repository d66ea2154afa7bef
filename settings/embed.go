package settings

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Dir is the on-disk override directory, relative to the working directory.
const Dir = "settings"

const scriptDir = "scripts"

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var SpecsFS embed.FS

// Load reads a spec file, preferring the on-disk copy so edits apply without
// a rebuild.
func Load(name string) ([]byte, error) {
	return readOverride(SpecsFS, cleanSpecPath(name))
}

// LoadScript reads a tengo script, preferring the on-disk copy.
func LoadScript(name string) ([]byte, error) {
	return readOverride(ScriptsFS, cleanScriptPath(name))
}

func readOverride(bundled fs.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return fs.ReadFile(bundled, clean)
}

// cleanSpecPath maps a user-supplied spec name to its slash path relative
// to Dir.
func cleanSpecPath(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(name), Dir+"/")
}

// cleanScriptPath accepts a bare script name or one prefixed by Dir and/or
// the scripts directory.
func cleanScriptPath(name string) string {
	if name == "" {
		return ""
	}
	rel := strings.TrimPrefix(filepath.ToSlash(name), Dir+"/")
	rel = strings.TrimPrefix(rel, scriptDir+"/")
	return path.Join(scriptDir, rel)
}
