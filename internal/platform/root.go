package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the optional per-project configuration file.
const ConfigFile = ".memlog.yaml"

// FindRoot looks upwards from startDir for a project root indicator: a
// .memlog.yaml file or a .git entry. It returns the absolute path of the
// first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFile) || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

// DiscoverRoot picks the project root: MEM_ROOT when set, else the nearest
// indicator above startDir, else startDir itself.
func DiscoverRoot(startDir string) (string, error) {
	env, err := parseRootEnv()
	if err != nil {
		return "", err
	}
	if env.Root != "" {
		return filepath.Abs(env.Root)
	}
	if root, err := FindRoot(startDir); err == nil {
		return root, nil
	}
	return filepath.Abs(startDir)
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
