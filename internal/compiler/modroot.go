package compiler

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"
)

// ModuleRoot locates the nearest enclosing go.mod above path (a file or a
// directory) and returns its declared module path together with the
// directory it was found in. It backs the `--not-main-module` flag's
// auto-detection: a source file whose enclosing module differs from the
// compiling process's own module is not part of the main module's tree.
func ModuleRoot(path string) (modulePath, rootDir string, err error) {
	dir := path
	if fi, statErr := os.Stat(path); statErr == nil && !fi.IsDir() {
		dir = filepath.Dir(path)
	}
	for {
		gomod := filepath.Join(dir, "go.mod")
		data, readErr := os.ReadFile(gomod)
		if readErr == nil {
			mf, parseErr := modfile.Parse(gomod, data, nil)
			if parseErr != nil {
				return "", "", errors.Wrapf(parseErr, "compiler: parsing %s", gomod)
			}
			if mf.Module == nil {
				return "", "", errors.Errorf("compiler: %s declares no module", gomod)
			}
			return mf.Module.Mod.Path, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", errors.Errorf("compiler: no go.mod found above %s", path)
		}
		dir = parent
	}
}
