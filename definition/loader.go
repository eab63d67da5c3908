package definition

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"facette.io/natsort"
)

// FSLoader serves definitions stored as <dir>/<name>.yaml (or .yml) in an fs.FS.
type FSLoader struct {
	fsys fs.FS
	dir  string
}

var _ ConfigLoader = (*FSLoader)(nil)

// NewFSLoader returns a loader reading definitions from dir inside fsys.
func NewFSLoader(fsys fs.FS, dir string) *FSLoader {
	if dir == "" {
		dir = "."
	}

	return &FSLoader{fsys: fsys, dir: dir}
}

func (l *FSLoader) LoadByName(name string) ([]byte, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		data, err := fs.ReadFile(l.fsys, path.Join(l.dir, name+ext))
		if err == nil {
			return data, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
}

// ListAvailable returns the definition names in natural order.
func (l *FSLoader) ListAvailable() []string {
	entries, err := fs.ReadDir(l.fsys, l.dir)
	if err != nil {
		return nil
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := path.Ext(name)

		if ext == ".yaml" || ext == ".yml" {
			names = append(names, strings.TrimSuffix(name, ext))
		}
	}

	natsort.Sort(names)

	return names
}
