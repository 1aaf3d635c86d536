package discovery

import (
	"context"
	"fmt"
	"io/fs"
	stdpath "path"
	"strings"

	"github.com/go-logr/logr"

	"github.com/anvil-platform/moneta/internal/amount"
)

// Dir discovers providers from AmountProvider manifests in a file system.
// Files are read in lexical path order and documents in file order.
type Dir struct {
	fsys   fs.FS
	logger logr.Logger
}

// NewDir returns a source reading *.yaml, *.yml and *.json files below the
// root of fsys.
func NewDir(fsys fs.FS, logger logr.Logger) *Dir {
	return &Dir{fsys: fsys, logger: logger}
}

func (d *Dir) Discover(ctx context.Context) ([]amount.Provider, error) {
	var out []amount.Provider
	err := fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !isManifestFile(path) {
			return nil
		}

		content, err := fs.ReadFile(d.fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		objs, err := DecodeManifests(content)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		for i := range objs {
			desc, err := FromManifest(&objs[i])
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			out = append(out, desc)
		}
		d.logger.V(1).Info("read amount provider manifests", "path", path, "count", len(objs))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan amount provider manifests: %w", err)
	}
	return out, nil
}

func isManifestFile(path string) bool {
	switch strings.ToLower(stdpath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return !strings.HasPrefix(stdpath.Base(path), ".")
	}
	return false
}
