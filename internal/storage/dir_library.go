package storage

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"photomanager/internal/gallery"
)

// DirLibrary treats every image file below Root as an asset, using the
// modification time as its creation time.
type DirLibrary struct {
	Root string
}

func NewDirLibrary(root string) *DirLibrary {
	return &DirLibrary{Root: root}
}

func (l *DirLibrary) Enumerate(ctx context.Context) ([]gallery.AssetHandle, error) {
	var handles []gallery.AssetHandle

	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() || MimeType(d.Name()) == "" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return err
		}
		handles = append(handles, gallery.AssetHandle{
			ID:        filepath.ToSlash(rel),
			URI:       abs,
			CreatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", l.Root, err)
	}

	sort.SliceStable(handles, func(i, j int) bool {
		if !handles[i].CreatedAt.Equal(handles[j].CreatedAt) {
			return handles[i].CreatedAt.After(handles[j].CreatedAt)
		}
		return handles[i].URI < handles[j].URI
	})

	return handles, nil
}
