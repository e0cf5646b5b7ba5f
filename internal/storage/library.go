package storage

import (
	"context"
	"path/filepath"
	"strings"

	"photomanager/internal/gallery"
)

// Library enumerates the image assets of a photo store, newest first.
type Library interface {
	Enumerate(ctx context.Context) ([]gallery.AssetHandle, error)
}

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// MimeType returns the image MIME type for a file name, or "" when the
// extension is not a decodable image.
func MimeType(name string) string {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}
