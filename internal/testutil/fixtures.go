// Package testutil renders small fixture photos for tests.
package testutil

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/require"
)

// Photo draws a w×h image split into a red left half and a blue right half,
// with a green disc in the middle, so crops are easy to reason about.
func Photo(w, h int) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 0, 0)
	dc.DrawRectangle(0, 0, float64(w)/2, float64(h))
	dc.Fill()
	dc.SetRGB(0, 0, 1)
	dc.DrawRectangle(float64(w)/2, 0, float64(w)/2, float64(h))
	dc.Fill()
	dc.SetRGB(0, 1, 0)
	dc.DrawCircle(float64(w)/2, float64(h)/2, float64(min(w, h))/6)
	dc.Fill()
	return dc.Image()
}

func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	dc := gg.NewContextForImage(Photo(w, h))
	var buf bytes.Buffer
	require.NoError(t, dc.EncodePNG(&buf))
	return buf.Bytes()
}

// WritePhoto saves a PNG or JPEG (by extension) under dir and stamps its
// modification time.
func WritePhoto(t *testing.T, dir, name string, w, h int, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	switch filepath.Ext(name) {
	case ".jpg", ".jpeg":
		require.NoError(t, gg.SaveJPG(path, Photo(w, h), 90))
	default:
		require.NoError(t, gg.SavePNG(path, Photo(w, h)))
	}

	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

// TempFiles lists the regular files directly under dir.
func TempFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}
