package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"photomanager/internal/files"
	"photomanager/internal/gallery"
	"photomanager/internal/image"
)

// Materializer turns one asset into a JPEG thumbnail on local storage and
// returns the file path.
type Materializer interface {
	Materialize(ctx context.Context, handle gallery.AssetHandle) (string, error)
}

type AssetMaterializer struct {
	source    files.Source
	processor *image.Processor
	writer    *files.TempWriter
	size      int
}

func NewAssetMaterializer(
	source files.Source,
	processor *image.Processor,
	writer *files.TempWriter,
	size int,
) *AssetMaterializer {
	return &AssetMaterializer{
		source:    source,
		processor: processor,
		writer:    writer,
		size:      size,
	}
}

func (m *AssetMaterializer) Materialize(ctx context.Context, handle gallery.AssetHandle) (string, error) {
	ctx, span := tracer.Start(ctx, "Materialize", trace.WithAttributes(
		attribute.String("asset.id", handle.ID),
		attribute.Int("target.size", m.size),
	))
	defer span.End()

	rc, err := m.source.Open(ctx, handle.URI)
	if err != nil {
		return "", gallery.MaterializationFailed(handle, fmt.Errorf("open original: %w", err))
	}
	defer rc.Close()

	data, err := m.processor.Thumbnail(rc, m.size)
	if err != nil {
		return "", gallery.MaterializationFailed(handle, fmt.Errorf("render: %w", err))
	}

	path, err := m.writer.Write(data)
	if err != nil {
		return "", gallery.MaterializationFailed(handle, fmt.Errorf("save output: %w", err))
	}

	return path, nil
}
