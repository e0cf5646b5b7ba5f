package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"photomanager/internal/channel"
	"photomanager/internal/config"
	"photomanager/internal/files"
	"photomanager/internal/gallery"
	"photomanager/internal/handlers"
	"photomanager/internal/image"
	"photomanager/internal/logger"
	"photomanager/internal/metrics"
	"photomanager/internal/permissions"
	"photomanager/internal/services"
	"photomanager/internal/storage"
)

// Deps lets the host override collaborators that live outside this module.
type Deps struct {
	Authorizer permissions.Authorizer
	Registerer prometheus.Registerer
}

type App struct {
	Registry *channel.Registry
	Gallery  *services.GalleryService
	Metrics  *metrics.Metrics

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger, deps Deps) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{}

	writer, err := files.NewTempWriter(cfg.TempDir, ".jpg")
	if err != nil {
		return nil, err
	}

	source, err := newSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	library, err := a.newLibrary(ctx, cfg)
	if err != nil {
		return nil, err
	}

	authorizer := deps.Authorizer
	if authorizer == nil {
		authorizer, err = newAuthorizer(cfg)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	a.Metrics = metrics.New(deps.Registerer)

	materializer := services.NewAssetMaterializer(
		source,
		image.NewProcessor(cfg.JPEGQuality),
		writer,
		cfg.PixelSize(),
	)

	a.Gallery = services.NewGalleryService(
		authorizer,
		library,
		materializer,
		services.WithLogger(log.With(zap.String("component", "gallery"))),
		services.WithMetrics(a.Metrics),
		services.WithMaxConcurrency(cfg.MaxConcurrency),
		services.WithStrictEnumeration(cfg.StrictEnumeration),
		services.WithPreflight(writer.Check),
	)

	a.Registry = channel.NewRegistry()
	handlers.NewGalleryHandler(a.Gallery, log).Register(a.Registry)

	log.Info("photo manager ready",
		zap.String("channel", channel.Name),
		zap.String("temp_dir", writer.Dir()),
		zap.Int("pixel_size", cfg.PixelSize()),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
	)

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) newLibrary(ctx context.Context, cfg *config.Config) (storage.Library, error) {
	if cfg.MediaIndex == "" {
		return storage.NewDirLibrary(cfg.LibraryDir), nil
	}

	store, err := storage.OpenMediaStore(ctx, cfg.MediaIndex)
	if err != nil {
		return nil, fmt.Errorf("open media index: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

func newSource(ctx context.Context, cfg *config.Config) (files.Source, error) {
	httpSource := files.NewHTTPSource(cfg.HTTPTimeout)

	router := files.NewRouter().
		Handle("file", files.LocalSource{}).
		Handle("http", httpSource).
		Handle("https", httpSource)

	if cfg.S3.Region != "" || cfg.S3.Endpoint != "" {
		s3Source, err := files.NewS3Source(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		router.Handle("s3", s3Source)
	}

	return router, nil
}

func newAuthorizer(cfg *config.Config) (permissions.Authorizer, error) {
	if cfg.Authorization != "" {
		state, err := gallery.ParseAuthorizationState(cfg.Authorization)
		if err != nil {
			return nil, err
		}
		return permissions.StaticAuthorizer{State: state}, nil
	}
	if cfg.MediaIndex != "" {
		return permissions.StaticAuthorizer{State: gallery.Granted}, nil
	}
	return permissions.DirAuthorizer{Root: cfg.LibraryDir}, nil
}
