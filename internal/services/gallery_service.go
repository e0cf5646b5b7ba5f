package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"photomanager/internal/gallery"
	"photomanager/internal/logger"
	"photomanager/internal/metrics"
	"photomanager/internal/permissions"
	"photomanager/internal/storage"
)

var tracer = otel.Tracer("photomanager/internal/services")

// RetrievalResult holds the materialized paths in enumeration order.
type RetrievalResult struct {
	Paths     []string
	Requested int
	Failed    int
}

type GalleryService struct {
	authorizer   permissions.Authorizer
	library      storage.Library
	materializer Materializer

	preflight         func() error
	logger            logger.Logger
	metrics           *metrics.Metrics
	maxConcurrency    int
	strictEnumeration bool
}

type Option func(*GalleryService)

func WithLogger(l logger.Logger) Option {
	return func(s *GalleryService) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *GalleryService) { s.metrics = m }
}

// WithMaxConcurrency caps the number of concurrent materializations.
// Zero keeps one goroutine per asset.
func WithMaxConcurrency(n int) Option {
	return func(s *GalleryService) { s.maxConcurrency = n }
}

// WithStrictEnumeration turns enumeration failures into QueryFailed instead
// of an empty result.
func WithStrictEnumeration(strict bool) Option {
	return func(s *GalleryService) { s.strictEnumeration = strict }
}

// WithPreflight runs check after enumeration found assets and before any
// materialization starts.
func WithPreflight(check func() error) Option {
	return func(s *GalleryService) { s.preflight = check }
}

func NewGalleryService(
	authorizer permissions.Authorizer,
	library storage.Library,
	materializer Materializer,
	opts ...Option,
) *GalleryService {
	s := &GalleryService{
		authorizer:   authorizer,
		library:      library,
		materializer: materializer,
		logger:       logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GalleryService) GetImagePaths(ctx context.Context) ([]string, error) {
	res, err := s.Retrieve(ctx)
	if err != nil {
		return nil, err
	}
	return res.Paths, nil
}

func (s *GalleryService) Retrieve(ctx context.Context) (res RetrievalResult, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "Retrieve")

	defer func() {
		if r := recover(); r != nil {
			res = RetrievalResult{}
			err = gallery.QueryFailed(fmt.Errorf("panic during retrieval: %v", r))
		}

		outcome := "success"
		if err != nil {
			outcome = kindOf(err).String()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(
			attribute.Int("assets.requested", res.Requested),
			attribute.Int("assets.failed", res.Failed),
		)
		span.End()
		s.metrics.ObserveRetrieval(outcome, started)
	}()

	state, err := s.authorizer.Authorize(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return RetrievalResult{}, gallery.QueryFailed(ctxErr)
	}
	if err != nil {
		s.logger.WarnWithContext(ctx, "authorization failed", zap.Error(err))
		state = gallery.Undetermined
	}
	if !state.Allows() {
		s.logger.InfoWithContext(ctx, "photo library access not granted", zap.Stringer("state", state))
		return RetrievalResult{}, gallery.PermissionDenied(state)
	}

	handles, err := s.library.Enumerate(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return RetrievalResult{}, gallery.QueryFailed(ctxErr)
		}
		if s.strictEnumeration {
			return RetrievalResult{}, gallery.QueryFailed(err)
		}
		s.logger.WarnWithContext(ctx, "enumeration failed, returning empty result", zap.Error(err))
		handles = nil
	}

	if len(handles) == 0 {
		return RetrievalResult{Paths: []string{}}, nil
	}

	if s.preflight != nil {
		if err := s.preflight(); err != nil {
			return RetrievalResult{}, gallery.QueryFailed(err)
		}
	}

	paths := s.materializeAll(ctx, handles)
	if ctxErr := ctx.Err(); ctxErr != nil {
		if len(paths) > 0 {
			s.logger.WarnWithContext(ctx, "retrieval cancelled, leaving materialized files behind",
				zap.Strings("orphaned", paths),
			)
		}
		return RetrievalResult{}, gallery.QueryFailed(ctxErr)
	}

	res = RetrievalResult{
		Paths:     paths,
		Requested: len(handles),
		Failed:    len(handles) - len(paths),
	}

	s.logger.InfoWithContext(ctx, "retrieval finished",
		zap.Int("requested", res.Requested),
		zap.Int("materialized", len(res.Paths)),
		zap.Int("failed", res.Failed),
		zap.Duration("took", time.Since(started)),
	)

	return res, nil
}

func (s *GalleryService) materializeAll(ctx context.Context, handles []gallery.AssetHandle) []string {
	acc := newAccumulator()

	p := pool.New()
	if s.maxConcurrency > 0 {
		p = p.WithMaxGoroutines(s.maxConcurrency)
	}

	for i, handle := range handles {
		p.Go(func() {
			path, err := s.materializeOne(ctx, handle)
			s.metrics.AssetMaterialized(err == nil)
			if err != nil {
				s.logger.DebugWithContext(ctx, "asset dropped",
					zap.String("asset", handle.ID),
					zap.Error(err),
				)
				return
			}
			acc.put(i, path)
		})
	}

	p.Wait()

	return acc.ordered(len(handles))
}

func (s *GalleryService) materializeOne(ctx context.Context, handle gallery.AssetHandle) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = gallery.MaterializationFailed(handle, fmt.Errorf("panic: %v", r))
		}
	}()
	return s.materializer.Materialize(ctx, handle)
}

// accumulator collects (index, path) pairs reported by concurrent tasks.
type accumulator struct {
	mu    sync.Mutex
	paths map[int]string
}

func newAccumulator() *accumulator {
	return &accumulator{paths: make(map[int]string)}
}

func (a *accumulator) put(i int, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paths[i] = path
}

// ordered returns the successful paths by ascending index.
func (a *accumulator) ordered(n int) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, 0, len(a.paths))
	for i := 0; i < n; i++ {
		if p, ok := a.paths[i]; ok {
			out = append(out, p)
		}
	}
	return out
}

func kindOf(err error) gallery.ErrorKind {
	var ge *gallery.Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return gallery.KindQueryFailed
}
