package files

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Source opens the original bytes behind an asset URI.
type Source interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Router picks a Source by URI scheme. Bare paths are treated as file://.
type Router struct {
	sources map[string]Source
}

func NewRouter() *Router {
	return &Router{sources: make(map[string]Source)}
}

func (r *Router) Handle(scheme string, src Source) *Router {
	r.sources[strings.ToLower(scheme)] = src
	return r
}

func (r *Router) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	scheme := "file"
	if u, err := url.Parse(uri); err == nil && len(u.Scheme) > 1 {
		scheme = strings.ToLower(u.Scheme)
	}

	src, ok := r.sources[scheme]
	if !ok {
		return nil, fmt.Errorf("no source for scheme %q (%s)", scheme, uri)
	}
	return src.Open(ctx, uri)
}
