package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomanager/internal/channel"
	"photomanager/internal/gallery"
	"photomanager/internal/logger"
	"photomanager/internal/metrics"
)

type stubProvider struct {
	paths []string
	err   error
}

func (s stubProvider) GetImagePaths(context.Context) ([]string, error) {
	return s.paths, s.err
}

func newRegistry(p ImagePathProvider) *channel.Registry {
	reg := channel.NewRegistry()
	NewGalleryHandler(p, logger.NewNoopLogger()).Register(reg)
	return reg
}

func TestGalleryHandler_Replies(t *testing.T) {
	tests := []struct {
		name     string
		provider stubProvider
		want     channel.Reply
	}{
		{
			name:     "success",
			provider: stubProvider{paths: []string{"/tmp/a.jpg"}},
			want:     channel.Success([]string{"/tmp/a.jpg"}),
		},
		{
			name:     "empty",
			provider: stubProvider{paths: []string{}},
			want:     channel.Success([]string{}),
		},
		{
			name:     "denied",
			provider: stubProvider{err: gallery.PermissionDenied(gallery.Denied)},
			want:     channel.Error("PERMISSION_DENIED", "Permissions not granted", nil),
		},
		{
			name:     "query failed",
			provider: stubProvider{err: gallery.QueryFailed(errors.New("cursor is null"))},
			want:     channel.Error("QUERY_FAILED", "cursor is null", nil),
		},
		{
			name:     "untyped error",
			provider: stubProvider{err: errors.New("boom")},
			want:     channel.Error("QUERY_FAILED", "boom", nil),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := newRegistry(tc.provider)
			got := reg.Invoke(context.Background(), channel.MethodCall{Method: MethodGetImagePaths})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGalleryHandler_UnknownMethod(t *testing.T) {
	reg := newRegistry(stubProvider{})
	got := reg.Invoke(context.Background(), channel.MethodCall{Method: "getVideoPaths"})
	assert.Equal(t, channel.ReplyNotImplemented, got.Kind)
}

func post(t *testing.T, srv *httptest.Server, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/channel", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestRouter_Channel(t *testing.T) {
	reg := newRegistry(stubProvider{paths: []string{"/tmp/x.jpg", "/tmp/y.jpg"}})
	srv := httptest.NewServer(NewRouter(reg, nil, logger.NewNoopLogger()))
	defer srv.Close()

	resp, body := post(t, srv, `{"method":"getImagePaths","args":null}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[["/tmp/x.jpg","/tmp/y.jpg"]]`, body)

	resp, body = post(t, srv, `{"method":"deleteEverything","args":null}`)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	assert.Empty(t, body)

	resp, body = post(t, srv, `garbage`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, channel.CodeMalformedCall)
}

func TestRouter_DeniedEnvelope(t *testing.T) {
	reg := newRegistry(stubProvider{err: gallery.PermissionDenied(gallery.Undetermined)})
	srv := httptest.NewServer(NewRouter(reg, nil, logger.NewNoopLogger()))
	defer srv.Close()

	_, body := post(t, srv, `{"method":"getImagePaths","args":null}`)
	assert.JSONEq(t, `["PERMISSION_DENIED","Permissions not granted",null]`, body)
}

func TestRouter_MetricsAndHealth(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	m.AssetMaterialized(true)

	srv := httptest.NewServer(NewRouter(channel.NewRegistry(), promReg, logger.NewNoopLogger()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(data), "photomanager_assets_materialized_total")

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
