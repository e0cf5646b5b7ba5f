package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"photomanager/internal/channel"
	"photomanager/internal/logger"
)

const maxCallSize = 1 << 20

// NewRouter exposes the method channel over HTTP for hosts that cannot link
// the mobile binding. POST /channel takes a call envelope and answers with
// the reply envelope; a not-implemented reply is a 501 with an empty body.
func NewRouter(reg *channel.Registry, gatherer prometheus.Gatherer, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/channel", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxCallSize))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		replies := make(chan []byte, 1)
		reg.HandleMessage(req.Context(), body, func(b []byte) { replies <- b })

		var reply []byte
		select {
		case reply = <-replies:
		case <-req.Context().Done():
			log.Warn("client went away before reply",
				zap.String("request_id", middleware.GetReqID(req.Context())))
			return
		}

		if len(reply) == 0 {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(reply)
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
