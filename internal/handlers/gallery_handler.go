package handlers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"photomanager/internal/channel"
	"photomanager/internal/gallery"
	"photomanager/internal/logger"
)

const MethodGetImagePaths = "getImagePaths"

type ImagePathProvider interface {
	GetImagePaths(ctx context.Context) ([]string, error)
}

type GalleryHandler struct {
	gallery ImagePathProvider
	logger  logger.Logger
}

func NewGalleryHandler(g ImagePathProvider, log logger.Logger) *GalleryHandler {
	return &GalleryHandler{gallery: g, logger: log}
}

func (h *GalleryHandler) Register(r *channel.Registry) {
	r.Register(MethodGetImagePaths, h.HandleGetImagePaths)
}

func (h *GalleryHandler) HandleGetImagePaths(ctx context.Context, _ channel.MethodCall) channel.Reply {
	paths, err := h.gallery.GetImagePaths(ctx)
	if err != nil {
		return h.fail(ctx, err)
	}
	return channel.Success(paths)
}

func (h *GalleryHandler) fail(ctx context.Context, err error) channel.Reply {
	var ge *gallery.Error
	if !errors.As(err, &ge) {
		ge = gallery.QueryFailed(err).(*gallery.Error)
	}
	if ge.Kind != gallery.KindPermissionDenied {
		ge = &gallery.Error{Kind: gallery.KindQueryFailed, Message: ge.Message, Err: ge.Err}
	}

	h.logger.WarnWithContext(ctx, "getImagePaths failed",
		zap.String("code", ge.Kind.Code()),
		zap.Error(err),
	)
	return channel.Error(ge.Kind.Code(), ge.Message, nil)
}
