package mobile

import (
	"context"
	"errors"
	"sync"

	"photomanager/internal/app"
	"photomanager/internal/channel"
	"photomanager/internal/config"
	"photomanager/internal/gallery"
	"photomanager/internal/logger"
	"photomanager/internal/permissions"
)

// ChannelName is the method channel the host registers this manager under.
const ChannelName = channel.Name

// ReplyHandler receives the encoded reply envelope. An empty reply means the
// method is not implemented.
type ReplyHandler interface {
	OnReply(reply []byte)
}

// Prompter asks the user for photo library access and returns the
// resulting state name.
type Prompter interface {
	RequestAuthorization() string
}

type PhotoManager struct {
	app    *app.App
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewPhotoManager serves a photo directory. A nil prompter falls back to
// checking that the directory is readable.
func NewPhotoManager(libraryDir, tempDir string, deviceScale float64, prompter Prompter) (*PhotoManager, error) {
	cfg := config.Default()
	cfg.LibraryDir = libraryDir
	return newPhotoManager(cfg, tempDir, deviceScale, prompter)
}

// NewMediaIndexPhotoManager serves a sqlite media index.
func NewMediaIndexPhotoManager(mediaIndex, tempDir string, deviceScale float64, prompter Prompter) (*PhotoManager, error) {
	cfg := config.Default()
	cfg.MediaIndex = mediaIndex
	return newPhotoManager(cfg, tempDir, deviceScale, prompter)
}

func newPhotoManager(cfg *config.Config, tempDir string, deviceScale float64, prompter Prompter) (*PhotoManager, error) {
	if tempDir != "" {
		cfg.TempDir = tempDir
	}
	if deviceScale > 0 {
		cfg.DeviceScale = deviceScale
	}

	var deps app.Deps
	if prompter != nil {
		deps.Authorizer = permissions.NewPromptAuthorizer(prompter)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a, err := app.New(ctx, cfg, logger.MustNewLogger("text", "info"), deps)
	if err != nil {
		cancel()
		return nil, err
	}

	return &PhotoManager{app: a, ctx: ctx, cancel: cancel}, nil
}

// InvokeMethod decodes a call envelope and answers on handler from a
// background goroutine. It never blocks the calling thread.
func (pm *PhotoManager) InvokeMethod(payload []byte, handler ReplyHandler) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.closed {
		reply, _ := channel.EncodeReply(channel.Error(gallery.KindQueryFailed.Code(), "photo manager closed", nil))
		go handler.OnReply(reply)
		return
	}

	pm.inflight.Add(1)
	pm.app.Registry.HandleMessage(pm.ctx, payload, func(reply []byte) {
		defer pm.inflight.Done()
		handler.OnReply(reply)
	})
}

// Close cancels in-flight invocations, waits for their replies and then
// releases the library.
func (pm *PhotoManager) Close() error {
	pm.mu.Lock()
	if pm.closed {
		pm.mu.Unlock()
		return errors.New("photo manager already closed")
	}
	pm.closed = true
	pm.mu.Unlock()

	pm.cancel()
	pm.inflight.Wait()
	return pm.app.Close()
}
