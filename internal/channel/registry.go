package channel

import (
	"context"
	"fmt"
	"sync"
)

const CodeMalformedCall = "MALFORMED_CALL"

type HandlerFunc func(ctx context.Context, call MethodCall) Reply

// Registry dispatches method calls by name. Unknown methods get a
// not-implemented reply.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

func (r *Registry) Register(method string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[method] = h
}

func (r *Registry) Invoke(ctx context.Context, call MethodCall) Reply {
	r.mu.RLock()
	h, ok := r.handlers[call.Method]
	r.mu.RUnlock()

	if !ok {
		return NotImplemented()
	}
	return h(ctx, call)
}

// InvokeAsync runs the call off the caller's goroutine and hands the reply
// to deliver exactly once. deliver is where a host hops back to its UI thread.
func (r *Registry) InvokeAsync(ctx context.Context, call MethodCall, deliver func(Reply)) {
	go func() {
		deliver(r.Invoke(ctx, call))
	}()
}

// HandleMessage is the byte-level entry point: decode, invoke, encode.
// deliver always runs on a goroutine of its own, malformed calls included.
func (r *Registry) HandleMessage(ctx context.Context, payload []byte, deliver func([]byte)) {
	call, err := DecodeMethodCall(payload)
	if err != nil {
		reply := mustEncode(Error(CodeMalformedCall, err.Error(), nil))
		go deliver(reply)
		return
	}

	r.InvokeAsync(ctx, call, func(reply Reply) {
		data, err := EncodeReply(reply)
		if err != nil {
			data = mustEncode(Error(CodeMalformedCall, fmt.Sprintf("encode reply: %v", err), nil))
		}
		deliver(data)
	})
}

func mustEncode(r Reply) []byte {
	data, err := EncodeReply(r)
	if err != nil {
		panic(err)
	}
	return data
}
