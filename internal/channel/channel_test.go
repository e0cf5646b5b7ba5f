package channel

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDecodeMethodCall(t *testing.T) {
	call, err := DecodeMethodCall([]byte(`{"method":"getImagePaths","args":null}`))
	require.NoError(t, err)
	assert.Equal(t, "getImagePaths", call.Method)
	assert.Nil(t, call.Arguments)

	call, err = DecodeMethodCall([]byte(`{"method":"other","args":{"limit":3}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"limit":3}`, string(call.Arguments))

	for _, bad := range []string{``, `[]`, `{"args":1}`, `{"method":7}`, `{"method":""}`, `{`} {
		_, err := DecodeMethodCall([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestEncodeMethodCall(t *testing.T) {
	data, err := EncodeMethodCall(MethodCall{Method: "getImagePaths"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"getImagePaths","args":null}`, string(data))
}

func TestEncodeReply(t *testing.T) {
	data, err := EncodeReply(Success([]string{"/tmp/a.jpg", "/tmp/b.jpg"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[["/tmp/a.jpg","/tmp/b.jpg"]]`, string(data))

	data, err = EncodeReply(Success([]string{}))
	require.NoError(t, err)
	assert.JSONEq(t, `[[]]`, string(data))

	data, err = EncodeReply(Error("PERMISSION_DENIED", "Permissions not granted", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `["PERMISSION_DENIED","Permissions not granted",null]`, string(data))

	data, err = EncodeReply(NotImplemented())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestDecodeReply(t *testing.T) {
	r, err := DecodeReply([]byte(`[["/tmp/a.jpg"]]`))
	require.NoError(t, err)
	require.Equal(t, ReplySuccess, r.Kind)
	var paths []string
	require.NoError(t, json.Unmarshal(r.Result.(json.RawMessage), &paths))
	assert.Equal(t, []string{"/tmp/a.jpg"}, paths)

	r, err = DecodeReply([]byte(`["QUERY_FAILED","boom",null]`))
	require.NoError(t, err)
	assert.Equal(t, ReplyError, r.Kind)
	assert.Equal(t, "QUERY_FAILED", r.Code)
	assert.Equal(t, "boom", r.Message)
	assert.Nil(t, r.Details)

	r, err = DecodeReply(nil)
	require.NoError(t, err)
	assert.Equal(t, ReplyNotImplemented, r.Kind)

	_, err = DecodeReply([]byte(`{"a":1}`))
	require.Error(t, err)
	_, err = DecodeReply([]byte(`[1,2]`))
	require.Error(t, err)
}

func TestRegistry_Invoke(t *testing.T) {
	r := NewRegistry()
	r.Register("ping", func(ctx context.Context, call MethodCall) Reply {
		return Success("pong")
	})

	assert.Equal(t, Success("pong"), r.Invoke(context.Background(), MethodCall{Method: "ping"}))
	assert.Equal(t, ReplyNotImplemented, r.Invoke(context.Background(), MethodCall{Method: "getVideos"}).Kind)
}

func TestRegistry_HandleMessage(t *testing.T) {
	r := NewRegistry()
	r.Register("ping", func(ctx context.Context, call MethodCall) Reply {
		return Success("pong")
	})

	wait := func(payload string) []byte {
		got := make(chan []byte, 1)
		r.HandleMessage(context.Background(), []byte(payload), func(b []byte) { got <- b })
		select {
		case b := <-got:
			return b
		case <-time.After(5 * time.Second):
			t.Fatal("no reply delivered")
			return nil
		}
	}

	assert.JSONEq(t, `["pong"]`, string(wait(`{"method":"ping","args":null}`)))
	assert.Empty(t, wait(`{"method":"nope","args":null}`))

	reply, err := DecodeReply(wait(`not json`))
	require.NoError(t, err)
	assert.Equal(t, CodeMalformedCall, reply.Code)
}

func TestRegistry_HandleMessageNeverBlocksCaller(t *testing.T) {
	r := NewRegistry()
	r.Register("ping", func(ctx context.Context, call MethodCall) Reply {
		return Success("pong")
	})

	for _, payload := range []string{`{"method":"ping"}`, `{"method":"nope"}`, `not json`} {
		release := make(chan struct{})
		got := make(chan []byte, 1)
		returned := make(chan struct{})

		go func() {
			r.HandleMessage(context.Background(), []byte(payload), func(b []byte) {
				<-release
				got <- b
			})
			close(returned)
		}()

		select {
		case <-returned:
		case <-time.After(5 * time.Second):
			t.Fatalf("HandleMessage(%s) waited for delivery", payload)
		}

		close(release)
		select {
		case <-got:
		case <-time.After(5 * time.Second):
			t.Fatalf("no reply for %s", payload)
		}
	}
}
