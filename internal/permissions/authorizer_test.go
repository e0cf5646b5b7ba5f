package permissions

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomanager/internal/gallery"
)

func TestStaticAuthorizer(t *testing.T) {
	state, err := StaticAuthorizer{State: gallery.Limited}.Authorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gallery.Limited, state)
}

type promptFunc func() string

func (f promptFunc) RequestAuthorization() string { return f() }

func TestPromptAuthorizer(t *testing.T) {
	tests := []struct {
		answer  string
		want    gallery.AuthorizationState
		wantErr bool
	}{
		{"authorized", gallery.Granted, false},
		{"limited", gallery.Limited, false},
		{"denied", gallery.Denied, false},
		{"notDetermined", gallery.Undetermined, false},
		{"???", gallery.Undetermined, true},
	}

	for _, tc := range tests {
		t.Run(tc.answer, func(t *testing.T) {
			calls := 0
			a := NewPromptAuthorizer(promptFunc(func() string {
				calls++
				return tc.answer
			}))

			state, err := a.Authorize(context.Background())
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, state)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestPromptAuthorizer_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	a := NewPromptAuthorizer(promptFunc(func() string {
		<-release
		return "authorized"
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := a.Authorize(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gallery.Undetermined, state)
}

func TestDirAuthorizer(t *testing.T) {
	root := t.TempDir()

	state, err := DirAuthorizer{Root: root}.Authorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gallery.Granted, state)

	state, err = DirAuthorizer{Root: filepath.Join(root, "missing")}.Authorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gallery.Undetermined, state)
}

func TestDirAuthorizer_Unreadable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	root := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(root, 0o000))
	t.Cleanup(func() { _ = os.Chmod(root, 0o755) })

	state, err := DirAuthorizer{Root: root}.Authorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gallery.Denied, state)
}
