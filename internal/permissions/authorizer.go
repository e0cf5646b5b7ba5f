package permissions

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"photomanager/internal/gallery"
)

// Authorizer resolves whether the photo store may be read. It may block on
// a user-facing prompt; remembering the answer is the platform's job.
type Authorizer interface {
	Authorize(ctx context.Context) (gallery.AuthorizationState, error)
}

// StaticAuthorizer reports a state the host already knows.
type StaticAuthorizer struct {
	State gallery.AuthorizationState
}

func (a StaticAuthorizer) Authorize(ctx context.Context) (gallery.AuthorizationState, error) {
	return a.State, ctx.Err()
}

// Prompter is implemented by the host. It returns the platform's state name
// ("authorized", "limited", "denied", "notDetermined", ...).
type Prompter interface {
	RequestAuthorization() string
}

// PromptAuthorizer asks the host on every call.
type PromptAuthorizer struct {
	prompter Prompter
}

func NewPromptAuthorizer(p Prompter) *PromptAuthorizer {
	return &PromptAuthorizer{prompter: p}
}

func (a *PromptAuthorizer) Authorize(ctx context.Context) (gallery.AuthorizationState, error) {
	type answer struct{ raw string }
	done := make(chan answer, 1)

	go func() {
		done <- answer{a.prompter.RequestAuthorization()}
	}()

	select {
	case <-ctx.Done():
		return gallery.Undetermined, ctx.Err()
	case ans := <-done:
		state, err := gallery.ParseAuthorizationState(ans.raw)
		if err != nil {
			return gallery.Undetermined, fmt.Errorf("prompt answer: %w", err)
		}
		return state, nil
	}
}

// DirAuthorizer derives the state from the readability of a library root.
type DirAuthorizer struct {
	Root string
}

func (a DirAuthorizer) Authorize(ctx context.Context) (gallery.AuthorizationState, error) {
	if err := ctx.Err(); err != nil {
		return gallery.Undetermined, err
	}

	f, err := os.Open(a.Root)
	switch {
	case err == nil:
		_ = f.Close()
		return gallery.Granted, nil
	case errors.Is(err, fs.ErrNotExist):
		return gallery.Undetermined, nil
	case errors.Is(err, fs.ErrPermission):
		return gallery.Denied, nil
	}
	return gallery.Undetermined, fmt.Errorf("open %s: %w", a.Root, err)
}
