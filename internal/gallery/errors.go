package gallery

import "fmt"

type ErrorKind int

const (
	KindPermissionDenied ErrorKind = iota + 1
	KindQueryFailed
	KindAssetMaterializationFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindQueryFailed:
		return "QueryFailed"
	case KindAssetMaterializationFailed:
		return "AssetMaterializationFailed"
	}
	return "Unknown"
}

// Code is the tag a host sees in an error reply.
func (k ErrorKind) Code() string {
	switch k {
	case KindPermissionDenied:
		return "PERMISSION_DENIED"
	case KindQueryFailed:
		return "QUERY_FAILED"
	case KindAssetMaterializationFailed:
		return "ASSET_MATERIALIZATION_FAILED"
	}
	return "UNKNOWN"
}

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

var (
	ErrPermissionDenied           = &Error{Kind: KindPermissionDenied, Message: "Permissions not granted"}
	ErrQueryFailed                = &Error{Kind: KindQueryFailed, Message: "query failed"}
	ErrAssetMaterializationFailed = &Error{Kind: KindAssetMaterializationFailed, Message: "asset materialization failed"}
)

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can test against the
// package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func PermissionDenied(state AuthorizationState) error {
	return &Error{
		Kind:    KindPermissionDenied,
		Message: "Permissions not granted",
		Err:     fmt.Errorf("authorization state %s", state),
	}
}

func QueryFailed(err error) error {
	msg := "query failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindQueryFailed, Message: msg, Err: err}
}

func MaterializationFailed(handle AssetHandle, err error) error {
	return &Error{
		Kind:    KindAssetMaterializationFailed,
		Message: "asset " + handle.ID,
		Err:     err,
	}
}
