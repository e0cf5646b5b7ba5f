package gallery

import (
	"fmt"
	"strings"
	"time"
)

// AssetHandle is an opaque reference to one image record in a photo library.
// Handles are created by an enumeration and never outlive the invocation
// that produced them.
type AssetHandle struct {
	ID        string
	URI       string
	CreatedAt time.Time
}

func (h AssetHandle) String() string {
	return fmt.Sprintf("%s (%s)", h.ID, h.CreatedAt.Format(time.RFC3339))
}

type AuthorizationState int

const (
	Undetermined AuthorizationState = iota
	Denied
	Limited
	Granted
)

var stateNames = map[AuthorizationState]string{
	Undetermined: "undetermined",
	Denied:       "denied",
	Limited:      "limited",
	Granted:      "granted",
}

func (s AuthorizationState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AuthorizationState(%d)", int(s))
}

// Allows reports whether the state lets a retrieval proceed.
func (s AuthorizationState) Allows() bool {
	return s == Granted || s == Limited
}

// ParseAuthorizationState accepts the names used by both mobile platforms.
func ParseAuthorizationState(val string) (AuthorizationState, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "granted", "authorized":
		return Granted, nil
	case "limited":
		return Limited, nil
	case "denied", "restricted":
		return Denied, nil
	case "undetermined", "notdetermined", "":
		return Undetermined, nil
	}
	return Undetermined, fmt.Errorf("unknown authorization state %q", val)
}
