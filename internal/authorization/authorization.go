package authorization

import (
	"context"
	"errors"
)

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
)

const (
	ObjectProviderEarnings = "earnings.provider"
	ObjectLabourEarnings   = "earnings.labour"
)

const (
	ActionView = "view"
)

const (
	RoleEarner = "role:earner"

	EffectAllow = "allow"
	EffectDeny  = "deny"
)

// Service decides whether an actor ("user:<id>") may perform action on object.
type Service interface {
	Authorize(ctx context.Context, actor string, object string, action string) error
	// Suspend adds a deny rule for the actor on object, overriding role grants.
	Suspend(ctx context.Context, actor string, object string, action string) error
	Restore(ctx context.Context, actor string, object string, action string) error
}

// ObjectForRole maps an earner role path segment to its casbin object.
func ObjectForRole(role string) (string, bool) {
	switch role {
	case "provider":
		return ObjectProviderEarnings, true
	case "labour":
		return ObjectLabourEarnings, true
	default:
		return "", false
	}
}
