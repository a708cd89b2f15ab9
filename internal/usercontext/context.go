package usercontext

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

var ErrInvalidUserID = errors.New("invalid_user_id")

// UserContextKey is the request context key for the authenticated user ID.
type UserContextKey struct{}

// WithUserID stores the user ID in the context.
func WithUserID(ctx context.Context, userID snowflake.ID) context.Context {
	return context.WithValue(ctx, UserContextKey{}, userID)
}

// UserIDFromContext returns the authenticated user ID, if set.
func UserIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	switch typed := ctx.Value(UserContextKey{}).(type) {
	case snowflake.ID:
		return typed, typed != 0
	case int64:
		return snowflake.ID(typed), typed != 0
	case string:
		parsed, err := ParseUserID(typed)
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// ParseUserID parses the textual user ID forwarded by the identity gateway.
func ParseUserID(raw string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || parsed <= 0 {
		return 0, ErrInvalidUserID
	}
	return parsed, nil
}
