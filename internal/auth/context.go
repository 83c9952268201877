package auth

import (
	"context"
	"fmt"
)

type contextKey string

const userContextKey contextKey = "user"

type UserContext struct {
	UserID     string
	TelegramID int64
}

func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func GetUser(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// GetUserID returns the caller id or an empty string for anonymous requests (CLI, tests).
func GetUserID(ctx context.Context) string {
	user, err := GetUser(ctx)
	if err != nil {
		return ""
	}
	return user.UserID
}
