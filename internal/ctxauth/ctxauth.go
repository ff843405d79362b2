// Package ctxauth carries the authenticated user identity through the
// request context.
package ctxauth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type ctxKey struct{}

var ErrNoUser = errors.New("no authenticated user in context")

func WithUserID(parent context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(parent, ctxKey{}, userID)
}

func UserID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoUser
	}

	return userID, nil
}
