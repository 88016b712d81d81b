package auth

import (
	"context"
	"strconv"
	"time"
)

// TokenStore keeps the current refresh token per user with a TTL.
// Get returns "" and a nil error when no token is stored.
type TokenStore interface {
	Save(ctx context.Context, userID int64, token string, ttl time.Duration) error
	Get(ctx context.Context, userID int64) (string, error)
	Delete(ctx context.Context, userID int64) error
}

// RefreshKey is the token store key for a user.
func RefreshKey(userID int64) string {
	return "refresh:" + strconv.FormatInt(userID, 10)
}
