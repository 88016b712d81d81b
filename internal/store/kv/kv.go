// Package kv stores refresh tokens in Redis, one key per user with a TTL.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"userauth.dev/internal/auth"
	"userauth.dev/internal/obs"
)

// Store implements auth.TokenStore on a Redis client.
type Store struct {
	rdb *redis.Client
}

var _ auth.TokenStore = (*Store)(nil)

// New wraps an existing client.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Open connects and pings the server.
func Open(ctx context.Context, addr, password string, db int) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("kv: ping %s: %w", addr, err)
	}
	return &Store{rdb: rdb}, nil
}

// Save overwrites the user's refresh token.
func (s *Store) Save(ctx context.Context, userID int64, token string, ttl time.Duration) (err error) {
	defer func(start time.Time) { obs.ObserveTokenStore("save", start, err) }(time.Now())
	if err = s.rdb.Set(ctx, auth.RefreshKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("kv: save: %w", err)
	}
	return nil
}

// Get returns the stored token, or "" when there is none.
func (s *Store) Get(ctx context.Context, userID int64) (token string, err error) {
	defer func(start time.Time) { obs.ObserveTokenStore("get", start, err) }(time.Now())
	token, err = s.rdb.Get(ctx, auth.RefreshKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("kv: get: %w", err)
	}
	return token, nil
}

// Delete removes the user's token. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, userID int64) (err error) {
	defer func(start time.Time) { obs.ObserveTokenStore("delete", start, err) }(time.Now())
	if err = s.rdb.Del(ctx, auth.RefreshKey(userID)).Err(); err != nil {
		return fmt.Errorf("kv: delete: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
