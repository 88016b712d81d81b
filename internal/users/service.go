package users

import (
	"context"
	"errors"
	"fmt"

	"userauth.dev/internal/apperr"
)

// Messages shared with the HTTP layer and the auth core.
const (
	MsgNotFound   = "user not found"
	MsgGone       = "user has been deactivated"
	MsgEmailTaken = "email is already registered"
)

// Service implements the user lifecycle on top of a Store.
type Service struct {
	store  Store
	hasher PasswordHasher
}

// NewService wires a Store and a PasswordHasher.
func NewService(store Store, hasher PasswordHasher) *Service {
	return &Service{store: store, hasher: hasher}
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// List returns every user, including deactivated ones.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]Info, 0, len(list))
	for i := range list {
		out = append(out, list[i].Info())
	}
	return out, nil
}

// GetActive loads an active user. It fails with NotFound or Gone.
func (s *Service) GetActive(ctx context.Context, id int64) (*User, error) {
	u, err := s.store.ByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.New(apperr.ErrNotFound, MsgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	if !u.IsActive {
		return nil, apperr.New(apperr.ErrGone, MsgGone)
	}
	return u, nil
}

// Get returns the projection of an active user.
func (s *Service) Get(ctx context.Context, id int64) (Info, error) {
	u, err := s.GetActive(ctx, id)
	if err != nil {
		return Info{}, err
	}
	return u.Info(), nil
}

// Create validates the payload, hashes the password and stores an active user.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Info, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return Info{}, apperr.New(apperr.ErrInvalidInput, err.Error())
	}

	if _, err := s.store.ByEmail(ctx, req.Email); err == nil {
		return Info{}, apperr.New(apperr.ErrConflict, MsgEmailTaken)
	} else if !errors.Is(err, ErrNotFound) {
		return Info{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return Info{}, fmt.Errorf("hash password: %w", err)
	}
	u := &User{Name: req.Name, Email: req.Email, PasswordHash: hash, IsActive: true}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Info{}, apperr.New(apperr.ErrConflict, MsgEmailTaken)
		}
		return Info{}, fmt.Errorf("create user: %w", err)
	}
	return u.Info(), nil
}

// Remove soft-deletes an active user.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if _, err := s.GetActive(ctx, id); err != nil {
		return err
	}
	if err := s.store.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("deactivate user %d: %w", id, err)
	}
	return nil
}

// FindActiveByEmail returns the user with its password hash, or nil when no
// record exists. A deactivated record fails with Gone.
func (s *Service) FindActiveByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.store.ByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !u.IsActive {
		return nil, apperr.New(apperr.ErrGone, MsgGone)
	}
	return u, nil
}

// FindInactiveByEmail returns the record for recovery whatever its state, or
// nil when no record exists. The caller decides what an active record means.
func (s *Service) FindInactiveByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.store.ByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	return u, nil
}

// Activate flips the user back to active.
func (s *Service) Activate(ctx context.Context, id int64) error {
	err := s.store.SetActive(ctx, id, true)
	if errors.Is(err, ErrNotFound) {
		return apperr.New(apperr.ErrNotFound, MsgNotFound)
	}
	if err != nil {
		return fmt.Errorf("activate user %d: %w", id, err)
	}
	return nil
}
