package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatchesKind(t *testing.T) {
	err := New(ErrGone, "user has been deactivated")
	if err.Error() != "user has been deactivated" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrGone) {
		t.Fatalf("expected errors.Is(err, ErrGone)")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected match with ErrNotFound")
	}

	wrapped := fmt.Errorf("load user: %w", err)
	if !errors.Is(wrapped, ErrGone) {
		t.Fatalf("kind lost through wrapping")
	}
	var target *Error
	if !errors.As(wrapped, &target) || target.Kind() != ErrGone {
		t.Fatalf("errors.As did not recover *Error")
	}
}

func TestIsDomain(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{New(ErrUnauthorized, "x"), true},
		{New(ErrConflict, "x"), true},
		{fmt.Errorf("wrap: %w", ErrNotFound), true},
		{errors.New("dial tcp: refused"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsDomain(tc.err); got != tc.want {
			t.Fatalf("IsDomain(%v)=%v, want %v", tc.err, got, tc.want)
		}
	}
}
