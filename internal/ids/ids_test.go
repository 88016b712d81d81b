package ids

import "testing"

func TestNewIsValidAndOrdered(t *testing.T) {
	a := New()
	b := New()
	if !Valid(a) || !Valid(b) {
		t.Fatalf("generated ids must be valid: %q %q", a, b)
	}
	if a >= b {
		t.Fatalf("expected monotonic ids, got %q then %q", a, b)
	}
	if Valid("not-an-id") {
		t.Fatalf("unexpected valid id")
	}
}
