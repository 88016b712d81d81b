package ids

import "github.com/oklog/ulid/v2"

// New returns a lexicographically sortable identifier for request correlation.
func New() string {
	return ulid.Make().String()
}

// Valid reports whether s is a well-formed identifier as produced by New.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
