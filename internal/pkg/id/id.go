package id

import (
	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, so dispatch
// records list in the order they ran.
func New() string {
	return ulid.Make().String()
}

// Valid reports whether s is a well-formed ULID.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
