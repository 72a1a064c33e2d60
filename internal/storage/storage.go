// Package storage is a typed key-value layer over a durable string-keyed
// store. Values round-trip through JSON; a missing key or a value that no
// longer parses reads back as "absent" so callers fall through to their
// default state.
package storage

import "context"

// Namespaced slots for everything the storefront persists.
const (
	KeyAccounts = "quickcart:users"
	KeySession  = "quickcart:session"
	KeyRemember = "quickcart:remember"
	KeyCart     = "quickcart:cart"
)

type Store interface {
	// Get unmarshals the stored value into dest and reports whether it did.
	// Absent keys and corrupted values both return false with dest untouched.
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
