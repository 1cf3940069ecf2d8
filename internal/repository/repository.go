package repository

import (
	"context"
)

// Fixed storage keys. The whole application state lives under these five
// keys as JSON blobs — the same flat layout a browser profile would keep.
const (
	KeyUsers       = "users"          // map[key]model.Account
	KeyCurrentUser = "currentUser"    // string account key
	KeyLiked       = "likedItems"     // map[userKey][]model.SavedItem
	KeyFavorited   = "favoritedItems" // map[userKey][]model.SavedItem
	KeyPosts       = "posts"          // []model.Post, newest first
)

// KeyValueRepository is the persistence substrate: a flat key → JSON-blob
// store. There is deliberately no richer query surface — every component
// reads a whole blob, decodes it, and writes the whole blob back
// (read-modify-write, last write wins).
type KeyValueRepository interface {
	// Get returns the raw value for key, or apperror.ErrNotFound if the
	// key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
