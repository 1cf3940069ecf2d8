// Package store is the typed state layer over the flat key-value
// repository. It owns the JSON encoding of the five fixed storage keys and
// the recovery rule for corrupted state.
//
// NO CACHING:
// Every read decodes the stored blob fresh, and every write re-encodes the
// whole blob. The database is the single source of truth — there is no
// in-memory copy to drift out of sync. At this scale (one local profile)
// the decode cost is noise.
//
// CORRUPTION POLICY:
// A blob that fails to decode is treated as empty state: the accessor
// returns the zero collection and no error. Corruption is never surfaced to
// the user and never fatal — the next write simply replaces the bad blob.
// Only real storage failures (the database itself erroring) propagate.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sakif/clipfeed/internal/apperror"
	"github.com/sakif/clipfeed/internal/model"
	"github.com/sakif/clipfeed/internal/repository"
)

// Bucket selects one of the two per-user saved-item collections.
type Bucket string

const (
	BucketLiked     Bucket = repository.KeyLiked
	BucketFavorited Bucket = repository.KeyFavorited
)

// Store provides typed access to the application state.
type Store struct {
	kv repository.KeyValueRepository
}

// New creates a Store over the given key-value repository.
func New(kv repository.KeyValueRepository) *Store {
	return &Store{kv: kv}
}

// load decodes the blob at key into dst. A missing key or an undecodable
// blob leaves dst untouched (callers pass a pointer to the zero collection).
//
// Decoding goes through a scratch value: json.Unmarshal fills maps and
// slices entry by entry before reporting a type-mismatch error, and those
// partial entries must never leak into dst — a half-valid blob is corrupt,
// not half-usable.
func load[T any](ctx context.Context, s *Store, key string, dst *T) error {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("store: loading %s: %w", key, err)
	}
	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Corrupted blob — recover as empty state, see package comment.
		return nil
	}
	*dst = decoded
	return nil
}

// save encodes v and writes it under key.
func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encoding %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("store: saving %s: %w", key, err)
	}
	return nil
}

// Users returns the account map keyed by normalized username.
// Never returns nil — an empty profile yields an empty map.
func (s *Store) Users(ctx context.Context) (map[string]model.Account, error) {
	var users map[string]model.Account
	if err := load(ctx, s, repository.KeyUsers, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = map[string]model.Account{}
	}
	return users, nil
}

// SaveUsers replaces the whole account map.
func (s *Store) SaveUsers(ctx context.Context, users map[string]model.Account) error {
	return s.save(ctx, repository.KeyUsers, users)
}

// Posts returns the stored post sequence, newest first.
func (s *Store) Posts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := load(ctx, s, repository.KeyPosts, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SavePosts replaces the whole post sequence.
func (s *Store) SavePosts(ctx context.Context, posts []model.Post) error {
	return s.save(ctx, repository.KeyPosts, posts)
}

// SavedItems returns one user's liked or favorited sequence.
func (s *Store) SavedItems(ctx context.Context, bucket Bucket, userKey string) ([]model.SavedItem, error) {
	all, err := s.allSaved(ctx, bucket)
	if err != nil {
		return nil, err
	}
	return all[userKey], nil
}

// AddSavedItem appends item to the user's bucket unless an item with the
// same id is already present. Re-saving is a no-op, not an error.
func (s *Store) AddSavedItem(ctx context.Context, bucket Bucket, userKey string, item model.SavedItem) error {
	all, err := s.allSaved(ctx, bucket)
	if err != nil {
		return err
	}
	for _, existing := range all[userKey] {
		if existing.ID == item.ID {
			return nil
		}
	}
	all[userKey] = append(all[userKey], item)
	return s.save(ctx, string(bucket), all)
}

func (s *Store) allSaved(ctx context.Context, bucket Bucket) (map[string][]model.SavedItem, error) {
	var all map[string][]model.SavedItem
	if err := load(ctx, s, string(bucket), &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = map[string][]model.SavedItem{}
	}
	return all, nil
}

// CurrentUserKey returns the stored session pointer, or "" when no session
// is established.
func (s *Store) CurrentUserKey(ctx context.Context) (string, error) {
	var key string
	if err := load(ctx, s, repository.KeyCurrentUser, &key); err != nil {
		return "", err
	}
	return key, nil
}

// SetCurrentUserKey persists the session pointer.
func (s *Store) SetCurrentUserKey(ctx context.Context, key string) error {
	return s.save(ctx, repository.KeyCurrentUser, key)
}

// ClearCurrentUserKey removes the session pointer entirely.
func (s *Store) ClearCurrentUserKey(ctx context.Context) error {
	if err := s.kv.Delete(ctx, repository.KeyCurrentUser); err != nil {
		return fmt.Errorf("store: clearing current user: %w", err)
	}
	return nil
}
