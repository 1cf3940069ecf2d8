package store

import (
	"context"
	"testing"

	"github.com/sakif/clipfeed/internal/apperror"
	"github.com/sakif/clipfeed/internal/model"
	"github.com/sakif/clipfeed/internal/repository"
)

// mockKV is an in-memory KeyValueRepository. The store tests only exercise
// JSON codec behaviour, so a map is all the persistence we need.
type mockKV struct {
	data map[string][]byte
}

func newMockKV() *mockKV {
	return &mockKV{data: make(map[string][]byte)}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, apperror.NotFound("key", key)
	}
	return v, nil
}

func (m *mockKV) Put(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *mockKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func newTestStore(t *testing.T) (*Store, *mockKV) {
	t.Helper()
	kv := newMockKV()
	return New(kv), kv
}

func TestUsers_EmptyProfile(t *testing.T) {
	s, _ := newTestStore(t)

	users, err := s.Users(context.Background())
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if users == nil {
		t.Fatal("Users() returned nil map for empty profile")
	}
	if len(users) != 0 {
		t.Errorf("Users() = %d entries, want 0", len(users))
	}
}

func TestUsers_Roundtrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	want := map[string]model.Account{
		"alice": {Username: "Alice", Key: "alice", Plan: model.PlanFree},
	}
	if err := s.SaveUsers(ctx, want); err != nil {
		t.Fatalf("SaveUsers() error = %v", err)
	}

	got, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if got["alice"].Username != "Alice" || got["alice"].Plan != model.PlanFree {
		t.Errorf("Users() = %+v, want %+v", got, want)
	}
}

// Corrupted JSON must decay to empty state — silently recovered, never an
// error, never fatal.
func TestCorruptedBlob_ReadsAsEmpty(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	kv.data[repository.KeyUsers] = []byte(`{"alice": not-json`)
	kv.data[repository.KeyPosts] = []byte(`[[[`)
	kv.data[repository.KeyCurrentUser] = []byte(`{"oops"`)

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("Users() on corrupt blob error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Users() on corrupt blob = %d entries, want 0", len(users))
	}

	posts, err := s.Posts(ctx)
	if err != nil {
		t.Fatalf("Posts() on corrupt blob error = %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("Posts() on corrupt blob = %d entries, want 0", len(posts))
	}

	key, err := s.CurrentUserKey(ctx)
	if err != nil {
		t.Fatalf("CurrentUserKey() on corrupt blob error = %v", err)
	}
	if key != "" {
		t.Errorf("CurrentUserKey() on corrupt blob = %q, want empty", key)
	}
}

// A type-mismatched blob is just as corrupt as a syntax error, but
// json.Unmarshal fills maps and slices entry by entry before it reports the
// mismatch. None of those partial entries may surface — the whole blob
// decays to empty state.
func TestCorruptedBlob_PartialDecodeDoesNotLeak(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	// Valid JSON, wrong shape: alice decodes, bob cannot.
	kv.data[repository.KeyUsers] = []byte(`{"alice": {"username": "Alice"}, "bob": 42}`)
	kv.data[repository.KeyPosts] = []byte(`[{"id": "p1"}, "not-a-post"]`)

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("Users() on mismatched blob error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Users() on mismatched blob = %d entries, want 0", len(users))
	}

	posts, err := s.Posts(ctx)
	if err != nil {
		t.Fatalf("Posts() on mismatched blob error = %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("Posts() on mismatched blob = %d entries, want 0", len(posts))
	}
}

// A stored JSON null decodes successfully into a nil map; the accessor
// contract still promises a usable empty collection.
func TestNullBlob_ReadsAsEmptyCollections(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	kv.data[repository.KeyUsers] = []byte(`null`)
	kv.data[repository.KeyLiked] = []byte(`null`)

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("Users() on null blob error = %v", err)
	}
	if users == nil {
		t.Fatal("Users() returned nil map for null blob")
	}

	// The map must be writable — AddSavedItem goes through it.
	if err := s.AddSavedItem(ctx, BucketLiked, "alice", model.SavedItem{ID: "p1"}); err != nil {
		t.Fatalf("AddSavedItem() after null blob error = %v", err)
	}
	items, err := s.SavedItems(ctx, BucketLiked, "alice")
	if err != nil {
		t.Fatalf("SavedItems() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("SavedItems() = %d entries, want 1", len(items))
	}
}

func TestAddSavedItem_Deduplicates(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	item := model.SavedItem{ID: "post-1", Title: "First"}
	for i := 0; i < 3; i++ {
		if err := s.AddSavedItem(ctx, BucketLiked, "alice", item); err != nil {
			t.Fatalf("AddSavedItem() call %d error = %v", i+1, err)
		}
	}

	items, err := s.SavedItems(ctx, BucketLiked, "alice")
	if err != nil {
		t.Fatalf("SavedItems() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("SavedItems() = %d entries after 3 identical adds, want 1", len(items))
	}
	if items[0].Title != "First" {
		t.Errorf("SavedItems()[0].Title = %q, want %q", items[0].Title, "First")
	}
}

func TestAddSavedItem_BucketsAreIndependent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	item := model.SavedItem{ID: "post-1", Title: "First"}
	if err := s.AddSavedItem(ctx, BucketLiked, "alice", item); err != nil {
		t.Fatalf("AddSavedItem(liked) error = %v", err)
	}

	favs, err := s.SavedItems(ctx, BucketFavorited, "alice")
	if err != nil {
		t.Fatalf("SavedItems(favorited) error = %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("favorited bucket has %d entries after a like, want 0", len(favs))
	}
}

func TestCurrentUserKey_SetAndClear(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.SetCurrentUserKey(ctx, "alice"); err != nil {
		t.Fatalf("SetCurrentUserKey() error = %v", err)
	}
	key, err := s.CurrentUserKey(ctx)
	if err != nil {
		t.Fatalf("CurrentUserKey() error = %v", err)
	}
	if key != "alice" {
		t.Errorf("CurrentUserKey() = %q, want %q", key, "alice")
	}

	if err := s.ClearCurrentUserKey(ctx); err != nil {
		t.Fatalf("ClearCurrentUserKey() error = %v", err)
	}
	key, err = s.CurrentUserKey(ctx)
	if err != nil {
		t.Fatalf("CurrentUserKey() after clear error = %v", err)
	}
	if key != "" {
		t.Errorf("CurrentUserKey() after clear = %q, want empty", key)
	}
}
