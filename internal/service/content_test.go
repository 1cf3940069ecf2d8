package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sakif/clipfeed/internal/apperror"
	"github.com/sakif/clipfeed/internal/model"
	"github.com/sakif/clipfeed/internal/store"
)

func newTestContent(t *testing.T) (*ContentService, *UserService, *store.Store) {
	t.Helper()
	st := store.New(newMemKV())
	users := NewUserService(st, testLogger())
	content := NewContentService(st, users, testLogger())
	return content, users, st
}

func registerAuthor(t *testing.T, users *UserService) *model.Account {
	t.Helper()
	account, err := users.Register(context.Background(), "Alice", "", "", "p1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return account
}

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "dedup, order preserved, case-folded",
			text: "Great #Comedy! #comedy #FYP",
			want: []string{"#comedy", "#fyp"},
		},
		{
			name: "plain words are not tags",
			text: "just words no tags",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "underscores and digits survive",
			text: "#day_1 #Day_1 #day2",
			want: []string{"#day_1", "#day2"},
		},
		{
			name: "bare hash is not a tag",
			text: "# #real",
			want: []string{"#real"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHashtags(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractHashtags(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeHashtag(t *testing.T) {
	if got := NormalizeHashtag("#Comedy "); got != "comedy" {
		t.Errorf("NormalizeHashtag(%q) = %q, want %q", "#Comedy ", got, "comedy")
	}
	if got := NormalizeHashtag("fyp"); got != "fyp" {
		t.Errorf("NormalizeHashtag(%q) = %q, want %q", "fyp", got, "fyp")
	}
}

func TestPublish_VideoRequiresMedia(t *testing.T) {
	content, users, st := newTestContent(t)
	author := registerAuthor(t, users)
	ctx := context.Background()

	_, err := content.Publish(ctx, author, "My clip", "", ContentTypeVideo, "#fun", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Publish() video without media error = %v, want ErrValidation", err)
	}

	// Failed publish leaves the stored posts untouched
	posts, err := st.Posts(ctx)
	if err != nil {
		t.Fatalf("Posts() error = %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("store has %d posts after failed publish, want 0", len(posts))
	}

	// A non-video post publishes fine without media
	if _, err := content.Publish(ctx, author, "Text post", "", "text", "#fun", ""); err != nil {
		t.Errorf("Publish() non-video without media error = %v", err)
	}
}

func TestPublish_CaptionFallback(t *testing.T) {
	content, users, _ := newTestContent(t)
	author := registerAuthor(t, users)
	ctx := context.Background()

	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{"description wins", "Title", "A description", "A description"},
		{"title as fallback", "Title", "", "Title"},
		{"default caption", "", "  ", "New post"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := content.Publish(ctx, author, tt.title, tt.description, "text", "", "")
			if err != nil {
				t.Fatalf("Publish() error = %v", err)
			}
			if post.Title != tt.want {
				t.Errorf("caption = %q, want %q", post.Title, tt.want)
			}
		})
	}
}

func TestPublish_DefaultsAndOrdering(t *testing.T) {
	content, users, _ := newTestContent(t)
	author := registerAuthor(t, users)
	ctx := context.Background()

	first, err := content.Publish(ctx, author, "First", "", "text", "no tags here", "")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !reflect.DeepEqual(first.Hashtags, []string{"#fyp"}) {
		t.Errorf("tags = %v, want default [#fyp]", first.Hashtags)
	}

	second, err := content.Publish(ctx, author, "Second", "", "text", "#later", "")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// Newest first
	feed, err := content.AllFeedContent(ctx)
	if err != nil {
		t.Fatalf("AllFeedContent() error = %v", err)
	}
	if feed[0].ID != second.ID || feed[1].ID != first.ID {
		t.Errorf("feed order = [%s %s ...], want newest first", feed[0].ID, feed[1].ID)
	}

	// Visual style alternates with post-count parity
	if first.VisualStyle == second.VisualStyle {
		t.Errorf("consecutive posts share style %q, want alternation", first.VisualStyle)
	}

	// Creator fields come from the author
	if first.Creator != "@Alice" || first.CreatorKey != "alice" {
		t.Errorf("creator = %s/%s, want @Alice/alice", first.Creator, first.CreatorKey)
	}
}

func TestPublish_TouchesAuthor(t *testing.T) {
	content, users, _ := newTestContent(t)

	registeredAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	users.clock = func() time.Time { return registeredAt }
	author := registerAuthor(t, users)

	publishedAt := registeredAt.Add(time.Hour)
	users.clock = func() time.Time { return publishedAt }

	if _, err := content.Publish(context.Background(), author, "Post", "", "text", "", ""); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	refreshed, err := users.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !refreshed.LastActiveAt.Equal(publishedAt) {
		t.Errorf("LastActiveAt = %v, want touched to %v", refreshed.LastActiveAt, publishedAt)
	}
}

func TestLike_Idempotent(t *testing.T) {
	content, users, _ := newTestContent(t)
	registerAuthor(t, users)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := content.Like(ctx, "alice", "post-1", "First"); err != nil {
			t.Fatalf("Like() call %d error = %v", i+1, err)
		}
	}

	liked, err := content.Liked(ctx, "alice")
	if err != nil {
		t.Fatalf("Liked() error = %v", err)
	}
	if len(liked) != 1 {
		t.Fatalf("liked set has %d entries after 5 likes of one post, want 1", len(liked))
	}

	// Favoriting is a separate set
	if err := content.Favorite(ctx, "alice", "post-1", "First"); err != nil {
		t.Fatalf("Favorite() error = %v", err)
	}
	favs, err := content.Favorited(ctx, "alice")
	if err != nil {
		t.Fatalf("Favorited() error = %v", err)
	}
	if len(favs) != 1 {
		t.Errorf("favorited set has %d entries, want 1", len(favs))
	}
}

func TestAllFeedContent_SeedsAlwaysLast(t *testing.T) {
	content, users, _ := newTestContent(t)
	author := registerAuthor(t, users)
	ctx := context.Background()

	feed, err := content.AllFeedContent(ctx)
	if err != nil {
		t.Fatalf("AllFeedContent() error = %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("empty profile feed has %d posts, want the 2 seeds", len(feed))
	}

	if _, err := content.Publish(ctx, author, "Mine", "", "text", "", ""); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	feed, err = content.AllFeedContent(ctx)
	if err != nil {
		t.Fatalf("AllFeedContent() error = %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("feed has %d posts, want 3", len(feed))
	}
	if feed[0].Title != "Mine" {
		t.Errorf("feed[0].Title = %q, want the user post first", feed[0].Title)
	}
	if feed[1].ID != "seed-dance" || feed[2].ID != "seed-recipe" {
		t.Errorf("seeds = %s/%s, want seed-dance/seed-recipe last in order", feed[1].ID, feed[2].ID)
	}
}

func TestPostsByTag(t *testing.T) {
	content, users, _ := newTestContent(t)
	author := registerAuthor(t, users)
	ctx := context.Background()

	if _, err := content.Publish(ctx, author, "Tagged", "", "text", "#Comedy", ""); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// Query without the "#" prefix and in the wrong case
	matches, err := content.PostsByTag(ctx, "COMEDY")
	if err != nil {
		t.Fatalf("PostsByTag() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Title != "Tagged" {
		t.Errorf("PostsByTag(COMEDY) = %d matches, want the tagged post", len(matches))
	}

	// #fyp matches both seeds plus nothing else here
	matches, err = content.PostsByTag(ctx, "fyp")
	if err != nil {
		t.Fatalf("PostsByTag() error = %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("PostsByTag(fyp) = %d matches, want the 2 seeds", len(matches))
	}

	// Unknown tag yields an empty slice, not an error
	matches, err = content.PostsByTag(ctx, "doesnotexist")
	if err != nil {
		t.Fatalf("PostsByTag() on unknown tag error = %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("PostsByTag(unknown) = %v, want empty non-nil slice", matches)
	}
}
