package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/clipfeed/internal/apperror"
	"github.com/sakif/clipfeed/internal/model"
	"github.com/sakif/clipfeed/internal/store"
)

// ContentTypeVideo is the publish type that requires an embedded media
// payload. Other types (image cards, text posts) publish without one.
const ContentTypeVideo = "video"

// The two card styles the feed alternates between. Purely cosmetic — the
// parity of the current post count picks one.
const (
	visualStyleSunset = "gradient-sunset"
	visualStyleOcean  = "gradient-ocean"
)

// defaultSoundKey is attached to published posts; the publish form has no
// sound picker, everything publishes over the house mix.
const defaultSoundKey = "original-mix"

// hashtagPattern matches one "#"-prefixed tag token. Words without the
// prefix are ordinary text and never become tags.
var hashtagPattern = regexp.MustCompile(`#[A-Za-z0-9_]+`)

// ContentService owns the post sequence and the per-user saved sets.
type ContentService struct {
	store  *store.Store
	users  *UserService
	logger *slog.Logger
}

// NewContentService creates a ContentService. It takes the UserService so
// content actions can refresh the author's activity timestamps.
func NewContentService(st *store.Store, users *UserService, logger *slog.Logger) *ContentService {
	return &ContentService{
		store:  st,
		users:  users,
		logger: logger,
	}
}

// NormalizeHashtag strips a leading "#", trims, and lowercases. The result
// has no prefix: NormalizeHashtag("#Comedy") == "comedy".
func NormalizeHashtag(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "#")))
}

// ExtractHashtags scans free text for "#"-prefixed tokens and returns them
// normalized, "#"-prefixed, deduplicated, in first-seen order:
//
//	ExtractHashtags("Great #Comedy! #comedy #FYP") → ["#comedy", "#fyp"]
func ExtractHashtags(text string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, token := range hashtagPattern.FindAllString(text, -1) {
		tag := NormalizeHashtag(token)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, "#"+tag)
	}
	return tags
}

// Publish creates a post and prepends it to the stored sequence, so the
// feed is always newest first.
//
// Rules, in order:
//   - video posts must carry a media payload
//   - the caption falls back description → title → "New post"
//   - no extracted tags defaults to {#fyp}
//   - the card style alternates with the parity of the current post count
func (s *ContentService) Publish(ctx context.Context, author *model.Account, title, description, contentType, hashtagText, mediaPayload string) (*model.Post, error) {
	if contentType == ContentTypeVideo && mediaPayload == "" {
		return nil, apperror.MissingMedia()
	}

	caption := strings.TrimSpace(description)
	if caption == "" {
		caption = strings.TrimSpace(title)
	}
	if caption == "" {
		caption = "New post"
	}

	tags := ExtractHashtags(hashtagText)
	if len(tags) == 0 {
		tags = []string{"#fyp"}
	}

	posts, err := s.store.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("publishing: %w", err)
	}

	style := visualStyleSunset
	if len(posts)%2 == 1 {
		style = visualStyleOcean
	}

	post := model.Post{
		ID:           xid.New().String(),
		Title:        caption,
		Creator:      "@" + author.Username,
		CreatorKey:   author.Key,
		Hashtags:     tags,
		Sound:        defaultSoundKey,
		VisualStyle:  style,
		MediaPayload: mediaPayload,
	}

	posts = append([]model.Post{post}, posts...)
	if err := s.store.SavePosts(ctx, posts); err != nil {
		return nil, fmt.Errorf("publishing: %w", err)
	}

	s.users.Touch(ctx, author.Key)

	s.logger.Info("post published",
		slog.String("id", post.ID),
		slog.String("creator", post.CreatorKey),
		slog.Int("tags", len(post.Hashtags)),
	)
	return &post, nil
}

// Like adds the post to the user's liked set. Liking twice is a no-op.
func (s *ContentService) Like(ctx context.Context, userKey, postID, title string) error {
	return s.saveItem(ctx, store.BucketLiked, userKey, postID, title)
}

// Favorite adds the post to the user's favorited set. Idempotent like Like.
func (s *ContentService) Favorite(ctx context.Context, userKey, postID, title string) error {
	return s.saveItem(ctx, store.BucketFavorited, userKey, postID, title)
}

func (s *ContentService) saveItem(ctx context.Context, bucket store.Bucket, userKey, postID, title string) error {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return apperror.ValidationFailed("post", "post id is required")
	}
	item := model.SavedItem{ID: postID, Title: title}
	if err := s.store.AddSavedItem(ctx, bucket, userKey, item); err != nil {
		return fmt.Errorf("saving item to %s: %w", bucket, err)
	}

	s.users.Touch(ctx, userKey)
	return nil
}

// Liked returns the user's liked items in save order.
func (s *ContentService) Liked(ctx context.Context, userKey string) ([]model.SavedItem, error) {
	return s.store.SavedItems(ctx, store.BucketLiked, userKey)
}

// Favorited returns the user's favorited items in save order.
func (s *ContentService) Favorited(ctx context.Context, userKey string) ([]model.SavedItem, error) {
	return s.store.SavedItems(ctx, store.BucketFavorited, userKey)
}

// seedPosts are the two posts every fresh profile starts with. They live in
// code, never in storage, and always sort after the user's own posts.
var seedPosts = []model.Post{
	{
		ID:          "seed-dance",
		Title:       "New dance challenge, who's in?",
		Creator:     "@dancequeen",
		CreatorKey:  "dancequeen",
		Hashtags:    []string{"#dance", "#fyp"},
		Sound:       "summer-beat",
		VisualStyle: visualStyleSunset,
	},
	{
		ID:          "seed-recipe",
		Title:       "One-pan pasta in 60 seconds",
		Creator:     "@chefmax",
		CreatorKey:  "chefmax",
		Hashtags:    []string{"#food", "#fyp"},
		Sound:       "lofi-chill",
		VisualStyle: visualStyleOcean,
	},
}

// AllFeedContent returns the stored posts (newest first) followed by the
// seed posts. The seeds are copied so callers can't mutate them.
func (s *ContentService) AllFeedContent(ctx context.Context) ([]model.Post, error) {
	posts, err := s.store.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading feed: %w", err)
	}
	feed := make([]model.Post, 0, len(posts)+len(seedPosts))
	feed = append(feed, posts...)
	feed = append(feed, seedPosts...)
	return feed, nil
}

// PostsByTag filters the whole feed down to posts carrying the tag. The
// query may arrive with or without the "#" prefix and in any case. An
// unknown tag yields an empty slice, never an error.
func (s *ContentService) PostsByTag(ctx context.Context, tag string) ([]model.Post, error) {
	normalized := "#" + NormalizeHashtag(tag)

	feed, err := s.AllFeedContent(ctx)
	if err != nil {
		return nil, err
	}

	matches := []model.Post{}
	for _, post := range feed {
		if post.HasTag(normalized) {
			matches = append(matches, post)
		}
	}
	return matches, nil
}
