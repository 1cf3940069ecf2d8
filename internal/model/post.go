package model

// Post represents one published piece of content in the feed.
//
// Posts are stored as an ordered JSON sequence, newest first — publishing
// prepends. Once created a post is immutable; there is no edit or delete.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize
// this struct to/from the stored blob. MediaPayload holds the embedded
// media itself (a data URL), so a post is self-contained — no media files
// on disk.
type Post struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Creator      string   `json:"creator"`      // Display handle, e.g. "@alice"
	CreatorKey   string   `json:"creatorKey"`   // Normalized account key
	Hashtags     []string `json:"hashtags"`     // Normalized, "#"-prefixed, deduplicated, insertion order
	Sound        string   `json:"sound"`        // Catalog sound key (may be empty)
	VisualStyle  string   `json:"visualStyle"`  // Cosmetic card style, alternates per post
	MediaPayload string   `json:"mediaPayload"` // Embedded media data URL (empty for non-video posts)
}

// HasTag reports whether the post carries the given normalized tag.
// The tag must already be in "#"-prefixed normalized form.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Hashtags {
		if t == tag {
			return true
		}
	}
	return false
}

// SavedItem is one entry in a user's liked or favorited collection.
// Only the id and title are kept — enough to render the saved list and to
// test membership. Saving the same post twice is a no-op.
type SavedItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FeedRow is the view model for one rendered feed entry. The presentation
// layer renders these directly; the core never builds markup.
type FeedRow struct {
	Post      Post     `json:"post"`
	SoundName string   `json:"soundName"` // Resolved display name, with catalog fallback
	TagLinks  []string `json:"tagLinks"`  // One search path per hashtag
}

// ProfileView is the view model for the profile page. When the session is
// stale the detail fields are masked and RequiresReauth is set — the
// pointer itself is left intact so re-login on the same key succeeds.
type ProfileView struct {
	Username       string `json:"username"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Plan           Plan   `json:"plan,omitempty"`
	AvatarURL      string `json:"avatarUrl,omitempty"`
	RequiresReauth bool   `json:"requiresReauth"`
}
