package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/clipfeed/internal/catalog"
	"github.com/sakif/clipfeed/internal/service"
)

// FeedHandler serves the read-side views: the feed itself, hashtag search,
// and the creator/sound/profile detail pages.
type FeedHandler struct {
	feed     *service.FeedService
	content  *service.ContentService
	sessions *service.SessionService
	logger   *slog.Logger
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(feed *service.FeedService, content *service.ContentService, sessions *service.SessionService, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, content: content, sessions: sessions, logger: logger}
}

// HandleFeed returns the whole feed as display rows, newest first with the
// seed posts at the end.
//
// HTTP: GET /api/feed
func (h *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	rows, err := h.feed.Render(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleHashtag returns the posts carrying a tag. Unknown tags return an
// empty list, not a 404 — an empty search result is a normal page.
//
// HTTP: GET /api/hashtags/{tag}
func (h *FeedHandler) HandleHashtag(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	if tag == "" {
		http.Error(w, "Hashtag is required", http.StatusBadRequest)
		return
	}

	posts, err := h.content.PostsByTag(r.Context(), tag)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tag":   "#" + service.NormalizeHashtag(tag),
		"posts": posts,
	})
}

// HandleCreator returns a creator's static directory entry. Unknown
// handles get the default entry — the page always renders.
//
// HTTP: GET /api/creators/{handle}
func (h *FeedHandler) HandleCreator(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if handle == "" {
		http.Error(w, "Creator handle is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, catalog.CreatorByHandle(handle))
}

// HandleSound returns a sound's directory entry with its attached content
// ranked by popularity.
//
// HTTP: GET /api/sounds/{key}
func (h *FeedHandler) HandleSound(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		http.Error(w, "Sound key is required", http.StatusBadRequest)
		return
	}

	sound, ranked := h.feed.RankedSoundContent(key)
	writeJSON(w, http.StatusOK, map[string]any{
		"sound":  sound,
		"ranked": ranked,
	})
}

// HandleProfile returns the session user's profile view. A stale session
// gets the masked variant with requiresReauth set; the session itself
// survives — logging in again unmasks it.
//
// HTTP: GET /api/profile
func (h *FeedHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	session, err := requireSession(r, h.sessions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.feed.ProfileView(session.Account))
}
