package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/clipfeed/internal/apperror"
	"github.com/sakif/clipfeed/internal/capture"
	"github.com/sakif/clipfeed/internal/service"
)

const statusPublished = "Content published to your creator profile."

// requireSession resolves the current session or fails with a 401-mapped
// error. Staleness deliberately does NOT block actions here — a stale
// session can still publish and like; only the profile view masks itself.
func requireSession(r *http.Request, sessions *service.SessionService) (*service.Session, error) {
	session, err := sessions.Current(r.Context())
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &apperror.AppError{
			Err:     apperror.ErrUnauthorized,
			Message: "sign in to do that",
		}
	}
	return session, nil
}

// ContentHandler owns publishing and the like/favorite actions.
type ContentHandler struct {
	content  *service.ContentService
	sessions *service.SessionService
	capture  *capture.Controller
	logger   *slog.Logger
}

// NewContentHandler creates a ContentHandler. The capture controller is the
// publish panel's media source: when a publish request carries no inline
// payload, whatever the panel captured is used instead.
func NewContentHandler(content *service.ContentService, sessions *service.SessionService, cap *capture.Controller, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{content: content, sessions: sessions, capture: cap, logger: logger}
}

// HandlePublish creates a post from the publish panel's fields.
//
// HTTP: POST /api/posts
// BODY: {"title": "...", "description": "...", "type": "video",
//        "hashtags": "#fun #travel", "mediaPayload": "data:..."}
//
// mediaPayload may be omitted when the capture panel holds a selected file
// or a finished recording — that payload is used, and the panel is reset
// only after the publish succeeds.
func (h *ContentHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	session, err := requireSession(r, h.sessions)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Type         string `json:"type"`
		Hashtags     string `json:"hashtags"`
		MediaPayload string `json:"mediaPayload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	payload := req.MediaPayload
	if payload == "" {
		payload = h.capture.Payload()
	}

	post, err := h.content.Publish(r.Context(), &session.Account,
		req.Title, req.Description, req.Type, req.Hashtags, payload)
	if err != nil {
		// A failed publish leaves the capture panel as it was — the user
		// can fix the form and retry without re-recording.
		writeError(w, err)
		return
	}

	h.capture.Clear()

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": statusPublished,
		"post":   post,
	})
}

// HandleLike adds the post to the session user's liked set.
//
// HTTP: POST /api/posts/{id}/like
// BODY: {"title": "..."}
func (h *ContentHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	h.handleSave(w, r, "like")
}

// HandleFavorite adds the post to the session user's favorited set.
//
// HTTP: POST /api/posts/{id}/favorite
// BODY: {"title": "..."}
func (h *ContentHandler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	h.handleSave(w, r, "favorite")
}

func (h *ContentHandler) handleSave(w http.ResponseWriter, r *http.Request, action string) {
	session, err := requireSession(r, h.sessions)
	if err != nil {
		writeError(w, err)
		return
	}

	postID := r.PathValue("id")
	if postID == "" {
		http.Error(w, "Post ID is required", http.StatusBadRequest)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	// Body is optional — a missing title just saves an untitled entry
	_ = json.NewDecoder(r.Body).Decode(&req)

	if action == "like" {
		err = h.content.Like(r.Context(), session.Key, postID, req.Title)
	} else {
		err = h.content.Favorite(r.Context(), session.Key, postID, req.Title)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "Action received: " + action + ".",
	})
}

// HandleSaved lists the session user's liked and favorited items.
//
// HTTP: GET /api/saved
func (h *ContentHandler) HandleSaved(w http.ResponseWriter, r *http.Request) {
	session, err := requireSession(r, h.sessions)
	if err != nil {
		writeError(w, err)
		return
	}

	liked, err := h.content.Liked(r.Context(), session.Key)
	if err != nil {
		writeError(w, err)
		return
	}
	favorited, err := h.content.Favorited(r.Context(), session.Key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"liked":     liked,
		"favorited": favorited,
	})
}
