package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/clipfeed/internal/model"
	"github.com/sakif/clipfeed/internal/service"
)

// Status strings shown to the user after auth actions. These are the exact
// messages the UI renders into its status line.
const (
	statusRegistered = "Account created. Free plan is active by default."
	statusLoggedIn   = "Logged in successfully."
	statusLoggedOut  = "Logged out."
	statusPlanPaid   = "Paid Business plan selected. Continue to checkout."
	statusPlanFree   = "Free plan selected."
)

// AuthHandler owns registration, login/logout, session lookup, and the
// plan picker.
type AuthHandler struct {
	users    *service.UserService
	sessions *service.SessionService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *service.UserService, sessions *service.SessionService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, logger: logger}
}

// accountView strips the password before an account leaves the process.
type accountView struct {
	Username  string     `json:"username"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Plan      model.Plan `json:"plan"`
	AvatarURL string     `json:"avatarUrl"`
}

func toAccountView(a model.Account) accountView {
	return accountView{
		Username:  a.Username,
		Name:      a.Name,
		Email:     a.Email,
		Plan:      a.Plan,
		AvatarURL: a.AvatarURL,
	}
}

// HandleRegister creates an account and reports the new session.
//
// HTTP: POST /api/register
// BODY: {"username": "...", "name": "...", "email": "...", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	account, err := h.users.Register(r.Context(), req.Username, req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  statusRegistered,
		"account": toAccountView(*account),
	})
}

// HandleLogin authenticates and establishes the session.
//
// HTTP: POST /api/login
// BODY: {"username": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	account, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.sessions.Establish(r.Context(), account.Key); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  statusLoggedIn,
		"account": toAccountView(*account),
	})
}

// HandleLogout clears the session pointer. The account is untouched.
//
// HTTP: POST /api/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusLoggedOut})
}

// HandleSession reports the current session and the onboarding flag. The
// presentation layer uses needsOnboarding to redirect a fresh install to
// the registration view.
//
// HTTP: GET /api/session
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	needsOnboarding, err := h.sessions.NeedsOnboarding(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{"needsOnboarding": needsOnboarding}
	if session != nil {
		resp["account"] = toAccountView(session.Account)
		resp["stale"] = h.sessions.IsStale(session.Account)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSetPlan switches the current account's subscription plan.
//
// HTTP: POST /api/plan
// BODY: {"plan": "free" | "paid"}
func (h *AuthHandler) HandleSetPlan(w http.ResponseWriter, r *http.Request) {
	session, err := requireSession(r, h.sessions)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Plan model.Plan `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	account, err := h.users.SetPlan(r.Context(), session.Key, req.Plan)
	if err != nil {
		writeError(w, err)
		return
	}

	status := statusPlanFree
	if account.Plan == model.PlanPaid {
		status = statusPlanPaid
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"account": toAccountView(*account),
	})
}
