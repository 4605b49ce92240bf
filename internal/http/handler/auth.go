package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/seojin-ahn/todoboard/internal/identity"
	"github.com/seojin-ahn/todoboard/internal/middleware"
	"github.com/seojin-ahn/todoboard/internal/service"
	"github.com/seojin-ahn/todoboard/internal/session"
)

// AuthHandler covers the identity surface: provider credential flows,
// sync, and the session-gated profile endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	users    *service.UserService
	sessions *session.Manager
	verifier identity.Verifier
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService, sessions *session.Manager, verifier identity.Verifier) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		users:    users,
		sessions: sessions,
		verifier: verifier,
	}
}

// --- credential flows (proxied to the provider) ---

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	out, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, out)
}

type confirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	if err := h.auth.ConfirmRegistration(r.Context(), req.Email, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Email confirmed"})
}

type resendCodeRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req resendCodeRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	if err := h.auth.ResendCode(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Confirmation code sent"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	tokens, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tokens)
}

type refreshRequest struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	tokens, err := h.auth.Refresh(r.Context(), req.Email, req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tokens)
}

// --- sync: bearer credential in, session cookie out ---

func (h *AuthHandler) Sync(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ident, err := h.verifier.Verify(r.Context(), strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		slog.InfoContext(r.Context(), "token verification failed", "error", err)
		WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := h.users.Sync(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s, err := h.sessions.Issue(r.Context(), user.Profile())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.sessions.SetCookie(w, s)

	WriteJSON(w, http.StatusOK, map[string]string{
		"uid":   user.UID,
		"email": user.Email,
	})
}

// --- session-gated endpoints ---

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.ProfileFrom(r)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Avatar   *string `json:"avatar"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.ProfileFrom(r)
	sessionID, _ := middleware.SessionIDFrom(r)

	var req updateProfileRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), p.UID, service.UpdateProfileInput{
		Username: req.Username,
		Avatar:   req.Avatar,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The session caches profile fields; refresh it in the same request so
	// later reads never see the old values.
	if err := h.sessions.Refresh(r.Context(), sessionID, user.Profile()); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user.Profile())
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFrom(r)

	if err := h.sessions.Destroy(r.Context(), sessionID); err != nil {
		writeServiceError(w, err)
		return
	}
	h.sessions.ClearCookie(w)

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
