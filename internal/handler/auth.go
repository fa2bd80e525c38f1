package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/middleware"
	"github.com/mfigueira/nossoapp/internal/service"
	"github.com/mfigueira/nossoapp/internal/store"
)

const sessionMaxAge = 30 * 24 * 60 * 60 // matches store session TTL

// AuthHandler serves registration, login, logout, and the current-user
// endpoint.
type AuthHandler struct {
	identity      *service.Identity
	ledger        *service.Ledger
	users         *store.UserStore
	couples       *store.CoupleStore
	sessions      *store.SessionStore
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(
	identity *service.Identity,
	ledger *service.Ledger,
	us *store.UserStore,
	cs *store.CoupleStore,
	ss *store.SessionStore,
	secureCookies bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		identity:      identity,
		ledger:        ledger,
		users:         us,
		couples:       cs,
		sessions:      ss,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.identity.Register(req.Name, req.Username, req.Email, req.Password, req.Confirm)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.identity.Authenticate(req.Username, req.Password)
	if err != nil {
		var authErr *service.AuthError
		if errors.As(err, &authErr) {
			writeError(w, http.StatusUnauthorized, authErr.Msg)
			return
		}
		h.logger.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID int64) error {
	sess, err := h.sessions.Create(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
	return nil
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessions.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user plus everything the frontend shell
// needs: couple (with invite code), partner, and point balance.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	user, err := h.users.GetByID(ac.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := map[string]any{"user": user}

	if ac.CoupleID != 0 {
		couple, err := h.couples.GetByID(ac.CoupleID)
		if err != nil {
			h.logger.Error("get couple", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		resp["couple"] = couple

		partner, err := h.identity.Partner(ac.UserID)
		if err != nil {
			h.logger.Error("get partner", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		resp["partner"] = partner
	}

	balance, err := h.ledger.Balance(ac.UserID)
	if err != nil {
		h.logger.Error("get balance", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	resp["balance"] = balance

	writeJSON(w, http.StatusOK, resp)
}
