package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/service"
)

// CoupleHandler serves couple creation, joining by invite code, and
// partner lookup.
type CoupleHandler struct {
	identity *service.Identity
	logger   *slog.Logger
}

func NewCoupleHandler(identity *service.Identity, logger *slog.Logger) *CoupleHandler {
	return &CoupleHandler{identity: identity, logger: logger}
}

func (h *CoupleHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	couple, err := h.identity.CreateCouple(ac.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, couple)
}

func (h *CoupleHandler) Join(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	couple, err := h.identity.JoinCouple(ac.UserID, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, couple)
}

func (h *CoupleHandler) Partner(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	partner, err := h.identity.Partner(ac.UserID)
	if err != nil {
		h.logger.Error("get partner", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if partner == nil {
		writeError(w, http.StatusNotFound, "no partner yet")
		return
	}

	writeJSON(w, http.StatusOK, partner)
}
