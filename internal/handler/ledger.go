package handler

import (
	"log/slog"
	"net/http"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/service"
)

// LedgerHandler serves the derived point balance.
type LedgerHandler struct {
	ledger *service.Ledger
	logger *slog.Logger
}

func NewLedgerHandler(ledger *service.Ledger, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, logger: logger}
}

func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	balance, err := h.ledger.Balance(ac.UserID)
	if err != nil {
		h.logger.Error("get balance", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, balance)
}
