package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/model"
	"github.com/mfigueira/nossoapp/internal/service"
	"github.com/mfigueira/nossoapp/internal/upload"
	"github.com/mfigueira/nossoapp/internal/websocket"
)

// RewardHandler serves the reward workflow endpoints: suggestions,
// decisions, the store page, redemptions, and vouchers.
type RewardHandler struct {
	rewards *service.Rewards
	ledger  *service.Ledger
	uploads *upload.Manager
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewRewardHandler(rewards *service.Rewards, ledger *service.Ledger, uploads *upload.Manager, hub *websocket.Hub, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{rewards: rewards, ledger: ledger, uploads: uploads, hub: hub, logger: logger}
}

func (h *RewardHandler) broadcast(coupleID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(coupleID, msg)
	}
}

// Suggest accepts a multipart form: title, description, suggested_cost,
// and an optional photo.
func (h *RewardHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	if err := r.ParseMultipartForm(upload.MaxBytes + 1024); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	suggestedCost, err := strconv.Atoi(r.FormValue("suggested_cost"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "suggested_cost must be a number")
		return
	}

	var photoPath string
	if _, fh, err := r.FormFile("photo"); err == nil {
		photoPath, err = h.uploads.Save(upload.CoupleDir(ac.CoupleID, "rewards"), fh)
		if err != nil {
			h.logger.Warn("save reward photo", "error", err)
			photoPath = ""
		}
	}

	reward, err := h.rewards.Suggest(ac, r.FormValue("title"), r.FormValue("description"), suggestedCost, photoPath)
	if err != nil {
		if photoPath != "" {
			h.uploads.Remove(photoPath)
		}
		writeServiceError(w, err)
		return
	}

	h.broadcast(ac.CoupleID, websocket.NewMessage("reward", "suggested", reward.ID, nil))

	writeJSON(w, http.StatusCreated, reward)
}

// Suggestions lists the actor's own suggestions, filtered by the status
// query parameter (default pending).
func (h *RewardHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	status := model.RewardStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = model.RewardPending
	}
	switch status {
	case model.RewardPending, model.RewardApproved, model.RewardRejected:
	default:
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	rewards, err := h.rewards.Suggestions(ac, status)
	if err != nil {
		h.logger.Error("list suggestions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

// Approvals lists the partner's pending suggestions awaiting the actor.
func (h *RewardHandler) Approvals(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	rewards, err := h.rewards.Approvals(ac)
	if err != nil {
		h.logger.Error("list approvals", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

type decideRequest struct {
	Action string `json:"action"`
	Cost   int    `json:"cost"`
}

func (h *RewardHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	reward, err := h.rewards.Decide(ac, id, service.DecideAction(req.Action), req.Cost)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.broadcast(ac.CoupleID, websocket.NewMessage("reward", string(reward.Status), id, nil))

	writeJSON(w, http.StatusOK, reward)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	reward, err := h.rewards.Delete(ac, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.uploads.Remove(reward.PhotoPath)
	h.broadcast(ac.CoupleID, websocket.NewMessage("reward", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

// Store lists the actor's redeemable rewards alongside their balance.
func (h *RewardHandler) Store(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	items, err := h.rewards.StoreItems(ac)
	if err != nil {
		h.logger.Error("list store items", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []model.Reward{}
	}

	balance, err := h.ledger.Balance(ac.UserID)
	if err != nil {
		h.logger.Error("get balance", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":   items,
		"balance": balance,
	})
}

func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	voucher, err := h.rewards.Redeem(ac, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.broadcast(ac.CoupleID, websocket.NewMessage("redemption", "created", voucher.ID, map[string]any{
		"reward_id": id,
		"cost":      voucher.Cost,
	}))

	writeJSON(w, http.StatusCreated, voucher)
}

func (h *RewardHandler) Vouchers(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	vouchers, err := h.rewards.Vouchers(ac)
	if err != nil {
		h.logger.Error("list vouchers", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if vouchers == nil {
		vouchers = []model.Voucher{}
	}
	writeJSON(w, http.StatusOK, vouchers)
}

// PartnerVouchers lists what the actor still owes their partner.
func (h *RewardHandler) PartnerVouchers(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	vouchers, err := h.rewards.PartnerVouchers(ac)
	if err != nil {
		h.logger.Error("list partner vouchers", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if vouchers == nil {
		vouchers = []model.Voucher{}
	}
	writeJSON(w, http.StatusOK, vouchers)
}

func (h *RewardHandler) UseVoucher(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	voucher, err := h.rewards.MarkVoucherUsed(ac, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.broadcast(ac.CoupleID, websocket.NewMessage("voucher", "used", id, nil))

	writeJSON(w, http.StatusOK, voucher)
}
