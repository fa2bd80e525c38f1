package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/service"
	"github.com/mfigueira/nossoapp/internal/store"
	"github.com/mfigueira/nossoapp/internal/upload"
)

// ProfileHandler serves display customization: color, emoji, and photo.
type ProfileHandler struct {
	identity *service.Identity
	users    *store.UserStore
	uploads  *upload.Manager
	logger   *slog.Logger
}

func NewProfileHandler(identity *service.Identity, us *store.UserStore, uploads *upload.Manager, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{identity: identity, users: us, uploads: uploads, logger: logger}
}

type profileRequest struct {
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.identity.UpdateProfile(ac.UserID, req.Color, req.Emoji)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Photo replaces the user's profile photo. The old file is removed
// after the new path is persisted.
func (h *ProfileHandler) Photo(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	if err := r.ParseMultipartForm(upload.MaxBytes + 1024); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	_, fh, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo is required")
		return
	}

	user, err := h.users.GetByID(ac.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	oldPath := user.PhotoPath

	photoPath, err := h.uploads.Save("profiles", fh)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.SetPhotoPath(ac.UserID, photoPath); err != nil {
		h.uploads.Remove(photoPath)
		h.logger.Error("set photo path", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if oldPath != "" && oldPath != photoPath {
		h.uploads.Remove(oldPath)
	}

	user.PhotoPath = photoPath
	writeJSON(w, http.StatusOK, user)
}
