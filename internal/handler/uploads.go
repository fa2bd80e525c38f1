package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mfigueira/nossoapp/internal/auth"
	"github.com/mfigueira/nossoapp/internal/upload"
)

// UploadsHandler serves stored photos. Access is couple-scoped: a user
// can only fetch files under their own couple's directory, plus the
// shared profiles directory.
type UploadsHandler struct {
	uploads *upload.Manager
}

func NewUploadsHandler(uploads *upload.Manager) *UploadsHandler {
	return &UploadsHandler{uploads: uploads}
}

func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	relPath := r.PathValue("path")

	ownPrefix := fmt.Sprintf("couple_%d/", ac.CoupleID)
	if !strings.HasPrefix(relPath, "profiles/") && (ac.CoupleID == 0 || !strings.HasPrefix(relPath, ownPrefix)) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	abs, err := h.uploads.Resolve(relPath)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	http.ServeFile(w, r, abs)
}
