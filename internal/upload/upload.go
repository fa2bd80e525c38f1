package upload

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxBytes caps uploaded photos at 5 MB.
const MaxBytes = 5 << 20

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"heic": true,
	"heif": true,
	"bmp":  true,
	"tiff": true,
}

// Manager saves and removes photo files under a single upload root.
// Files are named by random identifiers with the original extension
// preserved; content is verified by magic-number sniffing, not just the
// extension.
type Manager struct {
	root   string
	logger *slog.Logger
}

func NewManager(root string, logger *slog.Logger) *Manager {
	return &Manager{root: root, logger: logger}
}

// Root returns the upload root directory.
func (m *Manager) Root() string {
	return m.root
}

// Save stores the uploaded photo under subdir and returns its path
// relative to the upload root.
func (m *Manager) Save(subdir string, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file type %q not allowed", ext)
	}
	if fh.Size > MaxBytes {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", fh.Size, MaxBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxBytes {
		return "", fmt.Errorf("file too large (max %d bytes)", MaxBytes)
	}

	// The extension is easy to fake; the content has to look like an
	// image too.
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("content is %s, not an image", mt.String())
	}

	dir := filepath.Join(m.root, filepath.FromSlash(subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%s.%s", strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return path.Join(subdir, name), nil
}

// Resolve maps a root-relative photo path to an absolute filesystem
// path, rejecting traversal outside the upload root.
func (m *Manager) Resolve(relPath string) (string, error) {
	clean := path.Clean("/" + relPath)
	if clean == "/" || strings.Contains(relPath, "..") {
		return "", fmt.Errorf("invalid upload path %q", relPath)
	}
	return filepath.Join(m.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Remove deletes a stored photo. Failures are logged, not returned:
// a missing photo file never blocks the owning operation.
func (m *Manager) Remove(relPath string) {
	if relPath == "" {
		return
	}
	abs, err := m.Resolve(relPath)
	if err != nil {
		m.logger.Warn("skip photo removal", "path", relPath, "error", err)
		return
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		m.logger.Warn("remove photo", "path", relPath, "error", err)
	}
}

// CoupleDir returns the root-relative directory for a couple's photos
// in the given category.
func CoupleDir(coupleID int64, category string) string {
	return fmt.Sprintf("couple_%d/%s", coupleID, category)
}
