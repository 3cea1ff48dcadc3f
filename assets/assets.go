package assets

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// A reference longer than this is assumed to be inline image data even
// without a data: prefix; no stored path gets anywhere near this size.
const inlineLengthThreshold = 500

// Store is the binary asset capability the core consumes. Assets live under a
// namespace key (one per game) so a whole game's assets can be removed in one
// call. All failures are non-fatal for the callers: record mutations never
// abort because an asset operation failed.
type Store interface {
	Save(namespace string, data []byte, ext string) (string, error)
	Remove(ref string) error
	RemoveNamespace(namespace string) error
}

// DiskStore stores assets on the local filesystem under a root directory and
// hands out rooted URL-style references ("/uploads/...").
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Save(namespace string, data []byte, ext string) (string, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(namespace))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}
	name := fmt.Sprintf("item_%d_%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write asset: %w", err)
	}
	return "/" + filepath.ToSlash(filepath.Join(s.root, filepath.FromSlash(namespace), name)), nil
}

func (s *DiskStore) Remove(ref string) error {
	local, err := s.localPath(ref)
	if err != nil {
		return err
	}
	return os.Remove(local)
}

func (s *DiskStore) RemoveNamespace(namespace string) error {
	return os.RemoveAll(filepath.Join(s.root, filepath.FromSlash(namespace)))
}

func (s *DiskStore) localPath(ref string) (string, error) {
	trimmed := strings.TrimPrefix(ref, "/")
	clean := filepath.Clean(filepath.FromSlash(trimmed))
	prefix := filepath.Clean(s.root) + string(filepath.Separator)
	if !strings.HasPrefix(clean, prefix) {
		return "", fmt.Errorf("asset reference %q is outside the store", ref)
	}
	return clean, nil
}

// IsInline reports whether an image reference carries inline-encoded data
// rather than a stored path or URL.
func IsInline(ref string) bool {
	return strings.HasPrefix(ref, "data:") || len(ref) > inlineLengthThreshold
}

// Materialize converts an inline base64 image into stored-asset form and
// returns its reference. References that already look like stored paths pass
// through unchanged. On failure the error is returned for the caller to log;
// callers treat materialization as best-effort enrichment.
func Materialize(store Store, namespace, ref string) (string, error) {
	if ref == "" || !IsInline(ref) {
		return ref, nil
	}
	data, ext, err := decodeInline(ref)
	if err != nil {
		return "", err
	}
	return store.Save(namespace, data, ext)
}

// MaterializeOrLog is the best-effort form: on failure it logs and reports
// an empty reference, leaving the affected field unset.
func MaterializeOrLog(store Store, namespace, ref string) string {
	stored, err := Materialize(store, namespace, ref)
	if err != nil {
		log.Printf("Failed to materialize inline image for %s: %v", namespace, err)
		return ""
	}
	return stored
}

func decodeInline(ref string) ([]byte, string, error) {
	payload := ref
	ext := ".png"
	if meta, rest, found := strings.Cut(ref, ","); found && strings.HasPrefix(meta, "data:") {
		payload = rest
		ext = extFromDataURI(meta)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image data: %w", err)
	}
	return data, ext, nil
}

func extFromDataURI(meta string) string {
	mime := strings.TrimPrefix(meta, "data:")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	switch mime {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
