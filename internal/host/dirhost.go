package host

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"stemsplit/internal/fileutil"
	"stemsplit/internal/logging"
)

// ManifestEntry records one placed clip in the directory host's manifest.
type ManifestEntry struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Path  string  `json:"path"`
	Track int     `json:"track"`
	Start float64 `json:"start"`
	Pan   float64 `json:"pan"`
}

// DirHost places clips as files in an output directory and records their
// timeline placement in a JSON manifest. It stands in for a timeline editor
// when stemsplit runs standalone.
type DirHost struct {
	dir string
	log *slog.Logger

	mu      sync.Mutex
	entries []ManifestEntry
	nextTrk int
}

// NewDirHost creates the output directory and an empty host over it.
func NewDirHost(dir string, logger *slog.Logger) (*DirHost, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &DirHost{
		dir:     dir,
		log:     logging.NewComponentLogger(logger, "host"),
		nextTrk: 1,
	}, nil
}

// CreateAudioClip copies the clip into the output directory and records its
// placement.
func (h *DirHost) CreateAudioClip(path string, trackSlot int, startPosition float64) (ClipHandle, error) {
	dst := filepath.Join(h.dir, filepath.Base(path))
	if err := fileutil.CopyFile(path, dst); err != nil {
		return ClipHandle{}, fmt.Errorf("place audio clip: %w", err)
	}
	handle := ClipHandle{ID: uuid.NewString(), Track: trackSlot, Path: dst}
	h.record(ManifestEntry{ID: handle.ID, Kind: "audio", Path: dst, Track: trackSlot, Start: startPosition}, trackSlot)
	return handle, nil
}

// CreateVideoClip records a placement referencing the source media directly;
// video bytes are not copied.
func (h *DirHost) CreateVideoClip(path string, trackSlot int, startPosition float64) (ClipHandle, error) {
	if _, err := os.Stat(path); err != nil {
		return ClipHandle{}, fmt.Errorf("place video clip: %w", err)
	}
	handle := ClipHandle{ID: uuid.NewString(), Track: trackSlot, Path: path}
	h.record(ManifestEntry{ID: handle.ID, Kind: "video", Path: path, Track: trackSlot, Start: startPosition}, trackSlot)
	return handle, nil
}

// SetClipPan stores the pan coefficient on the matching manifest entry.
func (h *DirHost) SetClipPan(handle ClipHandle, coefficient float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		if h.entries[i].ID == handle.ID {
			h.entries[i].Pan = coefficient
			return nil
		}
	}
	return fmt.Errorf("set pan: unknown clip %s", handle.ID)
}

// NextFreeTrackSlot returns the first slot above every placement so far.
func (h *DirHost) NextFreeTrackSlot() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.nextTrk
}

func (h *DirHost) record(entry ManifestEntry, trackSlot int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	if trackSlot >= h.nextTrk {
		h.nextTrk = trackSlot + 1
	}
}

// Entries returns a copy of the manifest entries placed so far.
func (h *DirHost) Entries() []ManifestEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]ManifestEntry(nil), h.entries...)
}

// WriteManifest persists the placement manifest to manifest.json in the
// output directory.
func (h *DirHost) WriteManifest() (string, error) {
	h.mu.Lock()
	entries := append([]ManifestEntry(nil), h.entries...)
	h.mu.Unlock()

	path := filepath.Join(h.dir, "manifest.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	h.log.Info("manifest written", logging.String("path", path), logging.Int("clips", len(entries)))
	return path, nil
}
