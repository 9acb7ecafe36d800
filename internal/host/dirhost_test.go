package host_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"stemsplit/internal/host"
)

func writeClip(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	return path
}

func TestCreateAudioClipCopiesIntoOutput(t *testing.T) {
	staging := t.TempDir()
	output := t.TempDir()

	dirHost, err := host.NewDirHost(output, nil)
	if err != nil {
		t.Fatalf("NewDirHost: %v", err)
	}

	src := writeClip(t, staging, "abc-front_left.wav")
	handle, err := dirHost.CreateAudioClip(src, 1, 0)
	if err != nil {
		t.Fatalf("CreateAudioClip: %v", err)
	}
	if handle.Track != 1 {
		t.Fatalf("track: %d", handle.Track)
	}
	if handle.Path != filepath.Join(output, "abc-front_left.wav") {
		t.Fatalf("placed path: %q", handle.Path)
	}
	if _, err := os.Stat(handle.Path); err != nil {
		t.Fatalf("placed clip missing: %v", err)
	}

	// The source temporary stays; the executor owns its deletion.
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source clip removed: %v", err)
	}
}

func TestNextFreeTrackSlotAdvances(t *testing.T) {
	staging := t.TempDir()
	dirHost, err := host.NewDirHost(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewDirHost: %v", err)
	}

	if got := dirHost.NextFreeTrackSlot(); got != 1 {
		t.Fatalf("initial slot: %d", got)
	}

	src := writeClip(t, staging, "clip.wav")
	if _, err := dirHost.CreateAudioClip(src, 3, 0); err != nil {
		t.Fatalf("CreateAudioClip: %v", err)
	}
	if got := dirHost.NextFreeTrackSlot(); got != 4 {
		t.Fatalf("slot after placement on 3: %d", got)
	}
}

func TestSetClipPan(t *testing.T) {
	staging := t.TempDir()
	dirHost, err := host.NewDirHost(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewDirHost: %v", err)
	}

	src := writeClip(t, staging, "clip.wav")
	handle, err := dirHost.CreateAudioClip(src, 1, 0)
	if err != nil {
		t.Fatalf("CreateAudioClip: %v", err)
	}
	if err := dirHost.SetClipPan(handle, -1.2225); err != nil {
		t.Fatalf("SetClipPan: %v", err)
	}
	entries := dirHost.Entries()
	if len(entries) != 1 || entries[0].Pan != -1.2225 {
		t.Fatalf("pan not recorded: %+v", entries)
	}

	if err := dirHost.SetClipPan(host.ClipHandle{ID: "missing"}, 0); err == nil {
		t.Fatal("expected unknown clip to fail")
	}
}

func TestCreateVideoClipReferencesSource(t *testing.T) {
	media := writeClip(t, t.TempDir(), "movie.mkv")
	output := t.TempDir()
	dirHost, err := host.NewDirHost(output, nil)
	if err != nil {
		t.Fatalf("NewDirHost: %v", err)
	}

	handle, err := dirHost.CreateVideoClip(media, 1, 0)
	if err != nil {
		t.Fatalf("CreateVideoClip: %v", err)
	}
	if handle.Path != media {
		t.Fatalf("video must reference the source: %q", handle.Path)
	}
	if _, err := os.Stat(filepath.Join(output, "movie.mkv")); !os.IsNotExist(err) {
		t.Fatal("video bytes must not be copied")
	}

	if _, err := dirHost.CreateVideoClip(filepath.Join(output, "missing.mkv"), 2, 0); err == nil {
		t.Fatal("expected missing source to fail")
	}
}

func TestWriteManifest(t *testing.T) {
	staging := t.TempDir()
	output := t.TempDir()
	dirHost, err := host.NewDirHost(output, nil)
	if err != nil {
		t.Fatalf("NewDirHost: %v", err)
	}

	src := writeClip(t, staging, "abc-front_left.wav")
	handle, err := dirHost.CreateAudioClip(src, 2, 1.5)
	if err != nil {
		t.Fatalf("CreateAudioClip: %v", err)
	}
	if err := dirHost.SetClipPan(handle, -1.0); err != nil {
		t.Fatalf("SetClipPan: %v", err)
	}

	path, err := dirHost.WriteManifest()
	if err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if path != filepath.Join(output, "manifest.json") {
		t.Fatalf("manifest path: %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var entries []host.ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Kind != "audio" || entry.Track != 2 || entry.Start != 1.5 || entry.Pan != -1.0 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}
