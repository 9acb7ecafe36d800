package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"stemsplit/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".cache", "stemsplit", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "stemsplit") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.FFprobe != "ffprobe" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Import.TimeoutSeconds != 300 || cfg.Import.Parallelism != 1 {
		t.Fatalf("unexpected import defaults: %+v", cfg.Import)
	}
	if !cfg.Import.History {
		t.Fatal("expected history enabled by default")
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stemsplit.toml")
	content := `
[paths]
staging_dir = "` + dir + `/staging"
output_dir = "` + dir + `/out"

[tools]
ffmpeg = "/opt/ffmpeg/bin/ffmpeg"

[import]
speaker_config = "SURROUND51"
parallelism = 4
timeout_seconds = 60
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("ffmpeg override lost: %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.FFprobe != "ffprobe" {
		t.Fatalf("ffprobe default lost: %q", cfg.Tools.FFprobe)
	}
	if cfg.Import.SpeakerConfig != "SURROUND51" || cfg.Import.Parallelism != 4 {
		t.Fatalf("import overrides lost: %+v", cfg.Import)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	content := `
[import]
timeout_seconds = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected zero timeout to be rejected")
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = "/var/log/stemsplit"
	cfg.Import.History = true
	if got := cfg.HistoryPath(); got != filepath.Join("/var/log/stemsplit", "history.db") {
		t.Fatalf("history path: %q", got)
	}

	cfg.Import.History = false
	if got := cfg.HistoryPath(); got != "" {
		t.Fatalf("disabled history path: %q", got)
	}

	cfg.Import.History = true
	cfg.Paths.LogDir = ""
	if got := cfg.HistoryPath(); got != "" {
		t.Fatalf("no log dir: %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/media/file.mkv")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(tempHome, "media", "file.mkv") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config must parse: exists=%v err=%v", exists, err)
	}
}
