package services_test

import (
	"errors"
	"testing"

	"stemsplit/internal/services"
)

func TestWrapTagsWithMarker(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "ffmpeg", "extract", "stderr output", cause)

	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	want := "external tool error: ffmpeg: extract: stderr output: exit status 1"
	if err.Error() != want {
		t.Fatalf("message:\n got %q\nwant %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "ffprobe", "inspect", "empty path", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("marker lost: %v", err)
	}
	if err.Error() != "validation error: ffprobe: inspect: empty path" {
		t.Fatalf("message: %q", err.Error())
	}
}

func TestWrapDefaults(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if err.Error() != "external tool error: service failure" {
		t.Fatalf("message: %q", err.Error())
	}
}
