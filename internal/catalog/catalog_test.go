package catalog_test

import (
	"context"
	"errors"
	"testing"

	"stemsplit/internal/catalog"
	"stemsplit/internal/layout"
	"stemsplit/internal/services/ffprobe"
)

type fakeProber struct {
	result ffprobe.Result
	err    error
	calls  int
}

func (f *fakeProber) Inspect(ctx context.Context, path string) (ffprobe.Result, error) {
	f.calls++
	return f.result, f.err
}

func surroundResult() ffprobe.Result {
	return ffprobe.Result{Streams: []ffprobe.Stream{
		{Index: 0, CodecType: "video", CodecName: "h264"},
		{Index: 1, CodecType: "audio", CodecName: "aac", SampleRate: "48000", Channels: 6, ChannelLayout: "5.1",
			Tags: map[string]string{"language": "eng", "title": "Surround"}},
		{Index: 2, CodecType: "audio", CodecName: "ac3", SampleRate: "44100", Channels: 2, ChannelLayout: "stereo"},
	}}
}

func newCatalog(prober catalog.Prober) *catalog.Catalog {
	return catalog.New(prober, layout.NewResolver(nil), nil)
}

func TestScanBuildsDescriptors(t *testing.T) {
	cat := newCatalog(&fakeProber{result: surroundResult()})

	streams, err := cat.Scan(context.Background(), "/media/movie.mkv")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("expected 2 audio streams, got %d", len(streams))
	}

	first := streams[0]
	if first.StreamIndex != 1 || first.AudioIndex != 0 {
		t.Fatalf("unexpected indices: stream=%d audio=%d", first.StreamIndex, first.AudioIndex)
	}
	if first.Codec != "aac" || first.SampleRate != 48000 || first.Channels != 6 {
		t.Fatalf("unexpected descriptor: %+v", first)
	}
	if first.LayoutID != "5.1" || first.Language != "eng" || first.Title != "Surround" {
		t.Fatalf("unexpected metadata: %+v", first)
	}
	if streams[1].AudioIndex != 1 || streams[1].StreamIndex != 2 {
		t.Fatalf("unexpected second stream: %+v", streams[1])
	}
	if !cat.HasVideo() {
		t.Fatal("expected video stream to be detected")
	}
	if cat.MediaPath() != "/media/movie.mkv" {
		t.Fatalf("unexpected media path: %q", cat.MediaPath())
	}
}

func TestScanWithoutAudioSucceedsEmpty(t *testing.T) {
	cat := newCatalog(&fakeProber{result: ffprobe.Result{Streams: []ffprobe.Stream{
		{Index: 0, CodecType: "video", CodecName: "h264"},
	}}})

	streams, err := cat.Scan(context.Background(), "/media/silent.mkv")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(streams) != 0 {
		t.Fatalf("expected no audio streams, got %d", len(streams))
	}
}

func TestScanProbeFailureLeavesCatalogEmpty(t *testing.T) {
	prober := &fakeProber{result: surroundResult()}
	cat := newCatalog(prober)

	if _, err := cat.Scan(context.Background(), "/media/movie.mkv"); err != nil {
		t.Fatalf("initial scan: %v", err)
	}
	if _, err := cat.SelectStream(0); err != nil {
		t.Fatalf("select: %v", err)
	}

	prober.err = errors.New("boom")
	_, err := cat.Scan(context.Background(), "/media/broken.mkv")
	if err == nil {
		t.Fatal("expected probe failure")
	}
	var probeErr *catalog.ProbeError
	if !errors.As(err, &probeErr) {
		t.Fatalf("expected ProbeError, got %T: %v", err, err)
	}
	if probeErr.Path != "/media/broken.mkv" {
		t.Fatalf("unexpected path in error: %q", probeErr.Path)
	}

	if streams := cat.Streams(); len(streams) != 0 {
		t.Fatalf("stale streams survived a failed scan: %d", len(streams))
	}
	if selections := cat.Selections(); len(selections) != 0 {
		t.Fatalf("stale selection survived a failed scan: %d", len(selections))
	}
	if _, err := cat.SelectedStream(); !errors.Is(err, catalog.ErrNoStreamSelected) {
		t.Fatalf("expected ErrNoStreamSelected, got %v", err)
	}
}

func TestSelectStreamDerivesSelection(t *testing.T) {
	cat := newCatalog(&fakeProber{result: surroundResult()})
	if _, err := cat.Scan(context.Background(), "/media/movie.mkv"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	selections, err := cat.SelectStream(0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(selections) != 6 {
		t.Fatalf("expected 6 selections, got %d", len(selections))
	}
	for i, sel := range selections {
		if sel.Ordinal != i || !sel.Included {
			t.Fatalf("selection %d: %+v", i, sel)
		}
	}
	if selections[0].Role != layout.FrontLeft || selections[5].Role != layout.BackRight {
		t.Fatalf("unexpected roles: %+v", selections)
	}

	if _, err := cat.SelectStream(5); err == nil {
		t.Fatal("expected out-of-range selection to fail")
	}
}

func TestReselectingStreamResetsExclusions(t *testing.T) {
	cat := newCatalog(&fakeProber{result: surroundResult()})
	if _, err := cat.Scan(context.Background(), "/media/movie.mkv"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := cat.SelectStream(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := cat.SetIncluded(3, false); err != nil {
		t.Fatalf("exclude: %v", err)
	}
	if cat.Selections()[3].Included {
		t.Fatal("exclusion did not stick")
	}

	if _, err := cat.SelectStream(0); err != nil {
		t.Fatalf("re-select: %v", err)
	}
	if !cat.Selections()[3].Included {
		t.Fatal("re-selection must rebuild a fully included list")
	}
}

func TestSetIncludedValidation(t *testing.T) {
	cat := newCatalog(&fakeProber{result: surroundResult()})
	if err := cat.SetIncluded(0, false); !errors.Is(err, catalog.ErrNoStreamSelected) {
		t.Fatalf("expected ErrNoStreamSelected, got %v", err)
	}

	if _, err := cat.Scan(context.Background(), "/media/movie.mkv"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := cat.SelectStream(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := cat.SetIncluded(6, false); err == nil {
		t.Fatal("expected out-of-range ordinal to fail")
	}
}

func TestBeginOperationRejectsConcurrentClaims(t *testing.T) {
	cat := newCatalog(&fakeProber{result: surroundResult()})

	release, err := cat.BeginOperation()
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := cat.BeginOperation(); !errors.Is(err, catalog.ErrOperationInFlight) {
		t.Fatalf("expected ErrOperationInFlight, got %v", err)
	}
	if _, err := cat.Scan(context.Background(), "/media/movie.mkv"); !errors.Is(err, catalog.ErrOperationInFlight) {
		t.Fatalf("scan during operation: expected ErrOperationInFlight, got %v", err)
	}

	release()
	if _, err := cat.Scan(context.Background(), "/media/movie.mkv"); err != nil {
		t.Fatalf("scan after release: %v", err)
	}
}
