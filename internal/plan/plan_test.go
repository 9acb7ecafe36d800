package plan_test

import (
	"errors"
	"testing"

	"stemsplit/internal/catalog"
	"stemsplit/internal/layout"
	"stemsplit/internal/pan"
	"stemsplit/internal/plan"
)

func newPlanner(opts ...plan.Option) *plan.Planner {
	return plan.NewPlanner(layout.NewResolver(nil), nil, opts...)
}

func surroundStream() catalog.StreamDescriptor {
	return catalog.StreamDescriptor{
		StreamIndex: 1,
		AudioIndex:  0,
		Codec:       "aac",
		SampleRate:  48000,
		Channels:    6,
		LayoutID:    "5.1",
	}
}

func fullSelection(stream catalog.StreamDescriptor) []catalog.ChannelSelection {
	resolver := layout.NewResolver(nil)
	roles := resolver.ResolveRoles(stream.LayoutID, stream.Channels)
	selections := make([]catalog.ChannelSelection, len(roles))
	for i, role := range roles {
		selections[i] = catalog.ChannelSelection{Role: role, Ordinal: i, Included: true}
	}
	return selections
}

func TestPlanSplitSurround(t *testing.T) {
	stream := surroundStream()
	jobs, err := newPlanner().Plan(plan.Request{
		Stream:     stream,
		Selections: fullSelection(stream),
		Mode:       plan.ModeSplit,
		Speakers:   pan.Surround51,
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(jobs) != 6 {
		t.Fatalf("expected 6 jobs, got %d", len(jobs))
	}

	wantRoles := []layout.ChannelRole{
		layout.FrontLeft, layout.FrontRight, layout.FrontCenter,
		layout.LowFrequency, layout.BackLeft, layout.BackRight,
	}
	for i, job := range jobs {
		if job.Role != wantRoles[i] {
			t.Fatalf("job %d: role %q want %q", i, job.Role, wantRoles[i])
		}
		if job.Ordinal != i {
			t.Fatalf("job %d: ordinal %d", i, job.Ordinal)
		}
		if job.ForceMono {
			t.Fatalf("job %d: split jobs never force mono", i)
		}
		if job.AudioIndex != 0 {
			t.Fatalf("job %d: audio index %d", i, job.AudioIndex)
		}
		if want := pan.Resolve(wantRoles[i], pan.Surround51); job.Pan != want {
			t.Fatalf("job %d: pan %v want %v", i, job.Pan, want)
		}
	}
	if jobs[4].Pan != -1.5 || jobs[5].Pan != 1.5 {
		t.Fatalf("back pair pans: %v, %v", jobs[4].Pan, jobs[5].Pan)
	}
	if jobs[0].OutputName != "front_left" {
		t.Fatalf("unexpected output name: %q", jobs[0].OutputName)
	}
}

func TestPlanSplitSideSurroundPans(t *testing.T) {
	stream := catalog.StreamDescriptor{AudioIndex: 0, Channels: 6, LayoutID: "5.1(side)"}
	jobs, err := newPlanner().Plan(plan.Request{
		Stream:     stream,
		Selections: fullSelection(stream),
		Mode:       plan.ModeSplit,
		Speakers:   pan.Surround51,
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if jobs[4].Role != layout.SideLeft || jobs[4].Pan != -1.2225 {
		t.Fatalf("side left: role=%q pan=%v", jobs[4].Role, jobs[4].Pan)
	}
	if jobs[5].Role != layout.SideRight || jobs[5].Pan != 1.2225 {
		t.Fatalf("side right: role=%q pan=%v", jobs[5].Role, jobs[5].Pan)
	}
}

func TestPlanSplitHonorsExclusions(t *testing.T) {
	stream := surroundStream()
	selections := fullSelection(stream)
	selections[2].Included = false // front center
	selections[3].Included = false // low frequency

	jobs, err := newPlanner().Plan(plan.Request{
		Stream:     stream,
		Selections: selections,
		Mode:       plan.ModeSplit,
		Speakers:   pan.Stereo,
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("expected 4 jobs, got %d", len(jobs))
	}
	for _, job := range jobs {
		if job.Role == layout.FrontCenter || job.Role == layout.LowFrequency {
			t.Fatalf("excluded channel was planned: %q", job.Role)
		}
	}
	if jobs[2].Ordinal != 4 || jobs[3].Ordinal != 5 {
		t.Fatalf("ordinals must track source positions: %d, %d", jobs[2].Ordinal, jobs[3].Ordinal)
	}
}

func TestPlanSplitRejectsMonoSource(t *testing.T) {
	stream := catalog.StreamDescriptor{AudioIndex: 0, Channels: 1, LayoutID: "mono"}
	_, err := newPlanner().Plan(plan.Request{
		Stream:     stream,
		Selections: fullSelection(stream),
		Mode:       plan.ModeSplit,
		Speakers:   pan.Stereo,
	})
	if !errors.Is(err, plan.ErrNoChannelsSelected) {
		t.Fatalf("expected ErrNoChannelsSelected, got %v", err)
	}
}

func TestPlanSplitRejectsEmptySelection(t *testing.T) {
	stream := surroundStream()
	selections := fullSelection(stream)
	for i := range selections {
		selections[i].Included = false
	}
	_, err := newPlanner().Plan(plan.Request{
		Stream:     stream,
		Selections: selections,
		Mode:       plan.ModeSplit,
		Speakers:   pan.Stereo,
	})
	if !errors.Is(err, plan.ErrNoChannelsSelected) {
		t.Fatalf("expected ErrNoChannelsSelected, got %v", err)
	}
}

func TestPlanSplitUnknownLayoutPansByPosition(t *testing.T) {
	stream := catalog.StreamDescriptor{AudioIndex: 2, Channels: 4, LayoutID: "ambisonic"}
	jobs, err := newPlanner().Plan(plan.Request{
		Stream:     stream,
		Selections: fullSelection(stream),
		Mode:       plan.ModeSplit,
		Speakers:   pan.Surround51,
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("expected 4 jobs, got %d", len(jobs))
	}
	for i, job := range jobs {
		if !job.Role.IsGeneric() {
			t.Fatalf("job %d: expected generic role, got %q", i, job.Role)
		}
		if want := pan.Resolve(pan.OrdinalRole(i), pan.Surround51); job.Pan != want {
			t.Fatalf("job %d: pan %v want positional %v", i, job.Pan, want)
		}
	}
	if jobs[0].Pan != -0.3335 {
		t.Fatalf("first positional pan: %v", jobs[0].Pan)
	}
}

func TestPlanSplitOrdinalOverride(t *testing.T) {
	stream := catalog.StreamDescriptor{AudioIndex: 0, Channels: 2, LayoutID: "unknown-layout"}
	planner := newPlanner(plan.WithOrdinalRoles(func(int) layout.ChannelRole {
		return layout.BackCenter
	}))

	jobs, err := planner.Plan(plan.Request{
		Stream:     stream,
		Selections: fullSelection(stream),
		Mode:       plan.ModeSplit,
		Speakers:   pan.Surround51,
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	for i, job := range jobs {
		if job.Pan != 0 {
			t.Fatalf("job %d: back center pans at 0, got %v", i, job.Pan)
		}
	}
}

func TestPlanDownmixMultichannel(t *testing.T) {
	stream := surroundStream()
	jobs, err := newPlanner().Plan(plan.Request{
		Stream:     stream,
		Selections: fullSelection(stream),
		Mode:       plan.ModeDownmix,
		PanPreset:  layout.FrontLeft,
		Speakers:   pan.Stereo,
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0]
	if !job.ForceMono {
		t.Fatal("downmix must force mono")
	}
	if job.Ordinal != -1 {
		t.Fatalf("downmix isolates no channel, ordinal %d", job.Ordinal)
	}
	if job.Role != layout.FrontLeft || job.Pan != -1.0 {
		t.Fatalf("preset not applied: role=%q pan=%v", job.Role, job.Pan)
	}
	if job.OutputName != "downmix" {
		t.Fatalf("unexpected output name: %q", job.OutputName)
	}
}

func TestPlanDownmixDefaultsToCenter(t *testing.T) {
	stream := surroundStream()
	jobs, err := newPlanner().Plan(plan.Request{
		Stream:     stream,
		Selections: fullSelection(stream),
		Mode:       plan.ModeDownmix,
		Speakers:   pan.Surround71,
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if jobs[0].Role != layout.FrontCenter || jobs[0].Pan != 0 {
		t.Fatalf("expected centered downmix, got role=%q pan=%v", jobs[0].Role, jobs[0].Pan)
	}
}

func TestPlanDownmixMonoPassesThrough(t *testing.T) {
	stream := catalog.StreamDescriptor{AudioIndex: 1, Channels: 1, LayoutID: "mono"}
	jobs, err := newPlanner().Plan(plan.Request{
		Stream:     stream,
		Selections: fullSelection(stream),
		Mode:       plan.ModeDownmix,
		PanPreset:  layout.BackLeft,
		Speakers:   pan.Surround51,
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	job := jobs[0]
	if job.ForceMono {
		t.Fatal("mono sources pass through without conversion")
	}
	if job.Role != layout.FrontCenter || job.Pan != 0 {
		t.Fatalf("pass-through must sit at center, got role=%q pan=%v", job.Role, job.Pan)
	}
	if job.OutputName != "mono" {
		t.Fatalf("unexpected output name: %q", job.OutputName)
	}
}

func TestPlanUnknownMode(t *testing.T) {
	if _, err := newPlanner().Plan(plan.Request{Mode: plan.Mode("remix")}); err == nil {
		t.Fatal("expected unknown mode to fail")
	}
}
