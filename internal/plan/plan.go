package plan

import (
	"errors"
	"fmt"
	"log/slog"

	"stemsplit/internal/catalog"
	"stemsplit/internal/layout"
	"stemsplit/internal/logging"
	"stemsplit/internal/pan"
)

// Mode selects how the chosen stream is turned into clips.
type Mode string

const (
	// ModeSplit extracts each included channel as its own mono clip.
	ModeSplit Mode = "split"
	// ModeDownmix collapses the stream into a single mono clip. Also the
	// path taken for sources that are already mono (pass-through).
	ModeDownmix Mode = "downmix"
)

// ErrNoChannelsSelected is returned when split planning has nothing to do:
// no included channel, or a source that cannot be split.
var ErrNoChannelsSelected = errors.New("plan: no channels selected")

// Job describes one extraction producing one output clip. Jobs are consumed
// by the executor and discarded.
type Job struct {
	// AudioIndex is the source stream's 0-based audio-only index.
	AudioIndex int
	Role       layout.ChannelRole
	// Ordinal is the source channel to isolate for split jobs; -1 for
	// downmix and pass-through jobs.
	Ordinal int
	// ForceMono requests a channel-count conversion in the transcode
	// invocation. Split jobs isolate a channel instead and are inherently
	// mono; pass-through jobs leave the stream untouched.
	ForceMono bool
	Pan       float64
	// OutputName is the clip base-name hint; the executor allocates the
	// actual temporary path.
	OutputName string
	// Retain defers temp-file deletion to the host's own persistence.
	Retain bool
}

// Request carries everything the planner needs for one import.
type Request struct {
	Stream     catalog.StreamDescriptor
	Selections []catalog.ChannelSelection
	Mode       Mode
	// PanPreset is the role whose pan applies to a true downmix clip.
	// Empty defaults to front center.
	PanPreset layout.ChannelRole
	Speakers  pan.SpeakerConfig
	Retain    bool
}

// Option configures a Planner.
type Option func(*Planner)

// WithOrdinalRoles overrides the fallback channel-position-to-role mapping
// used to pan generically named channels.
func WithOrdinalRoles(mapping func(ordinal int) layout.ChannelRole) Option {
	return func(p *Planner) {
		if mapping != nil {
			p.ordinalRole = mapping
		}
	}
}

// Planner builds extraction job lists.
type Planner struct {
	resolver    *layout.Resolver
	log         *slog.Logger
	ordinalRole func(ordinal int) layout.ChannelRole
}

// NewPlanner constructs a Planner.
func NewPlanner(resolver *layout.Resolver, logger *slog.Logger, opts ...Option) *Planner {
	p := &Planner{
		resolver:    resolver,
		log:         logging.NewComponentLogger(logger, "plan"),
		ordinalRole: pan.OrdinalRole,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan produces the ordered job list for a request. Split planning succeeds
// for any resolvable or unresolvable layout; spatial correctness degrades to
// positional roles, availability does not.
func (p *Planner) Plan(req Request) ([]Job, error) {
	switch req.Mode {
	case ModeSplit:
		return p.planSplit(req)
	case ModeDownmix:
		return p.planDownmix(req)
	default:
		return nil, fmt.Errorf("plan: unknown mode %q", req.Mode)
	}
}

func (p *Planner) planSplit(req Request) ([]Job, error) {
	if req.Stream.Channels <= 1 {
		return nil, fmt.Errorf("%w: stream %d has %d channel(s), nothing to split",
			ErrNoChannelsSelected, req.Stream.AudioIndex, req.Stream.Channels)
	}

	included := make([]catalog.ChannelSelection, 0, len(req.Selections))
	for _, sel := range req.Selections {
		if sel.Included {
			included = append(included, sel)
		}
	}
	if len(included) == 0 {
		return nil, ErrNoChannelsSelected
	}

	roles := p.resolver.ResolveRoles(req.Stream.LayoutID, req.Stream.Channels)

	jobs := make([]Job, 0, len(included))
	for _, sel := range included {
		role := sel.Role
		if sel.Ordinal >= 0 && sel.Ordinal < len(roles) {
			role = roles[sel.Ordinal]
		}
		jobs = append(jobs, Job{
			AudioIndex: req.Stream.AudioIndex,
			Role:       role,
			Ordinal:    sel.Ordinal,
			Pan:        p.panFor(role, sel.Ordinal, req.Speakers),
			OutputName: role.FileSuffix(),
			Retain:     req.Retain,
		})
	}

	p.log.Debug("planned split",
		logging.Int("stream", req.Stream.AudioIndex),
		logging.Int("jobs", len(jobs)),
		logging.String("layout", req.Stream.LayoutID))
	return jobs, nil
}

func (p *Planner) planDownmix(req Request) ([]Job, error) {
	if req.Stream.Channels <= 0 {
		return nil, fmt.Errorf("plan: stream %d reports no channels", req.Stream.AudioIndex)
	}

	job := Job{
		AudioIndex: req.Stream.AudioIndex,
		Ordinal:    -1,
		Retain:     req.Retain,
	}

	if req.Stream.Channels == 1 {
		// Pass-through mono: no conversion requested, clip sits at center.
		job.Role = layout.FrontCenter
		job.Pan = pan.Resolve(layout.FrontCenter, req.Speakers)
		job.OutputName = "mono"
	} else {
		preset := req.PanPreset
		if preset == "" {
			preset = layout.FrontCenter
		}
		job.Role = preset
		job.ForceMono = true
		job.Pan = pan.Resolve(preset, req.Speakers)
		job.OutputName = "downmix"
	}

	p.log.Debug("planned downmix",
		logging.Int("stream", req.Stream.AudioIndex),
		logging.Bool("pass_through", req.Stream.Channels == 1))
	return []Job{job}, nil
}

// panFor resolves the pan coefficient for a role, falling back to the
// positional default mapping when the role is generic.
func (p *Planner) panFor(role layout.ChannelRole, ordinal int, speakers pan.SpeakerConfig) float64 {
	if role.IsGeneric() {
		return pan.Resolve(p.ordinalRole(ordinal), speakers)
	}
	return pan.Resolve(role, speakers)
}
