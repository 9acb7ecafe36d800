package layout

import (
	"log/slog"
	"strings"

	"stemsplit/internal/logging"
)

// Resolver turns prober-reported layout metadata into ordered role lists.
type Resolver struct {
	log *slog.Logger
}

// NewResolver constructs a Resolver. A nil logger discards diagnostics.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{log: logging.NewComponentLogger(logger, "layout")}
}

// ResolveRoles returns the ordered role list for the given layout identifier
// and channel count. The registry entry wins when its length matches the
// reported count. An unknown identifier or a count mismatch falls back to
// generic positional roles; both conditions are logged, never returned as
// errors, because missing layout metadata is routine in the wild.
func (r *Resolver) ResolveRoles(layoutID string, channelCount int) []ChannelRole {
	if channelCount <= 0 {
		return nil
	}

	trimmed := strings.TrimSpace(layoutID)
	if trimmed == "" {
		r.log.Debug("stream carries no layout identifier, using generic roles",
			logging.Int("channels", channelCount))
		return genericRoles(channelCount)
	}

	desc, ok := Lookup(trimmed)
	if !ok {
		r.log.Warn("unknown channel layout, using generic roles",
			logging.String("layout", trimmed),
			logging.Int("channels", channelCount))
		return genericRoles(channelCount)
	}

	if len(desc.Roles) != channelCount {
		r.log.Warn("channel layout does not match reported channel count, using generic roles",
			logging.String("layout", trimmed),
			logging.Int("layout_channels", len(desc.Roles)),
			logging.Int("reported_channels", channelCount))
		return genericRoles(channelCount)
	}

	return desc.Roles
}

func genericRoles(count int) []ChannelRole {
	roles := make([]ChannelRole, count)
	for i := range roles {
		roles[i] = GenericRole(i + 1)
	}
	return roles
}
