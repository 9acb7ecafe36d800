package pan

import (
	"fmt"
	"strings"

	"stemsplit/internal/layout"
)

// SpeakerConfig enumerates the output speaker configurations the host can
// present. It describes the target of placement, never the source layout.
type SpeakerConfig string

const (
	Mono       SpeakerConfig = "MONO"
	Stereo     SpeakerConfig = "STEREO"
	Quad       SpeakerConfig = "QUAD"
	Surround51 SpeakerConfig = "SURROUND51"
	Surround71 SpeakerConfig = "SURROUND71"
)

// Pan coefficient bounds of the host's pan domain.
const (
	Min = -2.0
	Max = 2.0
)

// Configs lists the supported speaker configurations in widening order.
func Configs() []SpeakerConfig {
	return []SpeakerConfig{Mono, Stereo, Quad, Surround51, Surround71}
}

// ParseSpeakerConfig normalizes a host-supplied configuration name. Anything
// unrecognized resolves to Stereo; a deterministic default, not a failure.
func ParseSpeakerConfig(value string) SpeakerConfig {
	switch SpeakerConfig(strings.ToUpper(strings.TrimSpace(value))) {
	case Mono:
		return Mono
	case Quad:
		return Quad
	case Surround51:
		return Surround51
	case Surround71:
		return Surround71
	default:
		return Stereo
	}
}

// tables holds one constant pan value per (speaker config, role). Left roles
// are negative, right roles positive. Fronts pull toward center as the target
// widens; sides and backs push outward. The 5.1 side value of 1.2225 mirrors
// the conventional 110° surround speaker placement expressed in the host's
// pan units (azimuth / 90°).
var tables = map[SpeakerConfig]map[layout.ChannelRole]float64{
	Mono: {
		layout.FrontLeft: 0, layout.FrontRight: 0, layout.FrontCenter: 0,
		layout.LowFrequency: 0, layout.SideLeft: 0, layout.SideRight: 0,
		layout.BackLeft: 0, layout.BackRight: 0, layout.BackCenter: 0,
		layout.FrontLeftOfCenter: 0, layout.FrontRightOfCenter: 0,
		layout.TopFrontLeft: 0, layout.TopFrontRight: 0,
		layout.TopBackLeft: 0, layout.TopBackRight: 0,
	},
	Stereo: {
		layout.FrontLeft: -1.0, layout.FrontRight: 1.0, layout.FrontCenter: 0,
		layout.LowFrequency: 0, layout.SideLeft: -1.0, layout.SideRight: 1.0,
		layout.BackLeft: -1.0, layout.BackRight: 1.0, layout.BackCenter: 0,
		layout.FrontLeftOfCenter: -0.5, layout.FrontRightOfCenter: 0.5,
		layout.TopFrontLeft: -1.0, layout.TopFrontRight: 1.0,
		layout.TopBackLeft: -1.0, layout.TopBackRight: 1.0,
	},
	Quad: {
		layout.FrontLeft: -0.5, layout.FrontRight: 0.5, layout.FrontCenter: 0,
		layout.LowFrequency: 0, layout.SideLeft: -1.0, layout.SideRight: 1.0,
		layout.BackLeft: -1.5, layout.BackRight: 1.5, layout.BackCenter: 0,
		layout.FrontLeftOfCenter: -0.25, layout.FrontRightOfCenter: 0.25,
		layout.TopFrontLeft: -0.5, layout.TopFrontRight: 0.5,
		layout.TopBackLeft: -1.5, layout.TopBackRight: 1.5,
	},
	Surround51: {
		layout.FrontLeft: -0.3335, layout.FrontRight: 0.3335, layout.FrontCenter: 0,
		layout.LowFrequency: 0, layout.SideLeft: -1.2225, layout.SideRight: 1.2225,
		layout.BackLeft: -1.5, layout.BackRight: 1.5, layout.BackCenter: 0,
		layout.FrontLeftOfCenter: -0.1665, layout.FrontRightOfCenter: 0.1665,
		layout.TopFrontLeft: -0.3335, layout.TopFrontRight: 0.3335,
		layout.TopBackLeft: -1.5, layout.TopBackRight: 1.5,
	},
	Surround71: {
		layout.FrontLeft: -0.3335, layout.FrontRight: 0.3335, layout.FrontCenter: 0,
		layout.LowFrequency: 0, layout.SideLeft: -1.3335, layout.SideRight: 1.3335,
		layout.BackLeft: -1.6665, layout.BackRight: 1.6665, layout.BackCenter: 0,
		layout.FrontLeftOfCenter: -0.1665, layout.FrontRightOfCenter: 0.1665,
		layout.TopFrontLeft: -0.3335, layout.TopFrontRight: 0.3335,
		layout.TopBackLeft: -1.6665, layout.TopBackRight: 1.6665,
	},
}

// Resolve returns the pan coefficient for a role under the given target
// configuration. It is total: unrecognized configurations use the stereo
// table and roles without an entry (generic positional roles included) sit
// at center.
func Resolve(role layout.ChannelRole, config SpeakerConfig) float64 {
	table, ok := tables[config]
	if !ok {
		table = tables[Stereo]
	}
	value, ok := table[role]
	if !ok {
		return 0.0
	}
	return value
}

// DefaultOrdinalRoles is the fallback mapping from source channel position
// (0-based) to a pan role when the layout could not be resolved. The ordering
// follows the common 7.1 channel order; it is a preserved heuristic with no
// deeper rationale, and callers may override it per planner.
var DefaultOrdinalRoles = []layout.ChannelRole{
	layout.FrontLeft,
	layout.FrontRight,
	layout.FrontCenter,
	layout.LowFrequency,
	layout.BackLeft,
	layout.BackRight,
	layout.SideLeft,
	layout.SideRight,
}

// OrdinalRole maps a 0-based channel position to its default pan role.
// Positions beyond the table sit at front center.
func OrdinalRole(ordinal int) layout.ChannelRole {
	if ordinal < 0 || ordinal >= len(DefaultOrdinalRoles) {
		return layout.FrontCenter
	}
	return DefaultOrdinalRoles[ordinal]
}

// ValidateTables checks that every named role has a pan entry for every
// speaker configuration and that all values stay within the pan domain.
// Run from tests and the status command.
func ValidateTables() error {
	for _, config := range Configs() {
		table, ok := tables[config]
		if !ok {
			return fmt.Errorf("pan tables: missing table for %s", config)
		}
		for _, role := range layout.NamedRoles() {
			value, ok := table[role]
			if !ok {
				return fmt.Errorf("pan tables: %s has no entry for role %q", config, role)
			}
			if value < Min || value > Max {
				return fmt.Errorf("pan tables: %s role %q value %v outside [%v, %v]", config, role, value, Min, Max)
			}
		}
	}
	return nil
}
