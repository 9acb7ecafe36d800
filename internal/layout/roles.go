package layout

import (
	"strconv"
	"strings"
)

// ChannelRole identifies the canonical spatial position of a single audio
// channel. Generic roles ("channel 1".."channel N") carry no spatial meaning
// and are synthesized when a layout cannot be resolved.
type ChannelRole string

const (
	FrontLeft          ChannelRole = "front left"
	FrontRight         ChannelRole = "front right"
	FrontCenter        ChannelRole = "front center"
	LowFrequency       ChannelRole = "low frequency"
	SideLeft           ChannelRole = "side left"
	SideRight          ChannelRole = "side right"
	BackLeft           ChannelRole = "back left"
	BackRight          ChannelRole = "back right"
	BackCenter         ChannelRole = "back center"
	FrontLeftOfCenter  ChannelRole = "front left of center"
	FrontRightOfCenter ChannelRole = "front right of center"
	TopFrontLeft       ChannelRole = "top front left"
	TopFrontRight      ChannelRole = "top front right"
	TopBackLeft        ChannelRole = "top back left"
	TopBackRight       ChannelRole = "top back right"
)

const genericPrefix = "channel "

// NamedRoles lists every spatial role the registry can emit, in a stable
// order. Generic roles are excluded.
func NamedRoles() []ChannelRole {
	return []ChannelRole{
		FrontLeft, FrontRight, FrontCenter, LowFrequency,
		SideLeft, SideRight, BackLeft, BackRight, BackCenter,
		FrontLeftOfCenter, FrontRightOfCenter,
		TopFrontLeft, TopFrontRight, TopBackLeft, TopBackRight,
	}
}

// GenericRole returns the positional role for a 1-based channel ordinal.
func GenericRole(ordinal int) ChannelRole {
	return ChannelRole(genericPrefix + strconv.Itoa(ordinal))
}

// IsGeneric reports whether the role is a synthesized positional role rather
// than a canonical spatial one.
func (r ChannelRole) IsGeneric() bool {
	return strings.HasPrefix(string(r), genericPrefix)
}

// FileSuffix returns the role name in a form safe for file names, e.g.
// "front_left" or "channel_3".
func (r ChannelRole) FileSuffix() string {
	return strings.ReplaceAll(string(r), " ", "_")
}

// ParseRole matches a role by name, accepting spaces, underscores, or dashes
// as separators. Returns false for unknown names.
func ParseRole(value string) (ChannelRole, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	cleaned = strings.ReplaceAll(cleaned, "_", " ")
	cleaned = strings.ReplaceAll(cleaned, "-", " ")
	for _, role := range NamedRoles() {
		if string(role) == cleaned {
			return role, true
		}
	}
	return "", false
}
