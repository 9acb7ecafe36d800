package layout

import "sort"

// Descriptor pairs a layout identifier with its ordered channel roles.
type Descriptor struct {
	ID    string
	Roles []ChannelRole
}

// ChannelCount returns the nominal channel count of the layout.
func (d Descriptor) ChannelCount() int {
	return len(d.Roles)
}

// registry keys are the channel_layout strings ffprobe reports. Several
// identifiers describe the same physical arrangement under different names;
// both spellings are registered so older containers resolve too.
var registry = map[string][]ChannelRole{
	"mono":           {FrontCenter},
	"stereo":         {FrontLeft, FrontRight},
	"downmix":        {FrontLeft, FrontRight},
	"2.1":            {FrontLeft, FrontRight, LowFrequency},
	"3.0":            {FrontLeft, FrontRight, FrontCenter},
	"3.0(back)":      {FrontLeft, FrontRight, BackCenter},
	"3.1":            {FrontLeft, FrontRight, FrontCenter, LowFrequency},
	"4.0":            {FrontLeft, FrontRight, FrontCenter, BackCenter},
	"quad":           {FrontLeft, FrontRight, BackLeft, BackRight},
	"quad(side)":     {FrontLeft, FrontRight, SideLeft, SideRight},
	"4.1":            {FrontLeft, FrontRight, FrontCenter, LowFrequency, BackCenter},
	"5.0":            {FrontLeft, FrontRight, FrontCenter, BackLeft, BackRight},
	"5.0(side)":      {FrontLeft, FrontRight, FrontCenter, SideLeft, SideRight},
	"5.1":            {FrontLeft, FrontRight, FrontCenter, LowFrequency, BackLeft, BackRight},
	"5.1(side)":      {FrontLeft, FrontRight, FrontCenter, LowFrequency, SideLeft, SideRight},
	"6.0":            {FrontLeft, FrontRight, FrontCenter, BackCenter, SideLeft, SideRight},
	"6.0(front)":     {FrontLeft, FrontRight, FrontLeftOfCenter, FrontRightOfCenter, SideLeft, SideRight},
	"hexagonal":      {FrontLeft, FrontRight, FrontCenter, BackLeft, BackRight, BackCenter},
	"6.1":            {FrontLeft, FrontRight, FrontCenter, LowFrequency, BackCenter, SideLeft, SideRight},
	"7.0":            {FrontLeft, FrontRight, FrontCenter, BackLeft, BackRight, SideLeft, SideRight},
	"7.0(front)":     {FrontLeft, FrontRight, FrontCenter, FrontLeftOfCenter, FrontRightOfCenter, SideLeft, SideRight},
	"7.1":            {FrontLeft, FrontRight, FrontCenter, LowFrequency, BackLeft, BackRight, SideLeft, SideRight},
	"7.1(wide)":      {FrontLeft, FrontRight, FrontCenter, LowFrequency, BackLeft, BackRight, FrontLeftOfCenter, FrontRightOfCenter},
	"7.1(wide-side)": {FrontLeft, FrontRight, FrontCenter, LowFrequency, FrontLeftOfCenter, FrontRightOfCenter, SideLeft, SideRight},
	"octagonal":      {FrontLeft, FrontRight, FrontCenter, BackLeft, BackRight, BackCenter, SideLeft, SideRight},
	"5.1.2":          {FrontLeft, FrontRight, FrontCenter, LowFrequency, BackLeft, BackRight, TopFrontLeft, TopFrontRight},
	"7.1.2":          {FrontLeft, FrontRight, FrontCenter, LowFrequency, BackLeft, BackRight, SideLeft, SideRight, TopFrontLeft, TopFrontRight},
	"7.1.4":          {FrontLeft, FrontRight, FrontCenter, LowFrequency, BackLeft, BackRight, SideLeft, SideRight, TopFrontLeft, TopFrontRight, TopBackLeft, TopBackRight},
}

// Lookup returns the registered descriptor for a layout identifier.
func Lookup(layoutID string) (Descriptor, bool) {
	roles, ok := registry[layoutID]
	if !ok {
		return Descriptor{}, false
	}
	return Descriptor{ID: layoutID, Roles: append([]ChannelRole(nil), roles...)}, true
}

// All returns every registered descriptor sorted by channel count, then ID.
func All() []Descriptor {
	result := make([]Descriptor, 0, len(registry))
	for id := range registry {
		desc, _ := Lookup(id)
		result = append(result, desc)
	}
	sort.Slice(result, func(i, j int) bool {
		if len(result[i].Roles) != len(result[j].Roles) {
			return len(result[i].Roles) < len(result[j].Roles)
		}
		return result[i].ID < result[j].ID
	})
	return result
}
