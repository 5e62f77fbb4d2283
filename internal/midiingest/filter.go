package midiingest

// FilterSpec selects which tracks and channels survive ingestion (spec
// §4.3.1). Include and exclude are mutually exclusive per axis; this is
// enforced by internal/config before a FilterSpec is built, not here.
type FilterSpec struct {
	IncludeTracks   []uint
	ExcludeTracks   []uint
	IncludeChannels []uint8
	ExcludeChannels []uint8
	AllowChannel10  bool
}

// Apply returns a new Music containing only the PlayNote events that
// pass the track and channel filters, plus every TimingChange
// unconditionally (a tempo or time-signature change isn't attributable
// to one track or channel, so it's never filtered). Channel 10 (the
// percussion channel in General MIDI) is suppressed unless
// AllowChannel10 is set or 10 is named in IncludeChannels.
func (f FilterSpec) Apply(m Music) Music {
	includeTracks := toSet(f.IncludeTracks)
	excludeTracks := toSet(f.ExcludeTracks)
	includeChannels := toSet8(f.IncludeChannels)
	excludeChannels := toSet8(f.ExcludeChannels)

	out := Music{
		DivisionTicksPerQuarterNote: m.DivisionTicksPerQuarterNote,
		Events:                      make([]MusicalEvent, 0, len(m.Events)),
	}

	for _, event := range m.Events {
		if event.Kind != EventPlayNote {
			out.Events = append(out.Events, event)
			continue
		}
		if f.keep(event.Note, includeTracks, excludeTracks, includeChannels, excludeChannels) {
			out.Events = append(out.Events, event)
		}
	}
	return out
}

func (f FilterSpec) keep(n Note, includeTracks, excludeTracks map[uint]struct{}, includeChannels, excludeChannels map[uint8]struct{}) bool {
	if n.Channel == 10 && !f.AllowChannel10 {
		_, explicitlyIncluded := includeChannels[10]
		if !explicitlyIncluded {
			return false
		}
	}
	if len(includeTracks) > 0 {
		if _, ok := includeTracks[n.Track]; !ok {
			return false
		}
	} else if len(excludeTracks) > 0 {
		if _, ok := excludeTracks[n.Track]; ok {
			return false
		}
	}
	if len(includeChannels) > 0 {
		if _, ok := includeChannels[n.Channel]; !ok {
			return false
		}
	} else if len(excludeChannels) > 0 {
		if _, ok := excludeChannels[n.Channel]; ok {
			return false
		}
	}
	return true
}

func toSet(vals []uint) map[uint]struct{} {
	if len(vals) == 0 {
		return nil
	}
	s := make(map[uint]struct{}, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func toSet8(vals []uint8) map[uint8]struct{} {
	if len(vals) == 0 {
		return nil
	}
	s := make(map[uint8]struct{}, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}
