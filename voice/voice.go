package voice

import (
	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/rational"
	"github.com/jsphweid/rhythmdex/util"
)

// Assign walks the slots of m in abscissa order, sets slot offsets and
// chord start times, and gives every chord a voice. Previous voices and
// times are discarded first, so that running it again on the same
// structure yields the same result.
func Assign(m *model.Measure) {
	reset(m)

	var active []*model.Chord
	offset := rational.Zero
	for i, s := range m.Slots {
		if i > 0 {
			offset = offset.Add(shortest(m, m.Slots[i-1]))
		}
		s.Offset = offset
		s.HasOffset = true

		for _, cid := range s.Chords {
			c := m.Chord(cid)
			c.Start = offset
			c.HasStart = true
		}

		kept := active[:0]
		for _, c := range active {
			if offset.Less(c.End()) {
				kept = append(kept, c)
			}
		}
		active = kept
		for _, cid := range s.Chords {
			active = append(active, m.Chord(cid))
		}

		for _, cid := range s.Chords {
			c := m.Chord(cid)
			if c.Voice != 0 {
				continue
			}
			if g := m.Group(c.Group); g != nil && g.Voice != 0 {
				c.Voice = g.Voice
				if other := holder(active, c); other != nil {
					m.Advise(model.StructuralAnomaly,
						"chord #%d inherits voice %d already held by chord #%d",
						c.ID, c.Voice, other.ID)
				}
				continue
			}
			c.Voice = lowestFree(active)
			if g := m.Group(c.Group); g != nil {
				setGroupVoice(m, g, c.Voice)
			}
		}
	}

	assignWholeChords(m)
	alignInterleavedRests(m)
}

func reset(m *model.Measure) {
	for _, c := range m.Chords {
		c.Voice = 0
		c.Start = rational.Zero
		c.HasStart = false
	}
	for _, g := range m.Groups {
		g.Voice = 0
	}
	for _, s := range m.Slots {
		s.Offset = rational.Zero
		s.HasOffset = false
	}
}

// shortest is the smallest known chord duration of s, zero if none is known.
func shortest(m *model.Measure, s *model.Slot) rational.Rational {
	var min rational.Rational
	found := false
	for _, cid := range s.Chords {
		c := m.Chord(cid)
		if !c.HasDuration {
			continue
		}
		if !found || c.Duration.Less(min) {
			min = c.Duration
			found = true
		}
	}
	if !found {
		m.Advise(model.UndeterminedDuration, "slot #%d has no chord duration", s.ID)
	}
	return min
}

func lowestFree(active []*model.Chord) int {
	used := make(map[int]bool, len(active))
	for _, c := range active {
		used[c.Voice] = true
	}
	v := 1
	for used[v] {
		v++
	}
	return v
}

// holder returns another active chord holding the voice of c.
func holder(active []*model.Chord, c *model.Chord) *model.Chord {
	for _, o := range active {
		if o != c && o.Voice == c.Voice {
			return o
		}
	}
	return nil
}

// setGroupVoice fixes the voice of g and extends it to the group chords,
// including the rests interleaved between them.
func setGroupVoice(m *model.Measure, g *model.BeamGroup, v int) {
	if g.Voice != 0 {
		if g.Voice != v {
			m.Advise(model.StructuralAnomaly,
				"group #%d reassigned from voice %d to voice %d, keeping %d", g.ID, g.Voice, v, g.Voice)
		}
		return
	}
	g.Voice = v

	var prev *model.Chord
	for _, cid := range groupChords(m, g) {
		c := m.Chord(cid)
		if prev != nil {
			if rest := lookupRest(m, prev, c); rest != nil {
				setVoice(m, rest, v)
			}
		}
		setVoice(m, c, v)
		prev = c
	}
}

func setVoice(m *model.Measure, c *model.Chord, v int) {
	if c.Voice != 0 && c.Voice != v {
		m.Advise(model.StructuralAnomaly,
			"chord #%d reassigned from voice %d to voice %d, keeping %d", c.ID, c.Voice, v, c.Voice)
		return
	}
	c.Voice = v
}

// groupChords returns the chords of g in slot order.
func groupChords(m *model.Measure, g *model.BeamGroup) []model.ChordID {
	ids := m.GroupChords(g)
	sortBySlot(m, ids)
	return ids
}

// lookupRest finds a rest chord lying between left and right: in a slot
// strictly between theirs and vertically within their extent.
func lookupRest(m *model.Measure, left, right *model.Chord) *model.Chord {
	box := left.Box(m).Union(right.Box(m))
	for _, c := range m.Chords {
		if c == left || c == right || c.Whole || !c.IsRest(m) {
			continue
		}
		if c.Slot <= left.Slot || c.Slot >= right.Slot {
			continue
		}
		y := c.Head(m).Y
		if y >= box.Top() && y <= box.Bottom() {
			return c
		}
	}
	return nil
}

// alignInterleavedRests makes each rest found inside a voiced group start
// right where the preceding group chord ends.
func alignInterleavedRests(m *model.Measure) {
	for _, g := range m.Groups {
		if g.Voice == 0 {
			continue
		}
		var prev *model.Chord
		for _, cid := range groupChords(m, g) {
			c := m.Chord(cid)
			if prev != nil && prev.HasStart && prev.HasDuration {
				if rest := lookupRest(m, prev, c); rest != nil && rest.Voice == g.Voice {
					if start := prev.End(); start != rest.Start {
						logger.Debug("aligning interleaved rest",
							logger.Stringer("context", m.Context),
							logger.Int("chord", int(rest.ID)),
							logger.Stringer("from", rest.Start), logger.Stringer("to", start))
						rest.Start = start
					}
				}
			}
			prev = c
		}
	}
}

// assignWholeChords gives whole chords the lowest voice unused in the
// measure. They start at zero.
func assignWholeChords(m *model.Measure) {
	used := make(map[int]bool)
	for _, c := range m.Chords {
		if !c.Whole {
			used[c.Voice] = true
		}
	}
	for _, c := range m.WholeChords() {
		v := 1
		for used[v] {
			v++
		}
		c.Voice = v
		c.Start = rational.Zero
		c.HasStart = true
		used[v] = true
	}
}

func sortBySlot(m *model.Measure, ids []model.ChordID) {
	util.SortStableBy(ids, func(id model.ChordID) model.SlotID {
		return m.Chord(id).Slot
	})
}
