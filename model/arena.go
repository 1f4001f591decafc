package model

import (
	"sort"

	"github.com/jsphweid/rhythmdex/rational"
	"github.com/jsphweid/rhythmdex/util"
)

// Slot is a time instant of a measure, clustering aligned symbols.
type Slot struct {
	ID        SlotID
	Symbols   []int
	Chords    []ChordID
	Offset    rational.Rational
	HasOffset bool

	x      float64
	xValid bool
}

// AddSymbol adds a member and invalidates the cached abscissa.
func (s *Slot) AddSymbol(id int) {
	s.Symbols = append(s.Symbols, id)
	s.xValid = false
}

// X is the mean abscissa of the slot members, computed lazily.
func (s *Slot) X(m *Measure) float64 {
	if !s.xValid {
		xs := make([]float64, 0, len(s.Symbols))
		for _, id := range s.Symbols {
			if sym := m.Symbol(id); sym != nil {
				xs = append(xs, sym.Box.Center().X)
			}
		}
		s.x, _ = util.Mean(xs)
		s.xValid = true
	}
	return s.x
}

// Beam is one beam stroke.
type Beam struct {
	ID      BeamID
	Symbols []int
	Points  []Point
	Line    Line
	Left    Point
	Right   Point
	Chords  []ChordID
	Group   GroupID
}

// Extend adds a stroke slice to the beam and refits its line.
func (b *Beam) Extend(symbol int, points []Point) {
	b.Symbols = append(b.Symbols, symbol)
	b.Points = append(b.Points, points...)
	b.Line = FitLine(b.Points)
	left, right := b.Points[0].X, b.Points[0].X
	for _, p := range b.Points {
		left = util.Min(left, p.X)
		right = util.Max(right, p.X)
	}
	b.Left = Point{X: left, Y: b.Line.YAt(left)}
	b.Right = Point{X: right, Y: b.Line.YAt(right)}
}

func (b *Beam) HasChord(c ChordID) bool {
	return util.Contains(b.Chords, c)
}

// BeamGroup is a set of beams transitively connected through chords.
// Beams are ordered by nesting level, level 1 first.
type BeamGroup struct {
	ID    GroupID
	Beams []BeamID
	Voice int
}

// Level returns the 1-based nesting level of b, or 0 if b is not in g.
func (g *BeamGroup) Level(b BeamID) int {
	for i, id := range g.Beams {
		if id == b {
			return i + 1
		}
	}
	return 0
}

// Arena owns the entities of one measure. Ids are 1-based indexes.
type Arena struct {
	Slots  []*Slot
	Chords []*Chord
	Beams  []*Beam
	Groups []*BeamGroup
}

func (a *Arena) NewSlot() *Slot {
	s := &Slot{ID: SlotID(len(a.Slots) + 1)}
	a.Slots = append(a.Slots, s)
	return s
}

func (a *Arena) NewChord(slot SlotID) *Chord {
	c := &Chord{ID: ChordID(len(a.Chords) + 1), Slot: slot}
	a.Chords = append(a.Chords, c)
	if s := a.Slot(slot); s != nil {
		s.Chords = append(s.Chords, c.ID)
	}
	return c
}

func (a *Arena) NewBeam() *Beam {
	b := &Beam{ID: BeamID(len(a.Beams) + 1)}
	a.Beams = append(a.Beams, b)
	return b
}

func (a *Arena) NewGroup() *BeamGroup {
	g := &BeamGroup{ID: GroupID(len(a.Groups) + 1)}
	a.Groups = append(a.Groups, g)
	return g
}

func (a *Arena) Slot(id SlotID) *Slot {
	if id <= 0 || int(id) > len(a.Slots) {
		return nil
	}
	return a.Slots[id-1]
}

func (a *Arena) Chord(id ChordID) *Chord {
	if id <= 0 || int(id) > len(a.Chords) {
		return nil
	}
	return a.Chords[id-1]
}

func (a *Arena) Beam(id BeamID) *Beam {
	if id <= 0 || int(id) > len(a.Beams) {
		return nil
	}
	return a.Beams[id-1]
}

func (a *Arena) Group(id GroupID) *BeamGroup {
	if id <= 0 || int(id) > len(a.Groups) {
		return nil
	}
	return a.Groups[id-1]
}

// DuplicateChord creates a new chord with copied notes, stem and slot and
// no beams. The caller moves beams to it.
func (a *Arena) DuplicateChord(orig *Chord) *Chord {
	dup := a.NewChord(orig.Slot)
	dup.Stem = orig.Stem
	dup.Notes = append([]Note(nil), orig.Notes...)
	dup.Whole = orig.Whole
	dup.DuplicateOf = orig.ID
	return dup
}

// GroupChords returns the distinct chords of g's beams, in beam order then
// beam chord order.
func (a *Arena) GroupChords(g *BeamGroup) []ChordID {
	var res []ChordID
	for _, bid := range g.Beams {
		for _, cid := range a.Beam(bid).Chords {
			if !util.Contains(res, cid) {
				res = append(res, cid)
			}
		}
	}
	return res
}

// WholeChords returns the chords living outside slots.
func (a *Arena) WholeChords() []*Chord {
	var res []*Chord
	for _, c := range a.Chords {
		if c.Whole {
			res = append(res, c)
		}
	}
	return res
}

// ResetChords drops chords, beams and groups, keeping slot membership.
func (a *Arena) ResetChords() {
	a.Chords = nil
	a.Beams = nil
	a.Groups = nil
	for _, s := range a.Slots {
		s.Chords = nil
		s.Offset = rational.Zero
		s.HasOffset = false
	}
}

// ResetDerived clears durations, times and voices so that the duration and
// voice passes can run again from scratch.
func (a *Arena) ResetDerived() {
	for _, c := range a.Chords {
		c.resetDerived()
	}
	for _, g := range a.Groups {
		g.Voice = 0
	}
	for _, s := range a.Slots {
		s.Offset = rational.Zero
		s.HasOffset = false
	}
}

// Renumber sorts slots with less and reassigns slot ids, fixing chord
// back references.
func (a *Arena) Renumber(less func(s1, s2 *Slot) bool) {
	sort.SliceStable(a.Slots, func(i, j int) bool {
		return less(a.Slots[i], a.Slots[j])
	})
	remap := make(map[SlotID]SlotID, len(a.Slots))
	for i, s := range a.Slots {
		remap[s.ID] = SlotID(i + 1)
		s.ID = SlotID(i + 1)
	}
	for _, c := range a.Chords {
		if c.Slot != 0 {
			c.Slot = remap[c.Slot]
		}
	}
}

// Append moves every entity of o into a, shifting ids and time offsets.
func (a *Arena) Append(o *Arena, shift rational.Rational) {
	slotBase := SlotID(len(a.Slots))
	chordBase := ChordID(len(a.Chords))
	beamBase := BeamID(len(a.Beams))
	groupBase := GroupID(len(a.Groups))

	for _, s := range o.Slots {
		s.ID += slotBase
		for i := range s.Chords {
			s.Chords[i] += chordBase
		}
		if s.HasOffset {
			s.Offset = s.Offset.Add(shift)
		}
		a.Slots = append(a.Slots, s)
	}
	for _, c := range o.Chords {
		c.ID += chordBase
		if c.Slot != 0 {
			c.Slot += slotBase
		}
		if c.DuplicateOf != 0 {
			c.DuplicateOf += chordBase
		}
		for i := range c.Beams {
			c.Beams[i] += beamBase
		}
		if c.Group != 0 {
			c.Group += groupBase
		}
		if c.HasStart {
			c.Start = c.Start.Add(shift)
		}
		a.Chords = append(a.Chords, c)
	}
	for _, b := range o.Beams {
		b.ID += beamBase
		for i := range b.Chords {
			b.Chords[i] += chordBase
		}
		if b.Group != 0 {
			b.Group += groupBase
		}
		a.Beams = append(a.Beams, b)
	}
	for _, g := range o.Groups {
		g.ID += groupBase
		for i := range g.Beams {
			g.Beams[i] += beamBase
		}
		a.Groups = append(a.Groups, g)
	}
	*o = Arena{}
}
