package model

import (
	"github.com/jsphweid/rhythmdex/rational"
)

type (
	SlotID  int
	ChordID int
	BeamID  int
	GroupID int
)

// Note is one head (or rest) instance within a chord. A head packed
// against two stems yields two notes sharing the same symbol.
type Note struct {
	Symbol int `json:"symbol"`
	Stem   int `json:"stem,omitempty"`
}

// Chord is a set of simultaneous notes sharing a stem, or a single
// stemless note or rest.
type Chord struct {
	ID    ChordID
	Slot  SlotID
	Stem  int
	Notes []Note

	// Whole chords (whole and multi-measure rests) live outside slots and
	// last for the whole measure.
	Whole bool

	Duration    rational.Rational
	HasDuration bool
	Start       rational.Rational
	HasStart    bool
	Voice       int

	Beams []BeamID
	Group GroupID

	// DuplicateOf is the chord this one was split from, 0 for originals.
	DuplicateOf ChordID
}

func (c *Chord) End() rational.Rational {
	return c.Start.Add(c.Duration)
}

func (c *Chord) IsRest(m *Measure) bool {
	if len(c.Notes) == 0 {
		return false
	}
	s := m.Symbol(c.Notes[0].Symbol)
	return s != nil && (s.Kind() == KindRest || s.Kind() == KindWholeRest)
}

// HasBeam reports whether b is attached to the chord.
func (c *Chord) HasBeam(b BeamID) bool {
	for _, id := range c.Beams {
		if id == b {
			return true
		}
	}
	return false
}

// Box is the union of the chord's note and stem boxes.
func (c *Chord) Box(m *Measure) Box {
	var box Box
	for _, n := range c.Notes {
		if s := m.Symbol(n.Symbol); s != nil {
			box = box.Union(s.Box)
		}
	}
	if s := m.Symbol(c.Stem); s != nil {
		box = box.Union(s.Box)
	}
	return box
}

// Head returns the center of the chord's first note, which the assembler
// keeps as the top-most one.
func (c *Chord) Head(m *Measure) Point {
	if len(c.Notes) == 0 {
		return Point{}
	}
	if s := m.Symbol(c.Notes[0].Symbol); s != nil {
		return s.Box.Center()
	}
	return Point{}
}

func (c *Chord) Staff(m *Measure) int {
	if len(c.Notes) == 0 {
		return 0
	}
	if s := m.Symbol(c.Notes[0].Symbol); s != nil {
		return s.Staff
	}
	return 0
}

// resetDerived clears everything the voice and duration passes compute.
func (c *Chord) resetDerived() {
	c.Duration = rational.Zero
	c.HasDuration = false
	c.Start = rational.Zero
	c.HasStart = false
	c.Voice = 0
}
