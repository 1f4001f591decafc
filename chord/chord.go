package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/rhythmdex/constants"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/rational"
)

// DefaultPitch is used for heads the recognition stage left unpitched.
const DefaultPitch = 60

var baseDurations = map[model.Shape]rational.Rational{
	model.WholeNote:     rational.One,
	model.NoteheadVoid:  rational.Half,
	model.NoteheadBlack: rational.Quarter,
	model.HalfRest:      rational.Half,
	model.QuarterRest:   rational.Quarter,
	model.EighthRest:    rational.Eighth,
	model.Rest16th:      rational.New(1, 16),
	model.Rest32nd:      rational.New(1, 32),
}

// Duration computes the notated duration of c. Whole chords, chords with an
// unknown head shape and chords with implausibly many dots or flags are
// undetermined.
func Duration(m *model.Measure, c *model.Chord) (rational.Rational, bool) {
	if c.Whole || len(c.Notes) == 0 {
		return rational.Zero, false
	}
	head := m.Symbol(c.Notes[0].Symbol)
	if head == nil {
		return rational.Zero, false
	}
	d, ok := baseDurations[head.Shape]
	if !ok {
		return rational.Zero, false
	}

	if head.Shape == model.NoteheadBlack {
		flags := 0
		if stem := m.Symbol(c.Stem); stem != nil {
			flags = stem.Flags
		}
		if len(c.Beams)+flags > constants.MaxFlags {
			return rational.Zero, false
		}
		for i := 0; i < len(c.Beams)+flags; i++ {
			d = d.DivInt(2)
		}
	}

	dots := 0
	for _, n := range c.Notes {
		if s := m.Symbol(n.Symbol); s != nil && s.Dots > dots {
			dots = s.Dots
		}
	}
	if dots > constants.MaxDots {
		return rational.Zero, false
	}
	if dots > 0 {
		// d * (2 - 1/2^dots)
		factor := rational.New(1, 1<<dots)
		d = d.Mul(rational.New(2, 1).Sub(factor))
	}
	return d, true
}

// ComputeDurations sets the duration of every chord of m. It returns the
// number of chords left undetermined, whole chords excluded.
func ComputeDurations(m *model.Measure) int {
	undetermined := 0
	for _, c := range m.Chords {
		c.Duration, c.HasDuration = Duration(m, c)
		if !c.HasDuration && !c.Whole {
			undetermined++
			m.Advise(model.UndeterminedDuration, "no duration for chord #%d", c.ID)
		}
	}
	return undetermined
}

// Pitches returns the MIDI keys of the chord heads, lowest first. Rests
// have none.
func Pitches(m *model.Measure, c *model.Chord) []uint8 {
	if c.IsRest(m) {
		return nil
	}
	var notes []uint8
	for _, n := range c.Notes {
		s := m.Symbol(n.Symbol)
		if s == nil {
			continue
		}
		pitch := s.Pitch
		if pitch <= 0 || pitch > 127 {
			pitch = DefaultPitch
		}
		notes = append(notes, uint8(pitch))
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i] < notes[j]
	})
	return notes
}

// Key is a printable identity of the chord pitches, like "60-64-67".
func Key(notes []uint8) string {
	var res string
	for i, note := range notes {
		res += fmt.Sprintf("%v", note)
		if i < len(notes)-1 {
			res += "-"
		}
	}
	return res
}
