package slot

import (
	"sort"

	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/util"
)

// Build clusters the time-relevant symbols of m into slots by abscissa.
// Any previous slot, chord or beam of the measure is discarded.
func Build(m *model.Measure, sc model.Scale, p config.Params) {
	m.Arena = model.Arena{}
	maxDx := sc.ToUnits(p.MaxSlotDx)

	for i := range m.Symbols {
		sym := &m.Symbols[i]
		switch sym.Kind() {
		case model.KindNote, model.KindRest:
			populate(m, sym, maxDx)
		case model.KindWholeRest, model.KindStem, model.KindBeam, model.KindBarline, model.KindOther:
			// not slot members
		}
	}

	sortSlots(m)
}

func populate(m *model.Measure, sym *model.Symbol, maxDx float64) {
	x := sym.Box.Center().X
	for _, s := range m.Slots {
		if util.Abs(s.X(m)-x) <= maxDx {
			s.AddSymbol(sym.ID)
			return
		}
	}
	m.NewSlot().AddSymbol(sym.ID)
}

func sortSlots(m *model.Measure) {
	m.Renumber(func(s1, s2 *model.Slot) bool {
		return s1.X(m) < s2.X(m)
	})
}

// AssembleChords rebuilds every chord of m from slot membership: one chord
// per distinct stem, a singleton chord per stemless symbol, and one whole
// chord per whole or multi-measure rest.
func AssembleChords(m *model.Measure) {
	m.ResetChords()

	for _, s := range m.Slots {
		for _, id := range s.Symbols {
			sym := m.Symbol(id)
			stems := sym.Stems()
			if len(stems) == 0 {
				c := m.NewChord(s.ID)
				c.Notes = append(c.Notes, model.Note{Symbol: id})
				continue
			}
			// a head packed against two stems yields one note per chord
			for _, stem := range stems {
				c := stemChord(m, s, stem)
				c.Notes = append(c.Notes, model.Note{Symbol: id, Stem: stem})
			}
		}
		for _, cid := range s.Chords {
			sortNotes(m, m.Chord(cid))
		}
		SortChords(m, s.Chords)
	}

	for _, id := range m.SymbolsOf(model.KindWholeRest) {
		c := m.NewChord(0)
		c.Whole = true
		c.Notes = append(c.Notes, model.Note{Symbol: id})
	}
}

func stemChord(m *model.Measure, s *model.Slot, stem int) *model.Chord {
	for _, cid := range s.Chords {
		if c := m.Chord(cid); c.Stem == stem {
			return c
		}
	}
	c := m.NewChord(s.ID)
	c.Stem = stem
	return c
}

func sortNotes(m *model.Measure, c *model.Chord) {
	sort.SliceStable(c.Notes, func(i, j int) bool {
		return m.Symbol(c.Notes[i].Symbol).Box.Center().Y < m.Symbol(c.Notes[j].Symbol).Box.Center().Y
	})
}

// SortChords orders chord ids by staff, then head ordinate, then id.
func SortChords(m *model.Measure, ids []model.ChordID) {
	sort.SliceStable(ids, func(i, j int) bool {
		c1, c2 := m.Chord(ids[i]), m.Chord(ids[j])
		if s1, s2 := c1.Staff(m), c2.Staff(m); s1 != s2 {
			return s1 < s2
		}
		if y1, y2 := c1.Head(m).Y, c2.Head(m).Y; y1 != y2 {
			return y1 < y2
		}
		return c1.ID < c2.ID
	})
}
