package rhythm

import (
	"github.com/jsphweid/rhythmdex/chord"
	"github.com/jsphweid/rhythmdex/model"
)

// Result gathers what the passes produced for page.
func Result(page *model.Page, runID string) *model.PageResult {
	res := &model.PageResult{
		RunID:      runID,
		PageID:     page.ID,
		Index:      page.Index,
		Stacks:     make([]model.StackResult, 0),
		Advisories: append([]model.Advisory{}, page.Advisories...),
	}

	for _, sys := range page.Systems {
		for _, st := range sys.Stacks {
			sr := model.StackResult{
				System:     sys.ID,
				Index:      st.Index,
				PageID:     st.PageID,
				Actual:     st.Actual,
				Pickup:     st.Pickup,
				Implicit:   st.Implicit,
				FirstHalf:  st.FirstHalf,
				SecondHalf: st.SecondHalf,
			}
			if st.HasExpected {
				exp := st.Expected
				sr.Expected = &exp
			}
			if st.HasTermination {
				term := st.Termination
				sr.Termination = &term
			}
			for _, m := range st.Measures {
				sr.Measures = append(sr.Measures, measureResult(m))
				res.Advisories = append(res.Advisories, m.Advisories...)
			}
			res.Stacks = append(res.Stacks, sr)
		}
	}
	return res
}

func measureResult(m *model.Measure) model.MeasureResult {
	mr := model.MeasureResult{
		Context: m.Context,
		Actual:  m.Actual,
		Slots:   make([]model.SlotResult, 0, len(m.Slots)),
		Chords:  make([]model.ChordResult, 0, len(m.Chords)),
	}
	for _, s := range m.Slots {
		mr.Slots = append(mr.Slots, model.SlotResult{
			ID:     s.ID,
			X:      s.X(m),
			Offset: s.Offset,
			Chords: s.Chords,
		})
	}
	for _, c := range m.Chords {
		mr.Chords = append(mr.Chords, model.ChordResult{
			ID:          c.ID,
			Slot:        c.Slot,
			Notes:       c.Notes,
			Key:         chord.Key(chord.Pitches(m, c)),
			Duration:    c.Duration,
			Start:       c.Start,
			End:         c.End(),
			Voice:       c.Voice,
			Beams:       c.Beams,
			Whole:       c.Whole,
			DuplicateOf: c.DuplicateOf,
		})
	}
	for _, b := range m.Beams {
		br := model.BeamResult{ID: b.ID, Group: b.Group, Chords: b.Chords}
		if g := m.Group(b.Group); g != nil {
			br.Level = g.Level(b.ID)
		}
		mr.Beams = append(mr.Beams, br)
	}
	for _, g := range m.Groups {
		mr.Groups = append(mr.Groups, model.GroupResult{ID: g.ID, Beams: g.Beams, Voice: g.Voice})
	}
	return mr
}
