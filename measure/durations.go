package measure

import (
	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/rational"
	"github.com/jsphweid/rhythmdex/util"
)

// ResolveDurations computes the actual duration of every measure of sys
// and refreshes its stacks.
//
// The first pass takes the latest chord end time of each measure. Measures
// holding only whole chords cannot tell their own duration: the second
// pass gives them the value found in another part of the same stack, and
// falls back to the expected duration.
func ResolveDurations(sys *model.System, p config.Params) {
	if sys.Stacks == nil {
		sys.BuildStacks()
	}

	for _, part := range sys.Parts {
		for _, m := range part.Measures {
			firstPass(m)
		}
	}

	rounds, err := util.Fixpoint(p.MaxDurationLoops, func() (bool, error) {
		return fromSiblings(sys), nil
	})
	if err != nil {
		logger.Warn("sibling duration lookup did not settle",
			logger.Int("system", sys.ID), logger.Int("rounds", rounds), logger.ErrorField(err))
	}

	for _, st := range sys.Stacks {
		for _, m := range st.Measures {
			fallback(m)
			setWholeDurations(m)
		}
		st.Refresh()
	}
}

func firstPass(m *model.Measure) {
	m.Actual = rational.Zero
	m.HasActual = false

	slotted := false
	end := rational.Zero
	for _, c := range m.Chords {
		if c.Whole {
			continue
		}
		slotted = true
		if c.HasStart && c.HasDuration {
			end = rational.Max(end, c.End())
		}
	}

	if !slotted {
		if len(m.WholeChords()) == 0 {
			// nothing timed at all
			m.HasActual = true
		}
		return
	}

	if exp, ok := m.ExpectedDuration(); ok && exp.Less(end) {
		m.Advise(model.BoundsViolation, "actual duration %s exceeds expected %s, clamped", end, exp)
		end = exp
	}
	m.Actual = end
	m.HasActual = true
}

// fromSiblings resolves measures from the other measures of their stack.
func fromSiblings(sys *model.System) bool {
	changed := false
	for _, st := range sys.Stacks {
		sibling, found := rational.Zero, false
		for _, m := range st.Measures {
			if m.HasActual && !m.Actual.IsZero() {
				sibling = rational.Max(sibling, m.Actual)
				found = true
			}
		}
		if !found {
			continue
		}
		for _, m := range st.Measures {
			if !m.HasActual {
				m.Actual = sibling
				m.HasActual = true
				changed = true
			}
		}
	}
	return changed
}

func fallback(m *model.Measure) {
	if m.HasActual {
		return
	}
	if exp, ok := m.ExpectedDuration(); ok {
		m.Actual = exp
		m.HasActual = true
		return
	}
	m.Advise(model.UndeterminedDuration, "no sibling nor expected duration for a measure of whole rests")
}

// setWholeDurations makes the whole chords last for the whole measure.
func setWholeDurations(m *model.Measure) {
	for _, c := range m.WholeChords() {
		c.Duration = m.Actual
		c.HasDuration = m.HasActual
		c.Start = rational.Zero
		c.HasStart = true
	}
}
