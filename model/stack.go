package model

import (
	"github.com/jsphweid/rhythmdex/rational"
)

// Stack is a vertical measure: the same-index measures of every part of a
// system.
type Stack struct {
	Index    int
	System   int
	Measures []*Measure

	Expected       rational.Rational
	HasExpected    bool
	Actual         rational.Rational
	Termination    rational.Rational
	HasTermination bool
	RightRepeat    bool

	Pickup     bool
	Implicit   bool
	FirstHalf  bool
	SecondHalf bool

	PageID int
	HasID  bool
}

// BuildStacks groups the system measures by index. Parts with fewer
// measures simply do not contribute to the trailing stacks.
func (s *System) BuildStacks() {
	count := 0
	for _, part := range s.Parts {
		if len(part.Measures) > count {
			count = len(part.Measures)
		}
	}
	s.Stacks = make([]*Stack, count)
	for i := range s.Stacks {
		st := &Stack{Index: i, System: s.ID}
		for _, part := range s.Parts {
			if i < len(part.Measures) {
				st.Measures = append(st.Measures, part.Measures[i])
			}
		}
		s.Stacks[i] = st
	}
}

// Context returns the context of the stack's first measure.
func (st *Stack) Context() Context {
	if len(st.Measures) == 0 {
		return Context{SystemID: st.System}
	}
	return st.Measures[0].Context
}

// IsEmpty reports a stack whose measures are all known to last zero.
func (st *Stack) IsEmpty() bool {
	if !st.Actual.IsZero() {
		return false
	}
	for _, m := range st.Measures {
		if !m.HasActual {
			return false
		}
	}
	return true
}

// Refresh recomputes the stack values from its measures.
func (st *Stack) Refresh() {
	st.Actual = rational.Zero
	st.HasExpected = false
	st.RightRepeat = false
	for _, m := range st.Measures {
		st.Actual = rational.Max(st.Actual, m.Actual)
		if exp, ok := m.ExpectedDuration(); ok && !st.HasExpected {
			st.Expected = exp
			st.HasExpected = true
		}
		if m.RightRepeat() {
			st.RightRepeat = true
		}
	}
	st.HasTermination = st.HasExpected
	if st.HasExpected {
		st.Termination = st.Actual.Sub(st.Expected)
	}
}

// MergeWithRight absorbs the right stack, part by part. Right measures of
// parts missing from st are taken over as they are.
func (st *Stack) MergeWithRight(right *Stack) {
	byPart := make(map[int]*Measure, len(st.Measures))
	for _, m := range st.Measures {
		byPart[m.Context.PartID] = m
	}
	for _, r := range right.Measures {
		if m, ok := byPart[r.Context.PartID]; ok {
			m.MergeWithRight(r)
			continue
		}
		st.Measures = append(st.Measures, r)
		byPart[r.Context.PartID] = r
	}
	st.Refresh()
}

func (st *Stack) ClearFlags() {
	st.Pickup = false
	st.Implicit = false
	st.FirstHalf = false
	st.SecondHalf = false
	st.PageID = 0
	st.HasID = false
}

// RemoveStack drops the stack at index i. Its measures that no other
// stack references are removed from their parts.
func (s *System) RemoveStack(i int) {
	st := s.Stacks[i]
	s.Stacks = append(s.Stacks[:i], s.Stacks[i+1:]...)

	referenced := make(map[*Measure]bool)
	for _, o := range s.Stacks {
		for _, m := range o.Measures {
			referenced[m] = true
		}
	}
	dropped := make(map[*Measure]bool)
	for _, m := range st.Measures {
		if !referenced[m] {
			dropped[m] = true
		}
	}
	for _, part := range s.Parts {
		kept := part.Measures[:0]
		for _, m := range part.Measures {
			if !dropped[m] {
				kept = append(kept, m)
			}
		}
		part.Measures = kept
	}
}
