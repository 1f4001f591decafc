package model

import (
	"github.com/jsphweid/rhythmdex/rational"
)

// Measure is the content of one part within one vertical measure.
type Measure struct {
	ID       int                `json:"id" yaml:"id"`
	Expected *rational.Rational `json:"expected,omitempty" yaml:"expected,omitempty"`
	Symbols  []Symbol           `json:"symbols" yaml:"symbols"`

	Context    Context `json:"-" yaml:"-"`
	Arena      `json:"-" yaml:"-"`
	Actual     rational.Rational `json:"-" yaml:"-"`
	HasActual  bool              `json:"-" yaml:"-"`
	Advisories []Advisory        `json:"-" yaml:"-"`

	index map[int]*Symbol
}

// Symbol looks a member symbol up by id.
func (m *Measure) Symbol(id int) *Symbol {
	if id == 0 {
		return nil
	}
	if m.index == nil {
		m.index = make(map[int]*Symbol, len(m.Symbols))
		for i := range m.Symbols {
			m.index[m.Symbols[i].ID] = &m.Symbols[i]
		}
	}
	return m.index[id]
}

// SetSymbols replaces the symbol set and invalidates everything derived
// from it.
func (m *Measure) SetSymbols(symbols []Symbol) {
	m.Symbols = symbols
	m.Reset()
}

// Reset drops every derived entity and value.
func (m *Measure) Reset() {
	m.Arena = Arena{}
	m.Actual = rational.Zero
	m.HasActual = false
	m.Advisories = nil
	m.index = nil
}

func (m *Measure) ExpectedDuration() (rational.Rational, bool) {
	if m.Expected == nil {
		return rational.Zero, false
	}
	return *m.Expected, true
}

// SymbolsOf returns the ids of the member symbols of kind k, in input order.
func (m *Measure) SymbolsOf(k Kind) []int {
	var ids []int
	for i := range m.Symbols {
		if m.Symbols[i].Kind() == k {
			ids = append(ids, m.Symbols[i].ID)
		}
	}
	return ids
}

// RightRepeat reports whether the measure ends with a backward repeat.
func (m *Measure) RightRepeat() bool {
	var last *Symbol
	for i := range m.Symbols {
		s := &m.Symbols[i]
		if s.Kind() == KindBarline && (last == nil || s.Box.Right() > last.Box.Right()) {
			last = s
		}
	}
	return last != nil && (last.Shape == RepeatRight || last.Shape == RepeatBackToBack)
}

// Advise records a non-fatal finding on the measure.
func (m *Measure) Advise(kind AdvisoryKind, format string, args ...any) {
	m.Advisories = append(m.Advisories, newAdvisory(kind, m.Context, format, args...))
}

// MergeWithRight appends the content of r, shifted by the current actual
// duration, and empties r.
func (m *Measure) MergeWithRight(r *Measure) {
	shift := m.Actual
	m.Arena.Append(&r.Arena, shift)
	m.Symbols = append(m.Symbols, r.Symbols...)
	m.index = nil
	m.Actual = m.Actual.Add(r.Actual)
	m.HasActual = m.HasActual || r.HasActual
	if m.Expected == nil {
		m.Expected = r.Expected
	}
	m.Advisories = append(m.Advisories, r.Advisories...)
	r.Symbols = nil
	r.Reset()
}

type Part struct {
	ID       int        `json:"id" yaml:"id"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Measures []*Measure `json:"measures" yaml:"measures"`
}

type System struct {
	ID     int      `json:"id" yaml:"id"`
	Parts  []*Part  `json:"parts" yaml:"parts"`
	Stacks []*Stack `json:"-" yaml:"-"`
}

// Page is the unit of work: one page of one score.
type Page struct {
	ID        string    `json:"id" yaml:"id"`
	Index     int       `json:"index" yaml:"index"`
	Interline float64   `json:"interline" yaml:"interline"`
	Systems   []*System `json:"systems" yaml:"systems"`

	Advisories []Advisory `json:"-" yaml:"-"`
}

func (p *Page) Scale() Scale {
	return Scale{Interline: p.Interline}
}

// Advise records a page level finding.
func (p *Page) Advise(kind AdvisoryKind, ctx Context, format string, args ...any) {
	p.Advisories = append(p.Advisories, newAdvisory(kind, ctx, format, args...))
}

// Measures visits every measure of the page in system, part, measure order.
func (p *Page) Measures(visit func(sys *System, part *Part, m *Measure)) {
	for _, sys := range p.Systems {
		for _, part := range sys.Parts {
			for _, m := range part.Measures {
				visit(sys, part, m)
			}
		}
	}
}

// BindContexts stores the containment context on every measure.
func (p *Page) BindContexts() {
	p.Measures(func(sys *System, part *Part, m *Measure) {
		m.Context = Context{SystemID: sys.ID, PartID: part.ID, MeasureID: m.ID}
	})
}
