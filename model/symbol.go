package model

import "math"

type Shape string

const (
	NoteheadBlack Shape = "notehead_black"
	NoteheadVoid  Shape = "notehead_void"
	WholeNote     Shape = "whole_note"

	WholeRest   Shape = "whole_rest"
	MultiRest   Shape = "multi_rest"
	HalfRest    Shape = "half_rest"
	QuarterRest Shape = "quarter_rest"
	EighthRest  Shape = "eighth_rest"
	Rest16th    Shape = "rest_16th"
	Rest32nd    Shape = "rest_32nd"

	Stem       Shape = "stem"
	BeamStroke Shape = "beam"
	BeamHook   Shape = "beam_hook"

	Barline          Shape = "barline"
	RepeatRight      Shape = "repeat_right"
	RepeatBackToBack Shape = "repeat_back_to_back"
)

// Kind is the role a symbol plays in rhythm reconstruction.
type Kind int

const (
	KindOther Kind = iota
	KindNote
	KindRest
	KindWholeRest
	KindStem
	KindBeam
	KindBarline
)

func (k Kind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindRest:
		return "rest"
	case KindWholeRest:
		return "whole-rest"
	case KindStem:
		return "stem"
	case KindBeam:
		return "beam"
	case KindBarline:
		return "barline"
	default:
		return "other"
	}
}

func (s Shape) Kind() Kind {
	switch s {
	case NoteheadBlack, NoteheadVoid, WholeNote:
		return KindNote
	case HalfRest, QuarterRest, EighthRest, Rest16th, Rest32nd:
		return KindRest
	case WholeRest, MultiRest:
		return KindWholeRest
	case Stem:
		return KindStem
	case BeamStroke, BeamHook:
		return KindBeam
	case Barline, RepeatRight, RepeatBackToBack:
		return KindBarline
	default:
		return KindOther
	}
}

// TimeRelevant reports whether the symbol takes part in slots.
func (k Kind) TimeRelevant() bool {
	return k == KindNote || k == KindRest
}

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Box struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

func (b Box) Left() float64   { return b.X }
func (b Box) Right() float64  { return b.X + b.W }
func (b Box) Top() float64    { return b.Y }
func (b Box) Bottom() float64 { return b.Y + b.H }

func (b Box) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Union returns the smallest box containing both b and o. An empty box
// (zero size at the origin) is ignored.
func (b Box) Union(o Box) Box {
	if b == (Box{}) {
		return o
	}
	if o == (Box{}) {
		return b
	}
	left := math.Min(b.Left(), o.Left())
	top := math.Min(b.Top(), o.Top())
	right := math.Max(b.Right(), o.Right())
	bottom := math.Max(b.Bottom(), o.Bottom())
	return Box{X: left, Y: top, W: right - left, H: bottom - top}
}

// Symbol is one classified glyph, as produced by the recognition stage.
type Symbol struct {
	ID    int   `json:"id" yaml:"id"`
	Shape Shape `json:"shape" yaml:"shape"`
	Box   Box   `json:"box" yaml:"box"`
	Staff int   `json:"staff,omitempty" yaml:"staff,omitempty"`

	// Stem symbol ids, 0 when absent (heads only).
	LeftStem  int `json:"left_stem,omitempty" yaml:"left_stem,omitempty"`
	RightStem int `json:"right_stem,omitempty" yaml:"right_stem,omitempty"`

	// Beam packs: a glyph made of PackCard stacked beams.
	PackCard  int     `json:"pack_card,omitempty" yaml:"pack_card,omitempty"`
	PackIndex int     `json:"pack_index,omitempty" yaml:"pack_index,omitempty"`
	Points    []Point `json:"points,omitempty" yaml:"points,omitempty"`

	Dots  int `json:"dots,omitempty" yaml:"dots,omitempty"`
	Flags int `json:"flags,omitempty" yaml:"flags,omitempty"`
	Pitch int `json:"pitch,omitempty" yaml:"pitch,omitempty"`

	// Multi-measure rest count.
	Measures int `json:"measures,omitempty" yaml:"measures,omitempty"`
}

func (s *Symbol) Kind() Kind { return s.Shape.Kind() }

// Stems lists the stem ids attached to a head, left first.
func (s *Symbol) Stems() []int {
	var stems []int
	if s.LeftStem != 0 {
		stems = append(stems, s.LeftStem)
	}
	if s.RightStem != 0 && s.RightStem != s.LeftStem {
		stems = append(stems, s.RightStem)
	}
	return stems
}

// Scale converts interline fractions to page units.
type Scale struct {
	Interline float64
}

func (s Scale) ToUnits(fraction float64) float64 {
	return fraction * s.Interline
}

func (s Scale) ToFraction(units float64) float64 {
	if s.Interline == 0 {
		return 0
	}
	return units / s.Interline
}
