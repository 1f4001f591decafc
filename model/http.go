package model

import "github.com/jsphweid/rhythmdex/rational"

type ChordResult struct {
	ID          ChordID           `json:"id"`
	Slot        SlotID            `json:"slot,omitempty"`
	Notes       []Note            `json:"notes"`
	Key         string            `json:"key,omitempty"`
	Duration    rational.Rational `json:"duration"`
	Start       rational.Rational `json:"start"`
	End         rational.Rational `json:"end"`
	Voice       int               `json:"voice"`
	Beams       []BeamID          `json:"beams,omitempty"`
	Whole       bool              `json:"whole,omitempty"`
	DuplicateOf ChordID           `json:"duplicate_of,omitempty"`
}

type SlotResult struct {
	ID     SlotID            `json:"id"`
	X      float64           `json:"x"`
	Offset rational.Rational `json:"offset"`
	Chords []ChordID         `json:"chords"`
}

type BeamResult struct {
	ID     BeamID    `json:"id"`
	Group  GroupID   `json:"group"`
	Level  int       `json:"level"`
	Chords []ChordID `json:"chords"`
}

type GroupResult struct {
	ID    GroupID  `json:"id"`
	Beams []BeamID `json:"beams"`
	Voice int      `json:"voice"`
}

type MeasureResult struct {
	Context Context           `json:"context"`
	Actual  rational.Rational `json:"actual"`
	Slots   []SlotResult      `json:"slots"`
	Chords  []ChordResult     `json:"chords"`
	Beams   []BeamResult      `json:"beams,omitempty"`
	Groups  []GroupResult     `json:"groups,omitempty"`
}

type StackResult struct {
	System      int                `json:"system"`
	Index       int                `json:"index"`
	PageID      int                `json:"page_id"`
	Expected    *rational.Rational `json:"expected,omitempty"`
	Actual      rational.Rational  `json:"actual"`
	Termination *rational.Rational `json:"termination,omitempty"`
	Pickup      bool               `json:"pickup,omitempty"`
	Implicit    bool               `json:"implicit,omitempty"`
	FirstHalf   bool               `json:"first_half,omitempty"`
	SecondHalf  bool               `json:"second_half,omitempty"`
	Measures    []MeasureResult    `json:"measures"`
}

// PageResult is what the transcription produces for one page.
type PageResult struct {
	RunID      string        `json:"run_id"`
	PageID     string        `json:"page_id"`
	Index      int           `json:"index"`
	Stacks     []StackResult `json:"stacks"`
	Advisories []Advisory    `json:"advisories"`
}

type TranscribeRequestBody struct {
	Pages []*Page `json:"pages"`
	// LastID continues the numbering of a previous request.
	LastID *int `json:"last_id,omitempty"`
}

type TranscribeResponse struct {
	Results []PageResult `json:"results"`
	// Errors lists the pages that could not be transcribed.
	Errors []string `json:"errors,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
