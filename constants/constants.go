package constants

import "time"

// QuarterTicks is the number of ticks in a quarter note. Every duration
// reported by the tool is an exact rational, ticks are only used at the
// boundaries (input expected durations, output, MIDI export).
const QuarterTicks = 96

// WholeTicks is the number of ticks in a whole note.
const WholeTicks = 4 * QuarterTicks

// Default geometric thresholds, as fractions of the staff interline.
const (
	DefaultMaxSlotDx       = 1.25
	DefaultMinSlotSpacing  = 1.0
	DefaultMaxBeamGap      = 0.75
	DefaultMaxBeamDistance = 0.5
)

// Bounds for the fixed point loops.
const (
	DefaultMaxMergeLoops    = 10
	DefaultMaxSplitLoops    = 10
	DefaultMaxDurationLoops = 2
)

// DefaultInterline is used when a page does not report its scale.
const DefaultInterline = 20.0

// OutDir is where watch writes its results.
const OutDir = "out"

// WatchDebounce is how long watch waits for a burst of file changes to end.
const WatchDebounce = 500 * time.Millisecond

// Chords with more augmentation dots or flags and beams than these are
// left without a duration.
const (
	MaxDots  = 4
	MaxFlags = 8
)
