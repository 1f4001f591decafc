package slot

import (
	"math"

	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/util"
)

// Resolve merges adjacent slots wrongly split across a shared stem, until
// no merge happens, then checks slot spacing. It returns the number of
// merges performed.
func Resolve(m *model.Measure, sc model.Scale, p config.Params) int {
	merges, err := util.Fixpoint(p.MaxMergeLoops, func() (bool, error) {
		return mergeOnce(m), nil
	})
	if err != nil {
		m.Advise(model.InconsistentGrouping, "slot merge loop stopped: %v", err)
	}
	if merges > 0 {
		logger.Debug("merged slots sharing a stem",
			logger.Stringer("context", m.Context), logger.Int("merges", merges))
	}

	CheckSpacing(m, sc, p)
	return merges
}

func mergeOnce(m *model.Measure) bool {
	for i := 0; i+1 < len(m.Slots); i++ {
		left, right := m.Slots[i], m.Slots[i+1]
		if stem := sharedStem(m, left, right); stem != 0 {
			m.Advise(model.InconsistentGrouping,
				"slots #%d and #%d share stem %d, merging", left.ID, right.ID, stem)
			for _, id := range right.Symbols {
				left.AddSymbol(id)
			}
			m.Slots = append(m.Slots[:i+1], m.Slots[i+2:]...)
			sortSlots(m)
			AssembleChords(m)
			return true
		}
	}
	return false
}

func sharedStem(m *model.Measure, s1, s2 *model.Slot) int {
	stems := make(map[int]bool)
	for _, cid := range s1.Chords {
		if stem := m.Chord(cid).Stem; stem != 0 {
			stems[stem] = true
		}
	}
	for _, cid := range s2.Chords {
		if stem := m.Chord(cid).Stem; stem != 0 && stems[stem] {
			return stem
		}
	}
	return 0
}

// CheckSpacing reports the narrowest pair of consecutive slots when it is
// below the minimum spacing. Only the worst pair is reported. It returns
// the minimum spacing found, in page units, or +Inf with fewer than two slots.
func CheckSpacing(m *model.Measure, sc model.Scale, p config.Params) float64 {
	minSpacing := math.Inf(1)
	var minSlot *model.Slot
	for i := 1; i < len(m.Slots); i++ {
		spacing := m.Slots[i].X(m) - m.Slots[i-1].X(m)
		if spacing < minSpacing {
			minSpacing = spacing
			minSlot = m.Slots[i]
		}
	}

	if minSlot != nil && minSpacing < sc.ToUnits(p.MinSlotSpacing) {
		m.Advise(model.SlotSpacing,
			"suspicious narrow spacing of slots at #%d: %.2f interline",
			minSlot.ID, sc.ToFraction(minSpacing))
	}
	return minSpacing
}
