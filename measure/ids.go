package measure

import (
	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/model"
)

// IDState is the running measure numbering, carried from one system to the
// next and from one page to the next.
type IDState struct {
	LastID  int
	HasLast bool
}

func (s IDState) next() int {
	return s.LastID + 1
}

// AssignIDs classifies the stacks of page, left to right, and gives each
// one its page id. Empty stacks are merged into the following stack of the
// same system. It returns the state to use for the next page.
func AssignIDs(page *model.Page, acc IDState) IDState {
	for si, sys := range page.Systems {
		if sys.Stacks == nil {
			sys.BuildStacks()
		}
		for _, st := range sys.Stacks {
			st.Refresh()
			st.ClearFlags()
		}
		mergeEmpty(page, sys)

		for i, st := range sys.Stacks {
			switch {
			case si == 0 && i == 0 && isPickup(st):
				st.Pickup = true
				st.Implicit = true
				if acc.HasLast {
					st.PageID = -acc.next()
				} else {
					st.PageID = 0
				}
				st.HasID = true

			case i > 0 && isSecondHalf(sys.Stacks[i-1], st):
				prev := sys.Stacks[i-1]
				half := prev.Termination.Abs()
				for _, m := range prev.Measures {
					if half.Less(m.Actual) {
						m.Actual = half
					}
				}
				prev.Actual = half
				prev.FirstHalf = true
				st.Implicit = true
				st.SecondHalf = true
				st.PageID = prev.PageID
				st.HasID = prev.HasID

			default:
				acc.LastID = acc.next()
				acc.HasLast = true
				st.PageID = acc.LastID
				st.HasID = true
			}
		}
	}
	return acc
}

func isPickup(st *model.Stack) bool {
	return st.HasTermination && st.Termination.Sign() < 0
}

func isSecondHalf(prev, st *model.Stack) bool {
	if prev.Pickup || prev.SecondHalf || !prev.RightRepeat {
		return false
	}
	if !prev.HasTermination || !st.HasTermination {
		return false
	}
	if prev.Termination.Sign() >= 0 || st.Termination.Sign() >= 0 {
		return false
	}
	return prev.Termination.Abs().Add(st.Termination.Abs()) == prev.Expected
}

// mergeEmpty merges every empty stack with the stack on its right. An
// empty stack ending the system is removed.
func mergeEmpty(page *model.Page, sys *model.System) {
	for i := 0; i < len(sys.Stacks); {
		st := sys.Stacks[i]
		if !st.IsEmpty() {
			i++
			continue
		}
		if i+1 < len(sys.Stacks) {
			logger.Debug("merging empty stack with its right neighbor",
				logger.Int("system", sys.ID), logger.Int("stack", st.Index))
			st.MergeWithRight(sys.Stacks[i+1])
			sys.RemoveStack(i + 1)
			continue
		}
		page.Advise(model.StructuralAnomaly, st.Context(),
			"empty stack %d ends system %d, removed", st.Index, sys.ID)
		sys.RemoveStack(i)
	}
}
