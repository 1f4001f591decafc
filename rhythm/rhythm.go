package rhythm

import (
	"errors"
	"fmt"

	"github.com/jsphweid/rhythmdex/beam"
	"github.com/jsphweid/rhythmdex/chord"
	"github.com/jsphweid/rhythmdex/config"
	"github.com/jsphweid/rhythmdex/constants"
	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/measure"
	"github.com/jsphweid/rhythmdex/model"
	"github.com/jsphweid/rhythmdex/slot"
	"github.com/jsphweid/rhythmdex/voice"
)

var ErrNoSystems = errors.New("page has no systems")

// Prepare runs every measure pass on page and resolves the measure
// durations of each system. Page ids are left to measure.AssignIDs.
func Prepare(page *model.Page, p config.Params) error {
	if len(page.Systems) == 0 {
		return fmt.Errorf("page %q: %w", page.ID, ErrNoSystems)
	}
	if page.Interline <= 0 {
		logger.Warn("page has no interline, using default",
			logger.String("page", page.ID), logger.Float64("interline", constants.DefaultInterline))
		page.Interline = constants.DefaultInterline
	}
	sc := page.Scale()

	page.BindContexts()
	page.Measures(func(_ *model.System, _ *model.Part, m *model.Measure) {
		ProcessMeasure(m, sc, p)
	})
	for _, sys := range page.Systems {
		sys.BuildStacks()
		measure.ResolveDurations(sys, p)
	}
	return nil
}

// ProcessMeasure rebuilds every entity of m from its symbols. A failure is
// recorded on the measure and leaves it without content.
func ProcessMeasure(m *model.Measure, sc model.Scale, p config.Params) {
	m.Reset()
	defer func() {
		if r := recover(); r != nil {
			m.Arena = model.Arena{}
			m.Advise(model.StructuralAnomaly, "measure dropped: %v", r)
		}
	}()

	slot.Build(m, sc, p)
	slot.AssembleChords(m)
	slot.Resolve(m, sc, p)

	beam.BuildBeams(m, sc, p)
	beam.LinkChords(m, sc, p)
	beam.Group(m)
	beam.Split(m, p)

	chord.ComputeDurations(m)
	voice.Assign(m)
}

// TranscribePage processes a single page, numbering its measures after
// acc.
func TranscribePage(page *model.Page, p config.Params, acc measure.IDState, runID string) (*model.PageResult, measure.IDState, error) {
	if err := Prepare(page, p); err != nil {
		return nil, acc, err
	}
	acc = measure.AssignIDs(page, acc)
	return Result(page, runID), acc, nil
}
