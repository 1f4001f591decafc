package model

import (
	"fmt"

	"github.com/jsphweid/rhythmdex/logger"
)

type AdvisoryKind string

const (
	// GeometricMismatch only excludes a candidate, it is never recorded.
	GeometricMismatch    AdvisoryKind = "geometric_mismatch"
	InconsistentGrouping AdvisoryKind = "inconsistent_grouping"
	UndeterminedDuration AdvisoryKind = "undetermined_duration"
	BoundsViolation      AdvisoryKind = "bounds_violation"
	StructuralAnomaly    AdvisoryKind = "structural_anomaly"
	SlotSpacing          AdvisoryKind = "slot_spacing"
)

// Context locates an entity in the page hierarchy.
type Context struct {
	SystemID  int `json:"system"`
	PartID    int `json:"part"`
	StaffID   int `json:"staff,omitempty"`
	MeasureID int `json:"measure"`
}

func (c Context) String() string {
	return fmt.Sprintf("S%d-P%d-M%d", c.SystemID, c.PartID, c.MeasureID)
}

// Advisory is a non-fatal finding attached to a location.
type Advisory struct {
	Kind    AdvisoryKind `json:"kind"`
	Context Context      `json:"context"`
	Message string       `json:"message"`
}

func (a Advisory) String() string {
	return fmt.Sprintf("%s %s: %s", a.Context, a.Kind, a.Message)
}

func newAdvisory(kind AdvisoryKind, ctx Context, format string, args ...any) Advisory {
	a := Advisory{Kind: kind, Context: ctx, Message: fmt.Sprintf(format, args...)}
	switch kind {
	case InconsistentGrouping, GeometricMismatch:
		logger.Debug(a.Message, logger.String("kind", string(kind)), logger.Stringer("context", ctx))
	default:
		logger.Warn(a.Message, logger.String("kind", string(kind)), logger.Stringer("context", ctx))
	}
	return a
}
