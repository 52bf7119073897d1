// Package pipeline drives batch zoning analysis: for each (parcel,
// district) pair it runs the land-use gate, the attribute check sequence,
// and the setback/envelope/footprint geometry stages, fanning the
// independent rows out over a worker pool and reassembling results in
// input order.
package pipeline

import (
	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/check"
	"github.com/openzoning/ozfs/zoning/geom"
)

// Row reasons reported alongside the verdict. Denied rows instead carry
// the name of the check that failed.
const (
	ReasonAllowed   = "building allowed"
	ReasonFits      = "building fits"
	ReasonUncertain = "review uncertain checks"
)

// Row is one unit of batch work: a district applied to a parcel. Parcel may
// be nil when only the non-geometric checks are wanted.
type Row struct {
	District *zoning.District
	Parcel   *geom.Parcel
}

// RowResult is the outcome for one row. Results come back in the same
// order the rows went in, whatever order the workers finished in.
type RowResult struct {
	// RunID identifies the batch this row was computed in.
	RunID string `json:"run_id"`

	ParcelID   string `json:"parcel_id,omitempty"`
	DistrictID string `json:"zoning_id"`

	Allowed check.Verdict `json:"allowed"`

	// Reason names the failing check for denied rows, lists the uncertain
	// checks for MAYBE rows, or reports the allowed/fits outcome.
	Reason string `json:"reason"`

	// CheckTrace records each executed check in order. Short-circuited
	// checks after a denial do not appear.
	CheckTrace []check.TraceEntry `json:"check_trace,omitempty"`

	// MinNotes and MaxNotes carry the constraint notes of every check
	// that did not come back Allowed.
	MinNotes []string `json:"constraint_min_notes,omitempty"`
	MaxNotes []string `json:"constraint_max_notes,omitempty"`

	// Geometry stage results; meaningful only when the row reached it
	// with a parcel attached.
	HasBuildableArea  bool    `json:"has_buildable_area,omitempty"`
	BuildableAreaSqFt float64 `json:"buildable_area_sqft,omitempty"`
	FootprintFits     bool    `json:"footprint_fits,omitempty"`
}
