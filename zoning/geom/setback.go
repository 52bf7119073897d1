package geom

import (
	"github.com/unixpickle/model3d/model2d"

	"github.com/openzoning/ozfs/logger"
	"github.com/openzoning/ozfs/units"
	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/resolve"
)

// DefaultBoundaryBuffer is how close (in parcel units) an edge must sit to
// a district boundary before the boundary-distance rule applies.
const DefaultBoundaryBuffer = 5.0

// sideSpecTypes maps an edge's side label to the setback constraint that
// governs it.
var sideSpecTypes = map[string]string{
	SideFront:    zoning.SpecSetbackFront,
	SideInterior: zoning.SpecSetbackSideInterior,
	SideExterior: zoning.SpecSetbackSideExterior,
	SideRear:     zoning.SpecSetbackRear,
}

// Setback is the resolved setback for one edge, in feet. Relaxed and
// Strict differ only when the constraint resolved to a two-valued range;
// the relaxed envelope buffers by the smaller distance, the strict one by
// the larger.
type Setback struct {
	Relaxed float64 `json:"relaxed"`
	Strict  float64 `json:"strict"`

	// OnBoundary marks edges close enough to a district boundary that the
	// boundary-distance minimum was enforced.
	OnBoundary bool `json:"on_boundary,omitempty"`
}

// TwoValued reports whether the setback carries distinct relaxed and
// strict distances.
func (s *Setback) TwoValued() bool {
	return s != nil && s.Relaxed != s.Strict
}

// raise enforces a minimum on both tracks.
func (s *Setback) raise(min float64) {
	if s.Relaxed < min {
		s.Relaxed = min
	}
	if s.Strict < min {
		s.Strict = min
	}
}

// SetbackPlan pairs a parcel with the per-edge setbacks derived from a
// resolved-constraint table. Entries are parallel to Parcel.Edges; nil
// means the edge has no setback and is not buffered.
type SetbackPlan struct {
	Parcel   *Parcel
	Setbacks []*Setback
}

// TwoValued reports whether any edge carries a two-valued setback, in which
// case relaxed and strict envelopes differ.
func (pl *SetbackPlan) TwoValued() bool {
	for _, s := range pl.Setbacks {
		if s.TwoValued() {
			return true
		}
	}
	return false
}

// AssignSetbacks maps resolved setback constraints onto the parcel's edges
// and applies the supplemental boundary-distance and sum rules. Distances
// are normalized to feet. districtBoundary, when non-nil, is the union of
// zoning-district boundary polylines in parcel coordinates, used by the
// setback_dist_boundary rule with the given buffer distance (parcel units;
// <= 0 means DefaultBoundaryBuffer).
//
// Edges with no side label, a centroid tag, or no matching constraint keep
// a nil setback.
func AssignSetbacks(p *Parcel, t resolve.Table, districtBoundary [][]model2d.Coord, bufferDist float64) *SetbackPlan {
	plan := &SetbackPlan{
		Parcel:   p,
		Setbacks: make([]*Setback, len(p.Edges)),
	}

	for i, e := range p.Edges {
		spec, ok := sideSpecTypes[e.Side]
		if !ok {
			continue
		}
		row, ok := t.Find(spec)
		if !ok {
			continue
		}
		sb := setbackFromBound(row)
		if sb == nil {
			continue
		}
		plan.Setbacks[i] = sb
	}

	applyBoundaryRule(plan, t, districtBoundary, bufferDist)
	applySumRule(plan, t, zoning.SpecSetbackSideSum, SideInterior, SideExterior)
	applySumRule(plan, t, zoning.SpecSetbackFrontSum, SideFront, SideRear)
	return plan
}

// setbackFromBound converts a resolved setback row's minimum bound into
// feet. Unresolvable or null bounds yield no setback.
func setbackFromBound(row *resolve.Resolved) *Setback {
	lo, hi, ok := row.MinValue.Bounds()
	if !ok {
		return nil
	}
	relaxed, err := units.ToFeet(lo, row.Unit)
	if err != nil {
		logger.Warnw("setback unit not convertible, using raw value",
			"spec_type", row.SpecType, "unit", row.Unit)
		relaxed = lo
	}
	strict, err := units.ToFeet(hi, row.Unit)
	if err != nil {
		strict = hi
	}
	return &Setback{Relaxed: relaxed, Strict: strict}
}

// scalarRequirement extracts a single numeric requirement (in feet) for a
// supplemental rule.
func scalarRequirement(t resolve.Table, specType string) (float64, bool) {
	row, ok := t.Find(specType)
	if !ok {
		return 0, false
	}
	v, ok := row.MinValue.Low()
	if !ok {
		return 0, false
	}
	ft, err := units.ToFeet(v, row.Unit)
	if err != nil {
		return v, true
	}
	return ft, true
}

// applyBoundaryRule flags edges lying within bufferDist of the district
// boundary and raises their setback to at least the boundary minimum.
func applyBoundaryRule(plan *SetbackPlan, t resolve.Table, boundary [][]model2d.Coord, bufferDist float64) {
	if len(boundary) == 0 {
		return
	}
	distB, ok := scalarRequirement(t, zoning.SpecSetbackDistBoundary)
	if !ok {
		return
	}
	if bufferDist <= 0 {
		bufferDist = DefaultBoundaryBuffer
	}

	for i, e := range plan.Parcel.Edges {
		if plan.Setbacks[i] == nil || !e.Boundary() {
			continue
		}
		if !edgeWithinBuffer(e, boundary, bufferDist) {
			continue
		}
		plan.Setbacks[i].OnBoundary = true
		plan.Setbacks[i].raise(distB)
	}
}

// edgeWithinBuffer reports whether every vertex of the edge lies within
// dist of some boundary polyline.
func edgeWithinBuffer(e Edge, boundary [][]model2d.Coord, dist float64) bool {
	for _, c := range e.Line {
		near := false
		for _, line := range boundary {
			if pointPolylineDist(c, line) <= dist {
				near = true
				break
			}
		}
		if !near {
			return false
		}
	}
	return true
}

// applySumRule enforces a combined-setback minimum over a pair of edges.
// For setback_side_sum the pair prefers one interior plus one exterior
// side, then two interiors, then two exteriors; for setback_front_sum it
// is the front and rear edges. The shortfall is added entirely to the
// second edge of the pair, never split.
func applySumRule(plan *SetbackPlan, t resolve.Table, specType, firstSide, secondSide string) {
	required, ok := scalarRequirement(t, specType)
	if !ok {
		return
	}

	first, second := pickSumPair(plan, firstSide, secondSide)
	if first < 0 || second < 0 {
		return
	}

	// Top up the relaxed and strict tracks independently; each may have a
	// different shortfall.
	if plan.Setbacks[second] == nil {
		plan.Setbacks[second] = &Setback{}
	}
	v1, v2 := plan.Setbacks[first], plan.Setbacks[second]
	var r1, s1 float64
	if v1 != nil {
		r1, s1 = v1.Relaxed, v1.Strict
	}
	if shortfall := required - (r1 + v2.Relaxed); shortfall > 0 {
		v2.Relaxed += shortfall
	}
	if shortfall := required - (s1 + v2.Strict); shortfall > 0 {
		v2.Strict += shortfall
	}
}

// pickSumPair selects the two edge indexes a sum rule operates on. For the
// side rule firstSide is the interior label: the preferred pair is
// (exterior, interior) so the interior edge absorbs the shortfall; lacking
// that, two interiors, then two exteriors. For the front rule the pair is
// (front, rear). Returns -1 indexes when no pair exists.
func pickSumPair(plan *SetbackPlan, firstSide, secondSide string) (int, int) {
	byside := func(side string) []int {
		var idx []int
		for i, e := range plan.Parcel.Edges {
			if e.Side == side {
				idx = append(idx, i)
			}
		}
		return idx
	}

	if firstSide == SideInterior {
		interior, exterior := byside(SideInterior), byside(SideExterior)
		switch {
		case len(interior) >= 1 && len(exterior) >= 1:
			return exterior[0], interior[0]
		case len(interior) >= 2:
			return interior[0], interior[1]
		case len(exterior) >= 2:
			return exterior[0], exterior[1]
		default:
			return -1, -1
		}
	}

	front, rear := byside(firstSide), byside(secondSide)
	if len(front) == 0 || len(rear) == 0 {
		return -1, -1
	}
	return front[0], rear[0]
}
