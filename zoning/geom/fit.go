package geom

import (
	"github.com/openzoning/ozfs/internal/util"
)

// DefaultRotationStep is the rotation-search increment in degrees.
const DefaultRotationStep = 15.0

// FitsRect reports whether a w x d cell rectangle of true cells exists in
// the mask, in either orientation. The scan anchors at each true cell and
// tests both the w x d and d x w windows, so callers never need to try the
// swapped dimensions themselves.
func (m *Mask) FitsRect(w, d int) bool {
	_, _, _, _, ok := m.FindRect(w, d)
	return ok
}

// FindRect locates the first w x d (or d x w) all-true window, scanning row
// by row. It returns the anchor cell and the orientation that fit.
func (m *Mask) FindRect(w, d int) (x, y, rw, rh int, ok bool) {
	if m == nil || w <= 0 || d <= 0 {
		return 0, 0, 0, 0, false
	}
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.Get(x, y) {
				continue
			}
			if m.allTrue(x, y, w, d) {
				return x, y, w, d, true
			}
			if m.allTrue(x, y, d, w) {
				return x, y, d, w, true
			}
		}
	}
	return 0, 0, 0, 0, false
}

// allTrue reports whether the w x h window anchored at (x, y) lies inside
// the mask and contains only true cells.
func (m *Mask) allTrue(x, y, w, h int) bool {
	if x+w > m.W || y+h > m.H {
		return false
	}
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if !m.Get(xx, yy) {
				return false
			}
		}
	}
	return true
}

// FitResult reports the outcome of a rotation-search footprint test.
type FitResult struct {
	Fits bool `json:"fits"`

	// RotationDeg is the first rotation at which the footprint fit.
	RotationDeg float64 `json:"rotation_deg"`
}

// FitFootprint tests whether a widthFt x depthFt rectangle fits inside the
// buildable envelope of the plan, retrying at rotations from 0 up to but
// excluding 90 degrees in stepDeg increments (DefaultRotationStep when
// stepDeg <= 0). Ninety degrees suffice: the window scan already tries both
// orientations, and a rectangle is symmetric under a further quarter turn.
// The search stops at the first fit.
func FitFootprint(plan *SetbackPlan, strict bool, widthFt, depthFt float64, stepDeg float64) FitResult {
	if stepDeg <= 0 {
		stepDeg = DefaultRotationStep
	}
	toFeet := plan.Parcel.unitToFeet()
	w := util.CeilInt(widthFt / toFeet)
	d := util.CeilInt(depthFt / toFeet)

	for rot := 0.0; rot < 90; rot += stepDeg {
		env := Buildable(plan, strict, rot)
		if env.Mask.FitsRect(w, d) {
			return FitResult{Fits: true, RotationDeg: rot}
		}
	}
	return FitResult{}
}
