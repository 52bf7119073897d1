package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model2d"

	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/resolve"
)

func TestFitsRectOrientationSwap(t *testing.T) {
	p := rectParcel("1", 30, 70)
	plan := AssignSetbacks(p, resolve.Table{}, nil, 0)
	env := Buildable(plan, false, 0)

	// A 60x25 window only fits with its long axis along the deep side.
	assert.True(t, env.Mask.FitsRect(60, 25))
	assert.True(t, env.Mask.FitsRect(25, 60))
	assert.False(t, env.Mask.FitsRect(35, 35))
}

func TestFindRect(t *testing.T) {
	m := NewMask(5, 5, 0, 0)
	for y := 1; y < 4; y++ {
		for x := 2; x < 5; x++ {
			m.Set(x, y, true)
		}
	}
	x, y, w, h, ok := m.FindRect(3, 2)
	require.True(t, ok)
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)

	_, _, _, _, ok = m.FindRect(4, 2)
	assert.False(t, ok)
}

func TestFitFootprint(t *testing.T) {
	p := rectParcel("1", 100, 80)
	table := resolve.Table{
		setbackRow(zoning.SpecSetbackFront, resolve.Scalar(20), "ft"),
	}
	plan := AssignSetbacks(p, table, nil, 0)

	res := FitFootprint(plan, false, 40, 50, 15)
	assert.True(t, res.Fits)
	assert.Zero(t, res.RotationDeg)

	res = FitFootprint(plan, false, 90, 90, 15)
	assert.False(t, res.Fits)
}

func TestFitFootprintStrictTrack(t *testing.T) {
	p := rectParcel("1", 100, 80)
	table := resolve.Table{
		setbackRow(zoning.SpecSetbackFront, resolve.Range([]float64{10, 40}), "ft"),
		setbackRow(zoning.SpecSetbackRear, resolve.Range([]float64{10, 40}), "ft"),
	}
	plan := AssignSetbacks(p, table, nil, 0)

	// 55 ft of depth fits the relaxed envelope (80 - 20) but not the strict
	// one (80 - 80 = 0).
	relaxedFit := FitFootprint(plan, false, 50, 55, 15)
	strictFit := FitFootprint(plan, true, 50, 55, 15)
	assert.True(t, relaxedFit.Fits)
	assert.False(t, strictFit.Fits)
}

func TestFitFootprintRotationSearch(t *testing.T) {
	// A long thin parcel tilted 45 degrees: the footprint only fits once the
	// frame rotates back to axis-aligned.
	half := 45.0
	thin := 6.0
	rot := func(x, y float64) model2d.Coord {
		// rotate (x, y) by 45 degrees
		s := 0.7071067811865476
		return model2d.Coord{X: x*s - y*s, Y: x*s + y*s}
	}
	p := &Parcel{
		ID:   "tilted",
		Unit: "ft",
		Edges: []Edge{
			{Side: SideFront, Line: []model2d.Coord{rot(-half, -thin), rot(half, -thin)}},
			{Side: SideExterior, Line: []model2d.Coord{rot(half, -thin), rot(half, thin)}},
			{Side: SideRear, Line: []model2d.Coord{rot(half, thin), rot(-half, thin)}},
			{Side: SideInterior, Line: []model2d.Coord{rot(-half, thin), rot(-half, -thin)}},
		},
	}
	plan := AssignSetbacks(p, resolve.Table{}, nil, 0)

	res := FitFootprint(plan, false, 70, 8, 15)
	require.True(t, res.Fits)
	assert.InDelta(t, 45, res.RotationDeg, 1e-9)
}

func TestFitFootprintDegenerate(t *testing.T) {
	p := rectParcel("1", 100, 80)
	plan := AssignSetbacks(p, resolve.Table{}, nil, 0)
	assert.False(t, FitFootprint(plan, false, 0, 50, 15).Fits)

	empty := &Parcel{ID: "none", Unit: "ft"}
	assert.False(t, FitFootprint(AssignSetbacks(empty, resolve.Table{}, nil, 0), false, 10, 10, 15).Fits)
}
