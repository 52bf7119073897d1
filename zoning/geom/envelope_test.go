package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/resolve"
)

func TestBuildableNoSetbacks(t *testing.T) {
	p := rectParcel("1", 40, 30)
	plan := AssignSetbacks(p, resolve.Table{}, nil, 0)

	env := Buildable(plan, false, 0)
	require.True(t, env.HasBuildableArea())

	// Every cell center inside the parcel is buildable.
	assert.Equal(t, 40*30, env.Mask.Count())
	assert.InDelta(t, 1200, env.AreaSqFt, 1e-9)
}

func TestBuildableWithSetbacks(t *testing.T) {
	p := rectParcel("1", 40, 30)
	table := resolve.Table{
		setbackRow(zoning.SpecSetbackFront, resolve.Scalar(10), "ft"),
	}
	plan := AssignSetbacks(p, table, nil, 0)

	env := Buildable(plan, false, 0)
	require.True(t, env.HasBuildableArea())
	assert.Less(t, env.Mask.Count(), 40*30)

	// Cells near the front edge (y = 0) are buffered away.
	assert.False(t, env.Mask.Get(20, 0))
	assert.True(t, env.Mask.Get(20, 15))
}

func TestBuildableConsumedEntirely(t *testing.T) {
	p := rectParcel("1", 40, 30)
	table := resolve.Table{
		setbackRow(zoning.SpecSetbackFront, resolve.Scalar(100), "ft"),
	}
	plan := AssignSetbacks(p, table, nil, 0)

	env := Buildable(plan, false, 0)
	assert.False(t, env.HasBuildableArea())
	assert.Zero(t, env.AreaSqFt)
}

func TestBuildableUnpolygonizableParcel(t *testing.T) {
	p := &Parcel{ID: "line", Unit: "ft"}
	plan := AssignSetbacks(p, resolve.Table{}, nil, 0)
	env := Buildable(plan, false, 0)
	assert.False(t, env.HasBuildableArea())
}

func TestEnvelopesRelaxedCoversStrict(t *testing.T) {
	p := rectParcel("1", 60, 40)
	table := resolve.Table{
		setbackRow(zoning.SpecSetbackFront, resolve.Range([]float64{5, 15}), "ft"),
	}
	plan := AssignSetbacks(p, table, nil, 0)

	relaxed, strict := Envelopes(plan)
	require.NotNil(t, strict)
	assert.GreaterOrEqual(t, relaxed.Mask.Count(), strict.Mask.Count())

	// Strict cells are a subset of relaxed cells.
	for y := 0; y < strict.Mask.H; y++ {
		for x := 0; x < strict.Mask.W; x++ {
			if strict.Mask.Get(x, y) {
				assert.True(t, relaxed.Mask.Get(x, y), "cell (%d,%d)", x, y)
			}
		}
	}
}

func TestEnvelopesSingleValued(t *testing.T) {
	p := rectParcel("1", 60, 40)
	table := resolve.Table{
		setbackRow(zoning.SpecSetbackFront, resolve.Scalar(10), "ft"),
	}
	plan := AssignSetbacks(p, table, nil, 0)

	relaxed, strict := Envelopes(plan)
	assert.NotNil(t, relaxed)
	assert.Nil(t, strict)
}

func TestKeepLargestRegion(t *testing.T) {
	m := NewMask(7, 3, 0, 0)
	// Two regions separated by an empty column: 4 cells and 2 cells.
	for _, c := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {5, 0}, {5, 1}} {
		m.Set(c[0], c[1], true)
	}
	keepLargestRegion(m)
	assert.Equal(t, 4, m.Count())
	assert.True(t, m.Get(0, 0))
	assert.False(t, m.Get(5, 0))
}

func TestMaskBounds(t *testing.T) {
	m := NewMask(4, 4, 0, 0)
	m.Set(2, 2, true)
	assert.True(t, m.Get(2, 2))
	assert.False(t, m.Get(-1, 0))
	assert.False(t, m.Get(0, 4))
	assert.False(t, m.Empty())
	assert.True(t, NewMask(0, 0, 0, 0).Empty())
}
