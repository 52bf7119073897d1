package resolve

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/facts"
)

const resolverDistrict = `{
  "zoning_id": "R-2",
  "dist_info": {
    "dist_name": "Two Family Residential",
    "uses_permitted": {"uses_value": ["1_unit", "2_unit"]}
  },
  "structure_constraints": {
    "height": [
      {"use_name": ["1_unit", "2_unit"], "max_val": [
        {"expressions": ["38", "40"], "select": "either"}
      ], "unit": "ft"}
    ],
    "setback_front": [
      {"use_name": ["1_unit", "2_unit"], "min_val": 20, "unit": "ft"}
    ],
    "stories": [
      {"use_name": ["4_plus"], "max_val": 6}
    ]
  },
  "lot_constraints": {
    "lot_area": [
      {"use_name": ["1_unit", "2_unit"], "min_val": "5000", "unit": "sqft"}
    ]
  },
  "other_constraints": {
    "far": [
      {"use_name": ["1_unit", "2_unit"], "max_val": "NA"}
    ]
  }
}`

func decodeDistrict(t *testing.T) *zoning.District {
	t.Helper()
	var d zoning.District
	require.NoError(t, json.Unmarshal([]byte(resolverDistrict), &d))
	return &d
}

func twoUnitBuilding() *facts.Building {
	return &facts.Building{
		Type:       "2_unit",
		Height:     35,
		TotalUnits: 2,
		Units1Bed:  2,
	}
}

func TestResolveTable(t *testing.T) {
	table := Resolve(twoUnitBuilding(), decodeDistrict(t), facts.LotMetrics{})

	// The 4_plus stories row does not apply, and the all-NA far row drops.
	assert.False(t, table.Has("stories"))
	assert.False(t, table.Has("far"))

	height, ok := table.Find("height")
	require.True(t, ok)
	assert.Equal(t, zoning.GroupStructure, height.Group)
	lo, hi, ok := height.MaxValue.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 38, lo, 1e-9)
	assert.InDelta(t, 40, hi, 1e-9)
	assert.Equal(t, "either", height.MaxSelect)
	assert.True(t, height.MinValue.IsNull())

	front, ok := table.Find("setback_front")
	require.True(t, ok)
	f, ok := front.MinValue.Low()
	require.True(t, ok)
	assert.InDelta(t, 20, f, 1e-9)
	assert.Equal(t, "ft", front.Unit)

	lotArea, ok := table.Find("lot_area")
	require.True(t, ok)
	assert.Equal(t, zoning.GroupLot, lotArea.Group)
	f, _ = lotArea.MinValue.Low()
	assert.InDelta(t, 5000, f, 1e-9)
}

func TestResolveSkipsOtherUseTypes(t *testing.T) {
	b := &facts.Building{Units2Bed: 5} // 4_plus
	table := Resolve(b, decodeDistrict(t), facts.LotMetrics{})

	assert.True(t, table.Has("stories"))
	assert.False(t, table.Has("height"))
}

func TestResolveDeterministic(t *testing.T) {
	b := twoUnitBuilding()
	d := decodeDistrict(t)
	first := Resolve(b, d, facts.LotMetrics{})
	second := Resolve(b, d, facts.LotMetrics{})
	assert.Equal(t, first, second)
}

func TestResolveJSONRoundTrip(t *testing.T) {
	table := Resolve(twoUnitBuilding(), decodeDistrict(t), facts.LotMetrics{})
	raw, err := json.Marshal(table)
	require.NoError(t, err)

	var back Table
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Len(t, back, len(table))
	for i := range table {
		assert.Equal(t, table[i].SpecType, back[i].SpecType)
		assert.Equal(t, table[i].MinValue, back[i].MinValue)
		assert.Equal(t, table[i].MaxValue, back[i].MaxValue)
	}
}
