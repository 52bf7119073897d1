package zoning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "definitions": {
    "height": [
      {"roof_type": "flat", "expression": "height_top"},
      {"roof_type": "gable", "expression": "(height_top + height_eave) / 2"}
    ]
  },
  "districts": [
    {
      "zoning_id": "R-1",
      "dist_info": {
        "dist_name": "Single Family Residential",
        "uses_permitted": {"uses_value": ["1_unit", "2_unit"]}
      },
      "structure_constraints": {
        "height": [
          {
            "use_name": ["1_unit", "2_unit"],
            "max_val": [
              {"expressions": ["38", "40"], "select": "either"}
            ],
            "unit": "feet"
          }
        ],
        "setback_front": [
          {
            "use_name": ["1_unit"],
            "min_val": {"expression": "20"},
            "unit": "feet"
          }
        ]
      },
      "lot_constraints": {
        "lot_size": [
          {"use_name": ["1_unit"], "min_val": 5000, "unit": "sqft"}
        ]
      }
    },
    {
      "zoning_id": 7,
      "dist_info": {
        "dist_name": "Open Space",
        "uses_permitted": {"uses_value": []}
      }
    }
  ]
}`

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument([]byte(sampleDocument))
	require.NoError(t, err)
	require.Len(t, doc.Districts, 2)

	r1 := doc.Districts[0]
	assert.Equal(t, "R-1", r1.ID)
	assert.Equal(t, "Single Family Residential", r1.Info.Name)
	assert.True(t, r1.HasConstraints())

	// Numeric zoning_id decodes to its textual form.
	assert.Equal(t, "7", doc.Districts[1].ID)
	assert.False(t, doc.Districts[1].HasConstraints())
}

func TestDecodeDocumentInvalid(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"districts": [{]}`))
	require.Error(t, err)
}

func TestDistrictLookup(t *testing.T) {
	doc, err := DecodeDocument([]byte(sampleDocument))
	require.NoError(t, err)

	d, err := doc.District("R-1")
	require.NoError(t, err)
	assert.Equal(t, "Single Family Residential", d.Info.Name)

	_, err = doc.District("C-9")
	require.Error(t, err)
}

func TestPermits(t *testing.T) {
	uses := UsesPermitted{UsesValue: []string{"1_unit", "2_unit"}}
	assert.True(t, uses.Permits("1_unit"))
	assert.False(t, uses.Permits("4_plus"))
	assert.False(t, uses.Permits("other"))
	assert.False(t, UsesPermitted{}.Permits("1_unit"))
}

func TestFlatConstraintsOrder(t *testing.T) {
	doc, err := DecodeDocument([]byte(sampleDocument))
	require.NoError(t, err)

	flat := doc.Districts[0].FlatConstraints()
	require.Len(t, flat, 3)

	// Structure group comes first (spec types sorted within a group),
	// lot group last.
	assert.Equal(t, GroupStructure, flat[0].Group)
	assert.Equal(t, "height", flat[0].SpecType)
	assert.Equal(t, GroupStructure, flat[1].Group)
	assert.Equal(t, SpecSetbackFront, flat[1].SpecType)
	assert.Equal(t, GroupLot, flat[2].Group)
	assert.Equal(t, "lot_size", flat[2].SpecType)
}

func TestRuleSpecShapes(t *testing.T) {
	var def ConstraintDef
	require.NoError(t, json.Unmarshal([]byte(`{
	  "use_name": "1_unit",
	  "min_val": 5000,
	  "max_val": [{"conditions": "total_units > 3", "expression": 12000}],
	  "unit": "sqft"
	}`), &def))

	assert.Equal(t, StringList{"1_unit"}, def.UseName)
	require.NotNil(t, def.MinVal.Literal)
	assert.Equal(t, 5000.0, *def.MinVal.Literal)

	require.Len(t, def.MaxVal.List, 1)
	assert.Equal(t, StringList{"total_units > 3"}, def.MaxVal.List[0].Conditions)
	assert.Equal(t, FlexString("12000"), def.MaxVal.List[0].Expression)
}

func TestRuleSpecSingleObject(t *testing.T) {
	var spec RuleSpec
	require.NoError(t, json.Unmarshal([]byte(`{"expression": "NA"}`), &spec))
	require.NotNil(t, spec.Single)
	assert.Equal(t, FlexString("NA"), spec.Single.Expression)
	assert.False(t, spec.IsZero())
}

func TestRuleSpecBareString(t *testing.T) {
	var spec RuleSpec
	require.NoError(t, json.Unmarshal([]byte(`"lot_width * 0.4"`), &spec))
	assert.Equal(t, "lot_width * 0.4", spec.Expr)
}

func TestRuleSpecNull(t *testing.T) {
	var spec RuleSpec
	require.NoError(t, json.Unmarshal([]byte(`null`), &spec))
	assert.True(t, spec.IsZero())

	var absent *RuleSpec
	assert.True(t, absent.IsZero())
}

func TestRuleSpecRejectsBoolean(t *testing.T) {
	var spec RuleSpec
	err := json.Unmarshal([]byte(`true`), &spec)
	require.Error(t, err)
}

func TestHeightExpression(t *testing.T) {
	doc, err := DecodeDocument([]byte(sampleDocument))
	require.NoError(t, err)

	exprStr, ok := doc.HeightExpression("gable")
	require.True(t, ok)
	assert.Equal(t, "(height_top + height_eave) / 2", exprStr)

	_, ok = doc.HeightExpression("mansard")
	assert.False(t, ok)
}
