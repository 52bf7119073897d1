package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/zoning/geom"
)

const sampleParcels = `{
  "type": "FeatureCollection",
  "unit": "m",
  "features": [
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [30, 0]]},
     "properties": {"parcel_id": "17", "side": "front"}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[30, 0], [30, 20]]},
     "properties": {"parcel_id": 17, "side": "Exterior side"}},
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [15, 10]},
     "properties": {"parcel_id": "17", "side": "centroid"}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [0, 20]]},
     "properties": {"parcel_id": "18", "side": "front"}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[5, 5], [6, 6]]},
     "properties": {"side": "front"}},
    {"type": "Feature",
     "geometry": {"type": "MultiPolygon", "coordinates": []},
     "properties": {"parcel_id": "18", "side": "rear"}}
  ]
}`

func TestDecodeParcels(t *testing.T) {
	parcels, err := DecodeParcels(strings.NewReader(sampleParcels))
	require.NoError(t, err)
	require.Len(t, parcels, 2)

	p := parcels[0]
	assert.Equal(t, "17", p.ID)
	assert.Equal(t, "m", p.Unit)
	require.Len(t, p.Edges, 2)
	assert.Equal(t, geom.SideFront, p.Edges[0].Side)
	assert.Equal(t, geom.SideExterior, p.Edges[1].Side)
	assert.InDelta(t, 15, p.Centroid.X, 1e-9)
	assert.InDelta(t, 10, p.Centroid.Y, 1e-9)

	// Numeric and string parcel ids group together; first-seen order holds.
	assert.Equal(t, "18", parcels[1].ID)

	// The unsupported MultiPolygon was skipped, not fatal.
	assert.Len(t, parcels[1].Edges, 1)
}

func TestDecodeParcelsUnitDefault(t *testing.T) {
	raw := `{"type": "FeatureCollection", "features": [
	  {"type": "Feature",
	   "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
	   "properties": {"parcel_id": "a", "side": "front"}}
	]}`
	parcels, err := DecodeParcels(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, parcels, 1)
	assert.Equal(t, "ft", parcels[0].Unit)
}

func TestDecodeParcelsRejectsNonCollection(t *testing.T) {
	_, err := DecodeParcels(strings.NewReader(`{"type": "Feature"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedSchema))
}

func TestDecodeParcelsBadGeometry(t *testing.T) {
	raw := `{"type": "FeatureCollection", "features": [
	  {"type": "Feature",
	   "geometry": {"type": "LineString", "coordinates": [[0, 0]]},
	   "properties": {"parcel_id": "a", "side": "front"}}
	]}`
	_, err := DecodeParcels(strings.NewReader(raw))
	assert.Error(t, err)
}

const sampleBuilding = `{
  "bldg_info": {"height_top": 28, "width": 40, "depth": 50, "roof_type": "gable", "height_eave": 20},
  "unit_info": [
    {"bedrooms": 2, "fl_area": 900, "qty": 2}
  ],
  "level_info": [
    {"level": 1, "gross_fl_area": 1000},
    {"level": 2, "gross_fl_area": 800}
  ]
}`

func TestDecodeBuilding(t *testing.T) {
	b, err := DecodeBuilding(strings.NewReader(sampleBuilding), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, b.TotalUnits)
	assert.Equal(t, 2, b.Stories)
	assert.InDelta(t, 28, b.Height, 1e-9)
	assert.Equal(t, "2_unit", b.UseType())
}

func TestDecodeBuildingInvalid(t *testing.T) {
	_, err := DecodeBuilding(strings.NewReader(`{"bldg_info": {}}`), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidDocument))
}

func TestReadMissingFiles(t *testing.T) {
	_, err := ReadBuilding("/nonexistent/bldg.json", nil)
	assert.Error(t, err)
	_, err = ReadZoning("/nonexistent/doc.json")
	assert.Error(t, err)
	_, err = ReadParcels("/nonexistent/parcels.geojson")
	assert.Error(t, err)
}
