package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/unixpickle/model3d/model2d"

	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/logger"
	"github.com/openzoning/ozfs/zoning/geom"
)

// Parcel GeoJSON: a FeatureCollection whose LineString features are labeled
// parcel edges (properties parcel_id and side) and whose Point features are
// parcel centroids. A top-level "unit" member names the linear unit of the
// coordinates, feet when absent.

type featureCollection struct {
	Type     string    `json:"type"`
	Unit     string    `json:"unit"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string          `json:"type"`
	Geometry   geometry        `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type edgeProperties struct {
	ParcelID flexID `json:"parcel_id"`
	Side     string `json:"side"`
}

// flexID tolerates numeric parcel ids in exported layers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexID(num.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexID(s)
	return nil
}

// DecodeParcels reads a parcel FeatureCollection, grouping features into
// parcels by parcel_id while preserving first-seen order. Unknown side
// labels are kept verbatim; they simply resolve to no setback downstream.
// Features without a parcel_id are skipped with a warning.
func DecodeParcels(r io.Reader) ([]*geom.Parcel, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, errors.WrapInvalidDocument(err, "decoding parcel GeoJSON")
	}
	if fc.Type != "FeatureCollection" {
		return nil, errors.Wrapf(errors.ErrUnsupportedSchema,
			"expected FeatureCollection, got %q", fc.Type)
	}
	unit := fc.Unit
	if unit == "" {
		unit = "ft"
	}

	byID := make(map[string]*geom.Parcel)
	var order []*geom.Parcel
	for i, feat := range fc.Features {
		var props edgeProperties
		if len(feat.Properties) > 0 {
			if err := json.Unmarshal(feat.Properties, &props); err != nil {
				return nil, errors.WrapInvalidDocument(err, fmt.Sprintf("feature %d properties", i))
			}
		}
		if props.ParcelID == "" {
			logger.Warnw("parcel feature without parcel_id skipped", "feature", i)
			continue
		}

		p := byID[string(props.ParcelID)]
		if p == nil {
			p = &geom.Parcel{ID: string(props.ParcelID), Unit: unit}
			byID[p.ID] = p
			order = append(order, p)
		}

		switch feat.Geometry.Type {
		case "LineString":
			line, err := decodeLine(feat.Geometry.Coordinates)
			if err != nil {
				return nil, errors.WrapInvalidDocument(err, fmt.Sprintf("feature %d geometry", i))
			}
			p.Edges = append(p.Edges, geom.Edge{Side: props.Side, Line: line})
		case "Point":
			pt, err := decodePoint(feat.Geometry.Coordinates)
			if err != nil {
				return nil, errors.WrapInvalidDocument(err, fmt.Sprintf("feature %d geometry", i))
			}
			p.Centroid = pt
		default:
			logger.Warnw("unsupported parcel geometry skipped",
				"feature", i, "type", feat.Geometry.Type)
		}
	}
	return order, nil
}

// ReadParcels reads a parcel GeoJSON file.
func ReadParcels(path string) ([]*geom.Parcel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening parcel file %s", path)
	}
	defer f.Close()

	parcels, err := DecodeParcels(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading parcel file %s", path)
	}
	return parcels, nil
}

func decodeLine(raw json.RawMessage) ([]model2d.Coord, error) {
	var pairs [][]float64
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, err
	}
	if len(pairs) < 2 {
		return nil, errors.New("LineString needs at least two positions")
	}
	line := make([]model2d.Coord, len(pairs))
	for i, pair := range pairs {
		if len(pair) < 2 {
			return nil, errors.Newf("position %d has %d ordinates", i, len(pair))
		}
		line[i] = model2d.Coord{X: pair[0], Y: pair[1]}
	}
	return line, nil
}

func decodePoint(raw json.RawMessage) (model2d.Coord, error) {
	var pair []float64
	if err := json.Unmarshal(raw, &pair); err != nil {
		return model2d.Coord{}, err
	}
	if len(pair) < 2 {
		return model2d.Coord{}, errors.New("Point needs two ordinates")
	}
	return model2d.Coord{X: pair[0], Y: pair[1]}, nil
}
