// Package ingest reads the three input documents of a zoning run: building
// submissions, OZFS zoning documents, and parcel GeoJSON. Readers validate
// shape, not policy; semantic defaults live in the packages that consume
// the decoded values.
package ingest

import (
	"encoding/json"
	"io"
	"os"

	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/facts"
)

// DecodeBuilding reads a raw building submission and condenses it into its
// summary row. heightDefs may be nil when no zoning document is in play;
// the regulated height then falls back to height_top.
func DecodeBuilding(r io.Reader, heightDefs []zoning.HeightDefinition) (*facts.Building, error) {
	var in facts.BuildingInput
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return nil, errors.WrapInvalidDocument(err, "decoding building submission")
	}
	return facts.Summarize(&in, heightDefs)
}

// ReadBuilding reads a building submission file.
func ReadBuilding(path string, heightDefs []zoning.HeightDefinition) (*facts.Building, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening building file %s", path)
	}
	defer f.Close()

	b, err := DecodeBuilding(f, heightDefs)
	if err != nil {
		return nil, errors.Wrapf(err, "reading building file %s", path)
	}
	return b, nil
}

// ReadZoning reads an OZFS zoning document file.
func ReadZoning(path string) (*zoning.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening zoning file %s", path)
	}
	doc, err := zoning.DecodeDocument(data)
	if err != nil {
		return nil, errors.Wrapf(err, "reading zoning file %s", path)
	}
	return doc, nil
}
