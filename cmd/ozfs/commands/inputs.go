package commands

import (
	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/ingest"
	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/facts"
	"github.com/openzoning/ozfs/zoning/geom"
)

// loadInputs reads the zoning document first so the building summary can use
// its roof-type height definitions.
func loadInputs(buildingPath, zoningPath string) (*facts.Building, *zoning.Document, error) {
	doc, err := ingest.ReadZoning(zoningPath)
	if err != nil {
		return nil, nil, err
	}
	b, err := ingest.ReadBuilding(buildingPath, doc.Definitions.Height)
	if err != nil {
		return nil, nil, err
	}
	return b, doc, nil
}

// pickParcel finds one parcel by id in a parcel file.
func pickParcel(parcelPath, parcelID string) (*geom.Parcel, error) {
	parcels, err := ingest.ReadParcels(parcelPath)
	if err != nil {
		return nil, err
	}
	for _, p := range parcels {
		if p.ID == parcelID {
			return p, nil
		}
	}
	return nil, errors.NewNotFound("parcel %q", parcelID)
}
