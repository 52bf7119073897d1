// Package zoning defines the OZFS zoning-document model: districts, their
// permitted uses, and the declarative constraint definitions that the
// resolver turns into numeric bounds.
//
// OZFS documents are JSON. Constraint bound fields are polymorphic (bare
// literal, single expression object, or list of conditional rules), so the
// bound types carry custom decoding; see rulespec.go.
package zoning

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/openzoning/ozfs/errors"
)

// Group names for the three constraint groups a district may carry, in the
// order they are flattened.
const (
	GroupStructure = "structure_constraints"
	GroupOther     = "other_constraints"
	GroupLot       = "lot_constraints"
)

// Well-known spec-type tags consumed by the setback resolver.
const (
	SpecSetbackFront        = "setback_front"
	SpecSetbackSideInterior = "setback_side_int"
	SpecSetbackSideExterior = "setback_side_ext"
	SpecSetbackRear         = "setback_rear"
	SpecSetbackDistBoundary = "setback_dist_boundary"
	SpecSetbackSideSum      = "setback_side_sum"
	SpecSetbackFrontSum     = "setback_front_sum"
)

// Document is one OZFS zoning document: a set of districts plus optional
// shared definitions (such as roof-type-conditioned height formulas).
type Document struct {
	Districts   []District  `json:"districts"`
	Definitions Definitions `json:"definitions"`
}

// Definitions holds document-level derived-quantity formulas.
type Definitions struct {
	Height []HeightDefinition `json:"height"`
}

// HeightDefinition maps a roof type to the expression computing the
// regulated building height from height_top/height_eave/height_deck.
type HeightDefinition struct {
	RoofType   string `json:"roof_type"`
	Expression string `json:"expression"`
}

// District is one zoning district: identity, permitted uses, and up to three
// constraint groups.
type District struct {
	ID                   string          `json:"zoning_id"`
	Info                 DistrictInfo    `json:"dist_info"`
	StructureConstraints ConstraintGroup `json:"structure_constraints"`
	LotConstraints       ConstraintGroup `json:"lot_constraints"`
	OtherConstraints     ConstraintGroup `json:"other_constraints"`
}

// UnmarshalJSON accepts zoning_id as either a JSON string or a number, since
// exported district layers commonly use their row index as the id.
func (d *District) UnmarshalJSON(data []byte) error {
	type alias District
	aux := struct {
		ID json.Number `json:"zoning_id"`
		*alias
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.ID = aux.ID.String()
	return nil
}

// DistrictInfo carries district metadata and the permitted-use list.
type DistrictInfo struct {
	Name          string        `json:"dist_name"`
	UsesPermitted UsesPermitted `json:"uses_permitted"`
}

// UsesPermitted lists the building use-type tags allowed in a district.
type UsesPermitted struct {
	UsesValue []string `json:"uses_value"`
}

// Permits reports whether useType is allowed in the district. The "other"
// tag is never permitted, and an empty permitted list denies everything.
func (u UsesPermitted) Permits(useType string) bool {
	if useType == "other" || len(u.UsesValue) == 0 {
		return false
	}
	for _, use := range u.UsesValue {
		if use == useType {
			return true
		}
	}
	return false
}

// ConstraintGroup maps a spec-type tag (height, far, setback_front, ...) to
// the constraint definitions recorded for it.
type ConstraintGroup map[string][]ConstraintDef

// sortedKeys returns the group's spec-type tags in sorted order, so
// flattening the same document always yields the same table.
func (g ConstraintGroup) sortedKeys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConstraintDef is one declarative zoning constraint: the uses it applies
// to, polymorphic min/max bound specs, and the unit its values are in.
type ConstraintDef struct {
	UseName StringList `json:"use_name"`
	MinVal  *RuleSpec  `json:"min_val"`
	MaxVal  *RuleSpec  `json:"max_val"`
	Unit    string     `json:"unit"`
}

// AppliesTo reports whether the definition covers the given use type.
func (d ConstraintDef) AppliesTo(useType string) bool {
	for _, use := range d.UseName {
		if use == useType {
			return true
		}
	}
	return false
}

// FlatConstraint is a constraint definition joined with its group and
// spec-type tags, produced by flattening a district's nested groups.
type FlatConstraint struct {
	Group    string
	SpecType string
	Def      ConstraintDef
}

// FlatConstraints flattens the district's constraint groups in the canonical
// order: structure, other, lot. Within a group the document's spec-type and
// definition order is preserved.
func (d District) FlatConstraints() []FlatConstraint {
	var out []FlatConstraint
	for _, group := range []struct {
		name string
		cg   ConstraintGroup
	}{
		{GroupStructure, d.StructureConstraints},
		{GroupOther, d.OtherConstraints},
		{GroupLot, d.LotConstraints},
	} {
		for _, specType := range group.cg.sortedKeys() {
			for _, def := range group.cg[specType] {
				out = append(out, FlatConstraint{
					Group:    group.name,
					SpecType: specType,
					Def:      def,
				})
			}
		}
	}
	return out
}

// HasConstraints reports whether the district carries any constraint
// definitions at all. Districts without constraints are "no requirements":
// everything is allowed by default.
func (d District) HasConstraints() bool {
	return len(d.StructureConstraints) > 0 ||
		len(d.LotConstraints) > 0 ||
		len(d.OtherConstraints) > 0
}

// DecodeDocument parses an OZFS document. Districts without an explicit
// zoning_id get their input position as id.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapInvalidDocument(err, "decoding OZFS document")
	}
	for i := range doc.Districts {
		if doc.Districts[i].ID == "" {
			doc.Districts[i].ID = strconv.Itoa(i)
		}
	}
	return &doc, nil
}

// District returns the district with the given id.
func (doc *Document) District(id string) (*District, error) {
	for i := range doc.Districts {
		if doc.Districts[i].ID == id {
			return &doc.Districts[i], nil
		}
	}
	return nil, errors.NewNotFound("district %q", id)
}

// HeightExpression returns the height formula matching roofType, if any.
func (doc *Document) HeightExpression(roofType string) (string, bool) {
	for _, def := range doc.Definitions.Height {
		if def.RoofType == roofType && def.Expression != "" {
			return def.Expression, true
		}
	}
	return "", false
}
