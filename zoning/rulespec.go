package zoning

import (
	"bytes"
	"encoding/json"

	"github.com/openzoning/ozfs/errors"
)

// RuleSpec is the polymorphic min_val/max_val field of a constraint
// definition. In OZFS JSON it may be a bare number, a bare expression
// string, a single expression object, or a list of conditional rules.
// Exactly one of the fields below is populated after decoding.
type RuleSpec struct {
	// Literal is set when the bound is a bare JSON number.
	Literal *float64

	// Expr is set when the bound is a bare JSON string. The string "NA"
	// resolves to a null bound; anything else is evaluated as an expression.
	Expr string

	// Single is set when the bound is one JSON object. Only its Expression
	// is honored; conditions on a single object are ignored.
	Single *CondRule

	// List is set when the bound is a JSON array of conditional rules.
	List []CondRule
}

// IsZero reports whether the spec is absent (JSON null or never set).
func (r *RuleSpec) IsZero() bool {
	return r == nil || (r.Literal == nil && r.Expr == "" && r.Single == nil && r.List == nil)
}

// UnmarshalJSON dispatches on the JSON shape of the bound value.
func (r *RuleSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '[':
		return json.Unmarshal(data, &r.List)
	case '{':
		r.Single = &CondRule{}
		return json.Unmarshal(data, r.Single)
	case '"':
		return json.Unmarshal(data, &r.Expr)
	case 't', 'f':
		return errors.Wrapf(errors.ErrInvalidDocument, "boolean bound value %s", data)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return errors.WrapInvalidDocument(err, "bound value")
		}
		r.Literal = &f
		return nil
	}
}

// CondRule is one conditional rule inside a bound spec: optional boolean
// conditions, one expression or several candidates, and a selection strategy
// for reducing multiple candidates.
type CondRule struct {
	Conditions      StringList   `json:"conditions"`
	LogicalOperator string       `json:"logical_operator"`
	Expression      FlexString   `json:"expression"`
	Expressions     []FlexString `json:"expressions"`
	Select          string       `json:"select"`
	SelectInfo      string       `json:"select_info"`
}

// StringList decodes either a single JSON string or an array of strings.
type StringList []string

// UnmarshalJSON accepts "x" and ["x", "y"].
func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// FlexString decodes a JSON string or number into its textual form, since
// expression fields in OZFS documents are written both ways.
type FlexString string

// UnmarshalJSON keeps the literal text of numbers and the value of strings.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*f = FlexString(num.String())
	return nil
}
