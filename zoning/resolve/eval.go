// Package resolve turns declarative OZFS constraint definitions into
// concrete numeric bounds. The rule interpreter evaluates one polymorphic
// bound spec against a fact environment; the resolver walks a district's
// flattened constraints and builds the resolved-constraint table the
// compliance checks and the setback resolver consume.
package resolve

import (
	"strings"

	"github.com/openzoning/ozfs/internal/util"
	"github.com/openzoning/ozfs/zoning"
	"github.com/openzoning/ozfs/zoning/expr"
)

// DefaultNote annotates multi-valued bounds whose rules carry no
// select_info of their own.
const DefaultNote = "unique requirements not specified"

// Evaluate resolves one bound spec against the fact environment. It returns
// the bound value, the human-readable disambiguation note, and the selection
// strategy tag that applied.
//
// A literal resolves to itself. A bare expression string resolves by
// evaluation, with "NA" meaning no bound. A rule list accumulates the result
// of every entry: entries whose conditions hold contribute their single
// expression, and candidate lists under "expressions" contribute regardless
// of conditions, reduced by the entry's select strategy (min, max, or the
// deduplicated set for unique/either). One accumulated value is a scalar;
// several squeeze to their [min, max] range.
//
// Any evaluation failure poisons the whole bound: the value becomes the
// unresolvable sentinel and the select tag becomes ErrorSentinel, which the
// range checker treats as fail-open.
func Evaluate(spec *zoning.RuleSpec, env expr.Env) (Value, string, string) {
	switch {
	case spec.IsZero():
		return NullValue, "", ""
	case spec.Literal != nil:
		return Scalar(*spec.Literal), "", ""
	case spec.Expr != "":
		return evalSingle(spec.Expr, env)
	case spec.Single != nil:
		// Conditions on a lone rule object are not honored; only its
		// expression counts.
		if spec.Single.Expression == "" {
			return NullValue, "", ""
		}
		return evalSingle(string(spec.Single.Expression), env)
	default:
		return evalRules(spec.List, env)
	}
}

// evalSingle resolves a bare expression bound. "NA" (any case) is the
// documents' way of writing "no bound on this side".
func evalSingle(expression string, env expr.Env) (Value, string, string) {
	if strings.EqualFold(strings.TrimSpace(expression), "NA") {
		return NullValue, "", ""
	}
	f, err := evalNumber(expression, env)
	if err != nil {
		return Unresolvable, "", ErrorSentinel
	}
	return Scalar(f), "", ""
}

// evalRules walks a conditional-rule list, accumulating every contribution.
func evalRules(rules []zoning.CondRule, env expr.Env) (Value, string, string) {
	var results []float64
	var note, sel string

	for i := range rules {
		rule := &rules[i]
		if rule.Select != "" {
			sel = rule.Select
		}

		met, err := conditionsMet(rule, env)
		if err != nil {
			return Unresolvable, "", ErrorSentinel
		}

		if met && rule.Expression != "" {
			f, err := evalNumber(string(rule.Expression), env)
			if err != nil {
				return Unresolvable, "", ErrorSentinel
			}
			results = append(results, f)
		}

		// Candidate lists contribute even when the entry's conditions do
		// not hold; conditions only gate the single-expression form.
		if len(rule.Expressions) > 0 {
			candidates := make([]float64, 0, len(rule.Expressions))
			for _, e := range rule.Expressions {
				f, err := evalNumber(string(e), env)
				if err != nil {
					return Unresolvable, "", ErrorSentinel
				}
				candidates = append(candidates, f)
			}
			switch rule.Select {
			case "min":
				lo, _ := util.MinMax(candidates)
				results = append(results, lo)
			case "max":
				_, hi := util.MinMax(candidates)
				results = append(results, hi)
			case "unique", "either":
				results = append(results, dedupe(candidates)...)
			default:
				results = append(results, candidates...)
			}
			if rule.SelectInfo != "" {
				note = rule.SelectInfo
			} else if note == "" {
				note = DefaultNote
			}
		}
	}

	if len(results) == 0 {
		return Unresolvable, note, sel
	}
	return Range(results), note, sel
}

// conditionsMet combines the rule's condition expressions under its logical
// operator. No conditions means the rule always applies; an unrecognized
// operator falls back to AND.
func conditionsMet(rule *zoning.CondRule, env expr.Env) (bool, error) {
	if len(rule.Conditions) == 0 {
		return true, nil
	}
	anyMode := strings.EqualFold(rule.LogicalOperator, "OR")
	met := !anyMode
	for _, cond := range rule.Conditions {
		v, err := expr.Eval(cond, env)
		if err != nil {
			return false, err
		}
		if anyMode {
			met = met || v.Truthy()
		} else {
			met = met && v.Truthy()
		}
	}
	return met, nil
}

// evalNumber evaluates an expression expected to produce a numeric bound.
func evalNumber(expression string, env expr.Env) (float64, error) {
	v, err := expr.Eval(expression, env)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsNumber()
	if !ok {
		return 0, errNotNumeric(expression, v)
	}
	return f, nil
}

// dedupe drops duplicate candidates while keeping first-seen order.
func dedupe(vals []float64) []float64 {
	seen := make(map[float64]bool, len(vals))
	out := vals[:0]
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
