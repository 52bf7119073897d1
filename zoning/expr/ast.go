package expr

import (
	"math"

	"github.com/openzoning/ozfs/errors"
)

// Node is a parsed expression. Evaluation never panics; every failure mode
// surfaces as an error so callers can map it to an unresolvable constraint.
type Node interface {
	eval(env Env) (Value, error)
}

type numberLit float64

func (n numberLit) eval(Env) (Value, error) { return Number(float64(n)), nil }

type stringLit string

func (n stringLit) eval(Env) (Value, error) { return String(string(n)), nil }

type boolLit bool

func (n boolLit) eval(Env) (Value, error) { return Bool(bool(n)), nil }

type identNode string

func (n identNode) eval(env Env) (Value, error) {
	v, ok := env[string(n)]
	if !ok {
		return Null, errors.Newf("expr: unknown variable %q", string(n))
	}
	return v, nil
}

type unaryNode struct {
	op      string
	operand Node
}

func (n unaryNode) eval(env Env) (Value, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return Null, err
	}
	switch n.op {
	case "-":
		f, ok := v.AsNumber()
		if !ok {
			return Null, errors.Newf("expr: cannot negate %s", v)
		}
		return Number(-f), nil
	case "not", "!":
		return Bool(!v.Truthy()), nil
	}
	return Null, errors.Newf("expr: unknown unary operator %q", n.op)
}

type binaryNode struct {
	op    string
	left  Node
	right Node
}

func (n binaryNode) eval(env Env) (Value, error) {
	// Boolean operators short-circuit before the right side is touched.
	switch n.op {
	case "and", "&&":
		l, err := n.left.eval(env)
		if err != nil {
			return Null, err
		}
		if !l.Truthy() {
			return Bool(false), nil
		}
		r, err := n.right.eval(env)
		if err != nil {
			return Null, err
		}
		return Bool(r.Truthy()), nil
	case "or", "||":
		l, err := n.left.eval(env)
		if err != nil {
			return Null, err
		}
		if l.Truthy() {
			return Bool(true), nil
		}
		r, err := n.right.eval(env)
		if err != nil {
			return Null, err
		}
		return Bool(r.Truthy()), nil
	}

	l, err := n.left.eval(env)
	if err != nil {
		return Null, err
	}
	r, err := n.right.eval(env)
	if err != nil {
		return Null, err
	}

	switch n.op {
	case "==":
		return Bool(l.Equal(r)), nil
	case "!=":
		return Bool(!l.Equal(r)), nil
	case "<", "<=", ">", ">=":
		return compareOrdered(n.op, l, r)
	case "+", "-", "*", "/", "**":
		return arithmetic(n.op, l, r)
	}
	return Null, errors.Newf("expr: unknown operator %q", n.op)
}

func compareOrdered(op string, l, r Value) (Value, error) {
	if lf, ok := l.AsNumber(); ok {
		rf, ok := r.AsNumber()
		if !ok {
			return Null, errors.Newf("expr: cannot compare %s %s %s", l, op, r)
		}
		return Bool(orderedHolds(op, lf, rf)), nil
	}
	if ls, ok := l.AsString(); ok {
		rs, ok := r.AsString()
		if !ok {
			return Null, errors.Newf("expr: cannot compare %s %s %s", l, op, r)
		}
		switch op {
		case "<":
			return Bool(ls < rs), nil
		case "<=":
			return Bool(ls <= rs), nil
		case ">":
			return Bool(ls > rs), nil
		default:
			return Bool(ls >= rs), nil
		}
	}
	return Null, errors.Newf("expr: cannot compare %s %s %s", l, op, r)
}

func orderedHolds(op string, l, r float64) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	default:
		return l >= r
	}
}

func arithmetic(op string, l, r Value) (Value, error) {
	lf, lok := l.AsNumber()
	rf, rok := r.AsNumber()
	if !lok || !rok {
		return Null, errors.Newf("expr: cannot apply %q to %s and %s", op, l, r)
	}
	switch op {
	case "+":
		return Number(lf + rf), nil
	case "-":
		return Number(lf - rf), nil
	case "*":
		return Number(lf * rf), nil
	case "/":
		if rf == 0 {
			return Null, errors.New("expr: division by zero")
		}
		return Number(lf / rf), nil
	case "**":
		return Number(math.Pow(lf, rf)), nil
	}
	return Null, errors.Newf("expr: unknown arithmetic operator %q", op)
}

type callNode struct {
	fn   string
	args []Node
}

func (n callNode) eval(env Env) (Value, error) {
	fn, ok := builtins[n.fn]
	if !ok {
		return Null, errors.Newf("expr: unknown function %q", n.fn)
	}
	args := make([]Value, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(env)
		if err != nil {
			return Null, err
		}
		args[i] = v
	}
	return fn(n.fn, args)
}

type builtin func(name string, args []Value) (Value, error)

var builtins = map[string]builtin{
	"min":   reduceNumeric(math.Min),
	"max":   reduceNumeric(math.Max),
	"abs":   mapNumeric(math.Abs),
	"floor": mapNumeric(math.Floor),
	"ceil":  mapNumeric(math.Ceil),
	"sqrt":  mapNumeric(math.Sqrt),
}

func reduceNumeric(step func(a, b float64) float64) builtin {
	return func(name string, args []Value) (Value, error) {
		if len(args) == 0 {
			return Null, errors.Newf("expr: %s requires at least one argument", name)
		}
		acc, ok := args[0].AsNumber()
		if !ok {
			return Null, errors.Newf("expr: %s argument %s is not a number", name, args[0])
		}
		for _, a := range args[1:] {
			f, ok := a.AsNumber()
			if !ok {
				return Null, errors.Newf("expr: %s argument %s is not a number", name, a)
			}
			acc = step(acc, f)
		}
		return Number(acc), nil
	}
}

func mapNumeric(fn func(float64) float64) builtin {
	return func(name string, args []Value) (Value, error) {
		if len(args) != 1 {
			return Null, errors.Newf("expr: %s requires exactly one argument", name)
		}
		f, ok := args[0].AsNumber()
		if !ok {
			return Null, errors.Newf("expr: %s argument %s is not a number", name, args[0])
		}
		out := fn(f)
		if math.IsNaN(out) {
			return Null, errors.Newf("expr: %s(%s) is undefined", name, args[0])
		}
		return Number(out), nil
	}
}
