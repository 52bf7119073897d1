package expr

import (
	"strconv"

	"github.com/openzoning/ozfs/errors"
)

// Parse compiles an expression string into an evaluatable node. The grammar,
// lowest precedence first: or, and, not, comparison, addition, multiplication,
// unary minus, power, then literals, identifiers, calls, and parentheses.
// Both the word forms (and, or, not) and the symbol forms (&&, ||, !) are
// accepted because the zoning documents mix the two.
func Parse(input string) (Node, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.typ != tokenEOF {
		return nil, errors.Newf("expr: unexpected %q at offset %d in %q", tok.text, tok.pos, input)
	}
	return node, nil
}

// Eval parses and evaluates in one step.
func Eval(input string, env Env) (Value, error) {
	node, err := Parse(input)
	if err != nil {
		return Null, err
	}
	return node.eval(env)
}

// EvalNode evaluates a previously parsed node.
func EvalNode(node Node, env Env) (Value, error) {
	return node.eval(env)
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.typ != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) matchOperator(ops ...string) (string, bool) {
	tok := p.peek()
	if tok.typ != tokenOperator {
		return "", false
	}
	for _, op := range ops {
		if tok.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) matchKeyword(words ...string) (string, bool) {
	tok := p.peek()
	if tok.typ != tokenIdent {
		return "", false
	}
	for _, w := range words {
		if tok.text == w {
			p.pos++
			return w, true
		}
	}
	return "", false
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.matchKeyword("or"); !ok {
			if _, ok := p.matchOperator("||"); !ok {
				return left, nil
			}
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: "or", left: left, right: right}
	}
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.matchKeyword("and"); !ok {
			if _, ok := p.matchOperator("&&"); !ok {
				return left, nil
			}
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: "and", left: left, right: right}
	}
}

func (p *parser) parseNot() (Node, error) {
	if _, ok := p.matchKeyword("not"); ok {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: "not", operand: operand}, nil
	}
	if _, ok := p.matchOperator("!"); ok {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: "not", operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := p.matchOperator("<=", ">=", "==", "!=", "<", ">")
	if !ok {
		return left, nil
	}
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return binaryNode{op: op, left: left, right: right}, nil
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchOperator("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchOperator("*", "/")
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (Node, error) {
	if _, ok := p.matchOperator("-"); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: "-", operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	// Right-associative; the exponent may carry its own unary minus.
	if _, ok := p.matchOperator("**"); ok {
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: "**", left: base, right: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.next()
	switch tok.typ {
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, errors.Newf("expr: malformed number %q at offset %d", tok.text, tok.pos)
		}
		return numberLit(f), nil
	case tokenString:
		return stringLit(tok.text), nil
	case tokenIdent:
		switch tok.text {
		case "true", "True":
			return boolLit(true), nil
		case "false", "False":
			return boolLit(false), nil
		}
		if p.peek().typ == tokenLeftParen {
			return p.parseCall(tok.text)
		}
		return identNode(tok.text), nil
	case tokenLeftParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.typ != tokenRightParen {
			return nil, errors.Newf("expr: expected ')' at offset %d", closing.pos)
		}
		return inner, nil
	case tokenEOF:
		return nil, errors.New("expr: unexpected end of expression")
	default:
		return nil, errors.Newf("expr: unexpected %q at offset %d", tok.text, tok.pos)
	}
}

func (p *parser) parseCall(name string) (Node, error) {
	p.next() // consume '('
	var args []Node
	if p.peek().typ == tokenRightParen {
		p.next()
		return callNode{fn: name, args: args}, nil
	}
	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		tok := p.next()
		switch tok.typ {
		case tokenComma:
			continue
		case tokenRightParen:
			return callNode{fn: name, args: args}, nil
		default:
			return nil, errors.Newf("expr: expected ',' or ')' at offset %d", tok.pos)
		}
	}
}
