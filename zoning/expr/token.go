package expr

import (
	"strings"
	"unicode"

	"github.com/openzoning/ozfs/errors"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenNumber
	tokenString
	tokenIdent
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenComma
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

// multi-rune operators, longest first so "**" wins over "*" and "<=" over "<"
var multiOps = []string{"**", "<=", ">=", "==", "!=", "&&", "||"}

const singleOps = "+-*/<>!"

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// tokenize splits an expression string into tokens. String literals accept
// single or double quotes with no escape sequences, which matches how the
// zoning documents quote roof types and use names.
func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			seenDot := false
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				if runes[i] == '.' {
					if seenDot {
						return nil, errors.Newf("expr: malformed number at offset %d in %q", start, input)
					}
					seenDot = true
				}
				i++
			}
			text := string(runes[start:i])
			if text == "." {
				return nil, errors.Newf("expr: malformed number at offset %d in %q", start, input)
			}
			tokens = append(tokens, token{typ: tokenNumber, text: text, pos: start})
		case r == '\'' || r == '"':
			quote := r
			start := i
			i++
			for i < len(runes) && runes[i] != quote {
				i++
			}
			if i >= len(runes) {
				return nil, errors.Newf("expr: unterminated string at offset %d in %q", start, input)
			}
			tokens = append(tokens, token{typ: tokenString, text: string(runes[start+1 : i]), pos: start})
			i++
		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			tokens = append(tokens, token{typ: tokenIdent, text: string(runes[start:i]), pos: start})
		case r == '(':
			tokens = append(tokens, token{typ: tokenLeftParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{typ: tokenRightParen, text: ")", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{typ: tokenComma, text: ",", pos: i})
			i++
		default:
			rest := string(runes[i:])
			matched := false
			for _, op := range multiOps {
				if strings.HasPrefix(rest, op) {
					tokens = append(tokens, token{typ: tokenOperator, text: op, pos: i})
					i += len(op)
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			if strings.ContainsRune(singleOps, r) {
				tokens = append(tokens, token{typ: tokenOperator, text: string(r), pos: i})
				i++
				continue
			}
			return nil, errors.Newf("expr: unexpected character %q at offset %d in %q", r, i, input)
		}
	}
	tokens = append(tokens, token{typ: tokenEOF, pos: len(runes)})
	return tokens, nil
}
