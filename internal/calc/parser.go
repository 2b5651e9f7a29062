// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package calc

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	apperrors "toolhost/internal/errors"
)

// The arithmetic grammar is deliberately closed: numeric literals, the
// operators + - * / % // ^, parentheses, and the identifiers below.
// Nothing else is resolvable, regardless of input shape.

var functions = map[string]func(float64) (float64, error){
	"sin":  wrapMath(math.Sin),
	"cos":  wrapMath(math.Cos),
	"tan":  wrapMath(math.Tan),
	"sqrt": domainChecked(math.Sqrt, "square root of negative number", func(x float64) bool { return x >= 0 }),
	"log":  domainChecked(math.Log10, "logarithm of non-positive number", func(x float64) bool { return x > 0 }),
	"ln":   domainChecked(math.Log, "logarithm of non-positive number", func(x float64) bool { return x > 0 }),
	"exp":  wrapMath(math.Exp),
	"abs":  wrapMath(math.Abs),
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func wrapMath(fn func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return fn(x), nil }
}

func domainChecked(fn func(float64) float64, message string, ok func(float64) bool) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if !ok(x) {
			return 0, apperrors.New(apperrors.KindInvalidData, message)
		}
		return fn(x), nil
	}
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdent
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
}

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
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokenNumber, string(runes[start:i])})
		case unicode.IsLetter(r):
			start := i
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
			tokens = append(tokens, token{tokenIdent, strings.ToLower(string(runes[start:i]))})
		case r == '(':
			tokens = append(tokens, token{tokenLeftParen, "("})
			i++
		case r == ')':
			tokens = append(tokens, token{tokenRightParen, ")"})
			i++
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			tokens = append(tokens, token{tokenOperator, "//"})
			i += 2
		case strings.ContainsRune("+-*/%^", r):
			tokens = append(tokens, token{tokenOperator, string(r)})
			i++
		default:
			return nil, apperrors.Newf(apperrors.KindInvalidData, "unexpected character %q in expression", r)
		}
	}
	tokens = append(tokens, token{tokenEOF, ""})
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

// evalExpression parses and evaluates the restricted arithmetic
// grammar in a single pass.
func evalExpression(input string) (float64, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return 0, err
	}
	p := &parser{tokens: tokens}
	value, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokenEOF {
		return 0, apperrors.Newf(apperrors.KindInvalidData, "unexpected token %q after expression", p.peek().text)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, apperrors.New(apperrors.KindInvalidData, "expression result is not a finite number")
	}
	return value, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

// sum := product (('+'|'-') product)*
func (p *parser) parseSum() (float64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for {
		t := p.peek()
		if t.kind != tokenOperator || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return 0, err
		}
		if t.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

// product := unary (('*'|'/'|'%'|'//') unary)*
func (p *parser) parseProduct() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		t := p.peek()
		if t.kind != tokenOperator || (t.text != "*" && t.text != "/" && t.text != "%" && t.text != "//") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch t.text {
		case "*":
			left *= right
		case "/":
			if right == 0 {
				return 0, apperrors.New(apperrors.KindDivisionByZero, "division by zero")
			}
			left /= right
		case "//":
			if right == 0 {
				return 0, apperrors.New(apperrors.KindDivisionByZero, "division by zero")
			}
			left = math.Floor(left / right)
		case "%":
			if right == 0 {
				return 0, apperrors.New(apperrors.KindDivisionByZero, "division by zero")
			}
			left = math.Mod(left, right)
		}
	}
}

// unary := ('+'|'-') unary | power
func (p *parser) parseUnary() (float64, error) {
	t := p.peek()
	if t.kind == tokenOperator && (t.text == "+" || t.text == "-") {
		p.next()
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if t.text == "-" {
			return -value, nil
		}
		return value, nil
	}
	return p.parsePower()
}

// power := primary ('^' unary)?  (right-associative)
func (p *parser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	t := p.peek()
	if t.kind == tokenOperator && t.text == "^" {
		p.next()
		exponent, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exponent), nil
	}
	return base, nil
}

// primary := number | constant | function '(' sum ')' | '(' sum ')'
func (p *parser) parsePrimary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokenNumber:
		value, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return 0, apperrors.Newf(apperrors.KindInvalidData, "invalid number: %s", t.text)
		}
		return value, nil

	case tokenIdent:
		if value, ok := constants[t.text]; ok {
			return value, nil
		}
		fn, ok := functions[t.text]
		if !ok {
			return 0, apperrors.Newf(apperrors.KindInvalidData, "unknown identifier: %s", t.text)
		}
		if p.peek().kind != tokenLeftParen {
			return 0, apperrors.Newf(apperrors.KindInvalidData, "function %s requires parentheses", t.text)
		}
		p.next()
		arg, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.peek().kind != tokenRightParen {
			return 0, apperrors.Newf(apperrors.KindInvalidData, "missing closing parenthesis after %s argument", t.text)
		}
		p.next()
		return fn(arg)

	case tokenLeftParen:
		value, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.peek().kind != tokenRightParen {
			return 0, apperrors.New(apperrors.KindInvalidData, "missing closing parenthesis")
		}
		p.next()
		return value, nil

	case tokenEOF:
		return 0, apperrors.New(apperrors.KindInvalidData, "unexpected end of expression")

	default:
		return 0, apperrors.Newf(apperrors.KindInvalidData, "unexpected token %q", t.text)
	}
}
