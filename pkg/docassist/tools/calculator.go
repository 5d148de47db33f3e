// Package tools holds the external collaborators the agent nodes call:
// the arithmetic calculator and the document store.
package tools

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CalculatorName is the tool name recorded in tools_used.
const CalculatorName = "calculator"

// EvaluationError reports a rejected or failed calculation.
// The message is safe to surface to the user verbatim.
type EvaluationError struct {
	Expr   string
	Reason string
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("cannot evaluate %q: %s", e.Expr, e.Reason)
}

// validExpr is the whitelist checked before any parsing happens.
// Only digits, basic arithmetic operators, parentheses, decimal
// points and spaces are allowed.
var validExpr = regexp.MustCompile(`^[0-9+\-*/(). ]+$`)

// Calculator evaluates arithmetic expressions.
// The zero value is ready to use.
type Calculator struct{}

// Evaluate parses and evaluates an arithmetic expression.
// Input failing the character whitelist is rejected before parsing;
// malformed expressions and division by zero return *EvaluationError.
func (Calculator) Evaluate(expr string) (float64, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return 0, &EvaluationError{Expr: expr, Reason: "empty expression"}
	}
	if !validExpr.MatchString(trimmed) {
		return 0, &EvaluationError{Expr: expr, Reason: "contains characters outside 0-9 + - * / ( ) . and space"}
	}

	p := &exprParser{input: trimmed}
	result, err := p.parseExpr()
	if err != nil {
		return 0, &EvaluationError{Expr: expr, Reason: err.Error()}
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, &EvaluationError{Expr: expr, Reason: fmt.Sprintf("unexpected character at position %d", p.pos)}
	}
	return result, nil
}

// exprParser is a recursive-descent parser over the whitelisted grammar:
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/') factor)*
//	factor := '-' factor | '(' expr ')' | number
type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	p.skipSpaces()
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		return -v, nil
	case '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	default:
		return p.parseNumber()
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected a number at position %d", start)
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// FindExpression extracts the first arithmetic expression embedded in
// free text, or "" if none is present. Used as a deterministic
// fallback when the model cannot isolate the expression itself.
var exprPattern = regexp.MustCompile(`[0-9(][0-9+\-*/(). ]*[0-9)]|[0-9]`)

func FindExpression(text string) string {
	match := exprPattern.FindString(text)
	return strings.TrimSpace(match)
}
