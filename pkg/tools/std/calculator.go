// Package std предоставляет стандартные инструменты для AI агента.
//
// CalculatorTool — инструмент для вычисления арифметических выражений.
package std

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ilkoid/mrkl-agent/pkg/tools"
)

// CalculatorTool вычисляет арифметические выражения.
//
// Поддерживает + - * /, скобки, унарный минус и числа с плавающей точкой.
// Вход — сырая строка Action Input (например, "2+2" или "(3.5 - 1) * 4").
type CalculatorTool struct{}

// NewCalculatorTool создает инструмент-калькулятор.
func NewCalculatorTool() *CalculatorTool {
	return &CalculatorTool{}
}

// Definition возвращает определение инструмента.
func (t *CalculatorTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "Calculator",
		Description: "useful for when you need to answer questions about math",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{
					"type":        "string",
					"description": "Arithmetic expression to evaluate, e.g. '2+2' or '(3.5-1)*4'",
				},
			},
			"required": []string{"expression"},
		},
	}
}

// Execute вычисляет выражение и возвращает конверт наблюдения.
func (t *CalculatorTool) Execute(ctx context.Context, input string) (string, error) {
	value, err := evalExpression(strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("calculator: %w", err)
	}

	return tools.WrapOutput(formatNumber(value)), nil
}

// formatNumber печатает целые результаты без дробной части ("4", не "4.000000").
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// evalExpression — рекурсивный спуск по грамматике:
//
//	expr   = term {("+"|"-") term}
//	term   = factor {("*"|"/") factor}
//	factor = number | "(" expr ")" | "-" factor
func evalExpression(input string) (float64, error) {
	p := &exprParser{src: input}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.src[p.pos], p.pos)
	}
	return value, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value += rhs
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value -= rhs
		default:
			return value, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	value, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			value *= rhs
		case '/':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			value /= rhs
		default:
			return value, nil
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil

	case c == '-':
		p.pos++
		value, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		return -value, nil

	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
			p.pos++
		}
		value, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", p.src[start:p.pos])
		}
		return value, nil

	case c == 0:
		return 0, fmt.Errorf("unexpected end of expression")

	default:
		return 0, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
	}
}

// Ensure CalculatorTool implements tools.Tool
var _ tools.Tool = (*CalculatorTool)(nil)
