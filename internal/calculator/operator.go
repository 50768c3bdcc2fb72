package calculator

import (
	"fmt"
	"math"
	"strings"

	"github.com/phenrril/calcledger/internal/domain"
)

type Operator int

const (
	None Operator = iota
	Add
	Sub
	Mul
	Div
)

func ParseOperator(s string) (Operator, error) {
	switch strings.TrimSpace(s) {
	case "+":
		return Add, nil
	case "-":
		return Sub, nil
	case "*", "x":
		return Mul, nil
	case "/":
		return Div, nil
	}
	return None, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidInput, s)
}

func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	}
	return ""
}

func (o Operator) apply(a, b float64) (float64, error) {
	switch o {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div:
		if b == 0 {
			return 0, domain.ErrDivisionByZero
		}
		return a / b, nil
	}
	return 0, fmt.Errorf("%w: no operator", domain.ErrInvalidInput)
}

type Unary int

const (
	Sqrt Unary = iota + 1
	Square
	Log10
)

func ParseUnary(s string) (Unary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqrt":
		return Sqrt, nil
	case "square", "sq", "x2":
		return Square, nil
	case "log", "log10":
		return Log10, nil
	}
	return 0, fmt.Errorf("%w: unknown function %q", domain.ErrInvalidInput, s)
}

func (u Unary) String() string {
	switch u {
	case Sqrt:
		return "sqrt"
	case Square:
		return "square"
	case Log10:
		return "log10"
	}
	return ""
}

func (u Unary) fn() (func(float64) float64, error) {
	switch u {
	case Sqrt:
		return math.Sqrt, nil
	case Square:
		return func(v float64) float64 { return v * v }, nil
	case Log10:
		return math.Log10, nil
	}
	return nil, fmt.Errorf("%w: unknown function", domain.ErrInvalidInput)
}
