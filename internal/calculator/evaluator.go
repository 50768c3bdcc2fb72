// Package calculator implements the keypad state machine: digits accumulate
// into the display, an operator captures the first operand, and equals folds
// the second operand into a result.
//
// State is a value. Every operation returns the next state and leaves the
// receiver untouched.
package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/phenrril/calcledger/internal/domain"
)

// ErrorIndicator is shown instead of a number after a division by zero.
const ErrorIndicator = "Error"

type Phase int

const (
	Idle Phase = iota
	OperatorPending
)

func (p Phase) String() string {
	if p == OperatorPending {
		return "operator-pending"
	}
	return "idle"
}

type State struct {
	display string
	operand float64
	op      Operator
	err     error
}

func New() State { return State{display: "0"} }

func (s State) Display() string { return s.display }
func (s State) Pending() Operator { return s.op }

// Operand returns the captured first operand while an operator is pending.
func (s State) Operand() (float64, bool) { return s.operand, s.op != None }

func (s State) Phase() Phase {
	if s.op != None {
		return OperatorPending
	}
	return Idle
}

// Failed reports whether the display holds the error indicator.
func (s State) Failed() bool { return s.err != nil }
func (s State) Err() error { return s.err }

// Value parses the display.
func (s State) Value() (float64, error) { return parse(s.display) }

// AppendDigit accepts 0-9 and the decimal point. A digit typed over "0", an
// empty display or a non-numeric result replaces it. A second decimal point
// in the same operand is ignored.
func (s State) AppendDigit(d rune) (State, error) {
	if d != '.' && (d < '0' || d > '9') {
		return s, fmt.Errorf("%w: %q is not a digit", domain.ErrInvalidInput, d)
	}
	next := s
	next.err = nil
	if d == '.' {
		switch {
		case s.replaceable():
			next.display = "0."
		case strings.Contains(s.display, "."):
			return s, nil
		default:
			next.display = s.display + "."
		}
		return next, nil
	}
	if s.replaceable() {
		next.display = string(d)
		return next, nil
	}
	next.display = s.display + string(d)
	return next, nil
}

func (s State) replaceable() bool {
	switch s.display {
	case "", "0", ErrorIndicator, "NaN", "+Inf", "-Inf":
		return true
	}
	return false
}

// SetOperator captures the display as the first operand and clears it for
// the second. With an empty display nothing happens.
func (s State) SetOperator(op Operator) (State, error) {
	if op == None {
		return s, fmt.Errorf("%w: no operator", domain.ErrInvalidInput)
	}
	if s.display == "" {
		return s, nil
	}
	v, err := parse(s.display)
	if err != nil {
		return s, err
	}
	return State{display: "", operand: v, op: op}, nil
}

// Compute applies the pending operator. Without one, or without a second
// operand, it is a no-op. Division by zero does not return an error: the
// resulting state shows ErrorIndicator and Err reports ErrDivisionByZero.
func (s State) Compute() (State, error) {
	if s.op == None || s.display == "" {
		return s, nil
	}
	rhs, err := parse(s.display)
	if err != nil {
		return s, err
	}
	v, err := s.op.apply(s.operand, rhs)
	if err != nil {
		return State{display: ErrorIndicator, err: err}, nil
	}
	return State{display: FormatNumber(v)}, nil
}

func (s State) Clear() State { return New() }

// ApplyUnary replaces the display with f(display). The pending operator and
// first operand are kept.
func (s State) ApplyUnary(u Unary) (State, error) {
	v, err := parse(s.display)
	if err != nil {
		return s, err
	}
	f, err := u.fn()
	if err != nil {
		return s, err
	}
	next := s
	next.err = nil
	next.display = FormatNumber(f(v))
	return next, nil
}

func parse(display string) (float64, error) {
	v, err := strconv.ParseFloat(display, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, display)
	}
	return v, nil
}

// FormatNumber renders v in the shortest form that parses back to v.
// Very large and very small magnitudes use exponent notation.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == 0:
		return "0"
	}
	if abs := math.Abs(v); abs < 1e-6 || abs >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
