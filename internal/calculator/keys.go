package calculator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/phenrril/calcledger/internal/domain"
)

// Press maps a keypad token to an operation: a digit or ".", one of + - * /,
// "=", "c" (clear), or a function name accepted by ParseUnary.
func (s State) Press(key string) (State, error) {
	key = strings.TrimSpace(key)
	switch strings.ToLower(key) {
	case "":
		return s, nil
	case "=":
		return s.Compute()
	case "c", "clear":
		return s.Clear(), nil
	}
	if op, err := ParseOperator(key); err == nil {
		return s.SetOperator(op)
	}
	if u, err := ParseUnary(key); err == nil {
		return s.ApplyUnary(u)
	}
	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		return s.AppendDigit(r)
	}
	return s, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
}

// PressAll feeds every key in order and stops at the first error.
func (s State) PressAll(keys ...string) (State, error) {
	var err error
	for _, k := range keys {
		if s, err = s.Press(k); err != nil {
			return s, err
		}
	}
	return s, nil
}
