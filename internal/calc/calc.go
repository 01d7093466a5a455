// Package calc evaluates calculator expressions and models the keypad.
package calc

import (
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/pkg/errors"
)

// Invalid is shown for any expression that does not produce a finite number.
const Invalid = "Invalid expression"

var ErrInvalid = errors.New("invalid expression")

// Evaluate computes an arithmetic expression such as "(5+7)/2".
func Evaluate(expression string) (float64, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return 0, ErrInvalid
	}
	out, err := expr.Eval(expression, nil)
	if err != nil {
		return 0, errors.Wrap(ErrInvalid, err.Error())
	}

	var v float64
	switch n := out.(type) {
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case float64:
		v = n
	default:
		return 0, errors.Wrapf(ErrInvalid, "result %v is not a number", out)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(ErrInvalid, "result %v is not finite", v)
	}
	return v, nil
}

// Display evaluates expression and formats the result for the display, or
// returns Invalid.
func Display(expression string) string {
	v, err := Evaluate(expression)
	if err != nil {
		return Invalid
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
