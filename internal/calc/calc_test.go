package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2+2", 4},
		{"3*4", 12},
		{"(5+7)/2", 6},
		{"7/2", 3.5},
		{"10-3*2", 4},
		{"-3", -3},
		{" 1.5 * 2 ", 3},
		{"2**10", 1024},
	}
	for _, tc := range cases {
		got, err := Evaluate(tc.in)
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
	}
}

func TestEvaluateInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "2+", "(1", "1/0", "true", `"text"`, "foo"} {
		_, err := Evaluate(in)
		assert.ErrorIs(t, err, ErrInvalid, in)
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "4", Display("2+2"))
	assert.Equal(t, "3.5", Display("7/2"))
	assert.Equal(t, "0.30000000000000004", Display("0.1+0.2"))
	assert.Equal(t, Invalid, Display("1/0"))
	assert.Equal(t, Invalid, Display("*"))
}

func TestKeypad(t *testing.T) {
	k := NewKeypad()
	assert.Equal(t, "Enter an expression above", k.Status())

	for _, key := range []string{"1", "2", "+", "3"} {
		k.Press(key)
	}
	assert.Equal(t, "12+3", k.Input)

	k.Press("C")
	assert.Equal(t, "12+", k.Input)
	k.Press("8")
	k.Press("=")
	assert.Equal(t, "20", k.Input)
	assert.Equal(t, "20", k.Result)
	assert.Equal(t, "20", k.Status())

	// An operator continues from the result, which stays on display.
	k.Press("/")
	assert.Equal(t, "20/", k.Input)
	assert.Equal(t, "20", k.Result)

	// While a result is shown a digit starts over, even after an operator.
	k.Press("4")
	assert.Equal(t, "4", k.Input)
	assert.Empty(t, k.Result)
	k.Press("9")
	assert.Equal(t, "49", k.Input)

	k.Press("AC")
	assert.Empty(t, k.Input)
	assert.Empty(t, k.Result)

	// Nothing to evaluate.
	k.Press("=")
	assert.Empty(t, k.Result)
	k.Press("C")
	assert.Empty(t, k.Input)
}

func TestKeypadAfterResult(t *testing.T) {
	tests := []struct {
		keys   []string
		input  string
		result string
	}{
		{[]string{"4", "*", "5", "=", "/"}, "20/", "20"},
		{[]string{"4", "*", "5", "=", "("}, "20(", "20"},
		{[]string{"4", "*", "5", "=", "/", "4"}, "4", ""},
		{[]string{"4", "*", "5", "=", "."}, ".", ""},
		{[]string{"4", "*", "5", "=", "C"}, "2", ""},
	}
	for _, tt := range tests {
		k := NewKeypad()
		for _, key := range tt.keys {
			k.Press(key)
		}
		assert.Equal(t, tt.input, k.Input, "%v", tt.keys)
		assert.Equal(t, tt.result, k.Result, "%v", tt.keys)
	}
}

func TestKeypadInvalid(t *testing.T) {
	k := NewKeypad()
	k.Press("(")
	k.Press("=")
	assert.Equal(t, Invalid, k.Result)
	assert.Equal(t, Invalid, k.Input)

	k.Press("7")
	assert.Equal(t, "7", k.Input)
}

func TestKeypadCalculate(t *testing.T) {
	k := NewKeypad()
	k.Input = "(5+7)/2"
	k.Calculate()
	assert.Equal(t, "6", k.Result)
	assert.Equal(t, "(5+7)/2", k.Input)

	k.Input = "  "
	k.Result = ""
	k.Calculate()
	assert.Empty(t, k.Result)
}

func TestKeysLayout(t *testing.T) {
	require.Len(t, Keys, 5)
	for _, row := range Keys {
		assert.Len(t, row, 4)
	}
	assert.True(t, IsOperator("("))
	assert.False(t, IsOperator("."))
}
