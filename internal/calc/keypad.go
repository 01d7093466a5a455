package calc

import "strings"

// Keys is the keypad layout, row by row.
var Keys = [][]string{
	{"AC", "(", ")", "C"},
	{"7", "8", "9", "/"},
	{"4", "5", "6", "*"},
	{"1", "2", "3", "-"},
	{"0", ".", "+", "="},
}

// IsOperator reports whether key continues an expression rather than
// starting a new one after a result.
func IsOperator(key string) bool {
	switch key {
	case "+", "-", "*", "/", "(", ")":
		return true
	}
	return false
}

// Keypad holds the calculator's input line and result display.
type Keypad struct {
	Input  string
	Result string

	eval func(string) string
}

func NewKeypad() *Keypad {
	return &Keypad{eval: Display}
}

// Press applies one key.
func (k *Keypad) Press(key string) {
	switch key {
	case "AC":
		k.Input, k.Result = "", ""
	case "C":
		if n := len(k.Input); n > 0 {
			k.Input = k.Input[:n-1]
		}
		k.Result = ""
	case "=":
		if k.Input == "" {
			return
		}
		k.Result = k.eval(k.Input)
		k.Input = k.Result
	default:
		if k.Result != "" && !IsOperator(key) {
			k.Input, k.Result = key, ""
			return
		}
		k.Input += key
	}
}

// Calculate evaluates the input line without replacing it.
func (k *Keypad) Calculate() {
	if strings.TrimSpace(k.Input) == "" {
		return
	}
	k.Result = k.eval(k.Input)
}

// Status is the text of the result display.
func (k *Keypad) Status() string {
	if k.Result == "" {
		return "Enter an expression above"
	}
	return k.Result
}
