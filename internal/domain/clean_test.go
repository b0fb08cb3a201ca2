package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"integral float", 38.0, "38"},
		{"fractional float", 100.4, "100.4"},
		{"plain string", "Sunny", "Sunny"},
		{"surrounding whitespace", "  Sunny  ", "Sunny"},
		{"embedded newline", "Sunny\nand clear", "Sunny and clear"},
		{"carriage return", "Sunny\r\nand clear", "Sunny and clear"},
		{"comma gets quoted", "Sunny, then cloudy", `"Sunny, then cloudy"`},
		{"doubled quotes collapse", `He said ""hi""`, `"He said "hi"`},
		{"quadrupled quotes collapse", `a """"b"""" c`, `"a "b" c"`},
		{"wrapping quotes stripped", `"Sunny"`, "Sunny"},
		{"backticks dropped when quoting", "wind `gusts`, strong", `"wind gusts, strong"`},
		{"backticks kept without quoting", "wind `gusts`", "wind `gusts`"},
		{"empty string", "", ""},
		{"other type", []int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanValue(tt.value))
		})
	}
}

func TestCleanValue_NeverPanics(t *testing.T) {
	inputs := []any{
		nil, true, 0, int64(0), 0.0, "", " ", "\n", `"`, `""`, "`",
		map[string]any{"a": 1}, []any{nil}, struct{ X int }{1}, make(chan int),
	}
	for _, in := range inputs {
		require.NotPanics(t, func() { CleanValue(in) })
	}
}
