package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2 + 3", 5},
		{"10 - 4 * 2", 2},
		{"(10 - 4) * 2", 12},
		{"7 / 2", 3.5},
		{"2 ** 3 ** 2", 512},
		{"-2 ** 2", -4},
		{"2 ** -1", 0.5},
		{"min(3, 8, 2)", 2},
		{"max(35, 40)", 40},
		{"abs(-5.5)", 5.5},
		{"floor(3.7)", 3},
		{"ceil(3.2)", 4},
		{"sqrt(16)", 4},
		{"min(lot_area / 1000, 10)", 5},
	}
	env := Env{"lot_area": Number(5000)}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Eval(tc.input, env)
			require.NoError(t, err)
			f, ok := got.AsNumber()
			require.True(t, ok, "expected a number, got %s", got)
			assert.InDelta(t, tc.want, f, 1e-9)
		})
	}
}

func TestEvalComparisons(t *testing.T) {
	env := Env{
		"height":    Number(35),
		"roof_type": String("flat"),
		"bedrooms":  Null,
	}
	tests := []struct {
		input string
		want  bool
	}{
		{"35 <= 40", true},
		{"height > 40", false},
		{"height >= 35", true},
		{"roof_type == 'flat'", true},
		{"roof_type == \"gable\"", false},
		{"roof_type != 'gable'", true},
		{"'a' < 'b'", true},
		{"bedrooms == 2", false},
		{"height != bedrooms", true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Eval(tc.input, env)
			require.NoError(t, err)
			b, ok := got.AsBool()
			require.True(t, ok, "expected a bool, got %s", got)
			assert.Equal(t, tc.want, b)
		})
	}
}

func TestEvalBoolean(t *testing.T) {
	env := Env{
		"floors": Number(2),
		"height": Number(35),
	}
	tests := []struct {
		input string
		want  bool
	}{
		{"floors < 3 and height <= 35", true},
		{"floors < 3 && height > 35", false},
		{"floors > 3 or height <= 35", true},
		{"floors > 3 || height > 35", false},
		{"not floors > 3", true},
		{"!(' ' == ' ')", false},
		{"true and not false", true},
		{"True or False", true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Eval(tc.input, env)
			require.NoError(t, err)
			b, ok := got.AsBool()
			require.True(t, ok, "expected a bool, got %s", got)
			assert.Equal(t, tc.want, b)
		})
	}
}

func TestEvalShortCircuit(t *testing.T) {
	// The right side would fail, so evaluation order matters.
	got, err := Eval("false and 1 / 0 > 1", Env{})
	require.NoError(t, err)
	assert.False(t, got.Truthy())

	got, err = Eval("true or 1 / 0 > 1", Env{})
	require.NoError(t, err)
	assert.True(t, got.Truthy())
}

func TestEvalNullTruthiness(t *testing.T) {
	env := Env{"bedrooms": Null, "units": Number(0), "name": String("")}
	for _, input := range []string{"not bedrooms", "not units", "not name"} {
		got, err := Eval(input, env)
		require.NoError(t, err)
		assert.True(t, got.Truthy(), input)
	}
}

func TestEvalErrors(t *testing.T) {
	env := Env{"bedrooms": Null, "height": Number(35)}
	inputs := []string{
		"unknown_var + 1",
		"nope(3)",
		"1 / 0",
		"bedrooms + 1",
		"bedrooms < 2",
		"sqrt(-1)",
		"'unterminated",
		"1.2.3",
		"height height",
		"height < 'tall'",
		"min()",
		"(height",
		"",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Eval(input, env)
			assert.Error(t, err)
		})
	}
}

func TestParseOnceEvalMany(t *testing.T) {
	node, err := Parse("far * lot_area")
	require.NoError(t, err)

	got, err := EvalNode(node, Env{"far": Number(0.5), "lot_area": Number(8000)})
	require.NoError(t, err)
	f, _ := got.AsNumber()
	assert.InDelta(t, 4000.0, f, 1e-9)

	got, err = EvalNode(node, Env{"far": Number(1.25), "lot_area": Number(4000)})
	require.NoError(t, err)
	f, _ = got.AsNumber()
	assert.InDelta(t, 5000.0, f, 1e-9)
}

func TestValueBasics(t *testing.T) {
	assert.True(t, Null.IsNull())
	assert.False(t, Null.Truthy())
	assert.True(t, Null.Equal(Null))
	assert.False(t, Null.Equal(Number(0)))
	assert.False(t, Number(1).Equal(String("1")))
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "35", Number(35).String())
	assert.Equal(t, `"flat"`, String("flat").String())
	assert.Equal(t, "true", Bool(true).String())
}
