package mask

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/gridmask/errs"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		outside Value
		edge    Value
		inside  Value
		want    string
	}{
		{"Defaults", Number(0), Number(0), Number(1), "0/0/1"},
		{"AllOnes", Number(1), Number(1), Number(1), "1/1/1"},
		{"AllZeros", Number(0), Number(0), Number(0), "0/0/0"},
		{"Custom", Number(10), Number(20), Number(30), "10/20/30"},
		{"Fractional", Number(-0.5), Number(2.25), Number(1e-3), "-0.5/2.25/0.001"},
		{"NaNOutside", NaN(), Number(0), Number(1), "NaN/0/1"},
		{"NaNViaNumber", Number(math.NaN()), Number(math.NaN()), Number(1), "NaN/NaN/1"},
		{"ZValue", Number(0), Number(0), UseZValue, "z"},
		{"ZValueOutside", Number(1), Number(0), UseZValue, "z/1"},
		{"ZValueEdgeNumeric", Number(0), Number(5), UseZValue, "z"},
		{"ZValueNaNOutside", NaN(), Number(0), UseZValue, "z/NaN"},
		{"ZValueEdgeInside", Number(0), UseZValue, UseZValue, "Z"},
		{"ZValueEdgeInsideOutside", Number(-1), UseZValue, UseZValue, "Z/-1"},
		{"RunningID", Number(0), Number(0), UseRunningID, "p"},
		{"RunningIDOutside", Number(3), Number(0), UseRunningID, "p/3"},
		{"RunningIDEdgeInside", Number(0), UseRunningID, UseRunningID, "P"},
		{"RunningIDEdgeInsideNaN", NaN(), UseRunningID, UseRunningID, "P/NaN"},
		{"NegativeZeroOutside", Number(math.Copysign(0, -1)), Number(0), UseZValue, "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := Encode(tt.outside, tt.edge, tt.inside)
			require.NoError(t, err)
			require.Equal(t, OptionName, tok.Option)
			require.Equal(t, tt.want, tok.Value)
		})
	}
}

func TestEncode_InvalidCombination(t *testing.T) {
	tests := []struct {
		name    string
		outside Value
		edge    Value
		inside  Value
		msg     string
	}{
		{"ZEdgeIDInside", Number(0), UseZValue, UseRunningID, "edge=UseZValue and inside=UseRunningID"},
		{"IDEdgeZInside", Number(0), UseRunningID, UseZValue, "edge=UseRunningID and inside=UseZValue"},
		{"SymbolicOutside", UseZValue, Number(0), Number(1), "outside=UseZValue"},
		{"SymbolicEdgeOnly", Number(0), UseRunningID, Number(1), "edge=UseRunningID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := Encode(tt.outside, tt.edge, tt.inside)
			require.ErrorIs(t, err, errs.ErrInvalidCombination)
			require.Contains(t, err.Error(), tt.msg)
			require.Equal(t, Token{}, tok)
		})
	}
}

func TestEncode_NumericMatchesFieldFormat(t *testing.T) {
	values := []float64{0, 1, -1, 0.1, 2.5, -7.75, 1e6, 123456.789, math.MaxFloat64}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				tok, err := Encode(Number(a), Number(b), Number(c))
				require.NoError(t, err)
				want := fmt.Sprintf("%s/%s/%s", FormatNumber(a), FormatNumber(b), FormatNumber(c))
				require.Equal(t, want, tok.Value)
			}
		}
	}
}

func TestEncode_Idempotent(t *testing.T) {
	settings := []Setting{
		DefaultSetting(),
		{Outside: Number(1), Edge: Number(0), Inside: UseZValue},
		{Outside: NaN(), Edge: UseRunningID, Inside: UseRunningID},
	}
	for _, s := range settings {
		first, err := s.Encode()
		require.NoError(t, err)
		second, err := s.Encode()
		require.NoError(t, err)
		require.Equal(t, first, second)
	}
}

func TestSetting_Default(t *testing.T) {
	tok, err := DefaultSetting().Encode()
	require.NoError(t, err)
	require.Equal(t, "0/0/1", tok.Value)
	require.Equal(t, "-N0/0/1", tok.Arg())
}

func TestSetting_ZeroValueIsNumericZero(t *testing.T) {
	var s Setting
	tok, err := s.Encode()
	require.NoError(t, err)
	require.Equal(t, "0/0/0", tok.Value)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		token string
		want  Setting
	}{
		{"0/0/1", DefaultSetting()},
		{"10/20/30", Setting{Number(10), Number(20), Number(30)}},
		{"NaN/0/1", Setting{NaN(), Number(0), Number(1)}},
		{"z", Setting{Number(0), Number(0), UseZValue}},
		{"z/1", Setting{Number(1), Number(0), UseZValue}},
		{"Z", Setting{Number(0), UseZValue, UseZValue}},
		{"p", Setting{Number(0), Number(0), UseRunningID}},
		{"P/NaN", Setting{NaN(), UseRunningID, UseRunningID}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := Decode(tt.token)
			require.NoError(t, err)
			require.True(t, tt.want.Outside.Equal(got.Outside), "outside: %s", got.Outside)
			require.True(t, tt.want.Edge.Equal(got.Edge), "edge: %s", got.Edge)
			require.True(t, tt.want.Inside.Equal(got.Inside), "inside: %s", got.Inside)

			tok, err := got.Encode()
			require.NoError(t, err)
			require.Equal(t, tt.token, tok.Value)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := Decode("")
		require.ErrorIs(t, err, errs.ErrInvalidMaskValue)
	})

	t.Run("TooFewFields", func(t *testing.T) {
		_, err := Decode("0/1")
		require.ErrorIs(t, err, errs.ErrInvalidMaskValue)
	})

	t.Run("TooManyTagFields", func(t *testing.T) {
		_, err := Decode("z/1/2")
		require.ErrorIs(t, err, errs.ErrInvalidMaskValue)
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := Decode("0/foo/1")
		require.ErrorIs(t, err, errs.ErrInvalidMaskValue)
	})

	t.Run("MixedModes", func(t *testing.T) {
		_, err := Decode("0/z/p")
		require.ErrorIs(t, err, errs.ErrInvalidCombination)
	})

	t.Run("SymbolicOutside", func(t *testing.T) {
		_, err := Decode("P/z")
		require.ErrorIs(t, err, errs.ErrInvalidCombination)
	})
}

func BenchmarkEncode(b *testing.B) {
	s := Setting{Outside: Number(1), Edge: Number(0.5), Inside: Number(2)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Encode()
	}
}
