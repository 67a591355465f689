package mask

import (
	"fmt"
	"strings"

	"github.com/arloliu/gridmask/errs"
)

// OptionName is the engine option that carries the encoded mask values.
const OptionName = "N"

// Mode tags written for the symbolic branch. The upper-case forms tell the engine to
// treat edge nodes as inside nodes.
const (
	tagZValue        = "z"
	tagZValueEdge    = "Z"
	tagRunningID     = "p"
	tagRunningIDEdge = "P"
	fieldSep         = "/"
)

// Setting holds the values assigned to nodes outside, on the edge of, and inside a polygon.
type Setting struct {
	Outside Value
	Edge    Value
	Inside  Value
}

// DefaultSetting returns the engine's default assignment: outside 0, edge 0, inside 1.
func DefaultSetting() Setting {
	return Setting{Outside: Number(0), Edge: Number(0), Inside: Number(1)}
}

// Encode encodes s. See the package-level Encode.
func (s Setting) Encode() (Token, error) {
	return Encode(s.Outside, s.Edge, s.Inside)
}

// Token is an encoded option value together with the option it belongs to.
type Token struct {
	Option string
	Value  string
}

// Arg renders the token as a single command-line argument, e.g. "-N0/0/1".
func (t Token) Arg() string {
	return "-" + t.Option + t.Value
}

// Encode builds the mask-value token for the given outside, edge and inside settings.
//
// When inside selects a symbolic mode the token is a one-letter tag ("z" or "p"), upper-cased
// when edge selects the same mode, followed by "/outside" unless outside is zero. Otherwise the
// token is "outside/edge/inside".
//
// Returns errs.ErrInvalidCombination when edge and inside select different symbolic modes,
// when outside is symbolic, or when only edge is symbolic.
//
// Example:
//
//	tok, err := mask.Encode(mask.Number(1), mask.Number(0), mask.UseZValue)
//	// tok.Value == "z/1"
func Encode(outside, edge, inside Value) (Token, error) {
	edgeSym, insideSym := edge.IsSymbolic(), inside.IsSymbolic()

	if edgeSym && insideSym && edge.kind != inside.kind {
		return Token{}, fmt.Errorf("%w: edge=%s and inside=%s select different symbolic modes",
			errs.ErrInvalidCombination, edge, inside)
	}
	if outside.IsSymbolic() {
		return Token{}, fmt.Errorf("%w: outside=%s must be a number or NaN",
			errs.ErrInvalidCombination, outside)
	}

	if !insideSym {
		if edgeSym {
			return Token{}, fmt.Errorf("%w: edge=%s requires inside to select the same mode, got inside=%s",
				errs.ErrInvalidCombination, edge, inside)
		}

		return Token{
			Option: OptionName,
			Value:  outside.String() + fieldSep + edge.String() + fieldSep + inside.String(),
		}, nil
	}

	sameEdge := edge.kind == inside.kind

	var val string
	switch {
	case inside.kind == KindZValue && sameEdge:
		val = tagZValueEdge
	case inside.kind == KindZValue:
		val = tagZValue
	case sameEdge:
		val = tagRunningIDEdge
	default:
		val = tagRunningID
	}
	if outside.kind != KindNumber || outside.num != 0 {
		val += fieldSep + outside.String()
	}

	return Token{Option: OptionName, Value: val}, nil
}

// Decode parses a token produced by Encode back into a Setting.
//
// Accepted forms are "z", "Z", "p", "P" optionally followed by "/outside", and
// "outside/edge/inside". Values parse with ParseValue.
func Decode(token string) (Setting, error) {
	if token == "" {
		return Setting{}, fmt.Errorf("%w: empty token", errs.ErrInvalidMaskValue)
	}

	fields := strings.Split(token, fieldSep)
	switch fields[0] {
	case tagZValue, tagZValueEdge, tagRunningID, tagRunningIDEdge:
		if len(fields) > 2 {
			return Setting{}, fmt.Errorf("%w: %q has too many fields", errs.ErrInvalidMaskValue, token)
		}

		mode := UseZValue
		if fields[0] == tagRunningID || fields[0] == tagRunningIDEdge {
			mode = UseRunningID
		}

		s := Setting{Outside: Number(0), Edge: Number(0), Inside: mode}
		if fields[0] == tagZValueEdge || fields[0] == tagRunningIDEdge {
			s.Edge = mode
		}
		if len(fields) == 2 {
			out, err := ParseValue(fields[1])
			if err != nil {
				return Setting{}, err
			}
			s.Outside = out
		}
		if _, err := s.Encode(); err != nil {
			return Setting{}, err
		}

		return s, nil
	}

	if len(fields) != 3 {
		return Setting{}, fmt.Errorf("%w: %q must have 3 fields", errs.ErrInvalidMaskValue, token)
	}

	vals := make([]Value, 3)
	for i, f := range fields {
		v, err := ParseValue(f)
		if err != nil {
			return Setting{}, err
		}
		vals[i] = v
	}

	s := Setting{Outside: vals[0], Edge: vals[1], Inside: vals[2]}
	if _, err := s.Encode(); err != nil {
		return Setting{}, err
	}

	return s, nil
}
