package mask

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/gridmask/errs"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNumber    Kind = iota // KindNumber is a fixed real number.
	KindNaN                   // KindNaN sets nodes to not-a-number.
	KindZValue                // KindZValue takes the value from the segment's Z metadata.
	KindRunningID             // KindRunningID takes the polygon's running ID.
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindNaN:
		return "NaN"
	case KindZValue:
		return "UseZValue"
	case KindRunningID:
		return "UseRunningID"
	default:
		return "Unknown"
	}
}

// Value is the setting for one classification bucket: a number, the NaN-sentinel,
// or one of the two symbolic modes. The zero Value is Number(0).
type Value struct {
	kind Kind
	num  float64
}

var (
	// UseZValue assigns each node the Z value carried by the enclosing segment's header.
	UseZValue = Value{kind: KindZValue}
	// UseRunningID assigns each node the 1-based input order of the enclosing polygon.
	UseRunningID = Value{kind: KindRunningID}
)

// Number returns a numeric Value. A NaN argument yields the NaN-sentinel.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return NaN()
	}

	return Value{kind: KindNumber, num: f}
}

// NaN returns the NaN-sentinel Value.
func NaN() Value {
	return Value{kind: KindNaN, num: math.NaN()}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsSymbolic reports whether v is UseZValue or UseRunningID.
func (v Value) IsSymbolic() bool {
	return v.kind == KindZValue || v.kind == KindRunningID
}

// IsNaN reports whether v is the NaN-sentinel.
func (v Value) IsNaN() bool {
	return v.kind == KindNaN
}

// Float returns the numeric value of v. Symbolic values and the sentinel return NaN.
func (v Value) Float() float64 {
	if v.kind == KindNumber {
		return v.num
	}

	return math.NaN()
}

// Equal reports whether v and o hold the same variant and, for numbers, the same value.
// NaN-sentinels compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindNumber {
		return v.num == o.num
	}

	return true
}

// String renders v the way the engine reads a single option field.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindNaN:
		return "NaN"
	case KindZValue:
		return "UseZValue"
	case KindRunningID:
		return "UseRunningID"
	default:
		return "unknown"
	}
}

// FormatNumber renders f as the shortest decimal that round-trips, or "NaN".
// It is shared by every numeric field the engine options carry.
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseValue parses a single mask value. Accepted forms are decimal numbers, "NaN"
// (any case), "z" for UseZValue, and "id" or "p" for UseRunningID.
func ParseValue(s string) (Value, error) {
	str := strings.TrimSpace(s)
	switch strings.ToLower(str) {
	case "nan":
		return NaN(), nil
	case "z":
		return UseZValue, nil
	case "id", "p":
		return UseRunningID, nil
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %q", errs.ErrInvalidMaskValue, s)
	}

	return Number(f), nil
}
