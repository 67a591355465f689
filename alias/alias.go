// Package alias builds the argument list for an engine module call.
//
// Long-form parameters are bound to the engine's one-letter options through Alias values and
// collected in a System, which renders them as "-<option><value>" arguments sorted by option,
// preceded by the input file names:
//
//	sys := alias.New()
//	_ = sys.Set("I", alias.Alias{Name: "spacing", Value: 1.0, Sep: "/", Size: 2})
//	_ = sys.AddCommon([]float64{125, 130, 30, 35}, format.VerboseOff)
//	args := sys.Args("polygon.txt") // [polygon.txt -I1 -R125/130/30/35]
package alias

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arloliu/gridmask/errs"
	"github.com/arloliu/gridmask/format"
	"github.com/arloliu/gridmask/mask"
)

// Alias binds a long-form parameter value to an option.
type Alias struct {
	// Name is the long-form parameter name, used in error messages.
	Name string
	// Value is the parameter value. Supported types are nil, bool, string, the integer and
	// float kinds, mask.Value, and slices of float64, int, string or mask.Value. Nil, false,
	// empty strings and empty slices leave the option unset.
	Value any
	// Sep joins slice elements.
	Sep string
	// Size, when positive, is the required slice length.
	Size int
}

// Render formats the alias value. ok is false when the option should be omitted.
func (a Alias) Render() (value string, ok bool, err error) {
	switch v := a.Value.(type) {
	case nil:
		return "", false, nil
	case bool:
		return "", v, nil
	case string:
		return v, v != "", nil
	case float64:
		return mask.FormatNumber(v), true, nil
	case float32:
		return mask.FormatNumber(float64(v)), true, nil
	case int:
		return fmt.Sprint(v), true, nil
	case int64:
		return fmt.Sprint(v), true, nil
	case mask.Value:
		return v.String(), true, nil
	case []float64:
		return a.join(len(v), func(i int) string { return mask.FormatNumber(v[i]) })
	case []int:
		return a.join(len(v), func(i int) string { return fmt.Sprint(v[i]) })
	case []string:
		return a.join(len(v), func(i int) string { return v[i] })
	case []mask.Value:
		return a.join(len(v), func(i int) string { return v[i].String() })
	default:
		return "", false, fmt.Errorf("%w: %s has unsupported type %T", errs.ErrInvalidParameter, a.Name, a.Value)
	}
}

func (a Alias) join(n int, item func(int) string) (string, bool, error) {
	if n == 0 {
		return "", false, nil
	}
	if a.Size > 0 && n != a.Size {
		return "", false, fmt.Errorf("%w: %s expects %d values, got %d", errs.ErrInvalidParameter, a.Name, a.Size, n)
	}

	parts := make([]string, n)
	for i := range parts {
		parts[i] = item(i)
	}

	return strings.Join(parts, a.Sep), true, nil
}

// System is an ordered set of rendered options.
type System struct {
	values map[string]string
	names  map[string]string
}

// New returns an empty System.
func New() *System {
	return &System{
		values: make(map[string]string),
		names:  make(map[string]string),
	}
}

// Set renders a and binds the result to option. Omitted values leave option unset.
func (s *System) Set(option string, a Alias) error {
	val, ok, err := a.Render()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	s.values[option] = val
	s.names[option] = a.Name

	return nil
}

// SetToken binds an encoded option token such as the mask-value token.
func (s *System) SetToken(name string, tok mask.Token) {
	s.values[tok.Option] = tok.Value
	s.names[tok.Option] = name
}

// SetRaw binds value to option without any formatting.
func (s *System) SetRaw(option, value string) {
	s.values[option] = value
	s.names[option] = option
}

// AddCommon binds the options shared by every module: R (region) and V (verbosity).
//
// region may be a []float64 of 4 or 6 values, a string, or nil.
func (s *System) AddCommon(region any, verbose format.Verbosity) error {
	if floats, ok := region.([]float64); ok && len(floats) != 4 && len(floats) != 6 && len(floats) != 0 {
		return fmt.Errorf("%w: region expects 4 or 6 values, got %d", errs.ErrInvalidParameter, len(floats))
	}
	if err := s.Set("R", Alias{Name: "region", Value: region, Sep: "/"}); err != nil {
		return err
	}
	if verbose != format.VerboseOff {
		s.values["V"] = verbose.Code()
		s.names["V"] = "verbose"
	}

	return nil
}

// Merge adds raw extra options. An option already bound by a long-form parameter is a
// conflict and returns errs.ErrConflictingParameter.
func (s *System) Merge(extra map[string]string) error {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if name, exists := s.names[k]; exists {
			return fmt.Errorf("%w: option -%s is already set by parameter %q", errs.ErrConflictingParameter, k, name)
		}
		s.SetRaw(k, extra[k])
	}

	return nil
}

// Get returns the rendered value bound to option.
func (s *System) Get(option string) (string, bool) {
	v, ok := s.values[option]
	return v, ok
}

// Len returns the number of bound options.
func (s *System) Len() int {
	return len(s.values)
}

// Args renders the argument list: infiles first, then one "-<option><value>" per bound
// option sorted by option name.
func (s *System) Args(infiles ...string) []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(infiles)+len(keys))
	args = append(args, infiles...)
	for _, k := range keys {
		args = append(args, "-"+k+s.values[k])
	}

	return args
}
