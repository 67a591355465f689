// Package mask encodes the values a mask grid assigns to nodes that fall outside, on the
// edge of, or inside a polygon.
//
// Each bucket holds a Value: a number, the NaN-sentinel, or (edge and inside only) one of two
// symbolic modes. UseZValue takes the node value from the polygon's Z metadata and
// UseRunningID assigns each polygon its 1-based input order.
//
// # Encoding
//
// Encode produces the compact token the engine reads for its -N option:
//
//	outside/edge/inside   all three numeric, e.g. "0/0/1" or "NaN/0/1"
//	z, p                  inside symbolic, outside zero
//	z/<outside>           inside symbolic, outside non-zero
//	Z, P                  edge and inside select the same symbolic mode
//
// Requesting different symbolic modes for edge and inside is rejected with
// errs.ErrInvalidCombination.
//
// # Thread Safety
//
// Values, Settings and Tokens are immutable; every function in this package is pure and safe
// for concurrent use.
package mask
