package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of the given bytes.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Args computes a single xxHash64 over an argument list followed by an input payload.
// Each argument is terminated by a zero byte so that ["ab","c"] and ["a","bc"] differ.
func Args(args []string, payload []byte) uint64 {
	d := xxhash.New()
	for _, a := range args {
		_, _ = d.WriteString(a)
		_, _ = d.Write([]byte{0})
	}
	_, _ = d.Write(payload)

	return d.Sum64()
}
