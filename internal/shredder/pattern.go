package shredder

import (
	"io"
	"strings"

	"emperror.dev/errors"
)

// ChunkSize is the fixed amount of data written per I/O call during an
// overwrite pass. It bounds peak memory use and is constant for a whole run.
const ChunkSize = 8 * 1024 * 1024

// Pattern selects the byte content written by every overwrite pass of a run.
type Pattern int

const (
	// PatternRandom fills every chunk with fresh bytes from a cryptographically
	// secure source. Chunks are never reused: predictable fill data would
	// defeat the point of the overwrite.
	PatternRandom Pattern = iota
	PatternZeros
	PatternOnes
)

// ParsePattern converts a user supplied pattern name into a Pattern. The match
// is case-insensitive; anything other than "zeros", "ones" or "random" is an
// invocation error.
func ParsePattern(s string) (Pattern, error) {
	switch strings.ToLower(s) {
	case "random":
		return PatternRandom, nil
	case "zeros":
		return PatternZeros, nil
	case "ones":
		return PatternOnes, nil
	}
	return PatternRandom, errors.New("shredder: unknown fill pattern: " + s)
}

func (p Pattern) String() string {
	switch p {
	case PatternZeros:
		return "zeros"
	case PatternOnes:
		return "ones"
	}
	return "random"
}

// chunk produces the next n bytes (n <= ChunkSize) to write under the
// configured pattern. Constant patterns return a slice of a buffer precomputed
// when the Shredder was created, so no allocation happens per chunk.
func (s *Shredder) chunk(n int64) ([]byte, error) {
	switch s.pattern {
	case PatternZeros:
		return s.zeros[:n], nil
	case PatternOnes:
		return s.ones[:n], nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(s.rand, b); err != nil {
		return nil, errors.Wrap(err, "shredder: failed to read from random source")
	}
	return b, nil
}
