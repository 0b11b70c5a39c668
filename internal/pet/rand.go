package pet

import "math/rand"

// Rand supplies random bits. Bits(n) returns a uniform value in [0, 2^n),
// so Bits(n) == 0 passes with probability 1 in 2^n.
type Rand interface {
	Bits(n int) uint32
}

type defaultRand struct{}

func (defaultRand) Bits(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if n >= 32 {
		return rand.Uint32()
	}
	return rand.Uint32() & (1<<uint(n) - 1)
}
