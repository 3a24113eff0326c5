// Package randutil centralises deterministic rand/v2 seeding so every
// randomized component gets reproducible sequences from a single int64 seed.
package randutil

import (
	"hash/fnv"
	rand "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// rand/v2's PCG wants two 64-bit seeds; both are derived here so all call
// sites agree on the mixing.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// FromName seeds from a string identity combined with an extra seed, so a
// roster of same-strategy bots still plays distinct sequences.
func FromName(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return New(seed ^ int64(h.Sum64()))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
