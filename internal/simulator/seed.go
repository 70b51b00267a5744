package simulator

import "hash/crc32"

// Sub-stream seeds are derived from (base seed, trial index, category
// index, profile identity) instead of advancing one shared generator.
// Every draw's position in the random stream is therefore fixed up front,
// which keeps parallel execution bit-identical to sequential execution
// and makes simulate(A, B) and simulate(B, A) draw the same values for
// the same profile.

const (
	seedGamma = 0x9e3779b97f4a7c15
	mixMul1   = 0xbf58476d1ce4e5b9
	mixMul2   = 0x94d049bb133111eb
)

// deriveSeed produces the seed of the sub-stream for one side's draw in
// one (trial, category) cell.
func deriveSeed(base int64, trial, category int, profileKey uint32) uint64 {
	h := uint64(base)
	h = mix64(h + seedGamma*uint64(trial+1))
	h = mix64(h + seedGamma*uint64(category+1))
	h = mix64(h + uint64(profileKey))
	return h
}

// profileKey folds a profile identifier into the seed derivation so each
// side keeps its own stream regardless of argument order.
func profileKey(playerID string) uint32 {
	return crc32.ChecksumIEEE([]byte(playerID))
}

// mix64 is a splitmix64-style finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= mixMul1
	x ^= x >> 27
	x *= mixMul2
	x ^= x >> 31
	return x
}
