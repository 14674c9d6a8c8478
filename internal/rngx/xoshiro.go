// Package rngx provides the seedable, counter-based PRNG spec §5 asks
// for ("a seedable counter-based PRNG (Xoshiro-class)"). It wraps a
// Xoshiro256** generator behind math/rand.Source64 so the rest of the
// codebase threads it through math/rand.New exactly the way the teacher
// wraps its stdlib source (bls.go: rand.New(rand.NewSource(params.Seed))).
package rngx

// Xoshiro256 is a Xoshiro256** generator. The zero value is invalid; use
// NewXoshiro256.
type Xoshiro256 struct {
	s [4]uint64
}

// NewXoshiro256 seeds a generator from a single 64-bit seed, expanding it
// into the 256 bits of internal state via SplitMix64 (the construction
// recommended by the Xoshiro authors to avoid all-zero or low-entropy
// states).
func NewXoshiro256(seed uint64) *Xoshiro256 {
	sm := splitMix64{state: seed}
	var s [4]uint64
	for i := range s {
		s[i] = sm.next()
	}
	return &Xoshiro256{s: s}
}

func rotl(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}

// Uint64 returns the next 64-bit output and advances the state.
func (x *Xoshiro256) Uint64() uint64 {
	s := &x.s
	result := rotl(s[1]*5, 7) * 9

	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t

	s[3] = rotl(s[3], 45)

	return result
}

// Int63 implements math/rand.Source.
func (x *Xoshiro256) Int63() int64 {
	return int64(x.Uint64() >> 1)
}

// Seed reseeds the generator deterministically, implementing math/rand.Source.
func (x *Xoshiro256) Seed(seed int64) {
	*x = *NewXoshiro256(uint64(seed))
}

// Jump is equivalent to 2^128 calls to Uint64; it is used to derive
// long, non-overlapping substreams for sub-phases of a run from a
// single root generator without re-seeding (and thus without losing the
// "same seed reproduces a run" property across differing worker counts
// within one process).
func (x *Xoshiro256) Jump() {
	jumpConsts := [4]uint64{
		0x180ec6d33cfd0aba, 0xd5a61266f0c9392c,
		0xa9582618e03fc9aa, 0x39abdc4529b1661c,
	}
	var s0, s1, s2, s3 uint64
	for _, jc := range jumpConsts {
		for b := range uint(64) {
			if jc&(1<<b) != 0 {
				s0 ^= x.s[0]
				s1 ^= x.s[1]
				s2 ^= x.s[2]
				s3 ^= x.s[3]
			}
			x.Uint64()
		}
	}
	x.s[0], x.s[1], x.s[2], x.s[3] = s0, s1, s2, s3
}

// splitMix64 is the standard seed-expansion generator used to initialize
// Xoshiro256 state from a single seed.
type splitMix64 struct {
	state uint64
}

func (sm *splitMix64) next() uint64 {
	sm.state += 0x9e3779b97f4a7c15
	z := sm.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// ChildSeed derives a reproducible child seed from a root seed, a role
// name and an integer index (worker id, phase number, ...), so the orchestrator
// can spawn per-worker and per-sub-phase generators from one root seed
// (spec §5: "spawns child seeds for each worker and each sub-phase").
func ChildSeed(rootSeed uint64, role string, index int) uint64 {
	sm := splitMix64{state: rootSeed}
	for _, c := range role {
		sm.state ^= uint64(c)
		sm.next()
	}
	sm.state ^= uint64(index) * 0x9e3779b97f4a7c15
	return sm.next()
}
