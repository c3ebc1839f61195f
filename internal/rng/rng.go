/*
 * discdiag - Deterministic linear-congruential generator.
 *
 * Copyright 2026, discdiag contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package rng implements the engine's multiplicative LCG byte-for-byte
// per spec §4.1. Do not substitute a library PRNG: patterns depend on
// this exact sequence.
package rng

const (
	multiplier uint64 = 33614
	modulus    uint64 = (1 << 31) - 1 // 2^31 - 1
	// DefaultSeed is the process-global default before any srand/pattern use.
	DefaultSeed uint32 = 1
	// ResetSeed is the value srand and every pattern/compare invocation
	// use as their working seed, per spec §4.1.
	ResetSeed uint32 = 42
)

// State holds a single LCG seed. Each engine keeps one State (its RNG
// field) for user code (accessible via srand/rand) and pattern/compare
// routines save it, substitute ResetSeed locally, and restore it,
// exactly per spec §4.1 and the RNG invariant of spec §3.
type State struct {
	seed uint32
}

// New returns a State initialized to DefaultSeed.
func New() *State {
	return &State{seed: DefaultSeed}
}

// Seed returns the current seed value.
func (s *State) Seed() uint32 {
	return s.seed
}

// SetSeed overwrites the current seed.
func (s *State) SetSeed(v uint32) {
	s.seed = v
}

// Reset sets the seed to ResetSeed (42), as srand does.
func (s *State) Reset() {
	s.seed = ResetSeed
}

// Rand32 advances the generator one step and returns the new 31-bit
// value: s <- (33614*s) mod (2^31-1).
//
// multiplier*seed never exceeds 2^48, well inside uint64, so the
// reduction is exact without Schrage's method. This is the same
// split-product-and-fold result the original fixed-width C reduction
// produces; computing it via a single uint64 modulus keeps the Go port
// from silently diverging on an off-by-one in a manual fold.
func (s *State) Rand32() uint32 {
	product := multiplier * uint64(s.seed)
	s.seed = uint32(product % modulus)
	return s.seed
}

// Rand64 produces a 64-bit value from two Rand32 calls: the high word is
// masked to 31 bits and concatenated with the low 32-bit word.
func (s *State) Rand64() uint64 {
	lo := s.Rand32()
	hi := s.Rand32() & 0x7fffffff
	return uint64(hi)<<32 | uint64(lo)
}

// Save/Restore let a pattern or compare routine run under ResetSeed
// without disturbing the caller's RNG stream, including on error exits.
//
//	saved := state.Save()
//	defer state.Restore(saved)
//	state.Reset()
func (s *State) Save() uint32 {
	return s.seed
}

// Restore reinstates a previously Saved seed.
func (s *State) Restore(saved uint32) {
	s.seed = saved
}
