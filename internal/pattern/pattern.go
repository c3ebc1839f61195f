/*
 * discdiag - Sector pattern generator/verifier and mismatch policy.
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

// Package pattern implements the write-side generation and read-side
// verification of spec §4.7 (cnt, dwcnt, val, rand, lba, buffs) and the
// Mismatch Policy state machine of §4.8.
//
// Resolved ambiguity (see DESIGN.md): spec §4.7's column headers read
// "Write | Read compare", suggesting compare targets read_buffer, but
// the worked examples in spec §8 ("pt cnt; c cnt 0 1" with no
// intervening read) only hold if pattn and comp address the same
// buffer. This package is buffer-agnostic — callers pass whichever
// []byte they mean — and internal/interp's "pt"/"c" verbs both target
// write_buffer, matching §8's literal transcripts; "buffs" is the one
// pattern that explicitly compares read_buffer against write_buffer.
package pattern

import (
	"encoding/binary"

	"github.com/samiam95124/diskdiagnostic/internal/diag"
	"github.com/samiam95124/diskdiagnostic/internal/rng"
)

// SectorSize is the fixed, indivisible I/O unit.
const SectorSize = 512

// Name is one of the engine's sector patterns.
type Name int

const (
	Cnt Name = 1 + iota
	Dwcnt
	Val
	Rand
	Lba
	Buffs
)

// Parse maps a pattern verb argument to its Name.
func Parse(s string) (Name, error) {
	switch s {
	case "cnt":
		return Cnt, nil
	case "dwcnt":
		return Dwcnt, nil
	case "val":
		return Val, nil
	case "rand":
		return Rand, nil
	case "lba":
		return Lba, nil
	case "buffs":
		return Buffs, nil
	default:
		return 0, diag.New(diag.Name, "unknown pattern: %s", s)
	}
}

// withResetSeed runs fn with the RNG seed saved and forced to
// rng.ResetSeed (42), restoring the caller's seed on every exit path,
// per the RNG invariant of spec §3 and the "srand resets to 42" rule of
// §4.1.
func withResetSeed(r *rng.State, fn func()) {
	saved := r.Save()
	defer r.Restore(saved)
	r.Reset()
	fn()
}

// Write fills buf[:sectors*SectorSize] per pat. val is the fill value
// for the Val pattern and the starting LBA for the Lba pattern (used to
// derive each sector's first four bytes); the other patterns ignore it.
// Buffs has no write form.
func Write(buf []byte, pat Name, val int64, sectors int, r *rng.State) error {
	region := buf[:sectors*SectorSize]
	switch pat {
	case Cnt:
		for i := range region {
			region[i] = byte(i % 256)
		}
	case Dwcnt:
		for i := 0; i+4 <= len(region); i += 4 {
			binary.BigEndian.PutUint32(region[i:i+4], uint32(i/4))
		}
	case Val:
		v := uint32(val)
		for i := 0; i+4 <= len(region); i += 4 {
			binary.BigEndian.PutUint32(region[i:i+4], v)
		}
	case Rand:
		withResetSeed(r, func() {
			for s := 0; s < sectors; s++ {
				r.Reset()
				sec := region[s*SectorSize : (s+1)*SectorSize]
				for i := range sec {
					sec[i] = byte(r.Rand64() & 0xff)
				}
			}
		})
	case Lba:
		for s := 0; s < sectors; s++ {
			sec := region[s*SectorSize : (s+1)*SectorSize]
			binary.BigEndian.PutUint32(sec[0:4], uint32(val+int64(s)))
		}
	case Buffs:
		return diag.New(diag.Name, "buffs has no write form")
	default:
		return diag.New(diag.Name, "unknown pattern")
	}
	return nil
}

// Compare verifies buf[:sectors*SectorSize] against the pattern pat
// (or, for Buffs, against other[:sectors*SectorSize]). policy governs
// per-byte mismatch reporting; checkBreak is sampled after every byte
// and, if set, yields diag.Exit or diag.Stop per exitOnError.
func Compare(buf []byte, other []byte, pat Name, val int64, sectors int, r *rng.State, policy *MismatchPolicy, checkBreak func() bool, exitOnError bool) (diag.Outcome, error) {
	region := buf[:sectors*SectorSize]
	policy.Begin()
	defer policy.End()

	report := func(i int, got, expected byte) (diag.Outcome, bool, error) {
		if stop, outcome := policy.Record(i, got, expected); stop {
			return 0, false, outcome
		}
		if checkBreak != nil && checkBreak() {
			if exitOnError {
				return diag.Exit, true, nil
			}
			return diag.Stop, true, nil
		}
		return 0, false, nil
	}

	switch pat {
	case Cnt:
		for i := 0; i < len(region); i++ {
			expected := byte(i % 256)
			if outcome, done, err := report(i, region[i], expected); err != nil {
				return 0, err
			} else if done {
				return outcome, nil
			}
		}
	case Dwcnt:
		for i := 0; i+4 <= len(region); i += 4 {
			var exp [4]byte
			binary.BigEndian.PutUint32(exp[:], uint32(i/4))
			for j := 0; j < 4; j++ {
				if outcome, done, err := report(i+j, region[i+j], exp[j]); err != nil {
					return 0, err
				} else if done {
					return outcome, nil
				}
			}
		}
	case Val:
		var exp [4]byte
		binary.BigEndian.PutUint32(exp[:], uint32(val))
		for i := 0; i+4 <= len(region); i += 4 {
			for j := 0; j < 4; j++ {
				if outcome, done, err := report(i+j, region[i+j], exp[j]); err != nil {
					return 0, err
				} else if done {
					return outcome, nil
				}
			}
		}
	case Rand:
		var outcome diag.Outcome
		var done bool
		var err error
		withResetSeed(r, func() {
			for s := 0; s < sectors && !done && err == nil; s++ {
				r.Reset()
				sec := region[s*SectorSize : (s+1)*SectorSize]
				for i := range sec {
					expected := byte(r.Rand64() & 0xff)
					var o diag.Outcome
					var d bool
					o, d, err = report(s*SectorSize+i, sec[i], expected)
					if err != nil {
						return
					}
					if d {
						outcome, done = o, true
						return
					}
				}
			}
		})
		if err != nil {
			return 0, err
		}
		if done {
			return outcome, nil
		}
	case Lba:
		for s := 0; s < sectors; s++ {
			sec := region[s*SectorSize : (s+1)*SectorSize]
			var exp [4]byte
			binary.BigEndian.PutUint32(exp[:], uint32(val+int64(s)))
			for j := 0; j < 4; j++ {
				if outcome, done, err := report(s*SectorSize+j, sec[j], exp[j]); err != nil {
					return 0, err
				} else if done {
					return outcome, nil
				}
			}
		}
	case Buffs:
		// buf/other's roles reverse here: every other pattern verifies buf
		// (write_buffer) against a computed reference, but buffs verifies
		// read_buffer (the actual contents, in other) against write_buffer
		// (the reference, in buf/region).
		gotRegion := other[:sectors*SectorSize]
		for i := range region {
			if outcome, done, err := report(i, gotRegion[i], region[i]); err != nil {
				return 0, err
			} else if done {
				return outcome, nil
			}
		}
	default:
		return 0, diag.New(diag.Name, "unknown pattern")
	}
	return diag.Ok, nil
}

// Mode selects how aggressively Compare reports mismatches.
type Mode int

const (
	ModeAll Mode = iota
	ModeOne
	ModeFail
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeFail:
		return "fail"
	default:
		return "one"
	}
}

// ParseMode maps the "mode" verb's argument to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "all":
		return ModeAll, nil
	case "one":
		return ModeOne, nil
	case "fail":
		return ModeFail, nil
	default:
		return 0, diag.New(diag.Name, "unknown compare mode: %s", s)
	}
}

// MismatchPolicy implements spec §4.8. Mode is a persistent setting
// (the "mode" verb); the rest of the state resets at the start of each
// Compare call via Begin.
type MismatchPolicy struct {
	Mode Mode

	// OnMismatch is called once per distinct (got, expected) run with
	// the buffer offset of the first occurrence.
	OnMismatch func(offset int, got, expected byte)
	// OnRepeatSummary is called when a run of identical mismatches ends.
	OnRepeatSummary func(count int)

	first       bool
	haveRepeat  bool
	repeatA     byte
	repeatB     byte
	repeatCount int
}

// NewMismatchPolicy returns a policy in the default "one" mode.
func NewMismatchPolicy() *MismatchPolicy {
	return &MismatchPolicy{Mode: ModeOne}
}

// Begin resets per-compare state (first, the running repeat pair).
func (p *MismatchPolicy) Begin() {
	p.first = true
	p.haveRepeat = false
	p.repeatCount = 0
}

// End flushes any pending repeat-run summary at the end of a compare.
func (p *MismatchPolicy) End() {
	p.flushRepeat()
}

func (p *MismatchPolicy) flushRepeat() {
	if p.repeatCount > 0 {
		if p.OnRepeatSummary != nil {
			p.OnRepeatSummary(p.repeatCount)
		}
		p.repeatCount = 0
	}
}

// Record handles one compared byte. stop is true iff mode is "fail" and
// this byte mismatched, in which case outcome is a *diag.Error to
// return as *compare*; the caller is responsible for break-flag
// sampling, which spec §4.8 performs "after every byte" regardless of
// match/mismatch.
func (p *MismatchPolicy) Record(offset int, got, expected byte) (stop bool, outcome error) {
	if got == expected {
		return false, nil
	}

	if p.first || p.Mode == ModeAll {
		if p.haveRepeat && got == p.repeatA && expected == p.repeatB {
			p.repeatCount++
		} else {
			p.flushRepeat()
			if p.OnMismatch != nil {
				p.OnMismatch(offset, got, expected)
			}
			p.repeatA, p.repeatB = got, expected
			p.haveRepeat = true
		}
	}
	p.first = false

	if p.Mode == ModeFail {
		return true, diag.New(diag.Compare, "miscompare at offset %d: got %02x expected %02x", offset, got, expected)
	}
	return false, nil
}
