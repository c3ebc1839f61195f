/*
 * discdiag - Break/cancellation flag, sampled at interpreter suspension points.
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

// Package breaksig tracks a single process-wide cancellation flag set by
// Ctrl-C. Unlike the teacher's channel/select signal handling (S370 runs
// its CPU on its own goroutine and selects on sigChan concurrently),
// discdiag's engine is single-threaded per spec §5: every long-running
// loop (read/write/compare, dumpread/dumpwrite, pager waits) samples an
// atomic flag instead of blocking in a select.
package breaksig

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

var flagged atomic.Bool

// Watch installs the SIGINT/SIGTERM handler that sets the break flag.
// It returns a stop function that restores default signal handling.
func Watch() (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigChan:
				flagged.Store(true)
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		signal.Stop(sigChan)
	}
}

// Check reports whether a break was requested, without clearing it.
func Check() bool {
	return flagged.Load()
}

// Sample reports whether a break was requested and clears the flag, the
// sample-and-clear semantics spec §4.11's check_break() describes so a
// single Ctrl-C stops exactly one in-flight operation rather than every
// subsequent one.
func Sample() bool {
	return flagged.Swap(false)
}

// Clear forces the flag off, used when entering a fresh top-level prompt.
func Clear() {
	flagged.Store(false)
}

// Raise sets the flag programmatically; used by tests.
func Raise() {
	flagged.Store(true)
}
