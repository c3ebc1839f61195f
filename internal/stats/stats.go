/*
 * discdiag - I/O throughput statistics.
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

// Package stats accumulates the I/O counters of spec §4.10
// (iop_read/iop_write/byte_read/byte_write) and the now()/elapsed()
// timing helpers of §6's Block Device Interface list. Both are
// environment-agnostic bookkeeping, not drive-specific operations, so
// they live here rather than in internal/device.
package stats

import (
	"fmt"
	"time"
)

// Counters is the engine's running I/O tally, read by the "stats" verb
// and reset by "rstats".
type Counters struct {
	IopRead   int64
	IopWrite  int64
	ByteRead  int64
	ByteWrite int64

	start time.Time
}

// New returns a zeroed Counters with its elapsed-time origin set to now.
func New() *Counters {
	return &Counters{start: now()}
}

// Reset zeroes every counter and restarts the elapsed-time origin.
func (c *Counters) Reset() {
	*c = Counters{start: now()}
}

// RecordRead adds one read operation of n bytes.
func (c *Counters) RecordRead(n int64) {
	c.IopRead++
	c.ByteRead += n
}

// RecordWrite adds one write operation of n bytes.
func (c *Counters) RecordWrite(n int64) {
	c.IopWrite++
	c.ByteWrite += n
}

// Elapsed returns the time since the counters were created or reset.
func (c *Counters) Elapsed() time.Duration {
	return elapsed(c.start)
}

// now and elapsed wrap time.Now/time.Since under names matching spec
// §6's now()/elapsed() Block Device Interface entries, kept as the
// single place that touches the wall clock.
func now() time.Time              { return time.Now() }
func elapsed(t time.Time) time.Duration { return time.Since(t) }

// Report formats the per-command timing line of spec §4.10: elapsed
// time, read/write/total IOP counts, and SI-scaled read/write/total
// byte counts, matching the fixed-width single-line style of the
// teacher's Show output (command/parser/commands.go), e.g.:
//
//	Time: 1.204s IOW: 4 IOR: 12 IO: 16 BW: 2.0k BR: 6.0k BT: 8.0k
func (c *Counters) Report() string {
	elapsed := c.Elapsed()
	return fmt.Sprintf("Time: %s IOW: %d IOR: %d IO: %d BW: %s BR: %s BT: %s",
		elapsed.Round(time.Millisecond),
		c.IopWrite, c.IopRead, c.IopWrite+c.IopRead,
		scaleSI(c.ByteWrite), scaleSI(c.ByteRead), scaleSI(c.ByteWrite+c.ByteRead))
}

// scaleSI renders n with a k (1024) or M (1024*1024) suffix once it
// crosses the corresponding threshold, per spec §4.10's throughput
// scaling requirement.
func scaleSI(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1fM", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1fk", float64(n)/1024)
	default:
		return fmt.Sprintf("%d", n)
	}
}
