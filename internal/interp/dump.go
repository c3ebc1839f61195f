/*
 * discdiag - dumpwrite/dumpread hex+ASCII paged buffer dump.
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

package interp

import (
	"fmt"
	"strings"

	"github.com/samiam95124/diskdiagnostic/internal/cursor"
	"github.com/samiam95124/diskdiagnostic/internal/diag"
)

const dumpBytesPerLine = 16

// dumpBuffer renders the first n sectors of buf as hex+ASCII, 16 bytes
// per line, through the Pager (honoring the break flag), per spec §4.9.
func (e *Engine) dumpBuffer(buf []byte, n int) (diag.Outcome, error) {
	limit := n * SectorSize
	if limit > len(buf) {
		limit = len(buf)
	}
	for off := 0; off < limit; off += dumpBytesPerLine {
		end := off + dumpBytesPerLine
		if end > limit {
			end = limit
		}
		line := formatDumpLine(off, buf[off:end])
		if e.Pager != nil {
			if !e.Pager.Println("%s", line) {
				return diag.Stop, nil
			}
		} else {
			fmt.Fprintln(e.Out, line)
		}
	}
	return diag.Ok, nil
}

func formatDumpLine(offset int, chunk []byte) string {
	var hex strings.Builder
	var ascii strings.Builder
	for i := 0; i < dumpBytesPerLine; i++ {
		if i < len(chunk) {
			fmt.Fprintf(&hex, "%02x ", chunk[i])
			b := chunk[i]
			if b >= 0x20 && b < 0x7f {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		} else {
			hex.WriteString("   ")
		}
	}
	return fmt.Sprintf("%08x  %s %s", offset, hex.String(), ascii.String())
}

func verbDumpWrite(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	n := NumSectors
	cur.SkipSpace()
	if !cur.AtEOL() && cur.Peek() != ';' {
		v, err := e.eval(cur)
		if err != nil {
			return diag.ErrorOutcome, err
		}
		n = int(v)
	}
	return e.dumpBuffer(e.WriteBuf, n)
}

func verbDumpRead(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	n := NumSectors
	cur.SkipSpace()
	if !cur.AtEOL() && cur.Peek() != ';' {
		v, err := e.eval(cur)
		if err != nil {
			return diag.ErrorOutcome, err
		}
		n = int(v)
	}
	return e.dumpBuffer(e.ReadBuf, n)
}
