/*
 * discdiag - Leading-decimal program-store edit lines.
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

import "strconv"

// parseLineEdit recognizes spec §4.4's "entering a line with a leading
// decimal N inserts the remainder of the line before the N-th current
// line". ok is false for any line that doesn't start (after leading
// whitespace) with a run of decimal digits followed by a separator or
// end of line.
func parseLineEdit(text string) (n int, rest string, ok bool) {
	pos := 0
	for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t') {
		pos++
	}
	start := pos
	for pos < len(text) && text[pos] >= '0' && text[pos] <= '9' {
		pos++
	}
	if pos == start {
		return 0, "", false
	}
	if pos < len(text) && text[pos] != ' ' && text[pos] != '\t' {
		return 0, "", false
	}
	num, err := strconv.Atoi(text[start:pos])
	if err != nil {
		return 0, "", false
	}
	if pos < len(text) {
		pos++
	}
	return num, text[pos:], true
}
