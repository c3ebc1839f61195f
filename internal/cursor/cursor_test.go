/*
 * discdiag - Character-cursor test cases.
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
package cursor

import "testing"

func TestTakeWord(t *testing.T) {
	cases := []struct {
		line string
		want string
		pos  int
	}{
		{"  hello world", "hello", 7},
		{"foo_bar(1)", "foo_bar", 7},
		{"123abc rest", "123abc", 6},
		{"", "", 0},
		{"   ", "", 3},
	}
	for _, c := range cases {
		cur := New(c.line)
		got := cur.TakeWord()
		if got != c.want || cur.Pos != c.pos {
			t.Errorf("TakeWord(%q) = (%q, %d), want (%q, %d)", c.line, got, cur.Pos, c.want, c.pos)
		}
	}
}

func TestTakeParam(t *testing.T) {
	cur := New("  0x10 next")
	got := cur.TakeParam()
	if got != "0x10" {
		t.Errorf("TakeParam() = %q, want %q", got, "0x10")
	}
	cur2 := New("a;b")
	got2 := cur2.TakeParam()
	if got2 != "a" {
		t.Errorf("TakeParam() = %q, want %q", got2, "a")
	}
}

func TestTakeQuotedString(t *testing.T) {
	cases := []struct {
		line string
		want string
		ok   bool
	}{
		{`"hello"`, "hello", true},
		{`"he said ""hi"""`, `he said "hi"`, true},
		{`"unterminated`, "unterminated", false},
		{`not quoted`, "", false},
	}
	for _, c := range cases {
		cur := New(c.line)
		got, ok := cur.TakeQuotedString()
		if got != c.want || ok != c.ok {
			t.Errorf("TakeQuotedString(%q) = (%q, %v), want (%q, %v)", c.line, got, ok, c.want, c.ok)
		}
	}
}

func TestAtEOL(t *testing.T) {
	cur := New("p 1 ! a trailing comment")
	if cur.AtEOL() {
		t.Fatalf("AtEOL() true at start of line")
	}
	cur.Pos = 4
	if !cur.AtEOL() {
		t.Errorf("AtEOL() false at '!' comment leader")
	}

	empty := New("")
	if !empty.AtEOL() {
		t.Errorf("AtEOL() false on empty line")
	}
}

func TestPeekAtIgnoresCommentLeader(t *testing.T) {
	cur := New("x != y")
	cur.Pos = 2
	if cur.Peek() != '!' {
		t.Fatalf("Peek() = %q, want '!'", cur.Peek())
	}
	if cur.PeekAt(1) != '=' {
		t.Errorf("PeekAt(1) = %q, want '='", cur.PeekAt(1))
	}
}

func TestRestOfLine(t *testing.T) {
	cur := New("echo hello world; p 1")
	cur.Pos = 5
	got := cur.RestOfLine()
	if got != "hello world" {
		t.Errorf("RestOfLine() = %q, want %q", got, "hello world")
	}
	if cur.Pos != 5 {
		t.Errorf("RestOfLine() should not advance the cursor, pos = %d", cur.Pos)
	}
}

func TestSkipToSemicolon(t *testing.T) {
	cur := New("s x 1; p x")
	cur.SkipToSemicolon()
	if cur.Line[cur.Pos:] != " p x" {
		t.Errorf("SkipToSemicolon() left %q, want %q", cur.Line[cur.Pos:], " p x")
	}

	noSemi := New("s x 1")
	noSemi.SkipToSemicolon()
	if !noSemi.AtEOL() {
		t.Errorf("SkipToSemicolon() with no ';' should land at EOL")
	}
}

func TestBack(t *testing.T) {
	cur := New("abcdef")
	cur.Pos = 4
	cur.Back(2)
	if cur.Pos != 2 {
		t.Errorf("Back(2) pos = %d, want 2", cur.Pos)
	}
	cur.Back(10)
	if cur.Pos != 0 {
		t.Errorf("Back(10) should clamp to 0, got %d", cur.Pos)
	}
}
