/*
 * discdiag - Program line store test cases.
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
package program

import (
	"strings"
	"testing"
)

func TestInsertAppendsInOrder(t *testing.T) {
	s := NewStore()
	s.Insert(1, "p 1")
	s.Insert(2, "p 2")
	s.Insert(2, "p 1.5") // inserted before the current 2nd line

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	want := []string{"p 1", "p 1.5", "p 2"}
	for i, w := range want {
		if got := s.At(i + 1).Text; got != w {
			t.Errorf("At(%d).Text = %q, want %q", i+1, got, w)
		}
	}
}

func TestLabelParsing(t *testing.T) {
	s := NewStore()
	line, err := s.Insert(1, "top: p 1")
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if line.Label != "top" || line.Text != "p 1" {
		t.Errorf("got label=%q text=%q, want label=%q text=%q", line.Label, line.Text, "top", "p 1")
	}

	found, ok := s.FindLabel("top")
	if !ok || found != line {
		t.Fatalf("FindLabel(top) = (%v, %v), want the inserted line", found, ok)
	}
}

func TestLabelWithParams(t *testing.T) {
	s := NewStore()
	line, err := s.Insert(1, "addtwo(a b): s r a+b")
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if line.Label != "addtwo" {
		t.Errorf("Label = %q, want addtwo", line.Label)
	}
	if len(line.Params) != 2 || line.Params[0] != "a" || line.Params[1] != "b" {
		t.Errorf("Params = %v, want [a b]", line.Params)
	}
	if line.Text != "s r a+b" {
		t.Errorf("Text = %q, want %q", line.Text, "s r a+b")
	}
}

func TestDuplicateLabelIsError(t *testing.T) {
	s := NewStore()
	s.Insert(1, "top: p 1")
	if _, err := s.Insert(2, "top: p 2"); err == nil {
		t.Fatalf("Insert() with duplicate label expected error, got nil")
	}
}

func TestDelete(t *testing.T) {
	s := NewStore()
	s.Insert(1, "top: p 1")
	s.Insert(2, "p 2")
	if err := s.Delete(1); err != nil {
		t.Fatalf("Delete(1) error: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if _, ok := s.FindLabel("top"); ok {
		t.Errorf("FindLabel(top) should fail after deleting its line")
	}
	if err := s.Delete(5); err == nil {
		t.Errorf("Delete(5) out of range expected error, got nil")
	}
}

func TestIndexOf(t *testing.T) {
	s := NewStore()
	s.Insert(1, "p 1")
	l2, _ := s.Insert(2, "p 2")
	if idx := s.IndexOf(l2); idx != 2 {
		t.Errorf("IndexOf(l2) = %d, want 2", idx)
	}
	if idx := s.IndexOf(&Line{}); idx != 0 {
		t.Errorf("IndexOf(unrelated) = %d, want 0", idx)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore()
	s.Insert(1, "top: s x 1")
	s.Insert(2, "addtwo(a b): s r a+b")
	s.Insert(3, "p x")

	var buf strings.Builder
	if err := s.Save(&buf); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	s2 := NewStore()
	if err := s2.Load(strings.NewReader(buf.String())); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s2.Len() != s.Len() {
		t.Fatalf("Load() got %d lines, want %d", s2.Len(), s.Len())
	}
	for i := 1; i <= s.Len(); i++ {
		a, b := s.At(i), s2.At(i)
		if a.Label != b.Label || a.Text != b.Text || len(a.Params) != len(b.Params) {
			t.Errorf("line %d mismatch after round-trip: %+v != %+v", i, a, b)
		}
	}
}

func TestLoadClearsPriorContent(t *testing.T) {
	s := NewStore()
	s.Insert(1, "stale: p 1")
	if err := s.Load(strings.NewReader("p 2\n")); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Len() != 1 || s.At(1).Text != "p 2" {
		t.Fatalf("Load() should replace prior content, got %+v", s.Lines())
	}
	if _, ok := s.FindLabel("stale"); ok {
		t.Errorf("stale label should not survive Load()")
	}
}

func TestLoopCounters(t *testing.T) {
	s := NewStore()
	line, _ := s.Insert(1, "loop 3")
	if c := line.LoopCounter(0); c != 0 {
		t.Fatalf("LoopCounter() initial = %d, want 0", c)
	}
	if c := line.IncLoopCounter(0); c != 1 {
		t.Errorf("IncLoopCounter() = %d, want 1", c)
	}
	line.IncLoopCounter(0)
	if c := line.LoopCounter(0); c != 2 {
		t.Errorf("LoopCounter() = %d, want 2", c)
	}
	line.ResetLoopCounter(0)
	if c := line.LoopCounter(0); c != 0 {
		t.Errorf("LoopCounter() after reset = %d, want 0", c)
	}
}

func TestIndentedLineIsNotALabel(t *testing.T) {
	s := NewStore()
	line, _ := s.Insert(1, "  top: p 1")
	if line.Label != "" {
		t.Errorf("indented line should not be treated as a label, got %q", line.Label)
	}
}
