/*
 * discdiag - Program line store: labeled, parameterized, ordered text.
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

// Package program stores the diagnostic tool's stored program: an
// ordered sequence of lines, each optionally labeled and parameterized,
// per spec §4.4. Loop-site counters are keyed by (line identity, byte
// offset within the line's text) per Design Notes §9, so edits and
// reloads don't inherit stale counts from an unrelated line that
// happened to reuse the same slice index.
package program

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samiam95124/diskdiagnostic/internal/cursor"
)

// Line is one stored program line.
type Line struct {
	ID     int      // stable identity, assigned once at creation
	Label  string   // "" if unlabeled
	Params []string // parameter names, in declared order
	Text   string   // the command text after the label prefix

	loopCounters map[int]int // keyed by character offset of the loop/loopq site
}

// IncLoopCounter increments and returns the counter for the loop/loopq
// site at the given text offset.
func (l *Line) IncLoopCounter(offset int) int {
	if l.loopCounters == nil {
		l.loopCounters = map[int]int{}
	}
	l.loopCounters[offset]++
	return l.loopCounters[offset]
}

// LoopCounter returns the current count for a site without incrementing.
func (l *Line) LoopCounter(offset int) int {
	return l.loopCounters[offset]
}

// ResetLoopCounter clears a site's counter back to zero.
func (l *Line) ResetLoopCounter(offset int) {
	delete(l.loopCounters, offset)
}

// Store is the ordered collection of program lines.
type Store struct {
	lines  []*Line
	labels map[string]*Line
	nextID int
}

// NewStore returns an empty program store.
func NewStore() *Store {
	return &Store{labels: map[string]*Line{}}
}

// Len returns the number of stored lines.
func (s *Store) Len() int { return len(s.lines) }

// Lines returns the stored lines in order. The returned slice must not
// be mutated by the caller.
func (s *Store) Lines() []*Line { return s.lines }

// At returns the 1-based n-th line, or nil if out of range.
func (s *Store) At(n int) *Line {
	if n < 1 || n > len(s.lines) {
		return nil
	}
	return s.lines[n-1]
}

// Clear empties the store, freeing every line, label, and loop counter.
func (s *Store) Clear() {
	s.lines = nil
	s.labels = map[string]*Line{}
}

// Insert parses text for an optional "label:" or "label(params):" head
// and inserts the resulting Line before the current n-th line (1-based);
// n beyond the end appends. Returns the new Line.
func (s *Store) Insert(n int, text string) (*Line, error) {
	label, params, body, _ := parseLabel(text)
	if label != "" {
		if _, exists := s.labels[label]; exists {
			return nil, errors.New("label already defined: " + label)
		}
	}

	s.nextID++
	line := &Line{ID: s.nextID, Label: label, Params: params, Text: body}

	if n < 1 {
		n = 1
	}
	if n > len(s.lines)+1 {
		n = len(s.lines) + 1
	}
	s.lines = append(s.lines, nil)
	copy(s.lines[n:], s.lines[n-1:])
	s.lines[n-1] = line

	if label != "" {
		s.labels[label] = line
	}
	return line, nil
}

// Append adds a line at the end, used by Load where lines arrive
// strictly in file order.
func (s *Store) Append(text string) (*Line, error) {
	return s.Insert(len(s.lines)+1, text)
}

// Delete removes the n-th line (1-based), freeing its label and loop
// counters.
func (s *Store) Delete(n int) error {
	if n < 1 || n > len(s.lines) {
		return fmt.Errorf("no such line: %d", n)
	}
	line := s.lines[n-1]
	if line.Label != "" {
		delete(s.labels, line.Label)
	}
	s.lines = append(s.lines[:n-1], s.lines[n:]...)
	return nil
}

// FindLabel looks up a callable line by label.
func (s *Store) FindLabel(name string) (*Line, bool) {
	l, ok := s.labels[name]
	return l, ok
}

// IndexOf returns the 1-based position of line, or 0 if not present
// (used by the interpreter to advance to "the next line" after line).
func (s *Store) IndexOf(line *Line) int {
	for i, l := range s.lines {
		if l == line {
			return i + 1
		}
	}
	return 0
}

// Save writes the program back out in the same textual form it would
// have been entered in: "label: text", "label(p1 p2): text", or plain
// "text". Loop counters are not persisted, per spec §6.
func (s *Store) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, line := range s.lines {
		var err error
		switch {
		case line.Label != "" && len(line.Params) > 0:
			_, err = fmt.Fprintf(bw, "%s(%s): %s\n", line.Label, strings.Join(line.Params, " "), line.Text)
		case line.Label != "":
			_, err = fmt.Fprintf(bw, "%s: %s\n", line.Label, line.Text)
		default:
			_, err = fmt.Fprintf(bw, "%s\n", line.Text)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load clears the store and reads lines verbatim, accepting LF or CRLF
// endings and re-parsing each line's optional label head.
func (s *Store) Load(r io.Reader) error {
	s.Clear()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")
		if _, err := s.Append(text); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// parseLabel recognizes "name:" or "name(p1 p2 ...):" at the head of a
// line. ok is false if no label head was present, in which case body
// equals the original line unchanged.
func parseLabel(line string) (label string, params []string, body string, ok bool) {
	cur := cursor.New(line)
	cur.SkipSpace()
	if cur.Pos != 0 {
		// A label must start the line (column 0); a leading space means
		// this is a continuation/indented body line, not a label head.
		return "", nil, line, false
	}

	name := cur.TakeWord()
	if name == "" {
		return "", nil, line, false
	}

	switch cur.Peek() {
	case ':':
		cur.Next()
		return name, nil, strings.TrimPrefix(cur.Line[cur.Pos:], " "), true
	case '(':
		cur.Next()
		var plist []string
		for {
			cur.SkipSpace()
			if cur.Peek() == ')' {
				cur.Next()
				break
			}
			p := cur.TakeWord()
			if p == "" {
				return "", nil, line, false
			}
			plist = append(plist, p)
		}
		if cur.Peek() != ':' {
			return "", nil, line, false
		}
		cur.Next()
		return name, plist, strings.TrimPrefix(cur.Line[cur.Pos:], " "), true
	default:
		return "", nil, line, false
	}
}
