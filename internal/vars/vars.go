/*
 * discdiag - User variable store: a linked stack with scope watermarks.
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

// Package vars implements the user-variable stack of spec §4.3: a
// singly-linked LIFO of named 64-bit cells. Lookup returns the first
// match, which is what gives procedure locals their shadowing behavior;
// a Mark/Truncate pair at call/return time destroys locals pushed since
// entry.
package vars

// cell is one linked-list node.
type cell struct {
	name string
	val  int64
	next *cell
}

// Store is a LIFO stack of named int64 cells.
type Store struct {
	head *cell
}

// NewStore returns an empty variable store.
func NewStore() *Store {
	return &Store{}
}

// Lookup returns the value of the first cell named name (most recently
// pushed wins) and whether it was found.
func (s *Store) Lookup(name string) (int64, bool) {
	for c := s.head; c != nil; c = c.next {
		if c.name == name {
			return c.val, true
		}
	}
	return 0, false
}

// Set mutates the first existing cell named name in place, or prepends
// a new one if none exists, per spec §4.3 ("set"/"s").
func (s *Store) Set(name string, val int64) {
	for c := s.head; c != nil; c = c.next {
		if c.name == name {
			c.val = val
			return
		}
	}
	s.head = &cell{name: name, val: val, next: s.head}
}

// Local unconditionally prepends a new cell, shadowing any outer
// variable of the same name regardless of whether one already exists.
func (s *Store) Local(name string, val int64) {
	s.head = &cell{name: name, val: val, next: s.head}
}

// Mark is an opaque watermark: the current head of the stack. Truncate
// restores the stack to this point, destroying everything pushed since.
type Mark struct {
	head *cell
}

// Mark captures the current stack top.
func (s *Store) Mark() Mark {
	return Mark{head: s.head}
}

// Truncate pops every cell pushed since m was taken.
func (s *Store) Truncate(m Mark) {
	s.head = m.head
}

// Names returns the names of all live cells, most recently pushed
// first, without duplicates collapsed (shadowed cells still appear).
// Used by the "vars" verb to dump the current scope chain.
func (s *Store) Names() []string {
	var names []string
	for c := s.head; c != nil; c = c.next {
		names = append(names, c.name)
	}
	return names
}

// Each calls fn for every live cell, most recently pushed first.
func (s *Store) Each(fn func(name string, val int64)) {
	for c := s.head; c != nil; c = c.next {
		fn(c.name, c.val)
	}
}
