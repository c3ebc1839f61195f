/*
 * discdiag - Recursive-descent expression evaluator.
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

// Package eval implements the recursive-descent expression grammar of
// spec §4.2 over a shared *cursor.Cursor:
//
//	factor  := '+' factor | '-' factor | '(' expr ')' | value
//	value   := identifier | unsigned-integer-literal
//	mult    := factor (('*'|'/'|'%') factor)*
//	add     := mult   (('+'|'-') mult)*
//	expr    := add    (('>'|'<'|'='|'>='|'<='|'!=') add)?
//
// All arithmetic is int64. Whitespace is never skipped mid-expression:
// a space, ';', or end of line simply stops the operator-lookahead
// loops, which is what lets a verb's expression arguments be
// space-delimited.
package eval

import (
	"strconv"

	"github.com/samiam95124/diskdiagnostic/internal/cursor"
	"github.com/samiam95124/diskdiagnostic/internal/diag"
	"github.com/samiam95124/diskdiagnostic/internal/vars"
)

// Builtins resolves the five built-in identifiers (drvsiz, rand,
// lbarnd, secsiz, bufsiz) ahead of the user-variable stack, per the
// identifier resolution order of spec §4.2. ok is false for any name
// that isn't one of the built-ins, in which case the evaluator falls
// through to the variable store.
type Builtins interface {
	Builtin(name string) (val int64, ok bool, err error)
}

// Eval parses one expression starting at cur's current position and
// returns its value. The cursor is left positioned just after the
// expression (at the terminating space, ';', ')', or EOL).
func Eval(cur *cursor.Cursor, b Builtins, store *vars.Store) (int64, error) {
	cur.SkipSpace()
	return evalExpr(cur, b, store)
}

func evalExpr(cur *cursor.Cursor, b Builtins, store *vars.Store) (int64, error) {
	lhs, err := evalAdd(cur, b, store)
	if err != nil {
		return 0, err
	}

	op, width := peekCompareOp(cur)
	if op == "" {
		return lhs, nil
	}
	cur.Pos += width

	rhs, err := evalAdd(cur, b, store)
	if err != nil {
		return 0, err
	}

	var result bool
	switch op {
	case ">":
		result = lhs > rhs
	case "<":
		result = lhs < rhs
	case "=":
		result = lhs == rhs
	case ">=":
		result = lhs >= rhs
	case "<=":
		result = lhs <= rhs
	case "!=":
		result = lhs != rhs
	}
	if result {
		return 1, nil
	}
	return 0, nil
}

// peekCompareOp looks ahead for a comparison operator without
// consuming it (the caller advances cur.Pos by the returned width).
// A lone '!' not followed by '=' is the comment leader (spec §4.2): it
// is left untouched so the caller's cursor still sees it, and
// cursor.AtEOL treats '!' as end of line.
func peekCompareOp(cur *cursor.Cursor) (string, int) {
	switch cur.Peek() {
	case '>':
		if cur.PeekAt(1) == '=' {
			return ">=", 2
		}
		return ">", 1
	case '<':
		if cur.PeekAt(1) == '=' {
			return "<=", 2
		}
		return "<", 1
	case '=':
		return "=", 1
	case '!':
		if cur.PeekAt(1) == '=' {
			return "!=", 2
		}
		return "", 0
	}
	return "", 0
}

func evalAdd(cur *cursor.Cursor, b Builtins, store *vars.Store) (int64, error) {
	lhs, err := evalMult(cur, b, store)
	if err != nil {
		return 0, err
	}
	for {
		op := cur.Peek()
		if op != '+' && op != '-' {
			return lhs, nil
		}
		cur.Next()
		rhs, err := evalMult(cur, b, store)
		if err != nil {
			return 0, err
		}
		if op == '+' {
			lhs += rhs
		} else {
			lhs -= rhs
		}
	}
}

func evalMult(cur *cursor.Cursor, b Builtins, store *vars.Store) (int64, error) {
	lhs, err := evalFactor(cur, b, store)
	if err != nil {
		return 0, err
	}
	for {
		op := cur.Peek()
		if op != '*' && op != '/' && op != '%' {
			return lhs, nil
		}
		cur.Next()
		rhs, err := evalFactor(cur, b, store)
		if err != nil {
			return 0, err
		}
		switch op {
		case '*':
			lhs *= rhs
		case '/':
			if rhs == 0 {
				return 0, diag.New(diag.Arithmetic, "divide by zero")
			}
			lhs /= rhs
		case '%':
			if rhs == 0 {
				return 0, diag.New(diag.Arithmetic, "divide by zero")
			}
			lhs %= rhs
		}
	}
}

func evalFactor(cur *cursor.Cursor, b Builtins, store *vars.Store) (int64, error) {
	switch cur.Peek() {
	case '+':
		cur.Next()
		return evalFactor(cur, b, store)
	case '-':
		cur.Next()
		v, err := evalFactor(cur, b, store)
		return -v, err
	case '(':
		cur.Next()
		v, err := evalExpr(cur, b, store)
		if err != nil {
			return 0, err
		}
		if cur.Peek() != ')' {
			return 0, diag.New(diag.Syntax, "expected ')'")
		}
		cur.Next()
		return v, nil
	default:
		return evalValue(cur, b, store)
	}
}

func evalValue(cur *cursor.Cursor, b Builtins, store *vars.Store) (int64, error) {
	c := cur.Peek()
	if c == 0 {
		return 0, diag.New(diag.Syntax, "unexpected end of expression")
	}
	if isDigit(c) {
		return evalLiteral(cur)
	}
	if isIdentStart(c) {
		name := cur.TakeWord()
		return resolveIdent(name, b, store)
	}
	return 0, diag.New(diag.Syntax, "unexpected character %q", c)
}

func evalLiteral(cur *cursor.Cursor) (int64, error) {
	start := cur.Pos
	// Accept hex digits and the 'x'/'X' base marker alongside decimal
	// digits so TakeWord-style scanning captures "0x1F" as one token.
	for cur.Pos < len(cur.Line) && isLiteralByte(cur.Line[cur.Pos]) {
		cur.Pos++
	}
	text := cur.Line[start:cur.Pos]
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		// strconv base-0 parsing also accepts "0" octal prefix without
		// a leading zero digit oddity; any real failure is a syntax error.
		uv, uerr := strconv.ParseUint(text, 0, 64)
		if uerr != nil {
			return 0, diag.New(diag.Syntax, "invalid number %q", text)
		}
		return int64(uv), nil
	}
	return v, nil
}

func isLiteralByte(b byte) bool {
	return isDigit(b) || b == 'x' || b == 'X' ||
		(b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func resolveIdent(name string, b Builtins, store *vars.Store) (int64, error) {
	if val, ok, err := b.Builtin(name); ok {
		if err != nil {
			return 0, err
		}
		return val, nil
	}
	if val, ok := store.Lookup(name); ok {
		return val, nil
	}
	return 0, diag.New(diag.Name, "Variable %q invalid", name)
}
