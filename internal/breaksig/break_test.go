/*
 * discdiag - Break flag test cases.
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
package breaksig

import "testing"

func TestRaiseCheckClear(t *testing.T) {
	Clear()
	if Check() {
		t.Fatalf("Check() true after Clear()")
	}
	Raise()
	if !Check() {
		t.Errorf("Check() false after Raise()")
	}
	if !Check() {
		t.Errorf("Check() should not clear the flag")
	}
	Clear()
	if Check() {
		t.Errorf("Check() true after Clear()")
	}
}

func TestSampleClearsOnRead(t *testing.T) {
	Clear()
	Raise()
	if !Sample() {
		t.Fatalf("Sample() false right after Raise()")
	}
	if Sample() {
		t.Errorf("Sample() should clear the flag on read; second call got true")
	}
}

func TestSampleFalseWhenNotRaised(t *testing.T) {
	Clear()
	if Sample() {
		t.Errorf("Sample() true with no prior Raise()")
	}
}
