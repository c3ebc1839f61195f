/*
 * discdiag - Interactive line-editing loop.
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

// Package repl is the REPL/Main Loop of spec §4.10: prompt, line entry,
// immediate vs. stored execution, and per-command statistics reporting.
// It generalizes the teacher's command/reader.ConsoleReader read-loop
// (liner.Prompt, Ctrl-C aborts, a tab-completer) from S370's one fixed
// command set to discdiag's dynamic verb-and-label vocabulary.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/samiam95124/diskdiagnostic/internal/breaksig"
	"github.com/samiam95124/diskdiagnostic/internal/interp"
	"github.com/samiam95124/diskdiagnostic/internal/pager"
)

// Prompt is the REPL's fixed prompt string.
const Prompt = "Diag> "

// PageHeight is the default number of lines shown between "--More--"
// pauses for dumpread/dumpwrite/list output.
const PageHeight = 24

// REPL drives one Engine from interactive liner input until "exit" or
// end of input.
type REPL struct {
	Engine *interp.Engine
	line   *liner.State

	errColor  *color.Color
	warnColor *color.Color
}

// New wires a fresh liner.State to e: history, Ctrl-C-aborts-to-break,
// tab-completion over the verb table and program labels, and the
// engine's input/dump/list pager outputs.
func New(e *interp.Engine) *REPL {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	l.SetCompleter(func(line string) []string {
		return completeLine(e, line)
	})

	r := &REPL{Engine: e, line: l}
	colorEnabled := isatty.IsTerminal(os.Stdout.Fd())
	r.errColor = color.New(color.FgRed, color.Bold)
	r.warnColor = color.New(color.FgYellow)
	r.errColor.EnableColor()
	r.warnColor.EnableColor()
	if !colorEnabled {
		r.errColor.DisableColor()
		r.warnColor.DisableColor()
	}

	e.ReadLine = func() (string, error) {
		return l.Prompt("")
	}
	e.Pager = pager.New(e.Out, PageHeight, l)
	return r
}

// Close releases the underlying liner state.
func (r *REPL) Close() {
	r.line.Close()
}

// Run reads and executes lines until "exit", end of input, or an
// unrecoverable read error. It returns true if the session ended
// because the last command errored with exitonerror active, matching
// spec §7's escalation-to-exit rule for the process exit code.
func (r *REPL) Run() bool {
	for {
		breaksig.Clear()
		r.Engine.Pager.Reset()
		line, err := r.line.Prompt(Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// EOF (piped input, Ctrl-D) or any other line-reading failure
			// ends the session the same way "exit" would.
			return r.Engine.LastErrored && r.Engine.ExitOnError
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.line.AppendHistory(line)

		outcome, runErr := r.Engine.RunLine(line)
		if runErr != nil {
			fmt.Fprintln(os.Stdout, r.errColor.Sprint("*** Error: ")+runErr.Error())
		}
		if outcome.String() == "exit" {
			return r.Engine.LastErrored && r.Engine.ExitOnError
		}
	}
}

// RunScript feeds lines from a script file through the same RunLine path
// a REPL session would use, without interactive prompting or paging.
func RunScript(e *interp.Engine, lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		outcome, err := e.RunLine(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "*** Error: "+err.Error())
		}
		if outcome.String() == "exit" {
			break
		}
	}
	return e.LastErrored && e.ExitOnError
}

// LoadStartupScript loads r into the program store, per spec §6's
// "Startup file": discdiag.ini, if present, is loaded as a program, and
// if it defines a procedure named "init", that procedure is invoked as
// the first command. It returns true if that invocation ended the
// session because it errored with exitonerror active, matching
// RunScript's exit-code contract.
func LoadStartupScript(e *interp.Engine, r io.Reader) (bool, error) {
	if err := e.Program.Load(r); err != nil {
		return false, err
	}
	if _, ok := e.Program.FindLabel("init"); !ok {
		return false, nil
	}
	if _, err := e.RunLine("init"); err != nil {
		fmt.Fprintln(os.Stderr, "*** Error: "+err.Error())
	}
	return e.LastErrored && e.ExitOnError, nil
}

// completeLine offers verb-name and label completions for the word
// currently being typed, mirroring CompleteCmd's prefix-match shape
// (command/parser/parser.go) generalized over a dynamic candidate list
// instead of a fixed cmdList.
func completeLine(e *interp.Engine, line string) []string {
	start := strings.LastIndexAny(line, " ;")
	prefix := line
	head := ""
	if start >= 0 {
		head = line[:start+1]
		prefix = line[start+1:]
	}
	if prefix == "" {
		return nil
	}

	var matches []string
	for _, name := range interp.VerbNames() {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, head+name+" ")
		}
	}
	for _, l := range e.Program.Lines() {
		if l.Label != "" && strings.HasPrefix(l.Label, prefix) {
			matches = append(matches, head+l.Label+" ")
		}
	}
	return matches
}
