/*
 * discdiag - Built-in verb table.
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
	"sort"

	"github.com/samiam95124/diskdiagnostic/internal/cursor"
	"github.com/samiam95124/diskdiagnostic/internal/diag"
)

// verbFunc is the signature every built-in verb handler satisfies.
// verbStart is the cursor position of the verb token itself, needed by
// loop/loopq to key their per-site counters.
type verbFunc func(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error)

func verbPrint(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	return e.doPrint(cur, false)
}

func verbPrintn(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	return e.doPrint(cur, true)
}

// verbTable maps every built-in verb spelling, long and short, to its
// handler, generalizing the teacher's cmdList verb table
// (command/parser/parser.go) from device-number verbs to discdiag's
// expression-argument ones.
var verbTable = map[string]verbFunc{
	"while":   verbWhile,
	"wend":    verbWend,
	"repeat":  verbRepeat,
	"until":   verbUntil,
	"for":     verbFor,
	"fend":    verbFend,
	"l":       verbLoop,
	"loop":    verbLoop,
	"lq":      verbLoop,
	"loopq":   verbLoop,
	"u":       verbU,
	"if":      verbIf,
	"go":      verbGo,
	"end":     verbEnd,
	"select":  verbSelect,
	"case":    verbCase,
	"default": verbDefault,
	"send":    verbSend,

	"p":     verbPrint,
	"print": verbPrint,
	"pn":    verbPrintn,
	"printn": verbPrintn,

	"s":     verbSet,
	"set":   verbSet,
	"local": verbLocal,

	"echo":  verbEcho,
	"echon": verbEchon,
	"input": verbInput,
	"srand": verbSrand,

	"exit":        verbExit,
	"exitonerror": verbExitOnError,

	"list":  verbList,
	"clear": verbClear,
	"save":  verbSave,
	"load":  verbLoad,
	"delt":  verbDelt,

	"drive":      verbDrive,
	"listdrives": verbListDrives,
	"ld":         verbListDrives,
	"unprot":     verbUnprot,
	"testdrive":  verbTestDrive,
	"td":         verbTestDrive,

	"r":     verbRead,
	"read":  verbRead,
	"w":     verbWrite,
	"write": verbWrite,

	"pt":    verbPattn,
	"pattn": verbPattn,
	"c":     verbComp,
	"comp":  verbComp,
	"mode":  verbMode,

	"dumpwrite": verbDumpWrite,
	"dw":        verbDumpWrite,
	"dumpread":  verbDumpRead,
	"dr":        verbDumpRead,

	"stats":  verbStats,
	"rstats": verbRStats,
	"vars":   verbVars,
	"help":   verbHelp,
	"?":      verbHelp,
}

// VerbNames returns every built-in verb spelling, sorted, for the REPL's
// tab-completer and the "help" verb.
func VerbNames() []string {
	names := make([]string, 0, len(verbTable))
	for name := range verbTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
