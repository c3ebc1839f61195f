/*
 * discdiag - Main process.
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

package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/samiam95124/diskdiagnostic/internal/breaksig"
	"github.com/samiam95124/diskdiagnostic/internal/device"
	"github.com/samiam95124/diskdiagnostic/internal/interp"
	"github.com/samiam95124/diskdiagnostic/internal/logger"
	"github.com/samiam95124/diskdiagnostic/internal/repl"
)

var Logger *slog.Logger

// defaultInitScript is the autoloaded script name, run before the
// interactive prompt the same way the teacher autoloads S370.cfg.
const defaultInitScript = "discdiag.ini"

func main() {
	optDrive := getopt.IntLong("drive", 'd', -1, "Open this drive number at startup")
	optScript := getopt.StringLong("script", 's', "", "Run this script instead of discdiag.ini")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "discdiag: "+err.Error())
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, false))
	slog.SetDefault(Logger)

	dev := device.NewFileDevice()
	if err := dev.Init(); err != nil {
		Logger.Error("device init failed: " + err.Error())
		os.Exit(1)
	}
	defer dev.Deinit()

	e := interp.New(dev, os.Stdout)
	e.PrintBanner()

	stop := breaksig.Watch()
	defer stop()

	if *optDrive >= 0 {
		if err := dev.SetDrive(*optDrive); err != nil {
			Logger.Error(fmt.Sprintf("drive %d: %v", *optDrive, err))
		} else if size, err := dev.SizeCurrent(); err == nil {
			e.Drive = *optDrive
			e.HasDrive = true
			e.DriveSize = size / interp.SectorSize
		}
	}

	scriptName := *optScript
	if scriptName == "" {
		if _, err := os.Stat(defaultInitScript); err == nil {
			scriptName = defaultInitScript
		}
	}
	if scriptName != "" {
		exitNonZero, err := loadStartupScript(e, scriptName)
		if err != nil {
			Logger.Error("reading " + scriptName + ": " + err.Error())
		} else if exitNonZero {
			os.Exit(1)
		}
	}

	if *optScript != "" {
		// A one-shot script run, not an interactive session.
		return
	}

	r := repl.New(e)
	defer r.Close()
	if r.Run() {
		os.Exit(1)
	}
}

// loadStartupScript opens name and loads it into the program store via
// repl.LoadStartupScript, auto-invoking an "init" procedure if one is
// defined, per spec §6's startup file rule.
func loadStartupScript(e *interp.Engine, name string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return repl.LoadStartupScript(e, f)
}
