/*
Lumex translates a Lumerical-FDTD-style scripting file into Python source
that drives the meep FDTD simulation library.

Usage:

	lumex [flags] FILE
	lumex [flags] --repl

By default, lumex reads FILE, translates it, and writes the resulting
Python source to stdout (or to the file given by --out). When --out is
given, the runtime.py support module the translated script imports is
written alongside it unless disabled by --no-runtime or a loaded config
file; in stdout mode runtime.py is not written.

The flags are:

	-v, --version
		Give the current version of lumex and then exit.

	-o, --out FILE
		Write the translated Python source to FILE instead of stdout.
		runtime.py, if written, is placed next to FILE.

	-c, --config FILE
		Load configuration from FILE (TOML). If not given, built-in
		defaults are used; see internal/config.

	--no-runtime
		Do not write runtime.py alongside the translated output, even if
		the config file would otherwise request it.

	--cache FILE
		Path to a cached compiled grammar table (see internal/ll1/cache.go).
		Speeds up repeated invocations; safe to omit.

	-r, --repl
		Start an interactive line-at-a-time translate-and-echo session
		instead of reading a file, using GNU readline where available.

	-d, --direct
		When used with --repl, force reading directly from stdin instead
		of going through GNU readline, even in a tty.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/lumex"
	"github.com/dekarrin/lumex/internal/config"
	"github.com/dekarrin/lumex/internal/diag"
	"github.com/dekarrin/lumex/internal/runtime"
	"github.com/dekarrin/lumex/internal/util"
	"github.com/dekarrin/lumex/internal/version"
	"github.com/chzyer/readline"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad CLI arguments.
	ExitUsageError

	// ExitTranslateError indicates a translation (lex/parse/action)
	// failure.
	ExitTranslateError

	// ExitIOError indicates a failure reading input or writing output.
	ExitIOError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	outFile     = pflag.StringP("out", "o", "", "Write translated Python source to this file instead of stdout")
	configFile  = pflag.StringP("config", "c", "", "Load configuration from the given TOML file")
	noRuntime   = pflag.Bool("no-runtime", false, "Do not write runtime.py alongside the translated output")
	cacheFile   = pflag.String("cache", "", "Path to a cached compiled grammar table")
	replMode    = pflag.BoolP("repl", "r", false, "Start an interactive translate-and-echo session")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of GNU readline")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: loading config: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}
	if *noRuntime {
		cfg.WriteRuntime = false
	}

	g, err := lumex.NewGrammar(*cacheFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: building grammar: %s\n", err.Error())
		returnCode = ExitTranslateError
		return
	}

	if *replMode {
		runREPL(g, cfg)
		return
	}

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "ERROR: expected exactly one input FILE (or --repl)")
		returnCode = ExitUsageError
		return
	}

	srcPath := pflag.Arg(0)
	src, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading %s: %s\n", srcPath, err.Error())
		returnCode = ExitIOError
		return
	}

	result, err := lumex.Translate(string(src), g, cfg)
	if err != nil {
		reportError(srcPath, err)
		returnCode = ExitTranslateError
		return
	}

	if err := writeResult(result, srcPath); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing output: %s\n", err.Error())
		returnCode = ExitIOError
		return
	}

	log := diag.NewLogger(true)
	log.Warn(result.Warnings)
}

// writeResult writes result.Code to stdout or --out, and result.Runtime
// (if non-empty) to runtime.py next to it.
func writeResult(result *lumex.Result, srcPath string) error {
	if *outFile == "" {
		_, err := io.WriteString(os.Stdout, result.Code+"\n")
		if result.Runtime != "" {
			fmt.Fprintf(os.Stderr, "NOTE: runtime.py not written to disk in stdout mode; pass --out to enable it\n")
		}
		return err
	}

	if err := os.WriteFile(*outFile, []byte(result.Code+"\n"), 0o644); err != nil {
		return err
	}
	if result.Runtime != "" {
		runtimePath := filepath.Join(filepath.Dir(*outFile), runtime.ModuleName+".py")
		if err := os.WriteFile(runtimePath, []byte(result.Runtime), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// reportError unwraps err to lumex's most specific diag error kind and
// prints a single "<file>:<line>: <message>" line.
func reportError(path string, err error) {
	var lexErr *diag.LexicalError
	var parseErr *diag.ParseError
	var grammarErr *diag.GrammarError
	var actionErr *diag.ActionError
	var convErr *diag.ConversionError

	switch {
	case errors.As(err, &lexErr):
		fmt.Fprintf(os.Stderr, "%s:%d: %s\n", path, lexErr.Pos.Line, lexErr.Error())
	case errors.As(err, &parseErr):
		fmt.Fprintf(os.Stderr, "%s:%d: %s\n", path, parseErr.Pos.Line, parseErr.Error())
	case errors.As(err, &actionErr):
		fmt.Fprintf(os.Stderr, "%s:%d: %s\n", path, actionErr.Pos.Line, actionErr.Error())
	case errors.As(err, &convErr):
		fmt.Fprintf(os.Stderr, "%s:%d: %s\n", path, convErr.Pos.Line, convErr.Error())
	case errors.As(err, &grammarErr):
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, grammarErr.Error())
	default:
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, err.Error())
	}
}

// runREPL drives an interactive line-at-a-time translate-and-echo session,
// the same direct-stdin-or-readline split tqi's internal/input implements
// for its command reader, adapted here to a stateless one-shot translation
// per line rather than a persistent game command loop.
func runREPL(g *lumex.Grammar, cfg config.Config) {
	useReadline := !*forceDirect
	var rl *readline.Instance
	var err error
	if useReadline {
		rl, err = readline.NewEx(&readline.Config{Prompt: "lumex> "})
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: initializing readline: %s\n", err.Error())
			returnCode = ExitIOError
			return
		}
		defer rl.Close()
	}

	// history accumulates the session's program text line by line. A line
	// that fails to translate (e.g. it opens a block the REPL hasn't
	// closed yet, or is simply invalid) is undone so it doesn't
	// permanently wedge every later translation.
	var history util.UndoableStringBuilder

	for {
		var line string
		if useReadline {
			line, err = rl.Readline()
		} else {
			fmt.Print("lumex> ")
			line, err = readDirectLine(os.Stdin)
		}
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitIOError
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		history.WriteString(line + "\n")

		result, err := lumex.Translate(history.String(), g, cfg)
		if err != nil {
			reportError("<repl>", err)
			history.Undo()
			continue
		}
		fmt.Println(result.Code)
	}
}

func readDirectLine(r io.Reader) (string, error) {
	buf := make([]byte, 1)
	var sb strings.Builder
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return sb.String(), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
	}
}
