// Command shpp is the interpreter's CLI entry point: one positional
// argument batch-executes a source file; no arguments starts an
// interactive REPL.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aminya/shell-plus-plus/internal/config"
	"github.com/aminya/shell-plus-plus/internal/evaluator"
	"github.com/aminya/shell-plus-plus/internal/lexer"
	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/parser"
	"github.com/aminya/shell-plus-plus/internal/repl"
	"github.com/aminya/shell-plus-plus/internal/source"
)

var (
	// Version, BuildDate and Commit are overridden at link time
	// (-ldflags "-X main.Version=...").
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help     bool
	version  bool
	rootPath string
	logLevel string
	logFile  string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&rootPath, "root", ".", "Set the root context for the program")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, none (overrides the rc-file default)")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	if version {
		fmt.Printf("shpp version %s %s %s\n", Version, BuildDate, Commit)
		return
	}
	if help {
		printHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "shpp: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	cfg.RootPath = rootPath
	cfg.Version, cfg.BuildDate, cfg.Commit = Version, BuildDate, Commit

	setupLogging(logLevel, logFile)

	ev := evaluator.New(os.Stdout, os.Stderr, os.Stdin)
	env := repl.New(ev)

	if path := flag.Arg(0); path != "" {
		os.Exit(runFile(ev, env, path))
	}
	runREPL(ev, env, cfg)
}

// runFile is batch mode: parse and evaluate a whole source file, printing
// any lexer/parser/runtime error in the "Error: <line>: <col>: <message>"
// format and returning a non-zero exit code on failure.
func runFile(ev *evaluator.Evaluator, env *object.Environment, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shpp: %s: %v\n", path, err)
		return 1
	}

	diags := &source.DiagnosticSink{}
	l := lexer.New(string(data), diags)
	p := parser.New(l, diags)

	program, perr := p.ParseProgram()
	if perr != nil {
		// A batch file has no continuation driver: an unclosed construct at
		// EOF is a hard syntax error here, not a request for more input.
		fmt.Fprintln(os.Stderr, "Error: unexpected end of input")
		return 1
	}
	if len(p.Errors()) > 0 {
		for _, msg := range p.Errors() {
			fmt.Fprintln(os.Stderr, "Error: "+msg)
		}
		return 1
	}
	if diags.ErrorCount() > 0 {
		for _, d := range diags.Messages() {
			if d.Severity == source.Error {
				pos := source.Position{Line: d.Line, Col: d.Col}
				fmt.Fprintf(os.Stderr, "Error: %s: %s\n", pos.String(), d.Text)
			}
		}
		return 1
	}

	slog.Debug("parsed program", "path", path, "statements", len(program.Statements))

	result := ev.Eval(program, env)
	if re, ok := result.(*object.RuntimeError); ok {
		slog.Debug("evaluation failed", "code", string(re.Code), "line", re.Position.Line, "col", re.Position.Col)
		fmt.Fprintf(os.Stderr, "Error: %s: %s\n", re.Position.String(), re.Message)
		for _, msg := range re.Secondary {
			fmt.Fprintln(os.Stderr, "Error: "+msg)
		}
		return 1
	}
	return 0
}

// runREPL is interactive mode: prompts from the rc-file (default
// "> "/"| "), with env persisting across inputs.
func runREPL(ev *evaluator.Evaluator, env *object.Environment, cfg config.Configuration) {
	scanner := bufio.NewScanner(os.Stdin)
	next := repl.ScannerLineReader(scanner, os.Stdout, cfg.Prompt, cfg.Continue)
	repl.Run(next, ev, env, os.Stdout)
}

func setupLogging(level, file string) {
	opts := &slog.HandlerOptions{AddSource: false, Level: logLevelFromString(level)}
	logWriter := configureLogWriter(file)
	slog.SetDefault(slog.New(slog.NewJSONHandler(logWriter, opts)))
}

func configureLogWriter(file string) *os.File {
	if file == "" {
		return os.Stderr
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", file, err)
		return os.Stderr
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", file, err)
		return os.Stderr
	}
	return f
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError + 4 // effectively disables logging ("none")
	}
}

func printHelp() {
	fmt.Printf(`Usage: shpp [options] [filename]

Options:
  -root <path>       Set the root context for the program. Default is '.'
  -log-level <level> Set the log level: debug, info, warn, error, none.
  -log-file <path>   Specify a log file to write logs. Default is stderr.
  -help              Display this help information and exit.
  -version           Display version information and exit.

With no filename, shpp starts an interactive REPL reading from stdin.

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
