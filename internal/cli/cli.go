// Package cli provides the command-line interface for stripjson.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/seanhalberthal/stripjson/internal/stripper"
	"github.com/seanhalberthal/stripjson/internal/types"
	"github.com/seanhalberthal/stripjson/jsonc"
)

const errorFormat = "Error: %v\n"

// exitFunc is the function used to exit the program. Override in tests.
var exitFunc = os.Exit

// stdin is the reader used when strip is given no file. Override in tests.
var stdin io.Reader = os.Stdin

// Run executes the CLI with the given stripper and arguments.
func Run(s *stripper.Stripper, args []string) {
	if len(args) == 0 {
		printUsage()
		exitFunc(1)
		return
	}

	switch args[0] {
	case "status":
		runStatus(s)
	case "version":
		fmt.Println(types.Version)
	case "strip":
		runStrip(s, parseStripFlags(s, args[1:]))
	case "check":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(os.Stderr, "Error: check requires a file argument")
			exitFunc(1)
			return
		}
		runCheck(s, args[1])
	case "scan":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(os.Stderr, "Error: scan requires a path argument")
			exitFunc(1)
			return
		}
		runScan(s, args[1], parseScanFlags(s, args[2:]))
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		exitFunc(1)
		return
	}
}

func printUsage() {
	fmt.Println(`stripjson - strip comments and trailing commas from JSON

Usage:
  stripjson <command>                        Run in CLI mode (default)
  stripjson --mcp                            Run as MCP server
  stripjson --config <file> <command>        Use an explicit config file

Commands:
  strip [path|-] [flags]                     Print the stripped file (stdin when no path)
      --no-whitespace                        Delete comments instead of blanking them
      --keep-trailing-commas                 Leave trailing commas in place
      --write, -w                            Rewrite the file in place
  check <file>                               Check the stripped file is valid JSON
  scan <dir> [--recursive] [--write] [--json]
                                             Strip every JSONC file in a project
  status                                     Show version, options and supported files
  version                                    Print the version`)
}

type stripFlags struct {
	Path           string
	Whitespace     bool
	TrailingCommas bool
	Write          bool
}

func parseStripFlags(s *stripper.Stripper, args []string) stripFlags {
	opts := s.Options()
	flags := stripFlags{Whitespace: opts.Whitespace, TrailingCommas: opts.TrailingCommas}
	for _, arg := range args {
		switch arg {
		case "--no-whitespace":
			flags.Whitespace = false
		case "--keep-trailing-commas":
			flags.TrailingCommas = false
		case "--write", "-w":
			flags.Write = true
		default:
			if flags.Path == "" && (arg == "-" || !strings.HasPrefix(arg, "-")) {
				flags.Path = arg
			}
		}
	}
	return flags
}

type scanFlags struct {
	Recursive bool
	Write     bool
	JSON      bool
}

func parseScanFlags(s *stripper.Stripper, args []string) scanFlags {
	flags := scanFlags{Recursive: s.Config().Recursive}
	for _, arg := range args {
		switch arg {
		case "--recursive", "-r":
			flags.Recursive = true
		case "--write", "-w":
			flags.Write = true
		case "--json":
			flags.JSON = true
		}
	}
	return flags
}

func runStatus(s *stripper.Stripper) {
	opts := s.Options()
	status := types.StatusResponse{
		Version:    types.Version,
		ConfigFile: s.Config().Path,
		Options: types.Options{
			Whitespace:     opts.Whitespace,
			TrailingCommas: opts.TrailingCommas,
		},
		SupportedFiles: types.SupportedFiles,
	}
	printJSON(status)
}

func runStrip(s *stripper.Stripper, flags stripFlags) {
	s = s.WithOptions(stripOptions(flags))

	if flags.Write {
		if flags.Path == "" || flags.Path == "-" {
			printStyledError("--write requires a file path")
			exitFunc(1)
			return
		}
		result, err := s.StripFile(flags.Path, true)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, errorFormat, err)
			exitFunc(1)
			return
		}
		printFileLine(*result)
		if !result.Valid && s.Config().Validate {
			exitFunc(1)
		}
		return
	}

	data, err := readInput(flags.Path)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, errorFormat, err)
		exitFunc(1)
		return
	}

	resp := s.StripText(string(data), s.Options())
	fmt.Print(resp.Text)
}

func runCheck(s *stripper.Stripper, path string) {
	result, err := s.StripFile(path, false)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, errorFormat, err)
		exitFunc(1)
		return
	}

	if result.Syntax != nil {
		printStyledError("%s:%d:%d: %s", path, result.Syntax.Line, result.Syntax.Column, result.Syntax.Message)
		exitFunc(1)
		return
	}

	fmt.Println(formatSuccess(fmt.Sprintf("%s is valid JSON after stripping (%s)", formatPath(path), formatStats(result.Stats))))
}

func runScan(s *stripper.Stripper, path string, flags scanFlags) {
	progress := startProgress("scanning " + path)

	result, err := s.Scan(context.Background(), stripper.ScanOptions{
		Path:      path,
		Recursive: flags.Recursive,
		Write:     flags.Write,
		OnFile:    progress.update,
	})
	progress.stop()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, errorFormat, err)
		exitFunc(1)
		return
	}

	if flags.JSON {
		printJSON(result)
	} else {
		printScanReport(result)
	}

	if result.Summary.FailedFiles > 0 || (result.Summary.InvalidFiles > 0 && s.Config().Validate) {
		exitFunc(1)
	}
}

func stripOptions(flags stripFlags) jsonc.Options {
	return jsonc.Options{
		Whitespace:     flags.Whitespace,
		TrailingCommas: flags.TrailingCommas,
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	// #nosec G304 -- path is supplied by the user on the command line
	return os.ReadFile(path)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}
