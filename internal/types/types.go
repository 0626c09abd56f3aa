// Package types defines shared data structures for stripjson.
package types

import "runtime/debug"

// Version is the application version. Set at build time via -ldflags.
// Falls back to module version from go install, or "dev" for local builds.
var Version = "dev"

func init() {
	// If version wasn't set via ldflags, try to get it from build info
	// This works when installed via: go install ...@version
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
}

// SupportedFiles lists the file names and extensions discovered by scan.
// Keep in step with discover.Detect.
var SupportedFiles = []string{
	"*.jsonc",
	"tsconfig.json",
	"tsconfig.*.json",
	"jsconfig.json",
	".vscode/*.json",
	"*.code-workspace",
	"devcontainer.json",
	".devcontainer.json",
	".eslintrc.json",
	".babelrc",
	"babel.config.json",
	"bun.lock",
	"deno.json",
	"deno.jsonc",
}

// Options mirrors the stripping options in results.
type Options struct {
	Whitespace     bool `json:"whitespace"`
	TrailingCommas bool `json:"trailing_commas"`
}

// StripStats counts what was removed from a document.
type StripStats struct {
	LineComments   int  `json:"line_comments"`
	BlockComments  int  `json:"block_comments"`
	TrailingCommas int  `json:"trailing_commas"`
	Unterminated   bool `json:"unterminated_comment,omitempty"` // Input ended inside /* */
}

// StripResponse is the output of stripping a piece of text.
type StripResponse struct {
	Text    string     `json:"text"`
	Changed bool       `json:"changed"`
	Stats   StripStats `json:"stats"`
	Options Options    `json:"options"`
}

// SyntaxIssue locates the first JSON syntax error in stripped output.
type SyntaxIssue struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// FileResult is the outcome of processing a single file.
type FileResult struct {
	Path     string       `json:"path"`
	Kind     string       `json:"kind"`
	Changed  bool         `json:"changed"`
	Written  bool         `json:"written,omitempty"`
	Valid    bool         `json:"valid"`
	BytesIn  int          `json:"bytes_in"`
	BytesOut int          `json:"bytes_out"`
	Stats    StripStats   `json:"stats"`
	Syntax   *SyntaxIssue `json:"syntax_error,omitempty"`
	Error    string       `json:"error,omitempty"` // Read or write failure
}

// ScanSummary contains aggregated scan statistics.
type ScanSummary struct {
	FilesScanned   int `json:"files_scanned"`
	FilesChanged   int `json:"files_changed"`
	FilesWritten   int `json:"files_written"`
	InvalidFiles   int `json:"invalid_files"`
	FailedFiles    int `json:"failed_files"`
	Comments       int `json:"comments"`
	TrailingCommas int `json:"trailing_commas"`
}

// ScanResult is the complete output of a directory scan.
type ScanResult struct {
	Root    string       `json:"root"`
	Summary ScanSummary  `json:"summary"`
	Files   []FileResult `json:"files"`
}

// StatusResponse is the output of the status tool.
type StatusResponse struct {
	Version        string   `json:"version"`
	ConfigFile     string   `json:"config_file,omitempty"`
	Options        Options  `json:"options"`
	SupportedFiles []string `json:"supported_files"`
}
