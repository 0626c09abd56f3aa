// Package stripper orchestrates stripping comments from text, files and project trees.
package stripper

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync/atomic"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/seanhalberthal/stripjson/internal/config"
	"github.com/seanhalberthal/stripjson/internal/discover"
	"github.com/seanhalberthal/stripjson/internal/log"
	"github.com/seanhalberthal/stripjson/internal/types"
	"github.com/seanhalberthal/stripjson/jsonc"
)

// kindJSON labels files that were named explicitly but are not a known JSONC kind.
const kindJSON = "json"

// Stripper applies the configured options to text and files.
type Stripper struct {
	cfg    *config.Config
	logger kitlog.Logger
}

// New creates a stripper. A nil config selects the defaults.
func New(cfg *config.Config) *Stripper {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Stripper{
		cfg:    cfg,
		logger: kitlog.With(log.Logger, "component", "stripper"),
	}
}

// Config returns the configuration in use.
func (s *Stripper) Config() *config.Config {
	return s.cfg
}

// Options returns the default stripping options.
func (s *Stripper) Options() jsonc.Options {
	return s.cfg.Options()
}

// WithOptions returns a copy of the stripper using opts for every operation.
func (s *Stripper) WithOptions(opts jsonc.Options) *Stripper {
	cfg := *s.cfg
	cfg.Whitespace = opts.Whitespace
	cfg.TrailingCommas = opts.TrailingCommas
	return &Stripper{cfg: &cfg, logger: s.logger}
}

// ScanOptions configures a directory scan.
type ScanOptions struct {
	Path      string
	Recursive bool
	// Write rewrites changed files in place.
	Write bool
	// OnFile, when set, is called after each file with the number of files
	// finished so far. It may be called from several goroutines.
	OnFile func(done, total int)
}

// StripText strips a piece of text with the given options.
func (s *Stripper) StripText(text string, opts jsonc.Options) types.StripResponse {
	res := jsonc.Transform(text, opts)
	return types.StripResponse{
		Text:    res.Text,
		Changed: res.Changed(),
		Stats:   statsOf(res),
		Options: optionsOf(opts),
	}
}

// StripFile strips a single file and checks that the result is valid JSON.
// When write is set and the content changed, the file is rewritten with its
// original permissions. With validation enabled, output that is not valid
// JSON is never written.
func (s *Stripper) StripFile(path string, write bool) (*types.FileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- path comes from discovery or an explicit user argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	opts := s.cfg.Options()
	res := jsonc.Transform(string(data), opts)
	result := &types.FileResult{
		Path:     path,
		Kind:     kindOf(path),
		Changed:  res.Changed(),
		BytesIn:  len(data),
		BytesOut: len(res.Text),
		Stats:    statsOf(res),
	}

	result.Syntax = locateSyntaxIssue(string(data), opts, res.Text)
	result.Valid = result.Syntax == nil

	if write && result.Changed && (result.Valid || !s.cfg.Validate) {
		if err := os.WriteFile(path, []byte(res.Text), info.Mode().Perm()); err != nil {
			return nil, err
		}
		result.Written = true
	}

	_ = level.Debug(s.logger).Log("msg", "processed file", "path", path, "kind", result.Kind,
		"changed", result.Changed, "valid", result.Valid, "written", result.Written)

	return result, nil
}

// Scan finds JSONC files under opts.Path and strips them concurrently.
// Files that cannot be read are reported in the result rather than failing
// the scan.
func (s *Stripper) Scan(ctx context.Context, opts ScanOptions) (*types.ScanResult, error) {
	paths, err := discover.FindFiles(opts.Path, opts.Recursive, s.cfg.Exclude)
	if err != nil {
		return nil, err
	}

	_ = level.Info(s.logger).Log("msg", "scanning", "path", opts.Path, "files", len(paths), "recursive", opts.Recursive)

	files := make([]types.FileResult, len(paths))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			fr, err := s.StripFile(path, opts.Write)
			if err != nil {
				_ = level.Warn(s.logger).Log("msg", "failed to process file", "path", path, "err", err)
				fr = &types.FileResult{Path: path, Kind: kindOf(path), Error: err.Error()}
			}
			files[i] = *fr

			if opts.OnFile != nil {
				opts.OnFile(int(done.Add(1)), len(paths))
			}
			return nil // Per-file errors are recorded in the result
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &types.ScanResult{
		Root:  opts.Path,
		Files: files,
	}
	result.Summary = summarise(files)

	return result, nil
}

// summarise aggregates per-file results.
func summarise(files []types.FileResult) types.ScanSummary {
	summary := types.ScanSummary{FilesScanned: len(files)}

	for _, f := range files {
		if f.Error != "" {
			summary.FailedFiles++
			continue
		}
		if f.Changed {
			summary.FilesChanged++
		}
		if f.Written {
			summary.FilesWritten++
		}
		if !f.Valid {
			summary.InvalidFiles++
		}
		summary.Comments += f.Stats.LineComments + f.Stats.BlockComments
		summary.TrailingCommas += f.Stats.TrailingCommas
	}

	return summary
}

// syntaxIssue reports the first JSON syntax error in text, positioned by
// line and column. With whitespace replacement the position also holds for
// the original input.
func syntaxIssue(text string) *types.SyntaxIssue {
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		return nil
	}

	offset := int64(len(text))
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		// Offset counts the byte that caused the error.
		offset = serr.Offset - 1
	}

	line, col := jsonc.Position(text, offset)
	return &types.SyntaxIssue{
		Message: err.Error(),
		Line:    line,
		Column:  col,
	}
}

// locateSyntaxIssue validates the stripped output. Removing comments
// outright shifts everything after them, so the error is located on a
// whitespace-preserving pass with the same options, whose offsets match data.
func locateSyntaxIssue(data string, opts jsonc.Options, stripped string) *types.SyntaxIssue {
	issue := syntaxIssue(stripped)
	if issue == nil || opts.Whitespace {
		return issue
	}

	opts.Whitespace = true
	if positioned := syntaxIssue(jsonc.Transform(data, opts).Text); positioned != nil {
		return positioned
	}
	return issue
}

func kindOf(path string) string {
	kind, err := discover.Detect(path)
	if err != nil {
		return kindJSON
	}
	return string(kind)
}

func statsOf(res jsonc.Result) types.StripStats {
	return types.StripStats{
		LineComments:   res.LineComments,
		BlockComments:  res.BlockComments,
		TrailingCommas: res.TrailingCommas,
		Unterminated:   res.Unterminated,
	}
}

func optionsOf(opts jsonc.Options) types.Options {
	return types.Options{
		Whitespace:     opts.Whitespace,
		TrailingCommas: opts.TrailingCommas,
	}
}
