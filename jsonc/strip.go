// Package jsonc provides utilities for handling JSON with comments (JSONC).
//
// It removes JavaScript-style comments and, optionally, trailing commas so the
// result can be handed to a regular JSON parser. By default removed content is
// replaced with spaces, which keeps the byte offset, line and column of
// everything that remains identical to the original input.
package jsonc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgumentType is returned by StripValue when the input is not text.
var ErrInvalidArgumentType = errors.New("jsonc: expected argument to be a string")

// Options controls what is stripped and how.
type Options struct {
	// Whitespace replaces comments and trailing commas with spaces instead of
	// removing them entirely. Line endings inside removed spans are kept.
	Whitespace bool
	// TrailingCommas strips commas followed only by whitespace or comments
	// before a closing } or ].
	TrailingCommas bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Whitespace: true, TrailingCommas: true}
}

// Option adjusts the defaults for a single call.
type Option func(*Options)

// WithWhitespace toggles whitespace replacement.
func WithWhitespace(enabled bool) Option {
	return func(o *Options) { o.Whitespace = enabled }
}

// WithTrailingCommas toggles trailing comma removal.
func WithTrailingCommas(enabled bool) Option {
	return func(o *Options) { o.TrailingCommas = enabled }
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Result is the outcome of a Transform call.
type Result struct {
	Text           string
	LineComments   int
	BlockComments  int
	TrailingCommas int
	// Unterminated is set when the input ends inside a /* comment. The open
	// comment is treated as running to the end of the input.
	Unterminated bool
}

// Changed reports whether anything was stripped.
func (r Result) Changed() bool {
	return r.LineComments+r.BlockComments+r.TrailingCommas > 0
}

// Strip removes comments (and trailing commas, unless disabled) from s.
func Strip(s string, opts ...Option) string {
	return Transform(s, buildOptions(opts)).Text
}

// StripBytes is Strip for byte slices.
func StripBytes(data []byte, opts ...Option) []byte {
	return []byte(Strip(string(data), opts...))
}

// StripValue is Strip for dynamically typed input such as decoded tool
// arguments. Anything other than a string or []byte fails with
// ErrInvalidArgumentType before any scanning happens.
func StripValue(v any, opts ...Option) (string, error) {
	switch s := v.(type) {
	case string:
		return Strip(s, opts...), nil
	case []byte:
		return Strip(string(s), opts...), nil
	default:
		return "", fmt.Errorf("%w, got %s", ErrInvalidArgumentType, typeName(v))
	}
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

// Unmarshal strips data and decodes the result into v.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return json.Unmarshal(StripBytes(data, opts...), v)
}

// Position returns the 1-based line and column of the byte at offset.
// Columns count bytes, not runes, so a multi-byte character advances the
// column by its encoded length. Offsets outside text are clamped.
func Position(text string, offset int64) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	head := text[:offset]
	line = strings.Count(head, "\n") + 1
	col = len(head) - strings.LastIndexByte(head, '\n')
	return line, col
}

type scanMode int

const (
	modeNormal scanMode = iota
	modeString
	modeLineComment
	modeBlockComment
)

// Transform runs the scanner over s and reports what it removed.
func Transform(s string, opts Options) Result {
	p := &stripParser{src: s, opts: opts}
	p.out.Grow(len(s))
	p.parse()
	return p.res
}

type stripParser struct {
	src  string
	opts Options
	mode scanMode

	// offset is the start of the input not yet copied into held or out.
	offset int
	// commaPending is set while the comma at the start of held is
	// waiting to be classified as trailing or not.
	commaPending bool
	held         strings.Builder
	out          strings.Builder
	res          Result
}

func (p *stripParser) parse() {
	s := p.src
	for i := 0; i < len(s); i++ {
		c := s[i]

		if !p.inComment() && c == '"' && !isEscaped(s, i) {
			if p.mode == modeString {
				p.mode = modeNormal
			} else {
				p.mode = modeString
			}
		}
		if p.mode == modeString {
			continue
		}

		switch {
		case p.mode == modeNormal && hasPair(s, i, '/', '/'):
			p.hold(i)
			p.mode = modeLineComment
			p.res.LineComments++
			i++
		case p.mode == modeLineComment && hasPair(s, i, '\r', '\n'):
			// The \r goes with the comment, the \n is kept.
			i++
			p.mode = modeNormal
			p.holdStripped(i)
		case p.mode == modeLineComment && c == '\n':
			p.mode = modeNormal
			p.holdStripped(i)
		case p.mode == modeNormal && hasPair(s, i, '/', '*'):
			p.hold(i)
			p.mode = modeBlockComment
			p.res.BlockComments++
			i++
		case p.mode == modeBlockComment && hasPair(s, i, '*', '/'):
			i++
			p.mode = modeNormal
			p.holdStripped(i + 1)
		case p.opts.TrailingCommas && p.mode == modeNormal:
			p.trackComma(i, c)
		}
	}
	p.finish()
}

func (p *stripParser) trackComma(i int, c byte) {
	if p.commaPending {
		switch {
		case c == '}' || c == ']':
			p.hold(i)
			held := p.held.String()
			p.strip(&p.out, held[:1])
			p.out.WriteString(held[1:])
			p.held.Reset()
			p.commaPending = false
			p.res.TrailingCommas++
		case !isSpace(c):
			p.hold(i)
			p.commaPending = false
		}
		return
	}

	if c == ',' {
		p.out.WriteString(p.held.String())
		p.out.WriteString(p.src[p.offset:i])
		p.held.Reset()
		p.offset = i
		p.commaPending = true
	}
}

func (p *stripParser) finish() {
	p.out.WriteString(p.held.String())
	tail := p.src[p.offset:]
	if p.inComment() {
		p.res.Unterminated = p.mode == modeBlockComment
		p.strip(&p.out, tail)
	} else {
		p.out.WriteString(tail)
	}
	p.res.Text = p.out.String()
}

// hold moves the raw input up to end into the held buffer.
func (p *stripParser) hold(end int) {
	p.held.WriteString(p.src[p.offset:end])
	p.offset = end
}

// holdStripped moves the input up to end into the held buffer as a removed span.
func (p *stripParser) holdStripped(end int) {
	p.strip(&p.held, p.src[p.offset:end])
	p.offset = end
}

// strip writes the blanked form of span to dst, or nothing when whitespace
// replacement is off.
func (p *stripParser) strip(dst *strings.Builder, span string) {
	if !p.opts.Whitespace {
		return
	}
	for i := 0; i < len(span); i++ {
		switch c := span[i]; c {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			dst.WriteByte(c)
		default:
			dst.WriteByte(' ')
		}
	}
}

func (p *stripParser) inComment() bool {
	return p.mode == modeLineComment || p.mode == modeBlockComment
}

func hasPair(s string, i int, a, b byte) bool {
	return i+1 < len(s) && s[i] == a && s[i+1] == b
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// isEscaped reports whether the quote at pos is preceded by an odd number of
// backslashes.
func isEscaped(s string, pos int) bool {
	n := 0
	for i := pos - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
