package jsonc

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

type stripCase struct {
	name  string
	input string
	want  string
}

func runStripCases(t *testing.T, tests []stripCase, opts ...Option) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strip(tt.input, opts...)
			if got != tt.want {
				t.Errorf("Strip() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStrip_ReplaceWithWhitespace(t *testing.T) {
	runStripCases(t, []stripCase{
		{"line comment before object", "//comment\n{\"a\":\"b\"}", "         \n{\"a\":\"b\"}"},
		{"line comment inside block comment", `/*//comment*/{"a":"b"}`, `             {"a":"b"}`},
		{"line comment before closer", "{\"a\":\"b\"//comment\n}", "{\"a\":\"b\"         \n}"},
		{"block comment before closer", `{"a":"b"/*comment*/}`, `{"a":"b"           }`},
		{"block comment spanning lines", "{\"a\"/*\n\n\ncomment\r\n*/:\"b\"}", "{\"a\"  \n\n\n       \r\n  :\"b\"}"},
		{"banner comment", "/*!\n * comment\n */\n{\"a\":\"b\"}", "   \n          \n   \n{\"a\":\"b\"}"},
		{"block comment after opener", `{/*comment*/"a":"b"}`, `{           "a":"b"}`},
	})
}

func TestStrip_RemoveComments(t *testing.T) {
	runStripCases(t, []stripCase{
		{"line comment before object", "//comment\n{\"a\":\"b\"}", "\n{\"a\":\"b\"}"},
		{"line comment inside block comment", `/*//comment*/{"a":"b"}`, `{"a":"b"}`},
		{"line comment before closer", "{\"a\":\"b\"//comment\n}", "{\"a\":\"b\"\n}"},
		{"block comment before closer", `{"a":"b"/*comment*/}`, `{"a":"b"}`},
		{"block comment spanning lines", "{\"a\"/*\n\n\ncomment\r\n*/:\"b\"}", `{"a":"b"}`},
		{"banner comment", "/*!\n * comment\n */\n{\"a\":\"b\"}", "\n{\"a\":\"b\"}"},
		{"block comment after opener", `{/*comment*/"a":"b"}`, `{"a":"b"}`},
	}, WithWhitespace(false))
}

func TestStrip_PreservesStrings(t *testing.T) {
	runStripCases(t, []stripCase{
		{"line comment marker in value", `{"a":"b//c"}`, `{"a":"b//c"}`},
		{"block comment in value", `{"a":"b/*c*/"}`, `{"a":"b/*c*/"}`},
		{"block comment start in key", `{"/*a":"b"}`, `{"/*a":"b"}`},
		{"escaped quote before comment start", `{"\"/*a":"b"}`, `{"\"/*a":"b"}`},
		{"escaped quote before line comment marker", `{"q": "\"//", "r": 1}`, `{"q": "\"//", "r": 1}`},
		{"escaped quote and backslash before trailing comma", `{"q": "\"//\\",}`, `{"q": "\"//\\" }`},
		{"url", `{"url": "http://example.com"}`, `{"url": "http://example.com"}`},
		{"comma and closer in string", `{"key": "a,}"}`, `{"key": "a,}"}`},
		{"comment-like in string then real comment", `{"url": "http://test.com"} // real comment`, `{"url": "http://test.com"}                `},
	})
}

func TestStrip_EscapedSlashes(t *testing.T) {
	runStripCases(t, []stripCase{
		{"even backslashes before quote", `{"\\":"https://foobar.com"}`, `{"\\":"https://foobar.com"}`},
		{"odd backslashes before quote", `{"foo\"":"https://foobar.com"}`, `{"foo\"":"https://foobar.com"}`},
		{
			"weird escaping",
			`{"x":"x \"sed -e \\\"s/^.\\\\{46\\\\}T//\\\" -e \\\"s/#033/\\\\x1b/g\\\"\""}`,
			`{"x":"x \"sed -e \\\"s/^.\\\\{46\\\\}T//\\\" -e \\\"s/#033/\\\\x1b/g\\\"\""}`,
		},
		{"windows path", `{"path": "C:\\path\\to\\file"}`, `{"path": "C:\\path\\to\\file"}`},
	})
}

func TestStrip_LineEndings(t *testing.T) {
	runStripCases(t, []stripCase{
		{"lf without comments", "{\"a\":\"b\"\n}", "{\"a\":\"b\"\n}"},
		{"crlf without comments", "{\"a\":\"b\"\r\n}", "{\"a\":\"b\"\r\n}"},
		{"line comment lf", "{\"a\":\"b\"//c\n}", "{\"a\":\"b\"   \n}"},
		{"line comment crlf", "{\"a\":\"b\"//c\r\n}", "{\"a\":\"b\"   \r\n}"},
		{"single line block comment lf", "{\"a\":\"b\"/*c*/\n}", "{\"a\":\"b\"     \n}"},
		{"single line block comment crlf", "{\"a\":\"b\"/*c*/\r\n}", "{\"a\":\"b\"     \r\n}"},
		{"multi line block comment lf", "{\"a\":\"b\",/*c\nc2*/\"x\":\"y\"\n}", "{\"a\":\"b\",   \n    \"x\":\"y\"\n}"},
		{"multi line block comment crlf", "{\"a\":\"b\",/*c\r\nc2*/\"x\":\"y\"\r\n}", "{\"a\":\"b\",   \r\n    \"x\":\"y\"\r\n}"},
		{"line comment at eof", "{\r\n\t\"a\":\"b\"\r\n} //EOF", "{\r\n\t\"a\":\"b\"\r\n}      "},
	})
}

func TestStrip_LineEndingsRemoved(t *testing.T) {
	runStripCases(t, []stripCase{
		{"line comment at eof", "{\r\n\t\"a\":\"b\"\r\n} //EOF", "{\r\n\t\"a\":\"b\"\r\n} "},
		{"line comment crlf keeps lf", "{\"a\":\"b\"//c\r\n}", "{\"a\":\"b\"\n}"},
	}, WithWhitespace(false))
}

func TestStrip_TrailingCommas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  string
	}{
		{"object", `{"x":true,}`, nil, `{"x":true }`},
		{"object removed", `{"x":true,}`, []Option{WithWhitespace(false)}, `{"x":true}`},
		{"object with newline", "{\"x\":true,\n  }", nil, "{\"x\":true \n  }"},
		{"array", `[true, false,]`, nil, `[true, false ]`},
		{"array removed", `[true, false,]`, []Option{WithWhitespace(false)}, `[true, false]`},
		{
			"nested",
			"{\n  \"array\": [\n    true,\n    false,\n  ],\n}",
			[]Option{WithWhitespace(false)},
			"{\n  \"array\": [\n    true,\n    false\n  ]\n}",
		},
		{
			"comments between comma and closer",
			"{\n  \"array\": [\n    true,\n    false /* comment */ ,\n /*comment*/ ],\n}",
			[]Option{WithWhitespace(false)},
			"{\n  \"array\": [\n    true,\n    false  \n  ]\n}",
		},
		{"multiple levels", `{"a": {"b": 1,},}`, []Option{WithWhitespace(false)}, `{"a": {"b": 1}}`},
		{"no closer", `{"key": "value",`, nil, `{"key": "value",`},
		{"escaped quote before comma", `{"key": "value with \" quote",}`, []Option{WithWhitespace(false)}, `{"key": "value with \" quote"}`},
		{"disabled", `{"x":true,}`, []Option{WithTrailingCommas(false)}, `{"x":true,}`},
		{"disabled keeps comments stripped", `[1, /* c */]`, []Option{WithTrailingCommas(false), WithWhitespace(false)}, `[1, ]`},
		{"double comma is not trailing", `[1,,]`, nil, `[1,,]`},
		{"string after comma", `["a", "b",]`, []Option{WithWhitespace(false)}, `["a", "b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strip(tt.input, tt.opts...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Strip() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStrip_NonTrailingCommaPreserved(t *testing.T) {
	inputs := []string{
		`[true, false]`,
		`{"a": 1, "b": 2}`,
		"[\n  1,\n  2\n]",
		"[1,\n  // next\n  2]",
	}

	for _, input := range inputs {
		got := Strip(input, WithWhitespace(false))
		if strings.Count(got, ",") != strings.Count(input, ",") {
			t.Errorf("Strip(%q) = %q, commas were removed", input, got)
		}
	}
}

// An unterminated block comment runs to the end of the input.
func TestStrip_MalformedBlockComments(t *testing.T) {
	runStripCases(t, []stripCase{
		{"stray close", `[] */`, `[] */`},
		{"unterminated open", `[] /*`, `[]   `},
		{"unterminated with text", "[] /* open\n", "[]        \n"},
	})

	if got := Strip(`[] /* open`, WithWhitespace(false)); got != `[] ` {
		t.Errorf("Strip() = %q, want %q", got, `[] `)
	}

	res := Transform(`[] /*`, DefaultOptions())
	if !res.Unterminated {
		t.Error("Transform() Unterminated = false, want true")
	}
	if res := Transform(`[] // eof`, DefaultOptions()); res.Unterminated {
		t.Error("Transform() Unterminated = true for line comment at eof")
	}
}

func TestStrip_EdgeCases(t *testing.T) {
	runStripCases(t, []stripCase{
		{"empty input", "", ""},
		{"only comment", "// just a comment", "                 "},
		{"empty object", "{}", "{}"},
		{"division is not a comment", `{"a": 1/2}`, `{"a": 1/2}`},
		{"slash at end of input", `{"a": 1}/`, `{"a": 1}/`},
		{"unterminated string", `{"a": "b // c`, `{"a": "b // c`},
	})
}

func TestStrip_Idempotent(t *testing.T) {
	inputs := []string{
		`{"key": "value"}`,
		`[1, 2, 3]`,
		"{\n\t\"nested\": {\"a\": [true, false, null]},\r\n\t\"s\": \"\\\"//\\\\\"\n}",
		`"just a string"`,
		`42`,
	}

	combos := [][]Option{
		nil,
		{WithWhitespace(false)},
		{WithTrailingCommas(false)},
		{WithWhitespace(false), WithTrailingCommas(false)},
	}

	for _, input := range inputs {
		for _, opts := range combos {
			if got := Strip(input, opts...); got != input {
				t.Errorf("Strip(%q) = %q, want unchanged", input, got)
			}
		}
	}
}

func TestStrip_LengthInvariance(t *testing.T) {
	inputs := []string{
		"// héllo wörld\n{\"a\": 1,}",
		"{/* 日本語 */\"a\": [1, 2, /* x */],\r\n}",
		"[] /* unterminated ☃",
		"{\"a\":\"b\",/*c\r\nc2*/\"x\":\"y\"\r\n}",
	}

	for _, input := range inputs {
		got := Strip(input)
		if len(got) != len(input) {
			t.Errorf("len(Strip(%q)) = %d, want %d", input, len(got), len(input))
		}
		if strings.Count(got, "\n") != strings.Count(input, "\n") {
			t.Errorf("Strip(%q) changed the number of lines", input)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Strip(%q) produced invalid UTF-8", input)
		}

		removed := Strip(input, WithWhitespace(false))
		if len(removed) >= len(input) {
			t.Errorf("len(Strip(%q, no whitespace)) = %d, want < %d", input, len(removed), len(input))
		}
	}
}

func TestTransform_Counts(t *testing.T) {
	input := "{\n  // one\n  \"a\": [1, 2,], /* two */\n  \"b\": {\"c\": 3,},\n}"

	res := Transform(input, DefaultOptions())

	if res.LineComments != 1 {
		t.Errorf("LineComments = %d, want 1", res.LineComments)
	}
	if res.BlockComments != 1 {
		t.Errorf("BlockComments = %d, want 1", res.BlockComments)
	}
	if res.TrailingCommas != 3 {
		t.Errorf("TrailingCommas = %d, want 3", res.TrailingCommas)
	}
	if !res.Changed() {
		t.Error("Changed() = false, want true")
	}
	if !json.Valid([]byte(res.Text)) {
		t.Errorf("Transform() output is not valid JSON: %s", res.Text)
	}

	if Transform(`{"a": 1}`, DefaultOptions()).Changed() {
		t.Error("Changed() = true for clean input")
	}
}

func TestStripValue(t *testing.T) {
	got, err := StripValue(`{"a": 1,}`)
	if err != nil {
		t.Fatalf("StripValue() error = %v", err)
	}
	if got != `{"a": 1 }` {
		t.Errorf("StripValue() = %q, want %q", got, `{"a": 1 }`)
	}

	got, err = StripValue([]byte(`[1] // x`), WithWhitespace(false))
	if err != nil {
		t.Fatalf("StripValue() error = %v", err)
	}
	if got != `[1] ` {
		t.Errorf("StripValue() = %q, want %q", got, `[1] `)
	}

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"number", 42.0, "float64"},
		{"nil", nil, "null"},
		{"map", map[string]any{}, "map[string]interface {}"},
		{"bool", true, "bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripValue(tt.value)
			if !errors.Is(err, ErrInvalidArgumentType) {
				t.Fatalf("StripValue() error = %v, want ErrInvalidArgumentType", err)
			}
			if got != "" {
				t.Errorf("StripValue() = %q, want empty", got)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestStripBytes(t *testing.T) {
	got := StripBytes([]byte("{\"a\": 1 /* x */}"), WithWhitespace(false))
	if string(got) != `{"a": 1 }` {
		t.Errorf("StripBytes() = %q, want %q", got, `{"a": 1 }`)
	}
}

func TestWithOptions(t *testing.T) {
	got := Strip(`[1,] // x`, WithOptions(Options{}))
	if got != `[1,] ` {
		t.Errorf("Strip() = %q, want %q", got, `[1,] `)
	}
}

func TestUnmarshal(t *testing.T) {
	input := []byte(`{
		// This is a bun lockfile with comments
		"lockfileVersion": 1,
		"workspaces": {
			"": {
				"name": "test",
				/* Multi-line comment
				   that spans multiple lines */
				"dependencies": {
					"lodash": "^4.17.21",
					"express": "^4.18.2",
				},
			},
		},
	}`)

	var result struct {
		LockfileVersion int `json:"lockfileVersion"`
		Workspaces      map[string]struct {
			Name         string            `json:"name"`
			Dependencies map[string]string `json:"dependencies"`
		} `json:"workspaces"`
	}
	if err := Unmarshal(input, &result); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if result.LockfileVersion != 1 {
		t.Errorf("lockfileVersion = %d, want 1", result.LockfileVersion)
	}
	if got := result.Workspaces[""].Dependencies["express"]; got != "^4.18.2" {
		t.Errorf("express = %q, want ^4.18.2", got)
	}

	if err := Unmarshal([]byte(`{"a": 1,}`), &result, WithTrailingCommas(false)); err == nil {
		t.Error("Unmarshal() expected error with trailing commas kept")
	}
}

func TestPosition(t *testing.T) {
	text := "{\n\"a\": 1\n\"b\": 2}"

	tests := []struct {
		name     string
		offset   int64
		wantLine int
		wantCol  int
	}{
		{"start", 0, 1, 1},
		{"second line", 2, 2, 1},
		{"third line", 9, 3, 1},
		{"mid line", 5, 2, 4},
		{"negative", -4, 1, 1},
		{"past end", 100, 3, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := Position(text, tt.offset)
			if line != tt.wantLine || col != tt.wantCol {
				t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestPosition_ByteColumns(t *testing.T) {
	input := `{/*é*/"a":1}`
	got := Strip(input)
	if want := "{      \"a\":1}"; got != want {
		t.Fatalf("Strip(%q) = %q, want %q", input, got, want)
	}

	// é is two bytes, so the quote after the comment sits at byte column 8.
	offset := int64(strings.IndexByte(input, '"'))
	if line, col := Position(got, offset); line != 1 || col != 8 {
		t.Errorf("Position(%d) = %d:%d, want 1:8", offset, line, col)
	}
}

func TestIsEscaped(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
		want  bool
	}{
		{"not escaped", `"hello"`, 6, false},
		{"escaped quote", `"he\"llo"`, 4, true},
		{"double backslash not escaped", `"he\\"`, 5, false},
		{"triple backslash escaped", `"he\\\"`, 6, true},
		{"position zero", `"`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isEscaped(tt.input, tt.pos)
			if got != tt.want {
				t.Errorf("isEscaped() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrip_LargeInput(t *testing.T) {
	var b strings.Builder
	b.WriteString("{\n")
	for i := 0; i < 1000; i++ {
		b.WriteString("  // comment \n")
		b.WriteString(`  "key` + string(rune('0'+i%10)) + `": "value",` + "\n")
	}
	b.WriteString(`  "last": "value",` + "\n")
	b.WriteString("}")

	got := Strip(b.String())

	var result map[string]any
	if err := json.Unmarshal([]byte(got), &result); err != nil {
		t.Errorf("Result is not valid JSON: %v", err)
	}
	if result["last"] != "value" {
		t.Errorf("last = %v, want value", result["last"])
	}
}

func BenchmarkStrip(b *testing.B) {
	input := `{
		// This is a comment
		"key1": "value1", /* inline */
		/* multi
		   line */
		"key2": "http://example.com/path",
		"key3": "/* not a comment */",
	}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Strip(input)
	}
}

func BenchmarkStrip_NoComments(b *testing.B) {
	input := `{"key1": "value1", "key2": "value2", "key3": "value3"}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Strip(input)
	}
}
