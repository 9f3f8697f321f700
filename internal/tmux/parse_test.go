package tmux

import "testing"

func TestQuotedString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantBody string
		wantRest string
		wantErr  bool
	}{
		{name: "empty body", input: "''", wantBody: ""},
		{name: "content", input: "'hello world'", wantBody: "hello world"},
		{name: "escaped quote kept verbatim", input: `'it\'s working'`, wantBody: `it\'s working`},
		{name: "unicode", input: "'λx → x'", wantBody: "λx → x"},
		{name: "spaces only", input: "'  '", wantBody: "  "},
		{name: "colons", input: "'path/to/file:with:colons'", wantBody: "path/to/file:with:colons"},
		{name: "leaves remaining input", input: "'first':rest", wantBody: "first", wantRest: ":rest"},
		{name: "no quotes", input: "no quotes", wantErr: true},
		{name: "unclosed", input: "'unclosed", wantErr: true},
		{name: "lone backslash", input: `'a\b'`, wantErr: true},
		{name: "trailing backslash", input: `'a\`, wantErr: true},
		{name: "empty input", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, body, err := quotedString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("quotedString(%q) = %q, want error", tt.input, body)
				}
				return
			}
			if err != nil {
				t.Fatalf("quotedString(%q) error = %v", tt.input, err)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestQuotedNonemptyString(t *testing.T) {
	rest, body, err := quotedNonemptyString(`'foo\' 🤖 bar'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" || body != `foo\' 🤖 bar` {
		t.Errorf("got (%q, %q)", rest, body)
	}

	if _, _, err := quotedNonemptyString("''"); err == nil {
		t.Error("expected error for empty body")
	}
	if _, _, err := quotedNonemptyString("'':rest"); err == nil {
		t.Error("expected error for empty body followed by input")
	}

	// Agrees with quotedString on everything else.
	for _, in := range []string{"'a'", "'a':b", `'x\'y'z`, "'unclosed", "bare"} {
		r1, b1, e1 := quotedString(in)
		r2, b2, e2 := quotedNonemptyString(in)
		if (e1 == nil) != (e2 == nil) || r1 != r2 || b1 != b2 {
			t.Errorf("%q: quotedString=(%q,%q,%v) quotedNonemptyString=(%q,%q,%v)", in, r1, b1, e1, r2, b2, e2)
		}
	}
}

func TestBoolean(t *testing.T) {
	for _, tt := range []struct {
		input string
		want  bool
		rest  string
	}{
		{"true", true, ""},
		{"false", false, ""},
		{"true:next", true, ":next"},
	} {
		rest, got, err := boolean(tt.input)
		if err != nil {
			t.Fatalf("boolean(%q) error = %v", tt.input, err)
		}
		if got != tt.want || rest != tt.rest {
			t.Errorf("boolean(%q) = (%q, %v), want (%q, %v)", tt.input, rest, got, tt.rest, tt.want)
		}
	}

	for _, bad := range []string{"yes", "no", "1", "0", "TRUE", "FALSE", "True", ""} {
		if _, _, err := boolean(bad); err == nil {
			t.Errorf("boolean(%q) succeeded, want error", bad)
		}
	}
}

func TestScannerStopsAtFirstError(t *testing.T) {
	s := newScanner("x:'a'")
	s.lit('y')
	s.lit(':')
	body := s.quoted()
	if body != "" {
		t.Errorf("quoted after failure = %q, want empty", body)
	}
	err := s.finish("Thing", "intent")
	if !IsParseError(err) {
		t.Fatalf("finish() = %v, want ParseError", err)
	}
	perr := err.(*ParseError)
	if perr.Err.Input != "x:'a'" {
		t.Errorf("syntax error input = %q, want the input at the failing step", perr.Err.Input)
	}
}

func TestScannerRejectsTrailingInput(t *testing.T) {
	s := newScanner("true junk")
	s.boolean()
	if err := s.finish("Bool", "##{b}"); err == nil {
		t.Fatal("finish() = nil, want error for trailing input")
	}
}
