package lexer

import (
	"testing"

	"github.com/aminya/shell-plus-plus/internal/source"
	"github.com/aminya/shell-plus-plus/internal/token"
)

func lexAll(t *testing.T, input string) []token.Token {
	t.Helper()
	diags := &source.DiagnosticSink{}
	l := New(input, diags)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOS {
			break
		}
	}
	return toks
}

func TestNextTokenOperatorsAndDelimiters(t *testing.T) {
	input := `let x = 1 + 2 * 3 == 4 != 5 <= 6 >= 7 << 8 >> 9 && 10 || 11`
	toks := lexAll(t, input)

	want := []token.Type{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT,
		token.ASTERISK, token.INT, token.EQ, token.INT, token.NOT_EQ, token.INT,
		token.LT_EQ, token.INT, token.GT_EQ, token.INT, token.SHL, token.INT,
		token.SHR, token.INT, token.AND, token.INT, token.OR, token.INT,
		token.EOS,
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %q, want %q (literal %q)", i, toks[i].Type, tt, toks[i].Literal)
		}
	}
}

func TestNumberWordFallback(t *testing.T) {
	toks := lexAll(t, "1.2.3")
	if toks[0].Type != token.WORD {
		t.Fatalf("expected WORD fallback on second dot, got %q (%q)", toks[0].Type, toks[0].Literal)
	}
	if toks[0].Literal != "1.2.3" {
		t.Errorf("expected literal 1.2.3, got %q", toks[0].Literal)
	}
}

func TestEllipsisVsDot(t *testing.T) {
	toks := lexAll(t, "a...b a.b")
	wantTypes := []token.Type{token.IDENT, token.ELLIPSIS, token.IDENT, token.IDENT, token.DOT, token.IDENT, token.EOS}
	if len(toks) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantTypes), toks)
	}
	for i, tt := range wantTypes {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %q, want %q", i, toks[i].Type, tt)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\tc\"d"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("expected STRING, got %q", toks[0].Type)
	}
	want := "a\nb\tc\"d"
	if toks[0].Literal != want {
		t.Errorf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestUnterminatedStringReportsDiagnostic(t *testing.T) {
	diags := &source.DiagnosticSink{}
	l := New(`"abc`, diags)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING (closed at EOF), got %q", tok.Type)
	}
	if diags.ErrorCount() == 0 {
		t.Error("expected a diagnostic for the unterminated string")
	}
}

func TestPositionMonotonicity(t *testing.T) {
	input := "let x = 1\nlet y = 2\nlet z = 3"
	toks := lexAll(t, input)

	var lastLine, lastCol uint
	for i, tok := range toks {
		if i == 0 {
			lastLine, lastCol = tok.Position.Line, tok.Position.Col
			continue
		}
		if tok.Position.Line < lastLine {
			t.Fatalf("token %d: line went backwards: %d < %d", i, tok.Position.Line, lastLine)
		}
		if tok.Position.Line == lastLine && tok.Position.Col < lastCol {
			t.Fatalf("token %d: col went backwards on same line: %d < %d", i, tok.Position.Col, lastCol)
		}
		lastLine, lastCol = tok.Position.Line, tok.Position.Col
	}

	last := toks[len(toks)-1]
	if last.Position.Line != 3 {
		t.Errorf("expected EOS on line 3, got line %d", last.Position.Line)
	}
}

func TestDollarForms(t *testing.T) {
	toks := lexAll(t, `$( ${ $x`)
	if toks[0].Type != token.DOLLAR_LP {
		t.Errorf("expected $( as one token, got %q", toks[0].Type)
	}
	if toks[1].Type != token.DOLLAR_LB {
		t.Errorf("expected ${ as one token, got %q", toks[1].Type)
	}
	if toks[2].Type != token.DOLLAR {
		t.Errorf("expected lone $, got %q", toks[2].Type)
	}
}

func TestWordModeScansBareword(t *testing.T) {
	diags := &source.DiagnosticSink{}
	l := New("ls -la dir", diags)
	l.EnterWordMode()
	tok := l.NextToken()
	if tok.Type != token.WORD || tok.Literal != "ls" {
		t.Fatalf("got %+v", tok)
	}
}

func TestWordEscapes(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`a\ b`, "a b"},       // escaped space joins the pieces
		{`a\tb`, "a\tb"},      // recognized substitution
		{`a\xb`, "axb"},       // unrecognized escape: backslash dropped
		{`a\\b`, `a\b`},       // escaped backslash
		{`a\$b`, "a$b"},       // escaped dollar stays literal
	}
	for _, tc := range cases {
		diags := &source.DiagnosticSink{}
		l := New(tc.input, diags)
		l.EnterWordMode()
		tok := l.NextToken()
		if tok.Type != token.WORD {
			t.Fatalf("input %q: expected WORD, got %q", tc.input, tok.Type)
		}
		if tok.Literal != tc.want {
			t.Errorf("input %q: got literal %q, want %q", tc.input, tok.Literal, tc.want)
		}
	}
}
