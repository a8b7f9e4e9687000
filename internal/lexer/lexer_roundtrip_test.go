package lexer

import (
	"strings"
	"testing"

	"github.com/aminya/shell-plus-plus/internal/source"
	"github.com/aminya/shell-plus-plus/internal/token"
)

// reconstruct rebuilds source text from a token stream using each token's
// Position plus its Literal, padding gaps (the whitespace the lexer
// silently consumed) with spaces. This only round-trips inputs built from
// single-line-literal tokens (string quotes are stripped from Literal by
// design, so inputs here avoid string literals); it exercises the lexer
// round-trip property for the token classes where the property actually
// holds bit-for-bit.
func reconstruct(toks []token.Token) string {
	var sb strings.Builder
	line, col := uint(1), uint(1)
	for _, tok := range toks {
		if tok.Type == token.EOS {
			break
		}
		for line < tok.Position.Line {
			sb.WriteByte('\n')
			line++
			col = 1
		}
		for col < tok.Position.Col {
			sb.WriteByte(' ')
			col++
		}
		sb.WriteString(tok.Literal)
		if tok.Type == token.NEWLINE {
			line++
			col = 1
		} else {
			col += uint(len([]rune(tok.Literal)))
		}
	}
	return sb.String()
}

func TestLexerRoundTripSimpleStatements(t *testing.T) {
	inputs := []string{
		"let x = 1 + 2 * 3",
		"while x < 10 {\n    x = x + 1\n}",
		"func f(a, b) {\n    return a + b\n}",
		"a && b || !c",
		"x <<= 2",
	}
	for _, input := range inputs {
		toks := lexAll(t, input)
		got := reconstruct(toks)
		if got != input {
			t.Errorf("round-trip mismatch:\n  input: %q\n  got:   %q", input, got)
		}
	}
}

func TestPositionsNeverDecrease(t *testing.T) {
	input := "let a = 1\nlet b = 2\nif a < b {\n\tlet c = 3\n}\n"
	diags := &source.DiagnosticSink{}
	l := New(input, diags)
	var last token.Token
	first := true
	for {
		tok := l.NextToken()
		if !first {
			if tok.Position.Line < last.Position.Line {
				t.Fatalf("position went backwards in line: %+v after %+v", tok, last)
			}
			if tok.Position.Line == last.Position.Line && tok.Position.Col < last.Position.Col {
				t.Fatalf("position went backwards in column: %+v after %+v", tok, last)
			}
		}
		first = false
		last = tok
		if tok.Type == token.EOS {
			break
		}
	}
}
