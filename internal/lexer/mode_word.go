package lexer

import (
	"strings"

	"github.com/aminya/shell-plus-plus/internal/source"
	"github.com/aminya/shell-plus-plus/internal/token"
)

// WordTokenizer scans bareword tokens for shell-style command invocations
// (e.g. `ls -la $dir`). It is entered explicitly by the parser when it knows
// a command-call position has been reached. Whitespace between words is
// skipped; it resumes the previous mode at end of input, a newline, `;`,
// `)` or `}`.
type WordTokenizer struct {
	l *Lexer
}

func NewWordTokenizer(l *Lexer) *WordTokenizer {
	return &WordTokenizer{l: l}
}

// wordStop characters end a WORD and are never consumed by it: whitespace,
// the start of an interpolation, or a structural delimiter the parser needs
// to see as its own token.
func isWordStop(ch rune) bool {
	switch ch {
	case 0, ' ', '\t', '\r', '\n', '"', ';', '|', '&', '(', ')', '{', '}':
		return true
	}
	return false
}

func (w *WordTokenizer) NextToken() token.Token {
	l := w.l

	for isWhitespace(l.ch()) {
		l.advance()
	}

	pos := l.pos()

	if l.ch() == 0 {
		l.resumeMode()
		return newToken(token.EOS, "", pos)
	}
	if l.ch() == '\n' {
		l.advance()
		l.resumeMode()
		return newToken(token.NEWLINE, "\n", pos)
	}
	if l.ch() == ';' {
		l.advance()
		l.resumeMode()
		return newToken(token.SEMICOLON, ";", pos)
	}
	if l.ch() == '$' {
		if l.peek() == '(' {
			l.advance()
			l.advance()
			l.ParenDepth++
			return newToken(token.DOLLAR_LP, "$(", pos)
		}
		if l.peek() == '{' {
			l.advance()
			l.advance()
			l.BraceDepth++
			return newToken(token.DOLLAR_LB, "${", pos)
		}
		l.advance()
		return newToken(token.DOLLAR, "$", pos)
	}
	if l.ch() == ')' || l.ch() == '}' {
		// end of an enclosing $( ) / ${ }; fall back to general mode so the
		// parser sees the matching close token.
		l.resumeMode()
		return l.NextToken()
	}

	return scanWordFrom(l, pos, "")
}

// scanWordFrom handles escape sequences inside a WORD: `\ ` `\$` `\"` `\\`
// escape to the bare character, `\b \f \n \r \t` substitute like a string
// literal's escapes, and any other escaped character is kept as-is with
// the backslash dropped, the same rule string literals follow.
func scanWordFrom(l *Lexer, pos source.Position, prefix string) token.Token {
	var sb strings.Builder
	sb.WriteString(prefix)

	for !isWordStop(l.ch()) {
		if l.ch() == '\\' {
			l.advance()
			switch l.ch() {
			case ' ', '$', '"', '\\':
				sb.WriteRune(l.ch())
			case 'b':
				sb.WriteRune('\b')
			case 'f':
				sb.WriteRune('\f')
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case 't':
				sb.WriteRune('\t')
			default:
				if l.ch() != 0 {
					sb.WriteRune(l.ch())
				}
			}
			if l.ch() != 0 {
				l.advance()
			}
			continue
		}
		if l.ch() == '$' && (l.peek() == '(' || l.peek() == '{') {
			break
		}
		sb.WriteRune(l.ch())
		l.advance()
	}

	return newToken(token.WORD, sb.String(), pos)
}
