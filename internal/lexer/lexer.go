// Package lexer turns source text into a token stream. It follows a
// mode-switching design: a Tokenizer strategy owns NextToken for as long as
// the lexer is in that mode (general/expression mode, string-literal mode,
// bareword/command mode), swapping itself out when its mode ends.
package lexer

import (
	"github.com/aminya/shell-plus-plus/internal/source"
	"github.com/aminya/shell-plus-plus/internal/token"
)

// Tokenizer produces the next token while a particular lexical mode is
// active.
type Tokenizer interface {
	NextToken() token.Token
}

// Lexer is the mode-switching driver. It owns the character cursor and
// tracks bracket/paren/brace nesting so the parser can distinguish "ran out
// of input mid-construct" (NeedMoreInput, in a REPL) from a genuine syntax
// error.
type Lexer struct {
	cursor *source.Cursor
	diags  *source.DiagnosticSink

	mode     Tokenizer
	prevMode Tokenizer // the mode to resume once a string/interpolation ends

	ParenDepth   int
	BracketDepth int
	BraceDepth   int
}

// New creates a lexer over input, starting in general (expression) mode.
func New(input string, diags *source.DiagnosticSink) *Lexer {
	l := &Lexer{cursor: source.NewCursor(input), diags: diags}
	l.mode = NewGeneralTokenizer(l)
	return l
}

// NextToken returns the next token, delegating to whichever mode is active.
func (l *Lexer) NextToken() token.Token {
	return l.mode.NextToken()
}

// EnterWordMode switches the lexer into bareword/command scanning. The
// parser calls this when it reaches a position where a shell command call
// is grammatically expected.
func (l *Lexer) EnterWordMode() {
	l.switchMode(NewWordTokenizer(l))
}

// EnterGeneralMode switches the lexer back to expression-token scanning.
// The parser calls this after consuming a `${` token reached while
// scanning a WORD, so the interpolated expression inside lexes as normal
// tokens rather than more barewords.
func (l *Lexer) EnterGeneralMode() {
	l.switchMode(NewGeneralTokenizer(l))
}

// Depth returns the total number of currently unclosed parens, brackets and
// braces (zero when none is open), used by the parser's NeedMoreInput signal.
func (l *Lexer) Depth() int {
	return l.ParenDepth + l.BracketDepth + l.BraceDepth
}

// Snapshot is a saved lexer state: the cursor position plus the nesting
// depths, so a discarded lookahead token that opened or closed a bracket
// doesn't skew the NeedMoreInput bookkeeping when it is rescanned.
type Snapshot struct {
	cursor                source.State
	paren, bracket, brace int
}

// TakeSnapshot captures the lexer state, for rewinding a one-token
// lookahead that was scanned under the wrong mode.
func (l *Lexer) TakeSnapshot() Snapshot {
	return Snapshot{
		cursor:  l.cursor.Snapshot(),
		paren:   l.ParenDepth,
		bracket: l.BracketDepth,
		brace:   l.BraceDepth,
	}
}

// Restore rewinds the lexer to a previously captured Snapshot.
func (l *Lexer) Restore(s Snapshot) {
	l.cursor.Restore(s.cursor)
	l.ParenDepth, l.BracketDepth, l.BraceDepth = s.paren, s.bracket, s.brace
}

func (l *Lexer) switchMode(t Tokenizer) {
	l.prevMode = l.mode
	l.mode = t
}

func (l *Lexer) resumeMode() {
	if l.prevMode != nil {
		l.mode = l.prevMode
		l.prevMode = nil
	} else {
		l.mode = NewGeneralTokenizer(l)
	}
}

func (l *Lexer) ch() rune           { return l.cursor.Char() }
func (l *Lexer) peek() rune         { return l.cursor.Peek() }
func (l *Lexer) peekAt(n int) rune  { return l.cursor.PeekAt(n) }
func (l *Lexer) advance()           { l.cursor.Advance() }
func (l *Lexer) pos() source.Position { return l.cursor.Position() }
func (l *Lexer) atEOF() bool        { return l.cursor.AtEOF() }

func (l *Lexer) errorf(pos source.Position, text string) {
	if l.diags != nil {
		l.diags.Push(source.Error, text, pos)
	}
}

func newToken(t token.Type, lit string, pos source.Position) token.Token {
	return token.Token{Type: t, Literal: lit, Position: pos}
}

func isLetter(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch > 127
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}
