// Package parser is a recursive-descent, Pratt-style parser: one-token
// lookahead, a precedence-climbing parseExpression, and an explicit
// NeedMoreInput signal so the REPL driver can request a continuation line
// instead of treating an unclosed bracket/brace/paren as a hard error.
//
// Command-call arguments and string interpolation need the lexer to
// switch lexical mode partway through a stream it has already looked one
// token ahead into. Rather than teach every mode to resume itself, the
// parser owns the transition: it rewinds the cursor to just before the
// stale lookahead token was scanned, switches mode, and rescans from
// there. switchAndRefetchPeek and advanceIntoMode below carry that out;
// nothing else in the parser needs to know a mode switch happened.
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aminya/shell-plus-plus/internal/ast"
	"github.com/aminya/shell-plus-plus/internal/lexer"
	"github.com/aminya/shell-plus-plus/internal/source"
	"github.com/aminya/shell-plus-plus/internal/token"
)

// Precedence levels, loosest to tightest. Assignment itself is handled at
// the statement level (see parseSimpleStatement), not as an expression
// precedence, since the language models `a, b = expr` destructuring as a
// statement form: comma has no infix precedence at all, so parseExpression
// naturally stops there.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR
	LOGICAL_AND
	BITWISE_OR
	BITWISE_XOR
	BITWISE_AND
	EQUALS
	COMPARISON
	SHIFT
	SUM
	PRODUCT
	PREFIX
	POSTFIX
)

var precedences = map[token.Type]int{
	token.OR:       LOGICAL_OR,
	token.OR_KW:    LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.AND_KW:   LOGICAL_AND,
	token.PIPE:     BITWISE_OR,
	token.CARET:    BITWISE_XOR,
	token.AMP:      BITWISE_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT:       COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.SHL:      SHIFT,
	token.SHR:      SHIFT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   POSTFIX,
	token.LBRACKET: POSTFIX,
	token.DOT:      POSTFIX,
}

var assignOps = map[token.Type]bool{
	token.ASSIGN: true, token.PLUS_ASSIGN: true, token.MINUS_ASSIGN: true,
	token.STAR_ASSIGN: true, token.SLASH_ASSIGN: true, token.PERCENT_ASSIGN: true,
	token.AMP_ASSIGN: true, token.PIPE_ASSIGN: true, token.CARET_ASSIGN: true,
	token.SHL_ASSIGN: true, token.SHR_ASSIGN: true,
}

// ErrNeedMoreInput is returned by ParseProgram when the token stream ended
// mid-construct (unclosed bracket/brace/paren). The REPL driver should
// request another line of input, append it, and re-parse from scratch.
var ErrNeedMoreInput = errors.New("need more input")

// Parser consumes a token stream and builds an AST.
type Parser struct {
	l     *lexer.Lexer
	diags *source.DiagnosticSink

	curToken     token.Token
	peekToken    token.Token
	peekSnapshot lexer.Snapshot // lexer state just before peekToken was scanned

	prevEnd source.Position // end of the last word-piece consumed, for adjacency splicing

	errors []string
}

func New(l *lexer.Lexer, diags *source.DiagnosticSink) *Parser {
	p := &Parser{l: l, diags: diags}
	p.peekSnapshot = l.TakeSnapshot()
	p.peekToken = l.NextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) addError(pos source.Position, format string, a ...any) {
	msg := pos.String() + ": " + fmt.Sprintf(format, a...)
	p.errors = append(p.errors, msg)
	if p.diags != nil {
		p.diags.Push(source.Error, fmt.Sprintf(format, a...), pos)
	}
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekSnapshot = p.l.TakeSnapshot()
	p.peekToken = p.l.NextToken()
}

// switchAndRefetchPeek rewinds the cursor to just before peekToken was
// scanned, switches the lexer into the requested mode, and rescans
// peekToken under it. The stale peekToken is discarded; no input is lost
// since nothing past peekToken's start position was ever consumed.
func (p *Parser) switchAndRefetchPeek(word bool) {
	p.l.Restore(p.peekSnapshot)
	if word {
		p.l.EnterWordMode()
	} else {
		p.l.EnterGeneralMode()
	}
	p.peekToken = p.l.NextToken()
}

// advanceIntoMode switches to the requested mode (refetching peek first)
// and then shifts curToken out, so the token that becomes current was
// scanned in the new mode.
func (p *Parser) advanceIntoMode(word bool) {
	p.switchAndRefetchPeek(word)
	p.nextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

// expect consumes the current token when it matches t; otherwise it records
// a diagnostic and leaves the stream untouched.
func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.addError(p.curToken.Position, "expected %s, got %s instead", t, p.curToken.Type)
	return false
}

// atEOS reports whether the current token is the end of the stream.
func (p *Parser) atEOS() bool {
	return p.curIs(token.EOS)
}

// ParseProgram parses a whole input unit (a batch file, or one REPL
// submission) into a Program. If the token stream runs out while a
// bracket/brace/paren is still open, it returns ErrNeedMoreInput instead
// of a diagnostic, so an interactive driver can request a continuation
// line.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{}

	for !p.atEOS() {
		p.skipStatementSeparators()
		if p.atEOS() {
			break
		}
		stmt := p.parseStatement()
		if p.needMoreInput() {
			return nil, ErrNeedMoreInput
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.skipStatementSeparators()
	}

	if p.l.Depth() > 0 {
		return nil, ErrNeedMoreInput
	}

	return program, nil
}

// needMoreInput reports whether parsing ran off the end of the stream
// while inside an unclosed construct.
func (p *Parser) needMoreInput() bool {
	return p.atEOS() && p.l.Depth() > 0
}

func (p *Parser) skipStatementSeparators() {
	for p.curIs(token.NEWLINE) || p.curIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// ---- statements ----

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		tok := p.curToken
		p.nextToken()
		return &ast.BreakStatement{Token: tok}
	case token.CONTINUE:
		tok := p.curToken
		p.nextToken()
		return &ast.ContinueStatement{Token: tok}
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FUNC:
		if p.peekIs(token.IDENT) {
			return p.parseFuncStatement()
		}
	case token.CLASS:
		return p.parseClassStatement()
	case token.FINAL:
		if p.peekIs(token.CLASS) {
			p.nextToken()
			stmt := p.parseClassStatement()
			if cs, ok := stmt.(*ast.ClassStatement); ok {
				cs.Final = true
			}
			return stmt
		}
	case token.CMD:
		if p.peekIs(token.IDENT) {
			return p.parseCommandStatement()
		}
	case token.IDENT:
		if p.looksLikeCommandCall() {
			return p.parseCommandCallStatement()
		}
	}

	return p.parseSimpleStatement()
}

// looksLikeCommandCall tells a bare command invocation (`ls -la $dir`)
// apart from an expression statement starting with an identifier (`x + 1`,
// `f()`, `x = 1`, `x, y = 1`). The lookahead token is still lexed in
// general mode at this point, so the test only has to rule out the shapes
// that are unambiguously an expression continuation; anything else is
// read as the start of a command argument. That means a bare `x - 1`
// statement reads as a command call with argument `-1` rather than a
// subtraction: `ls -la` depends on exactly that reading, and a standalone
// subtraction statement is rare enough to accept the tradeoff.
func (p *Parser) looksLikeCommandCall() bool {
	switch p.peekToken.Type {
	case token.NEWLINE, token.SEMICOLON, token.EOS,
		token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN,
		token.PERCENT_ASSIGN, token.AMP_ASSIGN, token.PIPE_ASSIGN, token.CARET_ASSIGN, token.SHL_ASSIGN, token.SHR_ASSIGN,
		token.LPAREN, token.DOT, token.LBRACKET, token.COMMA,
		token.PLUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.AND, token.OR, token.AND_KW, token.OR_KW,
		token.AMP, token.CARET, token.SHL, token.SHR:
		return false
	default:
		return true
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()

	target := p.parseAssignTarget()
	if p.curIs(token.COMMA) {
		targets := []ast.Expression{target}
		for p.curIs(token.COMMA) {
			p.nextToken()
			targets = append(targets, p.parseAssignTarget())
		}
		target = &ast.ArrayLiteral{Token: tok, Elements: targets}
	}

	if !p.curIs(token.ASSIGN) {
		p.addError(p.curToken.Position, "expected '=' in let statement, got %s", p.curToken.Type)
		return &ast.LetStatement{Token: tok, Target: target}
	}
	p.nextToken()

	value := p.parseExpression(LOWEST)
	stmt := &ast.LetStatement{Token: tok, Target: target, Value: value}
	p.endSimpleStatement()
	return stmt
}

// parseAssignTarget parses one destructuring/assignment target: a plain
// identifier (or, for plain assignment, an attribute/index expression) or
// a `...name` remainder capture.
func (p *Parser) parseAssignTarget() ast.Expression {
	if p.curIs(token.ELLIPSIS) {
		tok := p.curToken
		p.nextToken()
		return &ast.SpreadExpression{Token: tok, Value: p.parseExpression(POSTFIX)}
	}
	return p.parseExpression(POSTFIX)
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()

	stmt := &ast.ReturnStatement{Token: tok}
	if !p.curIs(token.NEWLINE) && !p.curIs(token.SEMICOLON) && !p.curIs(token.EOS) && !p.curIs(token.RBRACE) {
		stmt.ReturnValue = p.parseExpression(LOWEST)
	}
	p.endSimpleStatement()
	return stmt
}

func (p *Parser) parseSimpleStatement() ast.Statement {
	tok := p.curToken
	first := p.parseExpression(LOWEST)

	if p.curIs(token.COMMA) {
		targets := []ast.Expression{first}
		for p.curIs(token.COMMA) {
			p.nextToken()
			targets = append(targets, p.parseAssignTarget())
		}
		if !p.curIs(token.ASSIGN) {
			p.addError(p.curToken.Position, "expected '=' after destructuring targets, got %s", p.curToken.Type)
			return &ast.ExpressionStatement{Token: tok, Expression: first}
		}
		target := ast.Expression(&ast.ArrayLiteral{Token: tok, Elements: targets})
		p.nextToken()
		value := p.parseExpression(LOWEST)
		stmt := &ast.AssignStatement{Token: tok, Target: target, Op: token.ASSIGN, Value: value}
		p.endSimpleStatement()
		return stmt
	}

	if assignOps[p.curToken.Type] {
		op := p.curToken.Type
		p.nextToken()
		value := p.parseExpression(LOWEST)
		stmt := &ast.AssignStatement{Token: tok, Target: first, Op: op, Value: value}
		p.endSimpleStatement()
		return stmt
	}

	stmt := &ast.ExpressionStatement{Token: tok, Expression: first}
	p.endSimpleStatement()
	return stmt
}

// endSimpleStatement consumes the statement terminator if present; a
// terminator is optional right before `}` or EOS.
func (p *Parser) endSimpleStatement() {
	if p.curIs(token.NEWLINE) || p.curIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	if !p.expect(token.LBRACE) {
		return block
	}
	p.skipStatementSeparators()

	for !p.curIs(token.RBRACE) && !p.atEOS() {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.skipStatementSeparators()
	}

	if p.curIs(token.RBRACE) {
		p.nextToken()
	}
	return block
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseIfExpression()
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

func (p *Parser) parseIfExpression() *ast.IfExpression {
	tok := p.curToken
	p.nextToken()

	condition := p.parseExpression(LOWEST)
	consequence := p.parseBlockStatement()

	expr := &ast.IfExpression{Token: tok, Condition: condition, Consequence: consequence}

	if p.curIs(token.ELSE) {
		p.nextToken()
		if p.curIs(token.IF) {
			nested := p.parseIfExpression()
			expr.Alternative = &ast.BlockStatement{
				Token:      nested.Token,
				Statements: []ast.Statement{&ast.ExpressionStatement{Token: nested.Token, Expression: nested}},
			}
		} else {
			expr.Alternative = p.parseBlockStatement()
		}
	}
	return expr
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	condition := p.parseExpression(LOWEST)
	body := p.parseBlockStatement()
	return &ast.WhileStatement{Token: tok, Condition: condition, Body: body}
}

// parseForStatement parses `for name[, name...] in expr { ... }`.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()

	var target ast.Expression = p.parseAssignTarget()
	if p.curIs(token.COMMA) {
		targets := []ast.Expression{target}
		for p.curIs(token.COMMA) {
			p.nextToken()
			targets = append(targets, p.parseAssignTarget())
		}
		target = &ast.ArrayLiteral{Token: tok, Elements: targets}
	}

	if !p.curIs(token.IN) {
		p.addError(p.curToken.Position, "expected 'in' in for statement, got %s", p.curToken.Type)
	} else {
		p.nextToken()
	}

	iterable := p.parseExpression(LOWEST)
	body := p.parseBlockStatement()
	return &ast.ForInStatement{Token: tok, Target: target, Iterable: iterable, Body: body}
}

func (p *Parser) parseFuncStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()

	params := p.parseParameterList()
	body := p.parseBlockStatement()
	return &ast.FuncStatement{Token: tok, Name: name, Parameters: params, Body: body}
}

func (p *Parser) parseParameterList() []*ast.Parameter {
	var params []*ast.Parameter
	if !p.expect(token.LPAREN) {
		return params
	}

	for !p.curIs(token.RPAREN) && !p.atEOS() {
		param := &ast.Parameter{Token: p.curToken}
		if p.curIs(token.ELLIPSIS) {
			// prefix form: ...rest
			param.IsVariadic = true
			p.nextToken()
		}
		param.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()

		if p.curIs(token.ELLIPSIS) {
			// postfix form: rest...
			param.IsVariadic = true
			p.nextToken()
		}

		if p.curIs(token.ASSIGN) {
			p.nextToken()
			param.Default = p.parseExpression(LOWEST)
		}

		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.nextToken()
		}
	}
	if p.curIs(token.RPAREN) {
		p.nextToken()
	}
	return params
}

func (p *Parser) parseClassStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()

	stmt := &ast.ClassStatement{Token: tok, Name: name}

	// `class B : A` and `class B <: Iface` are accepted alongside the
	// keyword forms: `:` aliases "extends", `<:` aliases "implements". The
	// parent clause, if any, comes first; the interface list follows it.
	atImplements := func() bool {
		return p.curIs(token.IMPLEMENTS) || (p.curIs(token.LT) && p.peekIs(token.COLON))
	}

	if !atImplements() && (p.curIs(token.EXTENDS) || p.curIs(token.COLON)) {
		p.nextToken()
		stmt.Parent = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
	}

	if atImplements() {
		if p.curIs(token.LT) {
			p.nextToken() // the '<' of '<:'
		}
		p.nextToken()
		stmt.Interfaces = append(stmt.Interfaces, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		p.nextToken()
		for p.curIs(token.COMMA) {
			p.nextToken()
			stmt.Interfaces = append(stmt.Interfaces, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
			p.nextToken()
		}
	}

	stmt.Body = p.parseClassBody()
	return stmt
}

// parseClassBody parses method declarations inside a class block. Methods
// are `func name(params) { ... }`; field declarations with an initial
// value are plain statements run against the instance scope at
// construction time.
func (p *Parser) parseClassBody() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	if !p.expect(token.LBRACE) {
		return block
	}
	p.skipStatementSeparators()

	for !p.curIs(token.RBRACE) && !p.atEOS() {
		if p.curIs(token.FUNC) {
			block.Statements = append(block.Statements, p.parseFuncStatement())
		} else {
			block.Statements = append(block.Statements, p.parseStatement())
		}
		p.skipStatementSeparators()
	}

	if p.curIs(token.RBRACE) {
		p.nextToken()
	}
	return block
}

func (p *Parser) parseCommandStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()

	var params []*ast.Parameter
	if p.curIs(token.LPAREN) {
		params = p.parseParameterList()
	}

	body := p.parseBlockStatement()
	return &ast.CommandStatement{Token: tok, Name: name, Parameters: params, Body: body}
}

// parseCommandCallStatement parses a bareword shell-invocation: a command
// name followed by WORD/interpolation tokens up to a statement terminator.
// curToken must be the command name; if it was scanned in general mode
// (an IDENT, i.e. a top-level command call) the lexer switches into word
// mode first. A name already typed WORD means we are a nested
// substitution whose caller already made that switch.
func (p *Parser) parseCommandCallStatement() *ast.CommandCallStatement {
	tok := p.curToken
	name := p.curToken.Literal

	if p.curToken.Type != token.WORD {
		p.advanceIntoMode(true)
	} else {
		p.nextToken()
	}

	var args []ast.Expression
	for !p.curIs(token.NEWLINE) && !p.curIs(token.SEMICOLON) && !p.curIs(token.EOS) && !p.curIs(token.RPAREN) {
		before := p.curToken.Position
		args = append(args, p.parseCommandArgument())
		if p.curToken.Position == before {
			break
		}
	}
	return &ast.CommandCallStatement{Token: tok, Name: name, Arguments: args}
}

// parseCommandArgument parses one whitespace-delimited command argument,
// which may be a splice of WORD/$(...)/${...} pieces with no intervening
// whitespace (e.g. `dir=${base}/logs`).
func (p *Parser) parseCommandArgument() ast.Expression {
	piece := p.parseWordPiece()

	for p.adjacentToPrev() {
		switch p.curToken.Type {
		case token.WORD, token.DOLLAR, token.DOLLAR_LP, token.DOLLAR_LB:
			tok := p.curToken
			next := p.parseWordPiece()
			piece = &ast.InfixExpression{Token: tok, Left: piece, Operator: token.PLUS, Right: next}
		default:
			return piece
		}
	}
	return piece
}

func (p *Parser) adjacentToPrev() bool {
	return p.prevEnd.Line == p.curToken.Position.Line && p.prevEnd.Col == p.curToken.Position.Col
}

func tokenEnd(tok token.Token) source.Position {
	return source.Position{Line: tok.Position.Line, Col: tok.Position.Col + uint(len([]rune(tok.Literal)))}
}

func (p *Parser) parseWordPiece() ast.Expression {
	switch p.curToken.Type {
	case token.WORD:
		tok := p.curToken
		p.prevEnd = tokenEnd(tok)
		p.nextToken()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case token.DOLLAR:
		tok := p.curToken
		p.nextToken()
		identTok := p.curToken
		p.prevEnd = tokenEnd(identTok)
		p.nextToken()
		return &ast.InterpolationExpression{Token: tok, Value: &ast.Identifier{Token: identTok, Value: identTok.Literal}}
	case token.DOLLAR_LP:
		return p.parseCommandSubst(true)
	case token.DOLLAR_LB:
		return p.parseInterpolationExpr()
	default:
		tok := p.curToken
		p.addError(tok.Position, "unexpected token %s in command argument", tok.Type)
		p.prevEnd = tokenEnd(tok)
		p.nextToken()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	}
}

// parseCommandSubstitution parses `$(...)`, used both as a standalone
// expression (`let out = $(ls)`) and as one piece of a command argument.
// The lexer auto-resumes whatever mode was active before the `$(` once it
// sees the matching `)` (internal/lexer/mode_word.go), so nothing further
// needs to happen after consuming it.
func (p *Parser) parseCommandSubstitution() ast.Expression {
	return p.parseCommandSubst(false)
}

// parseCommandSubst does the work for both contexts: wordContext true means
// the `$(...)` is one piece of a command argument, so after the closing `)`
// the lexer must go back to scanning barewords for the rest of the
// invocation; false means it is an ordinary expression and general mode is
// already the right place to be.
func (p *Parser) parseCommandSubst(wordContext bool) ast.Expression {
	tok := p.curToken
	p.advanceIntoMode(true)

	cmd := p.parseCommandCallStatement()

	if p.curIs(token.RPAREN) {
		p.prevEnd = tokenEnd(p.curToken)
		if wordContext {
			p.advanceIntoMode(true)
		} else {
			p.nextToken()
		}
	}
	return &ast.CommandSubstExpression{Token: tok, Command: cmd}
}

// parseInterpolationExpr parses `${expr}` inside a command argument. Unlike
// `$(...)`, general mode does not auto-resume on `}` (an ordinary block
// close looks identical at that level), so the parser explicitly switches
// back to word mode once the interpolated expression is done.
func (p *Parser) parseInterpolationExpr() ast.Expression {
	tok := p.curToken
	p.advanceIntoMode(false)

	value := p.parseExpression(LOWEST)

	if p.curIs(token.RBRACE) {
		p.prevEnd = tokenEnd(p.curToken)
		p.advanceIntoMode(true)
	}
	return &ast.InterpolationExpression{Token: tok, Value: value}
}

// ---- expressions (Pratt parser) ----

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.curIs(token.NEWLINE) && !p.curIs(token.SEMICOLON) && !p.curIs(token.EOS) &&
		precedence < p.curPrecedence() {
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.curToken.Type {
	case token.IDENT:
		tok := p.curToken
		p.nextToken()
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	case token.INT:
		return p.parseIntegerLiteral()
	case token.REAL:
		return p.parseRealLiteral()
	case token.STRING:
		tok := p.curToken
		p.nextToken()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case token.TRUE, token.FALSE:
		tok := p.curToken
		p.nextToken()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.TRUE}
	case token.NIL:
		tok := p.curToken
		p.nextToken()
		return &ast.NilLiteral{Token: tok}
	case token.SELF:
		tok := p.curToken
		p.nextToken()
		return &ast.SelfExpression{Token: tok}
	case token.SUPER:
		tok := p.curToken
		p.nextToken()
		return &ast.SuperExpression{Token: tok}
	case token.BANG, token.NOT_KW, token.MINUS, token.PLUS, token.TILDE:
		return p.parsePrefixExpression()
	case token.ELLIPSIS:
		tok := p.curToken
		p.nextToken()
		return &ast.SpreadExpression{Token: tok, Value: p.parseExpression(PREFIX)}
	case token.LPAREN:
		return p.parseGroupedOrTuple()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseMapLiteral()
	case token.FUNC:
		return p.parseFunctionLiteral()
	case token.IF:
		return p.parseIfExpression()
	case token.DOLLAR_LP:
		return p.parseCommandSubstitution()
	}

	p.addError(p.curToken.Position, "unexpected token %s", p.curToken.Type)
	p.nextToken()
	return nil
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.addError(tok.Position, "invalid integer literal %q", tok.Literal)
	}
	p.nextToken()
	return &ast.IntegerLiteral{Token: tok, Value: v}
}

func (p *Parser) parseRealLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.addError(tok.Position, "invalid real literal %q", tok.Literal)
	}
	p.nextToken()
	return &ast.RealLiteral{Token: tok, Value: v}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	op := tok.Type
	if op == token.NOT_KW {
		op = token.BANG
	}
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return &ast.PrefixExpression{Token: tok, Operator: op, Right: right}
}

// parseGroupedOrTuple disambiguates `(expr)` (a grouped expression) from
// `(a, b, ...)` (a tuple literal). `()` and any list with a comma,
// including a single trailing one (`(a,)`), produce a tuple; anything
// else is just the parenthesized expression.
func (p *Parser) parseGroupedOrTuple() ast.Expression {
	tok := p.curToken
	p.nextToken()

	if p.curIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleLiteral{Token: tok}
	}

	first := p.parseExpression(LOWEST)
	if p.curIs(token.COMMA) {
		elems := []ast.Expression{first}
		for p.curIs(token.COMMA) {
			p.nextToken()
			if p.curIs(token.RPAREN) {
				break
			}
			elems = append(elems, p.parseExpression(LOWEST))
		}
		if p.curIs(token.RPAREN) {
			p.nextToken()
		}
		return &ast.TupleLiteral{Token: tok, Elements: elems}
	}

	if p.curIs(token.RPAREN) {
		p.nextToken()
	}
	return first
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	p.nextToken()
	elems := p.parseExpressionList(token.RBRACKET)
	return &ast.ArrayLiteral{Token: tok, Elements: elems}
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.curIs(end) {
		p.nextToken()
		return list
	}
	list = append(list, p.parseExpression(LOWEST))
	for p.curIs(token.COMMA) {
		p.nextToken()
		if p.curIs(end) {
			break
		}
		list = append(list, p.parseExpression(LOWEST))
	}
	if p.curIs(end) {
		p.nextToken()
	}
	return list
}

func (p *Parser) parseMapLiteral() ast.Expression {
	tok := p.curToken
	p.nextToken()

	m := &ast.MapLiteral{Token: tok}
	for !p.curIs(token.RBRACE) && !p.atEOS() {
		key := p.parseExpression(LOWEST)
		if !p.curIs(token.COLON) {
			p.addError(p.curToken.Position, "expected ':' in map literal, got %s", p.curToken.Type)
			break
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		m.Keys = append(m.Keys, key)
		m.Values = append(m.Values, value)
		if p.curIs(token.COMMA) {
			p.nextToken()
		}
	}
	if p.curIs(token.RBRACE) {
		p.nextToken()
	}
	return m
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	tok := p.curToken
	p.nextToken()
	params := p.parseParameterList()
	body := p.parseBlockStatement()
	return &ast.FunctionLiteral{Token: tok, Parameters: params, Body: body}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	switch p.curToken.Type {
	case token.LPAREN:
		return p.parseCallExpression(left)
	case token.LBRACKET:
		return p.parseIndexOrSlice(left)
	case token.DOT:
		return p.parseAttribute(left)
	}

	tok := p.curToken
	op := tok.Type
	if op == token.AND_KW {
		op = token.AND
	} else if op == token.OR_KW {
		op = token.OR
	}
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.InfixExpression{Token: tok, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	args := p.parseExpressionList(token.RPAREN)
	return &ast.CallExpression{Token: tok, Function: fn, Arguments: args}
}

// parseIndexOrSlice disambiguates `left[index]` from `left[a:b:c]`.
func (p *Parser) parseIndexOrSlice(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()

	var start, end, step ast.Expression
	if !p.curIs(token.COLON) {
		start = p.parseExpression(LOWEST)
	}
	if !p.curIs(token.COLON) {
		if p.curIs(token.RBRACKET) {
			p.nextToken()
			return &ast.IndexExpression{Token: tok, Left: left, Index: start}
		}
		p.addError(p.curToken.Position, "expected ']' or ':' in index expression, got %s", p.curToken.Type)
		return &ast.IndexExpression{Token: tok, Left: left, Index: start}
	}

	p.nextToken() // first ':'
	if !p.curIs(token.COLON) && !p.curIs(token.RBRACKET) {
		end = p.parseExpression(LOWEST)
	}
	if p.curIs(token.COLON) {
		p.nextToken()
		if !p.curIs(token.RBRACKET) {
			step = p.parseExpression(LOWEST)
		}
	}
	if p.curIs(token.RBRACKET) {
		p.nextToken()
	}
	return &ast.SliceExpression{Token: tok, Left: left, Start: start, End: end, Step: step}
}

func (p *Parser) parseAttribute(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	return &ast.AttributeExpression{Token: tok, Left: left, Name: name}
}
