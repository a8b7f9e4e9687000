package parser

import (
	"errors"
	"testing"

	"github.com/aminya/shell-plus-plus/internal/ast"
	"github.com/aminya/shell-plus-plus/internal/lexer"
	"github.com/aminya/shell-plus-plus/internal/source"
)

func parse(t *testing.T, input string) (*ast.Program, *Parser) {
	t.Helper()
	diags := &source.DiagnosticSink{}
	l := lexer.New(input, diags)
	p := New(l, diags)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected error parsing %q: %v", input, err)
	}
	return program, p
}

func TestParseLetStatement(t *testing.T) {
	program, p := parse(t, "let x = 5")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected *ast.LetStatement, got %T", program.Statements[0])
	}
	ident, ok := stmt.Target.(*ast.Identifier)
	if !ok || ident.Value != "x" {
		t.Fatalf("expected target identifier 'x', got %#v", stmt.Target)
	}
	lit, ok := stmt.Value.(*ast.IntegerLiteral)
	if !ok || lit.Value != 5 {
		t.Fatalf("expected integer literal 5, got %#v", stmt.Value)
	}
}

func TestParsePrecedenceClimbsCorrectly(t *testing.T) {
	program, p := parse(t, "1 + 2 * 3")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	infix, ok := stmt.Expression.(*ast.InfixExpression)
	if !ok {
		t.Fatalf("expected top-level infix expression, got %T", stmt.Expression)
	}
	if infix.Operator != "+" {
		t.Fatalf("expected top-level '+', got %q (multiplication should bind tighter)", infix.Operator)
	}
	rhs, ok := infix.Right.(*ast.InfixExpression)
	if !ok || rhs.Operator != "*" {
		t.Fatalf("expected right operand to be a '*' expression, got %#v", infix.Right)
	}
}

func TestParseIfElseIf(t *testing.T) {
	program, p := parse(t, `if a { 1 } else if b { 2 } else { 3 }`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	ifExpr, ok := stmt.Expression.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected *ast.IfExpression, got %T", stmt.Expression)
	}
	elseIf, ok := ifExpr.Alternative.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected the else-if to parse as a nested if expression statement, got %#v", ifExpr.Alternative.Statements[0])
	}
	if _, ok := elseIf.Expression.(*ast.IfExpression); !ok {
		t.Fatalf("expected nested *ast.IfExpression, got %T", elseIf.Expression)
	}
}

func TestParseFunctionWithDefaultAndVariadicParams(t *testing.T) {
	program, p := parse(t, `func f(a, b = 2, c...) { return a }`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	fn := program.Statements[0].(*ast.FuncStatement)
	if len(fn.Parameters) != 3 {
		t.Fatalf("expected 3 parameters, got %d", len(fn.Parameters))
	}
	if fn.Parameters[1].Default == nil {
		t.Error("expected b to have a default expression")
	}
	if !fn.Parameters[2].IsVariadic {
		t.Error("expected c to be the variadic parameter")
	}
	if fn.Parameters[0].IsVariadic || fn.Parameters[1].IsVariadic {
		t.Error("only the last parameter may be variadic")
	}
}

func TestParseClassWithParentAndInterface(t *testing.T) {
	program, p := parse(t, `class B : A <: Iface {}`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	cls := program.Statements[0].(*ast.ClassStatement)
	if cls.Parent == nil || cls.Parent.Value != "A" {
		t.Fatalf("expected parent A, got %#v", cls.Parent)
	}
	if len(cls.Interfaces) != 1 || cls.Interfaces[0].Value != "Iface" {
		t.Fatalf("expected interface list [Iface], got %#v", cls.Interfaces)
	}
}

func TestParseFinalClass(t *testing.T) {
	program, p := parse(t, `final class Sealed {}`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	cls := program.Statements[0].(*ast.ClassStatement)
	if !cls.Final {
		t.Error("expected Final to be true")
	}
}

// TestNeedMoreInputOnUnclosedBrace: a
// syntactically incomplete prefix signals ErrNeedMoreInput rather than
// producing a hard diagnostic, so an interactive driver can ask for a
// continuation line.
func TestNeedMoreInputOnUnclosedBrace(t *testing.T) {
	diags := &source.DiagnosticSink{}
	l := lexer.New("func g(x) {", diags)
	p := New(l, diags)
	_, err := p.ParseProgram()
	if !errors.Is(err, ErrNeedMoreInput) {
		t.Fatalf("expected ErrNeedMoreInput, got %v", err)
	}
}

func TestNeedMoreInputOnUnclosedParen(t *testing.T) {
	diags := &source.DiagnosticSink{}
	l := lexer.New("f(1, 2", diags)
	p := New(l, diags)
	_, err := p.ParseProgram()
	if !errors.Is(err, ErrNeedMoreInput) {
		t.Fatalf("expected ErrNeedMoreInput, got %v", err)
	}
}

// TestParserTotality: a malformed-but-complete input never silently drops
// tokens: it must surface at least one diagnostic instead.
func TestParserTotality(t *testing.T) {
	diags := &source.DiagnosticSink{}
	l := lexer.New("let = 5", diags)
	p := New(l, diags)
	_, err := p.ParseProgram()
	if errors.Is(err, ErrNeedMoreInput) {
		t.Fatal("malformed complete input should not be reported as needing more input")
	}
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one diagnostic for a malformed let statement")
	}
}

func TestParseDestructuringAssignment(t *testing.T) {
	program, p := parse(t, `a, b = f()`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	stmt, ok := program.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("expected *ast.AssignStatement, got %T", program.Statements[0])
	}
	arr, ok := stmt.Target.(*ast.ArrayLiteral)
	if !ok || len(arr.Elements) != 2 {
		t.Fatalf("expected a 2-element destructuring target, got %#v", stmt.Target)
	}
}

func TestParseCommandCallStatement(t *testing.T) {
	program, p := parse(t, "ls -la dir\n")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	stmt, ok := program.Statements[0].(*ast.CommandCallStatement)
	if !ok {
		t.Fatalf("expected *ast.CommandCallStatement, got %T", program.Statements[0])
	}
	if stmt.Name != "ls" {
		t.Errorf("expected command name 'ls', got %q", stmt.Name)
	}
	if len(stmt.Arguments) != 2 {
		t.Fatalf("expected 2 arguments (-la, dir), got %d", len(stmt.Arguments))
	}
}

func TestParseCommandSubstitutionAsExpression(t *testing.T) {
	program, p := parse(t, "let out = $(date)\n")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	stmt := program.Statements[0].(*ast.LetStatement)
	subst, ok := stmt.Value.(*ast.CommandSubstExpression)
	if !ok {
		t.Fatalf("expected *ast.CommandSubstExpression, got %T", stmt.Value)
	}
	cmd, ok := subst.Command.(*ast.CommandCallStatement)
	if !ok || cmd.Name != "date" {
		t.Fatalf("expected inner command call 'date', got %#v", subst.Command)
	}
}

func TestParseCommandArgumentInterpolationSplice(t *testing.T) {
	program, p := parse(t, "echo ${x}rest\n")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	stmt, ok := program.Statements[0].(*ast.CommandCallStatement)
	if !ok {
		t.Fatalf("expected *ast.CommandCallStatement, got %T", program.Statements[0])
	}
	if len(stmt.Arguments) != 1 {
		t.Fatalf("expected the spliced pieces to form 1 argument, got %d", len(stmt.Arguments))
	}
	splice, ok := stmt.Arguments[0].(*ast.InfixExpression)
	if !ok {
		t.Fatalf("expected a splice expression, got %T", stmt.Arguments[0])
	}
	if _, ok := splice.Left.(*ast.InterpolationExpression); !ok {
		t.Errorf("expected left piece to be the interpolation, got %T", splice.Left)
	}
	if lit, ok := splice.Right.(*ast.StringLiteral); !ok || lit.Value != "rest" {
		t.Errorf("expected right piece to be the bareword 'rest', got %#v", splice.Right)
	}
}

func TestStatementTerminatorsOptionalBeforeBraceAndEOS(t *testing.T) {
	program, p := parse(t, "if true { let x = 1 }")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(program.Statements))
	}
}
