// © 2026 Robin Language Authors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.robinlang.org/robinc/internal/ast"
	"gopkg.robinlang.org/robinc/internal/exc"
	"gopkg.robinlang.org/robinc/internal/fs"
	"gopkg.robinlang.org/robinc/internal/lang"
)

func parseRobin(t *testing.T, input string, indentUnit int) (*ast.Module, exc.Reporter) {
	t.Helper()
	ctx := context.Background()
	rep := exc.NewReporter(nil)
	lexer := NewLexerRobin(rep)
	lexerFile, err := lexer.Lex(ctx, fs.NewFileString("/test.rbn", input, lang.FileKindRobin))
	require.NoError(t, err)
	parser := NewParserRobin(rep, indentUnit)
	mod, err := parser.Parse(ctx, lexerFile)
	require.NoError(t, err)
	return mod, rep
}

func parseRobinOK(t *testing.T, input string) *ast.Program {
	t.Helper()
	mod, rep := parseRobin(t, input, DefaultIndentUnit)
	require.Empty(t, rep.Reported())
	require.NotNil(t, mod)
	return mod.Program
}

func TestParserRobinStatements(t *testing.T) {
	t.Parallel()

	t.Run("empty program", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "")
		require.Empty(t, prog.Body.Statements)
	})

	t.Run("statement sequence", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "a = 1\nb = 2\nfoo(a, b)\n")
		require.Len(t, prog.Body.Statements, 3)
		require.IsType(t, &ast.Assign{}, prog.Body.Statements[0])
		require.IsType(t, &ast.Assign{}, prog.Body.Statements[1])
		require.IsType(t, &ast.FunctionCall{}, prog.Body.Statements[2])
	})

	t.Run("assignment", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "foo = 1\n")
		require.Len(t, prog.Body.Statements, 1)
		assign := prog.Body.Statements[0].(*ast.Assign)
		require.Equal(t, "foo", assign.Left.Name())
		num := assign.Right.(*ast.Num)
		require.Equal(t, int64(1), num.Value)
	})

	t.Run("call statement", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "foo(1, 2)\n")
		require.Len(t, prog.Body.Statements, 1)
		call := prog.Body.Statements[0].(*ast.FunctionCall)
		require.Equal(t, "foo", call.Name.Name())
		require.Len(t, call.Args, 2)
	})

	t.Run("call without arguments", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "foo()\n")
		call := prog.Body.Statements[0].(*ast.FunctionCall)
		require.Empty(t, call.Args)
	})

	t.Run("bare identifier is a no-op", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "foo\n")
		require.Len(t, prog.Body.Statements, 1)
		require.IsType(t, &ast.EmptyOp{}, prog.Body.Statements[0])
	})

	t.Run("blank lines are no-ops", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "\n\na = 1\n")
		require.Len(t, prog.Body.Statements, 3)
		require.IsType(t, &ast.EmptyOp{}, prog.Body.Statements[0])
		require.IsType(t, &ast.EmptyOp{}, prog.Body.Statements[1])
		require.IsType(t, &ast.Assign{}, prog.Body.Statements[2])
	})

	t.Run("while", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "while x < 10:\n    x = x + 1\n")
		loop := prog.Body.Statements[0].(*ast.While)
		require.IsType(t, &ast.Op{}, loop.Condition)
		require.Len(t, loop.Body.Statements, 1)
	})

	t.Run("function definition", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "def add(a, b):\n    c = a + b\n    use(c)\n")
		def := prog.Body.Statements[0].(*ast.FunctionDef)
		require.Equal(t, "add", def.Name.Name())
		require.Len(t, def.Params, 2)
		require.Len(t, def.Body.Statements, 2)
	})

	t.Run("if without alternative", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "if a:\n    x = 1\n")
		cond := prog.Body.Statements[0].(*ast.If)
		require.Len(t, cond.RightBlock.Statements, 1)
		require.IsType(t, &ast.EmptyOp{}, cond.WrongBlock)
	})

	t.Run("if with else", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "if a:\n    x = 1\nelse:\n    x = 2\n")
		cond := prog.Body.Statements[0].(*ast.If)
		alt := cond.WrongBlock.(*ast.Block)
		require.Len(t, alt.Statements, 1)
	})

	t.Run("elif chain leans right", func(t *testing.T) {
		t.Parallel()
		input := "if a:\n    x = 1\nelif b:\n    x = 2\nelif c:\n    x = 3\nelse:\n    x = 4\n"
		prog := parseRobinOK(t, input)
		require.Len(t, prog.Body.Statements, 1)
		first := prog.Body.Statements[0].(*ast.If)
		second := first.WrongBlock.(*ast.If)
		third := second.WrongBlock.(*ast.If)
		final := third.WrongBlock.(*ast.Block)
		require.Len(t, final.Statements, 1)
	})

	t.Run("nested if with alternatives", func(t *testing.T) {
		t.Parallel()
		input := "if a:\n    if b:\n        x = 1\n    elif c:\n        x = 2\n    else:\n        x = 3\n"
		prog := parseRobinOK(t, input)
		outer := prog.Body.Statements[0].(*ast.If)
		require.IsType(t, &ast.EmptyOp{}, outer.WrongBlock)
		require.Len(t, outer.RightBlock.Statements, 1)
		inner := outer.RightBlock.Statements[0].(*ast.If)
		innerElif := inner.WrongBlock.(*ast.If)
		require.IsType(t, &ast.Block{}, innerElif.WrongBlock)
	})

	t.Run("nested blocks", func(t *testing.T) {
		t.Parallel()
		input := "def run(n):\n    while n:\n        if n:\n            n = n - 1\n"
		prog := parseRobinOK(t, input)
		def := prog.Body.Statements[0].(*ast.FunctionDef)
		loop := def.Body.Statements[0].(*ast.While)
		cond := loop.Body.Statements[0].(*ast.If)
		require.Len(t, cond.RightBlock.Statements, 1)
	})

	t.Run("blank line inside a block", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "while a:\n    x = 1\n\n    y = 2\n")
		loop := prog.Body.Statements[0].(*ast.While)
		require.Len(t, loop.Body.Statements, 3)
		require.IsType(t, &ast.Assign{}, loop.Body.Statements[0])
		require.IsType(t, &ast.EmptyOp{}, loop.Body.Statements[1])
		require.IsType(t, &ast.Assign{}, loop.Body.Statements[2])
	})

	t.Run("comment line inside a block", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "while a:\n    x = 1\n    # note\n    y = 2\n")
		loop := prog.Body.Statements[0].(*ast.While)
		require.Len(t, loop.Body.Statements, 3)
		require.IsType(t, &ast.Assign{}, loop.Body.Statements[0])
		require.IsType(t, &ast.EmptyOp{}, loop.Body.Statements[1])
		require.IsType(t, &ast.Assign{}, loop.Body.Statements[2])
	})

	t.Run("blank line inside a nested block", func(t *testing.T) {
		t.Parallel()
		input := "def run(n):\n    while n:\n        n = n - 1\n\n        use(n)\n"
		prog := parseRobinOK(t, input)
		def := prog.Body.Statements[0].(*ast.FunctionDef)
		loop := def.Body.Statements[0].(*ast.While)
		require.Len(t, loop.Body.Statements, 3)
	})

	t.Run("blank line before else", func(t *testing.T) {
		t.Parallel()
		prog := parseRobinOK(t, "if a:\n    x = 1\n\nelse:\n    x = 2\n")
		cond := prog.Body.Statements[0].(*ast.If)
		alt := cond.WrongBlock.(*ast.Block)
		require.Len(t, alt.Statements, 1)
	})
}

func TestParserRobinExpressions(t *testing.T) {
	t.Parallel()

	rhs := func(t *testing.T, input string) ast.Expression {
		t.Helper()
		prog := parseRobinOK(t, input)
		require.Len(t, prog.Body.Statements, 1)
		return prog.Body.Statements[0].(*ast.Assign).Right
	}

	t.Run("multiplication binds tighter than addition", func(t *testing.T) {
		t.Parallel()
		op := rhs(t, "x = 1 + 2 * 3\n").(*ast.Op)
		require.Equal(t, lang.TokenTypePlus, op.OpToken.Type)
		require.Equal(t, int64(1), op.Left.(*ast.Num).Value)
		right := op.Right.(*ast.Op)
		require.Equal(t, lang.TokenTypeStar, right.OpToken.Type)
	})

	t.Run("parentheses override precedence", func(t *testing.T) {
		t.Parallel()
		op := rhs(t, "x = (1 + 2) * 3\n").(*ast.Op)
		require.Equal(t, lang.TokenTypeStar, op.OpToken.Type)
		left := op.Left.(*ast.Op)
		require.Equal(t, lang.TokenTypePlus, left.OpToken.Type)
		require.Equal(t, int64(3), op.Right.(*ast.Num).Value)
	})

	t.Run("additive folds left", func(t *testing.T) {
		t.Parallel()
		op := rhs(t, "x = 1 - 2 - 3\n").(*ast.Op)
		require.Equal(t, int64(3), op.Right.(*ast.Num).Value)
		left := op.Left.(*ast.Op)
		require.Equal(t, int64(1), left.Left.(*ast.Num).Value)
	})

	t.Run("repeated unary operators nest", func(t *testing.T) {
		t.Parallel()
		outer := rhs(t, "x = - - 3\n").(*ast.UnaryOp)
		require.Equal(t, lang.TokenTypeMinus, outer.OpToken.Type)
		inner := outer.Operand.(*ast.UnaryOp)
		require.Equal(t, int64(3), inner.Operand.(*ast.Num).Value)
	})

	t.Run("chained comparison folds left", func(t *testing.T) {
		t.Parallel()
		op := rhs(t, "x = a < b < c\n").(*ast.Op)
		require.Equal(t, lang.TokenTypeAngleOpen, op.OpToken.Type)
		require.Equal(t, "c", op.Right.(*ast.Var).Name())
		left := op.Left.(*ast.Op)
		require.Equal(t, "a", left.Left.(*ast.Var).Name())
	})

	t.Run("comparison binds looser than arithmetic", func(t *testing.T) {
		t.Parallel()
		op := rhs(t, "x = a + 1 == b * 2\n").(*ast.Op)
		require.Equal(t, lang.TokenTypeComparison, op.OpToken.Type)
		require.IsType(t, &ast.Op{}, op.Left)
		require.IsType(t, &ast.Op{}, op.Right)
	})

	t.Run("nested call expression", func(t *testing.T) {
		t.Parallel()
		call := rhs(t, "x = foo(bar(1), 2)\n").(*ast.FunctionCall)
		require.Len(t, call.Args, 2)
		inner := call.Args[0].(*ast.FunctionCall)
		require.Equal(t, "bar", inner.Name.Name())
	})

	t.Run("literals", func(t *testing.T) {
		t.Parallel()
		require.True(t, rhs(t, "x = True\n").(*ast.Bool).Value)
		require.False(t, rhs(t, "x = False\n").(*ast.Bool).Value)
		require.Equal(t, "hi", rhs(t, "x = 'hi'\n").(*ast.RegularStr).Value())
		require.Equal(t, int64(42), rhs(t, "x = 42\n").(*ast.Num).Value)
	})
}

func TestParserRobinErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		code  string
	}{
		{
			name:  "missing colon",
			input: "if x\n",
			code:  exc.CodeUnexpectedToken,
		},
		{
			name:  "unexpected top level indentation",
			input: "    x = 1\n",
			code:  exc.CodeIndentationMismatch,
		},
		{
			name:  "block indentation off the unit grid",
			input: "if a:\n   x = 1\n",
			code:  exc.CodeIndentationMismatch,
		},
		{
			name:  "missing close paren",
			input: "foo(1\n",
			code:  exc.CodeUnexpectedToken,
		},
		{
			name:  "missing right hand side",
			input: "x =\n",
			code:  exc.CodeUnexpectedToken,
		},
		{
			name:  "trailing comma in arguments",
			input: "foo(1,)\n",
			code:  exc.CodeUnexpectedToken,
		},
		{
			name:  "integer literal overflow",
			input: "x = 99999999999999999999\n",
			code:  exc.CodeInvalidNumber,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			mod, rep := parseRobin(t, testCase.input, DefaultIndentUnit)
			require.Nil(t, mod)
			reported := rep.Reported()
			require.NotEmpty(t, reported)
			require.Equal(t, testCase.code, reported[0].Code())
		})
	}
}

func TestParserRobinIndentUnit(t *testing.T) {
	t.Parallel()

	input := "if a:\n  x = 1\n"

	mod, rep := parseRobin(t, input, 2)
	require.Empty(t, rep.Reported())
	require.NotNil(t, mod)

	mod, rep = parseRobin(t, input, DefaultIndentUnit)
	require.Nil(t, mod)
	require.NotEmpty(t, rep.Reported())
}
