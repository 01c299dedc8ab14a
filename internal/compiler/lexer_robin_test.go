// © 2026 Robin Language Authors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.robinlang.org/robinc/internal/exc"
	"gopkg.robinlang.org/robinc/internal/fs"
	"gopkg.robinlang.org/robinc/internal/lang"
)

type expectedToken struct {
	t lang.TokenType
	v string
}

func lexRobin(t *testing.T, input string) ([]*lang.Token, exc.Reporter) {
	t.Helper()
	ctx := context.Background()
	rep := exc.NewReporter(nil)
	lexer := NewLexerRobin(rep)
	lexerFile, err := lexer.Lex(ctx, fs.NewFileString("/test.rbn", input, lang.FileKindRobin))
	require.NoError(t, err)
	stream, err := lexerFile.Tokens(ctx)
	require.NoError(t, err)
	tokens := []*lang.Token{}
	for tok := stream.Next(ctx); tok.IsPresent(); tok = stream.Next(ctx) {
		tokens = append(tokens, tok.Value())
	}
	require.NoError(t, stream.Close(ctx))
	return tokens, rep
}

func TestLexerRobin(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []expectedToken
	}{
		{
			name:  "assignment",
			input: "x = 1\n",
			expected: []expectedToken{
				{lang.TokenTypeIdentifier, "x"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "1"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "final line without newline",
			input: "x = 12",
			expected: []expectedToken{
				{lang.TokenTypeIdentifier, "x"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "12"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []expectedToken{{lang.TokenTypeEOF, ""}},
		},
		{
			name:  "two character operators",
			input: "a <= b >= c == d != e < f > g\n",
			expected: []expectedToken{
				{lang.TokenTypeIdentifier, "a"},
				{lang.TokenTypeLesserEqual, "<="},
				{lang.TokenTypeIdentifier, "b"},
				{lang.TokenTypeGreaterEqual, ">="},
				{lang.TokenTypeIdentifier, "c"},
				{lang.TokenTypeComparison, "=="},
				{lang.TokenTypeIdentifier, "d"},
				{lang.TokenTypeNotComparison, "!="},
				{lang.TokenTypeIdentifier, "e"},
				{lang.TokenTypeAngleOpen, "<"},
				{lang.TokenTypeIdentifier, "f"},
				{lang.TokenTypeAngleClose, ">"},
				{lang.TokenTypeIdentifier, "g"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "call with arguments",
			input: "foo(1, bar)\n",
			expected: []expectedToken{
				{lang.TokenTypeIdentifier, "foo"},
				{lang.TokenTypeParenOpen, "("},
				{lang.TokenTypeNumber, "1"},
				{lang.TokenTypeComma, ","},
				{lang.TokenTypeIdentifier, "bar"},
				{lang.TokenTypeParenClose, ")"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "keywords",
			input: "if elif else while def True False\n",
			expected: []expectedToken{
				{lang.TokenTypeKeywordIf, "if"},
				{lang.TokenTypeKeywordElif, "elif"},
				{lang.TokenTypeKeywordElse, "else"},
				{lang.TokenTypeKeywordWhile, "while"},
				{lang.TokenTypeKeywordDef, "def"},
				{lang.TokenTypeKeywordTrue, "True"},
				{lang.TokenTypeKeywordFalse, "False"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "indent and dedent",
			input: "if a:\n    b = 1\nc = 2\n",
			expected: []expectedToken{
				{lang.TokenTypeKeywordIf, "if"},
				{lang.TokenTypeIdentifier, "a"},
				{lang.TokenTypeColon, ":"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeIndent, "4"},
				{lang.TokenTypeIdentifier, "b"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "1"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeDedent, "1"},
				{lang.TokenTypeIdentifier, "c"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "2"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "multi level dedent at end of input",
			input: "if a:\n    if b:\n        c = 1\n",
			expected: []expectedToken{
				{lang.TokenTypeKeywordIf, "if"},
				{lang.TokenTypeIdentifier, "a"},
				{lang.TokenTypeColon, ":"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeIndent, "4"},
				{lang.TokenTypeKeywordIf, "if"},
				{lang.TokenTypeIdentifier, "b"},
				{lang.TokenTypeColon, ":"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeIndent, "8"},
				{lang.TokenTypeIdentifier, "c"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "1"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeDedent, "2"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "blank and comment lines keep indentation",
			input: "while a:\n    b = 1\n\n# note\n    c = 2\n",
			expected: []expectedToken{
				{lang.TokenTypeKeywordWhile, "while"},
				{lang.TokenTypeIdentifier, "a"},
				{lang.TokenTypeColon, ":"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeIndent, "4"},
				{lang.TokenTypeIdentifier, "b"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "1"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeIndent, "4"},
				{lang.TokenTypeIdentifier, "c"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "2"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeDedent, "1"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "trailing comment",
			input: "x = 1 # set x\n",
			expected: []expectedToken{
				{lang.TokenTypeIdentifier, "x"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "1"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "text literals",
			input: "s = 'one'\nd = \"two\"\n",
			expected: []expectedToken{
				{lang.TokenTypeIdentifier, "s"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeText, "one"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeIdentifier, "d"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeText, "two"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "text escapes",
			input: "s = 'a\\nb\\tc\\\\d\\'e'\n",
			expected: []expectedToken{
				{lang.TokenTypeIdentifier, "s"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeText, "a\nb\tc\\d'e"},
				{lang.TokenTypeNewline, "\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
		{
			name:  "carriage return line endings",
			input: "x = 1\r\ny = 2\r\n",
			expected: []expectedToken{
				{lang.TokenTypeIdentifier, "x"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "1"},
				{lang.TokenTypeNewline, "\r\n"},
				{lang.TokenTypeIdentifier, "y"},
				{lang.TokenTypeEqual, "="},
				{lang.TokenTypeNumber, "2"},
				{lang.TokenTypeNewline, "\r\n"},
				{lang.TokenTypeEOF, ""},
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens, rep := lexRobin(t, testCase.input)
			require.Empty(t, rep.Reported())
			require.Len(t, tokens, len(testCase.expected))
			for offset, expected := range testCase.expected {
				require.Equal(t, expected.t, tokens[offset].Type, "token %d", offset)
				require.Equal(t, expected.v, tokens[offset].Value, "token %d", offset)
			}
		})
	}
}

func TestLexerRobinErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		code  string
	}{
		{
			name:  "reserved word",
			input: "class = 1\n",
			code:  exc.CodeReservedWord,
		},
		{
			name:  "inconsistent dedent",
			input: "if a:\n        b = 1\n    c = 2\n",
			code:  exc.CodeIndentationMismatch,
		},
		{
			name:  "newline in text literal",
			input: "s = 'abc\n",
			code:  exc.CodeUnterminatedText,
		},
		{
			name:  "eof in text literal",
			input: "s = 'abc",
			code:  exc.CodeUnexpectedEOF,
		},
		{
			name:  "unknown escape",
			input: "s = 'a\\qb'\n",
			code:  exc.CodeUnexpectedCharacter,
		},
		{
			name:  "bare exclamation",
			input: "x = 1 ! 2\n",
			code:  exc.CodeUnexpectedCharacter,
		},
		{
			name:  "unexpected character",
			input: "x = $\n",
			code:  exc.CodeUnexpectedCharacter,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, rep := lexRobin(t, testCase.input)
			reported := rep.Reported()
			require.NotEmpty(t, reported)
			require.Equal(t, testCase.code, reported[0].Code())
		})
	}
}
