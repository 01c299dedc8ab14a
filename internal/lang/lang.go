// © 2026 Robin Language Authors
//
// SPDX-License-Identifier: Apache-2.0

package lang

import (
	"context"
	"fmt"

	"gopkg.robinlang.org/robinc/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

type CodePoint uint32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindRobin
)

func (k FileKind) String() string {
	switch k {
	case FileKindRobin:
		return "robin"
	case FileKindNone:
		return "none"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

type LexerFile interface {
	File
	Tokens(ctx context.Context) (Iterator[*Token], error)
}

type Lexer interface {
	Lex(ctx context.Context, f File) (LexerFile, error)
}

type Location struct {
	Line   int32
	Column int32
	Offset int64
}

type Span struct {
	Start *Location
	End   *Location
}

type Token struct {
	Span  *Span
	Type  TokenType
	Value string
}

type TokenType uint16

const (
	TokenTypeUnknown      TokenType = 0
	TokenTypeIdentifier   TokenType = 1
	TokenTypeNumber       TokenType = 2
	TokenTypeText         TokenType = 3
	TokenTypeData         TokenType = 4
	TokenTypeParenOpen    TokenType = 5
	TokenTypeParenClose   TokenType = 6
	TokenTypeComma        TokenType = 7
	TokenTypeColon        TokenType = 8
	TokenTypeEqual        TokenType = 9
	TokenTypePlus         TokenType = 10
	TokenTypeMinus        TokenType = 11
	TokenTypeStar         TokenType = 12
	TokenTypeSlash        TokenType = 13
	TokenTypeAngleOpen    TokenType = 14
	TokenTypeAngleClose   TokenType = 15
	TokenTypeLesserEqual  TokenType = 16
	TokenTypeGreaterEqual TokenType = 17
	TokenTypeComparison   TokenType = 18
	TokenTypeNotComparison TokenType = 19
	TokenTypeKeywordIf    TokenType = 20
	TokenTypeKeywordElif  TokenType = 21
	TokenTypeKeywordElse  TokenType = 22
	TokenTypeKeywordWhile TokenType = 23
	TokenTypeKeywordDef   TokenType = 24
	TokenTypeKeywordTrue  TokenType = 25
	TokenTypeKeywordFalse TokenType = 26
	TokenTypeWhitespace   TokenType = 27
	TokenTypeNewline      TokenType = 28
	TokenTypeIndent       TokenType = 29
	TokenTypeDedent       TokenType = 30
	TokenTypeEOF          TokenType = 31
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeUnknown:       "unknown",
	TokenTypeIdentifier:    "identifier",
	TokenTypeNumber:        "number",
	TokenTypeText:          "text",
	TokenTypeData:          "data",
	TokenTypeParenOpen:     "(",
	TokenTypeParenClose:    ")",
	TokenTypeComma:         ",",
	TokenTypeColon:         ":",
	TokenTypeEqual:         "=",
	TokenTypePlus:          "+",
	TokenTypeMinus:         "-",
	TokenTypeStar:          "*",
	TokenTypeSlash:         "/",
	TokenTypeAngleOpen:     "<",
	TokenTypeAngleClose:    ">",
	TokenTypeLesserEqual:   "<=",
	TokenTypeGreaterEqual:  ">=",
	TokenTypeComparison:    "==",
	TokenTypeNotComparison: "!=",
	TokenTypeKeywordIf:     "if",
	TokenTypeKeywordElif:   "elif",
	TokenTypeKeywordElse:   "else",
	TokenTypeKeywordWhile:  "while",
	TokenTypeKeywordDef:    "def",
	TokenTypeKeywordTrue:   "True",
	TokenTypeKeywordFalse:  "False",
	TokenTypeWhitespace:    "whitespace",
	TokenTypeNewline:       "newline",
	TokenTypeIndent:        "indent",
	TokenTypeDedent:        "dedent",
	TokenTypeEOF:           "end-marker",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown-%d", t)
}
