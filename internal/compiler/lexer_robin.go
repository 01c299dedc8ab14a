// © 2026 Robin Language Authors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gopkg.robinlang.org/robinc/internal/exc"
	"gopkg.robinlang.org/robinc/internal/iter"
	"gopkg.robinlang.org/robinc/internal/lang"
	"gopkg.robinlang.org/robinc/internal/optional"
)

const (
	lexerRobinLookahead = 2
)

// LexerRobin implements a tokenizer for Robin source files. Statement
// structure is carried by newline tokens and by indentation tokens synthesized
// at the start of each line: an indent token holds the absolute leading-space
// count of its line, and a dedent token holds the number of indentation levels
// being closed.
type LexerRobin struct {
	reporter exc.Reporter
}

func NewLexerRobin(reporter exc.Reporter) *LexerRobin {
	return &LexerRobin{reporter: reporter}
}

func (self *LexerRobin) Lex(ctx context.Context, f lang.File) (lang.LexerFile, error) {
	return &lexerFileRobin{
		File:     f,
		reporter: self.reporter,
	}, nil
}

type lexerFileRobin struct {
	lang.File
	reporter exc.Reporter
}

func (self *lexerFileRobin) Tokens(ctx context.Context) (lang.Iterator[*lang.Token], error) {
	b, err := self.File.Body(ctx)
	if err != nil {
		return nil, err
	}
	points := iter.NewLookahead(iter.NewUnicodeFileBodyCtx(ctx, b), lexerRobinLookahead)
	return &lexerFileRobinTokens{
		uri:         self.File.Path(ctx),
		body:        points,
		reporter:    self.reporter,
		line:        1,
		col:         0,
		offset:      -1,
		atLineStart: true,
		widths:      []int{0},
	}, nil
}

type lexerFileRobinTokens struct {
	uri      string
	body     lang.Lookahead[lang.CodePoint]
	reporter exc.Reporter
	line     int32
	col      int32
	offset   int64
	started  bool
	done     bool
	// indentation state: widths is the stack of open indentation column
	// counts, pending holds synthesized indent/dedent/end-marker tokens that
	// must be emitted before the next source token.
	atLineStart bool
	widths      []int
	pending     []*lang.Token
}

func (self *lexerFileRobinTokens) Next(ctx context.Context) optional.Optional[*lang.Token] {
	if t := self.popPending(); t != nil {
		return optional.Some(t)
	}
	if self.done {
		return optional.None[*lang.Token]()
	}
	if self.atLineStart {
		if !self.measureIndent(ctx) {
			return optional.None[*lang.Token]()
		}
		if t := self.popPending(); t != nil {
			return optional.Some(t)
		}
	}
	for point := self.next(ctx); point.IsPresent(); point = self.next(ctx) {
		r := rune(point.Value())
		switch r {
		case 0x0009, 0x0020:
			continue // Space and tab between tokens carry no meaning.
		case '\n':
			return self.newLineToken("\n", 1)
		case '\r':
			if n := self.peekNext(ctx); n.IsPresent() && n.Value() == '\n' {
				_ = self.next(ctx)
				return self.newLineToken("\r\n", 2)
			}
			return self.newLineToken("\r", 1)
		case '#':
			self.skipComment(ctx)
			continue
		case '(':
			return self.singleToken(lang.TokenTypeParenOpen, "(")
		case ')':
			return self.singleToken(lang.TokenTypeParenClose, ")")
		case ',':
			return self.singleToken(lang.TokenTypeComma, ",")
		case ':':
			return self.singleToken(lang.TokenTypeColon, ":")
		case '+':
			return self.singleToken(lang.TokenTypePlus, "+")
		case '-':
			return self.singleToken(lang.TokenTypeMinus, "-")
		case '*':
			return self.singleToken(lang.TokenTypeStar, "*")
		case '/':
			return self.singleToken(lang.TokenTypeSlash, "/")
		case '=':
			if n := self.peekNext(ctx); n.IsPresent() && n.Value() == '=' {
				_ = self.next(ctx)
				return optional.Some(newTokenLineSpan(self.line, self.col, self.offset, 2, lang.TokenTypeComparison, "=="))
			}
			return self.singleToken(lang.TokenTypeEqual, "=")
		case '<':
			if n := self.peekNext(ctx); n.IsPresent() && n.Value() == '=' {
				_ = self.next(ctx)
				return optional.Some(newTokenLineSpan(self.line, self.col, self.offset, 2, lang.TokenTypeLesserEqual, "<="))
			}
			return self.singleToken(lang.TokenTypeAngleOpen, "<")
		case '>':
			if n := self.peekNext(ctx); n.IsPresent() && n.Value() == '=' {
				_ = self.next(ctx)
				return optional.Some(newTokenLineSpan(self.line, self.col, self.offset, 2, lang.TokenTypeGreaterEqual, ">="))
			}
			return self.singleToken(lang.TokenTypeAngleClose, ">")
		case '!':
			if n := self.peekNext(ctx); n.IsPresent() && n.Value() == '=' {
				_ = self.next(ctx)
				return optional.Some(newTokenLineSpan(self.line, self.col, self.offset, 2, lang.TokenTypeNotComparison, "!="))
			}
			_ = self.reporter.Report(self.exc(exc.CodeUnexpectedCharacter, "unexpected character '!'"))
			return optional.None[*lang.Token]()
		case '"', '\'':
			return self.readText(ctx, r)
		default:
			if r >= '0' && r <= '9' {
				return self.readNumber(ctx, r)
			}
			if unicode.IsLetter(r) || r == '_' {
				return self.readWord(ctx, r)
			}
			_ = self.reporter.Report(self.exc(exc.CodeUnexpectedCharacter, fmt.Sprintf("unexpected character %q", r)))
			return optional.None[*lang.Token]()
		}
	}
	return self.endOfInput()
}

func (self *lexerFileRobinTokens) popPending() *lang.Token {
	if len(self.pending) < 1 {
		return nil
	}
	t := self.pending[0]
	self.pending = self.pending[1:]
	return t
}

// measureIndent runs at the start of each line. It consumes the leading
// spaces, compares the width with the stack of open indentation levels, and
// queues the indent/dedent tokens the line requires. Blank and comment-only
// lines never change indentation.
func (self *lexerFileRobinTokens) measureIndent(ctx context.Context) bool {
	self.atLineStart = false
	width := 0
	for {
		n := self.peekNext(ctx)
		if !n.IsPresent() || n.Value() != 0x0020 {
			break
		}
		_ = self.next(ctx)
		width = width + 1
	}
	n := self.peekNext(ctx)
	if !n.IsPresent() {
		return true
	}
	switch rune(n.Value()) {
	case '\n', '\r', '#':
		return true
	}

	top := self.widths[len(self.widths)-1]
	if width > top {
		self.widths = append(self.widths, width)
	}
	if width < top {
		closed := 0
		for len(self.widths) > 1 && self.widths[len(self.widths)-1] > width {
			self.widths = self.widths[:len(self.widths)-1]
			closed = closed + 1
		}
		if self.widths[len(self.widths)-1] != width {
			e := self.exc(exc.CodeIndentationMismatch, fmt.Sprintf("unindent to column %d does not match any outer indentation level", width))
			_ = self.reporter.Report(e)
			return false
		}
		self.pending = append(self.pending, newToken(self.line, 0, self.offset, self.line, 0, self.offset, lang.TokenTypeDedent, strconv.Itoa(closed)))
	}
	if width > 0 {
		self.pending = append(self.pending, newTokenLineSpan(self.line, self.col, self.offset, width, lang.TokenTypeIndent, strconv.Itoa(width)))
	}
	return true
}

// endOfInput closes any open indentation levels and emits the end marker. A
// final line without a newline gets a synthetic one so that every statement
// is newline-terminated.
func (self *lexerFileRobinTokens) endOfInput() optional.Optional[*lang.Token] {
	self.done = true
	if self.started && self.col > 0 {
		self.pending = append(self.pending, newToken(self.line, self.col, self.offset, self.line+1, 1, self.offset, lang.TokenTypeNewline, "\n"))
		self.newLine()
	}
	if open := len(self.widths) - 1; open > 0 {
		self.widths = self.widths[:1]
		self.pending = append(self.pending, newToken(self.line, self.col, self.offset, self.line, self.col, self.offset, lang.TokenTypeDedent, strconv.Itoa(open)))
	}
	self.pending = append(self.pending, newToken(self.line, self.col, self.offset, self.line, self.col, self.offset, lang.TokenTypeEOF, ""))
	return optional.Some(self.popPending())
}

func (self *lexerFileRobinTokens) skipComment(ctx context.Context) {
	for {
		n := self.peekNext(ctx)
		if !n.IsPresent() || n.Value() == '\n' || n.Value() == '\r' {
			return
		}
		_ = self.next(ctx)
	}
}

func (self *lexerFileRobinTokens) readWord(ctx context.Context, first rune) optional.Optional[*lang.Token] {
	var builder strings.Builder
	builder.WriteRune(first)
	for {
		n := self.peekNext(ctx)
		if !n.IsPresent() {
			break
		}
		r := rune(n.Value())
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		_ = self.next(ctx)
		builder.WriteRune(r)
	}
	word := builder.String()
	kind, reserved := lang.ClassifyWord(word)
	if reserved {
		e := self.exc(exc.CodeReservedWord, fmt.Sprintf("reserved word %q is not supported", word))
		_ = self.reporter.Report(e)
		return optional.None[*lang.Token]()
	}
	return optional.Some(newTokenLineSpan(self.line, self.col, self.offset, len(word), kind, word))
}

func (self *lexerFileRobinTokens) readNumber(ctx context.Context, first rune) optional.Optional[*lang.Token] {
	var builder strings.Builder
	builder.WriteRune(first)
	for {
		n := self.peekNext(ctx)
		if !n.IsPresent() || n.Value() < '0' || n.Value() > '9' {
			break
		}
		_ = self.next(ctx)
		builder.WriteRune(rune(n.Value()))
	}
	value := builder.String()
	return optional.Some(newTokenLineSpan(self.line, self.col, self.offset, len(value), lang.TokenTypeNumber, value))
}

func (self *lexerFileRobinTokens) readText(ctx context.Context, quote rune) optional.Optional[*lang.Token] {
	var builder strings.Builder
	startLine := self.line
	startCol := self.col + 1       // Adjust one to account for the leading quotation
	startOffset := self.offset + 1 // Adjust one to account for the leading quotation
	for {
		n := self.peekNext(ctx)
		if !n.IsPresent() {
			_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF while reading text literal"))
			return optional.None[*lang.Token]()
		}
		r := rune(n.Value())
		switch r {
		case quote:
			_ = self.next(ctx)
			t := newToken(startLine, startCol, startOffset, self.line, self.col, self.offset, lang.TokenTypeText, builder.String())
			return optional.Some(t)
		case '\n', '\r':
			_ = self.reporter.Report(self.exc(exc.CodeUnterminatedText, "newline while reading text literal"))
			return optional.None[*lang.Token]()
		case '\\':
			_ = self.next(ctx)
			esc := self.peekNext(ctx)
			if !esc.IsPresent() {
				_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF while reading text literal escape"))
				return optional.None[*lang.Token]()
			}
			_ = self.next(ctx)
			switch rune(esc.Value()) {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			case 'r':
				builder.WriteRune('\r')
			case '\\':
				builder.WriteRune('\\')
			case '\'':
				builder.WriteRune('\'')
			case '"':
				builder.WriteRune('"')
			case '0':
				builder.WriteRune(0x00)
			default:
				_ = self.reporter.Report(self.exc(exc.CodeUnexpectedCharacter, fmt.Sprintf("unknown escape sequence \\%c", rune(esc.Value()))))
				return optional.None[*lang.Token]()
			}
		default:
			_ = self.next(ctx)
			builder.WriteRune(r)
		}
	}
}

func (self *lexerFileRobinTokens) singleToken(kind lang.TokenType, value string) optional.Optional[*lang.Token] {
	return optional.Some(newToken(self.line, self.col-1, self.offset, self.line, self.col, self.offset+1, kind, value))
}

// next consumes one code point. The lookahead wrapper makes the first element
// current as soon as the window fills, so the first consume reads position
// zero and every later consume advances the window.
func (self *lexerFileRobinTokens) next(ctx context.Context) optional.Optional[lang.CodePoint] {
	var n optional.Optional[lang.CodePoint]
	if !self.started {
		n = self.body.Lookahead(ctx, 0)
		self.started = true
	} else {
		n = self.body.Next(ctx)
	}
	if n.IsPresent() {
		self.addCol(rune(n.Value()))
	}
	return n
}

// peekNext returns the next unconsumed code point. The lookahead wrapper keeps
// the most recently consumed point at position zero once consumption starts.
func (self *lexerFileRobinTokens) peekNext(ctx context.Context) optional.Optional[lang.CodePoint] {
	if !self.started {
		return self.body.Lookahead(ctx, 0)
	}
	return self.body.Lookahead(ctx, 1)
}

func (self *lexerFileRobinTokens) exc(code string, message string) exc.Exception {
	return exc.New(exc.Location{URI: self.uri, Location: lang.Location{Line: self.line, Column: self.col, Offset: self.offset}}, code, message)
}

func (self *lexerFileRobinTokens) newLine() {
	self.line = self.line + 1
	self.col = 0
}

func (self *lexerFileRobinTokens) newLineToken(v string, size int) optional.Optional[*lang.Token] {
	t := newToken(self.line, self.col-int32(size-1), self.offset-int64(size), self.line+1, 1, self.offset, lang.TokenTypeNewline, v)
	self.newLine()
	self.atLineStart = true
	return optional.Some(t)
}

func (self *lexerFileRobinTokens) addCol(r rune) {
	self.col = self.col + 1
	self.offset = self.offset + int64(len(string(r)))
}

func (self *lexerFileRobinTokens) Close(ctx context.Context) error {
	return self.body.Close(ctx)
}

func newTokenLineSpan(line int32, col int32, offset int64, size int, kind lang.TokenType, value string) *lang.Token {
	return &lang.Token{
		Span: &lang.Span{
			Start: &lang.Location{
				Line:   line,
				Column: col - int32(size),
				Offset: offset - int64(size),
			},
			End: &lang.Location{
				Line:   line,
				Column: col,
				Offset: offset,
			},
		},
		Type:  kind,
		Value: value,
	}
}

func newToken(startLine int32, startCol int32, startOffset int64, endLine int32, endCol int32, endOffset int64, kind lang.TokenType, value string) *lang.Token {
	return &lang.Token{
		Span: &lang.Span{
			Start: &lang.Location{
				Line:   startLine,
				Column: startCol,
				Offset: startOffset,
			},
			End: &lang.Location{
				Line:   endLine,
				Column: endCol,
				Offset: endOffset,
			},
		},
		Type:  kind,
		Value: value,
	}
}
