package compiler

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.robinlang.org/robinc/internal/ast"
	"gopkg.robinlang.org/robinc/internal/exc"
	"gopkg.robinlang.org/robinc/internal/iter"
	"gopkg.robinlang.org/robinc/internal/lang"
)

// DefaultIndentUnit is the number of columns that represent one nesting level.
const DefaultIndentUnit = 4

type ParserRobin struct {
	reporter   exc.Reporter
	indentUnit int
}

func NewParserRobin(reporter exc.Reporter, indentUnit int) *ParserRobin {
	if indentUnit < 1 {
		indentUnit = DefaultIndentUnit
	}
	return &ParserRobin{reporter: reporter, indentUnit: indentUnit}
}

// Parse runs a full-program parse of the given file. The returned module is
// nil when the parse failed; the failure detail is on the reporter. No
// partially built tree is ever returned.
func (self *ParserRobin) Parse(ctx context.Context, f lang.LexerFile) (*ast.Module, error) {
	p, err := self.PrepareParse(ctx, f)
	if err != nil {
		return nil, err
	}
	maybeProgram := p.ParseProgram()
	if maybeProgram == nil {
		return nil, nil
	}
	return &ast.Module{
		URI:     f.Path(ctx),
		Program: maybeProgram,
	}, nil
}

func (self *ParserRobin) PrepareParse(ctx context.Context, f lang.LexerFile) (*parserRobinTokens, error) {
	ft, err := f.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	// Dedent tokens are dropped before parsing: the parser recomputes the
	// expected nesting from its own counter and the absolute column count
	// carried by each indent token, so the level-closing tokens carry no
	// extra information for this grammar.
	filteredTokens := iter.NewIteratorFilter(ft, lang.Filter[*lang.Token](iter.FilterFunc[*lang.Token](func(ctx context.Context, t *lang.Token) bool {
		return t.Type != lang.TokenTypeDedent
	})))

	tokens := iter.NewLookahead(filteredTokens, 2)

	return &parserRobinTokens{
		reporter:   self.reporter,
		ctx:        ctx,
		tokens:     tokens,
		uri:        f.Path(ctx),
		indentUnit: self.indentUnit,
	}, nil
}

type parserRobinTokens struct {
	reporter exc.Reporter
	ctx      context.Context
	uri      string
	// this is the .Span.End of the last successfully parsed token; we keep
	// track of it so that we can give a meaningful location to "unexpected
	// EOF" errors.
	loc    lang.Location
	tokens lang.Lookahead[*lang.Token]
	// indent is the current nesting depth. It is incremented around every
	// block-introducing construct and compared against indent tokens, whose
	// value must equal indent*indentUnit for a block to continue.
	indent     int
	indentUnit int
}

func (p *parserRobinTokens) report(code string, message string) {
	_ = p.reporter.Report(exc.New(exc.Location{
		URI:      p.uri,
		Location: p.loc,
	}, code, message))
}

func (p *parserRobinTokens) advance() {
	maybeToken := p.tokens.Lookahead(p.ctx, 0)
	if maybeToken.IsPresent() {
		p.loc = *maybeToken.Value().Span.End
	}
	_ = p.tokens.Next(p.ctx)
}

func (p *parserRobinTokens) peekN(n uint8) *lang.Token {
	maybeToken := p.tokens.Lookahead(p.ctx, n)
	if !maybeToken.IsPresent() {
		return nil
	}
	return maybeToken.Value()
}

func (p *parserRobinTokens) peek() *lang.Token {
	return p.peekN(0)
}

// reports an error if there is no current token, or the current token isn't of
// the expected type. advances on success.
func (p *parserRobinTokens) expectOne(expectedType lang.TokenType) *lang.Token {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, fmt.Sprintf("unexpected EOF (expecting %v)", expectedType))
		return nil
	}
	if maybeToken.Type != expectedType {
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %q (expecting %v)", maybeToken.Value, expectedType))
		return nil
	}
	p.advance()
	return maybeToken
}

// Program = Block
func (p *parserRobinTokens) ParseProgram() *ast.Program {
	maybeBlock := p.parseBlock()
	if maybeBlock == nil {
		return nil
	}
	return &ast.Program{Body: maybeBlock}
}

// Block = { newline | indent Statement }
//
// A block is the maximal run of statements whose indent tokens match the
// current nesting depth. The top level matches without an indent token. A bare
// newline token is a blank or comment-only line: it carries no indent token,
// belongs to the innermost open block as a no-op, and never ends the block.
func (p *parserRobinTokens) parseBlock() *ast.Block {
	this := ast.Block{Pos: p.loc}
	for {
		maybeToken := p.peek()
		if maybeToken == nil || maybeToken.Type == lang.TokenTypeEOF {
			break
		}
		if maybeToken.Type == lang.TokenTypeNewline {
			p.advance()
			this.Statements = append(this.Statements, &ast.EmptyOp{Pos: *maybeToken.Span.Start})
			continue
		}
		if !p.checkIndent() {
			break
		}
		if !p.consumeIndent() {
			return nil
		}
		maybeStatement := p.parseStatement()
		if maybeStatement == nil {
			return nil
		}
		this.Statements = append(this.Statements, maybeStatement)
	}
	return &this
}

// checkIndent reports whether the token stream is positioned at a statement
// belonging to the current nesting depth. Depth zero always matches; any
// other depth requires an indent token carrying exactly indent*indentUnit.
func (p *parserRobinTokens) checkIndent() bool {
	if p.indent == 0 {
		return true
	}
	maybeToken := p.peek()
	if maybeToken == nil || maybeToken.Type != lang.TokenTypeIndent {
		return false
	}
	width, err := strconv.Atoi(maybeToken.Value)
	if err != nil {
		return false
	}
	return width == p.indent*p.indentUnit
}

// consumeIndent eats the indent token for the statement about to be parsed.
// An indent token with the wrong column count is a fatal structural error. At
// depth zero there is no indent token and nothing is consumed.
func (p *parserRobinTokens) consumeIndent() bool {
	maybeToken := p.peek()
	if maybeToken == nil || maybeToken.Type != lang.TokenTypeIndent {
		return true
	}
	width, err := strconv.Atoi(maybeToken.Value)
	if err != nil || width != p.indent*p.indentUnit {
		p.report(exc.CodeIndentationMismatch, fmt.Sprintf("indentation of %s columns does not match the expected %d", maybeToken.Value, p.indent*p.indentUnit))
		return false
	}
	p.advance()
	return true
}

// Statement = AssignStatement
//           | FunctionCall newline
//           | IfStatement
//           | WhileStatement
//           | FunctionDef
//           | Empty
//
// A leading identifier is disambiguated with one token of lookahead: a
// following paren opens a call statement, a following equal sign opens an
// assignment, and anything else falls back to the empty statement.
func (p *parserRobinTokens) parseStatement() ast.Statement {
	maybeToken := p.peek()
	if maybeToken == nil {
		return p.parseEmpty()
	}
	switch maybeToken.Type {
	case lang.TokenTypeIdentifier:
		next := p.peekN(1)
		switch {
		case next == nil:
			p.advance()
			return p.parseEmpty()
		case next.Type == lang.TokenTypeParenOpen:
			maybeCall := p.parseFunctionCall()
			if maybeCall == nil {
				return nil
			}
			if p.expectOne(lang.TokenTypeNewline) == nil {
				return nil
			}
			return maybeCall
		case next.Type == lang.TokenTypeEqual:
			maybeAssign := p.parseAssign()
			if maybeAssign == nil {
				return nil
			}
			return maybeAssign
		default:
			// The bare-identifier fallback. The identifier is consumed so
			// that the enclosing block always makes progress.
			p.advance()
			return p.parseEmpty()
		}
	case lang.TokenTypeKeywordIf:
		maybeIf := p.parseIf()
		if maybeIf == nil {
			return nil
		}
		return maybeIf
	case lang.TokenTypeKeywordWhile:
		maybeWhile := p.parseWhile()
		if maybeWhile == nil {
			return nil
		}
		return maybeWhile
	case lang.TokenTypeKeywordDef:
		maybeDef := p.parseFunctionDef()
		if maybeDef == nil {
			return nil
		}
		return maybeDef
	default:
		if maybeToken.Type != lang.TokenTypeNewline {
			p.advance()
		}
		return p.parseEmpty()
	}
}

// Empty = [newline]
//
// The empty statement is the deliberate fallback for blank lines and for
// identifier-led lines that are neither calls nor assignments. It consumes a
// trailing newline when one is present and never advances past the end
// marker.
func (p *parserRobinTokens) parseEmpty() *ast.EmptyOp {
	this := ast.EmptyOp{Pos: p.loc}
	if maybeToken := p.peek(); maybeToken != nil {
		this.Pos = *maybeToken.Span.Start
		if maybeToken.Type == lang.TokenTypeNewline {
			p.advance()
		}
	}
	return &this
}

// AssignStatement = Variable equal Expression newline
func (p *parserRobinTokens) parseAssign() *ast.Assign {
	maybeLeft := p.parseVariable()
	if maybeLeft == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeEqual) == nil {
		return nil
	}
	maybeRight := p.parseExpression()
	if maybeRight == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeNewline) == nil {
		return nil
	}
	return &ast.Assign{
		Pos:   maybeLeft.Loc(),
		Left:  maybeLeft,
		Right: maybeRight,
	}
}

// FunctionCall = Variable ExpressionList
//
// As a statement the caller additionally requires a trailing newline; inside
// an expression the call ends at its closing paren.
func (p *parserRobinTokens) parseFunctionCall() *ast.FunctionCall {
	maybeName := p.parseVariable()
	if maybeName == nil {
		return nil
	}
	maybeArgs := p.parseExpressionList(lang.TokenTypeParenOpen, lang.TokenTypeParenClose)
	if maybeArgs == nil {
		return nil
	}
	return &ast.FunctionCall{
		Pos:  maybeName.Loc(),
		Name: maybeName,
		Args: maybeArgs,
	}
}

// FunctionDef = def Variable ExpressionList colon newline Block
//
// Parameters are parsed as general expressions rather than bare identifiers.
// The grammar keeps that permissiveness; rejecting exotic parameter forms is
// left to later passes.
func (p *parserRobinTokens) parseFunctionDef() *ast.FunctionDef {
	maybeDef := p.expectOne(lang.TokenTypeKeywordDef)
	if maybeDef == nil {
		return nil
	}
	maybeName := p.parseVariable()
	if maybeName == nil {
		return nil
	}
	maybeParams := p.parseExpressionList(lang.TokenTypeParenOpen, lang.TokenTypeParenClose)
	if maybeParams == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeColon) == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeNewline) == nil {
		return nil
	}
	p.indent = p.indent + 1
	maybeBlock := p.parseBlock()
	p.indent = p.indent - 1
	if maybeBlock == nil {
		return nil
	}
	return &ast.FunctionDef{
		Pos:    *maybeDef.Span.Start,
		Name:   maybeName,
		Params: maybeParams,
		Body:   maybeBlock,
	}
}

// WhileStatement = while Expression colon newline Block
func (p *parserRobinTokens) parseWhile() *ast.While {
	maybeWhile := p.expectOne(lang.TokenTypeKeywordWhile)
	if maybeWhile == nil {
		return nil
	}
	maybeCondition := p.parseExpression()
	if maybeCondition == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeColon) == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeNewline) == nil {
		return nil
	}
	p.indent = p.indent + 1
	maybeBlock := p.parseBlock()
	p.indent = p.indent - 1
	if maybeBlock == nil {
		return nil
	}
	return &ast.While{
		Pos:       *maybeWhile.Span.Start,
		Condition: maybeCondition,
		Body:      maybeBlock,
	}
}

// IfStatement = if Expression colon newline Block Alternative
func (p *parserRobinTokens) parseIf() *ast.If {
	maybeIf := p.expectOne(lang.TokenTypeKeywordIf)
	if maybeIf == nil {
		return nil
	}
	return p.parseIfTail(*maybeIf.Span.Start)
}

func (p *parserRobinTokens) parseIfTail(pos lang.Location) *ast.If {
	maybeCondition := p.parseExpression()
	if maybeCondition == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeColon) == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeNewline) == nil {
		return nil
	}
	p.indent = p.indent + 1
	maybeBlock := p.parseBlock()
	p.indent = p.indent - 1
	if maybeBlock == nil {
		return nil
	}
	maybeWrong := p.parseAlternative()
	if maybeWrong == nil {
		return nil
	}
	return &ast.If{
		Pos:        pos,
		Condition:  maybeCondition,
		RightBlock: maybeBlock,
		WrongBlock: maybeWrong,
	}
}

// Alternative = elif Expression colon newline Block Alternative
//             | else colon newline Block
//             | Empty
//
// Each elif produces a fresh If node in WrongBlock position, which is how an
// arbitrary chain becomes a right-leaning chain of If nodes. Below the top
// level the elif/else keyword sits behind the enclosing block's indent token,
// so disambiguation needs one extra token of lookahead there.
func (p *parserRobinTokens) parseAlternative() ast.Node {
	keywordAt := uint8(0)
	if p.indent > 0 {
		maybeIndent := p.peek()
		if maybeIndent == nil || maybeIndent.Type != lang.TokenTypeIndent {
			return &ast.EmptyOp{Pos: p.loc}
		}
		width, err := strconv.Atoi(maybeIndent.Value)
		if err != nil || width != p.indent*p.indentUnit {
			return &ast.EmptyOp{Pos: p.loc}
		}
		keywordAt = 1
	}
	maybeToken := p.peekN(keywordAt)
	if maybeToken == nil {
		return &ast.EmptyOp{Pos: p.loc}
	}
	switch maybeToken.Type {
	case lang.TokenTypeKeywordElif:
		if keywordAt > 0 {
			p.advance()
		}
		p.advance()
		maybeIf := p.parseIfTail(*maybeToken.Span.Start)
		if maybeIf == nil {
			return nil
		}
		return maybeIf
	case lang.TokenTypeKeywordElse:
		if keywordAt > 0 {
			p.advance()
		}
		p.advance()
		if p.expectOne(lang.TokenTypeColon) == nil {
			return nil
		}
		if p.expectOne(lang.TokenTypeNewline) == nil {
			return nil
		}
		p.indent = p.indent + 1
		maybeBlock := p.parseBlock()
		p.indent = p.indent - 1
		if maybeBlock == nil {
			return nil
		}
		return maybeBlock
	default:
		return &ast.EmptyOp{Pos: p.loc}
	}
}

// Variable = identifier
func (p *parserRobinTokens) parseVariable() *ast.Var {
	maybeToken := p.expectOne(lang.TokenTypeIdentifier)
	if maybeToken == nil {
		return nil
	}
	return &ast.Var{Token: *maybeToken}
}

// ExpressionList = open [ Expression { comma Expression } ] close
func (p *parserRobinTokens) parseExpressionList(tOpen lang.TokenType, tClose lang.TokenType) []ast.Expression {
	if p.expectOne(tOpen) == nil {
		return nil
	}
	values := []ast.Expression{}

	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting an expression list)")
		return nil
	}
	if maybeToken.Type != tClose {
		maybeValue := p.parseExpression()
		if maybeValue == nil {
			return nil
		}
		values = append(values, maybeValue)

		for {
			maybeToken = p.peek()
			if maybeToken == nil {
				p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting an expression list)")
				return nil
			}
			if maybeToken.Type == tClose {
				break
			}
			if p.expectOne(lang.TokenTypeComma) == nil {
				return nil
			}
			maybeValue = p.parseExpression()
			if maybeValue == nil {
				return nil
			}
			values = append(values, maybeValue)
		}
	}

	if p.expectOne(tClose) == nil {
		return nil
	}
	return values
}

// Expression = Additive { ( < | > | <= | >= | == | != ) Additive }
//
// Comparisons fold left-to-right into plain binary Op nodes, so a < b < c
// parses as (a < b) < c rather than the logical both-true reading. The fold
// is kept as-is; consumers that want chained-comparison semantics must
// rewrite the tree.
func (p *parserRobinTokens) parseExpression() ast.Expression {
	maybeLeft := p.parseAdditive()
	if maybeLeft == nil {
		return nil
	}
	for {
		maybeToken := p.peek()
		if maybeToken == nil || !isComparisonOperator(maybeToken.Type) {
			return maybeLeft
		}
		p.advance()
		maybeRight := p.parseAdditive()
		if maybeRight == nil {
			return nil
		}
		maybeLeft = &ast.Op{
			Left:    maybeLeft,
			OpToken: *maybeToken,
			Right:   maybeRight,
		}
	}
}

// Additive = Multiplicative { ( + | - ) Multiplicative }
func (p *parserRobinTokens) parseAdditive() ast.Expression {
	maybeLeft := p.parseMultiplicative()
	if maybeLeft == nil {
		return nil
	}
	for {
		maybeToken := p.peek()
		if maybeToken == nil || (maybeToken.Type != lang.TokenTypePlus && maybeToken.Type != lang.TokenTypeMinus) {
			return maybeLeft
		}
		p.advance()
		maybeRight := p.parseMultiplicative()
		if maybeRight == nil {
			return nil
		}
		maybeLeft = &ast.Op{
			Left:    maybeLeft,
			OpToken: *maybeToken,
			Right:   maybeRight,
		}
	}
}

// Multiplicative = Factor { ( * | / ) Factor }
func (p *parserRobinTokens) parseMultiplicative() ast.Expression {
	maybeLeft := p.parseFactor()
	if maybeLeft == nil {
		return nil
	}
	for {
		maybeToken := p.peek()
		if maybeToken == nil || (maybeToken.Type != lang.TokenTypeStar && maybeToken.Type != lang.TokenTypeSlash) {
			return maybeLeft
		}
		p.advance()
		maybeRight := p.parseFactor()
		if maybeRight == nil {
			return nil
		}
		maybeLeft = &ast.Op{
			Left:    maybeLeft,
			OpToken: *maybeToken,
			Right:   maybeRight,
		}
	}
}

// Factor = ( + | - ) Factor
//        | number
//        | Variable
//        | FunctionCall
//        | paren_open Expression paren_close
//        | True | False
//        | text
func (p *parserRobinTokens) parseFactor() ast.Expression {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting an expression)")
		return nil
	}
	switch maybeToken.Type {
	case lang.TokenTypePlus, lang.TokenTypeMinus:
		p.advance()
		maybeOperand := p.parseFactor()
		if maybeOperand == nil {
			return nil
		}
		return &ast.UnaryOp{
			OpToken: *maybeToken,
			Operand: maybeOperand,
		}
	case lang.TokenTypeNumber:
		p.advance()
		value, err := strconv.ParseInt(maybeToken.Value, 10, 64)
		if err != nil {
			p.report(exc.CodeInvalidNumber, fmt.Sprintf("invalid integer literal %q", maybeToken.Value))
			return nil
		}
		return &ast.Num{
			Token: *maybeToken,
			Value: value,
		}
	case lang.TokenTypeIdentifier:
		if next := p.peekN(1); next != nil && next.Type == lang.TokenTypeParenOpen {
			maybeCall := p.parseFunctionCall()
			if maybeCall == nil {
				return nil
			}
			return maybeCall
		}
		maybeVariable := p.parseVariable()
		if maybeVariable == nil {
			return nil
		}
		return maybeVariable
	case lang.TokenTypeParenOpen:
		p.advance()
		maybeExpression := p.parseExpression()
		if maybeExpression == nil {
			return nil
		}
		if p.expectOne(lang.TokenTypeParenClose) == nil {
			return nil
		}
		return maybeExpression
	case lang.TokenTypeKeywordTrue:
		p.advance()
		return &ast.Bool{Token: *maybeToken, Value: true}
	case lang.TokenTypeKeywordFalse:
		p.advance()
		return &ast.Bool{Token: *maybeToken, Value: false}
	case lang.TokenTypeText:
		p.advance()
		return &ast.RegularStr{Token: *maybeToken}
	default:
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %q (expecting an expression)", maybeToken.Value))
		return nil
	}
}

func isComparisonOperator(t lang.TokenType) bool {
	switch t {
	case lang.TokenTypeAngleOpen,
		lang.TokenTypeAngleClose,
		lang.TokenTypeLesserEqual,
		lang.TokenTypeGreaterEqual,
		lang.TokenTypeComparison,
		lang.TokenTypeNotComparison:
		return true
	}
	return false
}
