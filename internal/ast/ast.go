// © 2026 Robin Language Authors
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"io"
	"strconv"

	"github.com/turbolent/prettier"

	"gopkg.robinlang.org/robinc/internal/lang"
)

// Node is implemented by every AST node. Nodes are immutable once constructed
// and carry the source location of the token that introduced them.
type Node interface {
	Loc() lang.Location
	Doc() prettier.Doc
}

// Statement is implemented by nodes that can appear directly in a Block.
type Statement interface {
	Node
	statement()
}

// Expression is implemented by nodes that can appear in expression position.
type Expression interface {
	Node
	expression()
}

// Module pairs a parsed program with the URI it was read from.
type Module struct {
	URI     string
	Program *Program
}

// Program is the root of a parse. It holds the single top-level block.
type Program struct {
	Body *Block
}

func (n *Program) Loc() lang.Location {
	return n.Body.Loc()
}

// Block is an ordered sequence of statements sharing one indentation level.
// Empty statements are preserved as no-ops in source order.
type Block struct {
	Pos        lang.Location
	Statements []Statement
}

func (n *Block) Loc() lang.Location {
	return n.Pos
}

// FunctionDef is a named function with a parameter list and a body block.
// Parameters are expressions, not bare identifiers. The grammar is permissive
// here on purpose and later passes are expected to reject non-identifier
// parameter forms.
type FunctionDef struct {
	Pos    lang.Location
	Name   *Var
	Params []Expression
	Body   *Block
}

func (n *FunctionDef) Loc() lang.Location { return n.Pos }
func (n *FunctionDef) statement()         {}

// If holds a condition, the block taken when the condition is true, and the
// alternative taken when it is false. WrongBlock is never nil: it is a *Block
// for an else branch, a nested *If for an elif chain, or *EmptyOp when the
// statement has no alternative.
type If struct {
	Pos        lang.Location
	Condition  Expression
	RightBlock *Block
	WrongBlock Node
}

func (n *If) Loc() lang.Location { return n.Pos }
func (n *If) statement()         {}

// While is a condition expression and a body block.
type While struct {
	Pos       lang.Location
	Condition Expression
	Body      *Block
}

func (n *While) Loc() lang.Location { return n.Pos }
func (n *While) statement()         {}

// Assign binds the value of the right-hand expression to the left-hand
// variable.
type Assign struct {
	Pos   lang.Location
	Left  *Var
	Right Expression
}

func (n *Assign) Loc() lang.Location { return n.Pos }
func (n *Assign) statement()         {}

// FunctionCall is a call to a named function with ordered argument
// expressions. It appears both as a statement and as an expression.
type FunctionCall struct {
	Pos  lang.Location
	Name *Var
	Args []Expression
}

func (n *FunctionCall) Loc() lang.Location { return n.Pos }
func (n *FunctionCall) statement()         {}
func (n *FunctionCall) expression()        {}

// Var is an identifier reference.
type Var struct {
	Token lang.Token
}

func (n *Var) Loc() lang.Location { return tokenLoc(n.Token) }
func (n *Var) expression()        {}

func (n *Var) Name() string {
	return n.Token.Value
}

// Op is a binary operation over two expressions.
type Op struct {
	Left    Expression
	OpToken lang.Token
	Right   Expression
}

func (n *Op) Loc() lang.Location { return n.Left.Loc() }
func (n *Op) expression()        {}

// UnaryOp is a prefix + or - applied to an operand expression.
type UnaryOp struct {
	OpToken lang.Token
	Operand Expression
}

func (n *UnaryOp) Loc() lang.Location { return tokenLoc(n.OpToken) }
func (n *UnaryOp) expression()        {}

// Num is an integer literal.
type Num struct {
	Token lang.Token
	Value int64
}

func (n *Num) Loc() lang.Location { return tokenLoc(n.Token) }
func (n *Num) expression()        {}

// RegularStr is a string literal. The token value holds the unescaped text.
type RegularStr struct {
	Token lang.Token
}

func (n *RegularStr) Loc() lang.Location { return tokenLoc(n.Token) }
func (n *RegularStr) expression()        {}

func (n *RegularStr) Value() string {
	return n.Token.Value
}

// Bool is a True or False literal.
type Bool struct {
	Token lang.Token
	Value bool
}

func (n *Bool) Loc() lang.Location { return tokenLoc(n.Token) }
func (n *Bool) expression()        {}

// EmptyOp is an explicit no-op statement. Blank lines and bare identifier
// lines parse to this node.
type EmptyOp struct {
	Pos lang.Location
}

func (n *EmptyOp) Loc() lang.Location { return n.Pos }
func (n *EmptyOp) statement()         {}

func tokenLoc(t lang.Token) lang.Location {
	if t.Span != nil && t.Span.Start != nil {
		return *t.Span.Start
	}
	return lang.Location{}
}

// Print renders the node as canonical Robin source.
func Print(w io.StringWriter, n Node) error {
	prettier.Prettier(w, n.Doc(), 80, "    ")
	return nil
}

func (n *Program) Doc() prettier.Doc {
	return prettier.Concat{
		n.Body.Doc(),
		prettier.HardLine{},
	}
}

func (n *Block) Doc() prettier.Doc {
	docs := make([]prettier.Doc, 0, len(n.Statements))
	for _, s := range n.Statements {
		docs = append(docs, s.Doc())
	}
	return prettier.Join(prettier.HardLine{}, docs...)
}

func (n *FunctionDef) Doc() prettier.Doc {
	params := make([]prettier.Doc, 0, len(n.Params))
	for _, p := range n.Params {
		params = append(params, p.Doc())
	}
	return prettier.Concat{
		prettier.Text("def "),
		n.Name.Doc(),
		prettier.Text("("),
		prettier.Join(prettier.Concat{prettier.Text(","), prettier.Space}, params...),
		prettier.Text("):"),
		blockDoc(n.Body),
	}
}

func (n *If) Doc() prettier.Doc {
	return n.branchDoc("if")
}

func (n *If) branchDoc(keyword string) prettier.Doc {
	doc := prettier.Concat{
		prettier.Text(keyword),
		prettier.Space,
		n.Condition.Doc(),
		prettier.Text(":"),
		blockDoc(n.RightBlock),
	}
	switch alt := n.WrongBlock.(type) {
	case *If:
		doc = append(doc, prettier.HardLine{}, alt.branchDoc("elif"))
	case *Block:
		doc = append(doc,
			prettier.HardLine{},
			prettier.Text("else:"),
			blockDoc(alt),
		)
	}
	return doc
}

func (n *While) Doc() prettier.Doc {
	return prettier.Concat{
		prettier.Text("while "),
		n.Condition.Doc(),
		prettier.Text(":"),
		blockDoc(n.Body),
	}
}

func (n *Assign) Doc() prettier.Doc {
	return prettier.Concat{
		n.Left.Doc(),
		prettier.Text(" = "),
		n.Right.Doc(),
	}
}

func (n *FunctionCall) Doc() prettier.Doc {
	args := make([]prettier.Doc, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, a.Doc())
	}
	return prettier.Concat{
		n.Name.Doc(),
		prettier.Text("("),
		prettier.Join(prettier.Concat{prettier.Text(","), prettier.Space}, args...),
		prettier.Text(")"),
	}
}

func (n *Var) Doc() prettier.Doc {
	return prettier.Text(n.Token.Value)
}

func (n *Op) Doc() prettier.Doc {
	return prettier.Concat{
		operandDoc(n.Left),
		prettier.Space,
		prettier.Text(n.OpToken.Value),
		prettier.Space,
		operandDoc(n.Right),
	}
}

func (n *UnaryOp) Doc() prettier.Doc {
	return prettier.Concat{
		prettier.Text(n.OpToken.Value),
		operandDoc(n.Operand),
	}
}

func (n *Num) Doc() prettier.Doc {
	return prettier.Text(strconv.FormatInt(n.Value, 10))
}

func (n *RegularStr) Doc() prettier.Doc {
	return prettier.Text(strconv.Quote(n.Token.Value))
}

var boolTrueDoc prettier.Doc = prettier.Text("True")
var boolFalseDoc prettier.Doc = prettier.Text("False")

func (n *Bool) Doc() prettier.Doc {
	if n.Value {
		return boolTrueDoc
	}
	return boolFalseDoc
}

func (n *EmptyOp) Doc() prettier.Doc {
	return prettier.Text("")
}

func blockDoc(b *Block) prettier.Doc {
	return prettier.Indent{
		Doc: prettier.Concat{
			prettier.HardLine{},
			b.Doc(),
		},
	}
}

// operandDoc parenthesizes nested operations so that rendered output
// preserves the tree shape rather than relying on operator precedence.
func operandDoc(e Expression) prettier.Doc {
	if _, ok := e.(*Op); ok {
		return prettier.Concat{
			prettier.Text("("),
			e.Doc(),
			prettier.Text(")"),
		}
	}
	return e.Doc()
}
