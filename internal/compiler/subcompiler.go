package compiler

import (
	"context"
	"fmt"
	"os"

	"gopkg.robinlang.org/robinc/internal/ast"
	"gopkg.robinlang.org/robinc/internal/exc"
	"gopkg.robinlang.org/robinc/internal/lang"
)

type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file lang.File, dumpTokens bool, dumpTree bool) (*ast.Module, error)
}

func DefaultSubCompilers(indentUnit int) map[lang.FileKind]SubCompiler {
	return map[lang.FileKind]SubCompiler{
		lang.FileKindRobin: &SubCompilerRobin{IndentUnit: indentUnit},
	}
}

type SubCompilerRobin struct {
	IndentUnit int
}

func (self *SubCompilerRobin) CompileFile(ctx context.Context, r exc.Reporter, file lang.File, dumpTokens bool, dumpTree bool) (*ast.Module, error) {
	lexer := NewLexerRobin(r)
	parser := NewParserRobin(r, self.IndentUnit)
	lf, err := lexer.Lex(ctx, file)
	if err != nil {
		return nil, err
	}
	if dumpTokens {
		// The lexer file rebuilds its stream from the file body on demand,
		// so dumping consumes a throwaway copy of the tokens.
		stream, err := lf.Tokens(ctx)
		if err != nil {
			return nil, err
		}
		for tok := stream.Next(ctx); tok.IsPresent(); tok = stream.Next(ctx) {
			token := tok.Value()
			fmt.Printf("%-24s", token.Type)
			if token.Type != lang.TokenTypeNewline {
				fmt.Printf("'%s'", token.Value)
			}
			fmt.Println()
		}
		_ = stream.Close(ctx)
	}
	mod, err := parser.Parse(ctx, lf)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, nil
	}
	if dumpTree {
		if err := ast.Print(os.Stdout, mod.Program); err != nil {
			return nil, err
		}
		fmt.Println()
	}
	return mod, nil
}
