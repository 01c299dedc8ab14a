package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/logrusorgru/aurora/v4"
	"github.com/spf13/pflag"

	"gopkg.robinlang.org/robinc/internal/compiler"
	"gopkg.robinlang.org/robinc/internal/fs"
)

type opts struct {
	Roots      []string
	DumpTokens bool
	DumpTree   bool
	IndentUnit int
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("robinc", pflag.PanicOnError)
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for source files.")
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream as it is processed")
	flags.BoolVar(&op.DumpTree, "dump-tree", false, "Output the parse tree after parsing")
	flags.IntVar(&op.IndentUnit, "indent-unit", compiler.DefaultIndentUnit, "Number of spaces per block nesting level.")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()

	f, err := compiler.NewDefaultFS(os.LookupEnv)
	if err != nil {
		panic(err)
	}

	mf := make(fs.FileSystemMulti, 0, len(op.Roots)+1)
	for _, root := range op.Roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			panic(errAbs.Error())
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			panic(err.Error())
		}
		mf = append(mf, rf)
	}
	mf = append(mf, f)

	c, err := compiler.New(
		compiler.OptionWithLookupEnv(os.LookupEnv),
		compiler.OptionWithFS(mf),
		compiler.OptionWithIndentUnit(op.IndentUnit),
	)
	if err != nil {
		panic(err)
	}

	_, err = c.Compile(ctx, &compiler.CompileRequest{
		Files:      targets,
		DumpTokens: op.DumpTokens,
		DumpTree:   op.DumpTree,
	})
	if err != nil {
		var me compiler.MultiException
		if errors.As(err, &me) {
			for _, err := range me {
				fmt.Fprintln(os.Stderr, aurora.Colorize(err.Error(), aurora.RedFg|aurora.BrightFg|aurora.BoldFm).String())
			}
			os.Exit(1)
		}
		panic(err)
	}
}
