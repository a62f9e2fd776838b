// Command fragment runs a Fragment source file: lex, block-parse,
// expression-parse, then evaluate each top-level expression in turn
// against a scope pre-populated with the standard library.
package main

import (
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/kylelemons/godebug/pretty"
	"github.com/pborman/getopt/v2"

	"github.com/fragment-lang/fragment/internal/ast"
	"github.com/fragment-lang/fragment/internal/block"
	fragmenterrs "github.com/fragment-lang/fragment/internal/errs"
	"github.com/fragment-lang/fragment/internal/eval"
	"github.com/fragment-lang/fragment/internal/lexer"
	"github.com/fragment-lang/fragment/internal/scope"
	"github.com/fragment-lang/fragment/internal/stdlib"
)

const version = "fragment 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	set := getopt.New()
	versionFlag := set.BoolLong("version", 'v', "print version and exit")
	helpFlag := set.BoolLong("help", 'h', "print usage and exit")
	dumpAST := set.BoolLong("dump-ast", 0, "parse only, print the expression tree, and exit")

	if err := set.Getopt(append([]string{"fragment"}, argv...), nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		set.PrintUsage(os.Stderr)
		return 1
	}

	if *helpFlag {
		set.PrintUsage(os.Stdout)
		return 0
	}
	if *versionFlag {
		fmt.Println(version)
		return 0
	}

	args := set.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: fragment [-v|-h] [--dump-ast] <path>")
		return 1
	}
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		reportDiagnostic(fragmenterrs.NewUnpositioned(fragmenterrs.IOFailure,
			"%s", errors.Annotate(err, "opening source file").Error()), path)
		return 1
	}

	if *dumpAST {
		return dumpExpressions(source)
	}

	return interpret(source, path)
}

func dumpExpressions(source []byte) int {
	lex := lexer.New(string(source))
	exprs := ast.New(block.New(lex.Tokens()))
	for expr := range exprs.Expressions() {
		fmt.Println(pretty.Sprint(expr))
	}
	if lex.Err() != nil {
		reportDiagnostic(lex.Err(), "<dump-ast>")
		return 1
	}
	if exprs.Err() != nil {
		reportDiagnostic(exprs.Err(), "<dump-ast>")
		return 1
	}
	return 0
}

func interpret(source []byte, path string) int {
	sc := scope.New()
	stdlib.Register(sc, os.Stdout, os.Stdin)

	lex := lexer.New(string(source))
	exprs := ast.New(block.New(lex.Tokens()))
	for expr := range exprs.Expressions() {
		if _, err := eval.Evaluate(expr, sc); err != nil {
			reportDiagnostic(err, path)
			return 1
		}
	}
	if lex.Err() != nil {
		reportDiagnostic(lex.Err(), path)
		return 1
	}
	if exprs.Err() != nil {
		reportDiagnostic(exprs.Err(), path)
		return 1
	}
	return 0
}

// reportDiagnostic writes the spec's diagnostic format to stderr:
// <KIND>
//
//	error: <message>
//	position: (<line>, <index>) in file <path>
func reportDiagnostic(err error, path string) {
	fe, ok := err.(*fragmenterrs.Error)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s\n\terror: %v\n", fragmenterrs.IOFailure, err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n\terror: %s\n\tposition: %s in file %s\n",
		fe.Kind, fe.Message, fe.Position, path)
}
