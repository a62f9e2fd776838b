// Package stdlib implements Fragment's pre-registered built-in functions:
// print, println, readline, and readnumeric.
package stdlib

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fragment-lang/fragment/internal/errs"
	"github.com/fragment-lang/fragment/internal/scope"
	"github.com/fragment-lang/fragment/internal/value"
)

func arityError(name string, got int) error {
	return errs.NewUnpositioned(errs.NotImplemented, "%s takes no arguments, got %d", name, got)
}

func concat(args []value.Value) string {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.String())
	}
	return sb.String()
}

// Register installs print, println, readline, and readnumeric into sc's
// global frame, writing to out and reading from in.
func Register(sc *scope.Scope, out io.Writer, in io.Reader) {
	reader := bufio.NewReader(in)

	sc.Set("print", value.NewFunction(func(args []value.Value) (value.Value, error) {
		s := concat(args)
		fmt.Fprint(out, s)
		return value.NewString(s), nil
	}))

	sc.Set("println", value.NewFunction(func(args []value.Value) (value.Value, error) {
		s := concat(args)
		fmt.Fprintln(out, s)
		return value.NewString(s), nil
	}))

	sc.Set("readline", value.NewFunction(func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return value.Value{}, arityError("readline", len(args))
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return value.Value{}, errs.NewUnpositioned(errs.IOFailure, "readline: %v", err)
		}
		return value.NewString(strings.TrimRight(line, "\r\n")), nil
	}))

	sc.Set("readnumeric", value.NewFunction(func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return value.Value{}, arityError("readnumeric", len(args))
		}
		for {
			lexeme, err := readLexeme(reader)
			if err != nil {
				return value.Value{}, errs.NewUnpositioned(errs.IOFailure, "readnumeric: %v", err)
			}
			// Only a numeric lexeme in the lexer's sense counts: a leading
			// digit, then digits with at most one '.'.
			if lexeme[0] < '0' || lexeme[0] > '9' ||
				strings.Trim(lexeme, "0123456789.") != "" || strings.Count(lexeme, ".") > 1 {
				continue
			}
			if n, err := strconv.ParseFloat(lexeme, 64); err == nil {
				return value.NewNumeric(n), nil
			}
		}
	}))
}

// readLexeme reads whitespace-delimited tokens from r, one per call,
// skipping leading whitespace; it mirrors the lexer's own notion of a
// maximal non-whitespace run.
func readLexeme(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			continue
		}
		sb.WriteByte(b)
	}
}
