// Package parser implements a recursive-descent parser that transforms
// Dust source text into a lang/syntax.Tree.
package parser

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/dust-lang/dust/lang/scanner"
	"github.com/dust-lang/dust/lang/syntax"
	"github.com/dust-lang/dust/lang/token"
)

// ParseFiles parses the given source files and returns the fileset along
// with one syntax.Tree per file, and any error encountered. The error, if
// non-nil, is guaranteed to be a scanner.ErrorList.
func ParseFiles(ctx context.Context, files ...string) (*token.FileSet, []*syntax.Tree, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	var p parser
	res := make([]*syntax.Tree, 0, len(files))
	fs := token.NewFileSet()

	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			p.errors.Add(token.Position{Filename: file}, err.Error())
			continue
		}
		p.init(fs, file, b)
		res = append(res, p.parseFile())
	}
	p.errors.Sort()
	return fs, res, p.errors.Err()
}

// ParseFile parses a single file from a slice of bytes and returns the
// resulting syntax.Tree and any error encountered. The error, if non-nil,
// is guaranteed to be a scanner.ErrorList.
func ParseFile(ctx context.Context, fset *token.FileSet, filename string, src []byte) (*syntax.Tree, error) {
	var p parser
	p.init(fset, filename, src)
	t := p.parseFile()
	return t, p.errors.Err()
}

type parser struct {
	scanner scanner.Scanner
	errors  scanner.ErrorList
	file    *token.File
	tree    *syntax.Tree

	tok token.Kind
	val token.Value
}

func (p *parser) init(fset *token.FileSet, filename string, src []byte) {
	p.file = fset.AddFile(filename, -1, len(src))
	p.scanner.Init(p.file, src, p.errors.Add)
	p.tree = syntax.NewTree()
	p.advance()
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan(&p.val)
}

func (p *parser) pos() token.Pos { return p.val.Pos }

func (p *parser) span(start token.Pos) syntax.Span {
	return syntax.Span{Start: start, End: p.val.Pos}
}

var errPanicMode = errors.New("panic")

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(p.file.Position(pos), msg)
}

func (p *parser) errorExpected(pos token.Pos, what string) {
	msg := "expected " + what
	if pos == p.val.Pos {
		if p.val.Raw != "" {
			msg += ", found " + p.val.Raw
		} else {
			msg += ", found " + p.tok.String()
		}
	}
	p.error(pos, msg)
}

// expect consumes the current token if it matches kind, otherwise records an
// error and panics with errPanicMode, to be recovered at a statement or item
// boundary (resulting in the enclosing construct being skipped).
func (p *parser) expect(kind token.Kind) token.Pos {
	pos := p.val.Pos
	if p.tok != kind {
		p.errorExpected(pos, kind.GoString())
		panic(errPanicMode)
	}
	p.advance()
	return pos
}

func (p *parser) at(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.tok == k {
			return true
		}
	}
	return false
}

// synchronize skips tokens until it finds one that plausibly starts a new
// item or statement, after a panic-mode recovery.
func (p *parser) synchronize() {
	for !p.at(token.EOF, token.SEMI, token.RBRACE, token.FN, token.LET, token.USE, token.MOD) {
		p.advance()
	}
	if p.tok == token.SEMI {
		p.advance()
	}
}

func kindList(kinds ...token.Kind) string {
	var sb strings.Builder
	for i, k := range kinds {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.GoString())
	}
	return sb.String()
}
