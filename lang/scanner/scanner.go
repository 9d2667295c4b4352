// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner tokenizes Dust source text. Tokenization is the one
// truly external collaborator named by the language specification: the
// binder, resolver and compiler only ever consume a finished syntax tree,
// so this package's exact recovery behavior on malformed input is not
// load-bearing for the rest of the pipeline, only its happy path is.
package scanner

import (
	"bytes"
	"context"
	"go/scanner"
	"go/token"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	dtoken "github.com/dust-lang/dust/lang/token"
)

type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

var PrintError = scanner.PrintError

// TokenAndValue combines a token kind with its decoded value.
type TokenAndValue struct {
	Kind  dtoken.Kind
	Value dtoken.Value
}

// ScanFiles tokenizes the given source files and returns the tokens grouped
// by file, alongside the FileSet used to record their positions.
func ScanFiles(ctx context.Context, files ...string) (*dtoken.FileSet, [][]TokenAndValue, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	var el ErrorList
	fs := dtoken.NewFileSet()
	tokensByFile := make([][]TokenAndValue, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}
		tokensByFile[i] = ScanSource(fs, file, b, &el)
	}
	el.Sort()
	return fs, tokensByFile, el.Err()
}

// ScanSource tokenizes src, registering it as filename in fs, and appends
// any errors encountered to el.
func ScanSource(fs *dtoken.FileSet, filename string, src []byte, el *ErrorList) []TokenAndValue {
	var s Scanner
	var tokVal dtoken.Value

	f := fs.AddFile(filename, -1, len(src))
	s.Init(f, src, el.Add)

	var toks []TokenAndValue
	for {
		kind := s.Scan(&tokVal)
		toks = append(toks, TokenAndValue{Kind: kind, Value: tokVal})
		if kind == dtoken.EOF {
			break
		}
	}
	return toks
}

// Scanner tokenizes a single source file for the parser to consume.
type Scanner struct {
	file *dtoken.File
	src  []byte
	err  func(pos token.Position, msg string)

	sb  strings.Builder
	cur rune
	off int
	roff int
}

var bom = [3]byte{0xEF, 0xBB, 0xBF}

// Init initializes the scanner to tokenize a new file. It panics if the
// file's registered size does not match len(src).
func (s *Scanner) Init(file *dtoken.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic("scanner: file size does not match src length")
	}

	s.file = file
	s.src = src
	s.err = errHandler
	s.sb.Reset()
	s.cur = ' '
	s.off = 0
	s.roff = 0

	if len(src) >= len(bom) && bytes.Equal(src[:len(bom)], bom[:]) {
		s.off += len(bom)
		s.roff += len(bom)
	}
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}

	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}

	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) advanceIf(matches ...byte) bool {
	if bytes.ContainsRune(matches, s.cur) {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token kind, filling tokVal with its decoded value.
func (s *Scanner) Scan(tokVal *dtoken.Value) (kind dtoken.Kind) {
	s.skipWhitespaceAndComments()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		kind = dtoken.LookupIdent(lit)
		*tokVal = dtoken.Value{Raw: lit, Pos: pos}

	case isDecimal(cur):
		var lit string
		kind, lit = s.number()
		*tokVal = dtoken.Value{Raw: lit, Pos: pos}
		switch kind {
		case dtoken.INT:
			v, err := strconv.ParseInt(strings.ReplaceAll(lit, "_", ""), 10, 64)
			if err != nil {
				s.error(start, "integer literal out of range")
			}
			tokVal.Int = v
		case dtoken.BYTE:
			v, err := strconv.ParseUint(strings.ReplaceAll(lit[:len(lit)-1], "_", ""), 10, 8)
			if err != nil {
				s.error(start, "byte literal out of range")
			}
			tokVal.Int = int64(v)
		case dtoken.FLOAT:
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				s.error(start, "float literal out of range")
			}
			tokVal.Float = v
		}

	default:
		s.advance() // always make progress
		switch cur {
		case '=':
			kind = dtoken.EQ
			if s.advanceIf('=') {
				kind = dtoken.EQEQ
			}
			*tokVal = dtoken.Value{Raw: kind.String(), Pos: pos}

		case '!':
			kind = dtoken.BANG
			if s.advanceIf('=') {
				kind = dtoken.BANGEQ
			}
			*tokVal = dtoken.Value{Raw: kind.String(), Pos: pos}

		case '<':
			kind = dtoken.LT
			if s.advanceIf('<') {
				kind = dtoken.LTLT
			} else if s.advanceIf('=') {
				kind = dtoken.LE
			}
			*tokVal = dtoken.Value{Raw: kind.String(), Pos: pos}

		case '>':
			kind = dtoken.GT
			if s.advanceIf('>') {
				kind = dtoken.GTGT
			} else if s.advanceIf('=') {
				kind = dtoken.GE
			}
			*tokVal = dtoken.Value{Raw: kind.String(), Pos: pos}

		case '-':
			kind = dtoken.MINUS
			if s.advanceIf('>') {
				kind = dtoken.ARROW
			}
			*tokVal = dtoken.Value{Raw: kind.String(), Pos: pos}

		case ':':
			kind = dtoken.COLON
			if s.advanceIf(':') {
				kind = dtoken.COLONCOLON
			}
			*tokVal = dtoken.Value{Raw: kind.String(), Pos: pos}

		case '+':
			kind = dtoken.PLUS
		case '*':
			kind = dtoken.STAR
		case '/':
			kind = dtoken.SLASH
		case '%':
			kind = dtoken.PERCENT
		case '&':
			kind = dtoken.AMP
		case '|':
			kind = dtoken.PIPE
		case '^':
			kind = dtoken.CARET
		case '~':
			kind = dtoken.TILDE
		case '.':
			kind = dtoken.DOT
		case ',':
			kind = dtoken.COMMA
		case ';':
			kind = dtoken.SEMI
		case '(':
			kind = dtoken.LPAREN
		case ')':
			kind = dtoken.RPAREN
		case '{':
			kind = dtoken.LBRACE
		case '}':
			kind = dtoken.RBRACE
		case '[':
			kind = dtoken.LBRACK
		case ']':
			kind = dtoken.RBRACK

		case '"':
			kind = dtoken.STRING
			lit, val := s.shortString('"')
			*tokVal = dtoken.Value{Raw: lit, Pos: pos, String: val}
			return kind

		case '\'':
			kind = dtoken.CHAR
			lit, val := s.charLiteral()
			*tokVal = dtoken.Value{Raw: lit, Pos: pos, Char: val}
			return kind

		case -1:
			kind = dtoken.EOF
			*tokVal = dtoken.Value{Raw: "", Pos: pos}
			return kind

		default:
			s.error(start, "illegal character "+strconv.QuoteRune(cur))
			kind = dtoken.ILLEGAL
			*tokVal = dtoken.Value{Raw: string(cur), Pos: pos}
			return kind
		}
		*tokVal = dtoken.Value{Raw: kind.String(), Pos: pos}
	}
	return kind
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return isDecimal(rn) || rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}
