package scanner

import (
	"unicode/utf8"

	dtoken "github.com/dust-lang/dust/lang/token"
)

func decodeRuneAt(src []byte, off int) (rune, int) {
	return utf8.DecodeRune(src[off:])
}

func isDecimal(rn rune) bool { return '0' <= rn && rn <= '9' }

// number scans an integer, float or byte literal starting at s.cur, which
// must satisfy isDecimal. Digits may be separated by underscores for
// readability, e.g. 1_000_000. A literal followed directly by 'b' (with no
// intervening digit) is a byte literal; a literal containing a '.' followed
// by a digit, or an exponent, is a float literal; otherwise it is an
// integer literal.
func (s *Scanner) number() (dtoken.Kind, string) {
	start := s.off
	kind := dtoken.INT

	s.digits()

	if s.cur == '.' && isDecimal(s.peekRune()) {
		kind = dtoken.FLOAT
		s.advance() // '.'
		s.digits()
	}

	if (s.cur == 'e' || s.cur == 'E') && kind != dtoken.BYTE {
		lookahead := s.peekRune()
		if isDecimal(lookahead) || ((s.peek() == '+' || s.peek() == '-')) {
			kind = dtoken.FLOAT
			s.advance() // 'e'/'E'
			if s.cur == '+' || s.cur == '-' {
				s.advance()
			}
			s.digits()
		}
	}

	if kind == dtoken.INT && s.cur == 'b' {
		kind = dtoken.BYTE
		s.advance()
	}

	return kind, string(s.src[start:s.off])
}

func (s *Scanner) digits() {
	for isDecimal(s.cur) || s.cur == '_' {
		s.advance()
	}
}

// peekRune reports the rune that would become s.cur after the next advance,
// without consuming it. Used for the short lookahead number scanning needs
// to disambiguate '.' as a field/method accessor from '.' starting a
// fractional part, and 'e'/'E' as an identifier start from an exponent.
func (s *Scanner) peekRune() rune {
	if s.roff >= len(s.src) {
		return -1
	}
	b := s.src[s.roff]
	if b < 0x80 {
		return rune(b)
	}
	// Multi-byte runes are rare in numeric contexts; decode properly.
	r, _ := decodeRuneAt(s.src, s.roff)
	return r
}
