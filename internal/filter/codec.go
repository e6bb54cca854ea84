package filter

import (
	"strings"
	"unicode/utf8"
)

// isCharAllowed reports whether an unescaped ASCII byte may appear literally
// in filter value text: every octet except NUL, '(', ')', '*' and '\'.
func isCharAllowed(c byte) bool {
	if c == 0x00 || c == '(' || c == ')' || c == '*' || c == '\\' {
		return false
	}
	return c >= 0x01
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

const hexDigits = "0123456789abcdef"

func hexByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0f]})
}

func describeByte(c byte) string {
	return "\\" + hexByte(c)
}

// unescapeValue converts RFC 2254 V3-escaped filter value text into its raw
// octets: \HH sequences become the literal byte 0xHH, every other
// permitted character is copied through (multi-byte UTF-8 sequences are
// re-encoded rune by rune), and anything else fails.
func unescapeValue(text string) ([]byte, error) {
	buf := make([]byte, 0, len(text))
	const (
		stateNone = iota
		stateFirstHex
		stateSecondHex
	)
	state := stateNone
	var hi byte

	i := 0
	for i < len(text) {
		c := text[i]

		if state != stateNone {
			v, ok := hexDigit(c)
			if !ok {
				return nil, newSyntaxError(ReasonInvalidEscape, i, describeByte(c))
			}
			if state == stateFirstHex {
				hi = v
				state = stateSecondHex
			} else {
				buf = append(buf, hi<<4|v)
				state = stateNone
			}
			i++
			continue
		}

		if c == '\\' {
			state = stateFirstHex
			i++
			continue
		}

		if c < 0x80 {
			if !isCharAllowed(c) {
				return nil, newSyntaxError(ReasonInvalidChar, i, describeByte(c))
			}
			buf = append(buf, c)
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, newSyntaxError(ReasonInvalidChar, i, describeByte(c))
		}
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], r)
		buf = append(buf, tmp[:n]...)
		i += size
	}

	if state != stateNone {
		return nil, newSyntaxError(ReasonShortEscape, i, "")
	}
	return buf, nil
}

// renderValue renders raw octets as RFC 2254 filter value text: verbatim if
// the octets are valid UTF-8 and every ASCII byte among them is allowed by
// isCharAllowed (control bytes 0x01-0x1f included),
// otherwise the whole value is rendered as a run of \HH escapes.
func renderValue(octets []byte) string {
	if !needsEscaping(octets) {
		return string(octets)
	}
	var b strings.Builder
	b.Grow(len(octets) * 3)
	for _, o := range octets {
		b.WriteByte('\\')
		b.WriteString(hexByte(o))
	}
	return b.String()
}

func needsEscaping(octets []byte) bool {
	if !utf8.Valid(octets) {
		return true
	}
	for i := 0; i < len(octets); {
		r, size := utf8.DecodeRune(octets[i:])
		if r < 0x80 && !isCharAllowed(byte(r)) {
			return true
		}
		i += size
	}
	return false
}
