package extractor

import (
	"strings"

	"github.com/msgscan/msgscan/pkg/token"
)

// resolveLiteral reduces a parameter group to a string value.
//
// The group resolves when its first token is a string literal, optionally
// followed by "." concatenations of further string literals (unquoted) or
// number literals (raw text appended). A non-"." token at a concatenation
// position is a well-formed terminator — resolution succeeds with what was
// gathered so far. A "." followed by anything other than a string or number
// literal, or a trailing ".", aborts resolution for the whole group.
//
// ok=false means "no literal value here", not an error: callers treat it as
// absent (for the category group) or as grounds for skipping (for the
// message-id group).
func resolveLiteral(group []token.Token) (string, bool) {
	if len(group) == 0 || group[0].Kind != token.KindString {
		return "", false
	}

	out := unquote(group[0].Text)

	for i := 1; i < len(group); i += 2 {
		if !group[i].IsPunct(".") {
			return out, true
		}
		if i+1 >= len(group) {
			return "", false
		}
		next := group[i+1]
		switch next.Kind {
		case token.KindString:
			out += unquote(next.Text)
		case token.KindNumber:
			out += next.Text
		default:
			return "", false
		}
	}

	return out, true
}

// unquote strips the surrounding quotes from a string literal and resolves
// backslash escapes. Single-quoted literals only recognize \\ and \';
// double-quoted literals take the usual control escapes plus \$ and \".
// Unknown escapes keep their backslash, matching how the source language
// reads them.
func unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	quote := text[0]
	if (quote != '\'' && quote != '"') || text[len(text)-1] != quote {
		return text
	}

	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		esc := body[i]

		if quote == '\'' {
			switch esc {
			case '\\', '\'':
				b.WriteByte(esc)
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			continue
		}

		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'v':
			b.WriteByte('\v')
		case 'f':
			b.WriteByte('\f')
		case 'e':
			b.WriteByte(0x1b)
		case '\\', '"', '$':
			b.WriteByte(esc)
		default:
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}
	return b.String()
}
