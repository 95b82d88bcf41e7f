package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/msgscan/msgscan/pkg/token"
)

func TestResolveLiteral(t *testing.T) {
	tests := []struct {
		name  string
		group []token.Token
		want  string
		ok    bool
	}{
		{
			name:  "single double-quoted literal",
			group: []token.Token{str(`"hello"`)},
			want:  "hello",
			ok:    true,
		},
		{
			name:  "single single-quoted literal",
			group: []token.Token{str(`'hello'`)},
			want:  "hello",
			ok:    true,
		},
		{
			name:  "empty group",
			group: nil,
			ok:    false,
		},
		{
			name:  "non-literal first token",
			group: []token.Token{variable("$id")},
			ok:    false,
		},
		{
			name:  "number first token",
			group: []token.Token{num("42")},
			ok:    false,
		},
		{
			name:  "string dot string",
			group: []token.Token{str(`"a"`), punct("."), str(`"b"`)},
			want:  "ab",
			ok:    true,
		},
		{
			name:  "string dot number dot string",
			group: []token.Token{str(`"a."`), punct("."), num("3"), punct("."), str(`".b"`)},
			want:  "a.3.b",
			ok:    true,
		},
		{
			name:  "dot followed by variable aborts",
			group: []token.Token{str(`"a"`), punct("."), variable("$x")},
			ok:    false,
		},
		{
			name:  "trailing dot aborts",
			group: []token.Token{str(`"a"`), punct(".")},
			ok:    false,
		},
		{
			name:  "non-dot token terminates cleanly",
			group: []token.Token{str(`"a"`), name("xyz"), punct("."), variable("$x")},
			want:  "a",
			ok:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveLiteral(tt.group)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestUnquote_Escapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"double-quoted newline", `"a\nb"`, "a\nb"},
		{"double-quoted tab", `"a\tb"`, "a\tb"},
		{"double-quoted dollar", `"\$var"`, "$var"},
		{"double-quoted backslash", `"a\\b"`, `a\b`},
		{"double-quoted quote", `"say \"hi\""`, `say "hi"`},
		{"double-quoted unknown escape kept", `"a\qb"`, `a\qb`},
		{"single-quoted quote", `'it\'s'`, "it's"},
		{"single-quoted backslash", `'a\\b'`, `a\b`},
		{"single-quoted newline stays literal", `'a\nb'`, `a\nb`},
		{"no escapes fast path", `"plain"`, "plain"},
		{"empty string", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unquote(tt.in))
		})
	}
}
