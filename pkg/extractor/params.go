package extractor

import (
	"github.com/msgscan/msgscan/pkg/token"
)

// bracketStack tracks (, [ and { nesting inside a call body. Closers are
// verified against the opener on top of the stack; a mismatch or a pop on an
// empty stack marks the whole call invalid.
type bracketStack struct {
	openers []byte
}

func (b *bracketStack) push(opener byte) {
	b.openers = append(b.openers, opener)
}

// pop removes the top opener and reports whether it matches the given closer.
func (b *bracketStack) pop(closer byte) bool {
	if len(b.openers) == 0 {
		return false
	}
	top := b.openers[len(b.openers)-1]
	b.openers = b.openers[:len(b.openers)-1]

	switch closer {
	case ')':
		return top == '('
	case ']':
		return top == '['
	case '}':
		return top == '{'
	}
	return false
}

func (b *bracketStack) depth() int {
	return len(b.openers)
}

// splitParams splits a call body on commas at bracket depth zero, producing
// the positional parameter groups: 0 = message id, 1 = parameters,
// 2 = category. Group contents keep their brackets so group 1 can be
// re-scanned as-is. Returns ok=false when a closer does not match its opener
// or an opener is left unclosed — such a call is skipped, never partially
// interpreted.
func splitParams(buf []token.Token) ([][]token.Token, bool) {
	var stack bracketStack
	groups := make([][]token.Token, 1)

	for _, tk := range buf {
		if tk.Kind == token.KindPunct {
			switch tk.Text {
			case "(", "[", "{":
				stack.push(tk.Text[0])
			case ")", "]", "}":
				if !stack.pop(tk.Text[0]) {
					return nil, false
				}
			case ",":
				if stack.depth() == 0 {
					groups = append(groups, nil)
					continue
				}
			}
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], tk)
	}

	if stack.depth() != 0 {
		return nil, false
	}
	return groups, true
}
