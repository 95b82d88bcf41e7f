package extractor

import (
	"github.com/msgscan/msgscan/pkg/token"
)

// scanner is one pass of the matching state machine. It is a value type:
// recursive re-scans of parameter groups run on a fresh scanner that shares
// only the accumulating Result, so nesting levels cannot bleed state into
// each other.
type scanner struct {
	pattern         []token.Token
	defaultCategory string
	res             *Result
}

// run walks the token stream left to right.
//
// In the searching state, matched counts how many consecutive tokens have
// matched the pattern from its start. Once the full pattern has matched, an
// opening parenthesis starts a capture; any other token resets the count
// before being re-tested. A mismatch always resets to zero — there is no
// attempt to re-match a shorter pattern suffix, so a pattern A B misses an
// occurrence inside the stream A A B. Consumers depend on this exact
// behavior; do not replace it with an overlapping matcher.
//
// In the capturing state, tokens accumulate into buf. A nested "(" bumps
// depth; a ")" at depth zero terminates the call and hands buf to parameter
// extraction. Success merges messages into the result; failure records the
// whole matched region, prefix through closing parenthesis, as a skipped
// call. Either way the scanner returns to searching with cleared state, so a
// malformed call never corrupts extraction of the calls after it.
func (s scanner) run(tokens []token.Token) {
	matched := 0
	matchStart := 0
	capturing := false
	depth := 0
	var buf []token.Token

	for i, tk := range tokens {
		if capturing {
			if tk.IsPunct(")") {
				if depth == 0 {
					if !s.emit(buf) {
						s.res.skip(tokens[matchStart].Line, renderSource(tokens[matchStart:i+1]))
					}
					capturing = false
					buf = nil
					continue
				}
				depth--
			} else if tk.IsPunct("(") {
				depth++
			}
			buf = append(buf, tk)
			continue
		}

		if matched == len(s.pattern) {
			if tk.IsPunct("(") {
				capturing = true
				depth = 0
				buf = nil
				matched = 0
				continue
			}
			matched = 0
		}

		if tk.Equal(s.pattern[matched]) {
			if matched == 0 {
				matchStart = i
			}
			matched++
		} else {
			matched = 0
		}
	}

	// A capture still open at end of input is an unterminated call; flag it
	// for review rather than dropping it silently.
	if capturing {
		s.res.skip(tokens[matchStart].Line, renderSource(tokens[matchStart:]))
	}
}

// emit interprets one captured call body (outer parentheses already
// stripped). It reports false when the call must be recorded as skipped.
func (s scanner) emit(buf []token.Token) bool {
	groups, ok := splitParams(buf)
	if !ok || len(groups) == 0 {
		return false
	}

	id, ok := resolveLiteral(groups[0])
	if !ok {
		return false
	}

	category := s.defaultCategory
	if len(groups) > 2 {
		if c, ok := resolveLiteral(groups[2]); ok {
			category = c
		}
	}

	s.res.add(category, id)

	// The parameters group may itself contain translator calls; re-scan it
	// as an independent token stream.
	if len(groups) > 1 {
		child := scanner{
			pattern:         s.pattern,
			defaultCategory: s.defaultCategory,
			res:             s.res,
		}
		child.run(groups[1])
	}

	return true
}
