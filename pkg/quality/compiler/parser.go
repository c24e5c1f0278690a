package compiler

import (
	"strings"
	"unicode"

	"meridian-data/ceres/pkg/quality/ast"
)

// Parse translates a rule expression into an AST. It returns a
// *CompileError when no recognized shape matches; callers are expected to
// apply the fail-open policy rather than abort.
func Parse(expression string) (*ast.Node, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, &CompileError{Expression: expression, Cause: ErrEmptyExpression}
	}

	node, err := parseOr(trimmed)
	if err != nil {
		if ce, ok := err.(*CompileError); ok {
			ce.Expression = trimmed
			return nil, ce
		}
		return nil, &CompileError{Expression: trimmed, Cause: err}
	}
	return node, nil
}

// parseOr handles top-level OR combination (lowest precedence).
func parseOr(s string) (*ast.Node, error) {
	parts := splitTopLevel(s, "or")
	if len(parts) == 1 {
		return parseAnd(parts[0])
	}

	children := make([]*ast.Node, 0, len(parts))
	for _, part := range parts {
		child, err := parseAnd(part)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &ast.Node{Kind: ast.NodeKindOr, Children: children}, nil
}

// parseAnd handles AND combination.
func parseAnd(s string) (*ast.Node, error) {
	parts := splitTopLevel(s, "and")
	if len(parts) == 1 {
		return parseUnary(parts[0])
	}

	children := make([]*ast.Node, 0, len(parts))
	for _, part := range parts {
		child, err := parseUnary(part)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &ast.Node{Kind: ast.NodeKindAnd, Children: children}, nil
}

// parseUnary handles NOT prefixes and parenthesized groups.
func parseUnary(s string) (*ast.Node, error) {
	s = strings.TrimSpace(s)

	if rest, ok := trimKeywordPrefix(s, "not"); ok {
		child, err := parseUnary(rest)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.NodeKindNot, Children: []*ast.Node{child}}, nil
	}

	if inner, ok := stripOuterParens(s); ok {
		return parseOr(inner)
	}

	return parseLeaf(s)
}

// parseLeaf matches one expression fragment against the ordered pattern
// table. First match wins.
func parseLeaf(s string) (*ast.Node, error) {
	s = strings.TrimSpace(s)
	for _, p := range leafPatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		node, err := p.build(m)
		if err != nil {
			return nil, &CompileError{Fragment: s, Cause: err}
		}
		return node, nil
	}
	return nil, &CompileError{Fragment: s, Cause: ErrUnrecognizedExpression}
}

// splitTopLevel splits s on a logical keyword at parenthesis depth zero
// and outside single-quoted literals. The keyword match is
// case-insensitive and word-boundary safe, so a field named "android" is
// never split on its embedded "and".
func splitTopLevel(s, keyword string) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0
	kl := len(keyword)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
			// skip everything inside a literal
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && isWordBoundary(s, i, kl) && strings.EqualFold(s[i:i+kl], keyword):
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + kl
			i += kl - 1
		}
	}

	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// isWordBoundary reports whether s[i:i+n] sits between non-word characters.
func isWordBoundary(s string, i, n int) bool {
	if i+n > len(s) {
		return false
	}
	if i > 0 && isWordChar(rune(s[i-1])) {
		return false
	}
	if i+n < len(s) && isWordChar(rune(s[i+n])) {
		return false
	}
	return true
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// trimKeywordPrefix strips a leading keyword (word-boundary safe).
func trimKeywordPrefix(s, keyword string) (string, bool) {
	kl := len(keyword)
	if len(s) <= kl || !strings.EqualFold(s[:kl], keyword) {
		return s, false
	}
	if isWordChar(rune(s[kl])) {
		return s, false
	}
	return strings.TrimSpace(s[kl:]), true
}

// stripOuterParens removes one pair of wrapping parentheses when they
// enclose the whole fragment.
func stripOuterParens(s string) (string, bool) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s, false
	}

	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\'':
			inQuote = !inQuote
		case inQuote:
		case s[i] == '(':
			depth++
		case s[i] == ')':
			depth--
			// closing before the end means the parens do not wrap everything
			if depth == 0 && i != len(s)-1 {
				return s, false
			}
		}
	}
	if depth != 0 {
		return s, false
	}
	return strings.TrimSpace(s[1 : len(s)-1]), true
}
