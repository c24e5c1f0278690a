package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"meridian-data/ceres/pkg/quality/ast"
)

const ident = `[A-Za-z_][A-Za-z0-9_]*`

// reservedWords can never be field references.
var reservedWords = map[string]bool{
	"and":   true,
	"or":    true,
	"not":   true,
	"in":    true,
	"is":    true,
	"like":  true,
	"len":   true,
	"null":  true,
	"true":  true,
	"false": true,
}

// leafPattern is one recognized predicate shape. The table is ordered and
// matching stops at the first hit.
type leafPattern struct {
	re    *regexp.Regexp
	build func(m []string) (*ast.Node, error)
}

var leafPatterns = []leafPattern{
	// col IS NOT NULL
	{
		re: regexp.MustCompile(`(?i)^(` + ident + `)\s+IS\s+NOT\s+NULL$`),
		build: func(m []string) (*ast.Node, error) {
			return leafNode(m[1], ast.OperatorIsNotNull, nil)
		},
	},
	// col IS NULL
	{
		re: regexp.MustCompile(`(?i)^(` + ident + `)\s+IS\s+NULL$`),
		build: func(m []string) (*ast.Node, error) {
			return leafNode(m[1], ast.OperatorIsNull, nil)
		},
	},
	// col = 'literal'
	{
		re: regexp.MustCompile(`^(` + ident + `)\s*(==?)\s*'([^']*)'$`),
		build: func(m []string) (*ast.Node, error) {
			return leafNode(m[1], ast.OperatorEqual, ast.StringValue(m[3]))
		},
	},
	// col <> 'literal'
	{
		re: regexp.MustCompile(`^(` + ident + `)\s*(<>|!=)\s*'([^']*)'$`),
		build: func(m []string) (*ast.Node, error) {
			return leafNode(m[1], ast.OperatorNotEqual, ast.StringValue(m[3]))
		},
	},
	// col {>=,<=,>,<,=,<>} number
	{
		re: regexp.MustCompile(`^(` + ident + `)\s*(>=|<=|<>|!=|==|=|>|<)\s*([-+]?\d+(?:\.\d+)?)$`),
		build: func(m []string) (*ast.Node, error) {
			f, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid numeric literal %q: %w", m[3], err)
			}
			return leafNode(m[1], normalizeOperator(m[2]), ast.NumberValue(f))
		},
	},
	// col NOT IN (…) — checked before IN so the prefix cannot shadow it
	{
		re: regexp.MustCompile(`(?i)^(` + ident + `)\s+NOT\s+IN\s*\(([^()]*)\)$`),
		build: func(m []string) (*ast.Node, error) {
			elems, err := parseListElements(m[2])
			if err != nil {
				return nil, err
			}
			return leafNode(m[1], ast.OperatorNotIn, ast.ArrayValue(elems))
		},
	},
	// col IN (…)
	{
		re: regexp.MustCompile(`(?i)^(` + ident + `)\s+IN\s*\(([^()]*)\)$`),
		build: func(m []string) (*ast.Node, error) {
			elems, err := parseListElements(m[2])
			if err != nil {
				return nil, err
			}
			return leafNode(m[1], ast.OperatorIn, ast.ArrayValue(elems))
		},
	},
	// col LIKE '%x%' / 'x%' / '%x'
	{
		re: regexp.MustCompile(`(?i)^(` + ident + `)\s+LIKE\s+'([^']*)'$`),
		build: func(m []string) (*ast.Node, error) {
			op, needle, err := translateLikePattern(m[2])
			if err != nil {
				return nil, err
			}
			return leafNode(m[1], op, ast.StringValue(needle))
		},
	},
	// LEN(col) {op} n
	{
		re: regexp.MustCompile(`(?i)^LEN\s*\(\s*(` + ident + `)\s*\)\s*(>=|<=|<>|!=|==|=|>|<)\s*([-+]?\d+)$`),
		build: func(m []string) (*ast.Node, error) {
			f, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid length literal %q: %w", m[3], err)
			}
			n, err := leafNode(m[1], normalizeOperator(m[2]), ast.NumberValue(f))
			if err != nil {
				return nil, err
			}
			n.Kind = ast.NodeKindLenCompare
			return n, nil
		},
	},
	// Bare comparison fallback: col {=,<>} true/false
	{
		re: regexp.MustCompile(`(?i)^(` + ident + `)\s*(==?|<>|!=)\s*(true|false)$`),
		build: func(m []string) (*ast.Node, error) {
			b := strings.EqualFold(m[3], "true")
			return leafNode(m[1], normalizeOperator(m[2]), ast.BoolValue(b))
		},
	},
	// Bare comparison fallback: col {=,<>} NULL
	{
		re: regexp.MustCompile(`(?i)^(` + ident + `)\s*(==?|<>|!=)\s*NULL$`),
		build: func(m []string) (*ast.Node, error) {
			op := ast.OperatorIsNull
			if normalizeOperator(m[2]) == ast.OperatorNotEqual {
				op = ast.OperatorIsNotNull
			}
			return leafNode(m[1], op, nil)
		},
	},
}

// leafNode builds a compare node, rejecting reserved words as fields.
func leafNode(field string, op ast.Operator, value *ast.ValueNode) (*ast.Node, error) {
	if reservedWords[strings.ToLower(field)] {
		return nil, fmt.Errorf("reserved word %q cannot be a field reference", field)
	}
	return &ast.Node{
		Kind:     ast.NodeKindCompare,
		Field:    field,
		Operator: op,
		Value:    value,
	}, nil
}

// normalizeOperator maps expression syntax onto AST operators.
// "=" is normalized to equality, "<>" to inequality.
func normalizeOperator(s string) ast.Operator {
	switch s {
	case "=", "==":
		return ast.OperatorEqual
	case "<>", "!=":
		return ast.OperatorNotEqual
	case "<":
		return ast.OperatorLessThan
	case ">":
		return ast.OperatorGreaterThan
	case "<=":
		return ast.OperatorLessEqual
	case ">=":
		return ast.OperatorGreaterEqual
	default:
		return ast.Operator(s)
	}
}

// translateLikePattern maps a LIKE pattern onto a string operator.
// Wildcards are only supported at the edges: '%x%' is a substring match,
// 'x%' a prefix match and '%x' a suffix match. A pattern without
// wildcards is an exact match.
func translateLikePattern(pattern string) (ast.Operator, string, error) {
	hasPrefix := strings.HasPrefix(pattern, "%")
	hasSuffix := strings.HasSuffix(pattern, "%")

	needle := strings.TrimPrefix(pattern, "%")
	needle = strings.TrimSuffix(needle, "%")

	if strings.Contains(needle, "%") || strings.Contains(needle, "_") {
		return "", "", fmt.Errorf("unsupported LIKE pattern %q: wildcards only at the edges", pattern)
	}
	if needle == "" {
		return "", "", fmt.Errorf("empty LIKE pattern %q", pattern)
	}

	switch {
	case hasPrefix && hasSuffix:
		return ast.OperatorContains, needle, nil
	case hasSuffix:
		return ast.OperatorStartsWith, needle, nil
	case hasPrefix:
		return ast.OperatorEndsWith, needle, nil
	default:
		return ast.OperatorEqual, needle, nil
	}
}

// parseListElements parses the comma-separated body of an IN list.
// Elements are quoted strings, numbers or booleans.
func parseListElements(body string) ([]any, error) {
	parts := splitListBody(body)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty IN list")
	}

	elems := make([]any, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
			return nil, fmt.Errorf("empty element in IN list")
		case strings.HasPrefix(part, "'") && strings.HasSuffix(part, "'") && len(part) >= 2:
			elems = append(elems, part[1:len(part)-1])
		case strings.EqualFold(part, "true"):
			elems = append(elems, true)
		case strings.EqualFold(part, "false"):
			elems = append(elems, false)
		default:
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid IN list element %q", part)
			}
			elems = append(elems, f)
		}
	}
	return elems, nil
}

// splitListBody splits on commas outside single quotes.
func splitListBody(body string) []string {
	var parts []string
	var sb strings.Builder
	inQuote := false

	for _, r := range body {
		switch {
		case r == '\'':
			inQuote = !inQuote
			sb.WriteRune(r)
		case r == ',' && !inQuote:
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	if strings.TrimSpace(sb.String()) != "" || len(parts) > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}
