package compiler

import (
	"strconv"
	"strings"

	"meridian-data/ceres/pkg/quality/ast"
)

// QueryString derives a normalized filter-expression string from the
// predicate for collaborators that evaluate at batch or columnar
// granularity instead of per record. The derivation is best-effort: the
// second return value is false when the tree contains a shape that has no
// faithful textual form (e.g. a needle containing wildcard characters),
// and the absence of a vectorized form is not an error.
func (p *Predicate) QueryString() (string, bool) {
	return renderNode(p.root, false)
}

// renderNode renders one node. nested controls parenthesization of
// logical children.
func renderNode(node *ast.Node, nested bool) (string, bool) {
	switch node.Kind {
	case ast.NodeKindAnd, ast.NodeKindOr:
		sep := " AND "
		if node.Kind == ast.NodeKindOr {
			sep = " OR "
		}
		parts := make([]string, 0, len(node.Children))
		for _, child := range node.Children {
			s, ok := renderNode(child, true)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		joined := strings.Join(parts, sep)
		if nested {
			return "(" + joined + ")", true
		}
		return joined, true

	case ast.NodeKindNot:
		if len(node.Children) != 1 {
			return "", false
		}
		s, ok := renderNode(node.Children[0], true)
		if !ok {
			return "", false
		}
		return "NOT " + s, true

	case ast.NodeKindCompare:
		return renderCompare(node)

	case ast.NodeKindLenCompare:
		op, ok := renderOperator(node.Operator)
		if !ok {
			return "", false
		}
		num, ok := renderNumber(node.Value)
		if !ok {
			return "", false
		}
		return "LEN(" + node.Field + ") " + op + " " + num, true

	default:
		return "", false
	}
}

// renderCompare renders a leaf comparison.
func renderCompare(node *ast.Node) (string, bool) {
	switch node.Operator {
	case ast.OperatorIsNull:
		return node.Field + " IS NULL", true

	case ast.OperatorIsNotNull:
		return node.Field + " IS NOT NULL", true

	case ast.OperatorEqual, ast.OperatorNotEqual,
		ast.OperatorLessThan, ast.OperatorGreaterThan,
		ast.OperatorLessEqual, ast.OperatorGreaterEqual:
		op, ok := renderOperator(node.Operator)
		if !ok {
			return "", false
		}
		lit, ok := renderLiteral(node.Value)
		if !ok {
			return "", false
		}
		return node.Field + " " + op + " " + lit, true

	case ast.OperatorContains:
		return renderLike(node, "%", "%")

	case ast.OperatorStartsWith:
		return renderLike(node, "", "%")

	case ast.OperatorEndsWith:
		return renderLike(node, "%", "")

	case ast.OperatorIn:
		return renderMembership(node, "IN")

	case ast.OperatorNotIn:
		return renderMembership(node, "NOT IN")

	default:
		return "", false
	}
}

// renderLike renders a string-match node back into LIKE syntax. Needles
// containing quote or wildcard characters are not renderable.
func renderLike(node *ast.Node, lead, trail string) (string, bool) {
	needle, _ := node.Value.Value.(string)
	if strings.ContainsAny(needle, "'%_") {
		return "", false
	}
	return node.Field + " LIKE '" + lead + needle + trail + "'", true
}

// renderMembership renders IN / NOT IN lists.
func renderMembership(node *ast.Node, keyword string) (string, bool) {
	elems := node.Value.Elements()
	if len(elems) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		switch ev := e.(type) {
		case string:
			if strings.Contains(ev, "'") {
				return "", false
			}
			parts = append(parts, "'"+ev+"'")
		case float64:
			parts = append(parts, strconv.FormatFloat(ev, 'f', -1, 64))
		case bool:
			parts = append(parts, strconv.FormatBool(ev))
		default:
			return "", false
		}
	}
	return node.Field + " " + keyword + " (" + strings.Join(parts, ", ") + ")", true
}

// renderOperator renders operators in expression syntax ("=" and "<>"
// rather than "==" and "!=").
func renderOperator(op ast.Operator) (string, bool) {
	switch op {
	case ast.OperatorEqual:
		return "=", true
	case ast.OperatorNotEqual:
		return "<>", true
	case ast.OperatorLessThan:
		return "<", true
	case ast.OperatorGreaterThan:
		return ">", true
	case ast.OperatorLessEqual:
		return "<=", true
	case ast.OperatorGreaterEqual:
		return ">=", true
	default:
		return "", false
	}
}

// renderLiteral renders a scalar literal.
func renderLiteral(v *ast.ValueNode) (string, bool) {
	if v.IsNull() {
		return "NULL", true
	}
	switch v.Type {
	case ast.ValueTypeString:
		s, _ := v.Value.(string)
		if strings.Contains(s, "'") {
			return "", false
		}
		return "'" + s + "'", true
	case ast.ValueTypeNumber:
		return renderNumber(v)
	case ast.ValueTypeBoolean:
		b, _ := v.Value.(bool)
		return strconv.FormatBool(b), true
	default:
		return "", false
	}
}

// renderNumber renders a numeric literal without trailing zeros.
func renderNumber(v *ast.ValueNode) (string, bool) {
	f, ok := v.Value.(float64)
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}
