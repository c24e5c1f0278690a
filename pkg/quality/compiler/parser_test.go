package compiler

import (
	"errors"
	"testing"

	"meridian-data/ceres/pkg/quality/ast"
)

// TestParse_LeafShapes tests that each recognized shape parses into the
// expected node.
func TestParse_LeafShapes(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		wantKind ast.NodeKind
		wantOp   ast.Operator
		wantField string
	}{
		{"is not null", "id IS NOT NULL", ast.NodeKindCompare, ast.OperatorIsNotNull, "id"},
		{"is null", "deleted_at IS NULL", ast.NodeKindCompare, ast.OperatorIsNull, "deleted_at"},
		{"is not null lowercase", "id is not null", ast.NodeKindCompare, ast.OperatorIsNotNull, "id"},
		{"string equality", "status = 'active'", ast.NodeKindCompare, ast.OperatorEqual, "status"},
		{"string inequality", "status <> 'deleted'", ast.NodeKindCompare, ast.OperatorNotEqual, "status"},
		{"numeric gte", "amount >= 0", ast.NodeKindCompare, ast.OperatorGreaterEqual, "amount"},
		{"numeric lt", "age < 150", ast.NodeKindCompare, ast.OperatorLessThan, "age"},
		{"numeric equality normalized", "count = 3", ast.NodeKindCompare, ast.OperatorEqual, "count"},
		{"numeric not equal", "count <> 0", ast.NodeKindCompare, ast.OperatorNotEqual, "count"},
		{"negative literal", "balance >= -100", ast.NodeKindCompare, ast.OperatorGreaterEqual, "balance"},
		{"in list", "region IN ('eu', 'us')", ast.NodeKindCompare, ast.OperatorIn, "region"},
		{"not in list", "region NOT IN ('test')", ast.NodeKindCompare, ast.OperatorNotIn, "region"},
		{"like substring", "email LIKE '%@%'", ast.NodeKindCompare, ast.OperatorContains, "email"},
		{"like prefix", "sku LIKE 'AB%'", ast.NodeKindCompare, ast.OperatorStartsWith, "sku"},
		{"like suffix", "file LIKE '%.csv'", ast.NodeKindCompare, ast.OperatorEndsWith, "file"},
		{"len compare", "LEN(name) > 0", ast.NodeKindLenCompare, ast.OperatorGreaterThan, "name"},
		{"len lowercase", "len(name) <= 64", ast.NodeKindLenCompare, ast.OperatorLessEqual, "name"},
		{"boolean fallback", "is_valid = true", ast.NodeKindCompare, ast.OperatorEqual, "is_valid"},
		{"null fallback", "parent_id = NULL", ast.NodeKindCompare, ast.OperatorIsNull, "parent_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.expr, err)
			}
			if node.Kind != tt.wantKind {
				t.Errorf("Parse(%q) kind = %q, want %q", tt.expr, node.Kind, tt.wantKind)
			}
			if node.Operator != tt.wantOp {
				t.Errorf("Parse(%q) operator = %q, want %q", tt.expr, node.Operator, tt.wantOp)
			}
			if node.Field != tt.wantField {
				t.Errorf("Parse(%q) field = %q, want %q", tt.expr, node.Field, tt.wantField)
			}
		})
	}
}

// TestParse_LogicalCombination tests AND/OR/NOT decomposition.
func TestParse_LogicalCombination(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		wantKind  ast.NodeKind
		wantChild int
	}{
		{"and", "id IS NOT NULL AND amount >= 0", ast.NodeKindAnd, 2},
		{"or", "status = 'a' OR status = 'b'", ast.NodeKindOr, 2},
		{"three-way and", "a > 0 AND b > 0 AND c > 0", ast.NodeKindAnd, 3},
		{"not", "NOT status = 'deleted'", ast.NodeKindNot, 1},
		{"lowercase keywords", "a > 0 and b > 0", ast.NodeKindAnd, 2},
		{"parenthesized or under and", "(a = 1 OR b = 2) AND c IS NOT NULL", ast.NodeKindAnd, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.expr, err)
			}
			if node.Kind != tt.wantKind {
				t.Errorf("Parse(%q) kind = %q, want %q", tt.expr, node.Kind, tt.wantKind)
			}
			if len(node.Children) != tt.wantChild {
				t.Errorf("Parse(%q) children = %d, want %d", tt.expr, len(node.Children), tt.wantChild)
			}
		})
	}
}

// TestParse_OrBindsLooserThanAnd verifies operator precedence.
func TestParse_OrBindsLooserThanAnd(t *testing.T) {
	node, err := Parse("a = 1 AND b = 2 OR c = 3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if node.Kind != ast.NodeKindOr {
		t.Fatalf("root kind = %q, want %q", node.Kind, ast.NodeKindOr)
	}
	if len(node.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(node.Children))
	}
	if node.Children[0].Kind != ast.NodeKindAnd {
		t.Errorf("first child kind = %q, want %q", node.Children[0].Kind, ast.NodeKindAnd)
	}
}

// TestParse_WordBoundarySafety verifies that fields containing keyword
// substrings are not corrupted ("android" must not split on "and").
func TestParse_WordBoundarySafety(t *testing.T) {
	tests := []struct {
		expr      string
		wantField string
	}{
		{"android IS NOT NULL", "android"},
		{"orders >= 1", "orders"},
		{"notes = 'x'", "notes"},
		{"inventory > 0", "inventory"},
		{"island LIKE 'ice%'", "island"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			node, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.expr, err)
			}
			if !node.IsLeaf() {
				t.Fatalf("Parse(%q) kind = %q, want leaf", tt.expr, node.Kind)
			}
			if node.Field != tt.wantField {
				t.Errorf("Parse(%q) field = %q, want %q", tt.expr, node.Field, tt.wantField)
			}
		})
	}
}

// TestParse_QuotedKeywordsIgnored verifies keywords inside string
// literals do not trigger logical splitting.
func TestParse_QuotedKeywordsIgnored(t *testing.T) {
	node, err := Parse("category = 'food and drink'")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if node.Kind != ast.NodeKindCompare {
		t.Fatalf("kind = %q, want compare", node.Kind)
	}
	if got, _ := node.Value.Value.(string); got != "food and drink" {
		t.Errorf("value = %q, want %q", got, "food and drink")
	}
}

// TestParse_Malformed verifies unparseable expressions return a
// CompileError rather than panicking.
func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unmatched quote", "name = 'x"},
		{"missing operand", "amount >="},
		{"bare identifier", "amount"},
		{"reserved word field", "null IS NOT NULL"},
		{"interior wildcard", "name LIKE 'a%b'"},
		{"empty in list", "region IN ()"},
		{"unbalanced parens", "(a = 1 AND b = 2"},
		{"field to field", "a = b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.expr)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got nil", tt.expr)
			}
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Errorf("Parse(%q) error type = %T, want *CompileError", tt.expr, err)
			}
		})
	}
}

// TestParse_InListElements verifies typed list element parsing.
func TestParse_InListElements(t *testing.T) {
	node, err := Parse("code IN ('a', 2, true)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	elems := node.Value.Elements()
	if len(elems) != 3 {
		t.Fatalf("elements = %d, want 3", len(elems))
	}
	if elems[0] != "a" {
		t.Errorf("elems[0] = %v, want %q", elems[0], "a")
	}
	if elems[1] != float64(2) {
		t.Errorf("elems[1] = %v, want 2", elems[1])
	}
	if elems[2] != true {
		t.Errorf("elems[2] = %v, want true", elems[2])
	}
}
