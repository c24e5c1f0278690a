package ast

// NodeKind represents the kind of an expression node.
type NodeKind string

const (
	NodeKindCompare    NodeKind = "compare"     // field op value
	NodeKindLenCompare NodeKind = "len_compare" // len(field) op value
	NodeKindAnd        NodeKind = "and"         // AND of children
	NodeKindOr         NodeKind = "or"          // OR of children
	NodeKindNot        NodeKind = "not"         // NOT of a single child
)

// Operator represents a comparison operator in a leaf node.
type Operator string

const (
	OperatorEqual        Operator = "=="
	OperatorNotEqual     Operator = "!="
	OperatorLessThan     Operator = "<"
	OperatorGreaterThan  Operator = ">"
	OperatorLessEqual    Operator = "<="
	OperatorGreaterEqual Operator = ">="
	OperatorContains     Operator = "contains"
	OperatorStartsWith   Operator = "starts_with"
	OperatorEndsWith     Operator = "ends_with"
	OperatorIn           Operator = "in"
	OperatorNotIn        Operator = "not_in"
	OperatorIsNull       Operator = "is_null"
	OperatorIsNotNull    Operator = "is_not_null"
)

// Node represents one node of a compiled rule expression.
// Leaf nodes (compare, len_compare) carry a field reference, an operator
// and a literal value; logical nodes (and, or, not) carry children.
type Node struct {
	Kind     NodeKind   // Kind of node
	Field    string     // Record field referenced (leaf nodes)
	Operator Operator   // Comparison operator (leaf nodes)
	Value    *ValueNode // Literal operand (leaf nodes; nil for null checks)
	Children []*Node    // Child nodes (and/or/not)
}

// IsLeaf returns true if this node compares a field against a value.
func (n *Node) IsLeaf() bool {
	return n.Kind == NodeKindCompare || n.Kind == NodeKindLenCompare
}

// IsLogical returns true if this node combines child nodes.
func (n *Node) IsLogical() bool {
	return n.Kind == NodeKindAnd || n.Kind == NodeKindOr || n.Kind == NodeKindNot
}

// IsNumericOperator returns true for operators that order values
// numerically. Missing fields default to zero under these operators so
// that comparisons against absent fields stay well-defined.
func IsNumericOperator(op Operator) bool {
	switch op {
	case OperatorLessThan, OperatorGreaterThan, OperatorLessEqual, OperatorGreaterEqual:
		return true
	default:
		return false
	}
}
