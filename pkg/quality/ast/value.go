package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType represents the type of a literal value in a rule expression.
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeNull    ValueType = "null"
	ValueTypeArray   ValueType = "array"
)

// ValueNode represents a literal operand in a leaf node.
// Arrays (for IN / NOT IN) hold their elements as []any.
type ValueNode struct {
	Type  ValueType
	Value any
}

// StringValue returns a string literal node.
func StringValue(s string) *ValueNode {
	return &ValueNode{Type: ValueTypeString, Value: s}
}

// NumberValue returns a numeric literal node.
func NumberValue(f float64) *ValueNode {
	return &ValueNode{Type: ValueTypeNumber, Value: f}
}

// BoolValue returns a boolean literal node.
func BoolValue(b bool) *ValueNode {
	return &ValueNode{Type: ValueTypeBoolean, Value: b}
}

// NullValue returns a null literal node.
func NullValue() *ValueNode {
	return &ValueNode{Type: ValueTypeNull, Value: nil}
}

// ArrayValue returns an array literal node for membership operators.
func ArrayValue(elems []any) *ValueNode {
	return &ValueNode{Type: ValueTypeArray, Value: elems}
}

// Elements returns the array elements, or nil if this is not an array.
func (v *ValueNode) Elements() []any {
	if v == nil || v.Type != ValueTypeArray {
		return nil
	}
	elems, _ := v.Value.([]any)
	return elems
}

// IsNull returns true if this value is the null literal.
func (v *ValueNode) IsNull() bool {
	return v == nil || v.Type == ValueTypeNull
}

// String renders the value in rule-expression syntax.
func (v *ValueNode) String() string {
	if v == nil || v.Type == ValueTypeNull {
		return "NULL"
	}
	switch v.Type {
	case ValueTypeString:
		return "'" + fmt.Sprint(v.Value) + "'"
	case ValueTypeNumber:
		f, _ := v.Value.(float64)
		return strconv.FormatFloat(f, 'f', -1, 64)
	case ValueTypeBoolean:
		b, _ := v.Value.(bool)
		return strconv.FormatBool(b)
	case ValueTypeArray:
		parts := make([]string, 0, len(v.Elements()))
		for _, e := range v.Elements() {
			switch ev := e.(type) {
			case string:
				parts = append(parts, "'"+ev+"'")
			case float64:
				parts = append(parts, strconv.FormatFloat(ev, 'f', -1, 64))
			default:
				parts = append(parts, fmt.Sprint(ev))
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprint(v.Value)
	}
}
