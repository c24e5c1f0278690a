package compiler

import (
	"fmt"
	"reflect"
	"strings"

	"meridian-data/ceres/pkg/quality/ast"
)

// Record is a single data record: a mapping from field name to value.
type Record = map[string]any

// Predicate is the compiled, executable form of a rule expression.
// Evaluation walks the AST with the record as its only input; it never
// panics outward and has no access to ambient state.
type Predicate struct {
	root       *ast.Node
	expression string
}

// Compile parses an expression and wraps it in a Predicate.
func Compile(expression string) (*Predicate, error) {
	root, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	return &Predicate{root: root, expression: expression}, nil
}

// NewPredicate wraps an already-built AST.
func NewPredicate(root *ast.Node, expression string) *Predicate {
	return &Predicate{root: root, expression: expression}
}

// Root returns the underlying AST.
func (p *Predicate) Root() *ast.Node {
	return p.root
}

// Expression returns the source text the predicate was compiled from.
func (p *Predicate) Expression() string {
	return p.expression
}

// Eval evaluates the predicate against one record. A returned error means
// a value could not be coerced for an operator; callers treat that record
// as passed (fail-open at the record level).
func (p *Predicate) Eval(record Record) (bool, error) {
	return evalNode(p.root, record)
}

// evalNode walks one node of the tree.
func evalNode(node *ast.Node, record Record) (bool, error) {
	switch node.Kind {
	case ast.NodeKindAnd:
		for _, child := range node.Children {
			ok, err := evalNode(child, record)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case ast.NodeKindOr:
		for _, child := range node.Children {
			ok, err := evalNode(child, record)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case ast.NodeKindNot:
		if len(node.Children) != 1 {
			return false, fmt.Errorf("not node must have exactly one child, got %d", len(node.Children))
		}
		ok, err := evalNode(node.Children[0], record)
		if err != nil {
			return false, err
		}
		return !ok, nil

	case ast.NodeKindCompare:
		return evalCompare(node, record)

	case ast.NodeKindLenCompare:
		return evalLenCompare(node, record)

	default:
		return false, fmt.Errorf("unknown node kind: %q", node.Kind)
	}
}

// evalCompare evaluates a leaf comparison of a record field against a
// literal. Missing fields are null for most operators; numeric ordering
// operators default a missing field to zero.
func evalCompare(node *ast.Node, record Record) (bool, error) {
	actual, present := record[node.Field]
	isNull := !present || actual == nil

	switch node.Operator {
	case ast.OperatorIsNull:
		return isNull, nil

	case ast.OperatorIsNotNull:
		return !isNull, nil

	case ast.OperatorEqual:
		return evalEqual(node, actual, isNull)

	case ast.OperatorNotEqual:
		eq, err := evalEqual(node, actual, isNull)
		return !eq, err

	case ast.OperatorLessThan, ast.OperatorGreaterThan, ast.OperatorLessEqual, ast.OperatorGreaterEqual:
		return evalOrdering(node, actual, isNull)

	case ast.OperatorContains:
		return evalStringMatch(node, actual, isNull, strings.Contains)

	case ast.OperatorStartsWith:
		return evalStringMatch(node, actual, isNull, strings.HasPrefix)

	case ast.OperatorEndsWith:
		return evalStringMatch(node, actual, isNull, strings.HasSuffix)

	case ast.OperatorIn:
		return evalIn(node, actual, isNull)

	case ast.OperatorNotIn:
		in, err := evalIn(node, actual, isNull)
		return !in, err

	default:
		return false, fmt.Errorf("unknown operator: %q", node.Operator)
	}
}

// evalEqual checks literal equality. Equality against a numeric literal
// treats a missing field as zero, matching the ordering operators.
func evalEqual(node *ast.Node, actual any, isNull bool) (bool, error) {
	expected := node.Value
	if expected.IsNull() {
		return isNull, nil
	}

	if isNull {
		if expected.Type == ast.ValueTypeNumber {
			actual = float64(0)
		} else {
			return false, nil
		}
	}

	return looseEqual(actual, expected.Value), nil
}

// evalOrdering performs a numeric comparison, defaulting a missing field
// to zero.
func evalOrdering(node *ast.Node, actual any, isNull bool) (bool, error) {
	if isNull {
		actual = float64(0)
	}

	actualNum, err := toFloat64(actual)
	if err != nil {
		return false, &TypeError{Field: node.Field, Operator: node.Operator, Value: actual}
	}
	expectedNum, err := toFloat64(node.Value.Value)
	if err != nil {
		return false, &TypeError{Field: node.Field, Operator: node.Operator, Value: node.Value.Value}
	}

	switch node.Operator {
	case ast.OperatorLessThan:
		return actualNum < expectedNum, nil
	case ast.OperatorGreaterThan:
		return actualNum > expectedNum, nil
	case ast.OperatorLessEqual:
		return actualNum <= expectedNum, nil
	case ast.OperatorGreaterEqual:
		return actualNum >= expectedNum, nil
	default:
		return false, fmt.Errorf("not an ordering operator: %q", node.Operator)
	}
}

// evalStringMatch applies a substring/prefix/suffix match. A missing or
// null field never matches.
func evalStringMatch(node *ast.Node, actual any, isNull bool, match func(s, needle string) bool) (bool, error) {
	if isNull {
		return false, nil
	}

	actualStr, ok := toString(actual)
	if !ok {
		return false, &TypeError{Field: node.Field, Operator: node.Operator, Value: actual}
	}
	needle, _ := node.Value.Value.(string)
	return match(actualStr, needle), nil
}

// evalIn checks membership in the literal list. A missing or null field
// is a member of nothing.
func evalIn(node *ast.Node, actual any, isNull bool) (bool, error) {
	if isNull {
		return false, nil
	}
	for _, elem := range node.Value.Elements() {
		if looseEqual(actual, elem) {
			return true, nil
		}
	}
	return false, nil
}

// evalLenCompare compares the length of a field value. Missing and null
// fields have length zero. Strings measure runes; slices and maps measure
// elements.
func evalLenCompare(node *ast.Node, record Record) (bool, error) {
	actual, present := record[node.Field]

	length := 0
	if present && actual != nil {
		switch v := actual.(type) {
		case string:
			length = len([]rune(v))
		default:
			rv := reflect.ValueOf(actual)
			switch rv.Kind() {
			case reflect.Slice, reflect.Array, reflect.Map:
				length = rv.Len()
			default:
				return false, &TypeError{Field: node.Field, Operator: node.Operator, Value: actual}
			}
		}
	}

	expectedNum, err := toFloat64(node.Value.Value)
	if err != nil {
		return false, &TypeError{Field: node.Field, Operator: node.Operator, Value: node.Value.Value}
	}

	actualNum := float64(length)
	switch node.Operator {
	case ast.OperatorEqual:
		return actualNum == expectedNum, nil
	case ast.OperatorNotEqual:
		return actualNum != expectedNum, nil
	case ast.OperatorLessThan:
		return actualNum < expectedNum, nil
	case ast.OperatorGreaterThan:
		return actualNum > expectedNum, nil
	case ast.OperatorLessEqual:
		return actualNum <= expectedNum, nil
	case ast.OperatorGreaterEqual:
		return actualNum >= expectedNum, nil
	default:
		return false, fmt.Errorf("unsupported length operator: %q", node.Operator)
	}
}

// looseEqual checks equality with numeric coercion first (so int 5 equals
// float64 5) and deep equality as the fallback.
func looseEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	actualNum, actualErr := toFloat64(actual)
	expectedNum, expectedErr := toFloat64(expected)
	if actualErr == nil && expectedErr == nil {
		return actualNum == expectedNum
	}

	return reflect.DeepEqual(actual, expected)
}

// toFloat64 converts a value to float64 for numeric comparison.
func toFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}

// toString converts a value to a string for string matching. Only values
// with a natural textual form convert; numbers and booleans do not
// silently stringify.
func toString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}
