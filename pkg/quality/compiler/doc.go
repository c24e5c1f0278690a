// Package compiler translates quality rule expressions into safe, total
// predicates over records.
//
// The expression language is a deliberately limited SQL-ish grammar: null
// checks, literal equality and inequality, numeric comparisons, IN / NOT IN
// membership, LIKE prefix/suffix/substring matching, LEN() length
// comparisons, and logical combination with AND / OR / NOT and parentheses.
// It is not a SQL implementation: no joins, no aggregation functions, no
// schema inference.
//
// Compilation happens in two stages. First the expression is decomposed
// along top-level logical operators (quote- and parenthesis-aware), then
// each leaf is matched against an ordered table of recognized shapes,
// first match wins. The result is an ast.Node tree evaluated by a
// tree-walking Predicate whose only input is the single record argument;
// there is no access to ambient state and no dynamic code execution.
//
// Missing-field semantics are fixed by the grammar: numeric ordering
// comparisons and LEN() treat an absent field as zero, all other shapes
// treat it as null.
//
//	pred, err := compiler.Compile("id IS NOT NULL AND amount >= 0")
//	if err != nil {
//	    // caller degrades the rule to always-pass
//	}
//	ok, err := pred.Eval(compiler.Record{"id": 1, "amount": 5})
package compiler
