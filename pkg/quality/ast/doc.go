// Package ast defines the expression tree produced by the quality rule
// compiler. Rule expressions are parsed into a closed set of tagged node
// kinds and evaluated by tree-walking; there is no dynamic code execution
// anywhere in the engine.
//
// The node set is deliberately small. A leaf node compares one record
// field against a literal value (equality, ordering, membership, string
// matching, null checks, or length comparison). Logical nodes combine
// children with and/or/not. Every supported predicate shape is therefore
// enumerable and testable in isolation.
package ast
