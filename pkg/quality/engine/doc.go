// Package engine turns declarative rule definitions into compiled rules
// and evaluates them over record batches.
//
// The engine is deliberately forgiving at load time: malformed
// definitions are skipped with a warning and expressions that fail to
// compile become disabled always-pass rules, so one broken rule degrades
// only itself. The degradation is never silent; disabled and degraded
// rules carry their status into the report.
//
// Evaluation is fail-open at the record level too: a record whose
// evaluation errors counts as passed, with the error tallied on the
// result. Batch evaluation preserves input order, including on the
// sharded parallel path.
package engine
