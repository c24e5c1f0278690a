// Ceres is a data-quality rule engine for record batches.
//
// It compiles declarative rule expressions into safe predicates,
// evaluates them over datasets, and aggregates the outcomes into quality
// reports that can be printed, logged, archived and compared over time.
//
// Usage:
//
//	# Evaluate a dataset against a rule file
//	ceres check --rules rules.yaml --data records.json
//
//	# Validate rule files without evaluating anything
//	ceres lint --file rules.yaml
//
//	# Watch rule files and re-evaluate on change
//	ceres watch --data records.json
//
//	# Inspect archived reports
//	ceres history list --failed
//
//	# Show version information
//	ceres version
package main

func main() {
	Execute()
}
