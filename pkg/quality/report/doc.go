// Package report defines the outcome model of a quality evaluation run:
// one RuleResult per rule and an aggregated QualityReport per dataset.
//
// A QualityReport is assembled once all rules have been evaluated and is
// immutable afterwards. Derived views (error/warn filtering, pass/fail
// counts, the overall status) are computed, never stored. The report
// renders to a deterministic human-readable text form, logs itself through
// slog, and serializes to two shapes: the full audit form (ToMap) and the
// compact form embedded into run metadata (ToMetadataMap).
//
// Rules degraded by the fail-open policy are not hidden: a rule disabled
// at compile time carries StatusDisabled, and a rule that hit per-record
// evaluation errors carries StatusDegraded, so "actually passed" and
// "silently disabled" stay distinguishable.
package report
