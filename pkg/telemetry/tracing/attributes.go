package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys use the "ceres.*" namespace.
const (
	AttrReportID     = "ceres.report_id"
	AttrRulePath     = "ceres.rule_path"
	AttrDataPath     = "ceres.data_path"
	AttrRecordCount  = "ceres.records"
	AttrRuleCount    = "ceres.rules"
	AttrPassedCount  = "ceres.rules_passed"
	AttrFailedCount  = "ceres.rules_failed"
	AttrErrorCount   = "ceres.rules_error"
	AttrReportStatus = "ceres.report_status"
)

// SetEvaluationAttributes records the dataset shape on an evaluation span.
func SetEvaluationAttributes(span trace.Span, rulePath, dataPath string, records int) {
	span.SetAttributes(
		attribute.String(AttrRulePath, rulePath),
		attribute.String(AttrDataPath, dataPath),
		attribute.Int(AttrRecordCount, records),
	)
}

// SetReportAttributes records the aggregate verdict on an evaluation span.
func SetReportAttributes(span trace.Span, reportID, status string, ruleCount, passed, failed, errored int) {
	span.SetAttributes(
		attribute.String(AttrReportID, reportID),
		attribute.String(AttrReportStatus, status),
		attribute.Int(AttrRuleCount, ruleCount),
		attribute.Int(AttrPassedCount, passed),
		attribute.Int(AttrFailedCount, failed),
		attribute.Int(AttrErrorCount, errored),
	)
}

// SetSpanError marks the span as failed and records the error.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
