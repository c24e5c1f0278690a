// Package history archives finished quality reports so runs can be
// compared over time.
//
// ReportStore is the persistence boundary; the SQLite backend is the
// durable one and the memory backend serves tests and ephemeral runs.
// The Pruner and Scheduler keep the archive bounded by age and by count
// on a cron schedule.
package history
