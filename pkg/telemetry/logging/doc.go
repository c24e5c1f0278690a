// Package logging builds the process-wide slog logger from
// configuration: level, format and source annotation.
package logging
