// Package logging builds the slog loggers used by the CLI and the
// kernel runner. Library packages under pkg/ never log; everything
// observable there is returned as a value or an error.
package logging
