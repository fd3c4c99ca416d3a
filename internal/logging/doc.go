// Package logging builds the slog loggers used by mediasort: a readable
// console format (colored on a terminal) or JSON, optionally mirrored to a
// plain log file.
package logging
