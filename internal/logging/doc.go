// Package logging builds the slog loggers used throughout nexus.
//
// Two output formats are supported: a human-oriented console format and
// line-delimited JSON. Components attach a standardized "component"
// attribute via NewComponentLogger; scan runs carry a correlation
// identifier under FieldScanID.
package logging
