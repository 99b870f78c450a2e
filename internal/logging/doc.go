// Package logging builds the slog loggers the daemon and CLI share.
//
// It offers console and JSON handlers, Attr helper constructors so call sites
// stay terse, and component loggers that stamp every record with the emitting
// subsystem. Obtain loggers through this package so output format, level, and
// file routing stay consistent across binaries.
package logging
