// Package history persists a ledger of finished conversions in SQLite.
//
// The ledger is append-only from the bot's point of view: every conversion
// attempt is recorded with its outcome so operators can audit activity with
// the CLI. Session state is deliberately not stored here; a restart clears
// pending selections but keeps the ledger.
package history
