// Package session tracks each user's pending conversion request.
//
// A user moves through a two-step interaction: submit a file, then choose a
// target format. The Manager keeps at most one pending request per user in an
// in-memory table; submitting a new file replaces the previous request rather
// than queuing behind it, and choosing a format clears the slot before the
// conversion attempt begins, so a fresh file can arrive while the previous
// conversion is still running. Nothing survives a process restart.
package session
