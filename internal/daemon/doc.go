// Package daemon ties the bot, worker pool and ledger into a single
// lifecycle with flock-based locking to prevent multiple instances from
// fighting over the same temp workspace.
package daemon
