// Package history persists a ledger of import operations in SQLite.
//
// The ledger is an audit trail, not operational state: the pipeline works
// identically with history disabled, and recording failures degrade to log
// warnings. One operation row per import, one job row per extraction.
package history
