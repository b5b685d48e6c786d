// Package bookkeeper is a double-entry accounting ledger on top of MongoDB.
//
// A Book is a named ledger namespace. Callers open an Entry on a book, add
// balanced credit and debit legs against hierarchical colon-delimited
// accounts (for example "Assets:Receivable"), and commit the entry as one
// journal. Balances are answered from an incremental snapshot cache so that
// repeated queries do not rescan the full transaction history, and committed
// journals can be voided by posting an equal-and-opposite journal.
//
// Storage is abstracted behind the Store interface; the mongostore package
// provides the MongoDB implementation. When the caller runs inside a mongo
// session (see mongostore.WithTransaction) all writes of a commit or void are
// atomic; outside a session the commit protocol falls back to best-effort
// compensation, documented on Entry.Commit.
package bookkeeper
