// Package store defines the persistence primitives shared by the SQL stores:
// the DBTX abstraction over connections and transactions, the unit-of-work
// helper RunInTransaction, and the sentinel errors stores report.
package store
