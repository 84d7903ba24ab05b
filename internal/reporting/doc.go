// Package reporting is the budget aggregation engine: it turns already
// fetched categories, budgets, transactions and users into per-month,
// per-user and fleet-wide spending reports.
//
// Everything here is synchronous and pure. Functions never mutate their
// inputs, never block, and return identical output for identical input, so
// callers may cache results freely. Malformed records are dropped rather than
// reported, and no function in this package returns an error.
package reporting
