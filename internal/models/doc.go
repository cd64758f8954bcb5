// Package models defines the core domain models for Tally.
//
// # Models
//
//   - User: a registered account; every payer, participant and settlement
//     party is a user ID
//   - Event: the scope that partitions all balance queries (a trip, a
//     household, a recurring group)
//   - Split: a bill paid by one member and owed, in shares, by a set of
//     participants
//   - Settlement: a direct payment between two members outside of any bill
//
// Splits and settlements are soft-deleted: removal stamps DeletedAt so the
// record drops out of every balance computation, but the row survives until
// maintenance tooling purges it.
//
// # Design principles
//
//  1. Amounts are decimal.Decimal end to end; floats never touch money
//  2. Relationships use ID strings, not pointers, to avoid circular references
//  3. Derived values (ledgers, balances, settlement plans) are never
//     persisted; they are rebuilt from these records on every query
package models
