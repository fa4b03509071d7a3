// Package models defines the core domain models for Hearth.
//
// # Entities
//
//   - Household: a shared living space; owns everything else
//   - Member: one person in a household roster
//   - Chore: a recurring task with a rotating assignee
//   - ShoppingItem: a recurring purchase with rotating responsibility
//   - Expense: a shared cost split among household members
//
// # Audit events
//
//   - ChoreCompletion: who completed a chore and who is up next
//   - ShoppingLog: purchase and low-stock-flag events
//   - PaymentLog: claimed/confirmed payment events; the sole source of
//     truth for payment state (there is no stored state column)
//
// # Design principles
//
//  1. Audit events are append-only; they are never mutated and only ever
//     deleted by cascading with their parent entity.
//  2. Settlement state is derived from PaymentLog at read time, never stored.
//  3. Expense and log rows keep denormalized display names where the
//     historical behavior depends on string equality (see Expense.PaidBy).
//  4. Avoid circular references: use ID strings instead of pointers for
//     relationships.
package models
