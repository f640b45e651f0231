// Package models defines the core domain models of the expense tracker.
//
// # Models
//
//   - Party: a group of participants sharing expenses
//   - Participant: a member of one party
//   - Expense: an amount lent by one participant and split among borrowers
//   - Borrower: one borrower of an expense with its split parameters and allocation
//   - Settlement: a recorded transfer between two participants of a party
//
// # Design Principles
//
// 1. **Integer money**: every amount is a count of minor currency units (money.Money)
// 2. **Avoid circular references**: relationships are ID strings, not pointers
// 3. **Computed state is not stored**: balances and reimbursement plans are derived on demand
package models
