package models

import (
	"github.com/yet-an-other/isplitapp-sub000/internal/calculator"
	"github.com/yet-an-other/isplitapp-sub000/internal/money"
)

// Expense is an amount paid by one participant on behalf of borrowers.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// PartyID is the party this expense belongs to.
	PartyID string

	// Title is the human-readable description (e.g., "Dinner", "Groceries").
	Title string

	// Amount is the expense total in minor units.
	Amount money.Money

	// LenderID is the participant who paid.
	LenderID string

	// SplitMode is how Amount is divided among Borrowers.
	SplitMode calculator.SplitMode

	// Borrowers are the participants sharing the expense, in input order.
	Borrowers []Borrower

	// Date is the Unix timestamp when the expense happened.
	Date int64

	// CreatedAt and UpdatedAt are Unix timestamps maintained by the store.
	CreatedAt int64
	UpdatedAt int64
}

// Borrower is one participant's part of an expense.
type Borrower struct {
	ParticipantID string

	// Share, Percent and ExplicitAmount are the split parameters; only the
	// one matching the expense's SplitMode is meaningful.
	Share          int64
	Percent        int64
	ExplicitAmount money.Money

	// Amount is the allocated amount this borrower owes.
	Amount money.Money
}

// BorrowerInputs converts the borrowers into allocator input.
func (e *Expense) BorrowerInputs() []calculator.BorrowerInput {
	inputs := make([]calculator.BorrowerInput, len(e.Borrowers))
	for i, b := range e.Borrowers {
		inputs[i] = calculator.BorrowerInput{
			ParticipantID:  b.ParticipantID,
			Share:          b.Share,
			Percent:        b.Percent,
			ExplicitAmount: b.ExplicitAmount,
		}
	}
	return inputs
}

// Allocations returns the stored borrower allocations.
func (e *Expense) Allocations() []calculator.BorrowerAllocation {
	allocations := make([]calculator.BorrowerAllocation, len(e.Borrowers))
	for i, b := range e.Borrowers {
		allocations[i] = calculator.BorrowerAllocation{ParticipantID: b.ParticipantID, Amount: b.Amount}
	}
	return allocations
}

// ApplyAllocations stores allocator output on the borrowers. Allocations
// are matched by position.
func (e *Expense) ApplyAllocations(allocations []calculator.BorrowerAllocation) {
	for i := range e.Borrowers {
		e.Borrowers[i].Amount = allocations[i].Amount
	}
}
