package models

import "github.com/yet-an-other/isplitapp-sub000/internal/money"

// Settlement represents a payment between party participants to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// PartyID is the party this settlement belongs to.
	PartyID string

	// FromID is the participant who paid (debtor settling up).
	FromID string

	// ToID is the participant who received payment (creditor being paid).
	ToID string

	// Amount is the payment amount in minor units.
	Amount money.Money

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// Note is an optional description for the settlement.
	Note string
}
