package calculator

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/yet-an-other/isplitapp-sub000/internal/money"
)

// ErrUnbalanced is returned when the balances handed to Plan do not net to zero.
var ErrUnbalanced = errors.New("balances do not sum to zero")

// BalanceEntry is a participant's net position in a party.
// Positive = is owed money, negative = owes money.
type BalanceEntry struct {
	ParticipantID string
	Amount        money.Money
}

// ReimburseEntry is one suggested transfer from a debtor to a creditor.
type ReimburseEntry struct {
	FromID string
	ToID   string
	Amount money.Money
}

// Plan returns the transfers that bring every balance to zero.
//
// Algorithm: greedy largest-pair matching. On each step the largest creditor
// is paired with the largest debtor; whichever side is smaller is settled in
// full and leaves the working set, the other keeps the difference. Each step
// removes at least one participant, so n non-zero balances need at most n-1
// transfers. The result is not guaranteed to be the global minimum.
func Plan(balances []BalanceEntry) ([]ReimburseEntry, error) {
	var sum money.Money
	work := make([]BalanceEntry, 0, len(balances))
	for _, b := range balances {
		sum += b.Amount
		if b.Amount != 0 {
			work = append(work, b)
		}
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: off by %d", ErrUnbalanced, sum)
	}

	byAmountDesc := func(a, b BalanceEntry) int {
		return cmp.Compare(b.Amount, a.Amount)
	}

	var transfers []ReimburseEntry
	for len(work) > 0 {
		slices.SortStableFunc(work, byAmountDesc)
		first, last := &work[0], &work[len(work)-1]

		remainder := first.Amount + last.Amount
		if remainder > 0 {
			// The debtor cannot cover the creditor: pay all of the debt.
			transfers = appendTransfer(transfers, last.ParticipantID, first.ParticipantID, -last.Amount)
			first.Amount = remainder
			work = work[:len(work)-1]
		} else {
			// The debtor covers the creditor fully, possibly with debt to spare.
			transfers = appendTransfer(transfers, last.ParticipantID, first.ParticipantID, first.Amount)
			last.Amount = remainder
			work = work[1:]
		}
		work = slices.DeleteFunc(work, func(b BalanceEntry) bool { return b.Amount == 0 })
	}
	return transfers, nil
}

func appendTransfer(transfers []ReimburseEntry, from, to string, amount money.Money) []ReimburseEntry {
	if amount == 0 {
		return transfers
	}
	return append(transfers, ReimburseEntry{FromID: from, ToID: to, Amount: amount})
}
