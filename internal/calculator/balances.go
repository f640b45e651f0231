package calculator

import "github.com/yet-an-other/isplitapp-sub000/internal/money"

// ExpenseForBalance represents an expense with the minimal information needed
// for balance calculations: who lent and the stored borrower allocations.
type ExpenseForBalance struct {
	LenderID    string
	Allocations []BorrowerAllocation
}

// SettlementForBalance represents a recorded transfer between participants.
type SettlementForBalance struct {
	FromID string // Who paid (debtor settling up)
	ToID   string // Who received (creditor being paid)
	Amount money.Money
}

// MemberBalance represents the balance information for one participant.
type MemberBalance struct {
	ParticipantID string
	Lent          money.Money // Total lent to others, including settlements paid
	Borrowed      money.Money // Total borrowed, including settlements received
	Net           money.Money // Positive = owed money, Negative = owes money
}

// CalculatePartyBalances aggregates expenses and settlements into one balance
// per participant.
//
// The result lists participantIDs first, in the given order, followed by any
// other participant seen in the data in first-seen order. An expense counts as
// lent for the sum of its allocations rather than its nominal total, so the
// net balances of a party always sum to zero.
func CalculatePartyBalances(participantIDs []string, expenses []ExpenseForBalance, settlements []SettlementForBalance) []MemberBalance {
	index := make(map[string]int, len(participantIDs))
	var balances []MemberBalance
	get := func(id string) *MemberBalance {
		i, ok := index[id]
		if !ok {
			i = len(balances)
			index[id] = i
			balances = append(balances, MemberBalance{ParticipantID: id})
		}
		return &balances[i]
	}
	for _, id := range participantIDs {
		get(id)
	}

	for _, e := range expenses {
		var lent money.Money
		for _, a := range e.Allocations {
			get(a.ParticipantID).Borrowed += a.Amount
			lent += a.Amount
		}
		get(e.LenderID).Lent += lent
	}

	// A settlement is money lent by the payer to the receiver.
	for _, s := range settlements {
		get(s.FromID).Lent += s.Amount
		get(s.ToID).Borrowed += s.Amount
	}

	for i := range balances {
		balances[i].Net = balances[i].Lent - balances[i].Borrowed
	}
	return balances
}

// BalanceEntries projects member balances onto the planner's input.
func BalanceEntries(balances []MemberBalance) []BalanceEntry {
	entries := make([]BalanceEntry, len(balances))
	for i, b := range balances {
		entries[i] = BalanceEntry{ParticipantID: b.ParticipantID, Amount: b.Net}
	}
	return entries
}
