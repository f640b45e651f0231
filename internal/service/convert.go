package service

import (
	"fmt"
	"strings"

	"github.com/yet-an-other/isplitapp-sub000/internal/calculator"
	"github.com/yet-an-other/isplitapp-sub000/internal/models"
	"github.com/yet-an-other/isplitapp-sub000/internal/money"
	"github.com/yet-an-other/isplitapp-sub000/pkg/api"
)

func (o options) amount(m money.Money) api.Amount {
	return api.Amount{Minor: int64(m), Display: m.Format(o.decimals)}
}

func (o options) parseAmount(field, s string) (money.Money, error) {
	m, err := money.Parse(strings.TrimSpace(s), o.decimals)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return m, nil
}

// parseBorrowers converts request borrowers into models. The explicit amount
// is only parsed for amount splits.
func (o options) parseBorrowers(mode calculator.SplitMode, in []api.BorrowerInput) ([]models.Borrower, error) {
	borrowers := make([]models.Borrower, len(in))
	for i, b := range in {
		borrowers[i] = models.Borrower{
			ParticipantID: b.ParticipantID,
			Share:         b.Share,
			Percent:       b.Percent,
		}
		if mode == calculator.SplitByAmount {
			amount, err := o.parseAmount(fmt.Sprintf("borrowers[%d].amount", i), b.Amount)
			if err != nil {
				return nil, err
			}
			borrowers[i].ExplicitAmount = amount
		}
	}
	return borrowers, nil
}

func toAPIParty(party *models.Party) *api.Party {
	participants := make([]api.Participant, len(party.Participants))
	for i, p := range party.Participants {
		participants[i] = api.Participant{ID: p.ID, Name: p.Name}
	}
	return &api.Party{
		ID:           party.ID,
		Name:         party.Name,
		Currency:     party.Currency,
		Participants: participants,
		CreatedAt:    party.CreatedAt,
	}
}

func (o options) toAPIExpense(expense *models.Expense) *api.Expense {
	borrowers := make([]api.Borrower, len(expense.Borrowers))
	for i, b := range expense.Borrowers {
		borrowers[i] = api.Borrower{
			ParticipantID: b.ParticipantID,
			Owed:          o.amount(b.Amount),
		}
		switch expense.SplitMode {
		case calculator.SplitByShare:
			borrowers[i].Share = b.Share
		case calculator.SplitByPercentage:
			borrowers[i].Percent = b.Percent
		case calculator.SplitByAmount:
			explicit := o.amount(b.ExplicitAmount)
			borrowers[i].ExplicitAmount = &explicit
		}
	}
	return &api.Expense{
		ID:        expense.ID,
		PartyID:   expense.PartyID,
		Title:     expense.Title,
		Amount:    o.amount(expense.Amount),
		LenderID:  expense.LenderID,
		SplitMode: expense.SplitMode.String(),
		Borrowers: borrowers,
		Date:      expense.Date,
		CreatedAt: expense.CreatedAt,
		UpdatedAt: expense.UpdatedAt,
	}
}

func (o options) toAPISettlement(settlement *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:        settlement.ID,
		PartyID:   settlement.PartyID,
		FromID:    settlement.FromID,
		ToID:      settlement.ToID,
		Amount:    o.amount(settlement.Amount),
		Note:      settlement.Note,
		CreatedAt: settlement.CreatedAt,
	}
}
