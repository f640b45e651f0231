package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yet-an-other/isplitapp-sub000/internal/calculator"
	"github.com/yet-an-other/isplitapp-sub000/internal/models"
	"github.com/yet-an-other/isplitapp-sub000/internal/money"
)

// validateExpense checks an expense against its party before allocation.
// Every problem found is reported, joined into one error.
func validateExpense(party *models.Party, expense *models.Expense) error {
	var errs []error
	if strings.TrimSpace(expense.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if expense.LenderID == "" {
		errs = append(errs, errors.New("lender_id is required"))
	} else if !party.HasParticipant(expense.LenderID) {
		errs = append(errs, fmt.Errorf("lender %s is not a participant of party %s", expense.LenderID, party.ID))
	}
	for _, b := range expense.Borrowers {
		if b.ParticipantID != "" && !party.HasParticipant(b.ParticipantID) {
			errs = append(errs, fmt.Errorf("borrower %s is not a participant of party %s", b.ParticipantID, party.ID))
		}
	}
	errs = append(errs, splitErrors(expense.Amount, expense.SplitMode, expense.Borrowers)...)
	return joinInvalid(errs)
}

// validateSplit checks the parts of an expense that do not depend on a party.
func validateSplit(amount money.Money, mode calculator.SplitMode, borrowers []models.Borrower) error {
	return joinInvalid(splitErrors(amount, mode, borrowers))
}

func splitErrors(amount money.Money, mode calculator.SplitMode, borrowers []models.Borrower) []error {
	var errs []error
	if amount <= 0 {
		errs = append(errs, fmt.Errorf("amount must be positive, got %d", amount))
	}
	if len(borrowers) == 0 {
		errs = append(errs, errors.New("at least one borrower is required"))
	}

	seen := make(map[string]bool, len(borrowers))
	for i, b := range borrowers {
		switch {
		case b.ParticipantID == "":
			errs = append(errs, fmt.Errorf("borrower %d: participant_id is required", i))
		case seen[b.ParticipantID]:
			errs = append(errs, fmt.Errorf("borrower %s is listed more than once", b.ParticipantID))
		}
		seen[b.ParticipantID] = true
	}

	switch mode {
	case calculator.SplitEvenly:
	case calculator.SplitByShare:
		var sum int64
		for _, b := range borrowers {
			if b.Share < 0 {
				errs = append(errs, fmt.Errorf("borrower %s: share must not be negative", b.ParticipantID))
			}
			sum += b.Share
		}
		if sum <= 0 && len(borrowers) > 0 {
			errs = append(errs, errors.New("shares must have a positive sum"))
		}
	case calculator.SplitByPercentage:
		var sum int64
		for _, b := range borrowers {
			if b.Percent < 0 || b.Percent > 100 {
				errs = append(errs, fmt.Errorf("borrower %s: percent must be between 0 and 100", b.ParticipantID))
			}
			sum += b.Percent
		}
		if sum != 100 && len(borrowers) > 0 {
			errs = append(errs, fmt.Errorf("percentages must sum to 100, got %d", sum))
		}
	case calculator.SplitByAmount:
		var sum money.Money
		for _, b := range borrowers {
			if b.ExplicitAmount < 0 {
				errs = append(errs, fmt.Errorf("borrower %s: amount must not be negative", b.ParticipantID))
			}
			sum += b.ExplicitAmount
		}
		if sum != amount && len(borrowers) > 0 {
			errs = append(errs, fmt.Errorf("borrower amounts must sum to %d, got %d", amount, sum))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown split mode %s", mode))
	}
	return errs
}

func joinInvalid(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidArgument, errors.Join(errs...))
}

// validateParticipantNames checks names of new participants against each
// other and against names already in the party.
func validateParticipantNames(existing []models.Participant, names []string) error {
	var errs []error
	seen := make(map[string]bool, len(existing)+len(names))
	for _, p := range existing {
		seen[p.Name] = true
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		switch {
		case name == "":
			errs = append(errs, errors.New("participant name is required"))
		case seen[name]:
			errs = append(errs, fmt.Errorf("participant %q already exists", name))
		}
		seen[name] = true
	}
	return joinInvalid(errs)
}
