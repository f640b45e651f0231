package calculator

import (
	"errors"
	"fmt"

	"github.com/yet-an-other/isplitapp-sub000/internal/money"
)

var (
	ErrUnknownSplitMode = errors.New("unknown split mode")
	ErrNoBorrowers      = errors.New("expense must have at least one borrower")
	ErrNonPositiveTotal = errors.New("expense total must be positive")
	ErrPercentSum       = errors.New("borrower percentages must sum to 100")
	ErrAmountSum        = errors.New("borrower amounts must sum to the expense total")
	ErrInvalidShares    = errors.New("borrower shares must be non-negative with a positive sum")
)

// SplitMode is the policy used to divide an expense among its borrowers.
type SplitMode int

const (
	SplitEvenly SplitMode = iota
	SplitByShare
	SplitByPercentage
	SplitByAmount
)

var splitModeNames = map[SplitMode]string{
	SplitEvenly:       "evenly",
	SplitByShare:      "share",
	SplitByPercentage: "percentage",
	SplitByAmount:     "amount",
}

func (m SplitMode) String() string {
	if name, ok := splitModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SplitMode(%d)", int(m))
}

// ParseSplitMode maps a mode name back to its SplitMode.
func ParseSplitMode(name string) (SplitMode, error) {
	for mode, n := range splitModeNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSplitMode, name)
}

// RoundingPolicy controls what happens to minor units lost when
// percentages are truncated.
type RoundingPolicy int

const (
	// RoundingRedistribute hands leftover units to the largest remainders.
	RoundingRedistribute RoundingPolicy = iota
	// RoundingTruncate drops leftover units, leaving the allocations up to
	// n-1 units short of the total.
	RoundingTruncate
)

// BorrowerInput is one borrower of an expense with the parameters of every
// split mode. Only the field of the active mode is read.
type BorrowerInput struct {
	ParticipantID  string
	Share          int64
	Percent        int64
	ExplicitAmount money.Money
}

// BorrowerAllocation is the amount one borrower owes for an expense.
type BorrowerAllocation struct {
	ParticipantID string
	Amount        money.Money
}

// Allocator splits expense totals among borrowers.
// The zero value redistributes percentage rounding leftovers.
type Allocator struct {
	PercentRounding RoundingPolicy
}

// Allocate splits total using the zero-value Allocator.
func Allocate(total money.Money, mode SplitMode, borrowers []BorrowerInput) ([]BorrowerAllocation, error) {
	return Allocator{}.Allocate(total, mode, borrowers)
}

// Allocate returns one allocation per borrower, in input order. Except under
// RoundingTruncate for percentage splits, the allocated amounts always sum to
// total.
func (a Allocator) Allocate(total money.Money, mode SplitMode, borrowers []BorrowerInput) ([]BorrowerAllocation, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNonPositiveTotal, total)
	}
	if len(borrowers) == 0 {
		return nil, ErrNoBorrowers
	}

	var (
		amounts []money.Money
		err     error
	)
	switch mode {
	case SplitEvenly:
		amounts = money.SplitEven(total, len(borrowers))
	case SplitByShare:
		amounts, err = splitByShare(total, borrowers)
	case SplitByPercentage:
		amounts, err = a.splitByPercentage(total, borrowers)
	case SplitByAmount:
		amounts, err = splitByAmount(total, borrowers)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSplitMode, mode)
	}
	if err != nil {
		return nil, err
	}

	allocations := make([]BorrowerAllocation, len(borrowers))
	for i, b := range borrowers {
		allocations[i] = BorrowerAllocation{ParticipantID: b.ParticipantID, Amount: amounts[i]}
	}
	return allocations, nil
}

func splitByShare(total money.Money, borrowers []BorrowerInput) ([]money.Money, error) {
	shares := make([]int64, len(borrowers))
	for i, b := range borrowers {
		shares[i] = b.Share
	}
	amounts, err := money.Apportion(total, shares)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShares, err)
	}
	return amounts, nil
}

func (a Allocator) splitByPercentage(total money.Money, borrowers []BorrowerInput) ([]money.Money, error) {
	percents := make([]int64, len(borrowers))
	var sum int64
	for i, b := range borrowers {
		if b.Percent < 0 {
			return nil, fmt.Errorf("%w: negative percent %d", ErrPercentSum, b.Percent)
		}
		percents[i] = b.Percent
		sum += b.Percent
	}
	if sum != 100 {
		return nil, fmt.Errorf("%w: got %d", ErrPercentSum, sum)
	}

	if a.PercentRounding == RoundingTruncate {
		amounts, _, err := money.Quotas(total, percents)
		return amounts, err
	}
	return money.Apportion(total, percents)
}

func splitByAmount(total money.Money, borrowers []BorrowerInput) ([]money.Money, error) {
	amounts := make([]money.Money, len(borrowers))
	for i, b := range borrowers {
		if b.ExplicitAmount < 0 {
			return nil, fmt.Errorf("%w: negative amount %d", ErrAmountSum, b.ExplicitAmount)
		}
		amounts[i] = b.ExplicitAmount
	}
	if sum := money.Sum(amounts); sum != total {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrAmountSum, sum, total)
	}
	return amounts, nil
}
