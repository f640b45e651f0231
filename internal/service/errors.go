package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/yet-an-other/isplitapp-sub000/internal/calculator"
	"github.com/yet-an-other/isplitapp-sub000/internal/money"
	"github.com/yet-an-other/isplitapp-sub000/internal/storage"
)

// ErrInvalidArgument is wrapped by every request validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// invalidArgumentErrors are errors caused by bad client input.
var invalidArgumentErrors = []error{
	ErrInvalidArgument,
	money.ErrInvalidAmount,
	money.ErrTooPrecise,
	money.ErrInvalidWeights,
	calculator.ErrUnknownSplitMode,
	calculator.ErrNoBorrowers,
	calculator.ErrNonPositiveTotal,
	calculator.ErrPercentSum,
	calculator.ErrAmountSum,
	calculator.ErrInvalidShares,
}

// connectError translates a service error into the Connect error code the
// client sees.
func connectError(err error) *connect.Error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	for _, target := range invalidArgumentErrors {
		if errors.Is(err, target) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}
