package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/yet-an-other/isplitapp-sub000/internal/calculator"
	"github.com/yet-an-other/isplitapp-sub000/internal/models"
	"github.com/yet-an-other/isplitapp-sub000/internal/money"
	"github.com/yet-an-other/isplitapp-sub000/internal/storage"
	"github.com/yet-an-other/isplitapp-sub000/pkg/api"
	"github.com/yet-an-other/isplitapp-sub000/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store storage.Store
	options
}

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, opts ...Option) *ExpenseService {
	return &ExpenseService{store: store, options: newOptions(opts)}
}

// allocate splits the expense amount and stores the result on its borrowers.
func (s *ExpenseService) allocate(expense *models.Expense) error {
	allocations, err := s.allocator.Allocate(expense.Amount, expense.SplitMode, expense.BorrowerInputs())
	if err != nil {
		return err
	}
	expense.ApplyAllocations(allocations)
	s.observeAllocation(expense.Amount, expense.SplitMode, allocations)
	return nil
}

func (s *ExpenseService) observeAllocation(total money.Money, mode calculator.SplitMode, allocations []calculator.BorrowerAllocation) {
	var allocated money.Money
	for _, a := range allocations {
		allocated += a.Amount
	}
	s.metrics.ObserveAllocation(mode.String(), int64(total-allocated))
}

// expenseFromRequest builds an unsaved expense from the request fields shared
// by create and update.
func (o options) expenseFromRequest(title, amount, lenderID, mode string, borrowers []api.BorrowerInput, date int64) (*models.Expense, error) {
	total, err := o.parseAmount("amount", amount)
	if err != nil {
		return nil, err
	}
	splitMode, err := calculator.ParseSplitMode(mode)
	if err != nil {
		return nil, err
	}
	parsed, err := o.parseBorrowers(splitMode, borrowers)
	if err != nil {
		return nil, err
	}
	return &models.Expense{
		Title:     strings.TrimSpace(title),
		Amount:    total,
		LenderID:  lenderID,
		SplitMode: splitMode,
		Borrowers: parsed,
		Date:      date,
	}, nil
}

// PreviewSplit computes the allocation of an amount without saving anything.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	slog.Debug("PreviewSplit request received",
		"amount", req.Msg.Amount,
		"split_mode", req.Msg.SplitMode,
		"borrowers_count", len(req.Msg.Borrowers),
	)

	o := s.forCurrency(req.Msg.Currency)
	expense, err := o.expenseFromRequest("preview", req.Msg.Amount, "", req.Msg.SplitMode, req.Msg.Borrowers, 0)
	if err != nil {
		return nil, connectError(err)
	}
	if err := validateSplit(expense.Amount, expense.SplitMode, expense.Borrowers); err != nil {
		return nil, connectError(err)
	}
	if err := s.allocate(expense); err != nil {
		slog.Error("PreviewSplit failed", "error", err)
		return nil, connectError(err)
	}

	allocations := make([]api.Allocation, len(expense.Borrowers))
	for i, b := range expense.Borrowers {
		allocations[i] = api.Allocation{ParticipantID: b.ParticipantID, Amount: o.amount(b.Amount)}
	}
	return connect.NewResponse(&api.PreviewSplitResponse{Allocations: allocations}), nil
}

// CreateExpense validates, allocates and persists a new expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"party_id", req.Msg.PartyID,
		"split_mode", req.Msg.SplitMode,
		"borrowers_count", len(req.Msg.Borrowers),
	)

	party, err := s.store.GetParty(ctx, req.Msg.PartyID)
	if err != nil {
		slog.Error("CreateExpense: failed to get party", "party_id", req.Msg.PartyID, "error", err)
		return nil, connectError(err)
	}

	o := s.forCurrency(party.Currency)
	expense, err := o.expenseFromRequest(req.Msg.Title, req.Msg.Amount, req.Msg.LenderID, req.Msg.SplitMode, req.Msg.Borrowers, req.Msg.Date)
	if err != nil {
		return nil, connectError(err)
	}
	expense.PartyID = party.ID

	if err := validateExpense(party, expense); err != nil {
		return nil, connectError(err)
	}
	if err := s.allocate(expense); err != nil {
		slog.Error("CreateExpense allocation failed", "party_id", party.ID, "error", err)
		return nil, connectError(err)
	}

	// Save to storage (generates ID and timestamps)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "party_id", party.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "party_id", party.ID)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: o.toAPIExpense(expense)}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, connectError(err)
	}
	party, err := s.store.GetParty(ctx, expense.PartyID)
	if err != nil {
		slog.Error("GetExpense: failed to get party", "party_id", expense.PartyID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: s.forCurrency(party.Currency).toAPIExpense(expense)}), nil
}

// UpdateExpense replaces an expense and recomputes its allocation.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	existing, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("UpdateExpense: failed to get existing expense", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, connectError(err)
	}
	party, err := s.store.GetParty(ctx, existing.PartyID)
	if err != nil {
		slog.Error("UpdateExpense: failed to get party", "party_id", existing.PartyID, "error", err)
		return nil, connectError(err)
	}

	date := req.Msg.Date
	if date == 0 {
		date = existing.Date
	}
	o := s.forCurrency(party.Currency)
	expense, err := o.expenseFromRequest(req.Msg.Title, req.Msg.Amount, req.Msg.LenderID, req.Msg.SplitMode, req.Msg.Borrowers, date)
	if err != nil {
		return nil, connectError(err)
	}
	expense.ID = existing.ID
	expense.PartyID = existing.PartyID
	expense.CreatedAt = existing.CreatedAt

	if err := validateExpense(party, expense); err != nil {
		return nil, connectError(err)
	}
	if err := s.allocate(expense); err != nil {
		slog.Error("UpdateExpense allocation failed", "expense_id", expense.ID, "error", err)
		return nil, connectError(err)
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: o.toAPIExpense(expense)}), nil
}

// DeleteExpense deletes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	if req.Msg.ExpenseID == "" {
		return nil, connectError(fmt.Errorf("%w: expense_id required", ErrInvalidArgument))
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses retrieves all expenses of a party, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	party, err := s.store.GetParty(ctx, req.Msg.PartyID)
	if err != nil {
		slog.Error("ListExpenses: failed to get party", "party_id", req.Msg.PartyID, "error", err)
		return nil, connectError(err)
	}
	o := s.forCurrency(party.Currency)

	expenses, err := s.store.ListExpensesByParty(ctx, req.Msg.PartyID)
	if err != nil {
		slog.Error("ListExpenses failed", "party_id", req.Msg.PartyID, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, expense := range expenses {
		out[i] = o.toAPIExpense(expense)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}
