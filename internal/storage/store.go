// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/yet-an-other/isplitapp-sub000/internal/models"
)

// ErrNotFound is wrapped by every store error caused by a missing record.
var ErrNotFound = errors.New("not found")

// Store defines the interface for party, expense and settlement storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateParty persists a new party with its participants.
	// IDs and CreatedAt are populated by the store when empty.
	CreateParty(ctx context.Context, party *models.Party) error

	// GetParty retrieves a party and its participants by ID.
	GetParty(ctx context.Context, partyID string) (*models.Party, error)

	// ListParties returns all parties, newest first.
	ListParties(ctx context.Context) ([]*models.Party, error)

	// UpdateParty updates the name and currency of an existing party and
	// appends added participants atomically. IDs of added participants are
	// populated by the store when empty.
	UpdateParty(ctx context.Context, party *models.Party, added []models.Participant) error

	// DeleteParty removes a party with all its expenses and settlements.
	DeleteParty(ctx context.Context, partyID string) error

	// AddParticipants adds participants to an existing party.
	// IDs are populated by the store when empty.
	AddParticipants(ctx context.Context, partyID string, participants []models.Participant) error

	// CreateExpense persists a new expense with its borrowers and allocations.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its borrowers in input order.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an existing expense and its borrowers.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByParty returns the expenses of a party with their
	// borrowers, newest first.
	ListExpensesByParty(ctx context.Context, partyID string) ([]*models.Expense, error)

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByParty returns the settlements of a party, newest first.
	ListSettlementsByParty(ctx context.Context, partyID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
