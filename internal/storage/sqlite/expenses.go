package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yet-an-other/isplitapp-sub000/internal/calculator"
	"github.com/yet-an-other/isplitapp-sub000/internal/models"
	"github.com/yet-an-other/isplitapp-sub000/internal/storage"
)

const expenseColumns = "id, party_id, title, amount, lender_id, split_mode, expense_date, created_at, updated_at"

// CreateExpense persists a new expense and its borrowers.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	now := time.Now().Unix()
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}
	expense.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.PartyID, expense.Title, expense.Amount, expense.LenderID,
		expense.SplitMode.String(), expense.Date, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertBorrowers(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertBorrowers(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, b := range expense.Borrowers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO borrowers (expense_id, participant_id, position, share, percent, explicit_amount, amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, b.ParticipantID, i, b.Share, b.Percent, b.ExplicitAmount, b.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert borrower: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID with its borrowers in input order.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, participant_id, share, percent, explicit_amount, amount
		 FROM borrowers WHERE expense_id = ? ORDER BY position`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get borrowers: %w", err)
	}
	defer rows.Close()

	err = scanBorrowers(rows, func(_ string, b models.Borrower) {
		expense.Borrowers = append(expense.Borrowers, b)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense replaces an existing expense and all of its borrowers.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount = ?, lender_id = ?, split_mode = ?, expense_date = ?, updated_at = ?
		 WHERE id = ? AND party_id = ?`,
		expense.Title, expense.Amount, expense.LenderID, expense.SplitMode.String(),
		expense.Date, expense.UpdatedAt, expense.ID, expense.PartyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := requireAffected(result, "expense", expense.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM borrowers WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete borrowers: %w", err)
	}
	if err := insertBorrowers(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; its borrowers cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(result, "expense", expenseID)
}

// ListExpensesByParty retrieves all expenses of a party with their borrowers,
// newest first.
func (s *SQLiteStore) ListExpensesByParty(ctx context.Context, partyID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE party_id = ? ORDER BY expense_date DESC, created_at DESC, id",
		partyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by party: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Load all borrowers of the party in one query instead of one per expense.
	borrowerRows, err := s.db.QueryContext(ctx,
		`SELECT b.expense_id, b.participant_id, b.share, b.percent, b.explicit_amount, b.amount
		 FROM borrowers b JOIN expenses e ON e.id = b.expense_id
		 WHERE e.party_id = ? ORDER BY b.expense_id, b.position`,
		partyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers by party: %w", err)
	}
	defer borrowerRows.Close()

	err = scanBorrowers(borrowerRows, func(expenseID string, b models.Borrower) {
		if expense, ok := byID[expenseID]; ok {
			expense.Borrowers = append(expense.Borrowers, b)
		}
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var mode string
	err := row.Scan(&expense.ID, &expense.PartyID, &expense.Title, &expense.Amount, &expense.LenderID,
		&mode, &expense.Date, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if expense.SplitMode, err = calculator.ParseSplitMode(mode); err != nil {
		return nil, fmt.Errorf("expense %s: %w", expense.ID, err)
	}
	return expense, nil
}

func scanBorrowers(rows *sql.Rows, add func(expenseID string, b models.Borrower)) error {
	for rows.Next() {
		var (
			expenseID string
			b         models.Borrower
		)
		if err := rows.Scan(&expenseID, &b.ParticipantID, &b.Share, &b.Percent, &b.ExplicitAmount, &b.Amount); err != nil {
			return fmt.Errorf("failed to scan borrower: %w", err)
		}
		add(expenseID, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate borrowers: %w", err)
	}
	return nil
}
