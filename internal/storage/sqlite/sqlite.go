// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/yet-an-other/isplitapp-sub000/internal/models"
	"github.com/yet-an-other/isplitapp-sub000/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so they go in the DSN
	// for every pooled connection to pick up.
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateParty persists a new party and its participants.
func (s *SQLiteStore) CreateParty(ctx context.Context, party *models.Party) error {
	if party.ID == "" {
		party.ID = uuid.New().String()
	}
	if party.CreatedAt == 0 {
		party.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO parties (id, name, currency, created_at) VALUES (?, ?, ?, ?)",
		party.ID, party.Name, party.Currency, party.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert party: %w", err)
	}

	if err := insertParticipants(ctx, tx, party.ID, 0, party.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertParticipants stores participants starting at the given position and
// fills in their IDs.
func insertParticipants(ctx context.Context, tx *sql.Tx, partyID string, position int, participants []models.Participant) error {
	for i := range participants {
		p := &participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.PartyID = partyID

		_, err := tx.ExecContext(ctx,
			"INSERT INTO participants (id, party_id, name, position) VALUES (?, ?, ?, ?)",
			p.ID, partyID, p.Name, position+i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant %q: %w", p.Name, err)
		}
	}
	return nil
}

// GetParty retrieves a party by ID, including its participants.
func (s *SQLiteStore) GetParty(ctx context.Context, partyID string) (*models.Party, error) {
	party := &models.Party{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, currency, created_at FROM parties WHERE id = ?",
		partyID,
	).Scan(&party.ID, &party.Name, &party.Currency, &party.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("party %s: %w", partyID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party: %w", err)
	}

	participants, err := s.listParticipants(ctx, partyID)
	if err != nil {
		return nil, err
	}
	party.Participants = participants

	return party, nil
}

func (s *SQLiteStore) listParticipants(ctx context.Context, partyID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, party_id, name FROM participants WHERE party_id = ? ORDER BY position",
		partyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.PartyID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// ListParties retrieves all parties with their participants, newest first.
func (s *SQLiteStore) ListParties(ctx context.Context) ([]*models.Party, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, currency, created_at FROM parties ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}

	var parties []*models.Party
	for rows.Next() {
		party := &models.Party{}
		if err := rows.Scan(&party.ID, &party.Name, &party.Currency, &party.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		parties = append(parties, party)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parties: %w", err)
	}

	for _, party := range parties {
		if party.Participants, err = s.listParticipants(ctx, party.ID); err != nil {
			return nil, err
		}
	}
	return parties, nil
}

// UpdateParty updates the name and currency of an existing party and appends
// added participants, all in one transaction.
func (s *SQLiteStore) UpdateParty(ctx context.Context, party *models.Party, added []models.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE parties SET name = ?, currency = ? WHERE id = ?",
		party.Name, party.Currency, party.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update party: %w", err)
	}
	if err := requireAffected(result, "party", party.ID); err != nil {
		return err
	}

	if len(added) > 0 {
		if err := appendParticipants(ctx, tx, party.ID, added); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteParty removes a party; participants, expenses and settlements cascade.
func (s *SQLiteStore) DeleteParty(ctx context.Context, partyID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM parties WHERE id = ?", partyID)
	if err != nil {
		return fmt.Errorf("failed to delete party: %w", err)
	}
	return requireAffected(result, "party", partyID)
}

// AddParticipants appends participants to an existing party.
func (s *SQLiteStore) AddParticipants(ctx context.Context, partyID string, participants []models.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM parties WHERE id = ?", partyID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("party %s: %w", partyID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check party existence: %w", err)
	}

	if err := appendParticipants(ctx, tx, partyID, participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// appendParticipants inserts participants after the last existing one.
func appendParticipants(ctx context.Context, tx *sql.Tx, partyID string, participants []models.Participant) error {
	var next int
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM participants WHERE party_id = ?",
		partyID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to find participant position: %w", err)
	}
	return insertParticipants(ctx, tx, partyID, next, participants)
}

// requireAffected turns an update or delete that matched no row into ErrNotFound.
func requireAffected(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
