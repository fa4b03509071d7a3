// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
	"github.com/kmoroz/hearth/internal/storage"
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

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: SQLite serializes writers anyway, and the
	// foreign_keys pragma below is per-connection.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateHousehold persists a new household to the database.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, h *models.Household) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt == 0 {
		h.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO households (id, name, created_at) VALUES (?, ?, ?)",
		h.ID, h.Name, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert household: %w", err)
	}
	return nil
}

// GetHousehold retrieves a household by ID.
func (s *SQLiteStore) GetHousehold(ctx context.Context, householdID string) (*models.Household, error) {
	h := &models.Household{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM households WHERE id = ?",
		householdID,
	).Scan(&h.ID, &h.Name, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("household %s: %w", householdID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	return h, nil
}

// AddMember appends a member to a household roster.
func (s *SQLiteStore) AddMember(ctx context.Context, m *models.Member) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.JoinedAt == 0 {
		m.JoinedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO household_members (id, household_id, display_name, email, joined_at) VALUES (?, ?, ?, ?, ?)",
		m.ID, m.HouseholdID, m.DisplayName, m.Email, m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// ListMembers returns the household roster ordered by join time.
// Insertion order is the rotation ring, so ordering must be stable:
// joined_at first, id as the tiebreak for same-second joins.
func (s *SQLiteStore) ListMembers(ctx context.Context, householdID string) ([]models.Member, error) {
	// Distinguish "unknown household" from "household with no members yet".
	if _, err := s.GetHousehold(ctx, householdID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, display_name, email, joined_at
		 FROM household_members WHERE household_id = ? ORDER BY joined_at, id`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	seen := make(map[string]bool)
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.HouseholdID, &m.DisplayName, &m.Email, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}
