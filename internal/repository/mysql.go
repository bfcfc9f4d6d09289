package repository

import (
	"context"
	"database/sql"
	"fmt"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"

	"github.com/go-sql-driver/mysql"
)

const createSnapshotsTable = `
	CREATE TABLE IF NOT EXISTS auction_snapshots (
		auction_id VARCHAR(64) NOT NULL PRIMARY KEY,
		code       VARCHAR(16) NOT NULL,
		status     VARCHAR(16) NOT NULL,
		payload    JSON        NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)
`

// MySQLStore keeps one row per auction holding its latest snapshot
type MySQLStore struct {
	db *sql.DB
}

// NormalizeDSN parses dsn and turns on the options the store relies on
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// OpenMySQL connects, checks the connection and creates the table if needed
func OpenMySQL(ctx context.Context, dsn string) (*MySQLStore, error) {
	normalized, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	store := NewMySQLStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewMySQLStore wraps an open database handle
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Migrate creates the snapshot table
func (s *MySQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("create auction_snapshots: %w", err)
	}
	return nil
}

// Save upserts snap
func (s *MySQLStore) Save(ctx context.Context, snap models.Snapshot) error {
	payload, err := encode(snap)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO auction_snapshots (auction_id, code, status, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			code = VALUES(code),
			status = VALUES(status),
			payload = VALUES(payload),
			updated_at = VALUES(updated_at)
	`
	_, err = s.db.ExecContext(ctx, query,
		snap.Auction.AuctionID,
		snap.Auction.Code,
		string(snap.Auction.Status),
		payload,
		snap.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.Auction.AuctionID, err)
	}
	return nil
}

// LoadAll reads every stored snapshot, oldest auction first
func (s *MySQLStore) LoadAll(ctx context.Context) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT auction_id, payload FROM auction_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []models.Snapshot
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("load snapshots: %w", err)
		}
		snap, err := decode(payload)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", id, err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}

	sortSnapshots(snaps)
	return snaps, nil
}

// Delete removes the row of auctionID
func (s *MySQLStore) Delete(ctx context.Context, auctionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM auction_snapshots WHERE auction_id = ?`, auctionID)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", auctionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete snapshot %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return nil
}

// Close releases the database handle
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
