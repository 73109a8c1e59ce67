package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/iceberg-server/internal/store"
)

// SQLiteStore implements store.PlayerStore for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id       INTEGER PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	coins    INTEGER NOT NULL DEFAULT 0 CHECK (coins >= 0),
	color    INTEGER NOT NULL DEFAULT 1,
	head     INTEGER NOT NULL DEFAULT 0,
	face     INTEGER NOT NULL DEFAULT 0,
	neck     INTEGER NOT NULL DEFAULT 0,
	body     INTEGER NOT NULL DEFAULT 0,
	hand     INTEGER NOT NULL DEFAULT 0,
	feet     INTEGER NOT NULL DEFAULT 0,
	flag     INTEGER NOT NULL DEFAULT 0,
	photo    INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS inventory (
	player_id INTEGER NOT NULL REFERENCES players(id),
	item_id   INTEGER NOT NULL,
	PRIMARY KEY (player_id, item_id)
);

CREATE TABLE IF NOT EXISTS ignores (
	player_id INTEGER NOT NULL REFERENCES players(id),
	target_id INTEGER NOT NULL,
	username  TEXT NOT NULL,
	PRIMARY KEY (player_id, target_id)
);
`

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema or seed rows.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetPlayer retrieves a player row by id.
func (s *SQLiteStore) GetPlayer(ctx context.Context, id int64) (*store.PlayerRow, error) {
	query := `
		SELECT id, username, coins, color, head, face, neck, body, hand, feet, flag, photo
		FROM players
		WHERE id = ?
	`
	var row store.PlayerRow
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID, &row.Username, &row.Coins,
		&row.Color, &row.Head, &row.Face, &row.Neck, &row.Body,
		&row.Hand, &row.Feet, &row.Flag, &row.Photo,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select player: %w", err)
	}
	return &row, nil
}

// ListInventory returns the player's owned item ids in insertion order.
func (s *SQLiteStore) ListInventory(ctx context.Context, playerID int64) ([]int64, error) {
	query := `SELECT item_id FROM inventory WHERE player_id = ? ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("select inventory: %w", err)
	}
	defer rows.Close()

	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return items, nil
}

// ListIgnores returns the player's ignore entries in insertion order.
func (s *SQLiteStore) ListIgnores(ctx context.Context, playerID int64) ([]store.IgnoreRow, error) {
	query := `SELECT target_id, username FROM ignores WHERE player_id = ? ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("select ignores: %w", err)
	}
	defer rows.Close()

	var entries []store.IgnoreRow
	for rows.Next() {
		var e store.IgnoreRow
		if err := rows.Scan(&e.TargetID, &e.Username); err != nil {
			return nil, fmt.Errorf("scan ignore: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ignores: %w", err)
	}
	return entries, nil
}

// PurchaseItem debits the balance and inserts the inventory row inside a
// single transaction, so a failure of either write leaves both untouched.
func (s *SQLiteStore) PurchaseItem(ctx context.Context, playerID, itemID, cost int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purchase: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	res, err := tx.ExecContext(ctx,
		`UPDATE players SET coins = coins - ? WHERE id = ? AND coins >= ?`,
		cost, playerID, cost,
	)
	if err != nil {
		return 0, fmt.Errorf("debit coins: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("debit coins: %w", err)
	}
	if n == 0 {
		// Either the player row is missing or the balance is short.
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM players WHERE id = ?`, playerID,
		).Scan(&exists); err != nil {
			return 0, fmt.Errorf("check player: %w", err)
		}
		if exists == 0 {
			return 0, store.ErrNotFound
		}
		return 0, store.ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO inventory (player_id, item_id) VALUES (?, ?)`,
		playerID, itemID,
	); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return 0, store.ErrAlreadyOwned
		}
		return 0, fmt.Errorf("insert inventory: %w", err)
	}

	var balance int64
	if err := tx.QueryRowContext(ctx,
		`SELECT coins FROM players WHERE id = ?`, playerID,
	).Scan(&balance); err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit purchase: %w", err)
	}
	return balance, nil
}

// slotColumns whitelists the outfit columns UpdateSlot may touch.
var slotColumns = map[string]struct{}{
	store.SlotColor: {},
	store.SlotHead:  {},
	store.SlotFace:  {},
	store.SlotNeck:  {},
	store.SlotBody:  {},
	store.SlotHand:  {},
	store.SlotFeet:  {},
	store.SlotFlag:  {},
	store.SlotPhoto: {},
}

// UpdateSlot persists one outfit slot column for the player.
func (s *SQLiteStore) UpdateSlot(ctx context.Context, playerID int64, slot string, itemID int64) error {
	if _, ok := slotColumns[slot]; !ok {
		return fmt.Errorf("unknown slot column %q", slot)
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE players SET %s = ? WHERE id = ?`, slot),
		itemID, playerID,
	)
	if err != nil {
		return fmt.Errorf("update slot %s: %w", slot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update slot %s: %w", slot, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AddIgnore persists an ignore entry. Duplicate adds are no-ops.
func (s *SQLiteStore) AddIgnore(ctx context.Context, playerID, targetID int64, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO ignores (player_id, target_id, username) VALUES (?, ?, ?)`,
		playerID, targetID, username,
	)
	if err != nil {
		return fmt.Errorf("insert ignore: %w", err)
	}
	return nil
}

// RemoveIgnore deletes an ignore entry. Absent entries are no-ops.
func (s *SQLiteStore) RemoveIgnore(ctx context.Context, playerID, targetID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM ignores WHERE player_id = ? AND target_id = ?`,
		playerID, targetID,
	)
	if err != nil {
		return fmt.Errorf("delete ignore: %w", err)
	}
	return nil
}
