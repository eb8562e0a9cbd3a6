package database

import (
	"fmt"

	"automod-bot/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// InitSuspensionDB initializes the suspension database and ensures the
// table exists. One row per suspended user; re-offenses update the row in
// place.
func InitSuspensionDB(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to suspension database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS suspensions (
	          user_id TEXT PRIMARY KEY,
	          guild_id TEXT NOT NULL,
	          withheld_roles TEXT NOT NULL,
	          created_at DATETIME NOT NULL,
	          restore_at DATETIME NOT NULL,
	          generation INTEGER NOT NULL
	      );`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create suspensions table: %w", err)
	}

	return db, nil
}

// UpsertSuspension inserts or replaces the suspension record for a user.
func UpsertSuspension(db *sqlx.DB, record model.SuspensionRecord) error {
	query := `INSERT INTO suspensions (user_id, guild_id, withheld_roles, created_at, restore_at, generation)
	          VALUES (:user_id, :guild_id, :withheld_roles, :created_at, :restore_at, :generation)
	          ON CONFLICT(user_id) DO UPDATE SET
	              guild_id = excluded.guild_id,
	              withheld_roles = excluded.withheld_roles,
	              created_at = excluded.created_at,
	              restore_at = excluded.restore_at,
	              generation = excluded.generation`

	if _, err := db.NamedExec(query, record); err != nil {
		return fmt.Errorf("failed to upsert suspension record for user %s: %w", record.UserID, err)
	}
	return nil
}

// DeleteSuspension removes the suspension record for a user.
func DeleteSuspension(db *sqlx.DB, userID string) error {
	query := "DELETE FROM suspensions WHERE user_id = ?"
	if _, err := db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to delete suspension record for user %s: %w", userID, err)
	}
	return nil
}

// SuspensionDB bundles a sqlx handle with the store operations the
// suspension ledger needs.
type SuspensionDB struct {
	DB *sqlx.DB
}

func NewSuspensionDB(db *sqlx.DB) *SuspensionDB {
	return &SuspensionDB{DB: db}
}

func (s *SuspensionDB) UpsertSuspension(record model.SuspensionRecord) error {
	return UpsertSuspension(s.DB, record)
}

func (s *SuspensionDB) DeleteSuspension(userID string) error {
	return DeleteSuspension(s.DB, userID)
}

func (s *SuspensionDB) LoadSuspensions() ([]model.SuspensionRecord, error) {
	return LoadSuspensions(s.DB)
}

// LoadSuspensions retrieves every persisted suspension record.
func LoadSuspensions(db *sqlx.DB) ([]model.SuspensionRecord, error) {
	var records []model.SuspensionRecord
	query := "SELECT * FROM suspensions"
	if err := db.Select(&records, query); err != nil {
		return nil, fmt.Errorf("failed to load suspension records: %w", err)
	}
	return records, nil
}
