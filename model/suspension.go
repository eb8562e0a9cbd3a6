package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// SuspensionRecord represents a single active role suspension in the database.
// The database table will be named 'suspensions'. There is at most one row
// per user; a re-offense bumps restore_at and generation in place.
type SuspensionRecord struct {
	UserID        string    `db:"user_id"` // Primary key
	GuildID       string    `db:"guild_id"`
	WithheldRoles string    `db:"withheld_roles"` // JSON array of role IDs, original order
	CreatedAt     time.Time `db:"created_at"`
	RestoreAt     time.Time `db:"restore_at"`
	Generation    int64     `db:"generation"`
}

// RoleIDs decodes the withheld role list.
func (r *SuspensionRecord) RoleIDs() ([]string, error) {
	if r.WithheldRoles == "" {
		return []string{}, nil
	}
	var roleIDs []string
	if err := json.Unmarshal([]byte(r.WithheldRoles), &roleIDs); err != nil {
		return nil, fmt.Errorf("failed to parse withheld roles for user %s: %w", r.UserID, err)
	}
	return roleIDs, nil
}

// SetRoleIDs encodes the withheld role list, preserving order.
func (r *SuspensionRecord) SetRoleIDs(roleIDs []string) error {
	if roleIDs == nil {
		roleIDs = []string{}
	}
	data, err := json.Marshal(roleIDs)
	if err != nil {
		return fmt.Errorf("failed to serialize withheld roles for user %s: %w", r.UserID, err)
	}
	r.WithheldRoles = string(data)
	return nil
}

// Due reports whether the suspension window has already elapsed.
func (r *SuspensionRecord) Due(now time.Time) bool {
	return !now.Before(r.RestoreAt)
}
