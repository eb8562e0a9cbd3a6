package automod

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"automod-bot/model"
)

// ErrStaleGeneration is returned by EndSuspension when the suspension has
// been superseded by a newer violation (or already restored). The caller
// must not touch the user's roles.
var ErrStaleGeneration = errors.New("suspension superseded by a newer generation")

// SuspensionStore is the durable backing of the ledger. Every mutation is
// written here before the in-memory view is considered committed.
type SuspensionStore interface {
	UpsertSuspension(record model.SuspensionRecord) error
	DeleteSuspension(userID string) error
	LoadSuspensions() ([]model.SuspensionRecord, error)
}

// Ledger is the authoritative record of active role suspensions: at most
// one active record per user. All mutation happens under a single mutex;
// generation bumping and role snapshotting are not commutative, so calls
// for the same user must never interleave.
type Ledger struct {
	store    SuspensionStore
	duration time.Duration
	now      func() time.Time

	mu     sync.Mutex
	active map[string]*model.SuspensionRecord
}

func NewLedger(store SuspensionStore, duration time.Duration) *Ledger {
	return &Ledger{
		store:    store,
		duration: duration,
		now:      time.Now,
		active:   make(map[string]*model.SuspensionRecord),
	}
}

// Load populates the in-memory view from the durable store and returns the
// loaded records so the scheduler can re-adopt them. Called once at startup.
func (l *Ledger) Load() ([]model.SuspensionRecord, error) {
	records, err := l.store.LoadSuspensions()
	if err != nil {
		return nil, fmt.Errorf("failed to load suspension ledger: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range records {
		record := records[i]
		l.active[record.UserID] = &record
	}
	return records, nil
}

// BeginSuspension opens or extends the suspension for a user. For a first
// offense it snapshots currentRoleIDs and creates a generation-1 record.
// If the user is already suspended the roles are NOT re-snapshotted (they
// are already withheld); instead the window is extended and the generation
// bumped, invalidating any restoration pending for the prior generation.
// The returned bool is true when the record is fresh and the caller still
// has to withhold the user's live roles.
func (l *Ledger) BeginSuspension(guildID, userID string, currentRoleIDs []string) (model.SuspensionRecord, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if existing, ok := l.active[userID]; ok {
		updated := *existing
		updated.RestoreAt = now.Add(l.duration)
		updated.Generation++
		if err := l.store.UpsertSuspension(updated); err != nil {
			return model.SuspensionRecord{}, false, fmt.Errorf("failed to persist extended suspension for user %s: %w", userID, err)
		}
		*existing = updated
		return updated, false, nil
	}

	record := model.SuspensionRecord{
		UserID:     userID,
		GuildID:    guildID,
		CreatedAt:  now,
		RestoreAt:  now.Add(l.duration),
		Generation: 1,
	}
	if err := record.SetRoleIDs(currentRoleIDs); err != nil {
		return model.SuspensionRecord{}, false, err
	}
	if err := l.store.UpsertSuspension(record); err != nil {
		return model.SuspensionRecord{}, false, fmt.Errorf("failed to persist suspension for user %s: %w", userID, err)
	}
	l.active[userID] = &record
	return record, true, nil
}

// EndSuspension closes the suspension for a user and returns the role set
// to restore, but only if generation still matches the active record.
// A mismatch (or a record already removed) yields ErrStaleGeneration and
// no mutation: the record survives for the newer generation's own
// scheduled restoration.
func (l *Ledger) EndSuspension(userID string, generation int64) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.active[userID]
	if !ok || record.Generation != generation {
		return nil, ErrStaleGeneration
	}

	roleIDs, err := record.RoleIDs()
	if err != nil {
		return nil, err
	}

	if err := l.store.DeleteSuspension(userID); err != nil {
		return nil, fmt.Errorf("failed to remove suspension record for user %s: %w", userID, err)
	}
	delete(l.active, userID)
	return roleIDs, nil
}

// ActiveCount returns the number of users currently suspended.
func (l *Ledger) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}
