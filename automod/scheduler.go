package automod

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"automod-bot/model"
	"automod-bot/platform"
	"automod-bot/utils"
)

const restoreRetryAttempts = 3

// Scheduler drives ledger records to completion: it waits out each
// suspension window and performs the role restoration, exactly once per
// surviving generation. Cancellation of superseded restorations happens
// via generation mismatch in the ledger, never by killing a task that has
// already begun its role write.
type Scheduler struct {
	client       platform.Client
	ledger       *Ledger
	notifier     *Notifier
	userLocks    *utils.KeyedMutex
	retryBackoff time.Duration

	mu     sync.Mutex
	timers map[string]*restoreTimer
}

type restoreTimer struct {
	generation int64
	timer      *time.Timer
}

// NewScheduler creates a scheduler. userLocks must be the same keyed
// mutex the orchestrator serializes its pipeline on, so a restoration
// never interleaves with a new suspension for the same user.
func NewScheduler(client platform.Client, ledger *Ledger, notifier *Notifier, userLocks *utils.KeyedMutex) *Scheduler {
	return &Scheduler{
		client:       client,
		ledger:       ledger,
		notifier:     notifier,
		userLocks:    userLocks,
		retryBackoff: 2 * time.Second,
		timers:       make(map[string]*restoreTimer),
	}
}

// Schedule arranges for the record's roles to be restored at restore_at,
// cancelling any pending timer for the same user. A bumped generation
// therefore replaces the stale timer outright; even if the old timer has
// already fired, its restoration is rejected by the ledger's generation
// check.
func (s *Scheduler) Schedule(record model.SuspensionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[record.UserID]; ok {
		existing.timer.Stop()
	}

	delay := time.Until(record.RestoreAt)
	if delay < 0 {
		delay = 0
	}

	guildID, userID, generation := record.GuildID, record.UserID, record.Generation
	rt := &restoreTimer{generation: generation}
	rt.timer = time.AfterFunc(delay, func() {
		s.fire(guildID, userID, generation)
	})
	s.timers[userID] = rt
}

// Adopt re-schedules every record loaded from the durable store at
// startup. Past-due records are restored synchronously, so recovery
// completes before any new message is processed.
func (s *Scheduler) Adopt(records []model.SuspensionRecord) {
	now := time.Now()
	for _, record := range records {
		if record.Due(now) {
			log.Printf("Adopting past-due suspension for user %s (generation %d), restoring now", record.UserID, record.Generation)
			s.fire(record.GuildID, record.UserID, record.Generation)
		} else {
			log.Printf("Adopting suspension for user %s, restore in %s", record.UserID, time.Until(record.RestoreAt).Round(time.Second))
			s.Schedule(record)
		}
	}
}

// Stop cancels all pending timers. In-flight restorations are allowed to
// finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rt := range s.timers {
		rt.timer.Stop()
	}
	s.timers = make(map[string]*restoreTimer)
}

func (s *Scheduler) fire(guildID, userID string, generation int64) {
	// Restorations and new suspensions for one user are strictly ordered:
	// a restore that lost the race to a re-offense discovers staleness
	// here instead of racing the fresh snapshot.
	s.userLocks.Lock(userID)
	defer s.userLocks.Unlock(userID)
	defer s.clearTimer(userID, generation)

	roleIDs, err := s.ledger.EndSuspension(userID, generation)
	if err != nil {
		if errors.Is(err, ErrStaleGeneration) {
			log.Printf("Restoration for user %s generation %d is stale, skipping", userID, generation)
			return
		}
		// Store failure: the record survives in the ledger, so the
		// suspension is not lost, but an operator has to look at it.
		s.notifier.ReportFailure("scheduler", "end suspension",
			fmt.Sprintf("user %s generation %d: %v", userID, generation, err))
		return
	}

	if err := s.restoreRoles(guildID, userID, roleIDs); err != nil {
		// The single worst outcome in this system: a user left without
		// their roles. The ledger row is already gone at this point, so
		// the report carries the role IDs an operator needs to restore
		// by hand. Never silent.
		s.notifier.ReportFailure("scheduler", "restore roles",
			fmt.Sprintf("user %s: giving up after %d attempts, withheld roles %v: %v", userID, restoreRetryAttempts, roleIDs, err))
	}
}

// restoreRoles writes the withheld role set back, retrying transient
// platform failures with bounded backoff.
func (s *Scheduler) restoreRoles(guildID, userID string, roleIDs []string) error {
	var err error
	for attempt := 1; attempt <= restoreRetryAttempts; attempt++ {
		err = s.client.SetRoles(guildID, userID, roleIDs)
		if err == nil {
			log.Printf("Restored %d role(s) for user %s", len(roleIDs), userID)
			return nil
		}
		log.Printf("Attempt %d/%d to restore roles for user %s failed: %v", attempt, restoreRetryAttempts, userID, err)
		if attempt < restoreRetryAttempts {
			time.Sleep(s.retryBackoff * time.Duration(attempt))
		}
	}
	return err
}

// clearTimer drops the timer entry, unless a newer generation has already
// replaced it.
func (s *Scheduler) clearTimer(userID string, generation int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rt, ok := s.timers[userID]; ok && rt.generation == generation {
		delete(s.timers, userID)
	}
}
