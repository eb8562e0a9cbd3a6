package automod

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"automod-bot/model"
	"automod-bot/platform"
	"automod-bot/rules"
	"automod-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const remediationRetryAttempts = 3

// Orchestrator sequences the per-message remediation pipeline:
// classify -> delete -> notify -> suspend. At most one remediation fires
// per message (the first matching rule wins), and no failure inside the
// pipeline ever propagates to the gateway dispatch loop.
type Orchestrator struct {
	client       platform.Client
	classifier   *rules.Classifier
	notifier     *Notifier
	ledger       *Ledger
	scheduler    *Scheduler
	userLocks    *utils.KeyedMutex
	retryBackoff time.Duration

	messagesScanned atomic.Int64
	violationsSeen  atomic.Int64
}

// NewOrchestrator creates an orchestrator. userLocks is shared with the
// scheduler so that suspensions and restorations for the same user are
// strictly ordered.
func NewOrchestrator(client platform.Client, classifier *rules.Classifier, notifier *Notifier, ledger *Ledger, scheduler *Scheduler, userLocks *utils.KeyedMutex) *Orchestrator {
	return &Orchestrator{
		client:       client,
		classifier:   classifier,
		notifier:     notifier,
		ledger:       ledger,
		scheduler:    scheduler,
		userLocks:    userLocks,
		retryBackoff: 2 * time.Second,
	}
}

// HandleMessage runs the pipeline for one inbound message. It is safe to
// call from the session's event dispatch; one message's failure never
// stops processing of subsequent messages.
func (o *Orchestrator) HandleMessage(m *discordgo.MessageCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic while handling message %s: %v", m.ID, r)
		}
	}()

	// Bots and DMs are not moderated; a message without a member payload
	// comes from outside the guild and short-circuits without
	// classification.
	if m.Author == nil || m.Author.Bot || m.GuildID == "" || m.Member == nil {
		return
	}
	o.messagesScanned.Add(1)

	verdict := o.classifier.Classify(m.Content, m.Author.ID)
	if verdict == nil {
		return
	}
	o.violationsSeen.Add(1)

	// Capture the original text before deletion invalidates it.
	violation := model.Violation{
		GuildID:      m.GuildID,
		ChannelID:    m.ChannelID,
		UserID:       m.Author.ID,
		Reason:       verdict.Reason,
		OriginalText: m.Content,
	}

	// All ledger/scheduler work for one user is strictly ordered; message
	// arrival order from the transport is not guaranteed.
	o.userLocks.Lock(m.Author.ID)
	defer o.userLocks.Unlock(m.Author.ID)

	o.deleteMessage(m)
	o.notifier.Notify(violation)
	o.suspend(violation, m.Member.Roles)
}

// deleteMessage removes the offending message, retrying transient
// platform failures with bounded backoff. A message that is already
// gone ends the attempts immediately.
func (o *Orchestrator) deleteMessage(m *discordgo.MessageCreate) {
	var err error
	for attempt := 1; attempt <= remediationRetryAttempts; attempt++ {
		err = o.client.DeleteMessage(m.ChannelID, m.ID)
		if err == nil {
			return
		}
		if platform.IsNotFound(err) {
			log.Printf("Message %s was already deleted", m.ID)
			return
		}
		log.Printf("Attempt %d/%d to delete message %s failed: %v", attempt, remediationRetryAttempts, m.ID, err)
		if attempt < remediationRetryAttempts {
			time.Sleep(o.retryBackoff * time.Duration(attempt))
		}
	}
	// Tolerated: remediation continues without the deletion.
	log.Printf("Failed to delete message %s in channel %s: %v", m.ID, m.ChannelID, err)
}

// suspend opens (or extends) the user's suspension and withholds their
// live roles. The role snapshot is the set held immediately before the
// first removal of the current window: it is read live under the user
// lock, because the member payload on the message may predate a
// restoration that has since completed. memberRoles is the fallback when
// the live read fails.
func (o *Orchestrator) suspend(v model.Violation, memberRoles []string) {
	roleSnapshot, err := o.client.GetRoles(v.GuildID, v.UserID)
	if err != nil {
		log.Printf("Failed to read roles for user %s, falling back to message payload: %v", v.UserID, err)
		roleSnapshot = memberRoles
	}

	record, fresh, err := o.ledger.BeginSuspension(v.GuildID, v.UserID, roleSnapshot)
	if err != nil {
		o.notifier.ReportFailure("orchestrator", "begin suspension",
			fmt.Sprintf("user %s: %v", v.UserID, err))
		return
	}

	if fresh {
		if err := o.withholdRoles(v.GuildID, v.UserID); err != nil {
			// The ledger record exists, so the scheduled restore still
			// runs; until then the live role set diverges from the record.
			o.notifier.ReportFailure("orchestrator", "withhold roles",
				fmt.Sprintf("user %s: record persisted but role write failed after %d attempts: %v", v.UserID, remediationRetryAttempts, err))
		}
	}

	o.scheduler.Schedule(record)
}

// withholdRoles clears the user's live role set, retrying transient
// platform failures with bounded backoff.
func (o *Orchestrator) withholdRoles(guildID, userID string) error {
	var err error
	for attempt := 1; attempt <= remediationRetryAttempts; attempt++ {
		err = o.client.SetRoles(guildID, userID, []string{})
		if err == nil {
			return nil
		}
		log.Printf("Attempt %d/%d to withhold roles for user %s failed: %v", attempt, remediationRetryAttempts, userID, err)
		if attempt < remediationRetryAttempts {
			time.Sleep(o.retryBackoff * time.Duration(attempt))
		}
	}
	return err
}

// MessagesScanned returns the number of guild messages classified since
// startup.
func (o *Orchestrator) MessagesScanned() int64 {
	return o.messagesScanned.Load()
}

// ViolationsSeen returns the number of remediations fired since startup.
func (o *Orchestrator) ViolationsSeen() int64 {
	return o.violationsSeen.Load()
}

// ActiveSuspensions returns the current ledger size.
func (o *Orchestrator) ActiveSuspensions() int {
	return o.ledger.ActiveCount()
}
