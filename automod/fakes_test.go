package automod

import (
	"errors"
	"sync"

	"automod-bot/model"

	"github.com/bwmarrin/discordgo"
)

// fakeClient is an in-memory platform.Client for pipeline tests.
type fakeClient struct {
	mu sync.Mutex

	deleted     []string // messageIDs
	dms         []*discordgo.MessageEmbed
	channelMsgs map[string][]*discordgo.MessageEmbed
	roleWrites  [][]string // every SetRoles call, in order

	roles map[string][]string // userID -> current roles

	deleteCalls   int
	setRolesCalls int

	deleteErr    error
	deleteFail   int // fail this many DeleteMessage calls, then succeed
	dmErr        error
	channelErr   error
	setRolesErr  error
	setRolesFail int // fail this many SetRoles calls, then succeed
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		channelMsgs: make(map[string][]*discordgo.MessageEmbed),
		roles:       make(map[string][]string),
	}
}

func (c *fakeClient) DeleteMessage(channelID, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteCalls++
	if c.deleteFail > 0 {
		c.deleteFail--
		return errors.New("transient platform failure")
	}
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, messageID)
	return nil
}

func (c *fakeClient) SendDirectMessage(userID string, embed *discordgo.MessageEmbed) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dmErr != nil {
		return c.dmErr
	}
	c.dms = append(c.dms, embed)
	return nil
}

func (c *fakeClient) SendChannelMessage(channelID string, embed *discordgo.MessageEmbed) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channelErr != nil {
		return c.channelErr
	}
	c.channelMsgs[channelID] = append(c.channelMsgs[channelID], embed)
	return nil
}

func (c *fakeClient) GetRoles(guildID, userID string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.roles[userID]...), nil
}

func (c *fakeClient) SetRoles(guildID, userID string, roleIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRolesCalls++
	if c.setRolesFail > 0 {
		c.setRolesFail--
		return errors.New("transient platform failure")
	}
	if c.setRolesErr != nil {
		return c.setRolesErr
	}
	c.roles[userID] = append([]string(nil), roleIDs...)
	c.roleWrites = append(c.roleWrites, append([]string(nil), roleIDs...))
	return nil
}

func (c *fakeClient) currentRoles(userID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.roles[userID]...)
}

func (c *fakeClient) roleWriteCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.roleWrites)
}

func (c *fakeClient) deleteAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteCalls
}

func (c *fakeClient) setRolesAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setRolesCalls
}

func (c *fakeClient) deletedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.deleted)
}

func (c *fakeClient) dmCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dms)
}

func (c *fakeClient) channelMsgCount(channelID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.channelMsgs[channelID])
}

// fakeStore is an in-memory SuspensionStore.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]model.SuspensionRecord

	upsertErr error
	deleteErr error
	upserts   int
	deletes   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]model.SuspensionRecord)}
}

func (s *fakeStore) UpsertSuspension(record model.SuspensionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.records[record.UserID] = record
	s.upserts++
	return nil
}

func (s *fakeStore) DeleteSuspension(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.records, userID)
	s.deletes++
	return nil
}

func (s *fakeStore) LoadSuspensions() ([]model.SuspensionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]model.SuspensionRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	return records, nil
}

func (s *fakeStore) get(userID string) (model.SuspensionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	return record, ok
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
