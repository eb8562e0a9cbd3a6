package platform

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Client is the surface of the chat platform the moderation pipeline
// depends on. The ledger, scheduler and orchestrator only see this
// interface, so tests can substitute a fake.
type Client interface {
	DeleteMessage(channelID, messageID string) error
	SendDirectMessage(userID string, embed *discordgo.MessageEmbed) error
	SendChannelMessage(channelID string, embed *discordgo.MessageEmbed) error
	GetRoles(guildID, userID string) ([]string, error)
	SetRoles(guildID, userID string, roleIDs []string) error
}

// ErrDMClosed marks a direct message refused by the recipient's privacy
// settings. This is an expected outcome, not a delivery failure.
var ErrDMClosed = errors.New("recipient does not accept direct messages")

// DiscordClient implements Client over a discordgo session.
type DiscordClient struct {
	Session *discordgo.Session
}

func NewDiscordClient(s *discordgo.Session) *DiscordClient {
	return &DiscordClient{Session: s}
}

func (c *DiscordClient) DeleteMessage(channelID, messageID string) error {
	if err := c.Session.ChannelMessageDelete(channelID, messageID); err != nil {
		return fmt.Errorf("failed to delete message %s in channel %s: %w", messageID, channelID, err)
	}
	return nil
}

func (c *DiscordClient) SendDirectMessage(userID string, embed *discordgo.MessageEmbed) error {
	channel, err := c.Session.UserChannelCreate(userID)
	if err != nil {
		if isErrCode(err, discordgo.ErrCodeCannotSendMessagesToThisUser) {
			return ErrDMClosed
		}
		return fmt.Errorf("failed to create private channel with user %s: %w", userID, err)
	}
	if _, err := c.Session.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		if isErrCode(err, discordgo.ErrCodeCannotSendMessagesToThisUser) {
			return ErrDMClosed
		}
		return fmt.Errorf("failed to send private embed message to user %s: %w", userID, err)
	}
	return nil
}

func (c *DiscordClient) SendChannelMessage(channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := c.Session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("failed to send embed to channel %s: %w", channelID, err)
	}
	return nil
}

func (c *DiscordClient) GetRoles(guildID, userID string) ([]string, error) {
	member, err := c.Session.GuildMember(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s in guild %s: %w", userID, guildID, err)
	}
	return member.Roles, nil
}

func (c *DiscordClient) SetRoles(guildID, userID string, roleIDs []string) error {
	if roleIDs == nil {
		roleIDs = []string{}
	}
	_, err := c.Session.GuildMemberEdit(guildID, userID, &discordgo.GuildMemberParams{
		Roles: &roleIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to set roles for user %s in guild %s: %w", userID, guildID, err)
	}
	return nil
}

// IsNotFound reports whether err is the platform telling us the target no
// longer exists (e.g. a message that was already deleted).
func IsNotFound(err error) bool {
	return isErrCode(err, discordgo.ErrCodeUnknownMessage) ||
		isErrCode(err, discordgo.ErrCodeUnknownChannel) ||
		isErrCode(err, discordgo.ErrCodeUnknownMember)
}

func isErrCode(err error, code int) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == code
	}
	return false
}
