package automod

import (
	"errors"
	"fmt"
	"log"

	"automod-bot/model"
	"automod-bot/platform"
	"automod-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// maxQuotedRunes bounds the original message text embedded in
// notifications, to respect the platform's field limits.
const maxQuotedRunes = 1000

// Notifier renders and delivers the two outward notifications for a
// violation: an audit-log embed and a private notice to the offender.
// The deliveries are independent and neither failure propagates; a failed
// notification must not abort message remediation.
type Notifier struct {
	client         platform.Client
	auditChannelID string
}

func NewNotifier(client platform.Client, auditChannelID string) *Notifier {
	return &Notifier{client: client, auditChannelID: auditChannelID}
}

// Notify attempts both deliveries for the violation.
func (n *Notifier) Notify(v model.Violation) {
	n.sendAuditEmbed(v)
	n.sendUserDM(v)
}

func (n *Notifier) sendAuditEmbed(v model.Violation) {
	if n.auditChannelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🚨 AutoMod Triggered",
		Description: fmt.Sprintf("**User:** <@%s> (`%s`)\n**Channel:** <#%s>\n**Reason:** %s",
			v.UserID, v.UserID, v.ChannelID, v.Reason.Description()),
		Color: 0xff0000,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "❌ Message", Value: quoteMessage(v.OriginalText), Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "AutoMod Logger"},
	}

	if err := n.client.SendChannelMessage(n.auditChannelID, embed); err != nil {
		log.Printf("Failed to send audit embed for user %s: %v", v.UserID, err)
	}
}

func (n *Notifier) sendUserDM(v model.Violation) {
	embed := &discordgo.MessageEmbed{
		Title: "⚠️ Message Deleted by AutoMod",
		Description: fmt.Sprintf("Your message was removed for the following reason:\n\n**%s**",
			v.Reason.Description()),
		Color: 0xffa500,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "❌ Message", Value: quoteMessage(v.OriginalText), Inline: false},
		},
	}

	if err := n.client.SendDirectMessage(v.UserID, embed); err != nil {
		// Closed DMs are an expected outcome, not a failure.
		if errors.Is(err, platform.ErrDMClosed) {
			return
		}
		log.Printf("Failed to DM user %s: %v", v.UserID, err)
	}
}

// ReportFailure posts an operator-visible diagnostic embed to the audit
// channel, for failures that must not be silently dropped.
func (n *Notifier) ReportFailure(module, operation, details string) {
	log.Printf("[%s] %s failed: %s", module, operation, details)
	if n.auditChannelID == "" {
		return
	}

	embed := utils.LogEmbed(utils.Error, module, operation, details)
	if err := n.client.SendChannelMessage(n.auditChannelID, embed); err != nil {
		log.Printf("Failed to send failure report to channel %s: %v", n.auditChannelID, err)
	}
}

// quoteMessage wraps the original text in a fenced block, truncated to
// maxQuotedRunes.
func quoteMessage(content string) string {
	runes := []rune(content)
	if len(runes) > maxQuotedRunes {
		content = string(runes[:maxQuotedRunes])
	}
	return "```" + content + "```"
}
