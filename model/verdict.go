package model

// ReasonCode identifies which moderation rule a message violated.
type ReasonCode string

const (
	ReasonBadLanguage     ReasonCode = "bad_language"
	ReasonInviteLink      ReasonCode = "invite_link"
	ReasonExternalLink    ReasonCode = "external_link"
	ReasonExcessiveCaps   ReasonCode = "excessive_caps"
	ReasonRepeatedMessage ReasonCode = "repeated_message"
)

// Description returns the human-readable reason shown in audit and DM embeds.
func (r ReasonCode) Description() string {
	switch r {
	case ReasonBadLanguage:
		return "Bad Language Detected"
	case ReasonInviteLink:
		return "Discord Invite Link"
	case ReasonExternalLink:
		return "External Link Detected"
	case ReasonExcessiveCaps:
		return "Excessive CAPS"
	case ReasonRepeatedMessage:
		return "Repeated Message"
	default:
		return string(r)
	}
}

// Verdict is the outcome of classifying a message: the first rule that
// matched and the span of text that triggered it.
type Verdict struct {
	Reason      ReasonCode
	MatchedText string
}

// Violation carries everything the remediation pipeline needs for one
// offending message. It is built per message and never persisted.
type Violation struct {
	GuildID      string
	ChannelID    string
	UserID       string
	Reason       ReasonCode
	OriginalText string
}
