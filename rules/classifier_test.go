package rules

import (
	"strings"
	"testing"

	"automod-bot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allRulesConfig() model.AutomodConfig {
	return model.AutomodConfig{
		EnableBadwordsFilter: true,
		EnableInviteFilter:   true,
		EnableAntilinkFilter: true,
		EnableCapsFilter:     true,
		EnableRepeatFilter:   true,
	}
}

func TestBadwordsMatchIsCaseInsensitive(t *testing.T) {
	c := NewClassifier(allRulesConfig(), []string{"heck"})

	verdict := c.Classify("What The HECK", "user-1")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonBadLanguage, verdict.Reason)
	assert.Equal(t, "heck", verdict.MatchedText)
}

func TestBadwordsMatchIgnoresZeroWidthSpaces(t *testing.T) {
	c := NewClassifier(allRulesConfig(), []string{"heck"})

	verdict := c.Classify("he\u200bck", "user-1")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonBadLanguage, verdict.Reason)
}

func TestInviteLinkDetected(t *testing.T) {
	c := NewClassifier(allRulesConfig(), nil)

	verdict := c.Classify("join us at discord.gg/abc123", "user-1")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonInviteLink, verdict.Reason)

	verdict = c.Classify("https://discord.com/invite/abc123", "user-2")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonInviteLink, verdict.Reason)
}

func TestExternalLinkDetected(t *testing.T) {
	c := NewClassifier(allRulesConfig(), nil)

	verdict := c.Classify("check https://example.com/page", "user-1")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonExternalLink, verdict.Reason)
}

func TestCapsSpamRequiresMinimumLength(t *testing.T) {
	c := NewClassifier(allRulesConfig(), nil)

	// 8 runes or fewer are never caps spam.
	assert.Nil(t, c.Classify("SHORTING", "user-1"))

	verdict := c.Classify("THIS IS ALL CAPS SPAM", "user-1")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonExcessiveCaps, verdict.Reason)

	// Mostly lowercase stays clean.
	assert.Nil(t, c.Classify("This is a Normal Sentence", "user-2"))
}

func TestRepeatedMessageDetected(t *testing.T) {
	c := NewClassifier(allRulesConfig(), nil)

	assert.Nil(t, c.Classify("hello there", "user-1"))

	verdict := c.Classify("hello there", "user-1")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonRepeatedMessage, verdict.Reason)

	// Repeats are tracked per user.
	assert.Nil(t, c.Classify("hello there", "user-2"))

	// Case differences still count as a repeat after normalization.
	verdict = c.Classify("HELLO there", "user-1")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonRepeatedMessage, verdict.Reason)
}

func TestPrecedenceOrder(t *testing.T) {
	c := NewClassifier(allRulesConfig(), []string{"heck"})

	// Badwords beat invite links.
	verdict := c.Classify("heck discord.gg/abc", "user-1")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonBadLanguage, verdict.Reason)

	// Invite links beat generic URLs.
	verdict = c.Classify("https://discord.com/invite/abc", "user-2")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonInviteLink, verdict.Reason)

	// URLs beat caps.
	verdict = c.Classify("HTTPS://EXAMPLE.COM IS GREAT", "user-3")
	require.NotNil(t, verdict)
	assert.Equal(t, model.ReasonExternalLink, verdict.Reason)
}

func TestDisabledRulesAreSkipped(t *testing.T) {
	cfg := allRulesConfig()
	cfg.EnableBadwordsFilter = false
	cfg.EnableCapsFilter = false
	c := NewClassifier(cfg, []string{"heck"})

	assert.Nil(t, c.Classify("what the heck", "user-1"))
	assert.Nil(t, c.Classify(strings.Repeat("A", 20), "user-1"))
}

func TestDisabledRepeatFilterTracksNothing(t *testing.T) {
	cfg := allRulesConfig()
	cfg.EnableRepeatFilter = false
	c := NewClassifier(cfg, nil)

	assert.Nil(t, c.Classify("hello there", "user-1"))
	assert.Nil(t, c.Classify("hello there", "user-1"))
}
