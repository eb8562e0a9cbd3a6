package rules

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"automod-bot/model"
)

var (
	inviteRegex = regexp.MustCompile(`(discord\.gg/|discord\.com/invite/)`)
	linkRegex   = regexp.MustCompile(`https?://\S*`)
)

const (
	capsMinLength = 8
	capsRatio     = 0.7
)

// Classifier checks message content against the moderation rules in a
// fixed precedence order: badwords, invite links, external links, caps,
// repeated messages. The first matching rule wins.
type Classifier struct {
	cfg      model.AutomodConfig
	badwords []string

	mu           sync.Mutex
	lastMessages map[string]string // userID -> last normalized message
}

func NewClassifier(cfg model.AutomodConfig, badwords []string) *Classifier {
	return &Classifier{
		cfg:          cfg,
		badwords:     badwords,
		lastMessages: make(map[string]string),
	}
}

// Normalize lowercases content and strips zero-width spaces, the same
// transform applied to the badwords list itself.
func Normalize(content string) string {
	return strings.ReplaceAll(strings.ToLower(content), "\u200b", "")
}

// Classify returns a verdict for the message, or nil if it is clean.
// Disabled rules are skipped entirely.
func (c *Classifier) Classify(content, authorID string) *model.Verdict {
	normalized := Normalize(content)

	if c.cfg.EnableBadwordsFilter {
		for _, word := range c.badwords {
			if word != "" && strings.Contains(normalized, word) {
				return &model.Verdict{Reason: model.ReasonBadLanguage, MatchedText: word}
			}
		}
	}

	if c.cfg.EnableInviteFilter {
		if match := inviteRegex.FindString(normalized); match != "" {
			return &model.Verdict{Reason: model.ReasonInviteLink, MatchedText: match}
		}
	}

	if c.cfg.EnableAntilinkFilter {
		if match := linkRegex.FindString(normalized); match != "" {
			return &model.Verdict{Reason: model.ReasonExternalLink, MatchedText: match}
		}
	}

	if c.cfg.EnableCapsFilter && isCapsSpam(content) {
		return &model.Verdict{Reason: model.ReasonExcessiveCaps, MatchedText: content}
	}

	if c.cfg.EnableRepeatFilter {
		c.mu.Lock()
		defer c.mu.Unlock()
		if last, ok := c.lastMessages[authorID]; ok && last == normalized {
			return &model.Verdict{Reason: model.ReasonRepeatedMessage, MatchedText: content}
		}
		c.lastMessages[authorID] = normalized
	}

	return nil
}

// isCapsSpam reports whether the message is long enough to judge and more
// than 70% of its runes are uppercase.
func isCapsSpam(content string) bool {
	runes := []rune(content)
	if len(runes) <= capsMinLength {
		return false
	}
	caps := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			caps++
		}
	}
	return float64(caps) > float64(len(runes))*capsRatio
}
