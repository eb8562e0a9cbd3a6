package model

import "time"

// AutomodConfig holds the moderation rule toggles and suspension settings,
// loaded from the automod config file.
type AutomodConfig struct {
	EnableBadwordsFilter bool   `mapstructure:"enable_badwords_filter"`
	EnableInviteFilter   bool   `mapstructure:"enable_invite_filter"`
	EnableAntilinkFilter bool   `mapstructure:"enable_antilink_filter"`
	EnableCapsFilter     bool   `mapstructure:"enable_caps_filter"`
	EnableRepeatFilter   bool   `mapstructure:"enable_repeat_filter"`
	BadwordsFile         string `mapstructure:"badwords_file"`
	SuspensionSeconds    int    `mapstructure:"suspension_seconds"`
	AuditLogChannelID    string `mapstructure:"audit_log_channel_id"`
	DatabasePath         string `mapstructure:"database_path"`
}

// SuspensionDuration returns the configured suspension window.
func (c AutomodConfig) SuspensionDuration() time.Duration {
	return time.Duration(c.SuspensionSeconds) * time.Second
}

// Config stores the application configuration.
type Config struct {
	BotToken string
	Automod  AutomodConfig
}
