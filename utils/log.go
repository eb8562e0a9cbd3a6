package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type LogLevel string

const (
	Info  LogLevel = "INFO"
	Warn  LogLevel = "WARN"
	Error LogLevel = "ERROR"
)

func getColor(level LogLevel) int {
	switch level {
	case Info:
		return 3066993 // Green
	case Warn:
		return 15105570 // Orange
	case Error:
		return 15158332 // Red
	default:
		return 3447003 // Blue
	}
}

// LogEmbed builds the level-colored operational log embed. Callers that
// hold a session use LogInfo below; the moderation notifier builds its
// failure reports from the same shape.
func LogEmbed(level LogLevel, module, operation, extraInfo string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: string(level) + " Log",
		Color: getColor(level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Module", Value: module},
			{Name: "Operation", Value: operation},
			{Name: "Details", Value: extraInfo},
		},
	}
}

func LogInfo(s *discordgo.Session, channelID, module, operation, extraInfo string) error {
	if channelID == "" {
		return nil
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, LogEmbed(Info, module, operation, extraInfo)); err != nil {
		return fmt.Errorf("failed to send log to channel %s: %w", channelID, err)
	}
	return nil
}
