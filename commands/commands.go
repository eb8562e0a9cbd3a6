package commands

import "github.com/bwmarrin/discordgo"

// GenerateCommands returns the application commands the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "automod-status",
			Description: "Show moderation pipeline and host status",
		},
	}
}
