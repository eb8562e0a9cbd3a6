package handlers

import (
	"log"

	"automod-bot/bot"
	"automod-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
		auditChannelID := b.GetConfig().Automod.AuditLogChannelID
		if auditChannelID != "" {
			if err := utils.LogInfo(s, auditChannelID, "System", "Ready", "Gateway connection established."); err != nil {
				log.Printf("Failed to send ready log: %v", err)
			}
		}
	})

	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.Orchestrator.HandleMessage(m)
	})

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		switch i.ApplicationCommandData().Name {
		case "automod-status":
			StatusHandler(s, i, b)
		}
	})
}
