package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"automod-bot/utils"
)

func (b *Bot) Run() {
	err := b.Session.Open()
	if err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	b.RefreshCommands()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	utils.LogInfo(b.Session, b.GetConfig().Automod.AuditLogChannelID, "System", "Startup", "AutoMod bot has started successfully.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
