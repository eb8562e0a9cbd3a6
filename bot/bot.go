package bot

import (
	"log"
	"sync/atomic"
	"time"

	"automod-bot/automod"
	"automod-bot/commands"
	"automod-bot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	DB                 *sqlx.DB
	Orchestrator       *automod.Orchestrator
	Scheduler          *automod.Scheduler
	StartTime          time.Time
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	dg.Identify.Presence.Status = "invisible"

	b := &Bot{
		Session:   dg,
		DB:        db,
		StartTime: time.Now(),
	}
	b.config.Store(cfg)
	return b, nil
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	if b.Scheduler != nil {
		b.Scheduler.Stop()
	}
	b.Session.Close()
	if b.DB != nil {
		b.DB.Close()
	}
}

// RefreshCommands overwrites the bot's global application commands.
func (b *Bot) RefreshCommands() {
	cmds := commands.GenerateCommands()
	registeredCmds, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, "", cmds)
	if err != nil {
		log.Printf("cannot update application commands: %v", err)
		return
	}
	b.RegisteredCommands = append(b.RegisteredCommands, registeredCmds...)
}
