package main

import (
	"log"
	"os"

	"automod-bot/automod"
	"automod-bot/bot"
	"automod-bot/config"
	"automod-bot/handlers"
	"automod-bot/platform"
	"automod-bot/rules"
	"automod-bot/utils"
	"automod-bot/utils/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Operating without the durable ledger risks losing track of withheld
	// roles, so store failure here aborts startup.
	db, err := database.InitSuspensionDB(cfg.Automod.DatabasePath)
	if err != nil {
		log.Fatalf("Error initializing suspension database: %v", err)
	}

	badwords, err := utils.LoadBadwords(cfg.Automod.BadwordsFile)
	if err != nil {
		log.Fatalf("Error loading badwords list: %v", err)
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	client := platform.NewDiscordClient(b.Session)
	classifier := rules.NewClassifier(cfg.Automod, badwords)
	notifier := automod.NewNotifier(client, cfg.Automod.AuditLogChannelID)
	ledger := automod.NewLedger(database.NewSuspensionDB(db), cfg.Automod.SuspensionDuration())
	userLocks := utils.NewKeyedMutex()
	scheduler := automod.NewScheduler(client, ledger, notifier, userLocks)
	b.Scheduler = scheduler
	b.Orchestrator = automod.NewOrchestrator(client, classifier, notifier, ledger, scheduler, userLocks)

	// Re-adopt persisted suspensions before the gateway opens: past-due
	// restorations complete before any new message is processed.
	records, err := ledger.Load()
	if err != nil {
		log.Fatalf("Error loading suspension ledger: %v", err)
	}
	scheduler.Adopt(records)

	handlers.Register(b)

	defer b.Close()
	b.Run()
}
