package config

import (
	"fmt"
	"log"
	"os"

	"automod-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from environment variables and the automod
// config file.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	automod, err := loadAutomodConfig()
	if err != nil {
		return nil, err
	}

	if automod.AuditLogChannelID == "" {
		log.Println("Warning: audit_log_channel_id not set, audit logging will be disabled")
	}

	return &model.Config{
		BotToken: token,
		Automod:  automod,
	}, nil
}

// loadAutomodConfig reads data/automod.yaml. Missing keys fall back to the
// defaults below; a missing file is tolerated so the bot can start with a
// bare .env during first setup.
func loadAutomodConfig() (model.AutomodConfig, error) {
	v := viper.New()
	v.SetConfigName("automod")
	v.SetConfigType("yaml")
	v.AddConfigPath("data")
	v.AddConfigPath(".")

	v.SetDefault("automod.enable_badwords_filter", true)
	v.SetDefault("automod.enable_invite_filter", true)
	v.SetDefault("automod.enable_antilink_filter", false)
	v.SetDefault("automod.enable_caps_filter", true)
	v.SetDefault("automod.enable_repeat_filter", true)
	v.SetDefault("automod.badwords_file", "data/badwords.txt")
	v.SetDefault("automod.suspension_seconds", 30)
	v.SetDefault("automod.audit_log_channel_id", "")
	v.SetDefault("automod.database_path", "data/suspensions.db")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return model.AutomodConfig{}, fmt.Errorf("failed to read automod config: %w", err)
		}
		log.Println("Warning: automod.yaml not found, using default automod settings")
	}

	var cfg model.AutomodConfig
	if err := v.UnmarshalKey("automod", &cfg); err != nil {
		return model.AutomodConfig{}, fmt.Errorf("failed to unmarshal automod config: %w", err)
	}

	if cfg.SuspensionSeconds <= 0 {
		log.Printf("Warning: invalid suspension_seconds %d, using default of 30", cfg.SuspensionSeconds)
		cfg.SuspensionSeconds = 30
	}

	return cfg, nil
}
