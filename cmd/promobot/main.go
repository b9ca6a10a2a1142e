package main

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"

	"github.com/chocowow/promobot/internal/bot"
	"github.com/chocowow/promobot/internal/broadcast"
	"github.com/chocowow/promobot/internal/config"
	"github.com/chocowow/promobot/internal/db"
	"github.com/chocowow/promobot/internal/files"
	"github.com/chocowow/promobot/internal/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	database, err := db.New(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer database.Close()

	err = db.RunMigrations(database.Conn, "db_scripts/init.sql")
	if err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Error creating telegram bot: %v", err)
	}

	participantRepo := db.NewParticipantRepository(database.Conn)
	adminRepo := db.NewAdminRepository(database.Conn)

	fileService := files.NewFileService(botAPI)
	mailService := mailer.New(cfg, fileService)

	send := func(chatID int64, text string) error {
		_, err := botAPI.Send(tgbotapi.NewMessage(chatID, text))
		return err
	}
	scheduler := broadcast.New(participantRepo, send)

	botService := bot.New(
		botAPI,
		participantRepo,
		adminRepo,
		fileService,
		mailService,
		scheduler,
		cfg,
	)

	log.Printf("Bot started as @%s", botAPI.Self.UserName)

	botService.Start()
}
