package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken           string
	MainAdminID        int64
	ResultsChannelLink string

	DBUser     string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string

	SMTPEmail     string
	SMTPPassword  string
	ReceiverEmail string
	SMTPServer    string
	SMTPPort      string

	ScheduleLocation *time.Location
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("config.Load: no .env file found - using env variables")
	}

	cfg := &Config{
		BotToken:           os.Getenv("BOT_TOKEN"),
		ResultsChannelLink: os.Getenv("RESULTS_CHANNEL_LINK"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		SMTPEmail:          os.Getenv("SMTP_EMAIL"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		ReceiverEmail:      os.Getenv("RECEIVER_EMAIL"),
		SMTPServer:         os.Getenv("EMAIL_SMTP_SERVER"),
		SMTPPort:           os.Getenv("EMAIL_SMTP_PORT"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("config.Load: BOT_TOKEN is required")
	}

	rawMainAdminID := os.Getenv("MAIN_ADMIN_ID")
	if rawMainAdminID == "" {
		return nil, fmt.Errorf("config.Load: MAIN_ADMIN_ID is required")
	}

	mainAdminID, err := strconv.ParseInt(rawMainAdminID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config.Load: MAIN_ADMIN_ID must be a number: %w", err)
	}
	cfg.MainAdminID = mainAdminID

	if cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("config.Load: DB_USER, DB_PASSWORD, DB_NAME are required")
	}

	if cfg.DBHost == "" {
		cfg.DBHost = "localhost"
	}

	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}

	if cfg.SMTPPort == "" {
		cfg.SMTPPort = "587"
	}

	if cfg.ResultsChannelLink == "" {
		log.Printf("config.Load: RESULTS_CHANNEL_LINK is not set, results broadcast needs an explicit link")
	}

	tzName := os.Getenv("SCHEDULE_TZ")
	if tzName == "" {
		tzName = "Europe/Moscow"
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("config.Load: invalid SCHEDULE_TZ %q: %w", tzName, err)
	}
	cfg.ScheduleLocation = loc

	return cfg, nil
}
