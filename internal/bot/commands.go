package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SetupCommands registers the public command menu and the per-chat admin
// menu for every current admin.
func (s *Service) SetupCommands() {
	userCommands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Подать заявку на участие"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Отменить подачу заявки"},
	)
	if _, err := s.botAPI.Request(userCommands); err != nil {
		log.Printf("cannot set user commands: %v", err)
	}

	s.refreshAdminCommands()
}

// refreshAdminCommands re-registers the admin command menu for every
// chat on the current roster. Called at startup and after roster
// changes.
func (s *Service) refreshAdminCommands() {
	adminCommands := []tgbotapi.BotCommand{
		{Command: "admin", Description: "Открыть панель администратора"},
		{Command: "get_users_db", Description: "Выгрузить участников (CSV)"},
		{Command: "sendreminder", Description: "Рассылка напоминания"},
		{Command: "sendresults", Description: "Рассылка результатов"},
	}

	for _, adminID := range s.adminChatIDs() {
		cfg := tgbotapi.NewSetMyCommandsWithScope(
			tgbotapi.NewBotCommandScopeChat(adminID),
			adminCommands...,
		)
		if _, err := s.botAPI.Request(cfg); err != nil {
			log.Printf("cannot set commands for admin %d: %v", adminID, err)
		}
	}
}
