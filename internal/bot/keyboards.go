package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func StartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Участвовать в розыгрыше", "start_submission"),
		),
	)
}

func RestartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Да, перезаписать заявку", "start_submission"),
		),
	)
}

func CancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Отменить подачу заявки", "cancel_submission"),
		),
	)
}

func ConfirmationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да, все верно", "confirm_yes"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Нет, заполнить заново", "confirm_no"),
		),
	)
}

func DoneKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Готово"),
		),
	)
	keyboard.ResizeKeyboard = true

	return keyboard
}

func AdminPanelKeyboard(isMainAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Выгрузить базу (CSV)", "admin_panel:get_db"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 Напоминание", "admin_panel:send_reminder"),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Результаты", "admin_panel:send_results"),
		),
	}

	if isMainAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👑 Управление администраторами", "admin_panel:manage_admins"),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func AdminManagementKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Добавить админа", "admin_manage:add"),
			tgbotapi.NewInlineKeyboardButtonData("➖ Удалить админа", "admin_manage:remove"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Список админов", "admin_manage:list"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад в админ-панель", "admin_manage:back_to_panel"),
		),
	)
}

// RemoveAdminKeyboard lists the removable admins, one button per chat id.
// The main admin is never on it.
func RemoveAdminKeyboard(admins []AdminEntry) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, admin := range admins {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("❌ %s", admin.Name),
				removeAdminCallbackData(admin.ChatID),
			),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "admin_manage:back_to_management"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func ModerationKeyboard(submissionID, userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", moderationCallbackData(DecisionApprove, submissionID, userID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", moderationCallbackData(DecisionReject, submissionID, userID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎁 С доп. призом", moderationCallbackData(DecisionBonus, submissionID, userID)),
		),
	)
}

func RejectionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Отклонить без причины", "reject_no_reason"),
		),
	)
}

func ScheduleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Отправить сейчас", "send_now"),
			tgbotapi.NewInlineKeyboardButtonData("Запланировать", "send_schedule"),
		),
	)
}
