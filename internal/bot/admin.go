package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/AlekSi/pointer"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/chocowow/promobot/internal/broadcast"
	"github.com/chocowow/promobot/internal/db"
	"github.com/chocowow/promobot/internal/export"
)

type AdminEntry struct {
	ChatID int64
	Name   string
}

func (s *Service) isAdmin(chatID int64) bool {
	if chatID == s.mainAdminID {
		return true
	}

	ok, err := s.adminRepo.IsAdmin(chatID)
	if err != nil {
		log.Printf("cannot check admin rights for %d: %v", chatID, err)
		return false
	}

	return ok
}

func (s *Service) isMainAdmin(chatID int64) bool {
	return chatID == s.mainAdminID
}

func (s *Service) requireAdmin(chatID int64) bool {
	if s.isAdmin(chatID) {
		return true
	}

	s.sendText(chatID, "У вас нет прав.")
	return false
}

// adminChatIDs returns the roster plus the implicit main admin, deduped.
func (s *Service) adminChatIDs() []int64 {
	ids := []int64{s.mainAdminID}

	admins, err := s.adminRepo.GetAll()
	if err != nil {
		log.Printf("cannot load admin roster: %v", err)
		return ids
	}

	for _, admin := range admins {
		if admin.ChatID == s.mainAdminID {
			continue
		}
		ids = append(ids, admin.ChatID)
	}

	return ids
}

// adminDisplayName resolves a chat to something readable, falling back
// to the raw id when the lookup fails.
func (s *Service) adminDisplayName(chatID int64) string {
	chat, err := s.botAPI.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return strconv.FormatInt(chatID, 10)
	}

	if chat.UserName != "" {
		return "@" + chat.UserName
	}

	name := strings.TrimSpace(chat.FirstName + " " + chat.LastName)
	if name == "" {
		return strconv.FormatInt(chatID, 10)
	}

	return name
}

// notifyAdminsAboutSubmission fans the freshly committed submission out
// to every admin. Delivery to each admin is independent: one failure is
// logged and the rest still go out. The email relay runs concurrently
// and never blocks the fan-out.
func (s *Service) notifyAdminsAboutSubmission(submissionID, userID int64, username string, collectionIDs []string, receipts []db.ReceiptFile) {
	header := fmt.Sprintf(
		"Новая заявка №%d\nОт: @%s (ID: %d)\nФото коллекции: %d, чеков: %d\nВыберите действие:",
		submissionID, username, userID, len(collectionIDs), len(receipts),
	)
	keyboard := ModerationKeyboard(submissionID, userID)

	for _, adminID := range s.adminChatIDs() {
		if err := s.sendSubmissionBundle(adminID, header, keyboard, collectionIDs, receipts); err != nil {
			log.Printf("cannot deliver submission %d to admin %d: %v", submissionID, adminID, err)
		}
	}

	go func() {
		caption := fmt.Sprintf("Новая заявка №%d от @%s (ID: %d)", submissionID, username, userID)

		fileIDs := make([]string, 0, len(collectionIDs)+len(receipts))
		fileIDs = append(fileIDs, collectionIDs...)
		for _, r := range receipts {
			fileIDs = append(fileIDs, r.FileID)
		}

		if err := s.mailer.SendSubmission(caption, fileIDs); err != nil {
			log.Printf("cannot relay submission %d by email: %v", submissionID, err)
		}
	}()
}

func (s *Service) sendSubmissionBundle(adminID int64, header string, keyboard tgbotapi.InlineKeyboardMarkup, collectionIDs []string, receipts []db.ReceiptFile) error {
	for i, chunk := range ChunkFileIDs(collectionIDs, 10) {
		if len(chunk) == 1 {
			// a media group needs at least two items
			photo := tgbotapi.NewPhoto(adminID, tgbotapi.FileID(chunk[0]))
			if i == 0 {
				photo.Caption = "Фото коллекции"
			}
			if _, err := s.botAPI.Send(photo); err != nil {
				log.Printf("cannot send collection photo to admin %d: %v", adminID, err)
			}
			continue
		}

		var media []interface{}
		for j, fileID := range chunk {
			photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(fileID))
			if i == 0 && j == 0 {
				photo.Caption = "Фото коллекции"
			}
			media = append(media, photo)
		}

		group := tgbotapi.MediaGroupConfig{ChatID: adminID, Media: media}
		if _, err := s.botAPI.SendMediaGroup(group); err != nil {
			log.Printf("cannot send collection media group to admin %d: %v", adminID, err)
		}
	}

	// a failed attachment must not block the control panel, without it
	// the submission cannot be moderated at all
	for _, receipt := range receipts {
		var err error
		if receipt.Kind == db.ReceiptKindDocument {
			doc := tgbotapi.NewDocument(adminID, tgbotapi.FileID(receipt.FileID))
			doc.Caption = "Чек"
			_, err = s.botAPI.Send(doc)
		} else {
			photo := tgbotapi.NewPhoto(adminID, tgbotapi.FileID(receipt.FileID))
			photo.Caption = "Чек"
			_, err = s.botAPI.Send(photo)
		}
		if err != nil {
			log.Printf("cannot send receipt %s to admin %d: %v", receipt.FileID, adminID, err)
		}
	}

	panel := tgbotapi.NewMessage(adminID, header)
	panel.ReplyMarkup = keyboard
	if _, err := s.botAPI.Send(panel); err != nil {
		return fmt.Errorf("control panel: %w", err)
	}

	return nil
}

func (s *Service) handleAdminCallback(cb *tgbotapi.CallbackQuery, parsed Callback) {
	adminChatID := cb.Message.Chat.ID

	if !s.isAdmin(cb.From.ID) {
		s.botAPI.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "У вас нет прав."))
		return
	}

	s.botAPI.Request(tgbotapi.NewCallback(cb.ID, ""))

	switch parsed.Kind {
	case ActionModerate:
		if parsed.Decision == DecisionReject {
			s.startRejectDialog(cb, parsed)
			return
		}
		s.applyDecision(cb, parsed)

	case ActionRejectNoReason:
		state, ok := s.adminStates[adminChatID]
		if !ok || state.Step != StateEnteringRejectReason {
			s.sendText(adminChatID, "Нет заявки в ожидании причины отклонения.")
			return
		}
		s.finalizeRejection(adminChatID, state, "")

	case ActionPanelExport:
		s.handleExport(adminChatID)

	case ActionPanelReminder:
		s.startBroadcastDialog(adminChatID, broadcast.Job{Kind: broadcast.JobReminder, RequestedBy: adminChatID})

	case ActionPanelResults:
		if s.resultsLink == "" {
			s.sendText(adminChatID, "Ссылка на результаты не настроена. Используйте /sendresults <ссылка>.")
			return
		}
		s.startBroadcastDialog(adminChatID, broadcast.Job{Kind: broadcast.JobResults, Link: s.resultsLink, RequestedBy: adminChatID})

	case ActionPanelManageAdmins:
		if !s.requireMainAdminCallback(cb) {
			return
		}
		s.editToManagement(adminChatID, cb.Message.MessageID)

	case ActionManageAdd:
		if !s.requireMainAdminCallback(cb) {
			return
		}
		s.adminStates[adminChatID] = &AdminState{Step: StateAddingAdmin}
		s.sendText(adminChatID, "Введите числовой ID нового администратора:")

	case ActionManageRemove:
		if !s.requireMainAdminCallback(cb) {
			return
		}
		s.showRemovableAdmins(adminChatID, cb.Message.MessageID)

	case ActionManageList:
		if !s.requireMainAdminCallback(cb) {
			return
		}
		s.sendAdminList(adminChatID)

	case ActionManageBackToPanel:
		edit := tgbotapi.NewEditMessageTextAndMarkup(adminChatID, cb.Message.MessageID,
			"Панель администратора:", AdminPanelKeyboard(s.isMainAdmin(cb.From.ID)))
		s.botAPI.Send(edit)

	case ActionManageBackToManagement:
		s.editToManagement(adminChatID, cb.Message.MessageID)

	case ActionRemoveAdmin:
		if !s.requireMainAdminCallback(cb) {
			return
		}
		s.handleRemoveAdmin(adminChatID, cb.Message.MessageID, parsed.TargetID)

	case ActionSendNow:
		state, ok := s.adminStates[adminChatID]
		if !ok || state.Step != StateChoosingSchedule {
			s.sendText(adminChatID, "Нет рассылки в ожидании. Начните заново.")
			return
		}
		delete(s.adminStates, adminChatID)

		count, err := s.scheduler.Run(state.Job)
		if err != nil {
			log.Printf("broadcast %s failed: %v", state.Job.Kind, err)
			s.sendText(adminChatID, "Произошла ошибка при рассылке.")
			return
		}
		s.sendText(adminChatID, fmt.Sprintf("Рассылка завершена. Отправлено %d сообщений.", count))

	case ActionSendSchedule:
		state, ok := s.adminStates[adminChatID]
		if !ok || state.Step != StateChoosingSchedule {
			s.sendText(adminChatID, "Нет рассылки в ожидании. Начните заново.")
			return
		}
		state.Step = StateAwaitingSchedule
		s.sendText(adminChatID, "Введите дату и время в формате ДД.ММ.ГГГГ ЧЧ:ММ (например, 15.07.2025 18:00):")

	default:
		log.Printf("unhandled admin callback %d from %d", parsed.Kind, cb.From.ID)
	}
}

func (s *Service) requireMainAdminCallback(cb *tgbotapi.CallbackQuery) bool {
	if s.isMainAdmin(cb.From.ID) {
		return true
	}

	s.botAPI.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Доступно только главному администратору."))
	return false
}

func (s *Service) editToManagement(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID,
		"Управление администраторами:", AdminManagementKeyboard())
	s.botAPI.Send(edit)
}

func (s *Service) applyDecision(cb *tgbotapi.CallbackQuery, parsed Callback) {
	adminChatID := cb.Message.Chat.ID

	var status, userText, panelText string
	switch parsed.Decision {
	case DecisionApprove:
		status = db.StatusApproved
		userText = "Поздравляем! Вы стали участником розыгрыша!"
		panelText = fmt.Sprintf("✅ Заявка №%d ПОДТВЕРЖДЕНА.", parsed.SubmissionID)
	case DecisionBonus:
		status = db.StatusBonus
		userText = "Поздравляем! Вам доступен гарантированный приз! " +
			"Пожалуйста, отправьте ваши ФИО, адрес и номер телефона для доставки."
		panelText = fmt.Sprintf("✅ Заявка №%d ПОДТВЕРЖДЕНА С БОНУСОМ.", parsed.SubmissionID)
	default:
		return
	}

	if err := s.participantRepo.UpdateStatus(parsed.UserID, status, nil); err != nil {
		log.Printf("cannot update status for user %d: %v", parsed.UserID, err)
		s.sendText(adminChatID, "Ошибка при обновлении статуса заявки.")
		return
	}

	if err := s.sendText(parsed.UserID, userText); err != nil {
		log.Printf("cannot notify user %d: %v", parsed.UserID, err)
		s.sendText(adminChatID, fmt.Sprintf("⚠️ Не удалось уведомить пользователя %d.", parsed.UserID))
	}

	s.finalizePanel(adminChatID, cb.Message.MessageID, panelText)
}

func (s *Service) startRejectDialog(cb *tgbotapi.CallbackQuery, parsed Callback) {
	adminChatID := cb.Message.Chat.ID

	s.adminStates[adminChatID] = &AdminState{
		Step:           StateEnteringRejectReason,
		SubmissionID:   parsed.SubmissionID,
		TargetUserID:   parsed.UserID,
		PanelMessageID: cb.Message.MessageID,
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(adminChatID, cb.Message.MessageID,
		fmt.Sprintf("Заявка №%d: отправьте причину отклонения сообщением или отклоните без причины.", parsed.SubmissionID),
		RejectionKeyboard())
	if _, err := s.botAPI.Send(edit); err != nil {
		log.Printf("cannot edit panel for reject dialog: %v", err)
	}
}

func (s *Service) handleRejectReason(adminChatID int64, text string, state *AdminState) {
	if text == "" {
		s.sendText(adminChatID, "Причина не может быть пустой. Отправьте текст или отклоните без причины.")
		return
	}

	s.finalizeRejection(adminChatID, state, text)
}

// finalizeRejection resolves a pending moderation case. An empty reason
// means the "reject without reason" shortcut.
func (s *Service) finalizeRejection(adminChatID int64, state *AdminState, reason string) {
	delete(s.adminStates, adminChatID)

	var reasonPtr *string
	if reason != "" {
		reasonPtr = pointer.ToString(reason)
	}

	if err := s.participantRepo.UpdateStatus(state.TargetUserID, db.StatusRejected, reasonPtr); err != nil {
		log.Printf("cannot reject submission %d: %v", state.SubmissionID, err)
		s.sendText(adminChatID, "Ошибка при обновлении статуса заявки.")
		return
	}

	userText := "Ваше участие не подтверждено. Попробуйте снова: /start"
	panelText := fmt.Sprintf("❌ Заявка №%d ОТКЛОНЕНА без указания причины.", state.SubmissionID)
	if reason != "" {
		userText = fmt.Sprintf("Ваше участие не подтверждено. Причина: %s\nПопробуйте снова: /start", reason)
		panelText = fmt.Sprintf("❌ Заявка №%d ОТКЛОНЕНА. Причина указана.", state.SubmissionID)
	}

	if err := s.sendText(state.TargetUserID, userText); err != nil {
		log.Printf("cannot notify user %d: %v", state.TargetUserID, err)
		s.sendText(adminChatID, fmt.Sprintf("⚠️ Не удалось уведомить пользователя %d.", state.TargetUserID))
	}

	s.finalizePanel(adminChatID, state.PanelMessageID, panelText)
}

// finalizePanel rewrites the admin's control panel to its terminal text
// with the buttons removed. "message is not modified" means another
// admin already finalized their copy concurrently and is swallowed.
func (s *Service) finalizePanel(adminChatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(adminChatID, messageID, text)

	if _, err := s.botAPI.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			log.Printf("panel %d in chat %d already finalized", messageID, adminChatID)
			return
		}

		log.Printf("cannot finalize panel %d in chat %d: %v", messageID, adminChatID, err)
		s.sendText(adminChatID, "⚠️ Не удалось обновить сообщение заявки.")
	}
}

func (s *Service) handleExport(chatID int64) {
	s.sendText(chatID, "Подготовка данных пользователей...")

	columns, rows, err := s.participantRepo.DumpAll()
	if err != nil {
		log.Printf("cannot dump participants: %v", err)
		s.sendText(chatID, "Произошла ошибка при получении данных.")
		return
	}

	if len(rows) == 0 {
		s.sendText(chatID, "В базе данных пока нет участников.")
		return
	}

	data, err := export.ParticipantsCSV(columns, rows, s.fileService)
	if err != nil {
		log.Printf("cannot build participants csv: %v", err)
		s.sendText(chatID, "Произошла ошибка при формировании файла.")
		return
	}

	fileName := fmt.Sprintf("participants_%s.csv", time.Now().In(s.scheduleLoc).Format("02 01 2006 15_04"))

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: data})
	doc.Caption = "Вот база данных всех участников:"
	if _, err := s.botAPI.Send(doc); err != nil {
		log.Printf("cannot send participants csv: %v", err)
		s.sendText(chatID, "Не удалось отправить файл.")
	}
}

func (s *Service) startBroadcastDialog(chatID int64, job broadcast.Job) {
	s.adminStates[chatID] = &AdminState{Step: StateChoosingSchedule, Job: job}

	msg := tgbotapi.NewMessage(chatID, "Отправить сейчас или запланировать?")
	msg.ReplyMarkup = ScheduleKeyboard()
	s.botAPI.Send(msg)
}

// handleScheduleInput consumes the timestamp for a scheduled broadcast.
// A malformed timestamp aborts the dialog, there is no retry prompt.
func (s *Service) handleScheduleInput(chatID int64, text string, state *AdminState) {
	delete(s.adminStates, chatID)

	at, err := ParseScheduleTime(text, s.scheduleLoc)
	if err != nil {
		s.sendText(chatID, "Неверный формат даты. Ожидается ДД.ММ.ГГГГ ЧЧ:ММ (например, 15.07.2025 18:00). Рассылка не запланирована.")
		return
	}

	s.scheduler.ScheduleAt(state.Job, at)
	s.sendText(chatID, fmt.Sprintf("Рассылка запланирована на %s.", at.Format(scheduleLayout)))
}

func (s *Service) handleAddingAdmin(chatID int64, text string) {
	newChatID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		s.sendText(chatID, "Некорректный ID. Введите числовой ID пользователя:")
		return
	}

	delete(s.adminStates, chatID)

	if err := s.adminRepo.Add(newChatID); err != nil {
		log.Printf("cannot add admin %d: %v", newChatID, err)
		s.sendText(chatID, "Ошибка при добавлении администратора.")
		return
	}

	if err := s.sendText(newChatID, "Вам выданы права администратора бота."); err != nil {
		log.Printf("cannot notify new admin %d: %v", newChatID, err)
	}

	s.refreshAdminCommands()
	s.sendText(chatID, fmt.Sprintf("Администратор %d добавлен.", newChatID))

	msg := tgbotapi.NewMessage(chatID, "Управление администраторами:")
	msg.ReplyMarkup = AdminManagementKeyboard()
	s.botAPI.Send(msg)
}

func (s *Service) handleRemoveAdmin(chatID int64, messageID int, targetID int64) {
	if targetID == s.mainAdminID {
		s.sendText(chatID, "Нельзя удалить главного администратора.")
		return
	}

	if err := s.adminRepo.Remove(targetID); err != nil {
		log.Printf("cannot remove admin %d: %v", targetID, err)
		s.sendText(chatID, "Ошибка при удалении администратора.")
		return
	}

	if err := s.sendText(targetID, "Ваши права администратора бота отозваны."); err != nil {
		log.Printf("cannot notify removed admin %d: %v", targetID, err)
	}

	s.refreshAdminCommands()
	s.sendText(chatID, fmt.Sprintf("Администратор %d удален.", targetID))
	s.showRemovableAdmins(chatID, messageID)
}

func (s *Service) showRemovableAdmins(chatID int64, messageID int) {
	admins, err := s.adminRepo.GetAll()
	if err != nil {
		log.Printf("cannot load admin roster: %v", err)
		s.sendText(chatID, "Ошибка при получении списка администраторов.")
		return
	}

	var entries []AdminEntry
	for _, admin := range admins {
		if admin.ChatID == s.mainAdminID {
			continue
		}
		entries = append(entries, AdminEntry{ChatID: admin.ChatID, Name: s.adminDisplayName(admin.ChatID)})
	}

	text := "Выберите администратора для удаления:"
	if len(entries) == 0 {
		text = "Кроме главного администратора никого нет."
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, RemoveAdminKeyboard(entries))
	if _, err := s.botAPI.Send(edit); err != nil {
		log.Printf("cannot show removable admins: %v", err)
	}
}

func (s *Service) sendAdminList(chatID int64) {
	lines := []string{
		fmt.Sprintf("👑 %s (главный)", s.adminDisplayName(s.mainAdminID)),
	}

	admins, err := s.adminRepo.GetAll()
	if err != nil {
		log.Printf("cannot load admin roster: %v", err)
		s.sendText(chatID, "Ошибка при получении списка администраторов.")
		return
	}

	for _, admin := range admins {
		if admin.ChatID == s.mainAdminID {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s", s.adminDisplayName(admin.ChatID)))
	}

	s.sendText(chatID, "Администраторы:\n"+strings.Join(lines, "\n"))
}
