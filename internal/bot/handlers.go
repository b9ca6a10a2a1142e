package bot

import (
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/chocowow/promobot/internal/broadcast"
	"github.com/chocowow/promobot/internal/config"
	"github.com/chocowow/promobot/internal/db"
	"github.com/chocowow/promobot/internal/export"
	"github.com/chocowow/promobot/internal/files"
	"github.com/chocowow/promobot/internal/mailer"
)

// telegramClient is the slice of the bot API the service uses.
// *tgbotapi.BotAPI satisfies it.
type telegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
	GetChat(cfg tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type participantStore interface {
	Exists(userID int64) (bool, error)
	Upsert(userID int64, username string, collectionIDs []string, receipts []db.ReceiptFile) (int64, error)
	UpdateStatus(userID int64, status string, rejectionReason *string) error
	DumpAll() ([]string, [][]string, error)
}

type adminStore interface {
	GetAll() ([]db.Admin, error)
	Add(chatID int64) error
	Remove(chatID int64) error
	IsAdmin(chatID int64) (bool, error)
}

type Service struct {
	botAPI          telegramClient
	participantRepo participantStore
	adminRepo       adminStore
	fileService     export.URLResolver
	mailer          *mailer.Mailer
	scheduler       *broadcast.Scheduler

	mainAdminID int64
	resultsLink string
	scheduleLoc *time.Location

	sessions    map[int64]*Session
	adminStates map[int64]*AdminState
}

func New(
	botAPI *tgbotapi.BotAPI,
	participantRepo *db.ParticipantRepository,
	adminRepo *db.AdminRepository,
	fileService *files.FileService,
	mailer *mailer.Mailer,
	scheduler *broadcast.Scheduler,
	cfg *config.Config,
) *Service {
	return &Service{
		botAPI:          botAPI,
		participantRepo: participantRepo,
		adminRepo:       adminRepo,
		fileService:     fileService,
		mailer:          mailer,
		scheduler:       scheduler,
		mainAdminID:     cfg.MainAdminID,
		resultsLink:     cfg.ResultsChannelLink,
		scheduleLoc:     cfg.ScheduleLocation,
		sessions:        make(map[int64]*Session),
		adminStates:     make(map[int64]*AdminState),
	}
}

func (s *Service) Start() {
	s.SetupCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.botAPI.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			s.handleCallback(update.CallbackQuery)
		case update.Message != nil:
			s.handleMessage(update.Message)
		}
	}
}

func (s *Service) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.IsCommand() {
		s.handleCommand(message)
		return
	}

	if state, ok := s.adminStates[chatID]; ok {
		switch state.Step {
		case StateEnteringRejectReason:
			s.handleRejectReason(chatID, message.Text, state)
			return
		case StateAwaitingSchedule:
			s.handleScheduleInput(chatID, message.Text, state)
			return
		case StateAddingAdmin:
			s.handleAddingAdmin(chatID, message.Text)
			return
		case StateChoosingSchedule:
			s.sendText(chatID, "Выберите вариант кнопками выше.")
			return
		}
	}

	session, ok := s.sessions[chatID]
	if !ok {
		s.sendGreeting(chatID)
		return
	}

	switch session.Phase {
	case PhaseCollectingCollection:
		s.handleCollectionMessage(chatID, message, session)
	case PhaseCollectingReceipts:
		s.handleReceiptMessage(chatID, message, session)
	case PhaseAwaitingConfirmation:
		s.sendText(chatID, "Пожалуйста, подтвердите заявку кнопками выше.")
	default:
		log.Printf("Unknown phase %s for chatID %d", session.Phase, chatID)
		delete(s.sessions, chatID)
		s.sendGreeting(chatID)
	}
}

func (s *Service) handleCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		delete(s.sessions, chatID)
		delete(s.adminStates, chatID)
		s.sendGreeting(chatID)

	case "cancel":
		if _, ok := s.sessions[chatID]; !ok {
			s.sendText(chatID, "Сейчас нечего отменять.")
			return
		}
		delete(s.sessions, chatID)
		s.sendCancelConfirmation(chatID)

	case "admin":
		if !s.requireAdmin(chatID) {
			return
		}
		msg := tgbotapi.NewMessage(chatID, "Панель администратора:")
		msg.ReplyMarkup = AdminPanelKeyboard(s.isMainAdmin(chatID))
		if _, err := s.botAPI.Send(msg); err != nil {
			log.Printf("cannot send admin panel to %d: %v", chatID, err)
		}

	case "get_users_db":
		if !s.requireAdmin(chatID) {
			return
		}
		s.handleExport(chatID)

	case "sendreminder":
		if !s.requireAdmin(chatID) {
			return
		}
		s.startBroadcastDialog(chatID, broadcast.Job{Kind: broadcast.JobReminder, RequestedBy: chatID})

	case "sendresults":
		if !s.requireAdmin(chatID) {
			return
		}
		link := message.CommandArguments()
		if link == "" {
			link = s.resultsLink
		}
		if link == "" {
			s.sendText(chatID, "Укажите ссылку на результаты: /sendresults <ссылка>")
			return
		}
		s.startBroadcastDialog(chatID, broadcast.Job{Kind: broadcast.JobResults, Link: link, RequestedBy: chatID})

	default:
		s.sendText(chatID, "Неизвестная команда. Нажмите /start, чтобы подать заявку.")
	}
}

func (s *Service) sendGreeting(chatID int64) {
	exists, err := s.participantRepo.Exists(chatID)
	if err != nil {
		log.Printf("cannot check existing submission for %d: %v", chatID, err)
	}

	if exists {
		msg := tgbotapi.NewMessage(chatID,
			"У вас уже есть заявка. Новая заявка полностью заменит предыдущую. Продолжить?")
		msg.ReplyMarkup = RestartKeyboard()
		s.botAPI.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID,
		"Привет! 👋 Чтобы принять участие в розыгрыше призов от ChocoWow, "+
			"тебе нужно сфотографировать свою коллекцию ChocoWow игрушек "+
			"и чеки о покупке.\n\n"+
			"Нажми «Участвовать в розыгрыше» для начала:")
	msg.ReplyMarkup = StartKeyboard()
	s.botAPI.Send(msg)
}

func (s *Service) sendCancelConfirmation(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Подача заявки отменена.")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	s.botAPI.Send(msg)

	restart := tgbotapi.NewMessage(chatID, "Вы можете начать заново, нажав «Участвовать в розыгрыше».")
	restart.ReplyMarkup = StartKeyboard()
	s.botAPI.Send(restart)
}

func (s *Service) handleCollectionMessage(chatID int64, message *tgbotapi.Message, session *Session) {
	if message.Text == "Готово" {
		if !session.Done() {
			s.sendText(chatID, "Вы еще не отправили ни одной фотографии коллекции.")
			return
		}

		msg := tgbotapi.NewMessage(chatID,
			"Теперь отправь мне фото чеков, подтверждающих покупку ChocoWow. "+
				"Можно отправить фото или PDF-файл. Когда закончите, нажмите «Готово».")
		msg.ReplyMarkup = CancelKeyboard()
		s.botAPI.Send(msg)
		return
	}

	if len(message.Photo) > 0 {
		// best-quality size is last
		session.AddCollectionPhoto(message.Photo[len(message.Photo)-1].FileID)
		s.sendTransient(chatID, fmt.Sprintf("Фото добавлено (%d).", len(session.CollectionIDs)))
		return
	}

	s.sendText(chatID, "Пожалуйста, отправьте фотографию вашей коллекции или нажмите «Готово».")
}

func (s *Service) handleReceiptMessage(chatID int64, message *tgbotapi.Message, session *Session) {
	if message.Text == "Готово" {
		if !session.Done() {
			s.sendText(chatID, "Вы еще не отправили ни одного чека.")
			return
		}

		accepted := tgbotapi.NewMessage(chatID, "Принято!")
		accepted.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		s.botAPI.Send(accepted)

		summary := tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"Проверьте заявку:\nФото коллекции: %d\nЧеки: %d\n\nВсе верно?",
			len(session.CollectionIDs), len(session.Receipts)))
		summary.ReplyMarkup = ConfirmationKeyboard()
		s.botAPI.Send(summary)
		return
	}

	if len(message.Photo) > 0 {
		session.AddReceipt(message.Photo[len(message.Photo)-1].FileID, db.ReceiptKindPhoto)
		s.sendTransient(chatID, fmt.Sprintf("Чек добавлен (%d).", len(session.Receipts)))
		return
	}

	if message.Document != nil {
		if !AcceptableReceiptDocument(message.Document.MimeType) {
			s.sendText(chatID, "Этот тип файла не похож на чек. Отправьте фото чека или PDF-файл.")
			return
		}

		session.AddReceipt(message.Document.FileID, db.ReceiptKindDocument)
		s.sendTransient(chatID, fmt.Sprintf("Чек добавлен (%d).", len(session.Receipts)))
		return
	}

	s.sendText(chatID, "Пожалуйста, отправьте фото чека или PDF-файл, либо нажмите «Готово».")
}

func (s *Service) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}

	parsed, err := ParseCallback(cb.Data)
	if err != nil {
		log.Printf("cannot parse callback from %d: %v", cb.From.ID, err)
		s.botAPI.Request(tgbotapi.NewCallback(cb.ID, ""))
		return
	}

	switch parsed.Kind {
	case ActionStartSubmission:
		s.botAPI.Request(tgbotapi.NewCallback(cb.ID, ""))
		s.handleStartSubmission(cb)
	case ActionConfirmYes:
		s.botAPI.Request(tgbotapi.NewCallback(cb.ID, ""))
		s.handleConfirm(cb)
	case ActionConfirmNo:
		s.botAPI.Request(tgbotapi.NewCallback(cb.ID, ""))
		s.handleDecline(cb)
	case ActionCancelSubmission:
		s.handleCancelCallback(cb)
	default:
		s.handleAdminCallback(cb, parsed)
	}
}

func (s *Service) handleStartSubmission(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	s.sessions[chatID] = NewSession()

	edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID,
		"Отлично! Сначала отправь мне фото своей коллекции ChocoWow игрушек. Можно несколько.")
	if _, err := s.botAPI.Send(edit); err != nil {
		log.Printf("cannot edit start message for %d: %v", chatID, err)
	}

	msg := tgbotapi.NewMessage(chatID, "Когда закончите, нажмите «Готово». Отменить можно командой /cancel.")
	msg.ReplyMarkup = DoneKeyboard()
	s.botAPI.Send(msg)
}

func (s *Service) handleConfirm(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	session, ok := s.sessions[chatID]
	if !ok || session.Phase != PhaseAwaitingConfirmation {
		s.sendText(chatID, "Заявка уже обработана. Нажмите /start, чтобы подать новую.")
		return
	}

	username := cb.From.UserName
	if username == "" {
		username = fmt.Sprintf("id_%d", userID)
	}

	collectionIDs := session.CollectionIDs
	receipts := session.Receipts

	// the session is discarded whether or not the commit succeeds
	delete(s.sessions, chatID)

	submissionID, err := s.participantRepo.Upsert(userID, username, collectionIDs, receipts)
	if err != nil {
		log.Printf("cannot save submission for user %d: %v", userID, err)
		s.sendText(chatID, "Произошла ошибка при обработке вашей заявки. Пожалуйста, попробуйте снова: /start")
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID,
		"Спасибо! Ваша заявка принята и будет рассмотрена администратором.")
	if _, err := s.botAPI.Send(edit); err != nil {
		log.Printf("cannot edit confirmation message for %d: %v", chatID, err)
	}

	s.notifyAdminsAboutSubmission(submissionID, userID, username, collectionIDs, receipts)
}

func (s *Service) handleDecline(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	delete(s.sessions, chatID)

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
		"Хорошо, начнем заново. Нажмите «Участвовать в розыгрыше»:", StartKeyboard())
	if _, err := s.botAPI.Send(edit); err != nil {
		log.Printf("cannot edit decline message for %d: %v", chatID, err)
	}
}

// handleCancelCallback answers the callback only after the session
// check, so a stale cancel button does not show a false confirmation.
func (s *Service) handleCancelCallback(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	if _, ok := s.sessions[chatID]; !ok {
		s.botAPI.Request(tgbotapi.NewCallback(cb.ID, ""))
		return
	}
	delete(s.sessions, chatID)

	s.botAPI.Request(tgbotapi.NewCallbackWithAlert(cb.ID, "Подача заявки отменена."))
	s.sendCancelConfirmation(chatID)
}

func (s *Service) sendText(chatID int64, text string) error {
	if _, err := s.botAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("bot.sendText: %w", err)
	}
	return nil
}

// sendTransient shows a short acknowledgment and removes it after a
// couple of seconds. Removal is cosmetic: a failure is only logged.
func (s *Service) sendTransient(chatID int64, text string) {
	sent, err := s.botAPI.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		log.Printf("cannot send transient message to %d: %v", chatID, err)
		return
	}

	time.AfterFunc(2*time.Second, func() {
		if _, err := s.botAPI.Request(tgbotapi.NewDeleteMessage(chatID, sent.MessageID)); err != nil {
			log.Printf("cannot delete transient message %d in chat %d: %v", sent.MessageID, chatID, err)
		}
	})
}
