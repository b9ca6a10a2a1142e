package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/chocowow/promobot/internal/db"
)

func TestImageDocumentReceiptKeepsDocumentKind(t *testing.T) {
	api := &fakeTelegram{}
	s := newModerationService(api, &fakeParticipants{})

	session := NewSession()
	session.AddCollectionPhoto("c-1")
	session.Done()
	s.sessions[555] = session

	msg := &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 555},
		Document: &tgbotapi.Document{FileID: "doc-1", MimeType: "image/png"},
	}
	s.handleReceiptMessage(555, msg, session)

	if len(session.Receipts) != 1 {
		t.Fatalf("receipt not recorded: %v", session.Receipts)
	}
	if session.Receipts[0].Kind != db.ReceiptKindDocument {
		t.Fatalf("image document tagged %q, want %q", session.Receipts[0].Kind, db.ReceiptKindDocument)
	}
}

func TestReceiptDocumentWithUnknownMimeIsRefused(t *testing.T) {
	api := &fakeTelegram{}
	s := newModerationService(api, &fakeParticipants{})

	session := NewSession()
	session.AddCollectionPhoto("c-1")
	session.Done()
	s.sessions[555] = session

	msg := &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 555},
		Document: &tgbotapi.Document{FileID: "doc-1", MimeType: "application/zip"},
	}
	s.handleReceiptMessage(555, msg, session)

	if len(session.Receipts) != 0 {
		t.Fatalf("zip document accepted: %v", session.Receipts)
	}
	if session.Phase != PhaseCollectingReceipts {
		t.Fatalf("phase changed to %s", session.Phase)
	}
}

func cancelCallback(chatID int64) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb-cancel",
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{MessageID: 42, Chat: &tgbotapi.Chat{ID: chatID}},
	}
}

func TestStaleCancelButtonShowsNoConfirmation(t *testing.T) {
	api := &fakeTelegram{}
	s := newModerationService(api, &fakeParticipants{})

	s.handleCancelCallback(cancelCallback(555))

	if len(api.requests) != 1 {
		t.Fatalf("expected the callback to be answered once, got %d", len(api.requests))
	}
	answer, ok := api.requests[0].(tgbotapi.CallbackConfig)
	if !ok {
		t.Fatalf("unexpected request type %T", api.requests[0])
	}
	if answer.ShowAlert || answer.Text != "" {
		t.Errorf("stale cancel confirmed: alert=%v text=%q", answer.ShowAlert, answer.Text)
	}
	if len(api.messagesTo(555)) != 0 {
		t.Errorf("stale cancel sent messages: %v", api.messagesTo(555))
	}
}

func TestCancelButtonClearsActiveSession(t *testing.T) {
	api := &fakeTelegram{}
	s := newModerationService(api, &fakeParticipants{})
	s.sessions[555] = NewSession()

	s.handleCancelCallback(cancelCallback(555))

	if _, ok := s.sessions[555]; ok {
		t.Fatalf("session not cleared")
	}

	if len(api.requests) != 1 {
		t.Fatalf("expected the callback to be answered once, got %d", len(api.requests))
	}
	answer, ok := api.requests[0].(tgbotapi.CallbackConfig)
	if !ok {
		t.Fatalf("unexpected request type %T", api.requests[0])
	}
	if !answer.ShowAlert || answer.Text != "Подача заявки отменена." {
		t.Errorf("cancel not confirmed: alert=%v text=%q", answer.ShowAlert, answer.Text)
	}
}
