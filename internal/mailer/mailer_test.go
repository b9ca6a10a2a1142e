package mailer

import (
	"strings"
	"testing"
)

func TestBuildMessageCarriesBodyAndAttachments(t *testing.T) {
	atts := []attachment{
		{name: "file_1.jpg", content: []byte("jpeg bytes")},
		{name: "file_2.pdf", content: []byte("pdf bytes")},
	}

	msg, err := buildMessage("bot@example.com", "admin@example.com", "Новая заявка", "Заявка №1", atts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := string(msg)
	for _, want := range []string{
		"From: bot@example.com",
		"To: admin@example.com",
		"Subject: Новая заявка",
		"multipart/mixed",
		"Заявка №1",
		"filename=file_1.jpg",
		"filename=file_2.pdf",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("message misses %q", want)
		}
	}
}

func TestBuildMessageWithoutAttachments(t *testing.T) {
	msg, err := buildMessage("bot@example.com", "admin@example.com", "subject", "body", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(string(msg), "body") {
		t.Fatalf("body missing from message")
	}
}

func TestSendSubmissionSkipsWhenUnconfigured(t *testing.T) {
	m := &Mailer{}

	if err := m.SendSubmission("caption", []string{"file-1"}); err != nil {
		t.Fatalf("unconfigured mailer must be a silent no-op, got %v", err)
	}
}
