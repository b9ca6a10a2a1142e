package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"github.com/chocowow/promobot/internal/config"
)

// Downloader resolves a Telegram file id to its content.
type Downloader interface {
	Download(fileID string) ([]byte, string, error)
}

// Mailer relays submission bundles to a fixed mailbox over SMTP.
// Everything here is best-effort: the caller logs the returned error
// and moves on.
type Mailer struct {
	from       string
	password   string
	to         string
	server     string
	port       string
	downloader Downloader
}

func New(cfg *config.Config, downloader Downloader) *Mailer {
	return &Mailer{
		from:       cfg.SMTPEmail,
		password:   cfg.SMTPPassword,
		to:         cfg.ReceiverEmail,
		server:     cfg.SMTPServer,
		port:       cfg.SMTPPort,
		downloader: downloader,
	}
}

func (m *Mailer) Configured() bool {
	return m.from != "" && m.password != "" && m.to != "" && m.server != ""
}

type attachment struct {
	name    string
	content []byte
}

// SendSubmission downloads every file and sends one multi-attachment
// message. Files that fail to download are skipped with a log line.
func (m *Mailer) SendSubmission(caption string, fileIDs []string) error {
	if !m.Configured() {
		log.Printf("Mailer.SendSubmission: email settings incomplete, skipping")
		return nil
	}

	var attachments []attachment
	for _, fileID := range fileIDs {
		content, name, err := m.downloader.Download(fileID)
		if err != nil {
			log.Printf("Mailer.SendSubmission: cannot attach file %s: %v", fileID, err)
			continue
		}
		attachments = append(attachments, attachment{name: name, content: content})
	}

	msg, err := buildMessage(m.from, m.to, "Новая заявка ChocoWow: "+caption, caption, attachments)
	if err != nil {
		return fmt.Errorf("Mailer.SendSubmission: %w", err)
	}

	auth := smtp.PlainAuth("", m.from, m.password, m.server)
	addr := m.server + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.from, []string{m.to}, msg); err != nil {
		return fmt.Errorf("Mailer.SendSubmission: %w", err)
	}

	return nil
}

func buildMessage(from, to, subject, body string, attachments []attachment) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")

	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("mailer.buildMessage: %w", err)
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("mailer.buildMessage: %w", err)
	}

	for _, att := range attachments {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", "application/octet-stream")
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", att.name))

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("mailer.buildMessage: %w", err)
		}

		encoded := base64.StdEncoding.EncodeToString(att.content)
		if _, err := part.Write([]byte(encoded)); err != nil {
			return nil, fmt.Errorf("mailer.buildMessage: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("mailer.buildMessage: %w", err)
	}

	return buf.Bytes(), nil
}
