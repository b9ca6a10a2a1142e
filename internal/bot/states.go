package bot

import (
	"strings"

	"github.com/chocowow/promobot/internal/broadcast"
	"github.com/chocowow/promobot/internal/db"
)

type Phase string

const (
	PhaseCollectingCollection Phase = "collecting_collection"
	PhaseCollectingReceipts   Phase = "collecting_receipts"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
)

// Session is the per-user upload dialog state. It lives in memory only
// and is committed to the store on explicit confirmation, never before.
type Session struct {
	Phase         Phase
	CollectionIDs []string
	Receipts      []db.ReceiptFile
}

func NewSession() *Session {
	return &Session{
		Phase: PhaseCollectingCollection,
	}
}

func (s *Session) AddCollectionPhoto(fileID string) {
	s.CollectionIDs = append(s.CollectionIDs, fileID)
}

func (s *Session) AddReceipt(fileID string, kind string) {
	s.Receipts = append(s.Receipts, db.ReceiptFile{FileID: fileID, Kind: kind})
}

// Done advances the phase on a "done" signal. It returns false when the
// current accumulator is empty, in which case the phase must not change
// and the user is re-prompted.
func (s *Session) Done() bool {
	switch s.Phase {
	case PhaseCollectingCollection:
		if len(s.CollectionIDs) == 0 {
			return false
		}
		s.Phase = PhaseCollectingReceipts
		s.Receipts = nil
		return true

	case PhaseCollectingReceipts:
		if len(s.Receipts) == 0 {
			return false
		}
		s.Phase = PhaseAwaitingConfirmation
		return true
	}

	return false
}

// AcceptableReceiptDocument reports whether a document's declared MIME
// type passes as a purchase proof: pdf files and images. Every accepted
// document keeps the document kind regardless of MIME type, because a
// file_id uploaded as a document can only be re-sent as a document.
func AcceptableReceiptDocument(mimeType string) bool {
	return mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/")
}

const (
	StateEnteringRejectReason = "entering_reject_reason"
	StateChoosingSchedule     = "choosing_schedule"
	StateAwaitingSchedule     = "awaiting_schedule"
	StateAddingAdmin          = "adding_admin"
)

// AdminState holds one admin's dialog position: a pending rejection
// (the moderation case) or an in-flight broadcast/roster dialog.
type AdminState struct {
	Step string

	// moderation case, set while Step == StateEnteringRejectReason
	SubmissionID   int64
	TargetUserID   int64
	PanelMessageID int

	// pending broadcast, set while choosing or awaiting a schedule
	Job broadcast.Job
}
