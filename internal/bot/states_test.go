package bot

import (
	"testing"

	"github.com/chocowow/promobot/internal/db"
)

func TestSessionDoneWithoutPhotosDoesNotAdvance(t *testing.T) {
	s := NewSession()

	if s.Done() {
		t.Fatalf("expected Done to fail with empty collection")
	}
	if s.Phase != PhaseCollectingCollection {
		t.Fatalf("phase changed to %s", s.Phase)
	}
}

func TestSessionDoneAdvancesAndResetsReceipts(t *testing.T) {
	s := NewSession()
	s.AddCollectionPhoto("photo-1")
	s.AddCollectionPhoto("photo-2")
	s.Receipts = []db.ReceiptFile{{FileID: "stale", Kind: db.ReceiptKindPhoto}}

	if !s.Done() {
		t.Fatalf("expected Done to advance with %d photos", len(s.CollectionIDs))
	}
	if s.Phase != PhaseCollectingReceipts {
		t.Fatalf("expected receipts phase, got %s", s.Phase)
	}
	if len(s.Receipts) != 0 {
		t.Fatalf("receipts accumulator not reset: %v", s.Receipts)
	}
}

func TestSessionDoneWithoutReceiptsDoesNotAdvance(t *testing.T) {
	s := NewSession()
	s.AddCollectionPhoto("photo-1")
	s.Done()

	if s.Done() {
		t.Fatalf("expected Done to fail with empty receipts")
	}
	if s.Phase != PhaseCollectingReceipts {
		t.Fatalf("phase changed to %s", s.Phase)
	}

	s.AddReceipt("receipt-1", db.ReceiptKindPhoto)
	if !s.Done() {
		t.Fatalf("expected Done to advance with a receipt")
	}
	if s.Phase != PhaseAwaitingConfirmation {
		t.Fatalf("expected confirmation phase, got %s", s.Phase)
	}
}

func TestAcceptableReceiptDocument(t *testing.T) {
	if !AcceptableReceiptDocument("application/pdf") {
		t.Fatalf("pdf document rejected")
	}
	if !AcceptableReceiptDocument("image/jpeg") {
		t.Fatalf("jpeg document rejected")
	}
	if AcceptableReceiptDocument("application/zip") {
		t.Fatalf("zip document accepted as receipt")
	}
	if AcceptableReceiptDocument("") {
		t.Fatalf("empty mime type accepted as receipt")
	}
}
