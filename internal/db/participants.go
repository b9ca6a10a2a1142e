package db

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusBonus    = "bonus"
	StatusRejected = "rejected"
)

// Receipt file kinds. A pdf receipt has to be re-sent as a document,
// everything else goes out as a photo.
const (
	ReceiptKindPhoto    = "photo"
	ReceiptKindDocument = "document"
)

type ReceiptFile struct {
	FileID string `json:"file_id"`
	Kind   string `json:"kind"`
}

type Participant struct {
	ID                 int64   `db:"id"`
	UserID             int64   `db:"user_id"`
	Username           string  `db:"username"`
	CollectionPhotoIDs string  `db:"collection_photo_ids"`
	ReceiptFileIDs     string  `db:"receipt_file_ids"`
	Status             string  `db:"status"`
	RejectionReason    *string `db:"rejection_reason"`
}

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{
		db: db,
	}
}

func (r *ParticipantRepository) Exists(userID int64) (bool, error) {
	var count int

	err := r.db.Get(&count, `
	    SELECT COUNT(*) FROM participants
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return false, fmt.Errorf("ParticipantRepository.Exists: %w", err)
	}

	return count > 0, nil
}

// Upsert inserts a participant or replaces the file lists of an existing
// one. The status always goes back to pending, the row id is preserved
// across overwrites.
func (r *ParticipantRepository) Upsert(userID int64, username string, collectionIDs []string, receipts []ReceiptFile) (int64, error) {
	collectionJSON, err := json.Marshal(collectionIDs)
	if err != nil {
		return 0, fmt.Errorf("ParticipantRepository.Upsert: marshal collection: %w", err)
	}

	receiptsJSON, err := json.Marshal(receipts)
	if err != nil {
		return 0, fmt.Errorf("ParticipantRepository.Upsert: marshal receipts: %w", err)
	}

	var id int64

	err = r.db.Get(&id, `
	    INSERT INTO participants (user_id, username, collection_photo_ids, receipt_file_ids, status)
		VALUES ($1, $2, $3, $4, 'pending')
		ON CONFLICT (user_id) DO UPDATE SET
		    username = EXCLUDED.username,
			collection_photo_ids = EXCLUDED.collection_photo_ids,
			receipt_file_ids = EXCLUDED.receipt_file_ids,
			status = 'pending',
			rejection_reason = NULL
		RETURNING id
	`, userID, username, string(collectionJSON), string(receiptsJSON))
	if err != nil {
		return 0, fmt.Errorf("ParticipantRepository.Upsert: %w", err)
	}

	return id, nil
}

// UpdateStatus sets the moderation status. The rejection reason is kept
// for the audit trail only and is nil for every non-reject transition.
func (r *ParticipantRepository) UpdateStatus(userID int64, status string, rejectionReason *string) error {
	_, err := r.db.Exec(`
	    UPDATE participants
		SET status = $1, rejection_reason = $2
		WHERE user_id = $3
	`, status, rejectionReason, userID)
	if err != nil {
		return fmt.Errorf("ParticipantRepository.UpdateStatus: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) UserIDsWithStatus(statuses ...string) ([]int64, error) {
	query, args, err := sqlx.In(`
	    SELECT user_id FROM participants
		WHERE status IN (?)
	`, statuses)
	if err != nil {
		return nil, fmt.Errorf("ParticipantRepository.UserIDsWithStatus: %w", err)
	}

	var userIDs []int64

	err = r.db.Select(&userIDs, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("ParticipantRepository.UserIDsWithStatus: %w", err)
	}

	return userIDs, nil
}

// DumpAll returns column labels and rows for the CSV export.
func (r *ParticipantRepository) DumpAll() ([]string, [][]string, error) {
	var participants []Participant

	err := r.db.Select(&participants, `
	    SELECT id, user_id, username, collection_photo_ids, receipt_file_ids, status
		FROM participants
		ORDER BY id
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("ParticipantRepository.DumpAll: %w", err)
	}

	columns := []string{"id", "user_id", "username", "collection_photo_ids", "receipt_file_ids", "status"}

	rows := make([][]string, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID),
			fmt.Sprintf("%d", p.UserID),
			p.Username,
			p.CollectionPhotoIDs,
			p.ReceiptFileIDs,
			p.Status,
		})
	}

	return columns, rows, nil
}
