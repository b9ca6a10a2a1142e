package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Admin struct {
	ID        int64     `db:"id"`
	ChatID    int64     `db:"chat_id"`
	CreatedAt time.Time `db:"created_at"`
}

type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{
		db: db,
	}
}

func (r *AdminRepository) GetAll() ([]Admin, error) {
	var admins []Admin

	err := r.db.Select(&admins, `
	    SELECT * FROM admins
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("AdminRepository.GetAll: %w", err)
	}

	return admins, nil
}

// Add is a no-op when the chat id is already on the roster.
func (r *AdminRepository) Add(chatID int64) error {
	_, err := r.db.Exec(`
	    INSERT INTO admins (chat_id) VALUES ($1)
		ON CONFLICT (chat_id) DO NOTHING
	`, chatID)
	if err != nil {
		return fmt.Errorf("AdminRepository.Add: %w", err)
	}

	return nil
}

func (r *AdminRepository) Remove(chatID int64) error {
	_, err := r.db.Exec(`
	    DELETE FROM admins
		WHERE chat_id = $1
	`, chatID)
	if err != nil {
		return fmt.Errorf("AdminRepository.Remove: %w", err)
	}

	return nil
}

func (r *AdminRepository) IsAdmin(chatID int64) (bool, error) {
	var count int

	err := r.db.Get(&count, `
	    SELECT COUNT(*) FROM admins
		WHERE chat_id = $1
	`, chatID)
	if err != nil {
		return false, fmt.Errorf("AdminRepository.IsAdmin: %w", err)
	}

	return count > 0, nil
}
