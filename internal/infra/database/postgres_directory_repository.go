package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xvolv/tenant/internal/domain/directory"
	"github.com/xvolv/tenant/internal/domain/notification"
)

// PostgresDirectoryRepository implements directory.Directory against the
// recipients table: an explicit owner -> chat mapping with a language
// preference. No connected-user scanning.
type PostgresDirectoryRepository struct {
	db *sql.DB
}

func NewPostgresDirectoryRepository(db *sql.DB) *PostgresDirectoryRepository {
	return &PostgresDirectoryRepository{db: db}
}

func (r *PostgresDirectoryRepository) ResolveRecipient(ctx context.Context, roomID string) (directory.RecipientHandle, error) {
	query := `SELECT rc.chat_id
	          FROM rooms rm
	          JOIN recipients rc ON rc.owner_id = rm.owner_id
	          WHERE rm.id = $1`
	var chatID int64
	err := r.db.QueryRowContext(ctx, query, roomID).Scan(&chatID)
	if err != nil {
		if err == sql.ErrNoRows {
			return directory.RecipientHandle{}, directory.ErrRecipientUnresolved
		}
		return directory.RecipientHandle{}, fmt.Errorf("error resolving recipient for room %s: %w", roomID, err)
	}
	return directory.RecipientHandle{ChatID: chatID}, nil
}

func (r *PostgresDirectoryRepository) LanguageOf(ctx context.Context, handle directory.RecipientHandle) (notification.Language, error) {
	var lang string
	err := r.db.QueryRowContext(ctx,
		`SELECT language FROM recipients WHERE chat_id = $1`, handle.ChatID,
	).Scan(&lang)
	if err != nil {
		if err == sql.ErrNoRows {
			return notification.LangEnglish, nil
		}
		return notification.LangEnglish, fmt.Errorf("error reading language preference: %w", err)
	}
	return notification.ParseLanguage(lang), nil
}
