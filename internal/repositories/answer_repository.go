package repositories

import (
	"context"
	"database/sql"
	"errors"
)

// AnswerRepository is the cached_itineraries table used by the chat assistant.
type AnswerRepository struct {
	DB *sql.DB
}

func (r AnswerRepository) db() (*sql.DB, error) {
	return pick(r.DB)
}

// FindAnswer returns the cached answer for key and bumps its hit counter.
func (r AnswerRepository) FindAnswer(ctx context.Context, key string) (string, bool, error) {
	db, err := r.db()
	if err != nil {
		return "", false, err
	}
	var text string
	err = db.QueryRowContext(ctx, `SELECT response_text FROM cached_itineraries WHERE cache_key = ? LIMIT 1`, key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	_, _ = db.ExecContext(ctx, `UPDATE cached_itineraries SET hit_count = hit_count + 1 WHERE cache_key = ?`, key)
	return text, true, nil
}

func (r AnswerRepository) SaveAnswer(ctx context.Context, key, answer string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO cached_itineraries (cache_key, response_text) VALUES (?,?)
		ON DUPLICATE KEY UPDATE response_text = VALUES(response_text)`, key, answer)
	return err
}
