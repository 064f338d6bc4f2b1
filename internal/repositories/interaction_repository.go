package repositories

import (
	"context"
	"database/sql"

	intdb "utrippin/internal/db"
	"utrippin/internal/domain/models"
)

// InteractionRepository stores the activity log and search history.
type InteractionRepository struct {
	DB *sql.DB
}

func (r InteractionRepository) db() (*sql.DB, error) {
	return pick(r.DB)
}

func (r InteractionRepository) LogActivity(ctx context.Context, a models.UserActivity) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO user_activity_log (id, user_id, activity_type, activity_data, created_at)
		VALUES (?,?,?,?,?)`,
		a.ID, a.UserID, a.ActivityType, jsonOrNull(a.ActivityData), a.CreatedAt)
	return err
}

func (r InteractionRepository) ListActivity(ctx context.Context, userID string, limit int) ([]models.UserActivity, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, activity_type, activity_data, created_at FROM user_activity_log
		WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, clampLimit(limit, 50, 200))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.UserActivity{}
	for rows.Next() {
		var (
			a    models.UserActivity
			data []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.ActivityType, &data, &a.CreatedAt); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			a.ActivityData = append([]byte(nil), data...)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r InteractionRepository) RecordSearch(ctx context.Context, s models.SearchRecord) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO search_history (id, user_id, search_type, destination, check_in_date, check_out_date,
			travelers, rooms, search_data, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		s.ID, intdb.NullIfEmpty(s.UserID), s.SearchType, intdb.NullIfEmpty(s.Destination),
		intdb.NullIfEmpty(s.CheckInDate), intdb.NullIfEmpty(s.CheckOutDate), s.Travelers, s.Rooms,
		jsonOrNull(s.SearchData), s.CreatedAt)
	return err
}

// ListSearches returns a user's recent searches, optionally of one type.
func (r InteractionRepository) ListSearches(ctx context.Context, userID, searchType string, limit int) ([]models.SearchRecord, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	query := `SELECT id, COALESCE(user_id,''), search_type, COALESCE(destination,''),
			COALESCE(DATE_FORMAT(check_in_date,'%Y-%m-%d'),''), COALESCE(DATE_FORMAT(check_out_date,'%Y-%m-%d'),''),
			COALESCE(travelers,0), COALESCE(rooms,0), search_data, created_at
		FROM search_history WHERE user_id = ?`
	args := []any{userID}
	if searchType != "" {
		query += ` AND search_type = ?`
		args = append(args, searchType)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, clampLimit(limit, 20, 100))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SearchRecord{}
	for rows.Next() {
		var (
			s    models.SearchRecord
			data []byte
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.SearchType, &s.Destination, &s.CheckInDate, &s.CheckOutDate,
			&s.Travelers, &s.Rooms, &data, &s.CreatedAt); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			s.SearchData = append([]byte(nil), data...)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
