package repositories

import (
	"context"
	"database/sql"
	"strings"

	intdb "utrippin/internal/db"
	"utrippin/internal/domain/models"
)

const tripColumns = `t.id, t.user_id, t.title, t.destination, COALESCE(t.country,''),
	COALESCE(DATE_FORMAT(t.start_date,'%Y-%m-%d'),''), COALESCE(DATE_FORMAT(t.end_date,'%Y-%m-%d'),''),
	COALESCE(t.duration_days,0), t.budget, t.currency, COALESCE(t.trip_type,''), t.status,
	t.is_public, t.looking_for_buddies, t.max_buddies, t.ai_generated, COALESCE(t.ai_prompt,''),
	t.itinerary_json, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM trip_participants p WHERE p.trip_id = t.id AND p.status = 'confirmed')`

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() (*sql.DB, error) {
	return pick(r.DB)
}

func scanTrip(s scanner) (models.Trip, error) {
	var (
		t         models.Trip
		budget    sql.NullFloat64
		itinerary []byte
	)
	err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Destination, &t.Country,
		&t.StartDate, &t.EndDate,
		&t.DurationDays, &budget, &t.Currency, &t.TripType, &t.Status,
		&t.Public, &t.LookingForBuddies, &t.MaxBuddies, &t.AIGenerated, &t.AIPrompt,
		&itinerary, &t.CreatedAt, &t.UpdatedAt,
		&t.ParticipantsCount,
	)
	if err != nil {
		return models.Trip{}, err
	}
	t.Budget = intdb.FloatPtr(budget)
	if len(itinerary) > 0 {
		t.Itinerary = append([]byte(nil), itinerary...)
	}
	if t.MaxBuddies <= 0 {
		t.MaxBuddies = models.DefaultMaxBuddies
	}
	t.SpotsAvailable = t.MaxBuddies - t.ParticipantsCount
	if t.SpotsAvailable < 0 {
		t.SpotsAvailable = 0
	}
	return t, nil
}

func (r TripRepository) Create(ctx context.Context, t models.Trip) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO trips (id, user_id, title, destination, country, start_date, end_date, duration_days,
			budget, currency, trip_type, status, is_public, looking_for_buddies, max_buddies,
			ai_generated, ai_prompt, itinerary_json, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.UserID, t.Title, t.Destination, intdb.NullIfEmpty(t.Country),
		intdb.NullIfEmpty(t.StartDate), intdb.NullIfEmpty(t.EndDate), t.DurationDays,
		intdb.NullFloat(t.Budget), t.Currency, intdb.NullIfEmpty(t.TripType), t.Status,
		t.Public, t.LookingForBuddies, t.MaxBuddies,
		t.AIGenerated, intdb.NullIfEmpty(t.AIPrompt), jsonOrNull(t.Itinerary), t.CreatedAt, t.UpdatedAt,
	)
	return mapWriteErr(err)
}

func (r TripRepository) GetByID(ctx context.Context, id string) (models.Trip, error) {
	db, err := r.db()
	if err != nil {
		return models.Trip{}, err
	}
	row := db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips t WHERE t.id = ? LIMIT 1`, id)
	return scanTrip(row)
}

// Update rewrites the mutable columns of a trip.
func (r TripRepository) Update(ctx context.Context, t models.Trip) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE trips SET title=?, destination=?, country=?, start_date=?, end_date=?, duration_days=?,
			budget=?, currency=?, trip_type=?, status=?, is_public=?, looking_for_buddies=?, max_buddies=?,
			ai_generated=?, ai_prompt=?, itinerary_json=?, updated_at=?
		WHERE id=?`,
		t.Title, t.Destination, intdb.NullIfEmpty(t.Country), intdb.NullIfEmpty(t.StartDate),
		intdb.NullIfEmpty(t.EndDate), t.DurationDays, intdb.NullFloat(t.Budget), t.Currency,
		intdb.NullIfEmpty(t.TripType), t.Status, t.Public, t.LookingForBuddies, t.MaxBuddies,
		t.AIGenerated, intdb.NullIfEmpty(t.AIPrompt), jsonOrNull(t.Itinerary), t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r TripRepository) Delete(ctx context.Context, id string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trip_participants WHERE trip_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM buddy_requests WHERE trip_id=?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE id=?`, id)
	if err != nil {
		return err
	}
	if err := mustAffect(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (r TripRepository) ListByUser(ctx context.Context, userID string) ([]models.Trip, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+tripColumns+` FROM trips t WHERE t.user_id = ? ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrips(rows)
}

// ListPublic returns public trips looking for buddies, newest first.
func (r TripRepository) ListPublic(ctx context.Context, f models.TripFilters) ([]models.Trip, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	where := []string{"t.is_public = 1", "t.looking_for_buddies = 1"}
	args := []any{}
	if v := strings.TrimSpace(f.Destination); v != "" {
		where = append(where, "LOWER(t.destination) LIKE ?")
		args = append(args, "%"+strings.ToLower(v)+"%")
	}
	if v := strings.TrimSpace(f.Country); v != "" {
		where = append(where, "LOWER(t.country) = ?")
		args = append(args, strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.StartDate); v != "" {
		where = append(where, "t.start_date >= ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(f.EndDate); v != "" {
		where = append(where, "t.end_date <= ?")
		args = append(args, v)
	}
	if f.BudgetMin != nil {
		where = append(where, "t.budget >= ?")
		args = append(args, *f.BudgetMin)
	}
	if f.BudgetMax != nil {
		where = append(where, "t.budget <= ?")
		args = append(args, *f.BudgetMax)
	}
	if len(f.TripTypes) > 0 {
		where = append(where, "t.trip_type IN ("+intdb.Placeholders(len(f.TripTypes))+")")
		for _, tt := range f.TripTypes {
			args = append(args, tt)
		}
	}
	args = append(args, clampLimit(f.Limit, 20, 100), max(f.Offset, 0))

	query := `SELECT ` + tripColumns + ` FROM trips t WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY t.created_at DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrips(rows)
}

func collectTrips(rows *sql.Rows) ([]models.Trip, error) {
	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SearchDestinations returns distinct public destinations containing q.
func (r TripRepository) SearchDestinations(ctx context.Context, q string, limit int) ([]string, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT destination FROM trips
		WHERE is_public = 1 AND LOWER(destination) LIKE ?
		ORDER BY destination ASC LIMIT ?`,
		"%"+strings.ToLower(strings.TrimSpace(q))+"%", clampLimit(limit, 10, 50))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r TripRepository) PopularDestinations(ctx context.Context, limit int) ([]models.DestinationCount, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT destination, COUNT(*) AS c FROM trips
		WHERE is_public = 1 AND destination <> 'TBD'
		GROUP BY destination
		ORDER BY c DESC, destination ASC LIMIT ?`, clampLimit(limit, 10, 50))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DestinationCount{}
	for rows.Next() {
		var d models.DestinationCount
		if err := rows.Scan(&d.Destination, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateApplication stores a buddy request; a second request from the same
// user for the same trip returns ErrDuplicate.
func (r TripRepository) CreateApplication(ctx context.Context, a models.TripApplication) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO buddy_requests (id, trip_id, from_user_id, to_user_id, message, status, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		a.ID, a.TripID, a.FromUser, a.ToUser, intdb.NullIfEmpty(a.Message), a.Status, a.CreatedAt)
	return mapWriteErr(err)
}
