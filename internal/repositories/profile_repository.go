package repositories

import (
	"context"
	"database/sql"
	"errors"

	"utrippin/internal/domain/models"
)

const profileColumns = `id, COALESCE(email,''), COALESCE(age,0), COALESCE(bio,''), COALESCE(location,''),
	COALESCE(profile_photo_url,''), COALESCE(preferred_destinations,''), COALESCE(travel_style,''),
	COALESCE(interests,''), COALESCE(languages_spoken,''), COALESCE(budget_range_min,0),
	COALESCE(budget_range_max,0), public_profile, verified`

// ProfileRepository reads traveler profiles and stores swipes and matches.
type ProfileRepository struct {
	DB *sql.DB
}

func (r ProfileRepository) db() (*sql.DB, error) {
	return pick(r.DB)
}

func scanProfile(s scanner) (models.TravelerProfile, error) {
	var (
		p                      models.TravelerProfile
		dests, interests, lang string
	)
	err := s.Scan(&p.ID, &p.Email, &p.Age, &p.Bio, &p.Location, &p.ProfilePhotoURL, &dests,
		&p.TravelStyle, &interests, &lang, &p.BudgetMin, &p.BudgetMax, &p.PublicProfile, &p.Verified)
	if err != nil {
		return models.TravelerProfile{}, err
	}
	p.PreferredDestinations = decodeList(dests)
	p.Interests = decodeList(interests)
	p.LanguagesSpoken = decodeList(lang)
	return p, nil
}

func (r ProfileRepository) GetProfile(ctx context.Context, id string) (models.TravelerProfile, error) {
	db, err := r.db()
	if err != nil {
		return models.TravelerProfile{}, err
	}
	return scanProfile(db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM traveler_profiles WHERE id = ? LIMIT 1`, id))
}

// ListPublicProfiles returns candidate profiles other than excludeID.
func (r ProfileRepository) ListPublicProfiles(ctx context.Context, excludeID string, limit int) ([]models.TravelerProfile, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+profileColumns+` FROM traveler_profiles
		WHERE public_profile = 1 AND id <> ? ORDER BY verified DESC, id ASC LIMIT ?`,
		excludeID, clampLimit(limit, 200, 1000))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TravelerProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r ProfileRepository) SaveProfile(ctx context.Context, p models.TravelerProfile) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO traveler_profiles (id, email, age, bio, location, profile_photo_url, preferred_destinations,
			travel_style, interests, languages_spoken, budget_range_min, budget_range_max, public_profile, verified)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE email=VALUES(email), age=VALUES(age), bio=VALUES(bio), location=VALUES(location),
			profile_photo_url=VALUES(profile_photo_url), preferred_destinations=VALUES(preferred_destinations),
			travel_style=VALUES(travel_style), interests=VALUES(interests), languages_spoken=VALUES(languages_spoken),
			budget_range_min=VALUES(budget_range_min), budget_range_max=VALUES(budget_range_max),
			public_profile=VALUES(public_profile)`,
		p.ID, p.Email, p.Age, p.Bio, p.Location, p.ProfilePhotoURL, encodeList(p.PreferredDestinations),
		p.TravelStyle, encodeList(p.Interests), encodeList(p.LanguagesSpoken), p.BudgetMin, p.BudgetMax,
		p.PublicProfile, p.Verified)
	return err
}

// RecordSwipe stores or replaces the swiper's decision about swiped.
func (r ProfileRepository) RecordSwipe(ctx context.Context, s models.Swipe) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO buddy_swipes (swiper_id, swiped_id, liked, created_at) VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE liked=VALUES(liked), created_at=VALUES(created_at)`,
		s.SwiperID, s.SwipedID, s.Liked, s.CreatedAt)
	return err
}

func (r ProfileRepository) HasLiked(ctx context.Context, swiperID, swipedID string) (bool, error) {
	db, err := r.db()
	if err != nil {
		return false, err
	}
	var liked bool
	err = db.QueryRowContext(ctx, `SELECT liked FROM buddy_swipes WHERE swiper_id=? AND swiped_id=? LIMIT 1`,
		swiperID, swipedID).Scan(&liked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return liked, err
}

// CreateMatch stores the pair once; UserA < UserB is expected.
func (r ProfileRepository) CreateMatch(ctx context.Context, m models.BuddyMatch) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT IGNORE INTO buddy_matches (id, user_a, user_b, created_at) VALUES (?,?,?,?)`,
		m.ID, m.UserA, m.UserB, m.CreatedAt)
	return err
}

func (r ProfileRepository) ListMatches(ctx context.Context, userID string) ([]models.BuddyMatch, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT id, user_a, user_b, created_at FROM buddy_matches
		WHERE user_a = ? OR user_b = ? ORDER BY created_at DESC`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BuddyMatch{}
	for rows.Next() {
		var m models.BuddyMatch
		if err := rows.Scan(&m.ID, &m.UserA, &m.UserB, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
