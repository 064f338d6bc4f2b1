package db

import (
	"context"
	"database/sql"
	"fmt"
)

type table struct {
	name string
	ddl  string
}

var tables = []table{
	{"trips", `
CREATE TABLE IF NOT EXISTS trips (
	id CHAR(36) NOT NULL PRIMARY KEY,
	user_id CHAR(36) NOT NULL,
	title VARCHAR(255) NOT NULL DEFAULT 'New Trip',
	destination VARCHAR(255) NOT NULL DEFAULT 'TBD',
	country VARCHAR(120) NULL,
	start_date DATE NULL,
	end_date DATE NULL,
	duration_days INT NULL,
	budget DECIMAL(12,2) NULL,
	currency VARCHAR(3) NOT NULL DEFAULT 'USD',
	trip_type VARCHAR(50) NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'planning',
	is_public TINYINT(1) NOT NULL DEFAULT 1,
	looking_for_buddies TINYINT(1) NOT NULL DEFAULT 1,
	max_buddies INT NOT NULL DEFAULT 4,
	ai_generated TINYINT(1) NOT NULL DEFAULT 0,
	ai_prompt TEXT NULL,
	itinerary_json JSON NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_trips_user (user_id),
	KEY idx_trips_public (is_public, looking_for_buddies)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"trip_participants", `
CREATE TABLE IF NOT EXISTS trip_participants (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id CHAR(36) NOT NULL,
	user_id CHAR(36) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_trip_user (trip_id, user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"buddy_requests", `
CREATE TABLE IF NOT EXISTS buddy_requests (
	id CHAR(36) NOT NULL PRIMARY KEY,
	trip_id CHAR(36) NOT NULL,
	from_user_id CHAR(36) NOT NULL,
	to_user_id CHAR(36) NOT NULL,
	message TEXT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_trip_from (trip_id, from_user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"traveler_profiles", `
CREATE TABLE IF NOT EXISTS traveler_profiles (
	id CHAR(36) NOT NULL PRIMARY KEY,
	email VARCHAR(255) NULL,
	age INT NULL,
	bio TEXT NULL,
	location VARCHAR(255) NULL,
	profile_photo_url VARCHAR(512) NULL,
	preferred_destinations TEXT NULL,
	travel_style VARCHAR(50) NULL,
	interests TEXT NULL,
	languages_spoken TEXT NULL,
	budget_range_min DECIMAL(12,2) NULL,
	budget_range_max DECIMAL(12,2) NULL,
	public_profile TINYINT(1) NOT NULL DEFAULT 1,
	verified TINYINT(1) NOT NULL DEFAULT 0
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"buddy_swipes", `
CREATE TABLE IF NOT EXISTS buddy_swipes (
	swiper_id CHAR(36) NOT NULL,
	swiped_id CHAR(36) NOT NULL,
	liked TINYINT(1) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (swiper_id, swiped_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"buddy_matches", `
CREATE TABLE IF NOT EXISTS buddy_matches (
	id CHAR(36) NOT NULL PRIMARY KEY,
	user_a CHAR(36) NOT NULL,
	user_b CHAR(36) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_pair (user_a, user_b)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"api_usage_tracking", `
CREATE TABLE IF NOT EXISTS api_usage_tracking (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	api_provider VARCHAR(50) NOT NULL,
	endpoint VARCHAR(120) NOT NULL,
	month_year CHAR(7) NOT NULL,
	request_count BIGINT NOT NULL DEFAULT 0,
	total_cost DECIMAL(12,4) NOT NULL DEFAULT 0,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_usage (api_provider, endpoint, month_year)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"monthly_api_limits", `
CREATE TABLE IF NOT EXISTS monthly_api_limits (
	api_provider VARCHAR(50) NOT NULL,
	endpoint VARCHAR(120) NOT NULL,
	monthly_limit BIGINT NOT NULL,
	PRIMARY KEY (api_provider, endpoint)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"api_usage_alerts", `
CREATE TABLE IF NOT EXISTS api_usage_alerts (
	id CHAR(36) NOT NULL PRIMARY KEY,
	api_provider VARCHAR(50) NOT NULL,
	endpoint VARCHAR(120) NOT NULL,
	threshold_percentage DECIMAL(5,2) NOT NULL,
	alert_email VARCHAR(255) NOT NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	last_alert_sent TIMESTAMP NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"user_activity_log", `
CREATE TABLE IF NOT EXISTS user_activity_log (
	id CHAR(36) NOT NULL PRIMARY KEY,
	user_id CHAR(36) NOT NULL,
	activity_type VARCHAR(50) NOT NULL,
	activity_data JSON NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_activity_user (user_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"search_history", `
CREATE TABLE IF NOT EXISTS search_history (
	id CHAR(36) NOT NULL PRIMARY KEY,
	user_id CHAR(36) NULL,
	search_type VARCHAR(20) NOT NULL,
	destination VARCHAR(255) NULL,
	check_in_date DATE NULL,
	check_out_date DATE NULL,
	travelers INT NULL,
	rooms INT NULL,
	search_data JSON NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_search_user (user_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"cached_itineraries", `
CREATE TABLE IF NOT EXISTS cached_itineraries (
	cache_key VARCHAR(255) NOT NULL PRIMARY KEY,
	response_text TEXT NOT NULL,
	hit_count INT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
}

// EnsureSchema creates any missing table. Existing tables are left alone.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db not available")
	}
	for _, t := range tables {
		if HasTable(ctx, db, t.name) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create %s: %w", t.name, err)
		}
	}
	return nil
}

// TableNames lists the managed tables in creation order.
func TableNames() []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.name)
	}
	return out
}
