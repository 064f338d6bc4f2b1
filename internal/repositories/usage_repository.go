package repositories

import (
	"context"
	"database/sql"
	"math"
	"time"

	"utrippin/internal/domain/models"
)

// UsageRepository tracks vendor API usage and the alert configs on top of it.
type UsageRepository struct {
	DB *sql.DB
}

func (r UsageRepository) db() (*sql.DB, error) {
	return pick(r.DB)
}

// TrackCall adds one call and its cost to the month bucket.
func (r UsageRepository) TrackCall(ctx context.Context, provider, endpoint, month string, cost float64) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO api_usage_tracking (api_provider, endpoint, month_year, request_count, total_cost)
		VALUES (?,?,?,1,?)
		ON DUPLICATE KEY UPDATE request_count = request_count + 1, total_cost = total_cost + VALUES(total_cost)`,
		provider, endpoint, month, cost)
	return err
}

// MonthlySummary joins usage with the configured limits. Endpoints without a
// limit report a zero limit and zero percentage.
func (r UsageRepository) MonthlySummary(ctx context.Context, month string) ([]models.UsageSummary, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT u.api_provider, u.endpoint, u.month_year, u.request_count, COALESCE(l.monthly_limit,0), u.total_cost
		FROM api_usage_tracking u
		LEFT JOIN monthly_api_limits l ON l.api_provider = u.api_provider AND l.endpoint = u.endpoint
		WHERE u.month_year = ?
		ORDER BY u.api_provider ASC, u.endpoint ASC`, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.UsageSummary{}
	for rows.Next() {
		var s models.UsageSummary
		if err := rows.Scan(&s.Provider, &s.Endpoint, &s.MonthYear, &s.CurrentUsage, &s.MonthlyLimit, &s.TotalCost); err != nil {
			return nil, err
		}
		out = append(out, completeSummary(s))
	}
	return out, rows.Err()
}

func completeSummary(s models.UsageSummary) models.UsageSummary {
	if s.MonthlyLimit > 0 {
		s.UsagePercentage = math.Round(float64(s.CurrentUsage)/float64(s.MonthlyLimit)*10000) / 100
		s.RemainingCalls = max(s.MonthlyLimit-s.CurrentUsage, 0)
	}
	return s
}

func (r UsageRepository) ListAlerts(ctx context.Context, activeOnly bool) ([]models.UsageAlert, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	query := `SELECT id, api_provider, endpoint, threshold_percentage, alert_email, is_active, last_alert_sent, created_at
		FROM api_usage_alerts`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.UsageAlert{}
	for rows.Next() {
		var (
			a    models.UsageAlert
			last sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.Provider, &a.Endpoint, &a.ThresholdPercentage, &a.AlertEmail,
			&a.IsActive, &last, &a.CreatedAt); err != nil {
			return nil, err
		}
		if last.Valid {
			t := last.Time
			a.LastAlertSent = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r UsageRepository) CreateAlert(ctx context.Context, a models.UsageAlert) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO api_usage_alerts (id, api_provider, endpoint, threshold_percentage, alert_email, is_active, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		a.ID, a.Provider, a.Endpoint, a.ThresholdPercentage, a.AlertEmail, a.IsActive, a.CreatedAt)
	return mapWriteErr(err)
}

func (r UsageRepository) DeactivateAlert(ctx context.Context, id string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `UPDATE api_usage_alerts SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r UsageRepository) MarkAlertSent(ctx context.Context, id string, at time.Time) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE api_usage_alerts SET last_alert_sent = ? WHERE id = ?`, at, id)
	return err
}
