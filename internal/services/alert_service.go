package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
	"utrippin/internal/metrics"
	"utrippin/internal/repositories"
	"utrippin/internal/utils"
)

const (
	SeverityCritical = "CRITICAL"
	SeverityWarning  = "WARNING"

	criticalPercentage   = 90
	highUsagePercentage  = 80
	defaultAlertCooldown = 24 * time.Hour
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type UsageStore interface {
	UsageRecorder
	MonthlySummary(ctx context.Context, month string) ([]models.UsageSummary, error)
	ListAlerts(ctx context.Context, activeOnly bool) ([]models.UsageAlert, error)
	CreateAlert(ctx context.Context, a models.UsageAlert) error
	DeactivateAlert(ctx context.Context, id string) error
	MarkAlertSent(ctx context.Context, id string, at time.Time) error
}

type AlertNotifier interface {
	Configured() bool
	PublishAlert(ctx context.Context, n models.AlertNotification) error
}

type AlertService struct {
	Repo      UsageStore
	Notifier  AlertNotifier
	Cooldown  time.Duration
	RequestID string
	Now       func() time.Time
	NewID     func() string
}

// AlertCheckResult is the outcome of one alert sweep.
type AlertCheckResult struct {
	AlertsChecked      int                   `json:"alerts_checked"`
	AlertsSent         int                   `json:"alerts_sent"`
	HighUsageAPIs      []models.UsageSummary `json:"high_usage_apis"`
	NotifierConfigured bool                  `json:"notifier_configured"`
	Timestamp          time.Time             `json:"timestamp"`
}

type AlertInput struct {
	Provider            string  `json:"provider"`
	Endpoint            string  `json:"endpoint"`
	ThresholdPercentage float64 `json:"threshold_percentage"`
	AlertEmail          string  `json:"alert_email"`
}

func (s AlertService) repo() UsageStore {
	if s.Repo != nil {
		return s.Repo
	}
	return repositories.UsageRepository{}
}

func (s AlertService) cooldown() time.Duration {
	if s.Cooldown > 0 {
		return s.Cooldown
	}
	return defaultAlertCooldown
}

func (s AlertService) notifierConfigured() bool {
	return s.Notifier != nil && s.Notifier.Configured()
}

// Severity grades a usage percentage.
func Severity(percentage float64) string {
	if percentage >= criticalPercentage {
		return SeverityCritical
	}
	return SeverityWarning
}

// ShouldFire reports whether an alert is due for the given usage.
func ShouldFire(a models.UsageAlert, usage models.UsageSummary, now time.Time, cooldown time.Duration) bool {
	if !a.IsActive || usage.UsagePercentage < a.ThresholdPercentage {
		return false
	}
	return a.LastAlertSent == nil || now.Sub(*a.LastAlertSent) >= cooldown
}

func (s AlertService) TrackAPICall(ctx context.Context, provider, endpoint string, cost float64) error {
	provider, endpoint = strings.TrimSpace(provider), strings.TrimSpace(endpoint)
	if provider == "" {
		return domain.ValidationError{Field: "provider", Msg: "is required"}
	}
	if endpoint == "" {
		return domain.ValidationError{Field: "endpoint", Msg: "is required"}
	}
	if cost < 0 {
		return domain.ValidationError{Field: "cost", Msg: "must not be negative"}
	}
	if err := s.repo().TrackCall(ctx, provider, endpoint, utils.MonthKey(nowOr(s.Now)), cost); err != nil {
		return domain.InternalError{Msg: "failed to track usage", Err: err}
	}
	return nil
}

// MonthlyUsageSummary defaults to the current month.
func (s AlertService) MonthlyUsageSummary(ctx context.Context, month string) ([]models.UsageSummary, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		month = utils.MonthKey(nowOr(s.Now))
	}
	if !monthPattern.MatchString(month) {
		return nil, domain.ValidationError{Field: "month", Msg: "must be YYYY-MM"}
	}
	out, err := s.repo().MonthlySummary(ctx, month)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load usage", Err: err}
	}
	return out, nil
}

// CheckAlerts compares this month's usage with every active alert and
// publishes the ones that are due. Only published alerts are stamped.
func (s AlertService) CheckAlerts(ctx context.Context) (AlertCheckResult, error) {
	now := nowOr(s.Now)
	res := AlertCheckResult{
		HighUsageAPIs:      []models.UsageSummary{},
		NotifierConfigured: s.notifierConfigured(),
		Timestamp:          now,
	}

	usage, err := s.repo().MonthlySummary(ctx, utils.MonthKey(now))
	if err != nil {
		return res, domain.InternalError{Msg: "failed to load usage", Err: err}
	}
	alerts, err := s.repo().ListAlerts(ctx, true)
	if err != nil {
		return res, domain.InternalError{Msg: "failed to load alerts", Err: err}
	}

	byEndpoint := make(map[string]models.UsageSummary, len(usage))
	for _, u := range usage {
		byEndpoint[u.Provider+"/"+u.Endpoint] = u
		if u.UsagePercentage >= highUsagePercentage {
			res.HighUsageAPIs = append(res.HighUsageAPIs, u)
		}
	}

	for _, a := range alerts {
		res.AlertsChecked++
		u, ok := byEndpoint[a.Provider+"/"+a.Endpoint]
		if !ok || !ShouldFire(a, u, now, s.cooldown()) {
			continue
		}
		n := models.AlertNotification{
			AlertID:    a.ID,
			Severity:   Severity(u.UsagePercentage),
			Recipient:  a.AlertEmail,
			Subject:    fmt.Sprintf("%s API usage alert: %s %s at %.1f%%", Severity(u.UsagePercentage), a.Provider, a.Endpoint, u.UsagePercentage),
			Usage:      u,
			Threshold:  a.ThresholdPercentage,
			OccurredAt: now,
		}
		if !res.NotifierConfigured {
			utils.LogEvent(s.RequestID, "usage", "alert_skipped", "notifier not configured: "+n.Subject)
			continue
		}
		if err := s.Notifier.PublishAlert(ctx, n); err != nil {
			metrics.UsageAlertErrors.Inc()
			utils.LogFailure(s.RequestID, "usage", "publish_alert", err)
			continue
		}
		if err := s.repo().MarkAlertSent(ctx, a.ID, now); err != nil {
			utils.LogFailure(s.RequestID, "usage", "mark_alert_sent", err)
		}
		metrics.UsageAlertsSent.WithLabelValues(n.Severity).Inc()
		res.AlertsSent++
	}

	utils.LogEvent(s.RequestID, "usage", "check_alerts",
		fmt.Sprintf("checked=%d sent=%d high_usage=%d", res.AlertsChecked, res.AlertsSent, len(res.HighUsageAPIs)))
	return res, nil
}

// Run sweeps alerts every interval until ctx is cancelled.
func (s AlertService) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.CheckAlerts(ctx); err != nil {
				utils.LogFailure(s.RequestID, "usage", "alert_worker", err)
			}
		}
	}
}

func (s AlertService) ListAlerts(ctx context.Context) ([]models.UsageAlert, error) {
	out, err := s.repo().ListAlerts(ctx, false)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list alerts", Err: err}
	}
	return out, nil
}

func (s AlertService) CreateAlert(ctx context.Context, in AlertInput) (models.UsageAlert, error) {
	in.Provider, in.Endpoint = strings.TrimSpace(in.Provider), strings.TrimSpace(in.Endpoint)
	switch {
	case in.Provider == "":
		return models.UsageAlert{}, domain.ValidationError{Field: "provider", Msg: "is required"}
	case in.Endpoint == "":
		return models.UsageAlert{}, domain.ValidationError{Field: "endpoint", Msg: "is required"}
	case in.ThresholdPercentage <= 0 || in.ThresholdPercentage > 100:
		return models.UsageAlert{}, domain.ValidationError{Field: "threshold_percentage", Msg: "must be in (0, 100]"}
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.AlertEmail))
	if err != nil {
		return models.UsageAlert{}, domain.ValidationError{Field: "alert_email", Msg: "must be an email address", Err: err}
	}

	a := models.UsageAlert{
		ID:                  idOr(s.NewID),
		Provider:            in.Provider,
		Endpoint:            in.Endpoint,
		ThresholdPercentage: in.ThresholdPercentage,
		AlertEmail:          addr.Address,
		IsActive:            true,
		CreatedAt:           nowOr(s.Now),
	}
	if err := s.repo().CreateAlert(ctx, a); err != nil {
		return models.UsageAlert{}, domain.InternalError{Msg: "failed to create alert", Err: err}
	}
	return a, nil
}

func (s AlertService) DeactivateAlert(ctx context.Context, id string) error {
	err := s.repo().DeactivateAlert(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: "usage alert", Err: err}
	}
	if err != nil {
		return domain.InternalError{Msg: "failed to deactivate alert", Err: err}
	}
	return nil
}
