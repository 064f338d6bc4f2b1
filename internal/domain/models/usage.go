package models

import "time"

// UsageAlert is an alert threshold configured for one vendor endpoint.
type UsageAlert struct {
	ID                  string     `json:"id"`
	Provider            string     `json:"provider"`
	Endpoint            string     `json:"endpoint"`
	ThresholdPercentage float64    `json:"threshold_percentage"`
	AlertEmail          string     `json:"alert_email"`
	IsActive            bool       `json:"is_active"`
	LastAlertSent       *time.Time `json:"last_alert_sent,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// UsageSummary is the month-to-date usage of one endpoint against its limit.
type UsageSummary struct {
	Provider        string  `json:"provider"`
	Endpoint        string  `json:"endpoint"`
	MonthYear       string  `json:"month_year"`
	CurrentUsage    int64   `json:"current_usage"`
	MonthlyLimit    int64   `json:"monthly_limit"`
	UsagePercentage float64 `json:"usage_percentage"`
	RemainingCalls  int64   `json:"remaining_calls"`
	TotalCost       float64 `json:"total_cost"`
}

// AlertNotification is what gets published when an alert fires.
type AlertNotification struct {
	AlertID    string       `json:"alert_id"`
	Severity   string       `json:"severity"`
	Recipient  string       `json:"recipient"`
	Subject    string       `json:"subject"`
	Usage      UsageSummary `json:"usage"`
	Threshold  float64      `json:"threshold_percentage"`
	OccurredAt time.Time    `json:"occurred_at"`
}
