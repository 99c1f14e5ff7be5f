package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ScopeMonthly = "monthly"
	ScopeYearly  = "yearly"
)

// ReportRequestMessage asks the worker to generate a financial report for one
// period. The worker loads the transactions itself; the message carries only
// the period coordinates and the user's free-text note.
type ReportRequestMessage struct {
	Scope     string    `json:"scope"` // "monthly" or "yearly"
	Year      int       `json:"year"`
	Month     int       `json:"month,omitempty"` // 1-12, monthly scope only
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMonthlyReportRequest(year int, month time.Month, note string) *ReportRequestMessage {
	return &ReportRequestMessage{
		Scope:     ScopeMonthly,
		Year:      year,
		Month:     int(month),
		Note:      note,
		Timestamp: time.Now(),
	}
}

func NewYearlyReportRequest(year int, note string) *ReportRequestMessage {
	return &ReportRequestMessage{
		Scope:     ScopeYearly,
		Year:      year,
		Note:      note,
		Timestamp: time.Now(),
	}
}

// PeriodLabel returns the report period key, "2025-06" or "2025".
func (m *ReportRequestMessage) PeriodLabel() string {
	if m.Scope == ScopeYearly {
		return fmt.Sprintf("%04d", m.Year)
	}
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

func (m *ReportRequestMessage) Validate() error {
	switch m.Scope {
	case ScopeYearly:
	case ScopeMonthly:
		if m.Month < 1 || m.Month > 12 {
			return fmt.Errorf("invalid month %d", m.Month)
		}
	default:
		return fmt.Errorf("invalid scope %q", m.Scope)
	}
	if m.Year < 1970 || m.Year > 9999 {
		return fmt.Errorf("invalid year %d", m.Year)
	}
	return nil
}

func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportRequestFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal report request: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report request: %w", err)
	}
	return &msg, nil
}
