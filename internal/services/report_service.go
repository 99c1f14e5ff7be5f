package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"wealthgrows/internal/amqp"
	"wealthgrows/internal/query"
	"wealthgrows/internal/report"
	"wealthgrows/internal/store"
)

// ErrReportingUnavailable is returned when neither a message broker nor a
// local generator is configured.
var ErrReportingUnavailable = errors.New("report generation not configured")

// ReportGenerator produces the report text for one period.
type ReportGenerator interface {
	Generate(ctx context.Context, params report.Params) (string, error)
}

// ReportPublisher hands a report request to the worker queue.
type ReportPublisher interface {
	PublishReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error
}

// ReportService routes report requests. With a publisher configured requests
// go to the queue and the worker generates asynchronously; otherwise, with a
// generator configured, the report is generated inline.
type ReportService struct {
	store     store.Store
	generator ReportGenerator // nil when no API key is configured
	publisher ReportPublisher // nil when AMQP is not configured
}

func NewReportService(s store.Store, generator ReportGenerator, publisher ReportPublisher) *ReportService {
	return &ReportService{
		store:     s,
		generator: generator,
		publisher: publisher,
	}
}

// Request asks for a report for the period in msg. It returns queued=true
// when the request was published for asynchronous generation; otherwise the
// generated report is returned directly.
func (s *ReportService) Request(ctx context.Context, msg *amqp.ReportRequestMessage) (queued bool, rep store.Report, err error) {
	if err := msg.Validate(); err != nil {
		return false, store.Report{}, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReportRequest(ctx, msg); err == nil {
			return true, store.Report{}, nil
		} else if s.generator == nil {
			return false, store.Report{}, fmt.Errorf("publish report request: %w", err)
		} else {
			slog.WarnContext(ctx, "Publish failed, generating report inline",
				"period", msg.PeriodLabel(), "error", err)
		}
	}

	if s.generator == nil {
		return false, store.Report{}, ErrReportingUnavailable
	}

	rep, err = s.GenerateAndStore(ctx, msg)
	return false, rep, err
}

// GenerateAndStore computes the period statistics, generates the report text
// and persists it, replacing any previous report for the same period.
func (s *ReportService) GenerateAndStore(ctx context.Context, msg *amqp.ReportRequestMessage) (store.Report, error) {
	if s.generator == nil {
		return store.Report{}, ErrReportingUnavailable
	}
	if err := msg.Validate(); err != nil {
		return store.Report{}, err
	}

	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return store.Report{}, fmt.Errorf("list transactions: %w", err)
	}

	params := report.Params{
		PeriodLabel: msg.PeriodLabel(),
		UserNote:    msg.Note,
	}
	switch msg.Scope {
	case amqp.ScopeMonthly:
		month := time.Month(msg.Month)
		params.Stats = query.ForMonth(transactions, msg.Year, month)
		prev := query.ForPreviousMonth(transactions, time.Date(msg.Year, month, 1, 0, 0, 0, 0, time.UTC))
		params.PrevStats = &prev
		params.Transactions = query.MonthTransactions(transactions, msg.Year, month)
	case amqp.ScopeYearly:
		params.Stats = query.ForYear(transactions, msg.Year)
		params.Transactions = query.YearTransactions(transactions, msg.Year)
	}

	body, err := s.generator.Generate(ctx, params)
	if err != nil {
		return store.Report{}, fmt.Errorf("generate report: %w", err)
	}

	rep := store.Report{
		ID:          uuid.NewString(),
		Period:      msg.PeriodLabel(),
		Body:        body,
		GeneratedAt: time.Now(),
	}
	if err := s.store.SaveReport(ctx, rep); err != nil {
		return store.Report{}, fmt.Errorf("save report: %w", err)
	}
	return rep, nil
}

// Get returns the stored report for the period label, store.ErrNotFound when
// none has been generated yet.
func (s *ReportService) Get(ctx context.Context, period string) (store.Report, error) {
	return s.store.GetReport(ctx, period)
}
