// Package worker consumes queued report requests and turns them into stored
// reports.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"wealthgrows/internal/amqp"
	"wealthgrows/internal/services"
)

// ReportWorker drains the report request queue. Each message is handled in
// full before its ack: failures are returned to the broker for redelivery.
type ReportWorker struct {
	reports *services.ReportService
	client  *amqp.Client
}

func NewReportWorker(reports *services.ReportService, client *amqp.Client) *ReportWorker {
	return &ReportWorker{
		reports: reports,
		client:  client,
	}
}

// Run consumes report requests until ctx is cancelled.
func (w *ReportWorker) Run(ctx context.Context) error {
	return w.client.ConsumeReportRequests(ctx, func(msg *amqp.ReportRequestMessage) error {
		return w.HandleReportRequest(ctx, msg)
	})
}

// HandleReportRequest generates and stores the report asked for by msg.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	slog.InfoContext(ctx, "Processing report request",
		"scope", msg.Scope,
		"period", msg.PeriodLabel())

	rep, err := w.reports.GenerateAndStore(ctx, msg)
	if err != nil {
		return fmt.Errorf("generate report for %s: %w", msg.PeriodLabel(), err)
	}

	slog.InfoContext(ctx, "Report generated",
		"period", rep.Period,
		"report_id", rep.ID,
		"length", len(rep.Body))
	return nil
}
