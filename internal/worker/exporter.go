package worker

import (
	"context"
	"time"

	"finora/internal/core"
	"finora/internal/export/googlesheets"
	"finora/internal/log"
	"finora/internal/storage"
)

// RecordLister reads the stored transaction records.
type RecordLister interface {
	ListTransactions(ctx context.Context) ([]storage.TransactionRecord, error)
}

// RowAppender appends a summary row to the export target.
type RowAppender interface {
	AppendSummaryRow(ctx context.Context, row googlesheets.SummaryRow) error
}

// Exporter periodically writes the current month's totals to the export
// target.
type Exporter struct {
	records  RecordLister
	appender RowAppender
	interval time.Duration
	logger   *log.Logger

	now func() time.Time
}

func NewExporter(records RecordLister, appender RowAppender, interval time.Duration, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentExport)
	}
	return &Exporter{
		records:  records,
		appender: appender,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Run exports on every tick until ctx is done. Export failures are logged
// and retried on the next tick.
func (e *Exporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.ExportCurrentMonth(ctx); err != nil {
				e.logger.WarnContext(ctx, "Export failed",
					log.FieldOperation, log.OpExport,
					log.FieldError, err)
			}
		}
	}
}

// ExportCurrentMonth sums the stored records dated in the current calendar
// month and appends one summary row.
func (e *Exporter) ExportCurrentMonth(ctx context.Context) error {
	records, err := e.records.ListTransactions(ctx)
	if err != nil {
		return err
	}

	now := e.now()
	row := SummarizeMonth(records, now.Year(), int(now.Month()))

	if err := e.appender.AppendSummaryRow(ctx, row); err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "Exported month summary",
		log.FieldOperation, log.OpExport,
		"year", row.Year,
		"month", row.Month,
		"total", row.TotalAmount,
		"records", row.RecordCount)
	return nil
}

// SummarizeMonth totals the records whose fecha falls in the given year and
// month. Records with unparseable dates are skipped.
func SummarizeMonth(records []storage.TransactionRecord, year, month int) googlesheets.SummaryRow {
	row := googlesheets.SummaryRow{
		Year:  year,
		Month: core.MonthAbbrev(month),
	}

	for _, rec := range records {
		t, err := time.Parse("2006-01-02", rec.Fecha)
		if err != nil {
			continue
		}
		if t.Year() != year || int(t.Month()) != month {
			continue
		}
		row.TotalAmount += rec.Monto
		row.RecordCount++
	}
	return row
}
