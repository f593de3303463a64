package service

import (
	"context"
	"fmt"
	"time"

	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Generate materializes one invoice for every active schedule whose cursor
// is due as of asOf, then advances that cursor by exactly one cadence step.
// A schedule that has fallen several periods behind still advances by a
// single step per run (catch-up-by-one); repeated runs drain the backlog.
//
// Schedules that fail validation (unknown frequency, non-positive interval)
// are skipped and reported in the result. A persistence failure aborts the
// remaining run: invoices already committed stay committed, the failing
// schedule's invoice and cursor update are rolled back together.
func (s *Service) Generate(ctx context.Context, asOf time.Time) (recurringdomain.RunResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if asOf.IsZero() {
		asOf = s.clock.Now(ctx)
	}
	asOf = truncateToDate(asOf)

	result := recurringdomain.RunResult{AsOf: asOf}

	due, err := s.repo.ListDue(ctx, s.db, asOf)
	if err != nil {
		return result, fmt.Errorf("list due schedules: %w", err)
	}
	if len(due) == 0 {
		s.log.Info("no schedules due", zap.Time("as_of", asOf))
		return result, nil
	}

	now := s.clock.Now(ctx)
	for i := range due {
		schedule := &due[i]

		next, err := NextOccurrence(schedule.NextDueDate, schedule.Frequency, schedule.Interval)
		if err != nil {
			s.log.Warn("skipping schedule",
				zap.String("schedule_id", schedule.ID.String()),
				zap.String("frequency", string(schedule.Frequency)),
				zap.Int("interval", schedule.Interval),
				zap.Error(err),
			)
			result.Skipped = append(result.Skipped, recurringdomain.SkippedSchedule{
				ScheduleID: schedule.ID,
				Reason:     err.Error(),
			})
			if s.metrics != nil {
				s.metrics.SchedulesSkipped.Inc()
			}
			continue
		}

		invoice := s.buildInvoice(schedule, asOf, now)

		if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := s.allocator.Next(ctx, tx, asOf)
			if err != nil {
				return err
			}
			invoice.InvoiceNumber = number

			schedule.NextDueDate = next
			if schedule.EndDate != nil && next.After(*schedule.EndDate) {
				schedule.Active = false
			}
			schedule.UpdatedAt = now

			return s.repo.Persist(ctx, tx, schedule, &invoice)
		}); err != nil {
			if s.metrics != nil {
				s.metrics.RecurringRunErrors.Inc()
			}
			return result, fmt.Errorf("%w: schedule %s: %v",
				recurringdomain.ErrGenerationAborted, schedule.ID, err)
		}

		s.log.Info("invoice generated",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.String("schedule_id", schedule.ID.String()),
			zap.Time("next_due_date", schedule.NextDueDate),
			zap.Bool("active", schedule.Active),
		)
		result.InvoiceIDs = append(result.InvoiceIDs, invoice.ID)
		result.InvoiceNumbers = append(result.InvoiceNumbers, invoice.InvoiceNumber)
		if s.metrics != nil {
			s.metrics.InvoicesGenerated.Inc()
		}
	}

	if s.metrics != nil {
		s.metrics.RecurringRuns.Inc()
	}
	s.log.Info("generation run complete",
		zap.Time("as_of", asOf),
		zap.Int("generated", result.Generated()),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *Service) buildInvoice(schedule *recurringdomain.Schedule, asOf, now time.Time) invoicedomain.Invoice {
	invoice := invoicedomain.Invoice{
		ID:        s.genID.Generate(),
		ClientID:  schedule.ClientID,
		IssueDate: asOf,
		DueDate:   asOf.AddDate(0, 0, s.cfg.PaymentTermDays),
		Status:    invoicedomain.InvoiceStatusUnpaid,
		Currency:  schedule.Currency,
		TaxRate:   schedule.TaxRate,
		Notes:     schedule.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	invoice.Items = make([]invoicedomain.InvoiceItem, 0, len(schedule.Items))
	for _, item := range schedule.Items {
		invoice.Items = append(invoice.Items, invoicedomain.InvoiceItem{
			ID:          s.genID.Generate(),
			InvoiceID:   invoice.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
		})
	}
	invoice.CalculateTotals()
	return invoice
}
