package service

import (
	"context"

	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/clock"
	dashboarddomain "github.com/ledgerlinelabs/ledgerline/internal/dashboard/domain"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recentInvoiceLimit = 5

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	clock       clock.Clock
	invoiceRepo invoicedomain.Repository
	clientRepo  clientdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	InvoiceRepo invoicedomain.Repository
	ClientRepo  clientdomain.Repository
}

func NewService(p ServiceParam) dashboarddomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("dashboard.service"),

		clock:       p.Clock,
		invoiceRepo: p.InvoiceRepo,
		clientRepo:  p.ClientRepo,
	}
}

func (s *Service) Summarize(ctx context.Context) (dashboarddomain.Summary, error) {
	now := s.clock.Now(ctx)

	swept, err := s.invoiceRepo.MarkOverdue(ctx, s.db, now)
	if err != nil {
		return dashboarddomain.Summary{}, err
	}
	if swept > 0 {
		s.log.Info("invoices marked overdue", zap.Int64("count", swept))
	}

	var summary dashboarddomain.Summary

	if summary.TotalClients, err = s.clientRepo.Count(ctx, s.db); err != nil {
		return dashboarddomain.Summary{}, err
	}
	if summary.TotalInvoices, err = s.invoiceRepo.Count(ctx, s.db); err != nil {
		return dashboarddomain.Summary{}, err
	}
	if summary.TotalRevenue, err = s.invoiceRepo.SumTotalByStatuses(ctx, s.db, []invoicedomain.InvoiceStatus{
		invoicedomain.InvoiceStatusPaid,
	}); err != nil {
		return dashboarddomain.Summary{}, err
	}
	if summary.PendingAmount, err = s.invoiceRepo.SumTotalByStatuses(ctx, s.db, []invoicedomain.InvoiceStatus{
		invoicedomain.InvoiceStatusSent,
		invoicedomain.InvoiceStatusUnpaid,
		invoicedomain.InvoiceStatusOverdue,
	}); err != nil {
		return dashboarddomain.Summary{}, err
	}

	counts := []struct {
		status invoicedomain.InvoiceStatus
		target *int64
	}{
		{invoicedomain.InvoiceStatusDraft, &summary.DraftCount},
		{invoicedomain.InvoiceStatusSent, &summary.SentCount},
		{invoicedomain.InvoiceStatusUnpaid, &summary.UnpaidCount},
		{invoicedomain.InvoiceStatusPaid, &summary.PaidCount},
		{invoicedomain.InvoiceStatusOverdue, &summary.OverdueCount},
	}
	for _, c := range counts {
		if *c.target, err = s.invoiceRepo.CountByStatus(ctx, s.db, c.status); err != nil {
			return dashboarddomain.Summary{}, err
		}
	}

	if summary.RecentInvoices, err = s.invoiceRepo.ListRecent(ctx, s.db, recentInvoiceLimit); err != nil {
		return dashboarddomain.Summary{}, err
	}

	return summary, nil
}
