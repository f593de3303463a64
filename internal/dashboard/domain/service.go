package domain

import (
	"context"

	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
)

type Summary struct {
	TotalClients  int64 `json:"total_clients"`
	TotalInvoices int64 `json:"total_invoices"`

	TotalRevenue  float64 `json:"total_revenue"`
	PendingAmount float64 `json:"pending_amount"`

	DraftCount   int64 `json:"draft_count"`
	SentCount    int64 `json:"sent_count"`
	UnpaidCount  int64 `json:"unpaid_count"`
	PaidCount    int64 `json:"paid_count"`
	OverdueCount int64 `json:"overdue_count"`

	RecentInvoices []invoicedomain.Invoice `json:"recent_invoices"`
}

type Service interface {
	// Summarize sweeps overdue invoices and returns current totals.
	Summarize(ctx context.Context) (Summary, error)
}
