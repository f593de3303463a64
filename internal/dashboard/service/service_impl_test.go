package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	clientrepository "github.com/ledgerlinelabs/ledgerline/internal/client/repository"
	dashboarddomain "github.com/ledgerlinelabs/ledgerline/internal/dashboard/domain"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	invoicerepository "github.com/ledgerlinelabs/ledgerline/internal/invoice/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now(context.Context) time.Time { return c.now }

type dashboardFixture struct {
	db    *gorm.DB
	genID *snowflake.Node
	clock *stubClock
	svc   dashboarddomain.Service
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := &stubClock{now: time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)}

	svc := NewService(ServiceParam{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clk,
		InvoiceRepo: invoicerepository.Provide(),
		ClientRepo:  clientrepository.Provide(),
	})

	return &dashboardFixture{db: db, genID: node, clock: clk, svc: svc}
}

func (f *dashboardFixture) createInvoice(t *testing.T, clientID snowflake.ID, status invoicedomain.InvoiceStatus, total float64, dueDate time.Time) {
	t.Helper()
	id := f.genID.Generate()
	invoice := invoicedomain.Invoice{
		ID:            id,
		InvoiceNumber: fmt.Sprintf("INV-202609-%04d", id%10000),
		ClientID:      clientID,
		IssueDate:     dueDate.AddDate(0, 0, -30),
		DueDate:       dueDate,
		Status:        status,
		Currency:      "IDR",
		Subtotal:      total,
		Total:         total,
		CreatedAt:     f.clock.now,
		UpdatedAt:     f.clock.now,
	}
	require.NoError(t, f.db.Create(&invoice).Error)
}

func TestSummarize(t *testing.T) {
	f := newDashboardFixture(t)

	client := clientdomain.Client{
		ID: f.genID.Generate(), Name: "Acme Corp",
		CreatedAt: f.clock.now, UpdatedAt: f.clock.now,
	}
	require.NoError(t, f.db.Create(&client).Error)

	futureDue := f.clock.now.AddDate(0, 0, 10)
	pastDue := f.clock.now.AddDate(0, 0, -5)

	f.createInvoice(t, client.ID, invoicedomain.InvoiceStatusPaid, 1000, pastDue)
	f.createInvoice(t, client.ID, invoicedomain.InvoiceStatusSent, 200, futureDue)
	f.createInvoice(t, client.ID, invoicedomain.InvoiceStatusUnpaid, 300, futureDue)
	// Past due and still open: the summary sweep flips it to overdue.
	f.createInvoice(t, client.ID, invoicedomain.InvoiceStatusUnpaid, 400, pastDue)
	// Cancelled invoices never count toward pending.
	f.createInvoice(t, client.ID, invoicedomain.InvoiceStatusCancelled, 9000, pastDue)

	summary, err := f.svc.Summarize(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, summary.TotalClients)
	assert.EqualValues(t, 5, summary.TotalInvoices)
	assert.InDelta(t, 1000, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 900, summary.PendingAmount, 0.001) // 200 sent + 300 unpaid + 400 overdue

	assert.EqualValues(t, 1, summary.SentCount)
	assert.EqualValues(t, 1, summary.UnpaidCount)
	assert.EqualValues(t, 1, summary.PaidCount)
	assert.EqualValues(t, 1, summary.OverdueCount)
	assert.EqualValues(t, 0, summary.DraftCount)

	assert.Len(t, summary.RecentInvoices, 5)
}

func TestSummarize_SweepIsIdempotent(t *testing.T) {
	f := newDashboardFixture(t)

	client := clientdomain.Client{
		ID: f.genID.Generate(), Name: "Acme Corp",
		CreatedAt: f.clock.now, UpdatedAt: f.clock.now,
	}
	require.NoError(t, f.db.Create(&client).Error)

	f.createInvoice(t, client.ID, invoicedomain.InvoiceStatusSent, 100, f.clock.now.AddDate(0, 0, -1))

	first, err := f.svc.Summarize(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.OverdueCount)

	second, err := f.svc.Summarize(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, second.OverdueCount)
	assert.EqualValues(t, 0, second.SentCount)
}
