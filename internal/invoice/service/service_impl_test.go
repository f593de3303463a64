package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	clientrepository "github.com/ledgerlinelabs/ledgerline/internal/client/repository"
	"github.com/ledgerlinelabs/ledgerline/internal/config"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/invoice/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now(context.Context) time.Time { return c.now }

type invoiceFixture struct {
	db    *gorm.DB
	genID *snowflake.Node
	clock *stubClock
	svc   invoicedomain.Service
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
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

	clk := &stubClock{now: time.Date(2026, time.September, 15, 9, 0, 0, 0, time.UTC)}
	repo := repository.Provide()

	svc := NewService(ServiceParam{
		DB:  db,
		Log: zap.NewNop(),
		Cfg: &config.Config{
			DefaultCurrency: "IDR",
			PaymentTermDays: 30,
		},
		GenID:      node,
		Clock:      clk,
		Repo:       repo,
		ClientRepo: clientrepository.Provide(),
		Allocator:  NewNumberAllocator(repo),
	})

	return &invoiceFixture{db: db, genID: node, clock: clk, svc: svc}
}

func (f *invoiceFixture) createClient(t *testing.T) clientdomain.Client {
	t.Helper()
	client := clientdomain.Client{
		ID:        f.genID.Generate(),
		Name:      "Acme Corp",
		Email:     "billing@acme.test",
		CreatedAt: f.clock.now,
		UpdatedAt: f.clock.now,
	}
	require.NoError(t, f.db.Create(&client).Error)
	return client
}

func TestInvoiceCreate(t *testing.T) {
	f := newInvoiceFixture(t)
	client := f.createClient(t)

	invoice, err := f.svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		ClientID: client.ID.String(),
		TaxRate:  0.11,
		Notes:    "thanks",
		Items: []invoicedomain.InvoiceItemRequest{
			{Description: "Design work", Quantity: 3, Rate: 150},
			{Description: "  ", Quantity: 1, Rate: 999}, // blank descriptions are dropped
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-202609-0001", invoice.InvoiceNumber)
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, "IDR", invoice.Currency)
	assert.True(t, invoice.IssueDate.Equal(time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, invoice.DueDate.Equal(time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)))
	require.Len(t, invoice.Items, 1)
	assert.InDelta(t, 450, invoice.Subtotal, 0.001)
	assert.InDelta(t, 49.5, invoice.TaxAmount, 0.001)
	assert.InDelta(t, 499.5, invoice.Total, 0.001)
}

func TestInvoiceCreate_Validation(t *testing.T) {
	f := newInvoiceFixture(t)
	client := f.createClient(t)

	_, err := f.svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		ClientID: "not-a-number",
		Items:    []invoicedomain.InvoiceItemRequest{{Description: "x", Quantity: 1, Rate: 1}},
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidClient)

	_, err = f.svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		ClientID: f.genID.Generate().String(), // no such client
		Items:    []invoicedomain.InvoiceItemRequest{{Description: "x", Quantity: 1, Rate: 1}},
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidClient)

	_, err = f.svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		ClientID: client.ID.String(),
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidItems)
}

func TestInvoiceUpdateStatus(t *testing.T) {
	f := newInvoiceFixture(t)
	client := f.createClient(t)

	invoice, err := f.svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		ClientID: client.ID.String(),
		Notes:    "wire transfer pending",
		Items:    []invoicedomain.InvoiceItemRequest{{Description: "Retainer", Quantity: 1, Rate: 500}},
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), invoice.ID, invoicedomain.InvoiceStatusSent)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, updated.Status)
	assert.Equal(t, "wire transfer pending", updated.Notes)

	// Settling an invoice clears its notes.
	updated, err = f.svc.UpdateStatus(context.Background(), invoice.ID, invoicedomain.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, updated.Status)
	assert.Empty(t, updated.Notes)

	// Overdue is assigned by the dashboard sweep only.
	_, err = f.svc.UpdateStatus(context.Background(), invoice.ID, invoicedomain.InvoiceStatusOverdue)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(context.Background(), invoice.ID, invoicedomain.InvoiceStatus("archived"))
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(context.Background(), f.genID.Generate(), invoicedomain.InvoiceStatusSent)
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)
}

func TestInvoiceUpdate_RecomputesTotals(t *testing.T) {
	f := newInvoiceFixture(t)
	client := f.createClient(t)

	invoice, err := f.svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		ClientID: client.ID.String(),
		TaxRate:  0.1,
		Items:    []invoicedomain.InvoiceItemRequest{{Description: "Retainer", Quantity: 1, Rate: 500}},
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), invoice.ID, invoicedomain.UpdateInvoiceRequest{
		TaxRate: 0.2,
		Items: []invoicedomain.InvoiceItemRequest{
			{Description: "Retainer", Quantity: 2, Rate: 500},
			{Description: "Support", Quantity: 5, Rate: 40},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.InDelta(t, 1200, updated.Subtotal, 0.001)
	assert.InDelta(t, 240, updated.TaxAmount, 0.001)
	assert.InDelta(t, 1440, updated.Total, 0.001)
	assert.Equal(t, invoice.InvoiceNumber, updated.InvoiceNumber)
}

func TestInvoiceDelete(t *testing.T) {
	f := newInvoiceFixture(t)
	client := f.createClient(t)

	invoice, err := f.svc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		ClientID: client.ID.String(),
		Items:    []invoicedomain.InvoiceItemRequest{{Description: "One-off", Quantity: 1, Rate: 50}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), invoice.ID))

	_, err = f.svc.GetByID(context.Background(), invoice.ID)
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)

	var itemCount int64
	require.NoError(t, f.db.Model(&invoicedomain.InvoiceItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), invoice.ID), invoicedomain.ErrInvoiceNotFound)
}
