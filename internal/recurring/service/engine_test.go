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
	invoicerepository "github.com/ledgerlinelabs/ledgerline/internal/invoice/repository"
	invoiceservice "github.com/ledgerlinelabs/ledgerline/internal/invoice/service"
	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/recurring/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now(context.Context) time.Time { return c.now }

type engineFixture struct {
	db    *gorm.DB
	genID *snowflake.Node
	clock *fixedClock
	svc   recurringdomain.Service
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&recurringdomain.Schedule{},
		&recurringdomain.ScheduleItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := &fixedClock{now: time.Date(2026, time.September, 1, 10, 30, 0, 0, time.UTC)}
	invoiceRepo := invoicerepository.Provide()

	svc := NewService(ServiceParam{
		DB:  db,
		Log: zap.NewNop(),
		Cfg: &config.Config{
			DefaultCurrency: "IDR",
			PaymentTermDays: 30,
		},
		GenID:      node,
		Clock:      clk,
		Repo:       repository.Provide(),
		ClientRepo: clientrepository.Provide(),
		Allocator:  invoiceservice.NewNumberAllocator(invoiceRepo),
	})

	return &engineFixture{db: db, genID: node, clock: clk, svc: svc}
}

func (f *engineFixture) createClient(t *testing.T) clientdomain.Client {
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

func (f *engineFixture) createSchedule(t *testing.T, clientID snowflake.ID, mutate func(*recurringdomain.Schedule)) recurringdomain.Schedule {
	t.Helper()
	start := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	schedule := recurringdomain.Schedule{
		ID:          f.genID.Generate(),
		ClientID:    clientID,
		Frequency:   recurringdomain.FrequencyMonthly,
		Interval:    1,
		StartDate:   start,
		NextDueDate: start,
		Active:      true,
		Currency:    "IDR",
		TaxRate:     0.11,
		CreatedAt:   f.clock.now,
		UpdatedAt:   f.clock.now,
		Items: []recurringdomain.ScheduleItem{
			{ID: f.genID.Generate(), Description: "Hosting", Quantity: 2, Rate: 100},
		},
	}
	if mutate != nil {
		mutate(&schedule)
	}
	for i := range schedule.Items {
		schedule.Items[i].ScheduleID = schedule.ID
	}
	require.NoError(t, f.db.Create(&schedule).Error)
	return schedule
}

func (f *engineFixture) reloadSchedule(t *testing.T, id snowflake.ID) recurringdomain.Schedule {
	t.Helper()
	var schedule recurringdomain.Schedule
	require.NoError(t, f.db.Preload("Items").First(&schedule, "id = ?", id).Error)
	return schedule
}

func TestGenerate_MaterializesDueSchedule(t *testing.T) {
	f := newEngineFixture(t)
	client := f.createClient(t)
	schedule := f.createSchedule(t, client.ID, nil)

	asOf := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	result, err := f.svc.Generate(context.Background(), asOf)
	require.NoError(t, err)
	require.Equal(t, 1, result.Generated())
	assert.Empty(t, result.Skipped)
	assert.Equal(t, []string{"INV-202609-0001"}, result.InvoiceNumbers)

	var invoice invoicedomain.Invoice
	require.NoError(t, f.db.Preload("Items").First(&invoice, "id = ?", result.InvoiceIDs[0]).Error)
	assert.Equal(t, invoicedomain.InvoiceStatusUnpaid, invoice.Status)
	assert.Equal(t, client.ID, invoice.ClientID)
	assert.True(t, invoice.IssueDate.Equal(asOf))
	assert.True(t, invoice.DueDate.Equal(asOf.AddDate(0, 0, 30)))
	assert.InDelta(t, 200, invoice.Subtotal, 0.001)
	assert.InDelta(t, 22, invoice.TaxAmount, 0.001)
	assert.InDelta(t, 222, invoice.Total, 0.001)
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, "Hosting", invoice.Items[0].Description)
	assert.InDelta(t, 200, invoice.Items[0].Amount, 0.001)

	reloaded := f.reloadSchedule(t, schedule.ID)
	assert.True(t, reloaded.NextDueDate.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, reloaded.Active)
}

func TestGenerate_IgnoresFutureSchedules(t *testing.T) {
	f := newEngineFixture(t)
	client := f.createClient(t)
	f.createSchedule(t, client.ID, func(s *recurringdomain.Schedule) {
		s.NextDueDate = time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	})

	result, err := f.svc.Generate(context.Background(), time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, result.Generated())
}

func TestGenerate_CatchUpByOneStepPerRun(t *testing.T) {
	f := newEngineFixture(t)
	client := f.createClient(t)
	schedule := f.createSchedule(t, client.ID, func(s *recurringdomain.Schedule) {
		s.StartDate = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
		s.NextDueDate = s.StartDate
	})

	asOf := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	cursors := []time.Time{
		time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	}

	for i, want := range cursors {
		result, err := f.svc.Generate(context.Background(), asOf)
		require.NoError(t, err)
		require.Equal(t, 1, result.Generated(), "run %d", i+1)

		reloaded := f.reloadSchedule(t, schedule.ID)
		assert.True(t, reloaded.NextDueDate.Equal(want), "run %d: cursor %s", i+1, reloaded.NextDueDate)
	}

	// Backlog drained: the cursor is past asOf now.
	result, err := f.svc.Generate(context.Background(), asOf)
	require.NoError(t, err)
	assert.Zero(t, result.Generated())

	var count int64
	require.NoError(t, f.db.Model(&invoicedomain.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}

func TestGenerate_DeactivatesPastEndDate(t *testing.T) {
	f := newEngineFixture(t)
	client := f.createClient(t)
	end := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	schedule := f.createSchedule(t, client.ID, func(s *recurringdomain.Schedule) {
		s.EndDate = &end
	})

	asOf := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	result, err := f.svc.Generate(context.Background(), asOf)
	require.NoError(t, err)
	require.Equal(t, 1, result.Generated())

	reloaded := f.reloadSchedule(t, schedule.ID)
	assert.False(t, reloaded.Active)

	// Deactivated schedules are never scanned again.
	result, err = f.svc.Generate(context.Background(), asOf.AddDate(0, 2, 0))
	require.NoError(t, err)
	assert.Zero(t, result.Generated())
}

func TestGenerate_SkipsInvalidScheduleAndContinues(t *testing.T) {
	f := newEngineFixture(t)
	client := f.createClient(t)

	bad := f.createSchedule(t, client.ID, func(s *recurringdomain.Schedule) {
		s.Frequency = recurringdomain.Frequency("fortnightly")
	})
	good := f.createSchedule(t, client.ID, nil)

	result, err := f.svc.Generate(context.Background(), time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated())
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, bad.ID, result.Skipped[0].ScheduleID)

	// The bad schedule stays due so a fix picks it up next run.
	reloadedBad := f.reloadSchedule(t, bad.ID)
	assert.True(t, reloadedBad.NextDueDate.Equal(bad.NextDueDate))

	reloadedGood := f.reloadSchedule(t, good.ID)
	assert.True(t, reloadedGood.NextDueDate.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)))
}

func TestGenerate_SharedMonthlyNumberSequence(t *testing.T) {
	f := newEngineFixture(t)
	client := f.createClient(t)
	f.createSchedule(t, client.ID, nil)
	f.createSchedule(t, client.ID, nil)

	result, err := f.svc.Generate(context.Background(), time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 2, result.Generated())
	assert.Equal(t, []string{"INV-202609-0001", "INV-202609-0002"}, result.InvoiceNumbers)
}

func TestGenerate_ZeroAsOfUsesClock(t *testing.T) {
	f := newEngineFixture(t)
	client := f.createClient(t)
	f.createSchedule(t, client.ID, nil)

	result, err := f.svc.Generate(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.True(t, result.AsOf.Equal(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, result.Generated())
}
