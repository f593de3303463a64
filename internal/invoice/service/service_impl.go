package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/clock"
	"github.com/ledgerlinelabs/ledgerline/internal/config"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	cfg *config.Config

	genID      *snowflake.Node
	clock      clock.Clock
	repo       invoicedomain.Repository
	clientRepo clientdomain.Repository
	allocator  *NumberAllocator
}

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Cfg        *config.Config
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       invoicedomain.Repository
	ClientRepo clientdomain.Repository
	Allocator  *NumberAllocator
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),
		cfg: p.Cfg,

		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		clientRepo: p.ClientRepo,
		allocator:  p.Allocator,
	}
}

const dateLayout = "2006-01-02"

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	clientID, err := parseID(req.ClientID)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidClient
	}
	client, err := s.clientRepo.FindByID(ctx, s.db, clientID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if client == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidClient
	}

	items, err := buildItems(s.genID, req.Items)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	now := s.clock.Now(ctx)
	today := truncateToDate(now)

	issueDate := today
	if strings.TrimSpace(req.IssueDate) != "" {
		if issueDate, err = time.Parse(dateLayout, req.IssueDate); err != nil {
			return invoicedomain.Invoice{}, err
		}
	}
	dueDate := issueDate.AddDate(0, 0, s.cfg.PaymentTermDays)
	if strings.TrimSpace(req.DueDate) != "" {
		if dueDate, err = time.Parse(dateLayout, req.DueDate); err != nil {
			return invoicedomain.Invoice{}, err
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	invoice := invoicedomain.Invoice{
		ID:        s.genID.Generate(),
		ClientID:  clientID,
		IssueDate: issueDate,
		DueDate:   dueDate,
		Status:    invoicedomain.InvoiceStatusDraft,
		Currency:  currency,
		TaxRate:   req.TaxRate,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
		Items:     items,
	}
	invoice.CalculateTotals()

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.allocator.Next(ctx, tx, issueDate)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number
		for i := range invoice.Items {
			invoice.Items[i].InvoiceID = invoice.ID
		}
		return s.repo.Insert(ctx, tx, &invoice)
	}); err != nil {
		return invoicedomain.Invoice{}, err
	}

	return invoice, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (invoicedomain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}
	return *invoice, nil
}

func (s *Service) List(ctx context.Context, filter invoicedomain.ListInvoiceFilter) ([]invoicedomain.Invoice, error) {
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req invoicedomain.UpdateInvoiceRequest) (invoicedomain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}

	if strings.TrimSpace(req.ClientID) != "" {
		clientID, err := parseID(req.ClientID)
		if err != nil {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidClient
		}
		invoice.ClientID = clientID
	}
	if strings.TrimSpace(req.IssueDate) != "" {
		if invoice.IssueDate, err = time.Parse(dateLayout, req.IssueDate); err != nil {
			return invoicedomain.Invoice{}, err
		}
	}
	if strings.TrimSpace(req.DueDate) != "" {
		if invoice.DueDate, err = time.Parse(dateLayout, req.DueDate); err != nil {
			return invoicedomain.Invoice{}, err
		}
	}
	if currency := strings.ToUpper(strings.TrimSpace(req.Currency)); currency != "" {
		invoice.Currency = currency
	}
	invoice.TaxRate = req.TaxRate
	invoice.Notes = req.Notes

	items, err := buildItems(s.genID, req.Items)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	for i := range items {
		items[i].InvoiceID = invoice.ID
	}
	invoice.Items = items
	invoice.CalculateTotals()
	invoice.UpdatedAt = s.clock.Now(ctx)

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.ReplaceItems(ctx, tx, invoice.ID, items); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, invoice)
	}); err != nil {
		return invoicedomain.Invoice{}, err
	}

	return *invoice, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return invoicedomain.ErrInvoiceNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, status invoicedomain.InvoiceStatus) (invoicedomain.Invoice, error) {
	if !isValidStatus(status) {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}

	invoice.Status = status
	if status == invoicedomain.InvoiceStatusPaid {
		invoice.Notes = ""
	}
	invoice.UpdatedAt = s.clock.Now(ctx)

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return invoicedomain.Invoice{}, err
	}
	return *invoice, nil
}

// overdue is excluded: it is only assigned by the dashboard sweep, never
// requested directly.
func isValidStatus(status invoicedomain.InvoiceStatus) bool {
	switch status {
	case invoicedomain.InvoiceStatusDraft,
		invoicedomain.InvoiceStatusSent,
		invoicedomain.InvoiceStatusUnpaid,
		invoicedomain.InvoiceStatusPaid,
		invoicedomain.InvoiceStatusCancelled:
		return true
	default:
		return false
	}
}

func buildItems(genID *snowflake.Node, reqs []invoicedomain.InvoiceItemRequest) ([]invoicedomain.InvoiceItem, error) {
	items := make([]invoicedomain.InvoiceItem, 0, len(reqs))
	for _, req := range reqs {
		description := strings.TrimSpace(req.Description)
		if description == "" {
			continue
		}
		items = append(items, invoicedomain.InvoiceItem{
			ID:          genID.Generate(),
			Description: description,
			Quantity:    req.Quantity,
			Rate:        req.Rate,
		})
	}
	if len(items) == 0 {
		return nil, invoicedomain.ErrInvalidItems
	}
	return items, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
