package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() invoicedomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, invoice *invoicedomain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := db.WithContext(ctx).Preload("Items").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, filter invoicedomain.ListInvoiceFilter) ([]invoicedomain.Invoice, error) {
	query := db.WithContext(ctx).Model(&invoicedomain.Invoice{}).Preload("Items")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN clients ON clients.id = invoices.client_id").
			Where("invoices.invoice_number LIKE ? OR clients.name LIKE ?", pattern, pattern)
	}

	var invoices []invoicedomain.Invoice
	err := query.Order("invoices.created_at desc").Find(&invoices).Error
	return invoices, err
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, invoice *invoicedomain.Invoice) error {
	return db.WithContext(ctx).Omit("Items").Save(invoice).Error
}

func (r *repository) ReplaceItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, items []invoicedomain.InvoiceItem) error {
	if err := db.WithContext(ctx).Delete(&invoicedomain.InvoiceItem{}, "invoice_id = ?", invoiceID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).Delete(&invoicedomain.InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&invoicedomain.Invoice{}, "id = ?", id).Error
}

func (r *repository) MaxNumberWithPrefix(ctx context.Context, db *gorm.DB, prefix string) (string, error) {
	// The prefix is fixed-width, so ordering by length first keeps a
	// widened sequence (10000) above a four-digit one (9999).
	var number string
	err := db.WithContext(ctx).Raw(
		`SELECT invoice_number FROM invoices
		 WHERE invoice_number LIKE ?
		 ORDER BY LENGTH(invoice_number) DESC, invoice_number DESC
		 LIMIT 1`,
		prefix+"%",
	).Scan(&number).Error
	return number, err
}

func (r *repository) MarkOverdue(ctx context.Context, db *gorm.DB, asOf time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE invoices SET status = ?, updated_at = ?
		 WHERE due_date < ? AND status IN (?, ?, ?)`,
		invoicedomain.InvoiceStatusOverdue,
		asOf,
		asOf,
		invoicedomain.InvoiceStatusDraft,
		invoicedomain.InvoiceStatusSent,
		invoicedomain.InvoiceStatusUnpaid,
	)
	return result.RowsAffected, result.Error
}

func (r *repository) SumTotalByStatuses(ctx context.Context, db *gorm.DB, statuses []invoicedomain.InvoiceStatus) (float64, error) {
	var total float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status IN ?`,
		statuses,
	).Scan(&total).Error
	return total, err
}

func (r *repository) CountByStatus(ctx context.Context, db *gorm.DB, status invoicedomain.InvoiceStatus) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&invoicedomain.Invoice{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *repository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&invoicedomain.Invoice{}).Count(&count).Error
	return count, err
}

func (r *repository) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := db.WithContext(ctx).Preload("Items").Order("created_at desc").Limit(limit).Find(&invoices).Error
	return invoices, err
}
