package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	Status InvoiceStatus
	Search string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListInvoiceFilter) ([]Invoice, error)
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	ReplaceItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, items []InvoiceItem) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// MaxNumberWithPrefix returns the highest invoice_number carrying the
	// given prefix, or "" when none exists.
	MaxNumberWithPrefix(ctx context.Context, db *gorm.DB, prefix string) (string, error)

	MarkOverdue(ctx context.Context, db *gorm.DB, asOf time.Time) (int64, error)
	SumTotalByStatuses(ctx context.Context, db *gorm.DB, statuses []InvoiceStatus) (float64, error)
	CountByStatus(ctx context.Context, db *gorm.DB, status InvoiceStatus) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]Invoice, error)
}
