package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, schedule *Schedule) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Schedule, error)
	List(ctx context.Context, db *gorm.DB) ([]Schedule, error)
	Update(ctx context.Context, db *gorm.DB, schedule *Schedule) error
	ReplaceItems(ctx context.Context, db *gorm.DB, scheduleID snowflake.ID, items []ScheduleItem) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// ListDue returns active schedules whose cursor is due as of the given
	// date, ordered by id ascending so generation runs are reproducible.
	ListDue(ctx context.Context, db *gorm.DB, asOf time.Time) ([]Schedule, error)

	// Persist applies one materialization step atomically: the advanced
	// cursor (and possible deactivation) together with the new invoice.
	Persist(ctx context.Context, db *gorm.DB, schedule *Schedule, invoice *invoicedomain.Invoice) error
}
