package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() recurringdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, schedule *recurringdomain.Schedule) error {
	return db.WithContext(ctx).Create(schedule).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*recurringdomain.Schedule, error) {
	var schedule recurringdomain.Schedule
	err := db.WithContext(ctx).Preload("Items").First(&schedule, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]recurringdomain.Schedule, error) {
	var schedules []recurringdomain.Schedule
	err := db.WithContext(ctx).Preload("Items").Order("next_due_date asc").Find(&schedules).Error
	return schedules, err
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, schedule *recurringdomain.Schedule) error {
	return db.WithContext(ctx).Omit("Items").Save(schedule).Error
}

func (r *repository) ReplaceItems(ctx context.Context, db *gorm.DB, scheduleID snowflake.ID, items []recurringdomain.ScheduleItem) error {
	if err := db.WithContext(ctx).Delete(&recurringdomain.ScheduleItem{}, "schedule_id = ?", scheduleID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).Delete(&recurringdomain.ScheduleItem{}, "schedule_id = ?", id).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&recurringdomain.Schedule{}, "id = ?", id).Error
}

func (r *repository) ListDue(ctx context.Context, db *gorm.DB, asOf time.Time) ([]recurringdomain.Schedule, error) {
	var schedules []recurringdomain.Schedule
	err := db.WithContext(ctx).
		Preload("Items").
		Where("active = ? AND next_due_date <= ?", true, asOf).
		Order("id asc").
		Find(&schedules).Error
	return schedules, err
}

func (r *repository) Persist(ctx context.Context, db *gorm.DB, schedule *recurringdomain.Schedule, invoice *invoicedomain.Invoice) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE recurring_invoices SET next_due_date = ?, active = ?, updated_at = ? WHERE id = ?`,
			schedule.NextDueDate,
			schedule.Active,
			schedule.UpdatedAt,
			schedule.ID,
		).Error
	})
}
