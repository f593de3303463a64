package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Frequency is the calendar unit a schedule repeats on.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

var (
	ErrScheduleNotFound  = errors.New("recurring schedule not found")
	ErrInvalidFrequency  = errors.New("unrecognized schedule frequency")
	ErrInvalidInterval   = errors.New("schedule interval must be positive")
	ErrInvalidClient     = errors.New("invalid client reference")
	ErrInvalidItems      = errors.New("schedule requires at least one line item")
	ErrInvalidStartDate  = errors.New("invalid schedule start date")
	ErrGenerationAborted = errors.New("recurring generation aborted")
)

// Schedule is a recurring invoice template with a cadence and a due-date
// cursor. NextDueDate starts at StartDate and only moves forward, one
// cadence step per generation run. Once the advanced cursor passes EndDate
// the schedule is deactivated and never scanned again.
type Schedule struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id,string"`
	ClientID    snowflake.ID `gorm:"not null;index" json:"client_id,string"`
	Frequency   Frequency    `gorm:"type:text;not null;default:monthly" json:"frequency"`
	Interval    int          `gorm:"not null;default:1" json:"interval"`
	StartDate   time.Time    `gorm:"not null" json:"start_date"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	NextDueDate time.Time    `gorm:"not null;index" json:"next_due_date"`
	Active      bool         `gorm:"not null;default:true;index" json:"active"`
	Currency    string       `gorm:"type:text;not null" json:"currency"`
	TaxRate     float64      `gorm:"not null;default:0" json:"tax_rate"`
	Notes       string       `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`

	Items []ScheduleItem `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Schedule) TableName() string { return "recurring_invoices" }

// ScheduleItem is a line template copied verbatim into every invoice the
// schedule materializes.
type ScheduleItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id,string"`
	ScheduleID  snowflake.ID `gorm:"not null;index" json:"schedule_id,string"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Quantity    float64      `gorm:"not null;default:1" json:"quantity"`
	Rate        float64      `gorm:"not null" json:"rate"`
}

func (ScheduleItem) TableName() string { return "recurring_invoice_items" }

func ParseFrequency(value string) (Frequency, error) {
	switch Frequency(value) {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return Frequency(value), nil
	default:
		return "", ErrInvalidFrequency
	}
}
