package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type ScheduleItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

type CreateScheduleRequest struct {
	ClientID  string                `json:"client_id"`
	Frequency string                `json:"frequency"`
	Interval  int                   `json:"interval"`
	StartDate string                `json:"start_date"` // YYYY-MM-DD
	EndDate   string                `json:"end_date"`   // optional
	Currency  string                `json:"currency"`
	TaxRate   float64               `json:"tax_rate"`
	Notes     string                `json:"notes"`
	Items     []ScheduleItemRequest `json:"items"`
}

type UpdateScheduleRequest struct {
	ClientID  string                `json:"client_id"`
	Frequency string                `json:"frequency"`
	Interval  int                   `json:"interval"`
	StartDate string                `json:"start_date"`
	EndDate   string                `json:"end_date"`
	Currency  string                `json:"currency"`
	TaxRate   float64               `json:"tax_rate"`
	Notes     string                `json:"notes"`
	Items     []ScheduleItemRequest `json:"items"`
}

// SkippedSchedule reports a schedule the generation run could not
// materialize; the run continues past it.
type SkippedSchedule struct {
	ScheduleID snowflake.ID `json:"schedule_id,string"`
	Reason     string       `json:"reason"`
}

// RunResult summarizes one generation run.
type RunResult struct {
	AsOf           time.Time         `json:"as_of"`
	InvoiceIDs     []snowflake.ID    `json:"invoice_ids"`
	InvoiceNumbers []string          `json:"invoice_numbers"`
	Skipped        []SkippedSchedule `json:"skipped,omitempty"`
}

func (r RunResult) Generated() int { return len(r.InvoiceIDs) }

type Service interface {
	Create(ctx context.Context, req CreateScheduleRequest) (Schedule, error)
	GetByID(ctx context.Context, id snowflake.ID) (Schedule, error)
	List(ctx context.Context) ([]Schedule, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateScheduleRequest) (Schedule, error)
	Delete(ctx context.Context, id snowflake.ID) error

	// Generate materializes one invoice for every due schedule as of the
	// given date, advancing each cursor by exactly one cadence step.
	// A zero asOf defaults to the current date.
	Generate(ctx context.Context, asOf time.Time) (RunResult, error)
}
