package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type InvoiceItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

type CreateInvoiceRequest struct {
	ClientID  string               `json:"client_id"`
	IssueDate string               `json:"issue_date"` // YYYY-MM-DD, defaults to today
	DueDate   string               `json:"due_date"`   // YYYY-MM-DD, defaults to issue+term
	Currency  string               `json:"currency"`
	TaxRate   float64              `json:"tax_rate"`
	Notes     string               `json:"notes"`
	Items     []InvoiceItemRequest `json:"items"`
}

type UpdateInvoiceRequest struct {
	ClientID  string               `json:"client_id"`
	IssueDate string               `json:"issue_date"`
	DueDate   string               `json:"due_date"`
	Currency  string               `json:"currency"`
	TaxRate   float64              `json:"tax_rate"`
	Notes     string               `json:"notes"`
	Items     []InvoiceItemRequest `json:"items"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	GetByID(ctx context.Context, id snowflake.ID) (Invoice, error)
	List(ctx context.Context, filter ListInvoiceFilter) ([]Invoice, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id snowflake.ID) error
	UpdateStatus(ctx context.Context, id snowflake.ID, status InvoiceStatus) (Invoice, error)
}
