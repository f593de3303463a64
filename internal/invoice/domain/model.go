package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvalidStatus        = errors.New("invalid invoice status")
	ErrInvalidClient        = errors.New("invalid client reference")
	ErrInvalidItems         = errors.New("invoice requires at least one line item")
	ErrDuplicateNumber      = errors.New("invoice number already exists")
	ErrNumberAllocation     = errors.New("invoice number allocation failed")
	ErrInvalidInvoiceNumber = errors.New("invalid invoice number")
	ErrClientEmailMissing   = errors.New("client has no email address")
)

// Invoice is a concrete billable document. Totals are always derived from
// the line items, never written independently.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	InvoiceNumber string            `gorm:"type:text;not null;uniqueIndex" json:"invoice_number"`
	ClientID      snowflake.ID      `gorm:"not null;index" json:"client_id,string"`
	IssueDate     time.Time         `gorm:"not null" json:"issue_date"`
	DueDate       time.Time         `gorm:"not null" json:"due_date"`
	Status        InvoiceStatus     `gorm:"type:text;not null;default:draft" json:"status"`
	Currency      string            `gorm:"type:text;not null" json:"currency"`
	Subtotal      float64           `gorm:"not null;default:0" json:"subtotal"`
	TaxRate       float64           `gorm:"not null;default:0" json:"tax_rate"`
	TaxAmount     float64           `gorm:"not null;default:0" json:"tax_amount"`
	Total         float64           `gorm:"not null;default:0" json:"total"`
	Notes         string            `gorm:"type:text" json:"notes"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updated_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Invoice) TableName() string { return "invoices" }

type InvoiceItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id,string"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoice_id,string"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Quantity    float64      `gorm:"not null;default:1" json:"quantity"`
	Rate        float64      `gorm:"not null" json:"rate"`
	Amount      float64      `gorm:"not null" json:"amount"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// CalculateTotals recomputes every derived amount from the line items.
func (i *Invoice) CalculateTotals() {
	subtotal := 0.0
	for idx := range i.Items {
		item := &i.Items[idx]
		item.Amount = item.Quantity * item.Rate
		subtotal += item.Amount
	}
	i.Subtotal = subtotal
	i.TaxAmount = subtotal * i.TaxRate
	i.Total = i.Subtotal + i.TaxAmount
}
