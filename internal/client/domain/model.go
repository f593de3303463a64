package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidName    = errors.New("client name is required")
)

// Client is a billing party invoices are issued to.
type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id,string"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Email     string       `gorm:"type:text" json:"email"`
	Phone     string       `gorm:"type:text" json:"phone"`
	Address   string       `gorm:"type:text" json:"address"`
	Company   string       `gorm:"type:text" json:"company"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (Client) TableName() string { return "clients" }
