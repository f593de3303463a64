package domain

import "errors"

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrInvalidKey      = errors.New("setting key is required")
)

// Setting is a single key/value pair of user-editable configuration.
type Setting struct {
	Key   string `gorm:"primaryKey;type:text" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

func (Setting) TableName() string { return "settings" }

// Currency is a catalog row for the currencies invoices may be issued in.
type Currency struct {
	Code   string `gorm:"primaryKey;type:text" json:"code"`
	Name   string `gorm:"type:text;not null" json:"name"`
	Symbol string `gorm:"type:text;not null" json:"symbol"`
}

func (Currency) TableName() string { return "currencies" }
