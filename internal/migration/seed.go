package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	settingsdomain "github.com/ledgerlinelabs/ledgerline/internal/settings/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func currencyCatalog() []settingsdomain.Currency {
	return []settingsdomain.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
		{Code: "EUR", Name: "Euro", Symbol: "€"},
		{Code: "GBP", Name: "British Pound", Symbol: "£"},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
		{Code: "IDR", Name: "Indonesian Rupiah", Symbol: "Rp"},
		{Code: "PHP", Name: "Philippine Peso", Symbol: "₱"},
		{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$"},
		{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
		{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	}
}

func seedCurrencies(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("currency seed requires database handle")
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin currency seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const stmt = `
		INSERT INTO currencies (code, name, symbol)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name,
		    symbol = EXCLUDED.symbol
	`

	for _, seed := range currencyCatalog() {
		if _, err := tx.ExecContext(ctx, stmt, seed.Code, seed.Name, seed.Symbol); err != nil {
			return fmt.Errorf("seed currency %s: %w", seed.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit currency seed transaction: %w", err)
	}
	return nil
}

func seedCurrenciesGorm(db *gorm.DB) error {
	catalog := currencyCatalog()
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "symbol"}),
	}).Create(&catalog).Error
	if err != nil {
		return fmt.Errorf("seed currencies: %w", err)
	}
	return nil
}
