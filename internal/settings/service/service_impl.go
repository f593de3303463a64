package service

import (
	"context"
	"errors"
	"strings"

	settingsdomain "github.com/ledgerlinelabs/ledgerline/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

type ServiceParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func NewService(p ServiceParam) settingsdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("settings.service"),
	}
}

func (s *Service) Get(ctx context.Context, key string) (settingsdomain.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return settingsdomain.Setting{}, settingsdomain.ErrInvalidKey
	}

	var setting settingsdomain.Setting
	err := s.db.WithContext(ctx).First(&setting, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settingsdomain.Setting{}, settingsdomain.ErrSettingNotFound
		}
		return settingsdomain.Setting{}, err
	}
	return setting, nil
}

func (s *Service) Put(ctx context.Context, key, value string) (settingsdomain.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return settingsdomain.Setting{}, settingsdomain.ErrInvalidKey
	}

	setting := settingsdomain.Setting{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
	if err != nil {
		return settingsdomain.Setting{}, err
	}
	return setting, nil
}

func (s *Service) List(ctx context.Context) ([]settingsdomain.Setting, error) {
	var settings []settingsdomain.Setting
	err := s.db.WithContext(ctx).Order("key asc").Find(&settings).Error
	return settings, err
}

func (s *Service) ListCurrencies(ctx context.Context) ([]settingsdomain.Currency, error) {
	var currencies []settingsdomain.Currency
	err := s.db.WithContext(ctx).Order("code asc").Find(&currencies).Error
	return currencies, err
}
