package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() clientdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, client *clientdomain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*clientdomain.Client, error) {
	var client clientdomain.Client
	err := db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]clientdomain.Client, error) {
	var clients []clientdomain.Client
	err := db.WithContext(ctx).Order("name asc").Find(&clients).Error
	return clients, err
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, client *clientdomain.Client) error {
	return db.WithContext(ctx).Save(client).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&clientdomain.Client{}, "id = ?", id).Error
}

func (r *repository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&clientdomain.Client{}).Count(&count).Error
	return count, err
}
