package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company"`
}

type UpdateClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company"`
}

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (Client, error)
	GetByID(ctx context.Context, id snowflake.ID) (Client, error)
	List(ctx context.Context) ([]Client, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateClientRequest) (Client, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
