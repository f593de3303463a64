package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  clientdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  clientdomain.Repository
}

func NewService(p ServiceParam) clientdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("client.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req clientdomain.CreateClientRequest) (clientdomain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return clientdomain.Client{}, clientdomain.ErrInvalidName
	}

	now := s.clock.Now(ctx)
	client := clientdomain.Client{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Company:   strings.TrimSpace(req.Company),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		return clientdomain.Client{}, err
	}
	return client, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (clientdomain.Client, error) {
	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return clientdomain.Client{}, err
	}
	if client == nil {
		return clientdomain.Client{}, clientdomain.ErrClientNotFound
	}
	return *client, nil
}

func (s *Service) List(ctx context.Context) ([]clientdomain.Client, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req clientdomain.UpdateClientRequest) (clientdomain.Client, error) {
	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return clientdomain.Client{}, err
	}
	if client == nil {
		return clientdomain.Client{}, clientdomain.ErrClientNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return clientdomain.Client{}, clientdomain.ErrInvalidName
	}

	client.Name = name
	client.Email = strings.TrimSpace(req.Email)
	client.Phone = strings.TrimSpace(req.Phone)
	client.Address = strings.TrimSpace(req.Address)
	client.Company = strings.TrimSpace(req.Company)
	client.UpdatedAt = s.clock.Now(ctx)

	if err := s.repo.Update(ctx, s.db, client); err != nil {
		return clientdomain.Client{}, err
	}
	return *client, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if client == nil {
		return clientdomain.ErrClientNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}
