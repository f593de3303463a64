package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/clock"
	"github.com/ledgerlinelabs/ledgerline/internal/config"
	invoiceservice "github.com/ledgerlinelabs/ledgerline/internal/invoice/service"
	"github.com/ledgerlinelabs/ledgerline/internal/observability"
	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	cfg *config.Config

	genID      *snowflake.Node
	clock      clock.Clock
	repo       recurringdomain.Repository
	clientRepo clientdomain.Repository
	allocator  *invoiceservice.NumberAllocator
	metrics    *observability.Metrics

	// Generate is not safe to run concurrently; overlapping manual and
	// timer triggers are serialized here.
	runMu sync.Mutex
}

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Cfg        *config.Config
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       recurringdomain.Repository
	ClientRepo clientdomain.Repository
	Allocator  *invoiceservice.NumberAllocator
	Metrics    *observability.Metrics `optional:"true"`
}

func NewService(p ServiceParam) recurringdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("recurring.service"),
		cfg: p.Cfg,

		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		clientRepo: p.ClientRepo,
		allocator:  p.Allocator,
		metrics:    p.Metrics,
	}
}

const dateLayout = "2006-01-02"

func (s *Service) Create(ctx context.Context, req recurringdomain.CreateScheduleRequest) (recurringdomain.Schedule, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		return recurringdomain.Schedule{}, recurringdomain.ErrInvalidClient
	}
	client, err := s.clientRepo.FindByID(ctx, s.db, clientID)
	if err != nil {
		return recurringdomain.Schedule{}, err
	}
	if client == nil {
		return recurringdomain.Schedule{}, recurringdomain.ErrInvalidClient
	}

	frequency, err := recurringdomain.ParseFrequency(strings.TrimSpace(req.Frequency))
	if err != nil {
		return recurringdomain.Schedule{}, err
	}
	if req.Interval <= 0 {
		return recurringdomain.Schedule{}, recurringdomain.ErrInvalidInterval
	}

	startDate, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return recurringdomain.Schedule{}, recurringdomain.ErrInvalidStartDate
	}
	var endDate *time.Time
	if strings.TrimSpace(req.EndDate) != "" {
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(req.EndDate))
		if err != nil {
			return recurringdomain.Schedule{}, err
		}
		endDate = &parsed
	}

	items, err := buildScheduleItems(s.genID, req.Items)
	if err != nil {
		return recurringdomain.Schedule{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	now := s.clock.Now(ctx)
	schedule := recurringdomain.Schedule{
		ID:          s.genID.Generate(),
		ClientID:    clientID,
		Frequency:   frequency,
		Interval:    req.Interval,
		StartDate:   startDate,
		EndDate:     endDate,
		NextDueDate: startDate,
		Active:      true,
		Currency:    currency,
		TaxRate:     req.TaxRate,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       items,
	}
	for i := range schedule.Items {
		schedule.Items[i].ScheduleID = schedule.ID
	}

	if err := s.repo.Insert(ctx, s.db, &schedule); err != nil {
		return recurringdomain.Schedule{}, err
	}
	return schedule, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (recurringdomain.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return recurringdomain.Schedule{}, err
	}
	if schedule == nil {
		return recurringdomain.Schedule{}, recurringdomain.ErrScheduleNotFound
	}
	return *schedule, nil
}

func (s *Service) List(ctx context.Context) ([]recurringdomain.Schedule, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req recurringdomain.UpdateScheduleRequest) (recurringdomain.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return recurringdomain.Schedule{}, err
	}
	if schedule == nil {
		return recurringdomain.Schedule{}, recurringdomain.ErrScheduleNotFound
	}

	if strings.TrimSpace(req.ClientID) != "" {
		clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
		if err != nil {
			return recurringdomain.Schedule{}, recurringdomain.ErrInvalidClient
		}
		schedule.ClientID = clientID
	}
	if strings.TrimSpace(req.Frequency) != "" {
		frequency, err := recurringdomain.ParseFrequency(strings.TrimSpace(req.Frequency))
		if err != nil {
			return recurringdomain.Schedule{}, err
		}
		schedule.Frequency = frequency
	}
	if req.Interval != 0 {
		if req.Interval < 0 {
			return recurringdomain.Schedule{}, recurringdomain.ErrInvalidInterval
		}
		schedule.Interval = req.Interval
	}
	if strings.TrimSpace(req.StartDate) != "" {
		startDate, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
		if err != nil {
			return recurringdomain.Schedule{}, recurringdomain.ErrInvalidStartDate
		}
		schedule.StartDate = startDate
	}
	if strings.TrimSpace(req.EndDate) != "" {
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(req.EndDate))
		if err != nil {
			return recurringdomain.Schedule{}, err
		}
		schedule.EndDate = &parsed
	} else {
		schedule.EndDate = nil
	}
	if currency := strings.ToUpper(strings.TrimSpace(req.Currency)); currency != "" {
		schedule.Currency = currency
	}
	schedule.TaxRate = req.TaxRate
	schedule.Notes = req.Notes

	now := s.clock.Now(ctx)
	// A start date moved into the future resets the cursor; a past start
	// date leaves the cursor where the last run advanced it to.
	if schedule.StartDate.After(truncateToDate(now)) {
		schedule.NextDueDate = schedule.StartDate
	}
	schedule.UpdatedAt = now

	items, err := buildScheduleItems(s.genID, req.Items)
	if err != nil {
		return recurringdomain.Schedule{}, err
	}
	for i := range items {
		items[i].ScheduleID = schedule.ID
	}
	schedule.Items = items

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.ReplaceItems(ctx, tx, schedule.ID, items); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, schedule)
	}); err != nil {
		return recurringdomain.Schedule{}, err
	}
	return *schedule, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	schedule, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if schedule == nil {
		return recurringdomain.ErrScheduleNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

func buildScheduleItems(genID *snowflake.Node, reqs []recurringdomain.ScheduleItemRequest) ([]recurringdomain.ScheduleItem, error) {
	items := make([]recurringdomain.ScheduleItem, 0, len(reqs))
	for _, req := range reqs {
		description := strings.TrimSpace(req.Description)
		if description == "" {
			continue
		}
		items = append(items, recurringdomain.ScheduleItem{
			ID:          genID.Generate(),
			Description: description,
			Quantity:    req.Quantity,
			Rate:        req.Rate,
		})
	}
	if len(items) == 0 {
		return nil, recurringdomain.ErrInvalidItems
	}
	return items, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
