package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/Syaif05/superapp-admin-web/internal/clock"
	"github.com/Syaif05/superapp-admin-web/internal/history/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("history.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) (*domain.Response, error) {
	buyer := strings.TrimSpace(req.BuyerEmail)
	productName := strings.TrimSpace(req.ProductName)
	generatedID := strings.TrimSpace(req.GeneratedID)
	if buyer == "" || productName == "" || generatedID == "" {
		return nil, domain.ErrInvalidEntry
	}

	status := req.Status
	if status != domain.StatusSuccess && status != domain.StatusFailure {
		return nil, domain.ErrInvalidEntry
	}

	record := &domain.HistoryRecord{
		ID:          s.genID.Generate(),
		BuyerEmail:  buyer,
		ProductName: productName,
		ProductCode: strings.TrimSpace(req.ProductCode),
		GeneratedID: generatedID,
		Status:      status,
		CreatedAt:   s.clock.Now(),
	}
	if message := strings.TrimSpace(req.Message); message != "" {
		record.Message = &message
	}
	if len(req.RawData) > 0 {
		record.RawData = datatypes.JSONMap(req.RawData)
	}

	if err := s.repo.Create(ctx, s.db, record); err != nil {
		return nil, err
	}

	resp := s.toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	filter := domain.ListRequest{
		BuyerEmail: strings.TrimSpace(req.BuyerEmail),
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, s.toResponse(&items[i]))
	}
	return &domain.ListResponse{Items: resp, Total: total}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || recordID == 0 {
		return domain.ErrInvalidID
	}

	record, err := s.repo.FindByID(ctx, s.db, recordID.Int64())
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, recordID.Int64())
}

func (s *Service) toResponse(record *domain.HistoryRecord) domain.Response {
	resp := domain.Response{
		ID:          record.ID.String(),
		BuyerEmail:  record.BuyerEmail,
		ProductName: record.ProductName,
		ProductCode: record.ProductCode,
		GeneratedID: record.GeneratedID,
		Status:      record.Status,
		Message:     record.Message,
		CreatedAt:   record.CreatedAt,
	}
	if len(record.RawData) > 0 {
		resp.RawData = map[string]any(record.RawData)
	}
	return resp
}
