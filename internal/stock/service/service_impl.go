package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/Syaif05/superapp-admin-web/internal/clock"
	"github.com/Syaif05/superapp-admin-web/internal/stock/domain"
	"github.com/Syaif05/superapp-admin-web/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// claimAttempts bounds the FIFO retry when a concurrent claim wins the
// selected row.
const claimAttempts = 2

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
		log:   p.Log.Named("stock.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) ClaimOldest(ctx context.Context, req domain.ClaimRequest) (*domain.Response, error) {
	productID, err := parseID(req.ProductID)
	if err != nil {
		return nil, domain.ErrInvalidProductID
	}

	txID := strings.TrimSpace(req.TransactionID)
	buyer := strings.TrimSpace(req.BuyerEmail)
	if txID == "" || buyer == "" {
		return nil, domain.ErrInvalidData
	}

	for attempt := 0; attempt < claimAttempts; attempt++ {
		candidate, err := s.repo.FindOldestAvailable(ctx, s.db, productID.Int64())
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			return nil, domain.ErrOutOfStock
		}

		now := s.clock.Now()
		candidate.IsSold = true
		candidate.TransactionID = &txID
		candidate.BuyerEmail = &buyer
		candidate.SoldAt = &now
		candidate.UpdatedAt = now

		won, err := s.repo.MarkSold(ctx, s.db, candidate)
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				return nil, domain.ErrRaceLost
			}
			return nil, err
		}
		if won {
			resp := s.toResponse(candidate)
			return &resp, nil
		}

		s.log.Warn("stock claim lost race, retrying",
			zap.String("product_id", productID.String()),
			zap.String("stock_id", candidate.ID.String()),
			zap.Int("attempt", attempt+1),
		)
	}

	// Every refreshed selection was taken by a concurrent claim.
	return nil, domain.ErrOutOfStock
}

func (s *Service) ClaimByID(ctx context.Context, req domain.ClaimRequest) (*domain.Response, error) {
	stockID, err := parseID(req.StockID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	txID := strings.TrimSpace(req.TransactionID)
	buyer := strings.TrimSpace(req.BuyerEmail)
	if txID == "" || buyer == "" {
		return nil, domain.ErrInvalidData
	}

	candidate, err := s.repo.FindByID(ctx, s.db, stockID.Int64())
	if err != nil {
		return nil, err
	}
	if candidate == nil || candidate.IsSold {
		return nil, domain.ErrStockUnavailable
	}
	if trimmed := strings.TrimSpace(req.ProductID); trimmed != "" {
		productID, err := parseID(trimmed)
		if err != nil || candidate.ProductID != productID {
			return nil, domain.ErrStockUnavailable
		}
	}

	now := s.clock.Now()
	candidate.IsSold = true
	candidate.TransactionID = &txID
	candidate.BuyerEmail = &buyer
	candidate.SoldAt = &now
	candidate.UpdatedAt = now

	won, err := s.repo.MarkSold(ctx, s.db, candidate)
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			// The generated transaction id collided; the row itself is
			// still unsold, so the caller regenerates and retries.
			return nil, domain.ErrRaceLost
		}
		return nil, err
	}
	if !won {
		return nil, domain.ErrStockUnavailable
	}

	resp := s.toResponse(candidate)
	return &resp, nil
}

func (s *Service) Add(ctx context.Context, req domain.AddRequest) (*domain.Response, error) {
	productID, err := parseID(req.ProductID)
	if err != nil {
		return nil, domain.ErrInvalidProductID
	}
	if len(req.AccountData) == 0 {
		return nil, domain.ErrInvalidData
	}

	now := s.clock.Now()
	record := &domain.AccountStock{
		ID:          s.genID.Generate(),
		ProductID:   productID,
		AccountData: datatypes.JSONMap(req.AccountData),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, s.db, record); err != nil {
		return nil, err
	}

	resp := s.toResponse(record)
	return &resp, nil
}

func (s *Service) BulkAdd(ctx context.Context, req domain.BulkAddRequest) ([]domain.Response, error) {
	productID, err := parseID(req.ProductID)
	if err != nil {
		return nil, domain.ErrInvalidProductID
	}
	if len(req.Rows) == 0 {
		return nil, domain.ErrInvalidData
	}

	now := s.clock.Now()
	records := make([]domain.AccountStock, 0, len(req.Rows))
	for _, row := range req.Rows {
		if len(row) == 0 {
			return nil, domain.ErrInvalidData
		}
		records = append(records, domain.AccountStock{
			ID:          s.genID.Generate(),
			ProductID:   productID,
			AccountData: datatypes.JSONMap(row),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.repo.CreateBatch(ctx, s.db, records); err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(records))
	for i := range records {
		resp = append(resp, s.toResponse(&records[i]))
	}
	return resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	filter := domain.ListRequest{
		Sold:     req.Sold,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if trimmed := strings.TrimSpace(req.ProductID); trimmed != "" {
		productID, err := parseID(trimmed)
		if err != nil {
			return nil, domain.ErrInvalidProductID
		}
		filter.ProductID = productID.String()
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

func (s *Service) Stats(ctx context.Context, productID string) (*domain.StatsResponse, error) {
	parsed, err := parseID(productID)
	if err != nil {
		return nil, domain.ErrInvalidProductID
	}

	available, sold, err := s.repo.CountByProduct(ctx, s.db, parsed.Int64())
	if err != nil {
		return nil, err
	}

	return &domain.StatsResponse{
		ProductID: parsed.String(),
		Available: available,
		Sold:      sold,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	stockID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, stockID.Int64())
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if item.IsSold {
		return domain.ErrStockSold
	}

	return s.repo.Delete(ctx, s.db, stockID.Int64())
}

func (s *Service) toResponse(stock *domain.AccountStock) domain.Response {
	return domain.Response{
		ID:            stock.ID.String(),
		ProductID:     stock.ProductID.String(),
		AccountData:   map[string]any(stock.AccountData),
		IsSold:        stock.IsSold,
		TransactionID: stock.TransactionID,
		BuyerEmail:    stock.BuyerEmail,
		SoldAt:        stock.SoldAt,
		CreatedAt:     stock.CreatedAt,
		UpdatedAt:     stock.UpdatedAt,
	}
}

func parseID(value string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || parsed == 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}
