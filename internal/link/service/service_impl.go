package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/Syaif05/superapp-admin-web/internal/link/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("link.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CategoryRequest) (*domain.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	record := &domain.LinkCategory{
		ID:         s.genID.Generate(),
		Name:       name,
		GroupEmail: normalizeOptional(req.GroupEmail),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateCategory(ctx, s.db, record); err != nil {
		return nil, err
	}

	resp := s.toCategoryResponse(record, 0)
	return &resp, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.CategoryResponse, error) {
	items, err := s.repo.ListCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.CategoryResponse, 0, len(items))
	for i := range items {
		count, err := s.repo.CountItems(ctx, s.db, items[i].ID.Int64())
		if err != nil {
			return nil, err
		}
		resp = append(resp, s.toCategoryResponse(&items[i], count))
	}
	return resp, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*domain.CategoryResponse, error) {
	categoryID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindCategoryByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	count, err := s.repo.CountItems(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}

	resp := s.toCategoryResponse(item, count)
	return &resp, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req domain.CategoryRequest) (*domain.CategoryResponse, error) {
	categoryID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindCategoryByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	item.Name = name
	if req.GroupEmail != nil {
		item.GroupEmail = normalizeOptional(req.GroupEmail)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCategory(ctx, s.db, item); err != nil {
		return nil, err
	}

	count, err := s.repo.CountItems(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}

	resp := s.toCategoryResponse(item, count)
	return &resp, nil
}

func (s *Service) UpdateCategoryTemplate(ctx context.Context, req domain.CategoryTemplateRequest) (*domain.CategoryResponse, error) {
	categoryID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindCategoryByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.EmailSubject != nil {
		item.EmailSubject = normalizeOptional(req.EmailSubject)
	}
	if req.EmailBody != nil {
		if body := *req.EmailBody; strings.TrimSpace(body) == "" {
			item.EmailBody = nil
		} else {
			item.EmailBody = &body
		}
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCategory(ctx, s.db, item); err != nil {
		return nil, err
	}

	count, err := s.repo.CountItems(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}

	resp := s.toCategoryResponse(item, count)
	return &resp, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	item, err := s.repo.FindCategoryByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	count, err := s.repo.CountItems(ctx, s.db, categoryID.Int64())
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryNotEmpty
	}

	return s.repo.DeleteCategory(ctx, s.db, categoryID.Int64())
}

func (s *Service) CreateItem(ctx context.Context, req domain.ItemRequest) (*domain.ItemResponse, error) {
	categoryID, err := parseID(req.CategoryID)
	if err != nil {
		return nil, domain.ErrInvalidCategoryID
	}

	category, err := s.repo.FindCategoryByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrInvalidCategoryID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	mainURL := strings.TrimSpace(req.MainURL)
	if mainURL == "" {
		return nil, domain.ErrInvalidURL
	}

	now := time.Now().UTC()
	record := &domain.LinkItem{
		ID:           s.genID.Generate(),
		CategoryID:   categoryID,
		Name:         name,
		MainURL:      mainURL,
		DriveURL:     normalizeOptional(req.DriveURL),
		EmailSubject: normalizeOptional(req.EmailSubject),
		EmailBody:    req.EmailBody,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateItem(ctx, s.db, record); err != nil {
		return nil, err
	}

	resp := s.toItemResponse(record)
	return &resp, nil
}

func (s *Service) ListItems(ctx context.Context, categoryID string) ([]domain.ItemResponse, error) {
	parsed, err := parseID(categoryID)
	if err != nil {
		return nil, domain.ErrInvalidCategoryID
	}

	items, err := s.repo.ListItems(ctx, s.db, parsed.Int64())
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, s.toItemResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) UpdateItem(ctx context.Context, id string, req domain.ItemRequest) (*domain.ItemResponse, error) {
	itemID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindItemByID(ctx, s.db, itemID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if trimmed := strings.TrimSpace(req.CategoryID); trimmed != "" {
		categoryID, err := parseID(trimmed)
		if err != nil {
			return nil, domain.ErrInvalidCategoryID
		}
		category, err := s.repo.FindCategoryByID(ctx, s.db, categoryID.Int64())
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrInvalidCategoryID
		}
		item.CategoryID = categoryID
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		item.Name = name
	}
	if mainURL := strings.TrimSpace(req.MainURL); mainURL != "" {
		item.MainURL = mainURL
	}
	if req.DriveURL != nil {
		item.DriveURL = normalizeOptional(req.DriveURL)
	}
	if req.EmailSubject != nil {
		item.EmailSubject = normalizeOptional(req.EmailSubject)
	}
	if req.EmailBody != nil {
		if body := *req.EmailBody; strings.TrimSpace(body) == "" {
			item.EmailBody = nil
		} else {
			item.EmailBody = &body
		}
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateItem(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toItemResponse(item)
	return &resp, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	itemID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	item, err := s.repo.FindItemByID(ctx, s.db, itemID.Int64())
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.DeleteItem(ctx, s.db, itemID.Int64())
}

func (s *Service) ResolveItems(ctx context.Context, ids []string) ([]domain.ResolvedItem, error) {
	parsed := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		itemID, err := parseID(id)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		parsed = append(parsed, itemID)
	}
	return s.repo.ListItemsByIDs(ctx, s.db, parsed)
}

func (s *Service) toCategoryResponse(c *domain.LinkCategory, count int64) domain.CategoryResponse {
	return domain.CategoryResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		GroupEmail:   c.GroupEmail,
		EmailSubject: c.EmailSubject,
		EmailBody:    c.EmailBody,
		ItemCount:    count,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (s *Service) toItemResponse(item *domain.LinkItem) domain.ItemResponse {
	return domain.ItemResponse{
		ID:           item.ID.String(),
		CategoryID:   item.CategoryID.String(),
		Name:         item.Name,
		MainURL:      item.MainURL,
		DriveURL:     item.DriveURL,
		EmailSubject: item.EmailSubject,
		EmailBody:    item.EmailBody,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseID(value string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || parsed == 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}
