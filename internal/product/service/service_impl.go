package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/Syaif05/superapp-admin-web/internal/product/domain"
	"github.com/Syaif05/superapp-admin-web/pkg/db"
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
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	filter := domain.ListRequest{
		Name: strings.TrimSpace(req.Name),
		Type: req.Type,
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	code := strings.TrimSpace(req.ProductCode)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}

	productType, err := normalizeProductType(req.ProductType)
	if err != nil {
		return nil, err
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = "MEMBER"
	}

	now := time.Now().UTC()
	record := &domain.Product{
		ID:          s.genID.Generate(),
		Name:        name,
		ProductCode: code,
		Type:        productType,
		GroupEmail:  normalizeOptional(req.GroupEmail),
		PrefixCode:  normalizeOptional(req.PrefixCode),
		Role:        role,
		TemplateURL: normalizeOptional(req.TemplateURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.AccountConfig != nil {
		cfg, err := normalizeAccountConfig(*req.AccountConfig)
		if err != nil {
			return nil, err
		}
		record.AccountConfig = datatypes.NewJSONType(cfg)
	} else if productType == domain.ProductTypeAccount {
		return nil, domain.ErrInvalidConfig
	}

	if err := s.repo.Create(ctx, s.db, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCodeExists
		}
		return nil, err
	}

	resp := s.toResponse(record)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.GroupEmail != nil {
		item.GroupEmail = normalizeOptional(req.GroupEmail)
	}
	if req.PrefixCode != nil {
		item.PrefixCode = normalizeOptional(req.PrefixCode)
	}
	if req.Role != nil {
		role := strings.ToUpper(strings.TrimSpace(*req.Role))
		if role == "" {
			role = "MEMBER"
		}
		item.Role = role
	}
	if req.AccountConfig != nil {
		cfg, err := normalizeAccountConfig(*req.AccountConfig)
		if err != nil {
			return nil, err
		}
		item.AccountConfig = datatypes.NewJSONType(cfg)
	}
	if req.TemplateURL != nil {
		item.TemplateURL = normalizeOptional(req.TemplateURL)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, req domain.UpdateTemplateRequest) (*domain.Response, error) {
	productID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
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
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, productID.Int64())
}

func (s *Service) toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:           p.ID.String(),
		Name:         p.Name,
		ProductCode:  p.ProductCode,
		ProductType:  p.Type,
		GroupEmail:   p.GroupEmail,
		PrefixCode:   p.PrefixCode,
		Role:         p.Role,
		EmailSubject: p.EmailSubject,
		EmailBody:    p.EmailBody,
		TemplateURL:  p.TemplateURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if cfg := p.AccountConfig.Data(); len(cfg.Fields) > 0 || cfg.Template != "" {
		config := cfg
		resp.AccountConfig = &config
	}
	return resp
}

func normalizeProductType(value domain.ProductType) (domain.ProductType, error) {
	switch strings.ToLower(strings.TrimSpace(string(value))) {
	case string(domain.ProductTypeManual), "":
		return domain.ProductTypeManual, nil
	case string(domain.ProductTypeLink):
		return domain.ProductTypeLink, nil
	case string(domain.ProductTypeAccount):
		return domain.ProductTypeAccount, nil
	default:
		return "", domain.ErrInvalidType
	}
}

func normalizeAccountConfig(cfg domain.AccountConfig) (domain.AccountConfig, error) {
	fields := make([]domain.AccountField, 0, len(cfg.Fields))
	for _, field := range cfg.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return domain.AccountConfig{}, domain.ErrInvalidConfig
		}
		kind := field.Type
		switch kind {
		case domain.FieldKindText, domain.FieldKindPassword, domain.FieldKindDate, domain.FieldKindNumber:
		case "":
			kind = domain.FieldKindText
		default:
			return domain.AccountConfig{}, domain.ErrInvalidConfig
		}
		fields = append(fields, domain.AccountField{Name: name, Type: kind})
	}
	if len(fields) == 0 {
		return domain.AccountConfig{}, domain.ErrInvalidConfig
	}
	return domain.AccountConfig{Fields: fields, Template: cfg.Template}, nil
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
