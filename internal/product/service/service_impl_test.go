package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/Syaif05/superapp-admin-web/internal/product/domain"
	"github.com/Syaif05/superapp-admin-web/internal/product/repository"
	"github.com/Syaif05/superapp-admin-web/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProductService(t *testing.T, node *snowflake.Node) (domain.Service, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	prepareProductSchema(t, conn)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func prepareProductSchema(t *testing.T, conn *gorm.DB) {
	t.Helper()
	if err := conn.Exec(`CREATE TABLE products (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		product_code TEXT NOT NULL,
		product_type TEXT NOT NULL DEFAULT 'manual',
		group_email TEXT,
		prefix_code TEXT,
		role TEXT NOT NULL DEFAULT 'MEMBER',
		account_config JSON,
		email_subject TEXT,
		email_body TEXT,
		template_url TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create products: %v", err)
	}
	if err := conn.Exec(`CREATE UNIQUE INDEX ux_products_code ON products (product_code)`).Error; err != nil {
		t.Fatalf("create product code index: %v", err)
	}
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc, _ := setupProductService(t, mustNode(t))

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:        "   ",
		ProductCode: "netflix-1p",
	})
	if err != domain.ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestCreateDuplicateCode(t *testing.T) {
	svc, _ := setupProductService(t, mustNode(t))
	ctx := context.Background()

	req := domain.CreateRequest{
		Name:        "Netflix Private",
		ProductCode: "netflix-1p",
		ProductType: domain.ProductTypeManual,
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("create first: %v", err)
	}

	req.Name = "Netflix Private v2"
	if _, err := svc.Create(ctx, req); err != domain.ErrCodeExists {
		t.Fatalf("expected ErrCodeExists, got %v", err)
	}
}

func TestCreateAccountRequiresConfig(t *testing.T) {
	svc, _ := setupProductService(t, mustNode(t))

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:        "Canva Stock",
		ProductCode: "canva-stock",
		ProductType: domain.ProductTypeAccount,
	})
	if err != domain.ErrInvalidConfig {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestCreateNormalizesAccountFields(t *testing.T) {
	svc, _ := setupProductService(t, mustNode(t))

	created, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:        "Canva Stock",
		ProductCode: "canva-stock",
		ProductType: domain.ProductTypeAccount,
		AccountConfig: &domain.AccountConfig{
			Fields: []domain.AccountField{
				{Name: " Email "},
				{Name: "Password", Type: domain.FieldKindPassword},
			},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.AccountConfig == nil {
		t.Fatalf("expected account config on response")
	}
	fields := created.AccountConfig.Fields
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Name != "Email" || fields[0].Type != domain.FieldKindText {
		t.Fatalf("expected trimmed text field, got %+v", fields[0])
	}
}

func TestUpdateTemplateClearsBody(t *testing.T) {
	svc, _ := setupProductService(t, mustNode(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:        "Drive Pack",
		ProductCode: "drive-pack",
		ProductType: domain.ProductTypeLink,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	subject := "Pesanan {Nama Produk}"
	body := "<p>Halo {Email Pembeli}</p>"
	updated, err := svc.UpdateTemplate(ctx, domain.UpdateTemplateRequest{
		ID:           created.ID,
		EmailSubject: &subject,
		EmailBody:    &body,
	})
	if err != nil {
		t.Fatalf("update template: %v", err)
	}
	if updated.EmailBody == nil || *updated.EmailBody != body {
		t.Fatalf("expected body persisted, got %v", updated.EmailBody)
	}

	empty := ""
	cleared, err := svc.UpdateTemplate(ctx, domain.UpdateTemplateRequest{
		ID:        created.ID,
		EmailBody: &empty,
	})
	if err != nil {
		t.Fatalf("clear template: %v", err)
	}
	if cleared.EmailBody != nil {
		t.Fatalf("expected body cleared, got %q", *cleared.EmailBody)
	}
	if cleared.EmailSubject == nil || *cleared.EmailSubject != subject {
		t.Fatalf("expected subject untouched, got %v", cleared.EmailSubject)
	}
}

func TestDeleteMissingProduct(t *testing.T) {
	svc, _ := setupProductService(t, mustNode(t))
	node := mustNode(t)

	if err := svc.Delete(context.Background(), node.Generate().String()); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
