package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/Syaif05/superapp-admin-web/internal/clock"
	"github.com/Syaif05/superapp-admin-web/internal/history/domain"
	"github.com/Syaif05/superapp-admin-web/internal/history/repository"
	"github.com/Syaif05/superapp-admin-web/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupHistoryService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	prepareHistorySchema(t, conn)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewSystem(),
		Repo:  repository.Provide(),
	})
}

func prepareHistorySchema(t *testing.T, conn *gorm.DB) {
	t.Helper()
	if err := conn.Exec(`CREATE TABLE history (
		id BIGINT PRIMARY KEY,
		buyer_email TEXT NOT NULL,
		product_name TEXT NOT NULL,
		product_code TEXT,
		generated_id TEXT NOT NULL,
		status TEXT NOT NULL,
		message TEXT,
		raw_data JSON,
		created_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create history: %v", err)
	}
}

func TestRecordRejectsIncompleteEntry(t *testing.T) {
	svc := setupHistoryService(t)

	_, err := svc.Record(context.Background(), domain.RecordRequest{
		BuyerEmail: "buyer@mail.test",
		Status:     domain.StatusSuccess,
	})
	if err != domain.ErrInvalidEntry {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	svc := setupHistoryService(t)

	_, err := svc.Record(context.Background(), domain.RecordRequest{
		BuyerEmail:  "buyer@mail.test",
		ProductName: "Netflix Private",
		GeneratedID: "TRX-AAAAAAA001",
		Status:      domain.Status("PENDING"),
	})
	if err != domain.ErrInvalidEntry {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestListFiltersByBuyer(t *testing.T) {
	svc := setupHistoryService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(ctx, domain.RecordRequest{
			BuyerEmail:  "alice@mail.test",
			ProductName: "Netflix Private",
			GeneratedID: fmt.Sprintf("TRX-ALICE%05d", i),
			Status:      domain.StatusSuccess,
		}); err != nil {
			t.Fatalf("record alice %d: %v", i, err)
		}
	}
	if _, err := svc.Record(ctx, domain.RecordRequest{
		BuyerEmail:  "bob@mail.test",
		ProductName: "Canva Stock",
		GeneratedID: "TRX-BOB0000001",
		Status:      domain.StatusFailure,
		Message:     "send failed",
	}); err != nil {
		t.Fatalf("record bob: %v", err)
	}

	list, err := svc.List(ctx, domain.ListRequest{BuyerEmail: "alice@mail.test"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 3 || len(list.Items) != 3 {
		t.Fatalf("expected 3 records for alice, got total=%d items=%d", list.Total, len(list.Items))
	}
	for _, item := range list.Items {
		if item.BuyerEmail != "alice@mail.test" {
			t.Fatalf("unexpected buyer %q in filtered list", item.BuyerEmail)
		}
	}
}

func TestListPaginates(t *testing.T) {
	svc := setupHistoryService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Record(ctx, domain.RecordRequest{
			BuyerEmail:  "buyer@mail.test",
			ProductName: "Netflix Private",
			GeneratedID: fmt.Sprintf("TRX-PAGE%06d", i),
			Status:      domain.StatusSuccess,
		}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	page, err := svc.List(ctx, domain.ListRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("expected total 5, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(page.Items))
	}
}

func TestDeleteMissingRecord(t *testing.T) {
	svc := setupHistoryService(t)

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	if err := svc.Delete(context.Background(), node.Generate().String()); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
