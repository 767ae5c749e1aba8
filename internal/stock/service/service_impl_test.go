package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/Syaif05/superapp-admin-web/internal/clock"
	"github.com/Syaif05/superapp-admin-web/internal/stock/domain"
	"github.com/Syaif05/superapp-admin-web/internal/stock/repository"
	"github.com/Syaif05/superapp-admin-web/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupStockService(t *testing.T, node *snowflake.Node) (domain.Service, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	prepareStockSchema(t, conn)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewSystem(),
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func prepareStockSchema(t *testing.T, conn *gorm.DB) {
	t.Helper()
	if err := conn.Exec(`CREATE TABLE account_stocks (
		id BIGINT PRIMARY KEY,
		product_id BIGINT NOT NULL,
		account_data JSON NOT NULL,
		is_sold BOOLEAN NOT NULL DEFAULT FALSE,
		transaction_id TEXT,
		buyer_email TEXT,
		sold_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create account_stocks: %v", err)
	}
	if err := conn.Exec(`CREATE UNIQUE INDEX ux_account_stocks_transaction
		ON account_stocks (transaction_id) WHERE transaction_id IS NOT NULL`).Error; err != nil {
		t.Fatalf("create transaction index: %v", err)
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

func seedStock(t *testing.T, svc domain.Service, productID snowflake.ID, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		created, err := svc.Add(context.Background(), domain.AddRequest{
			ProductID:   productID.String(),
			AccountData: map[string]any{"Email": fmt.Sprintf("acc%d@mail.test", i), "Password": "secret"},
		})
		if err != nil {
			t.Fatalf("seed stock %d: %v", i, err)
		}
		ids = append(ids, created.ID)
	}
	return ids
}

func TestClaimOldestFIFO(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupStockService(t, node)
	productID := node.Generate()
	ids := seedStock(t, svc, productID, 3)

	claimed, err := svc.ClaimOldest(context.Background(), domain.ClaimRequest{
		ProductID:     productID.String(),
		TransactionID: "TRX-AAAAAAA001",
		BuyerEmail:    "buyer@mail.test",
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.ID != ids[0] {
		t.Fatalf("expected oldest row %s, got %s", ids[0], claimed.ID)
	}
	if !claimed.IsSold || claimed.TransactionID == nil || *claimed.TransactionID != "TRX-AAAAAAA001" {
		t.Fatalf("expected sold row stamped with transaction, got %+v", claimed)
	}
	if claimed.SoldAt == nil {
		t.Fatalf("expected sold_at set")
	}
}

func TestClaimOldestOutOfStock(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupStockService(t, node)
	productID := node.Generate()

	_, err := svc.ClaimOldest(context.Background(), domain.ClaimRequest{
		ProductID:     productID.String(),
		TransactionID: "TRX-AAAAAAA002",
		BuyerEmail:    "buyer@mail.test",
	})
	if err != domain.ErrOutOfStock {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestClaimOldestConcurrentExactlyOnce(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupStockService(t, node)
	productID := node.Generate()
	seedStock(t, svc, productID, 5)

	const claimers = 10
	var wg sync.WaitGroup
	results := make(chan error, claimers)
	for i := 0; i < claimers; i++ {
		txID := fmt.Sprintf("TRX-CONC%06d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ClaimOldest(context.Background(), domain.ClaimRequest{
				ProductID:     productID.String(),
				TransactionID: txID,
				BuyerEmail:    "buyer@mail.test",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		switch err {
		case nil:
			won++
		case domain.ErrOutOfStock, domain.ErrRaceLost:
			lost++
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if won > 5 {
		t.Fatalf("sold more rows than existed: %d", won)
	}
	if won+lost != claimers {
		t.Fatalf("expected %d outcomes, got %d", claimers, won+lost)
	}

	var sold int64
	if err := conn.Raw(`SELECT COUNT(1) FROM account_stocks WHERE is_sold = TRUE`).Scan(&sold).Error; err != nil {
		t.Fatalf("count sold: %v", err)
	}
	if sold != int64(won) {
		t.Fatalf("expected %d sold rows, got %d", won, sold)
	}

	var distinct int64
	if err := conn.Raw(`SELECT COUNT(DISTINCT transaction_id) FROM account_stocks WHERE is_sold = TRUE`).Scan(&distinct).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if distinct != sold {
		t.Fatalf("expected one transaction per sold row, got %d transactions for %d rows", distinct, sold)
	}
}

func TestClaimByIDSoldRow(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupStockService(t, node)
	productID := node.Generate()
	ids := seedStock(t, svc, productID, 1)
	ctx := context.Background()

	if _, err := svc.ClaimByID(ctx, domain.ClaimRequest{
		StockID:       ids[0],
		TransactionID: "TRX-AAAAAAA003",
		BuyerEmail:    "first@mail.test",
	}); err != nil {
		t.Fatalf("claim first: %v", err)
	}

	_, err := svc.ClaimByID(ctx, domain.ClaimRequest{
		StockID:       ids[0],
		TransactionID: "TRX-AAAAAAA004",
		BuyerEmail:    "second@mail.test",
	})
	if err != domain.ErrStockUnavailable {
		t.Fatalf("expected ErrStockUnavailable, got %v", err)
	}
}

func TestClaimByIDMissingRow(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupStockService(t, node)

	_, err := svc.ClaimByID(context.Background(), domain.ClaimRequest{
		StockID:       node.Generate().String(),
		TransactionID: "TRX-AAAAAAA005",
		BuyerEmail:    "buyer@mail.test",
	})
	if err != domain.ErrStockUnavailable {
		t.Fatalf("expected ErrStockUnavailable, got %v", err)
	}
}

func TestClaimByIDForeignProduct(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupStockService(t, node)
	productID := node.Generate()
	ids := seedStock(t, svc, productID, 1)

	_, err := svc.ClaimByID(context.Background(), domain.ClaimRequest{
		ProductID:     node.Generate().String(),
		StockID:       ids[0],
		TransactionID: "TRX-AAAAAAA008",
		BuyerEmail:    "buyer@mail.test",
	})
	if err != domain.ErrStockUnavailable {
		t.Fatalf("expected ErrStockUnavailable, got %v", err)
	}
}

func TestClaimByIDTransactionCollisionIsRetryable(t *testing.T) {
	node := mustNode(t)
	svc, conn := setupStockService(t, node)
	productID := node.Generate()
	ids := seedStock(t, svc, productID, 2)
	ctx := context.Background()

	if _, err := svc.ClaimByID(ctx, domain.ClaimRequest{
		StockID:       ids[0],
		TransactionID: "TRX-AAAAAAA009",
		BuyerEmail:    "first@mail.test",
	}); err != nil {
		t.Fatalf("claim first: %v", err)
	}

	_, err := svc.ClaimByID(ctx, domain.ClaimRequest{
		StockID:       ids[1],
		TransactionID: "TRX-AAAAAAA009",
		BuyerEmail:    "second@mail.test",
	})
	if err != domain.ErrRaceLost {
		t.Fatalf("expected ErrRaceLost on transaction collision, got %v", err)
	}

	var sold bool
	if err := conn.Raw(`SELECT is_sold FROM account_stocks WHERE id = ?`, ids[1]).Scan(&sold).Error; err != nil {
		t.Fatalf("read row: %v", err)
	}
	if sold {
		t.Fatalf("expected collided row to stay unsold")
	}

	claimed, err := svc.ClaimByID(ctx, domain.ClaimRequest{
		StockID:       ids[1],
		TransactionID: "TRX-AAAAAAA010",
		BuyerEmail:    "second@mail.test",
	})
	if err != nil {
		t.Fatalf("retry with fresh transaction id: %v", err)
	}
	if claimed.TransactionID == nil || *claimed.TransactionID != "TRX-AAAAAAA010" {
		t.Fatalf("expected retried claim stamped with new transaction, got %+v", claimed)
	}
}

func TestClaimStampsSoldAtFromClock(t *testing.T) {
	node := mustNode(t)
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	prepareStockSchema(t, conn)

	fake := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	productID := node.Generate()
	ids := seedStock(t, svc, productID, 2)
	ctx := context.Background()

	first, err := svc.ClaimByID(ctx, domain.ClaimRequest{
		StockID:       ids[0],
		TransactionID: "TRX-AAAAAAA011",
		BuyerEmail:    "buyer@mail.test",
	})
	if err != nil {
		t.Fatalf("claim first: %v", err)
	}
	if first.SoldAt == nil || !first.SoldAt.Equal(fake.Now()) {
		t.Fatalf("expected sold_at %v, got %v", fake.Now(), first.SoldAt)
	}

	fake.Advance(45 * time.Minute)

	second, err := svc.ClaimByID(ctx, domain.ClaimRequest{
		StockID:       ids[1],
		TransactionID: "TRX-AAAAAAA012",
		BuyerEmail:    "buyer@mail.test",
	})
	if err != nil {
		t.Fatalf("claim second: %v", err)
	}
	if second.SoldAt == nil || !second.SoldAt.Equal(fake.Now()) {
		t.Fatalf("expected sold_at %v after advance, got %v", fake.Now(), second.SoldAt)
	}
	if !second.SoldAt.After(*first.SoldAt) {
		t.Fatalf("expected second sale after first, got %v then %v", first.SoldAt, second.SoldAt)
	}
}

func TestDeleteSoldRowRefused(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupStockService(t, node)
	productID := node.Generate()
	ids := seedStock(t, svc, productID, 1)
	ctx := context.Background()

	if _, err := svc.ClaimByID(ctx, domain.ClaimRequest{
		StockID:       ids[0],
		TransactionID: "TRX-AAAAAAA006",
		BuyerEmail:    "buyer@mail.test",
	}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	if err := svc.Delete(ctx, ids[0]); err != domain.ErrStockSold {
		t.Fatalf("expected ErrStockSold, got %v", err)
	}
}

func TestStatsCountsAvailableAndSold(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupStockService(t, node)
	productID := node.Generate()
	seedStock(t, svc, productID, 4)
	ctx := context.Background()

	if _, err := svc.ClaimOldest(ctx, domain.ClaimRequest{
		ProductID:     productID.String(),
		TransactionID: "TRX-AAAAAAA007",
		BuyerEmail:    "buyer@mail.test",
	}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	stats, err := svc.Stats(ctx, productID.String())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Available != 3 || stats.Sold != 1 {
		t.Fatalf("expected 3 available / 1 sold, got %d / %d", stats.Available, stats.Sold)
	}
}
