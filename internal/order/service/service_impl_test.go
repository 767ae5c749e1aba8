package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/Syaif05/superapp-admin-web/internal/clock"
	"github.com/Syaif05/superapp-admin-web/internal/config"
	historydomain "github.com/Syaif05/superapp-admin-web/internal/history/domain"
	historyrepo "github.com/Syaif05/superapp-admin-web/internal/history/repository"
	historyservice "github.com/Syaif05/superapp-admin-web/internal/history/service"
	linkdomain "github.com/Syaif05/superapp-admin-web/internal/link/domain"
	linkrepo "github.com/Syaif05/superapp-admin-web/internal/link/repository"
	linkservice "github.com/Syaif05/superapp-admin-web/internal/link/service"
	"github.com/Syaif05/superapp-admin-web/internal/order/domain"
	productdomain "github.com/Syaif05/superapp-admin-web/internal/product/domain"
	productrepo "github.com/Syaif05/superapp-admin-web/internal/product/repository"
	productservice "github.com/Syaif05/superapp-admin-web/internal/product/service"
	stockdomain "github.com/Syaif05/superapp-admin-web/internal/stock/domain"
	stockrepo "github.com/Syaif05/superapp-admin-web/internal/stock/repository"
	stockservice "github.com/Syaif05/superapp-admin-web/internal/stock/service"
	"github.com/Syaif05/superapp-admin-web/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type mailStub struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mailStub) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *mailStub) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

type directoryStub struct {
	mu      sync.Mutex
	members []string
	err     error
}

func (d *directoryStub) AddMember(ctx context.Context, groupEmail, memberEmail, role string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.members = append(d.members, groupEmail+"/"+memberEmail+"/"+role)
	return nil
}

func (d *directoryStub) Members() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.members))
	copy(out, d.members)
	return out
}

type driveStub struct {
	mu     sync.Mutex
	grants []string
	err    error
}

func (d *driveStub) GrantReader(ctx context.Context, url, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.grants = append(d.grants, url+"/"+email)
	return nil
}

func (d *driveStub) Grants() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.grants))
	copy(out, d.grants)
	return out
}

type fetcherStub struct {
	mu    sync.Mutex
	calls int
	body  string
	err   error
}

func (f *fetcherStub) FetchText(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.body, f.err
}

func (f *fetcherStub) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type orderFixture struct {
	svc       domain.Service
	products  productdomain.Service
	stocks    stockdomain.Service
	links     linkdomain.Service
	history   historydomain.Service
	mail      *mailStub
	directory *directoryStub
	drive     *driveStub
	fetcher   *fetcherStub
	conn      *gorm.DB
}

func setupOrderService(t *testing.T) *orderFixture {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	prepareOrderSchema(t, conn)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	log := zap.NewNop()

	f := &orderFixture{
		mail:      &mailStub{},
		directory: &directoryStub{},
		drive:     &driveStub{},
		fetcher:   &fetcherStub{},
		conn:      conn,
	}
	f.products = productservice.New(productservice.Params{DB: conn, Log: log, GenID: node, Repo: productrepo.Provide()})
	f.stocks = stockservice.New(stockservice.Params{DB: conn, Log: log, GenID: node, Clock: clock.NewSystem(), Repo: stockrepo.Provide()})
	f.links = linkservice.New(linkservice.Params{DB: conn, Log: log, GenID: node, Repo: linkrepo.Provide()})
	f.history = historyservice.New(historyservice.Params{DB: conn, Log: log, GenID: node, Clock: clock.NewSystem(), Repo: historyrepo.Provide()})

	f.svc = New(Params{
		Log: log,
		Config: config.Config{
			SideEffectTimeout:    2 * time.Second,
			TemplateFetchTimeout: time.Second,
		},
		Metrics:   nil,
		Products:  f.products,
		Stocks:    f.stocks,
		Links:     f.links,
		History:   f.history,
		Directory: f.directory,
		Drive:     f.drive,
		Mail:      f.mail,
		Fetcher:   f.fetcher,
	})
	return f
}

func prepareOrderSchema(t *testing.T, conn *gorm.DB) {
	t.Helper()
	statements := []string{
		`CREATE TABLE products (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			product_code TEXT NOT NULL UNIQUE,
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
		)`,
		`CREATE TABLE account_stocks (
			id BIGINT PRIMARY KEY,
			product_id BIGINT NOT NULL,
			account_data JSON NOT NULL,
			is_sold BOOLEAN NOT NULL DEFAULT FALSE,
			transaction_id TEXT,
			buyer_email TEXT,
			sold_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_account_stocks_transaction
			ON account_stocks (transaction_id) WHERE transaction_id IS NOT NULL`,
		`CREATE TABLE link_categories (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			group_email TEXT,
			email_subject TEXT,
			email_body TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE link_items (
			id BIGINT PRIMARY KEY,
			category_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			main_url TEXT NOT NULL,
			drive_url TEXT,
			email_subject TEXT,
			email_body TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE history (
			id BIGINT PRIMARY KEY,
			buyer_email TEXT NOT NULL,
			product_name TEXT NOT NULL,
			product_code TEXT,
			generated_id TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT,
			raw_data JSON,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("prepare schema: %v", err)
		}
	}
}

func seedAccountProduct(t *testing.T, f *orderFixture, stockRows int) *productdomain.Response {
	t.Helper()
	ctx := context.Background()

	prefix := "NFLX"
	product, err := f.products.Create(ctx, productdomain.CreateRequest{
		Name:        "Netflix Private",
		ProductCode: "netflix-1p",
		ProductType: productdomain.ProductTypeAccount,
		PrefixCode:  &prefix,
		AccountConfig: &productdomain.AccountConfig{
			Fields: []productdomain.AccountField{
				{Name: "Email", Type: productdomain.FieldKindText},
				{Name: "Password", Type: productdomain.FieldKindPassword},
			},
			Template: "Akun {Nama Produk}: {Email} / {Password} (TRX {Transaction ID})",
		},
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	for i := 0; i < stockRows; i++ {
		if _, err := f.stocks.Add(ctx, stockdomain.AddRequest{
			ProductID: product.ID,
			AccountData: map[string]any{
				"Email":    "acc@mail.test",
				"Password": "secret123",
			},
		}); err != nil {
			t.Fatalf("seed stock %d: %v", i, err)
		}
	}
	return product
}

func TestFulfillAccountHappyPath(t *testing.T) {
	f := setupOrderService(t)
	product := seedAccountProduct(t, f, 2)

	resp, err := f.svc.FulfillAccount(context.Background(), domain.AccountRequest{
		ProductID:  product.ID,
		BuyerEmail: "Buyer@Mail.Test",
	})
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}

	if !strings.HasPrefix(resp.TransactionID, "NFLX-") {
		t.Fatalf("expected product prefix on transaction id, got %q", resp.TransactionID)
	}
	if resp.AccountData["Email"] != "acc@mail.test" {
		t.Fatalf("expected claimed credentials in response, got %+v", resp.AccountData)
	}
	if !strings.Contains(resp.CopyText, "secret123") || !strings.Contains(resp.CopyText, resp.TransactionID) {
		t.Fatalf("expected rendered copy text, got %q", resp.CopyText)
	}

	sent := f.mail.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected exactly one mail, got %d", len(sent))
	}
	if sent[0].to != "buyer@mail.test" {
		t.Fatalf("expected normalized recipient, got %q", sent[0].to)
	}

	history, err := f.history.List(context.Background(), historydomain.ListRequest{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if history.Total != 1 || history.Items[0].Status != historydomain.StatusSuccess {
		t.Fatalf("expected one SUCCESS history row, got %+v", history)
	}
	if history.Items[0].GeneratedID != resp.TransactionID {
		t.Fatalf("expected history stamped with transaction id")
	}
}

func TestFulfillAccountOutOfStock(t *testing.T) {
	f := setupOrderService(t)
	product := seedAccountProduct(t, f, 0)

	_, err := f.svc.FulfillAccount(context.Background(), domain.AccountRequest{
		ProductID:  product.ID,
		BuyerEmail: "buyer@mail.test",
	})
	if err != domain.ErrOutOfStock {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if len(f.mail.Sent()) != 0 {
		t.Fatalf("no mail expected for failed order")
	}
}

func TestFulfillAccountUnknownProduct(t *testing.T) {
	f := setupOrderService(t)

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	_, err = f.svc.FulfillAccount(context.Background(), domain.AccountRequest{
		ProductID:  node.Generate().String(),
		BuyerEmail: "buyer@mail.test",
	})
	if err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestFulfillAccountDiscreteStock(t *testing.T) {
	f := setupOrderService(t)
	product := seedAccountProduct(t, f, 0)
	ctx := context.Background()

	row, err := f.stocks.Add(ctx, stockdomain.AddRequest{
		ProductID:   product.ID,
		AccountData: map[string]any{"Email": "picked@mail.test", "Password": "picked"},
	})
	if err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	resp, err := f.svc.FulfillAccount(ctx, domain.AccountRequest{
		ProductID:  product.ID,
		BuyerEmail: "buyer@mail.test",
		StockID:    row.ID,
	})
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if resp.AccountData["Email"] != "picked@mail.test" {
		t.Fatalf("expected the chosen row, got %+v", resp.AccountData)
	}

	// A second discrete claim on the same row must fail.
	_, err = f.svc.FulfillAccount(ctx, domain.AccountRequest{
		ProductID:  product.ID,
		BuyerEmail: "other@mail.test",
		StockID:    row.ID,
	})
	if err != domain.ErrStockUnavailable {
		t.Fatalf("expected ErrStockUnavailable, got %v", err)
	}
}

func TestFulfillAccountMailFailureDoesNotFailOrder(t *testing.T) {
	f := setupOrderService(t)
	f.mail.err = errors.New("smtp unreachable")
	product := seedAccountProduct(t, f, 1)

	resp, err := f.svc.FulfillAccount(context.Background(), domain.AccountRequest{
		ProductID:  product.ID,
		BuyerEmail: "buyer@mail.test",
	})
	if err != nil {
		t.Fatalf("expected sale to stand despite mail failure, got %v", err)
	}
	if resp.TransactionID == "" {
		t.Fatalf("expected transaction id")
	}

	var sold int64
	if err := f.conn.Raw(`SELECT COUNT(1) FROM account_stocks WHERE is_sold = TRUE`).Scan(&sold).Error; err != nil {
		t.Fatalf("count sold: %v", err)
	}
	if sold != 1 {
		t.Fatalf("expected the claim to remain committed, got %d sold", sold)
	}
}

func TestFulfillManualMemberExistsIgnored(t *testing.T) {
	f := setupOrderService(t)
	f.directory.err = domain.ErrMemberExists
	ctx := context.Background()

	group := "team@workspace.test"
	product, err := f.products.Create(ctx, productdomain.CreateRequest{
		Name:        "Workspace Seat",
		ProductCode: "ws-seat",
		ProductType: productdomain.ProductTypeManual,
		GroupEmail:  &group,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	resp, err := f.svc.FulfillManual(ctx, domain.ManualRequest{
		BuyerEmail: "buyer@mail.test",
		ProductIDs: []string{product.ID},
	})
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Status != "success" {
		t.Fatalf("expected existing membership treated as success, got %+v", resp.Items)
	}
	if !strings.HasPrefix(resp.TransactionID, "TRX-") {
		t.Fatalf("expected TRX prefix, got %q", resp.TransactionID)
	}
}

func TestFulfillManualDirectoryFailure(t *testing.T) {
	f := setupOrderService(t)
	f.directory.err = errors.New("directory unavailable")
	ctx := context.Background()

	group := "team@workspace.test"
	product, err := f.products.Create(ctx, productdomain.CreateRequest{
		Name:        "Workspace Seat",
		ProductCode: "ws-seat",
		ProductType: productdomain.ProductTypeManual,
		GroupEmail:  &group,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	resp, err := f.svc.FulfillManual(ctx, domain.ManualRequest{
		BuyerEmail: "buyer@mail.test",
		ProductIDs: []string{product.ID},
	})
	if err != nil {
		t.Fatalf("manual order should not fail on side effects: %v", err)
	}
	if resp.Items[0].Status != "failed" {
		t.Fatalf("expected failed item status, got %q", resp.Items[0].Status)
	}

	history, err := f.history.List(ctx, historydomain.ListRequest{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if history.Total != 1 || history.Items[0].Status != historydomain.StatusFailure {
		t.Fatalf("expected FAILURE history row, got %+v", history.Items)
	}
}

func TestFulfillLinkGroupsByCategory(t *testing.T) {
	f := setupOrderService(t)
	ctx := context.Background()

	design, err := f.links.CreateCategory(ctx, linkdomain.CategoryRequest{Name: "Design Assets"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	courses, err := f.links.CreateCategory(ctx, linkdomain.CategoryRequest{Name: "Courses"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	driveURL := "https://drive.google.com/file/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/view"
	mockup, err := f.links.CreateItem(ctx, linkdomain.ItemRequest{
		CategoryID: design.ID,
		Name:       "Mockup Pack",
		MainURL:    "https://example.test/mockup",
		DriveURL:   &driveURL,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	icons, err := f.links.CreateItem(ctx, linkdomain.ItemRequest{
		CategoryID: design.ID,
		Name:       "Icon Pack",
		MainURL:    "https://example.test/icons",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	course, err := f.links.CreateItem(ctx, linkdomain.ItemRequest{
		CategoryID: courses.ID,
		Name:       "Go Course",
		MainURL:    "https://example.test/go",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	resp, err := f.svc.FulfillLink(ctx, domain.LinkRequest{
		BuyerEmail: "buyer@mail.test",
		ItemIDs:    []string{mockup.ID, course.ID, icons.ID},
	})
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}

	if !strings.HasPrefix(resp.TransactionID, "LINK-") {
		t.Fatalf("expected LINK prefix, got %q", resp.TransactionID)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 category messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Category != "Design Assets" || resp.Messages[0].ItemCount != 2 {
		t.Fatalf("expected Design Assets bundle of 2, got %+v", resp.Messages[0])
	}
	if resp.Messages[1].Category != "Courses" || resp.Messages[1].ItemCount != 1 {
		t.Fatalf("expected Courses bundle of 1, got %+v", resp.Messages[1])
	}

	sent := f.mail.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected one mail per category, got %d", len(sent))
	}
	var designMail *sentMail
	for i := range sent {
		if strings.Contains(sent[i].body, "Mockup Pack") {
			designMail = &sent[i]
		}
	}
	if designMail == nil {
		t.Fatalf("expected a Design Assets mail, got %+v", sent)
	}
	if !strings.Contains(designMail.body, "Icon Pack") {
		t.Fatalf("expected both items bundled into one mail, got %q", designMail.body)
	}

	grants := f.drive.Grants()
	if len(grants) != 1 || !strings.Contains(grants[0], "drive.google.com") {
		t.Fatalf("expected one drive grant for the drive-backed item, got %v", grants)
	}
}

func TestFulfillLinkUnknownItems(t *testing.T) {
	f := setupOrderService(t)

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	_, err = f.svc.FulfillLink(context.Background(), domain.LinkRequest{
		BuyerEmail: "buyer@mail.test",
		ItemIDs:    []string{node.Generate().String()},
	})
	if err != domain.ErrInvalidPayload {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestTemplatePrecedenceFetchedFresh(t *testing.T) {
	f := setupOrderService(t)
	f.fetcher.body = "Remote body {Transaction ID}"
	ctx := context.Background()

	product := seedAccountProduct(t, f, 2)
	url := "https://example.test/template.html"
	if _, err := f.products.Update(ctx, productdomain.UpdateRequest{
		ID:          product.ID,
		TemplateURL: &url,
	}); err != nil {
		t.Fatalf("set template url: %v", err)
	}

	if _, err := f.svc.FulfillAccount(ctx, domain.AccountRequest{
		ProductID:  product.ID,
		BuyerEmail: "buyer@mail.test",
	}); err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if f.fetcher.Calls() != 1 {
		t.Fatalf("expected remote template fetched once, got %d", f.fetcher.Calls())
	}
	sent := f.mail.Sent()
	if !strings.HasPrefix(sent[0].body, "Remote body NFLX-") {
		t.Fatalf("expected fetched template rendered, got %q", sent[0].body)
	}

	// No caching: the next order fetches again.
	if _, err := f.svc.FulfillAccount(ctx, domain.AccountRequest{
		ProductID:  product.ID,
		BuyerEmail: "second@mail.test",
	}); err != nil {
		t.Fatalf("second fulfill: %v", err)
	}
	if f.fetcher.Calls() != 2 {
		t.Fatalf("expected template refetched per order, got %d", f.fetcher.Calls())
	}
}

func TestTemplateFetchFailureFallsBack(t *testing.T) {
	f := setupOrderService(t)
	f.fetcher.err = errors.New("http 500")
	ctx := context.Background()

	product := seedAccountProduct(t, f, 1)
	url := "https://example.test/template.html"
	if _, err := f.products.Update(ctx, productdomain.UpdateRequest{
		ID:          product.ID,
		TemplateURL: &url,
	}); err != nil {
		t.Fatalf("set template url: %v", err)
	}

	if _, err := f.svc.FulfillAccount(ctx, domain.AccountRequest{
		ProductID:  product.ID,
		BuyerEmail: "buyer@mail.test",
	}); err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	sent := f.mail.Sent()
	if len(sent) != 1 || !strings.Contains(sent[0].body, "Pesanan Berhasil") {
		t.Fatalf("expected built-in default body, got %+v", sent)
	}
}

func TestFulfillAccountInvalidPayload(t *testing.T) {
	f := setupOrderService(t)
	product := seedAccountProduct(t, f, 1)

	cases := []domain.AccountRequest{
		{ProductID: product.ID, BuyerEmail: ""},
		{ProductID: product.ID, BuyerEmail: "not-an-email"},
		{ProductID: "", BuyerEmail: "buyer@mail.test"},
	}
	for _, req := range cases {
		if _, err := f.svc.FulfillAccount(context.Background(), req); err != domain.ErrInvalidPayload {
			t.Fatalf("expected ErrInvalidPayload for %+v, got %v", req, err)
		}
	}
}
