package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Syaif05/superapp-admin-web/internal/config"
	historydomain "github.com/Syaif05/superapp-admin-web/internal/history/domain"
	linkdomain "github.com/Syaif05/superapp-admin-web/internal/link/domain"
	obscontext "github.com/Syaif05/superapp-admin-web/internal/observability/context"
	"github.com/Syaif05/superapp-admin-web/internal/observability/metrics"
	"github.com/Syaif05/superapp-admin-web/internal/order/domain"
	"github.com/Syaif05/superapp-admin-web/internal/order/template"
	"github.com/Syaif05/superapp-admin-web/internal/order/txid"
	productdomain "github.com/Syaif05/superapp-admin-web/internal/product/domain"
	stockdomain "github.com/Syaif05/superapp-admin-web/internal/stock/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// claimIDCollisions bounds regeneration when a generated transaction id
// collides with an already stamped row.
const claimIDCollisions = 3

type Params struct {
	fx.In

	Log     *zap.Logger
	Config  config.Config
	Metrics *metrics.Metrics

	Products productdomain.Service
	Stocks   stockdomain.Service
	Links    linkdomain.Service
	History  historydomain.Service

	Directory domain.DirectoryService
	Drive     domain.DriveService
	Mail      domain.MailSender
	Fetcher   domain.TemplateFetcher
}

type Service struct {
	log     *zap.Logger
	cfg     config.Config
	metrics *metrics.Metrics

	products productdomain.Service
	stocks   stockdomain.Service
	links    linkdomain.Service
	history  historydomain.Service

	directory domain.DirectoryService
	drive     domain.DriveService
	mail      domain.MailSender
	fetcher   domain.TemplateFetcher
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("order.service"),
		cfg:       p.Config,
		metrics:   p.Metrics,
		products:  p.Products,
		stocks:    p.Stocks,
		links:     p.Links,
		history:   p.History,
		directory: p.Directory,
		drive:     p.Drive,
		mail:      p.Mail,
		fetcher:   p.Fetcher,
	}
}

func (s *Service) FulfillAccount(ctx context.Context, req domain.AccountRequest) (*domain.AccountResponse, error) {
	buyer, err := normalizeEmail(req.BuyerEmail)
	if err != nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(req.ProductID) == "" {
		return nil, domain.ErrInvalidPayload
	}

	product, err := s.getProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.ProductType != productdomain.ProductTypeAccount {
		return nil, domain.ErrInvalidPayload
	}

	prefix := txid.DefaultPrefix
	if product.PrefixCode != nil {
		prefix = *product.PrefixCode
	}

	claim, transactionID, err := s.claimStock(ctx, product.ID, req.StockID, buyer, prefix)
	if err != nil {
		s.metrics.RecordOrder(ctx, string(product.ProductType), "failed")
		return nil, err
	}
	ctx = obscontext.WithTransactionID(ctx, transactionID)
	s.log.Info("stock claimed",
		zap.String("transaction_id", transactionID),
		zap.String("product_id", product.ID),
		zap.String("stock_id", claim.ID),
	)

	// The sale is committed. Side effects must survive a caller
	// disconnect.
	ctx = context.WithoutCancel(ctx)

	fields := stringifyAccountData(claim.AccountData)
	data := template.Data{
		ProductName:   product.Name,
		ProductCode:   product.ProductCode,
		TransactionID: transactionID,
		BuyerEmail:    buyer,
		Fields:        fields,
	}

	copyText := template.Render(s.copyTemplate(product, fields), data)
	body := template.Render(s.resolveBody(ctx, product.EmailBody, product.TemplateURL, template.DefaultAccountBody), data)
	subject := template.Render(s.subjectOrDefault(product.EmailSubject), data)

	s.dispatch(ctx, transactionID, s.cfg.SideEffectTimeout, []effect{
		{name: "mail", run: func(ctx context.Context) error {
			return s.mail.Send(ctx, buyer, subject, body)
		}},
	})

	s.recordHistory(ctx, historydomain.RecordRequest{
		BuyerEmail:  buyer,
		ProductName: product.Name,
		ProductCode: product.ProductCode,
		GeneratedID: transactionID,
		Status:      historydomain.StatusSuccess,
		RawData: map[string]any{
			"stock_id":     claim.ID,
			"account_data": fields,
		},
	})
	s.metrics.RecordOrder(ctx, string(product.ProductType), "success")

	return &domain.AccountResponse{
		TransactionID: transactionID,
		ProductName:   product.Name,
		CopyText:      copyText,
		AccountData:   fields,
	}, nil
}

func (s *Service) FulfillManual(ctx context.Context, req domain.ManualRequest) (*domain.ManualResponse, error) {
	buyer, err := normalizeEmail(req.BuyerEmail)
	if err != nil {
		return nil, domain.ErrInvalidPayload
	}
	if len(req.ProductIDs) == 0 {
		return nil, domain.ErrInvalidPayload
	}

	products := make([]*productdomain.Response, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		product, err := s.getProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if product.ProductType != productdomain.ProductTypeManual || product.GroupEmail == nil {
			return nil, domain.ErrInvalidPayload
		}
		products = append(products, product)
	}

	transactionID := txid.New(txid.DefaultPrefix)
	ctx = obscontext.WithTransactionID(ctx, transactionID)
	ctx = context.WithoutCancel(ctx)

	items := make([]domain.ManualItem, len(products))
	for i, product := range products {
		items[i] = domain.ManualItem{
			ProductID:   product.ID,
			ProductName: product.Name,
		}

		data := template.Data{
			ProductName:   product.Name,
			ProductCode:   product.ProductCode,
			TransactionID: transactionID,
			BuyerEmail:    buyer,
		}
		body := template.Render(s.resolveBody(ctx, product.EmailBody, product.TemplateURL, template.DefaultAccountBody), data)
		subject := template.Render(s.subjectOrDefault(product.EmailSubject), data)
		groupEmail := *product.GroupEmail
		role := product.Role

		results := s.dispatch(ctx, transactionID, s.cfg.SideEffectTimeout, []effect{
			{name: "directory", run: func(ctx context.Context) error {
				err := s.directory.AddMember(ctx, groupEmail, buyer, role)
				if errors.Is(err, domain.ErrMemberExists) {
					return nil
				}
				return err
			}},
			{name: "mail", run: func(ctx context.Context) error {
				return s.mail.Send(ctx, buyer, subject, body)
			}},
		})

		status := historydomain.StatusSuccess
		itemStatus := "success"
		var message string
		for _, r := range results {
			if r.name == "directory" && r.err != nil {
				status = historydomain.StatusFailure
				itemStatus = "failed"
				message = r.err.Error()
			}
		}
		items[i].Status = itemStatus

		s.recordHistory(ctx, historydomain.RecordRequest{
			BuyerEmail:  buyer,
			ProductName: product.Name,
			ProductCode: product.ProductCode,
			GeneratedID: transactionID,
			Status:      status,
			Message:     message,
			RawData:     map[string]any{"group_email": groupEmail},
		})
		s.metrics.RecordOrder(ctx, string(product.ProductType), itemStatus)
	}

	return &domain.ManualResponse{
		TransactionID: transactionID,
		Items:         items,
	}, nil
}

func (s *Service) FulfillLink(ctx context.Context, req domain.LinkRequest) (*domain.LinkResponse, error) {
	buyer, err := normalizeEmail(req.BuyerEmail)
	if err != nil {
		return nil, domain.ErrInvalidPayload
	}
	if len(req.ItemIDs) == 0 {
		return nil, domain.ErrInvalidPayload
	}

	resolved, err := s.links.ResolveItems(ctx, req.ItemIDs)
	if err != nil {
		if errors.Is(err, linkdomain.ErrInvalidID) {
			return nil, domain.ErrInvalidPayload
		}
		return nil, fmt.Errorf("resolve link items: %w", err)
	}
	if len(resolved) == 0 {
		return nil, domain.ErrInvalidPayload
	}

	transactionID := txid.New(txid.LinkPrefix)
	ctx = obscontext.WithTransactionID(ctx, transactionID)
	ctx = context.WithoutCancel(ctx)

	groups := groupByCategory(resolved)

	messages := make([]domain.LinkMessage, 0, len(groups))
	for _, group := range groups {
		category := group.category

		templateItems := make([]template.Item, 0, len(group.items))
		effects := make([]effect, 0, len(group.items)+2)
		for _, item := range group.items {
			ti := template.Item{
				Name:    item.Name,
				MainURL: item.MainURL,
			}
			if item.DriveURL != nil {
				ti.DriveURL = *item.DriveURL
			}
			if item.EmailBody != nil {
				ti.Fragment = *item.EmailBody
			}
			templateItems = append(templateItems, ti)

			if item.DriveURL != nil {
				driveURL := *item.DriveURL
				effects = append(effects, effect{name: "drive", run: func(ctx context.Context) error {
					return s.drive.GrantReader(ctx, driveURL, buyer)
				}})
			}
		}

		if category.GroupEmail != nil {
			groupEmail := *category.GroupEmail
			effects = append(effects, effect{name: "directory", run: func(ctx context.Context) error {
				err := s.directory.AddMember(ctx, groupEmail, buyer, "MEMBER")
				if errors.Is(err, domain.ErrMemberExists) {
					return nil
				}
				return err
			}})
		}

		data := template.Data{
			CategoryName:  category.Name,
			TransactionID: transactionID,
			BuyerEmail:    buyer,
			Items:         templateItems,
		}
		body := template.Render(s.resolveBody(ctx, category.EmailBody, nil, template.DefaultLinkBody), data)
		subject := template.Render(s.subjectOrDefault(category.EmailSubject), data)

		effects = append(effects, effect{name: "mail", run: func(ctx context.Context) error {
			return s.mail.Send(ctx, buyer, subject, body)
		}})

		s.dispatch(ctx, transactionID, s.cfg.SideEffectTimeout, effects)

		itemNames := make([]string, 0, len(group.items))
		for _, item := range group.items {
			itemNames = append(itemNames, item.Name)
		}
		s.recordHistory(ctx, historydomain.RecordRequest{
			BuyerEmail:  buyer,
			ProductName: category.Name,
			GeneratedID: transactionID,
			Status:      historydomain.StatusSuccess,
			RawData: map[string]any{
				"category": category.Name,
				"items":    itemNames,
			},
		})
		s.metrics.RecordOrder(ctx, "link", "success")

		messages = append(messages, domain.LinkMessage{
			Category:  category.Name,
			ItemCount: len(group.items),
		})
	}

	return &domain.LinkResponse{
		TransactionID: transactionID,
		Messages:      messages,
	}, nil
}

func (s *Service) getProduct(ctx context.Context, id string) (*productdomain.Response, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, productdomain.ErrInvalidID) || errors.Is(err, productdomain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	return product, nil
}

// claimStock sells one row and returns it with the winning transaction
// id. A duplicate id stamp is retried with a fresh id.
func (s *Service) claimStock(ctx context.Context, productID, stockID, buyer, prefix string) (*stockdomain.Response, string, error) {
	var lastErr error
	for attempt := 0; attempt < claimIDCollisions; attempt++ {
		transactionID := txid.New(prefix)

		var claim *stockdomain.Response
		var err error
		if strings.TrimSpace(stockID) != "" {
			claim, err = s.stocks.ClaimByID(ctx, stockdomain.ClaimRequest{
				ProductID:     productID,
				StockID:       stockID,
				TransactionID: transactionID,
				BuyerEmail:    buyer,
			})
		} else {
			claim, err = s.stocks.ClaimOldest(ctx, stockdomain.ClaimRequest{
				ProductID:     productID,
				TransactionID: transactionID,
				BuyerEmail:    buyer,
			})
		}

		switch {
		case err == nil:
			s.metrics.RecordStockClaim(ctx, "claimed")
			return claim, transactionID, nil
		case errors.Is(err, stockdomain.ErrRaceLost):
			// Transaction id collision; regenerate and retry.
			lastErr = err
			continue
		case errors.Is(err, stockdomain.ErrOutOfStock):
			s.metrics.RecordStockClaim(ctx, "out_of_stock")
			return nil, "", domain.ErrOutOfStock
		case errors.Is(err, stockdomain.ErrStockUnavailable), errors.Is(err, stockdomain.ErrInvalidID):
			s.metrics.RecordStockClaim(ctx, "unavailable")
			return nil, "", domain.ErrStockUnavailable
		default:
			return nil, "", fmt.Errorf("claim stock: %w", err)
		}
	}

	s.metrics.RecordStockClaim(ctx, "race_lost")
	return nil, "", fmt.Errorf("claim stock: %w", lastErr)
}

// resolveBody applies the template precedence on every call: explicit
// body, then the remote template, then the built-in default. Remote
// bodies are never cached so edits take effect immediately.
func (s *Service) resolveBody(ctx context.Context, body, url *string, fallback string) string {
	if body != nil && strings.TrimSpace(*body) != "" {
		return *body
	}
	if url != nil && strings.TrimSpace(*url) != "" {
		fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.TemplateFetchTimeout)
		defer cancel()

		fetched, err := s.fetcher.FetchText(fetchCtx, strings.TrimSpace(*url))
		if err == nil && strings.TrimSpace(fetched) != "" {
			s.metrics.RecordTemplateFetch(ctx, "success")
			return fetched
		}
		s.metrics.RecordTemplateFetch(ctx, "failed")
		s.log.Warn("template fetch failed, using default",
			zap.String("url", strings.TrimSpace(*url)),
			zap.Error(err),
		)
	}
	return fallback
}

func (s *Service) subjectOrDefault(subject *string) string {
	if subject != nil && strings.TrimSpace(*subject) != "" {
		return *subject
	}
	return "Pesanan Berhasil - {Transaction ID}"
}

// copyTemplate is the text the operator pastes to the buyer chat. The
// product template wins; otherwise the credentials are listed line by
// line.
func (s *Service) copyTemplate(product *productdomain.Response, fields map[string]string) string {
	if product.AccountConfig != nil && strings.TrimSpace(product.AccountConfig.Template) != "" {
		return product.AccountConfig.Template
	}

	var sb strings.Builder
	sb.WriteString("Pesanan {Nama Produk}\n")
	sb.WriteString("ID Transaksi: {Transaction ID}\n")
	for _, name := range sortedKeys(fields) {
		sb.WriteString(name)
		sb.WriteString(": {")
		sb.WriteString(name)
		sb.WriteString("}\n")
	}
	return sb.String()
}

// recordHistory never fails the order; a lost audit row is logged and
// counted.
func (s *Service) recordHistory(ctx context.Context, req historydomain.RecordRequest) {
	if _, err := s.history.Record(ctx, req); err != nil {
		s.metrics.RecordHistoryWrite(ctx, "failed")
		s.log.Error("history write failed",
			zap.String("transaction_id", req.GeneratedID),
			zap.String("buyer_email", req.BuyerEmail),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordHistoryWrite(ctx, "success")
}

type categoryGroup struct {
	category linkdomain.LinkCategory
	items    []linkdomain.LinkItem
}

// groupByCategory buckets items per category, keeping the order
// categories first appear in the request.
func groupByCategory(resolved []linkdomain.ResolvedItem) []categoryGroup {
	index := make(map[int64]int)
	groups := make([]categoryGroup, 0, len(resolved))
	for _, r := range resolved {
		key := r.Category.ID.Int64()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, categoryGroup{category: r.Category})
		}
		groups[i].items = append(groups[i].items, r.Item)
	}
	return groups
}

func stringifyAccountData(data map[string]any) map[string]string {
	out := make(map[string]string, len(data))
	for name, value := range data {
		switch v := value.(type) {
		case string:
			out[name] = v
		case nil:
			out[name] = ""
		default:
			out[name] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

func sortedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if email == "" || !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return "", domain.ErrInvalidPayload
	}
	return email, nil
}
