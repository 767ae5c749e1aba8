package server

import (
	"net/http"
	"time"

	historydomain "github.com/Syaif05/superapp-admin-web/internal/history/domain"
	linkdomain "github.com/Syaif05/superapp-admin-web/internal/link/domain"
	productdomain "github.com/Syaif05/superapp-admin-web/internal/product/domain"
	stockdomain "github.com/Syaif05/superapp-admin-web/internal/stock/domain"
	"github.com/gin-gonic/gin"
)

type dashboardResponse struct {
	Products dashboardProducts `json:"products"`
	Stock    dashboardStock    `json:"stock"`
	Links    dashboardLinks    `json:"links"`
	Sales    dashboardSales    `json:"sales"`
}

type dashboardProducts struct {
	Total   int64 `json:"total"`
	Manual  int64 `json:"manual"`
	Link    int64 `json:"link"`
	Account int64 `json:"account"`
}

type dashboardStock struct {
	Available int64 `json:"available"`
	Sold      int64 `json:"sold"`
}

type dashboardLinks struct {
	Categories int64 `json:"categories"`
	Items      int64 `json:"items"`
}

type dashboardSales struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failure int64 `json:"failure"`
	Today   int64 `json:"today"`
}

// Dashboard aggregates the counters the console landing page shows.
func (s *Server) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	var resp dashboardResponse

	type typeCount struct {
		ProductType string
		Count       int64
	}
	var byType []typeCount
	if err := s.db.WithContext(ctx).
		Model(&productdomain.Product{}).
		Select("product_type, COUNT(*) AS count").
		Group("product_type").
		Scan(&byType).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	for _, tc := range byType {
		resp.Products.Total += tc.Count
		switch productdomain.ProductType(tc.ProductType) {
		case productdomain.ProductTypeManual:
			resp.Products.Manual = tc.Count
		case productdomain.ProductTypeLink:
			resp.Products.Link = tc.Count
		case productdomain.ProductTypeAccount:
			resp.Products.Account = tc.Count
		}
	}

	if err := s.db.WithContext(ctx).
		Model(&stockdomain.AccountStock{}).
		Where("is_sold = ?", false).
		Count(&resp.Stock.Available).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Model(&stockdomain.AccountStock{}).
		Where("is_sold = ?", true).
		Count(&resp.Stock.Sold).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.db.WithContext(ctx).
		Model(&linkdomain.LinkCategory{}).
		Count(&resp.Links.Categories).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Model(&linkdomain.LinkItem{}).
		Count(&resp.Links.Items).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.db.WithContext(ctx).
		Model(&historydomain.HistoryRecord{}).
		Count(&resp.Sales.Total).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Model(&historydomain.HistoryRecord{}).
		Where("status = ?", historydomain.StatusSuccess).
		Count(&resp.Sales.Success).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Model(&historydomain.HistoryRecord{}).
		Where("status = ?", historydomain.StatusFailure).
		Count(&resp.Sales.Failure).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	if err := s.db.WithContext(ctx).
		Model(&historydomain.HistoryRecord{}).
		Where("created_at >= ?", startOfDay).
		Count(&resp.Sales.Today).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
