package server

import (
	"net/http"
	"strconv"
	"strings"

	stockdomain "github.com/Syaif05/superapp-admin-web/internal/stock/domain"
	"github.com/gin-gonic/gin"
)

type addStockRequest struct {
	ProductID   string         `json:"product_id"`
	AccountData map[string]any `json:"account_data"`
}

type bulkAddStockRequest struct {
	ProductID string           `json:"product_id"`
	Rows      []map[string]any `json:"rows"`
}

func (s *Server) ListStocks(c *gin.Context) {
	var query struct {
		ProductID string `form:"product_id"`
		Sold      string `form:"sold"`
		Page      string `form:"page"`
		PageSize  string `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sold, err := parseOptionalBool(query.Sold)
	if err != nil {
		AbortWithError(c, newValidationError("sold", "invalid_sold", "invalid sold"))
		return
	}

	page, err := parseOptionalInt(query.Page)
	if err != nil {
		AbortWithError(c, newValidationError("page", "invalid_page", "invalid page"))
		return
	}
	pageSize, err := parseOptionalInt(query.PageSize)
	if err != nil {
		AbortWithError(c, newValidationError("page_size", "invalid_page_size", "invalid page size"))
		return
	}

	resp, err := s.stockSvc.List(c.Request.Context(), stockdomain.ListRequest{
		ProductID: strings.TrimSpace(query.ProductID),
		Sold:      sold,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) StockStats(c *gin.Context) {
	resp, err := s.stockSvc.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddStock(c *gin.Context) {
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.stockSvc.Add(c.Request.Context(), stockdomain.AddRequest{
		ProductID:   strings.TrimSpace(req.ProductID),
		AccountData: req.AccountData,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) BulkAddStock(c *gin.Context) {
	var req bulkAddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.stockSvc.BulkAdd(c.Request.Context(), stockdomain.BulkAddRequest{
		ProductID: strings.TrimSpace(req.ProductID),
		Rows:      req.Rows,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteStock(c *gin.Context) {
	if err := s.stockSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func parseOptionalBool(raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
