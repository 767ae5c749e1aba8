package server

import (
	"net/http"
	"strings"

	orderdomain "github.com/Syaif05/superapp-admin-web/internal/order/domain"
	"github.com/gin-gonic/gin"
)

type accountOrderRequest struct {
	ProductID  string `json:"product_id"`
	BuyerEmail string `json:"buyer_email"`
	StockID    string `json:"stock_id"`
}

type manualOrderRequest struct {
	BuyerEmail string   `json:"buyer_email"`
	ProductIDs []string `json:"product_ids"`
}

type linkOrderRequest struct {
	BuyerEmail string   `json:"buyer_email"`
	ItemIDs    []string `json:"item_ids"`
}

func (s *Server) CreateAccountOrder(c *gin.Context) {
	var req accountOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.FulfillAccount(c.Request.Context(), orderdomain.AccountRequest{
		ProductID:  strings.TrimSpace(req.ProductID),
		BuyerEmail: strings.TrimSpace(req.BuyerEmail),
		StockID:    strings.TrimSpace(req.StockID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateManualOrder(c *gin.Context) {
	var req manualOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.FulfillManual(c.Request.Context(), orderdomain.ManualRequest{
		BuyerEmail: strings.TrimSpace(req.BuyerEmail),
		ProductIDs: trimAll(req.ProductIDs),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateLinkOrder(c *gin.Context) {
	var req linkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.FulfillLink(c.Request.Context(), orderdomain.LinkRequest{
		BuyerEmail: strings.TrimSpace(req.BuyerEmail),
		ItemIDs:    trimAll(req.ItemIDs),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
