package server

import (
	"net/http"
	"strings"

	historydomain "github.com/Syaif05/superapp-admin-web/internal/history/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListHistory(c *gin.Context) {
	var query struct {
		BuyerEmail string `form:"buyer_email"`
		Page       string `form:"page"`
		PageSize   string `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
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

	resp, err := s.historySvc.List(c.Request.Context(), historydomain.ListRequest{
		BuyerEmail: strings.TrimSpace(query.BuyerEmail),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteHistory(c *gin.Context) {
	if err := s.historySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
