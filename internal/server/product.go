package server

import (
	"net/http"
	"strings"

	productdomain "github.com/Syaif05/superapp-admin-web/internal/product/domain"
	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	Name          string                       `json:"name"`
	ProductCode   string                       `json:"product_code"`
	ProductType   string                       `json:"product_type"`
	GroupEmail    *string                      `json:"group_email"`
	PrefixCode    *string                      `json:"prefix_code"`
	Role          string                       `json:"role"`
	AccountConfig *productdomain.AccountConfig `json:"account_config"`
	TemplateURL   *string                      `json:"template_url"`
}

type updateProductRequest struct {
	Name          *string                      `json:"name,omitempty"`
	GroupEmail    *string                      `json:"group_email,omitempty"`
	PrefixCode    *string                      `json:"prefix_code,omitempty"`
	Role          *string                      `json:"role,omitempty"`
	AccountConfig *productdomain.AccountConfig `json:"account_config,omitempty"`
	TemplateURL   *string                      `json:"template_url,omitempty"`
}

type updateTemplateRequest struct {
	EmailSubject *string `json:"email_subject"`
	EmailBody    *string `json:"email_body"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Name:          strings.TrimSpace(req.Name),
		ProductCode:   strings.TrimSpace(req.ProductCode),
		ProductType:   productdomain.ProductType(strings.TrimSpace(strings.ToLower(req.ProductType))),
		GroupEmail:    trimOptional(req.GroupEmail),
		PrefixCode:    trimOptional(req.PrefixCode),
		Role:          strings.TrimSpace(req.Role),
		AccountConfig: req.AccountConfig,
		TemplateURL:   trimOptional(req.TemplateURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Name string `form:"name"`
		Type string `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var productType *productdomain.ProductType
	rawType := strings.TrimSpace(strings.ToLower(query.Type))
	if rawType != "" {
		parsed := productdomain.ProductType(rawType)
		if parsed != productdomain.ProductTypeManual &&
			parsed != productdomain.ProductTypeLink &&
			parsed != productdomain.ProductTypeAccount {
			AbortWithError(c, newValidationError("type", "invalid_product_type", "invalid product type"))
			return
		}
		productType = &parsed
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Name: strings.TrimSpace(query.Name),
		Type: productType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProduct(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), productdomain.UpdateRequest{
		ID:            c.Param("id"),
		Name:          trimOptional(req.Name),
		GroupEmail:    trimOptional(req.GroupEmail),
		PrefixCode:    trimOptional(req.PrefixCode),
		Role:          trimOptional(req.Role),
		AccountConfig: req.AccountConfig,
		TemplateURL:   trimOptional(req.TemplateURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.productSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetProductTemplate(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":            resp.ID,
		"email_subject": resp.EmailSubject,
		"email_body":    resp.EmailBody,
		"template_url":  resp.TemplateURL,
	}})
}

func (s *Server) UpdateProductTemplate(c *gin.Context) {
	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.UpdateTemplate(c.Request.Context(), productdomain.UpdateTemplateRequest{
		ID:           c.Param("id"),
		EmailSubject: req.EmailSubject,
		EmailBody:    req.EmailBody,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
