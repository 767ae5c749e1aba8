package server

import (
	"net/http"
	"strings"

	linkdomain "github.com/Syaif05/superapp-admin-web/internal/link/domain"
	"github.com/gin-gonic/gin"
)

type linkCategoryRequest struct {
	Name       string  `json:"name"`
	GroupEmail *string `json:"group_email"`
}

type linkItemRequest struct {
	CategoryID   string  `json:"category_id"`
	Name         string  `json:"name"`
	MainURL      string  `json:"main_url"`
	DriveURL     *string `json:"drive_url"`
	EmailSubject *string `json:"email_subject"`
	EmailBody    *string `json:"email_body"`
}

func (s *Server) CreateLinkCategory(c *gin.Context) {
	var req linkCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.linkSvc.CreateCategory(c.Request.Context(), linkdomain.CategoryRequest{
		Name:       strings.TrimSpace(req.Name),
		GroupEmail: trimOptional(req.GroupEmail),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLinkCategories(c *gin.Context) {
	resp, err := s.linkSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLinkCategory(c *gin.Context) {
	resp, err := s.linkSvc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateLinkCategory(c *gin.Context) {
	var req linkCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.linkSvc.UpdateCategory(c.Request.Context(), c.Param("id"), linkdomain.CategoryRequest{
		Name:       strings.TrimSpace(req.Name),
		GroupEmail: trimOptional(req.GroupEmail),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteLinkCategory(c *gin.Context) {
	if err := s.linkSvc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetLinkCategoryTemplate(c *gin.Context) {
	resp, err := s.linkSvc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":            resp.ID,
		"email_subject": resp.EmailSubject,
		"email_body":    resp.EmailBody,
	}})
}

func (s *Server) UpdateLinkCategoryTemplate(c *gin.Context) {
	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.linkSvc.UpdateCategoryTemplate(c.Request.Context(), linkdomain.CategoryTemplateRequest{
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

func (s *Server) ListLinkItems(c *gin.Context) {
	resp, err := s.linkSvc.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateLinkItem(c *gin.Context) {
	var req linkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.linkSvc.CreateItem(c.Request.Context(), linkdomain.ItemRequest{
		CategoryID:   strings.TrimSpace(req.CategoryID),
		Name:         strings.TrimSpace(req.Name),
		MainURL:      strings.TrimSpace(req.MainURL),
		DriveURL:     trimOptional(req.DriveURL),
		EmailSubject: req.EmailSubject,
		EmailBody:    req.EmailBody,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateLinkItem(c *gin.Context) {
	var req linkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.linkSvc.UpdateItem(c.Request.Context(), c.Param("id"), linkdomain.ItemRequest{
		CategoryID:   strings.TrimSpace(req.CategoryID),
		Name:         strings.TrimSpace(req.Name),
		MainURL:      strings.TrimSpace(req.MainURL),
		DriveURL:     trimOptional(req.DriveURL),
		EmailSubject: req.EmailSubject,
		EmailBody:    req.EmailBody,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteLinkItem(c *gin.Context) {
	if err := s.linkSvc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
