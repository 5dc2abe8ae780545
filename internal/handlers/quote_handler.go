package handlers

import (
	"net/http"

	"delego_backend/internal/middleware"
	"delego_backend/internal/models"
	"delego_backend/internal/services"
	"delego_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	*BaseHandler
	quoteService services.QuoteService
}

func NewQuoteHandler(base *BaseHandler, quoteService services.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler:  base,
		quoteService: quoteService,
	}
}

func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	delegatorOnly := middleware.RequireRoles(models.RoleDelegator)
	recipientOnly := middleware.RequireRoles(models.RoleRecipient)

	rg.GET("/available_projects", recipientOnly, h.AvailableProjects)
	rg.POST("/projects/:id/quote", recipientOnly, h.Create)
	rg.GET("/projects/:id/quotes", delegatorOnly, h.ListForProject)
}

func (h *QuoteHandler) AvailableProjects(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	projects, err := h.quoteService.AvailableProjects(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
	})
}

func (h *QuoteHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projectID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CreateQuoteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	quote, err := h.quoteService.CreateQuote(db, userID, projectID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"quote":   quote,
	})
}

func (h *QuoteHandler) ListForProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projectID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	db := h.GetDB(c)

	quotes, err := h.quoteService.ListQuotes(db, userID, projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"quotes":  quotes,
	})
}
