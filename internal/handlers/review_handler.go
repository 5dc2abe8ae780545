package handlers

import (
	"net/http"

	"delego_backend/internal/services"
	"delego_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/review", h.Create)
	rg.GET("/users/:id/rating", h.Rating)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projectID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	review, err := h.reviewService.Create(db, userID, projectID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"review":  review,
	})
}

func (h *ReviewHandler) Rating(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	targetID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	db := h.GetDB(c)

	stats, err := h.reviewService.RatingStats(db, targetID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rating":  stats,
	})
}
