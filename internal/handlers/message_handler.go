package handlers

import (
	"net/http"

	"delego_backend/internal/services"
	"delego_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	*BaseHandler
	messageService services.MessageService
}

func NewMessageHandler(base *BaseHandler, messageService services.MessageService) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    base,
		messageService: messageService,
	}
}

func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/messages", h.List)
	rg.POST("/projects/:id/messages", h.Send)
}

func (h *MessageHandler) List(c *gin.Context) {
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

	messages, err := h.messageService.List(db, userID, projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": messages,
	})
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projectID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	message, err := h.messageService.Send(db, userID, projectID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}
