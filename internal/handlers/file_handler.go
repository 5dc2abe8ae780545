package handlers

import (
	"fmt"
	"net/http"

	"delego_backend/internal/logger"
	"delego_backend/internal/middleware"
	"delego_backend/internal/models"
	"delego_backend/internal/services"
	"delego_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	*BaseHandler
	fileService services.FileService
}

func NewFileHandler(base *BaseHandler, fileService services.FileService) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		fileService: fileService,
	}
}

func (h *FileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recipientOnly := middleware.RequireRoles(models.RoleRecipient)

	rg.POST("/quotes/:id/upload_proposal", recipientOnly, h.UploadProposal)
	rg.POST("/projects/:id/upload_closure", recipientOnly, h.UploadClosure)
	rg.GET("/projects/:id/closure_files", h.ListClosureFiles)
	rg.GET("/files/:id/download", h.Download)
}

func (h *FileHandler) UploadProposal(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	quoteID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file field in form data"))
		return
	}

	db := h.GetDB(c)

	file, err := h.fileService.UploadProposal(c.Request.Context(), db, userID, quoteID, header)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"file":    file,
	})
}

func (h *FileHandler) UploadClosure(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projectID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file field in form data"))
		return
	}

	db := h.GetDB(c)

	file, err := h.fileService.UploadClosure(c.Request.Context(), db, userID, projectID, header)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"file":    file,
	})
}

func (h *FileHandler) ListClosureFiles(c *gin.Context) {
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

	files, err := h.fileService.ListClosureFiles(db, userID, projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   files,
	})
}

// Download streams the file body with an attachment disposition. The file
// type comes from the file_type query parameter and defaults to closure.
func (h *FileHandler) Download(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	fileType := c.DefaultQuery("file_type", "closure")

	db := h.GetDB(c)

	result, err := h.fileService.Download(c.Request.Context(), db, userID, fileID, fileType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer func() {
		if cerr := result.Reader.Close(); cerr != nil {
			logger.CtxWithError(c.Request.Context(), "Failed to close file reader", cerr, "file_id", fileID)
		}
	}()

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", result.Filename),
	}
	c.DataFromReader(http.StatusOK, result.Size, result.ContentType, result.Reader, headers)
}
