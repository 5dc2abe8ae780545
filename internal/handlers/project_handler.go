package handlers

import (
	"net/http"

	"delego_backend/internal/middleware"
	"delego_backend/internal/models"
	"delego_backend/internal/services"
	"delego_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	*BaseHandler
	projectService services.ProjectService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
	}
}

// RegisterRoutes registers project lifecycle routes on an authenticated
// group. Ownership routes are gated to delegators; close and history are
// open to both roles because either assigned party may use them.
func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup) {
	delegatorOnly := middleware.RequireRoles(models.RoleDelegator)
	recipientOnly := middleware.RequireRoles(models.RoleRecipient)

	projects := rg.Group("/projects")
	{
		projects.GET("", delegatorOnly, h.List)
		projects.POST("", delegatorOnly, h.Create)
		projects.GET("/:id", delegatorOnly, h.Get)
		projects.PUT("/:id", delegatorOnly, h.Update)
		projects.DELETE("/:id", delegatorOnly, h.Delete)
		projects.POST("/:id/select_delegate", delegatorOnly, h.SelectDelegate)
		projects.POST("/:id/close", h.Close)
	}

	rg.GET("/history", h.History)
	rg.GET("/my_projects", recipientOnly, h.MyProjects)
}

func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	projects, err := h.projectService.ListOwn(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
	})
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	project, err := h.projectService.Create(db, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"project": project,
	})
}

func (h *ProjectHandler) Get(c *gin.Context) {
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

	project, err := h.projectService.Get(db, userID, projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": project,
	})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projectID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	project, err := h.projectService.Update(db, userID, projectID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": project,
	})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
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

	if err := h.projectService.Delete(db, userID, projectID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project deleted",
	})
}

func (h *ProjectHandler) SelectDelegate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projectID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.SelectDelegateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	project, err := h.projectService.SelectDelegate(db, userID, projectID, req.QuoteID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": project,
	})
}

func (h *ProjectHandler) Close(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projectID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CloseProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	project, err := h.projectService.Close(db, userID, projectID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": project,
	})
}

func (h *ProjectHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	entries, err := h.projectService.History(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": entries,
	})
}

func (h *ProjectHandler) MyProjects(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	projects, err := h.projectService.AssignedProjects(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
	})
}
