package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/realapp/realapp-api/internal/middleware"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// @Summary List Projects
// @Description Get a paginated list of projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")

	projects, total, err := h.projectService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "pagination": gin.H{"total": total}})
}

// @Summary Get Project
// @Description Get a project by ID
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{project_id} [get]
func (h *ProjectHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	project, err := h.projectService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// @Summary Create Project
// @Description Create a new project
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body models.Project true "Project Data"
// @Success 201 {object} models.Project
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projectService.Create(c.Request.Context(), &project, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// @Summary Update Project
// @Description Update an existing project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body models.Project true "Project Data"
// @Success 200 {object} models.Project
// @Security BearerAuth
// @Router /projects/{project_id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project.ID = uint(id)

	if err := h.projectService.Update(c.Request.Context(), &project, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// @Summary List Blocks
// @Description Get the blocks of a project
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{project_id}/blocks [get]
func (h *ProjectHandler) Blocks(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	blocks, err := h.projectService.Blocks(c.Request.Context(), uint(projectID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}

// @Summary Create Block
// @Description Create a block inside a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body models.Block true "Block Data"
// @Success 201 {object} models.Block
// @Security BearerAuth
// @Router /projects/{project_id}/blocks [post]
func (h *ProjectHandler) CreateBlock(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("project_id"), 10, 32)
	var block models.Block
	if err := c.ShouldBindJSON(&block); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	block.ProjectID = uint(projectID)

	if err := h.projectService.CreateBlock(c.Request.Context(), &block, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"block": block})
}

// @Summary Get Block
// @Description Get a block with its tower milestones
// @Tags Projects
// @Produce json
// @Param block_id path int true "Block ID"
// @Success 200 {object} models.Block
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /blocks/{block_id} [get]
func (h *ProjectHandler) ShowBlock(c *gin.Context) {
	blockID, _ := strconv.ParseUint(c.Param("block_id"), 10, 32)
	block, err := h.projectService.FindBlock(c.Request.Context(), uint(blockID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"block": block})
}

// @Summary List Floors
// @Description Get the floors of a block
// @Tags Projects
// @Produce json
// @Param block_id path int true "Block ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /blocks/{block_id}/floors [get]
func (h *ProjectHandler) Floors(c *gin.Context) {
	blockID, _ := strconv.ParseUint(c.Param("block_id"), 10, 32)
	floors, err := h.projectService.Floors(c.Request.Context(), uint(blockID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"floors": floors})
}

// @Summary Create Floor
// @Description Create a floor inside a block
// @Tags Projects
// @Accept json
// @Produce json
// @Param block_id path int true "Block ID"
// @Param request body models.Floor true "Floor Data"
// @Success 201 {object} models.Floor
// @Security BearerAuth
// @Router /blocks/{block_id}/floors [post]
func (h *ProjectHandler) CreateFloor(c *gin.Context) {
	blockID, _ := strconv.ParseUint(c.Param("block_id"), 10, 32)
	var floor models.Floor
	if err := c.ShouldBindJSON(&floor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	floor.BlockID = uint(blockID)

	if err := h.projectService.CreateFloor(c.Request.Context(), &floor, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"floor": floor})
}

// @Summary Set Tower Milestone
// @Description Record or move a milestone date on a block
// @Tags Projects
// @Accept json
// @Produce json
// @Param block_id path int true "Block ID"
// @Param request body models.TowerMilestone true "Milestone Data"
// @Success 200 {object} models.TowerMilestone
// @Security BearerAuth
// @Router /blocks/{block_id}/milestones [put]
func (h *ProjectHandler) SetMilestone(c *gin.Context) {
	blockID, _ := strconv.ParseUint(c.Param("block_id"), 10, 32)
	var milestone models.TowerMilestone
	if err := c.ShouldBindJSON(&milestone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	milestone.BlockID = uint(blockID)

	if err := h.projectService.SetTowerMilestone(c.Request.Context(), &milestone, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestone": milestone})
}
