package handler

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	appschema "schemaforge-api/internal/application/schema"
	"schemaforge-api/internal/domain/repository"
	"schemaforge-api/internal/interfaces/http/dto"
	"schemaforge-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// BlueprintHandler 蓝图 CRUD 处理器
type BlueprintHandler struct {
	repo     repository.BlueprintRepository
	registry *appschema.Registry
}

// NewBlueprintHandler 创建蓝图处理器
func NewBlueprintHandler(repo repository.BlueprintRepository, registry *appschema.Registry) *BlueprintHandler {
	return &BlueprintHandler{
		repo:     repo,
		registry: registry,
	}
}

// CreateBlueprint 创建蓝图
// @Summary 创建蓝图
// @Tags Blueprints
// @Accept json
// @Produce json
// @Param body body dto.CreateBlueprintRequest true "蓝图信息"
// @Success 201 {object} dto.Response[dto.BlueprintResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/blueprints [post]
func (h *BlueprintHandler) CreateBlueprint(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if h.registry.Get(req.TypeName) == nil {
		dto.BadRequest(c, "type not registered: "+req.TypeName)
		return
	}

	bp, err := req.ToBlueprint()
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	if existing, err := h.repo.GetByName(ctx, bp.Name); err == nil && existing != nil {
		dto.Conflict(c, "blueprint name already exists: "+bp.Name)
		return
	}

	if err := h.repo.Create(ctx, bp); err != nil {
		logger.Error(ctx, "failed to create blueprint", err)
		dto.InternalError(c, "failed to create blueprint")
		return
	}

	dto.Created(c, dto.ToBlueprintResponse(bp))
}

// GetBlueprint 获取蓝图详情
// @Summary 获取蓝图详情
// @Tags Blueprints
// @Produce json
// @Param id path string true "蓝图 ID"
// @Success 200 {object} dto.Response[dto.BlueprintResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/blueprints/{id} [get]
func (h *BlueprintHandler) GetBlueprint(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	bp, err := h.repo.GetByID(ctx, id)
	if err != nil {
		logger.Error(ctx, "failed to get blueprint", err, "blueprint_id", id)
		dto.InternalError(c, "failed to get blueprint")
		return
	}
	if bp == nil {
		dto.NotFound(c, "blueprint not found")
		return
	}

	dto.Success(c, dto.ToBlueprintResponse(bp))
}

// ListBlueprints 列举蓝图
// @Summary 列举蓝图
// @Tags Blueprints
// @Produce json
// @Param type_name query string false "按目标类型过滤"
// @Param tag query string false "按标签过滤"
// @Success 200 {object} dto.Response[[]dto.BlueprintResponse]
// @Router /v1/blueprints [get]
func (h *BlueprintHandler) ListBlueprints(c *gin.Context) {
	ctx := c.Request.Context()

	var filter *repository.BlueprintFilter
	typeName := strings.TrimSpace(c.Query("type_name"))
	tag := strings.TrimSpace(c.Query("tag"))
	if typeName != "" || tag != "" {
		filter = &repository.BlueprintFilter{
			TypeName: typeName,
			Tag:      tag,
		}
	}

	bps, err := h.repo.List(ctx, filter)
	if err != nil {
		logger.Error(ctx, "failed to list blueprints", err)
		dto.InternalError(c, "failed to list blueprints")
		return
	}

	dto.Success(c, dto.ToBlueprintListResponse(bps))
}

// UpdateBlueprint 更新蓝图
// @Summary 更新蓝图
// @Tags Blueprints
// @Accept json
// @Produce json
// @Param id path string true "蓝图 ID"
// @Param body body dto.UpdateBlueprintRequest true "蓝图信息"
// @Success 200 {object} dto.Response[dto.BlueprintResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/blueprints/{id} [put]
func (h *BlueprintHandler) UpdateBlueprint(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req dto.UpdateBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if h.registry.Get(req.TypeName) == nil {
		dto.BadRequest(c, "type not registered: "+req.TypeName)
		return
	}

	bp, err := h.repo.GetByID(ctx, id)
	if err != nil {
		logger.Error(ctx, "failed to get blueprint", err, "blueprint_id", id)
		dto.InternalError(c, "failed to update blueprint")
		return
	}
	if bp == nil {
		dto.NotFound(c, "blueprint not found")
		return
	}

	if err := req.Apply(bp); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	if err := h.repo.Update(ctx, bp); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dto.NotFound(c, "blueprint not found")
			return
		}
		logger.Error(ctx, "failed to update blueprint", err, "blueprint_id", id)
		dto.InternalError(c, "failed to update blueprint")
		return
	}

	dto.Success(c, dto.ToBlueprintResponse(bp))
}

// DeleteBlueprint 删除蓝图
// @Summary 删除蓝图
// @Tags Blueprints
// @Param id path string true "蓝图 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/blueprints/{id} [delete]
func (h *BlueprintHandler) DeleteBlueprint(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dto.NotFound(c, "blueprint not found")
			return
		}
		logger.Error(ctx, "failed to delete blueprint", err, "blueprint_id", id)
		dto.InternalError(c, "failed to delete blueprint")
		return
	}

	dto.NoContent(c)
}
