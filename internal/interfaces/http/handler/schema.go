package handler

import (
	appschema "schemaforge-api/internal/application/schema"
	"schemaforge-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// SchemaHandler 类型注册表只读接口
type SchemaHandler struct {
	registry *appschema.Registry
}

// NewSchemaHandler 创建 Schema 处理器
func NewSchemaHandler(registry *appschema.Registry) *SchemaHandler {
	return &SchemaHandler{registry: registry}
}

// ListSchemas 列举已注册类型名
// @Summary 列举已注册类型
// @Tags Schemas
// @Produce json
// @Success 200 {object} dto.Response[dto.SchemaListResponse]
// @Router /v1/schemas [get]
func (h *SchemaHandler) ListSchemas(c *gin.Context) {
	dto.Success(c, &dto.SchemaListResponse{
		Types: h.registry.Names(),
	})
}

// GetSchema 获取单个类型的 Schema 描述
// @Summary 获取类型 Schema
// @Description 返回字段列表以及发给模型的 JSON 模板与说明文本
// @Tags Schemas
// @Produce json
// @Param name path string true "类型名"
// @Success 200 {object} dto.Response[dto.TypeSchemaResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/schemas/{name} [get]
func (h *SchemaHandler) GetSchema(c *gin.Context) {
	name := c.Param("name")

	reg := h.registry.Get(name)
	if reg == nil {
		dto.NotFound(c, "type not registered: "+name)
		return
	}

	resp := dto.ToTypeSchemaResponse(
		reg.Schema,
		appschema.JSONTemplate(reg.Schema),
		appschema.Describe(reg.Schema),
	)
	dto.Success(c, resp)
}
