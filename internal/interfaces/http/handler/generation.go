// Package handler 提供 HTTP 请求处理器
package handler

import (
	"schemaforge-api/internal/application/generation"
	"schemaforge-api/internal/config"
	"schemaforge-api/internal/domain/entity"
	"schemaforge-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// 单批请求数上限，防止一次 HTTP 请求压垮 LLM 配额
const maxBatchSize = 20

// GenerationHandler 生成处理器
type GenerationHandler struct {
	cfg *config.Config
	svc *generation.Service
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(cfg *config.Config, svc *generation.Service) *GenerationHandler {
	return &GenerationHandler{
		cfg: cfg,
		svc: svc,
	}
}

// Generate 按已注册类型生成条目
// @Summary 生成结构化数据
// @Description 根据已注册类型的 Schema 调用 LLM 生成条目并恢复为结构化结果
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 {object} dto.Response[dto.GenerateResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if _, _, err := resolveProviderModel(h.cfg, req.Provider, req.Model); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	genReq, err := req.ToGenerationRequest()
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	result := h.svc.Generate(ctx, genReq)
	dto.Success(c, dto.ToGenerateResponse(result))
}

// GenerateBatch 并发处理多个独立生成请求
// @Summary 批量生成结构化数据
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateBatchRequest true "批量生成请求"
// @Success 200 {object} dto.Response[dto.GenerateBatchResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/generate/batch [post]
func (h *GenerationHandler) GenerateBatch(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(req.Requests) > maxBatchSize {
		dto.BadRequest(c, "too many requests in one batch")
		return
	}

	genReqs := make([]*entity.GenerationRequest, 0, len(req.Requests))
	for i := range req.Requests {
		r := &req.Requests[i]
		if _, _, err := resolveProviderModel(h.cfg, r.Provider, r.Model); err != nil {
			dto.BadRequest(c, err.Error())
			return
		}
		genReq, err := r.ToGenerationRequest()
		if err != nil {
			dto.BadRequest(c, err.Error())
			return
		}
		genReqs = append(genReqs, genReq)
	}

	results := h.svc.GenerateBatch(ctx, genReqs)

	resp := &dto.GenerateBatchResponse{
		Results: make([]*dto.GenerateResponse, 0, len(results)),
	}
	for _, res := range results {
		resp.Results = append(resp.Results, dto.ToGenerateResponse(res))
	}
	dto.Success(c, resp)
}
