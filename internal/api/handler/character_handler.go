package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/service"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/response"
)

// CharacterHandler 角色/存档接口（当前用户）
type CharacterHandler struct {
	svc    service.CharacterService
	logger *zap.Logger
}

// NewCharacterHandler 创建 CharacterHandler 实例
func NewCharacterHandler(svc service.CharacterService, logger *zap.Logger) *CharacterHandler {
	return &CharacterHandler{svc: svc, logger: logger}
}

// Create 创建角色
// POST /api/v1/characters
func (h *CharacterHandler) Create(c *gin.Context) {
	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.logger.Error("创建角色失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.Created(c, resp)
}

// List 当前用户角色列表
// GET /api/v1/characters
func (h *CharacterHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// Get 角色详情
// GET /api/v1/characters/:id
func (h *CharacterHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			response.NotFound(c, 42001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// UpdateSave 整体替换存档
// PUT /api/v1/characters/:id/save
func (h *CharacterHandler) UpdateSave(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.UpdateSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.UpdateSave(c.Request.Context(), currentUserID(c), id, &req); err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			response.NotFound(c, 42001, err.Error())
			return
		}
		h.logger.Error("更新存档失败", zap.Uint("id", id), zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Delete 删除角色
// DELETE /api/v1/characters/:id
func (h *CharacterHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			response.NotFound(c, 42001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}
