package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/service"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/response"
)

// GameDataHandler 参考游戏数据与 AI 内容接口
type GameDataHandler struct {
	svc    service.GameDataService
	logger *zap.Logger
}

// NewGameDataHandler 创建 GameDataHandler 实例
func NewGameDataHandler(svc service.GameDataService, logger *zap.Logger) *GameDataHandler {
	return &GameDataHandler{svc: svc, logger: logger}
}

// ListWorlds 世界列表（公开，仅启用项）
// GET /api/v1/game-data/worlds
func (h *GameDataHandler) ListWorlds(c *gin.Context) {
	items, err := h.svc.ListWorlds(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// ListTalentTiers 天资等级列表（公开）
// GET /api/v1/game-data/talent-tiers
func (h *GameDataHandler) ListTalentTiers(c *gin.Context) {
	items, err := h.svc.ListTalentTiers(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// ListOrigins 出身列表（公开，仅启用项）
// GET /api/v1/game-data/origins
func (h *GameDataHandler) ListOrigins(c *gin.Context) {
	items, err := h.svc.ListOrigins(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// ListSpiritRoots 改造核心列表（公开，仅启用项）
// GET /api/v1/game-data/spirit-roots
func (h *GameDataHandler) ListSpiritRoots(c *gin.Context) {
	items, err := h.svc.ListSpiritRoots(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// ListTalents 天赋列表（公开，仅启用项）
// GET /api/v1/game-data/talents
func (h *GameDataHandler) ListTalents(c *gin.Context) {
	items, err := h.svc.ListTalents(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// CreateWorld 创建世界（管理员）
// POST /api/v1/admin/worlds
func (h *GameDataHandler) CreateWorld(c *gin.Context) {
	var req dto.CreateWorldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.CreateWorld(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("创建世界失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.Created(c, resp)
}

// UpdateWorld 更新世界（管理员）
// PUT /api/v1/admin/worlds/:id
func (h *GameDataHandler) UpdateWorld(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.UpdateWorldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.UpdateWorld(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrWorldNotFound) {
			response.NotFound(c, 43003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// DeleteWorld 删除世界（管理员）
// DELETE /api/v1/admin/worlds/:id
func (h *GameDataHandler) DeleteWorld(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	if err := h.svc.DeleteWorld(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrWorldNotFound) {
			response.NotFound(c, 43003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}

// SaveAIContent 保存 AI 生成内容（消耗兑换码）
// POST /api/v1/game-data/ai-save
func (h *GameDataHandler) SaveAIContent(c *gin.Context) {
	var req dto.AISaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.SaveAIContent(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAIContent),
			errors.Is(err, service.ErrInvalidAIType):
			response.BadRequest(c, 43001, err.Error())
		case errors.Is(err, service.ErrTalentTierNotFound):
			response.BadRequest(c, 43002, err.Error())
		default:
			redemptionError(c, err)
		}
		return
	}
	response.Created(c, resp)
}
