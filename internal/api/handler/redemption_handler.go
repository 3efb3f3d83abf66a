package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/service"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/response"
)

// RedemptionHandler 兑换码接口
// 管理端 CRUD 走 /admin 路由，校验接口对登录用户开放
type RedemptionHandler struct {
	svc    service.RedemptionService
	logger *zap.Logger
}

// NewRedemptionHandler 创建 RedemptionHandler 实例
func NewRedemptionHandler(svc service.RedemptionService, logger *zap.Logger) *RedemptionHandler {
	return &RedemptionHandler{svc: svc, logger: logger}
}

// redemptionError 兑换码业务错误统一映射
func redemptionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRedemptionNotFound):
		response.NotFound(c, 41001, err.Error())
	case errors.Is(err, service.ErrRedemptionExhausted):
		response.BadRequest(c, 41002, err.Error())
	case errors.Is(err, service.ErrRedemptionExpired):
		response.BadRequest(c, 41003, err.Error())
	case errors.Is(err, service.ErrRedemptionCodeEmpty):
		response.BadRequest(c, 41004, err.Error())
	default:
		response.InternalError(c)
	}
}

// Create 创建兑换码
// POST /api/v1/admin/redemption-codes
func (h *RedemptionHandler) Create(c *gin.Context) {
	var req dto.CreateRedemptionCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMaxUses),
			errors.Is(err, service.ErrInvalidRewardValue),
			errors.Is(err, service.ErrRedemptionCodeLength),
			errors.Is(err, service.ErrRedemptionCodeEmpty):
			response.BadRequest(c, 41005, err.Error())
		case errors.Is(err, service.ErrRedemptionCodeExists):
			response.BadRequest(c, 41006, err.Error())
		default:
			h.logger.Error("创建兑换码失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.Created(c, resp)
}

// List 兑换码列表
// GET /api/v1/admin/redemption-codes
func (h *RedemptionHandler) List(c *gin.Context) {
	var req dto.ListCodesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	items, total, err := h.svc.List(c.Request.Context(), req.Skip, req.GetLimit())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKList(c, items, total)
}

// Get 兑换码详情
// GET /api/v1/admin/redemption-codes/:id
func (h *RedemptionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		redemptionError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update 更新兑换码（次数上限 / 过期时间）
// PATCH /api/v1/admin/redemption-codes/:id
func (h *RedemptionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.UpdateRedemptionCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMaxUses),
			errors.Is(err, service.ErrInvalidExpiresAt):
			response.BadRequest(c, 41005, err.Error())
		default:
			redemptionError(c, err)
		}
		return
	}
	response.OK(c, resp)
}

// Delete 删除兑换码
// DELETE /api/v1/admin/redemption-codes/:id
func (h *RedemptionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrRedemptionNotFound) {
			response.NotFound(c, 41001, err.Error())
			return
		}
		h.logger.Error("删除兑换码失败", zap.Uint("id", id), zap.Error(err))
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}

// Validate 只读校验兑换码
// GET /api/v1/redemption-codes/:code/validate
func (h *RedemptionHandler) Validate(c *gin.Context) {
	resp, err := h.svc.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		redemptionError(c, err)
		return
	}
	response.OK(c, resp)
}
