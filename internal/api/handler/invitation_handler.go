package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/service"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/response"
)

// InvitationHandler 邀请码管理接口（管理员）
type InvitationHandler struct {
	svc    service.InvitationService
	logger *zap.Logger
}

// NewInvitationHandler 创建 InvitationHandler 实例
func NewInvitationHandler(svc service.InvitationService, logger *zap.Logger) *InvitationHandler {
	return &InvitationHandler{svc: svc, logger: logger}
}

// Create 创建邀请码
// POST /api/v1/admin/invitation-codes
func (h *InvitationHandler) Create(c *gin.Context) {
	var req dto.CreateInvitationCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMaxUses),
			errors.Is(err, service.ErrInvitationCodeLength),
			errors.Is(err, service.ErrInvitationCodeEmpty):
			response.BadRequest(c, 40001, err.Error())
		case errors.Is(err, service.ErrInvitationCodeExists):
			response.BadRequest(c, 40002, err.Error())
		default:
			h.logger.Error("创建邀请码失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.Created(c, resp)
}

// List 邀请码列表
// GET /api/v1/admin/invitation-codes
func (h *InvitationHandler) List(c *gin.Context) {
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

// Get 邀请码详情
// GET /api/v1/admin/invitation-codes/:id
func (h *InvitationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInvitationNotFound) {
			response.NotFound(c, 40003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Update 启用/禁用邀请码
// PATCH /api/v1/admin/invitation-codes/:id
func (h *InvitationHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.UpdateInvitationCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvitationNotFound) {
			response.NotFound(c, 40003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Delete 删除邀请码
// DELETE /api/v1/admin/invitation-codes/:id
func (h *InvitationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrInvitationNotFound) {
			response.NotFound(c, 40003, err.Error())
			return
		}
		h.logger.Error("删除邀请码失败", zap.Uint("id", id), zap.Error(err))
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}
