package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/config"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/service"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/response"
)

// AuthHandler 认证与账号接口
type AuthHandler struct {
	svc    service.AuthService
	cfg    *config.Config
	logger *zap.Logger
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(svc service.AuthService, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg, logger: logger}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNameExists):
			response.BadRequest(c, 30001, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			response.BadRequest(c, 30002, err.Error())
		case errors.Is(err, service.ErrInvitationNotFound),
			errors.Is(err, service.ErrInvitationDisabled),
			errors.Is(err, service.ErrInvitationExhausted),
			errors.Is(err, service.ErrInvitationExpired):
			response.BadRequest(c, 30003, err.Error())
		default:
			h.logger.Error("注册失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.Created(c, resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, 30004, err.Error())
		case errors.Is(err, service.ErrUserDisabled):
			response.Forbidden(c, 30005, err.Error())
		case errors.Is(err, service.ErrNotAdmin):
			response.Forbidden(c, 30006, err.Error())
		default:
			h.logger.Error("登录失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, resp)
}

// Profile 当前用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) Profile(c *gin.Context) {
	resp, err := h.svc.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 30007, err.Error())
			return
		}
		h.logger.Error("查询用户信息失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// ConsumeTravelPoints 扣减穿越点数
// POST /api/v1/auth/travel-points/consume
func (h *AuthHandler) ConsumeTravelPoints(c *gin.Context) {
	var req dto.ConsumeTravelPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.ConsumeTravelPoints(c.Request.Context(), currentUserID(c), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			response.BadRequest(c, 30008, err.Error())
		case errors.Is(err, service.ErrInsufficientPoints):
			response.BadRequest(c, 30009, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 30007, err.Error())
		default:
			h.logger.Error("扣减穿越点数失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, resp)
}

// SecuritySettings 前端安全开关（公开）
// GET /api/v1/security-settings
func (h *AuthHandler) SecuritySettings(c *gin.Context) {
	response.OK(c, dto.SecuritySettingsResponse{
		RateLimitEnabled: h.cfg.RateLimit.Enabled,
	})
}
