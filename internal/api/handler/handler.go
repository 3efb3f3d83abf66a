package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/config"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/api/middleware"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Invitation *InvitationHandler
	Redemption *RedemptionHandler
	Character  *CharacterHandler
	GameData   *GameDataHandler
	UserData   *UserDataHandler
	Admin      *AdminHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, cfg, logger),
		Invitation: NewInvitationHandler(svc.Invitation, logger),
		Redemption: NewRedemptionHandler(svc.Redemption, logger),
		Character:  NewCharacterHandler(svc.Character, logger),
		GameData:   NewGameDataHandler(svc.GameData, logger),
		UserData:   NewUserDataHandler(svc.UserData, logger),
		Admin:      NewAdminHandler(svc.Admin, logger),
	}
}

// currentUserID 从 Context 取当前登录用户 ID
// JWTAuth 之后的路由保证存在
func currentUserID(c *gin.Context) uint {
	return c.GetUint(middleware.CtxUserID)
}

// pathID 解析路径中的数字 ID 参数
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
