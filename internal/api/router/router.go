package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/config"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/api/handler"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/api/middleware"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/jwt"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/redis"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/response"
)

// 请求体大小上限，存档 JSON 偏大所以放宽到 16MB
const bodyLimit = 16 << 20

// Options 路由装配参数
type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	Handler    *handler.Handler
	JWTManager *jwt.Manager
	UserRepo   repository.UserRepository
	Redis      *redis.Client
}

// New 装配 gin 引擎与全部路由
func New(opts Options) *gin.Engine {
	cfg := opts.Config
	h := opts.Handler

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Server.CORS.AllowOrigins),
		middleware.BodyLimit(bodyLimit),
	)

	if cfg.RateLimit.Enabled {
		engine.Use(middleware.RateLimit(opts.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Period))
	}

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.JWTAuth(opts.JWTManager)
	adminAuth := middleware.AdminAuth()
	// 码表等敏感变更在声明校验之外回库确认管理员仍然有效
	adminVerified := middleware.AdminVerified(opts.UserRepo)

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/version", func(c *gin.Context) {
			response.OK(c, gin.H{
				"name":    cfg.App.Name,
				"version": cfg.App.Version,
			})
		})
		v1.GET("/security-settings", h.Auth.SecuritySettings)

		// 认证
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.GET("/me", auth, h.Auth.Profile)
			authGroup.POST("/travel-points/consume", auth, h.Auth.ConsumeTravelPoints)
		}

		// 参考游戏数据（公开列表 + 登录后 AI 保存）
		gameData := v1.Group("/game-data")
		{
			gameData.GET("/worlds", h.GameData.ListWorlds)
			gameData.GET("/talent-tiers", h.GameData.ListTalentTiers)
			gameData.GET("/origins", h.GameData.ListOrigins)
			gameData.GET("/spirit-roots", h.GameData.ListSpiritRoots)
			gameData.GET("/talents", h.GameData.ListTalents)
			gameData.POST("/ai-save", auth, h.GameData.SaveAIContent)
		}

		// 兑换码校验（登录用户，只读）
		v1.GET("/redemption-codes/:code/validate", auth, h.Redemption.Validate)

		// 角色/存档（当前用户）
		characters := v1.Group("/characters", auth)
		{
			characters.POST("", h.Character.Create)
			characters.GET("", h.Character.List)
			characters.GET("/:id", h.Character.Get)
			characters.PUT("/:id/save", h.Character.UpdateSave)
			characters.DELETE("/:id", h.Character.Delete)
		}

		// 用户侧 JSON 数据
		userData := v1.Group("/user-data", auth)
		{
			userData.GET("/api-config", h.UserData.GetAPIConfig)
			userData.PUT("/api-config", h.UserData.SaveAPIConfig)
			userData.DELETE("/api-config", h.UserData.DeleteAPIConfig)

			userData.GET("/local", h.UserData.GetLocalData)
			userData.PUT("/local", h.UserData.SaveLocalData)
			userData.DELETE("/local", h.UserData.DeleteLocalData)
			userData.GET("/local/download", h.UserData.DownloadLocalData)

			userData.GET("/prompts", h.UserData.GetPrompts)
			userData.PUT("/prompts", h.UserData.SavePrompts)
			userData.DELETE("/prompts", h.UserData.ResetPrompts)
			userData.GET("/prompts/download", h.UserData.DownloadPrompts)
		}

		// 管理后台
		admin := v1.Group("/admin", auth, adminAuth)
		{
			// 用户管理
			admin.GET("/users", h.Admin.ListUsers)
			admin.GET("/users/export", h.Admin.ExportUsers)
			admin.GET("/users/:id", h.Admin.GetUser)
			admin.PUT("/users/:id", h.Admin.UpdateUser)
			admin.PUT("/users/:id/travel-points", h.Admin.SetTravelPoints)
			admin.PUT("/users/:id/active", h.Admin.SetUserActive)
			admin.DELETE("/users/:id", h.Admin.DeleteUser)

			// 邀请码（变更走强校验）
			admin.GET("/invitation-codes", h.Invitation.List)
			admin.GET("/invitation-codes/:id", h.Invitation.Get)
			admin.POST("/invitation-codes", adminVerified, h.Invitation.Create)
			admin.PATCH("/invitation-codes/:id", adminVerified, h.Invitation.Update)
			admin.DELETE("/invitation-codes/:id", adminVerified, h.Invitation.Delete)

			// 兑换码（变更走强校验）
			admin.GET("/redemption-codes", h.Redemption.List)
			admin.GET("/redemption-codes/:id", h.Redemption.Get)
			admin.POST("/redemption-codes", adminVerified, h.Redemption.Create)
			admin.PATCH("/redemption-codes/:id", adminVerified, h.Redemption.Update)
			admin.DELETE("/redemption-codes/:id", adminVerified, h.Redemption.Delete)

			// 世界管理
			admin.POST("/worlds", h.GameData.CreateWorld)
			admin.PUT("/worlds/:id", h.GameData.UpdateWorld)
			admin.DELETE("/worlds/:id", h.GameData.DeleteWorld)

			// 存档管理
			admin.GET("/saves", h.Admin.ListSaves)
			admin.GET("/saves/:id", h.Admin.GetSave)
			admin.GET("/saves/:id/download", h.Admin.DownloadSave)
			admin.PUT("/saves/:id", h.Admin.ReplaceSave)
			admin.PUT("/saves/:id/active", h.Admin.SetSaveActive)
			admin.DELETE("/saves/:id", h.Admin.DeleteSave)

			// 本地存档数据管理
			admin.GET("/local-data", h.Admin.ListLocalData)
			admin.GET("/local-data/:user_id", h.Admin.GetLocalData)
			admin.GET("/local-data/:user_id/download", h.Admin.DownloadLocalData)
			admin.PUT("/local-data/:user_id", h.Admin.ReplaceLocalData)
			admin.DELETE("/local-data/:user_id", h.Admin.DeleteLocalData)

			// 提示词管理
			admin.GET("/prompts", h.Admin.ListUserPrompts)
			admin.GET("/prompts/default", h.Admin.GetDefaultPrompts)
			admin.PUT("/prompts/default", h.Admin.SaveDefaultPrompts)
			admin.GET("/prompts/user/:user_id", h.Admin.GetUserPrompts)
			admin.PUT("/prompts/user/:user_id", h.Admin.ReplaceUserPrompts)
			admin.DELETE("/prompts/user/:user_id", h.Admin.DeleteUserPrompts)
		}
	}

	return engine
}
