package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/jwt"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/response"
)

// gin.Context 键名
const (
	CtxUserID   = "user_id"
	CtxUserName = "user_name"
	CtxIsAdmin  = "is_admin"
)

// JWTAuth JWT 认证中间件
// 解析 Authorization: Bearer <token>，验证通过后把身份信息注入 Context
func JWTAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, 20001, "缺少认证信息")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, 20002, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := manager.Parse(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, 20003, "登录已过期，请重新登录")
			} else {
				response.Unauthorized(c, 20004, "无效的认证信息")
			}
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserName, claims.UserName)
		c.Set(CtxIsAdmin, claims.IsAdmin)

		c.Next()
	}
}

// AdminAuth 管理员权限中间件（只看 Token 声明）
// 必须挂在 JWTAuth 之后
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			response.Forbidden(c, 20005, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminVerified 强校验管理员中间件
// 在 Token 声明之外回数据库重读用户行，确认当前仍是启用状态的管理员。
// 码表等敏感变更操作使用，避免权限被撤销后旧 Token 仍然生效
func AdminVerified(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			response.Forbidden(c, 20005, "需要管理员权限")
			c.Abort()
			return
		}

		userID := c.GetUint(CtxUserID)
		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Forbidden(c, 20006, "管理员账号不存在")
			} else {
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		if !user.IsAdmin || !user.IsActive {
			response.Forbidden(c, 20007, "管理员权限已失效")
			c.Abort()
			return
		}

		c.Next()
	}
}
