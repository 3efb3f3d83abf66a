package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/service"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/response"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/timeutil"
)

// AdminHandler 管理后台接口
type AdminHandler struct {
	svc    service.AdminService
	logger *zap.Logger
}

// NewAdminHandler 创建 AdminHandler 实例
func NewAdminHandler(svc service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

// ── 用户管理 ──

// ListUsers 用户列表
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	items, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// GetUser 用户详情
// GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	resp, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 30007, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// UpdateUser 更新用户信息
// PUT /api/v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 30007, err.Error())
		case errors.Is(err, service.ErrUserNameExists):
			response.BadRequest(c, 30001, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			response.BadRequest(c, 30002, err.Error())
		case errors.Is(err, service.ErrAccountIDExists):
			response.BadRequest(c, 30010, err.Error())
		default:
			h.logger.Error("更新用户失败", zap.Uint("id", id), zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, resp)
}

// SetTravelPoints 设置穿越点数
// PUT /api/v1/admin/users/:id/travel-points
func (h *AdminHandler) SetTravelPoints(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.AdminSetTravelPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	resp, err := h.svc.SetTravelPoints(c.Request.Context(), id, req.Points)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 30007, err.Error())
		case errors.Is(err, service.ErrInvalidAmount):
			response.BadRequest(c, 30008, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, resp)
}

// SetUserActive 启用/禁用用户
// PUT /api/v1/admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.AdminSetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.SetUserActive(c.Request.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 30007, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// DeleteUser 删除用户及其关联数据
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 30007, err.Error())
		case errors.Is(err, service.ErrCannotDeleteSeedAdmin):
			response.Forbidden(c, 30011, err.Error())
		default:
			h.logger.Error("删除用户失败", zap.Uint("id", id), zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.NoContent(c)
}

// ExportUsers 导出用户表（xlsx 附件）
// GET /api/v1/admin/users/export
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	buf, err := h.svc.ExportUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("导出用户表失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	filename := fmt.Sprintf("users_%s.xlsx", timeutil.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// ── 存档管理 ──

// ListSaves 存档列表
// GET /api/v1/admin/saves
func (h *AdminHandler) ListSaves(c *gin.Context) {
	var req dto.AdminListSavesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	items, total, err := h.svc.ListSaves(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKList(c, items, total)
}

// GetSave 存档详情
// GET /api/v1/admin/saves/:id
func (h *AdminHandler) GetSave(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	resp, err := h.svc.GetSave(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSaveNotFound) {
			response.NotFound(c, 44001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// ReplaceSave 整体替换存档内容
// PUT /api/v1/admin/saves/:id
func (h *AdminHandler) ReplaceSave(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.AdminReplaceSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.ReplaceSave(c.Request.Context(), id, req.SaveData); err != nil {
		if errors.Is(err, service.ErrSaveNotFound) {
			response.NotFound(c, 44001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// DownloadSave 下载存档 JSON
// GET /api/v1/admin/saves/:id/download
func (h *AdminHandler) DownloadSave(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	resp, err := h.svc.GetSave(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSaveNotFound) {
			response.NotFound(c, 44001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	filename := fmt.Sprintf("save_%d_%s.json", resp.ID, timeutil.Now().Format("20060102_150405"))
	writeJSONAttachment(c, filename, resp)
}

// SetSaveActive 启用/禁用存档
// PUT /api/v1/admin/saves/:id/active
func (h *AdminHandler) SetSaveActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.AdminSetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.SetSaveActive(c.Request.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, service.ErrSaveNotFound) {
			response.NotFound(c, 44001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// DeleteSave 删除存档
// DELETE /api/v1/admin/saves/:id
func (h *AdminHandler) DeleteSave(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	if err := h.svc.DeleteSave(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSaveNotFound) {
			response.NotFound(c, 44001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}

// ── 本地存档数据管理 ──

// ListLocalData 本地存档数据列表
// GET /api/v1/admin/local-data
func (h *AdminHandler) ListLocalData(c *gin.Context) {
	var req dto.AdminListUserDataRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	items, err := h.svc.ListLocalData(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// GetLocalData 本地存档数据详情
// GET /api/v1/admin/local-data/:user_id
func (h *AdminHandler) GetLocalData(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	resp, err := h.svc.GetLocalData(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrLocalDataNotFound) {
			response.NotFound(c, 44002, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// ReplaceLocalData 整体替换本地存档数据
// PUT /api/v1/admin/local-data/:user_id
func (h *AdminHandler) ReplaceLocalData(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.UserLocalDataPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.ReplaceLocalData(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrLocalDataNotFound) {
			response.NotFound(c, 44002, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// DownloadLocalData 下载本地存档数据 JSON
// GET /api/v1/admin/local-data/:user_id/download
func (h *AdminHandler) DownloadLocalData(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	resp, err := h.svc.GetLocalData(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrLocalDataNotFound) {
			response.NotFound(c, 44002, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	filename := fmt.Sprintf("local_data_user%d_%s.json", resp.UserID, timeutil.Now().Format("20060102_150405"))
	writeJSONAttachment(c, filename, resp)
}

// DeleteLocalData 删除本地存档数据
// DELETE /api/v1/admin/local-data/:user_id
func (h *AdminHandler) DeleteLocalData(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	if err := h.svc.DeleteLocalData(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrLocalDataNotFound) {
			response.NotFound(c, 44002, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}

// ── 提示词管理 ──

// ListUserPrompts 用户提示词列表
// GET /api/v1/admin/prompts
func (h *AdminHandler) ListUserPrompts(c *gin.Context) {
	var req dto.AdminListUserDataRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	items, err := h.svc.ListUserPrompts(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// GetUserPrompts 用户提示词详情
// GET /api/v1/admin/prompts/user/:user_id
func (h *AdminHandler) GetUserPrompts(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	resp, err := h.svc.GetUserPrompts(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPromptsNotFound) {
			response.NotFound(c, 44003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// ReplaceUserPrompts 整体替换用户自定义提示词
// PUT /api/v1/admin/prompts/user/:user_id
func (h *AdminHandler) ReplaceUserPrompts(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	var req dto.PromptsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.ReplaceUserPrompts(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrPromptsNotFound) {
			response.NotFound(c, 44003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// DeleteUserPrompts 删除用户自定义提示词
// DELETE /api/v1/admin/prompts/user/:user_id
func (h *AdminHandler) DeleteUserPrompts(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		response.BadRequest(c, 10002, "非法的 ID")
		return
	}

	if err := h.svc.DeleteUserPrompts(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrPromptsNotFound) {
			response.NotFound(c, 44003, err.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}

// GetDefaultPrompts 读取全局默认提示词
// GET /api/v1/admin/prompts/default
func (h *AdminHandler) GetDefaultPrompts(c *gin.Context) {
	resp, err := h.svc.GetDefaultPrompts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// SaveDefaultPrompts 整体写入全局默认提示词
// PUT /api/v1/admin/prompts/default
func (h *AdminHandler) SaveDefaultPrompts(c *gin.Context) {
	var req dto.PromptsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.SaveDefaultPrompts(c.Request.Context(), &req); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
