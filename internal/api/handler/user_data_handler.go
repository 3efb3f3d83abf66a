package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/service"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/response"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/timeutil"
)

// UserDataHandler 用户侧 JSON 数据接口（API 配置 / 本地存档 / 提示词）
type UserDataHandler struct {
	svc    service.UserDataService
	logger *zap.Logger
}

// NewUserDataHandler 创建 UserDataHandler 实例
func NewUserDataHandler(svc service.UserDataService, logger *zap.Logger) *UserDataHandler {
	return &UserDataHandler{svc: svc, logger: logger}
}

// ── API 配置 ──

// GetAPIConfig 读取 API 配置
// GET /api/v1/user-data/api-config
func (h *UserDataHandler) GetAPIConfig(c *gin.Context) {
	resp, err := h.svc.GetAPIConfig(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// SaveAPIConfig 整体写入 API 配置
// PUT /api/v1/user-data/api-config
func (h *UserDataHandler) SaveAPIConfig(c *gin.Context) {
	var req dto.UserAPIConfigPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.SaveAPIConfig(c.Request.Context(), currentUserID(c), &req); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// DeleteAPIConfig 删除 API 配置
// DELETE /api/v1/user-data/api-config
func (h *UserDataHandler) DeleteAPIConfig(c *gin.Context) {
	if err := h.svc.DeleteAPIConfig(c.Request.Context(), currentUserID(c)); err != nil {
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}

// ── 本地存档数据 ──

// GetLocalData 读取本地存档数据
// GET /api/v1/user-data/local
func (h *UserDataHandler) GetLocalData(c *gin.Context) {
	resp, err := h.svc.GetLocalData(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// SaveLocalData 整体写入本地存档数据
// PUT /api/v1/user-data/local
func (h *UserDataHandler) SaveLocalData(c *gin.Context) {
	var req dto.UserLocalDataPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.SaveLocalData(c.Request.Context(), currentUserID(c), &req); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// DeleteLocalData 删除本地存档数据
// DELETE /api/v1/user-data/local
func (h *UserDataHandler) DeleteLocalData(c *gin.Context) {
	if err := h.svc.DeleteLocalData(c.Request.Context(), currentUserID(c)); err != nil {
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}

// DownloadLocalData 以 JSON 附件导出本地存档数据
// GET /api/v1/user-data/local/download
func (h *UserDataHandler) DownloadLocalData(c *gin.Context) {
	resp, err := h.svc.GetLocalData(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.InternalError(c)
		return
	}

	filename := fmt.Sprintf("local_data_%s.json", timeutil.Now().Format("20060102_150405"))
	writeJSONAttachment(c, filename, resp)
}

// ── 提示词配置 ──

// GetPrompts 读取提示词（自定义优先，回落默认）
// GET /api/v1/user-data/prompts
func (h *UserDataHandler) GetPrompts(c *gin.Context) {
	resp, err := h.svc.GetPrompts(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// SavePrompts 整体写入自定义提示词
// PUT /api/v1/user-data/prompts
func (h *UserDataHandler) SavePrompts(c *gin.Context) {
	var req dto.PromptsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请求参数错误: "+err.Error())
		return
	}

	if err := h.svc.SavePrompts(c.Request.Context(), currentUserID(c), &req); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// ResetPrompts 恢复默认提示词
// DELETE /api/v1/user-data/prompts
func (h *UserDataHandler) ResetPrompts(c *gin.Context) {
	if err := h.svc.ResetPrompts(c.Request.Context(), currentUserID(c)); err != nil {
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}

// DownloadPrompts 以 JSON 附件导出当前生效的提示词
// GET /api/v1/user-data/prompts/download
func (h *UserDataHandler) DownloadPrompts(c *gin.Context) {
	resp, err := h.svc.GetPrompts(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.InternalError(c)
		return
	}

	filename := fmt.Sprintf("prompts_%s.json", timeutil.Now().Format("20060102_150405"))
	writeJSONAttachment(c, filename, resp)
}

// writeJSONAttachment 以附件形式返回格式化 JSON
func writeJSONAttachment(c *gin.Context, filename string, payload interface{}) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
