package dto

// UserAPIConfigPayload 用户 API 配置整体写入
type UserAPIConfigPayload struct {
	Config map[string]interface{} `json:"config" binding:"required"`
}

// UserAPIConfigResponse 用户 API 配置读取
// 无记录时 Config 为 null
type UserAPIConfigResponse struct {
	Config map[string]interface{} `json:"config"`
}

// UserLocalDataPayload 本地存档数据整体写入
type UserLocalDataPayload struct {
	Characters map[string]interface{} `json:"characters" binding:"required"`
	Saves      map[string]interface{} `json:"saves"      binding:"required"`
}

// UserLocalDataResponse 本地存档数据读取
type UserLocalDataResponse struct {
	Characters map[string]interface{} `json:"characters"`
	Saves      map[string]interface{} `json:"saves"`
}

// PromptsPayload 提示词配置整体写入
type PromptsPayload struct {
	Prompts map[string]interface{} `json:"prompts" binding:"required"`
}

// PromptsResponse 提示词配置读取
// 无记录时返回空对象而非 null
type PromptsResponse struct {
	Prompts map[string]interface{} `json:"prompts"`
}
