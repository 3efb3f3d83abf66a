package dto

// CreateCharacterRequest 创建角色请求
type CreateCharacterRequest struct {
	CharName string                 `json:"char_name" binding:"required,max=100"`
	WorldID  *uint                  `json:"world_id"`
	SaveData map[string]interface{} `json:"save_data" binding:"required"`
}

// CreateCharacterResponse 创建角色响应
type CreateCharacterResponse struct {
	CharacterID uint `json:"character_id"`
}

// CharacterResponse 角色详情
type CharacterResponse struct {
	ID        uint                   `json:"id"`
	CharName  string                 `json:"char_name"`
	WorldID   *uint                  `json:"world_id,omitempty"`
	SaveData  map[string]interface{} `json:"save_data"`
	IsActive  bool                   `json:"is_active"`
	CreatedAt string                 `json:"created_at"`
	UpdatedAt string                 `json:"updated_at"`
}

// UpdateSaveRequest 存档整体替换请求
type UpdateSaveRequest struct {
	SaveData map[string]interface{} `json:"save_data" binding:"required"`
}
