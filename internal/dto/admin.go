package dto

// ── 用户管理 ──

// AdminUserItem 用户列表项（管理员视角）
type AdminUserItem struct {
	ID           uint    `json:"id"`
	AccountID    *int64  `json:"account_id,omitempty"`
	UserName     string  `json:"user_name"`
	Email        *string `json:"email,omitempty"`
	IsAdmin      bool    `json:"is_admin"`
	IsActive     bool    `json:"is_active"`
	TravelPoints int     `json:"travel_points"`
	CreatedAt    string  `json:"created_at"`
	LastLogin    *string `json:"last_login,omitempty"`
}

// AdminUpdateUserRequest 用户信息更新请求（管理员）
type AdminUpdateUserRequest struct {
	UserName     string  `json:"user_name" binding:"required,min=2,max=50"`
	AccountID    *int64  `json:"account_id"`
	Email        *string `json:"email"     binding:"omitempty,email"`
	Password     *string `json:"password"  binding:"omitempty,min=6,max=72"`
	IsAdmin      bool    `json:"is_admin"`
	TravelPoints *int    `json:"travel_points"`
}

// AdminSetTravelPointsRequest 穿越点数设置请求（管理员）
type AdminSetTravelPointsRequest struct {
	Points int `json:"points"`
}

// AdminSetActiveRequest 启用/禁用用户请求（管理员）
type AdminSetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ── 存档管理 ──

// AdminSaveItem 存档列表项
type AdminSaveItem struct {
	ID        uint   `json:"id"`
	UserName  string `json:"user_name"`
	CharName  string `json:"char_name"`
	WorldID   *uint  `json:"world_id,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AdminSaveDetail 存档详情（含存档 JSON）
type AdminSaveDetail struct {
	ID        uint                   `json:"id"`
	UserID    uint                   `json:"user_id"`
	UserName  string                 `json:"user_name"`
	CharName  string                 `json:"char_name"`
	WorldID   *uint                  `json:"world_id,omitempty"`
	IsActive  bool                   `json:"is_active"`
	CreatedAt string                 `json:"created_at"`
	UpdatedAt string                 `json:"updated_at"`
	SaveData  map[string]interface{} `json:"save_data"`
}

// AdminReplaceSaveRequest 存档内容整体替换请求（管理员）
type AdminReplaceSaveRequest struct {
	SaveData map[string]interface{} `json:"save_data" binding:"required"`
}

// AdminListSavesRequest 存档列表查询参数
type AdminListSavesRequest struct {
	UserName string `form:"user_name"`
	CharName string `form:"char_name"`
	IsActive *bool  `form:"is_active"`
	Skip     int    `form:"skip"  binding:"omitempty,min=0"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// GetLimit 获取每页数量（含默认值）
func (r *AdminListSavesRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 100
	}
	return r.Limit
}

// ── 本地存档数据 / 用户提示词 ──

// AdminUserDataItem 按用户归档的数据列表项（本地存档/提示词共用）
type AdminUserDataItem struct {
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AdminListUserDataRequest 按用户名过滤的列表查询参数
type AdminListUserDataRequest struct {
	UserName string `form:"user_name"`
	Skip     int    `form:"skip"  binding:"omitempty,min=0"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// GetLimit 获取每页数量（含默认值）
func (r *AdminListUserDataRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 100
	}
	return r.Limit
}

// AdminLocalDataDetail 本地存档数据详情
type AdminLocalDataDetail struct {
	UserID     uint                   `json:"user_id"`
	UserName   string                 `json:"user_name"`
	CreatedAt  string                 `json:"created_at"`
	UpdatedAt  string                 `json:"updated_at"`
	Characters map[string]interface{} `json:"characters"`
	Saves      map[string]interface{} `json:"saves"`
}

// AdminUserPromptsDetail 用户提示词详情
type AdminUserPromptsDetail struct {
	UserID    uint                   `json:"user_id"`
	UserName  string                 `json:"user_name"`
	CreatedAt string                 `json:"created_at"`
	UpdatedAt string                 `json:"updated_at"`
	Prompts   map[string]interface{} `json:"prompts"`
}
