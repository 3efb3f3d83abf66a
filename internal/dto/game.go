package dto

// WorldResponse 世界列表项
type WorldResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	Order       int    `json:"order"`
}

// TalentTierResponse 天资等级列表项
type TalentTierResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Multiplier  float64 `json:"multiplier"`
	Order       int     `json:"order"`
}

// OriginResponse 出身列表项
type OriginResponse struct {
	ID          uint                   `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Effects     map[string]interface{} `json:"effects,omitempty"`
	IsActive    bool                   `json:"is_active"`
	Order       int                    `json:"order"`
}

// SpiritRootResponse 改造核心列表项
type SpiritRootResponse struct {
	ID          uint                   `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Elements    map[string]interface{} `json:"elements"`
	IsActive    bool                   `json:"is_active"`
	Order       int                    `json:"order"`
}

// TalentResponse 天赋列表项
type TalentResponse struct {
	ID          uint                   `json:"id"`
	Name        string                 `json:"name"`
	Description *string                `json:"description,omitempty"`
	TalentCost  int                    `json:"talent_cost"`
	Rarity      int                    `json:"rarity"`
	TierID      *uint                  `json:"tier_id,omitempty"`
	Source      *string                `json:"source,omitempty"`
	Effects     map[string]interface{} `json:"effects,omitempty"`
	IsActive    bool                   `json:"is_active"`
}

// AISaveRequest AI 生成内容保存请求（消耗兑换码）
type AISaveRequest struct {
	Code    string                 `json:"code"    binding:"required"`
	Type    string                 `json:"type"    binding:"required,oneof=world talent_tier origin spirit_root talent"`
	Content map[string]interface{} `json:"content" binding:"required"`
}

// AISaveResponse AI 内容保存响应
type AISaveResponse struct {
	SavedID uint `json:"saved_id"`
}

// CreateWorldRequest 创建世界请求（管理员）
type CreateWorldRequest struct {
	Name        string `json:"name"        binding:"required,max=100"`
	Description string `json:"description" binding:"required"`
	Order       int    `json:"order"`
}

// UpdateWorldRequest 更新世界请求（管理员）
type UpdateWorldRequest struct {
	Name        string `json:"name"        binding:"required,max=100"`
	Description string `json:"description" binding:"required"`
	IsActive    bool   `json:"is_active"`
	Order       int    `json:"order"`
}
