package dto

// ── 邀请码 ──

// CreateInvitationCodeRequest 创建邀请码请求（管理员）
// MaxUses 省略时默认 -1（不限次数）；显式传 0 或小于 -1 为非法
type CreateInvitationCodeRequest struct {
	MaxUses    *int   `json:"max_uses"`
	DaysValid  *int   `json:"days_valid"  binding:"omitempty,min=1"`
	CustomCode string `json:"custom_code" binding:"omitempty"`
}

// UpdateInvitationCodeRequest 修改邀请码请求（管理员）
type UpdateInvitationCodeRequest struct {
	IsActive *bool `json:"is_active"`
}

// InvitationCodeResponse 邀请码响应
type InvitationCodeResponse struct {
	ID        uint    `json:"id"`
	Code      string  `json:"code"`
	IsActive  bool    `json:"is_active"`
	MaxUses   int     `json:"max_uses"`
	TimesUsed int     `json:"times_used"`
	ExpiresAt *string `json:"expires_at,omitempty"`
	CreatedAt string  `json:"created_at"`
	CreatedBy uint    `json:"created_by"`
}

// ── 兑换码 ──

// CreateRedemptionCodeRequest 创建兑换码请求（管理员）
// MaxUses 省略时默认 1；显式传 0 或小于 -1 为非法
type CreateRedemptionCodeRequest struct {
	MaxUses     *int   `json:"max_uses"`
	DaysValid   *int   `json:"days_valid"   binding:"omitempty,min=1"`
	CustomCode  string `json:"custom_code"  binding:"omitempty"`
	RewardType  string `json:"reward_type"`
	RewardValue int    `json:"reward_value"`
}

// UpdateRedemptionCodeRequest 更新兑换码请求（管理员）
// ExpiresAt 允许设置为过去的时间（等价于立即过期）
type UpdateRedemptionCodeRequest struct {
	MaxUses   *int    `json:"max_uses"`
	ExpiresAt *string `json:"expires_at"`
}

// RedemptionCodeResponse 兑换码响应
type RedemptionCodeResponse struct {
	ID          uint    `json:"id"`
	Code        string  `json:"code"`
	RewardType  string  `json:"reward_type"`
	RewardValue int     `json:"reward_value"`
	MaxUses     int     `json:"max_uses"`
	TimesUsed   int     `json:"times_used"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// RedemptionCodeView 兑换码校验响应（只读，不消耗次数）
type RedemptionCodeView struct {
	ID        uint    `json:"id"`
	Code      string  `json:"code"`
	TimesUsed int     `json:"times_used"`
	MaxUses   int     `json:"max_uses"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

// ListCodesRequest 分页参数
type ListCodesRequest struct {
	Skip  int `form:"skip"  binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// GetLimit 获取每页数量（含默认值）
func (r *ListCodesRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 50
	}
	return r.Limit
}
