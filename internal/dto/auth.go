package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	UserName       string  `json:"user_name"       binding:"required,min=2,max=50"`
	Password       string  `json:"password"        binding:"required,min=6,max=72"`
	Email          *string `json:"email"           binding:"omitempty,email"`
	InvitationCode string  `json:"invitation_code" binding:"omitempty"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	UserID    uint   `json:"user_id"`
	AccountID *int64 `json:"account_id,omitempty"`
}

// LoginRequest 登录请求
// IsAdmin 为 true 时要求账号具有管理员权限（管理后台登录入口）
type LoginRequest struct {
	UserName string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserName    string `json:"user_name"`
	IsAdmin     bool   `json:"is_admin"`
}

// UserProfile 当前用户信息
type UserProfile struct {
	UserID       uint    `json:"user_id"`
	AccountID    *int64  `json:"account_id,omitempty"`
	UserName     string  `json:"user_name"`
	Email        *string `json:"email,omitempty"`
	IsAdmin      bool    `json:"is_admin"`
	TravelPoints int     `json:"travel_points"`
	LastLogin    *string `json:"last_login,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// ConsumeTravelPointsRequest 穿越点数扣减请求
type ConsumeTravelPointsRequest struct {
	Amount int `json:"amount" binding:"required"`
}

// ConsumeTravelPointsResponse 扣减后余额
type ConsumeTravelPointsResponse struct {
	TravelPoints int `json:"travel_points"`
}

// SecuritySettingsResponse 前端安全开关
type SecuritySettingsResponse struct {
	RateLimitEnabled bool `json:"rate_limit_enabled"`
}
