package model

import "time"

// MaxUsesUnlimited max_uses 取 -1 时表示不限次数
const MaxUsesUnlimited = -1

// InvitationCode 邀请码表 — 对应 invitation_codes
// times_used 只增不减；max_uses != -1 时恒有 times_used <= max_uses
type InvitationCode struct {
	ID        uint       `gorm:"primaryKey"                            json:"id"`
	Code      string     `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	IsActive  bool       `gorm:"not null;default:true"                 json:"is_active"`
	MaxUses   int        `gorm:"not null;default:-1"                   json:"max_uses"`
	TimesUsed int        `gorm:"not null;default:0"                    json:"times_used"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedBy uint       `gorm:"not null"                              json:"created_by"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`
}

// TableName 指定表名
func (InvitationCode) TableName() string { return "invitation_codes" }

// Exhausted 使用次数是否已达上限
func (c *InvitationCode) Exhausted() bool {
	return c.MaxUses != MaxUsesUnlimited && c.TimesUsed >= c.MaxUses
}

// Expired 是否已过指定时刻
func (c *InvitationCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// RedemptionCode 兑换码表 — 对应 redemption_codes
type RedemptionCode struct {
	ID          uint       `gorm:"primaryKey"                            json:"id"`
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	RewardType  string     `gorm:"type:varchar(20);not null"             json:"reward_type"`
	RewardValue int        `gorm:"not null"                              json:"reward_value"`
	MaxUses     int        `gorm:"not null;default:1"                    json:"max_uses"`
	TimesUsed   int        `gorm:"not null;default:0"                    json:"times_used"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedBy   *uint      `json:"created_by,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`
}

// TableName 指定表名
func (RedemptionCode) TableName() string { return "redemption_codes" }

// Exhausted 使用次数是否已达上限
func (c *RedemptionCode) Exhausted() bool {
	return c.MaxUses != MaxUsesUnlimited && c.TimesUsed >= c.MaxUses
}

// Expired 是否已过指定时刻
func (c *RedemptionCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
