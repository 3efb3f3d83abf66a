package model

// DefaultPromptConfig 默认提示词配置表 — 对应 default_prompt_configs，全局单行
type DefaultPromptConfig struct {
	ID          uint    `gorm:"primaryKey"          json:"id"`
	PromptsJSON JSONMap `gorm:"type:jsonb;not null" json:"prompts_json"`
	Timestamps
}

// TableName 指定表名
func (DefaultPromptConfig) TableName() string { return "default_prompt_configs" }

// UserPromptConfig 用户提示词配置表 — 对应 user_prompt_configs，每用户一行
type UserPromptConfig struct {
	ID          uint    `gorm:"primaryKey"           json:"id"`
	UserID      uint    `gorm:"not null;uniqueIndex" json:"user_id"`
	PromptsJSON JSONMap `gorm:"type:jsonb;not null"  json:"prompts_json"`
	Timestamps

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (UserPromptConfig) TableName() string { return "user_prompt_configs" }
