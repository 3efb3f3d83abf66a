package model

import "time"

// User 用户表 — 对应 users
type User struct {
	ID           uint       `gorm:"primaryKey"                          json:"id"`
	AccountID    *int64     `gorm:"uniqueIndex"                         json:"account_id,omitempty"`
	UserName     string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"user_name"`
	Email        *string    `gorm:"type:varchar(100);uniqueIndex"       json:"email,omitempty"`
	PasswordHash string     `gorm:"type:varchar(255);not null"          json:"-"`
	IsAdmin      bool       `gorm:"not null;default:false"              json:"is_admin"`
	IsActive     bool       `gorm:"not null;default:true"               json:"is_active"`
	TravelPoints int        `gorm:"not null;default:0"                  json:"travel_points"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Timestamps
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// UserAPIConfig 用户 API 配置表 — 对应 user_api_configs，每用户一行
type UserAPIConfig struct {
	ID     uint    `gorm:"primaryKey"              json:"id"`
	UserID uint    `gorm:"not null;uniqueIndex"    json:"user_id"`
	Config JSONMap `gorm:"type:jsonb;not null"     json:"config"`
	Timestamps
}

// TableName 指定表名
func (UserAPIConfig) TableName() string { return "user_api_configs" }

// UserLocalData 用户本地存档数据表 — 对应 user_local_data，每用户一行
// characters/saves 两份 JSON 整体替换
type UserLocalData struct {
	ID             uint    `gorm:"primaryKey"           json:"id"`
	UserID         uint    `gorm:"not null;uniqueIndex" json:"user_id"`
	CharactersJSON JSONMap `gorm:"type:jsonb;not null"  json:"characters_json"`
	SavesJSON      JSONMap `gorm:"type:jsonb;not null"  json:"saves_json"`
	Timestamps

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (UserLocalData) TableName() string { return "user_local_data" }
