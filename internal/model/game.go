package model

import "time"

// World 世界表 — 对应 worlds
type World struct {
	ID          uint      `gorm:"primaryKey"                         json:"id"`
	Name        string    `gorm:"type:varchar(100);not null"         json:"name"`
	Description string    `gorm:"type:text;not null"                 json:"description"`
	IsActive    bool      `gorm:"not null;default:true"              json:"is_active"`
	Order       int       `gorm:"column:order;not null;default:0"    json:"order"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (World) TableName() string { return "worlds" }

// TalentTier 天资等级表 — 对应 talent_tiers
type TalentTier struct {
	ID          uint    `gorm:"primaryKey"                      json:"id"`
	Name        string  `gorm:"type:varchar(50);not null"       json:"name"`
	Description *string `gorm:"type:text"                       json:"description,omitempty"`
	Multiplier  float64 `gorm:"not null;default:1.0"            json:"multiplier"`
	Order       int     `gorm:"column:order;not null;default:0" json:"order"`
}

// TableName 指定表名
func (TalentTier) TableName() string { return "talent_tiers" }

// Origin 出身表 — 对应 origins
type Origin struct {
	ID          uint    `gorm:"primaryKey"                      json:"id"`
	Name        string  `gorm:"type:varchar(100);not null"      json:"name"`
	Description string  `gorm:"type:text;not null"              json:"description"`
	Effects     JSONMap `gorm:"type:jsonb"                      json:"effects,omitempty"`
	IsActive    bool    `gorm:"not null;default:true"           json:"is_active"`
	Order       int     `gorm:"column:order;not null;default:0" json:"order"`
}

// TableName 指定表名
func (Origin) TableName() string { return "origins" }

// SpiritRoot 改造核心表 — 对应 spirit_roots
type SpiritRoot struct {
	ID          uint    `gorm:"primaryKey"                      json:"id"`
	Name        string  `gorm:"type:varchar(100);not null"      json:"name"`
	Description string  `gorm:"type:text;not null"              json:"description"`
	Elements    JSONMap `gorm:"type:jsonb;not null"             json:"elements"`
	IsActive    bool    `gorm:"not null;default:true"           json:"is_active"`
	Order       int     `gorm:"column:order;not null;default:0" json:"order"`
}

// TableName 指定表名
func (SpiritRoot) TableName() string { return "spirit_roots" }

// Talent 天赋表 — 对应 talents
type Talent struct {
	ID          uint    `gorm:"primaryKey"                 json:"id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Description *string `gorm:"type:text"                  json:"description,omitempty"`
	TalentCost  int     `gorm:"not null;default:1"         json:"talent_cost"`
	Rarity      int     `gorm:"not null;default:1"         json:"rarity"`
	TierID      *uint   `json:"tier_id,omitempty"`
	Source      *string `gorm:"type:varchar(50)"           json:"source,omitempty"`
	Effects     JSONMap `gorm:"type:jsonb"                 json:"effects,omitempty"`
	IsActive    bool    `gorm:"not null;default:true"      json:"is_active"`

	Tier *TalentTier `gorm:"foreignKey:TierID" json:"tier,omitempty"`
}

// TableName 指定表名
func (Talent) TableName() string { return "talents" }

// Character 角色表 — 对应 characters
// save_data 为整体替换的存档 JSON，归属单一用户
type Character struct {
	ID       uint    `gorm:"primaryKey"                 json:"id"`
	UserID   uint    `gorm:"not null;index"             json:"user_id"`
	CharName string  `gorm:"type:varchar(100);not null" json:"char_name"`
	WorldID  *uint   `json:"world_id,omitempty"`
	SaveData JSONMap `gorm:"type:jsonb;not null"        json:"save_data"`
	IsActive bool    `gorm:"not null;default:true"      json:"is_active"`
	Timestamps

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Character) TableName() string { return "characters" }
