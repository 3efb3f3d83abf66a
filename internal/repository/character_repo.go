package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
)

// CharacterFilters 管理后台存档列表筛选条件
type CharacterFilters struct {
	UserName string
	CharName string
	IsActive *bool
}

// CharacterRepository 角色/存档数据访问接口
type CharacterRepository interface {
	Create(ctx context.Context, character *model.Character) error
	GetByID(ctx context.Context, id uint) (*model.Character, error)
	// GetByIDAndUser 按归属查询，跨用户访问视同不存在
	GetByIDAndUser(ctx context.Context, id, userID uint) (*model.Character, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Character, error)
	Update(ctx context.Context, character *model.Character) error
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
	List(ctx context.Context, filters *CharacterFilters, skip, limit int) ([]model.Character, int64, error)
}

type characterRepo struct {
	db *gorm.DB
}

// NewCharacterRepo 创建 CharacterRepository 实例
func NewCharacterRepo(db *gorm.DB) CharacterRepository {
	return &characterRepo{db: db}
}

func (r *characterRepo) Create(ctx context.Context, character *model.Character) error {
	return r.db.WithContext(ctx).Create(character).Error
}

func (r *characterRepo) GetByID(ctx context.Context, id uint) (*model.Character, error) {
	var character model.Character
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&character, id).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *characterRepo) GetByIDAndUser(ctx context.Context, id, userID uint) (*model.Character, error) {
	var character model.Character
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&character).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *characterRepo) ListByUser(ctx context.Context, userID uint) ([]model.Character, error) {
	var characters []model.Character
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&characters).Error
	return characters, err
}

func (r *characterRepo) Update(ctx context.Context, character *model.Character) error {
	return r.db.WithContext(ctx).Save(character).Error
}

func (r *characterRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Character{}, id).Error
}

func (r *characterRepo) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Character{}).Error
}

func (r *characterRepo) List(ctx context.Context, filters *CharacterFilters, skip, limit int) ([]model.Character, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Character{})

	if filters != nil {
		if filters.UserName != "" {
			db = db.Joins("JOIN users ON users.id = characters.user_id").
				Where("users.user_name ILIKE ?", "%"+filters.UserName+"%")
		}
		if filters.CharName != "" {
			db = db.Where("characters.char_name ILIKE ?", "%"+filters.CharName+"%")
		}
		if filters.IsActive != nil {
			db = db.Where("characters.is_active = ?", *filters.IsActive)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var characters []model.Character
	if err := db.Preload("User").
		Order("characters.updated_at DESC").
		Offset(skip).Limit(limit).
		Find(&characters).Error; err != nil {
		return nil, 0, err
	}

	return characters, total, nil
}
