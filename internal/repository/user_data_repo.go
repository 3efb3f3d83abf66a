package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
)

// UserDataRepository 用户侧 JSON 数据访问接口
// API 配置 / 本地存档数据 / 提示词配置，均为每用户一行、整体替换
type UserDataRepository interface {
	GetAPIConfig(ctx context.Context, userID uint) (*model.UserAPIConfig, error)
	SaveAPIConfig(ctx context.Context, record *model.UserAPIConfig) error
	DeleteAPIConfig(ctx context.Context, userID uint) error

	GetLocalData(ctx context.Context, userID uint) (*model.UserLocalData, error)
	SaveLocalData(ctx context.Context, record *model.UserLocalData) error
	DeleteLocalData(ctx context.Context, userID uint) error
	ListLocalData(ctx context.Context, userName string, skip, limit int) ([]model.UserLocalData, error)

	GetUserPrompts(ctx context.Context, userID uint) (*model.UserPromptConfig, error)
	SaveUserPrompts(ctx context.Context, record *model.UserPromptConfig) error
	DeleteUserPrompts(ctx context.Context, userID uint) error
	ListUserPrompts(ctx context.Context, userName string, skip, limit int) ([]model.UserPromptConfig, error)

	GetDefaultPrompts(ctx context.Context) (*model.DefaultPromptConfig, error)
	SaveDefaultPrompts(ctx context.Context, record *model.DefaultPromptConfig) error
}

type userDataRepo struct {
	db *gorm.DB
}

// NewUserDataRepo 创建 UserDataRepository 实例
func NewUserDataRepo(db *gorm.DB) UserDataRepository {
	return &userDataRepo{db: db}
}

// ── API 配置 ──

func (r *userDataRepo) GetAPIConfig(ctx context.Context, userID uint) (*model.UserAPIConfig, error) {
	var record model.UserAPIConfig
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *userDataRepo) SaveAPIConfig(ctx context.Context, record *model.UserAPIConfig) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *userDataRepo) DeleteAPIConfig(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.UserAPIConfig{}).Error
}

// ── 本地存档数据 ──

func (r *userDataRepo) GetLocalData(ctx context.Context, userID uint) (*model.UserLocalData, error) {
	var record model.UserLocalData
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *userDataRepo) SaveLocalData(ctx context.Context, record *model.UserLocalData) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *userDataRepo) DeleteLocalData(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.UserLocalData{}).Error
}

func (r *userDataRepo) ListLocalData(ctx context.Context, userName string, skip, limit int) ([]model.UserLocalData, error) {
	db := r.db.WithContext(ctx).Model(&model.UserLocalData{})
	if userName != "" {
		db = db.Joins("JOIN users ON users.id = user_local_data.user_id").
			Where("users.user_name ILIKE ?", "%"+userName+"%")
	}

	var records []model.UserLocalData
	err := db.Preload("User").
		Order("user_local_data.updated_at DESC").
		Offset(skip).Limit(limit).
		Find(&records).Error
	return records, err
}

// ── 用户提示词 ──

func (r *userDataRepo) GetUserPrompts(ctx context.Context, userID uint) (*model.UserPromptConfig, error) {
	var record model.UserPromptConfig
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *userDataRepo) SaveUserPrompts(ctx context.Context, record *model.UserPromptConfig) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *userDataRepo) DeleteUserPrompts(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.UserPromptConfig{}).Error
}

func (r *userDataRepo) ListUserPrompts(ctx context.Context, userName string, skip, limit int) ([]model.UserPromptConfig, error) {
	db := r.db.WithContext(ctx).Model(&model.UserPromptConfig{})
	if userName != "" {
		db = db.Joins("JOIN users ON users.id = user_prompt_configs.user_id").
			Where("users.user_name ILIKE ?", "%"+userName+"%")
	}

	var records []model.UserPromptConfig
	err := db.Preload("User").
		Order("user_prompt_configs.updated_at DESC").
		Offset(skip).Limit(limit).
		Find(&records).Error
	return records, err
}

// ── 默认提示词 ──

func (r *userDataRepo) GetDefaultPrompts(ctx context.Context) (*model.DefaultPromptConfig, error) {
	var record model.DefaultPromptConfig
	err := r.db.WithContext(ctx).
		Order("id").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *userDataRepo) SaveDefaultPrompts(ctx context.Context, record *model.DefaultPromptConfig) error {
	return r.db.WithContext(ctx).Save(record).Error
}
