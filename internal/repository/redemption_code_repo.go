package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	pkgerrors "github.com/BlcaCola/Transcendent-Rebirth/pkg/errors"
)

// RedemptionCodeRepository 兑换码数据访问接口
type RedemptionCodeRepository interface {
	Create(ctx context.Context, code *model.RedemptionCode) error
	GetByID(ctx context.Context, id uint) (*model.RedemptionCode, error)
	GetByCode(ctx context.Context, code string) (*model.RedemptionCode, error)
	List(ctx context.Context, skip, limit int) ([]model.RedemptionCode, int64, error)
	Update(ctx context.Context, code *model.RedemptionCode) error
	Delete(ctx context.Context, id uint) error
	// Consume 原子消耗一次使用次数，语义同邀请码（无 is_active 条件）
	Consume(ctx context.Context, code string, now time.Time) error
}

type redemptionCodeRepo struct {
	db *gorm.DB
}

// NewRedemptionCodeRepo 创建 RedemptionCodeRepository 实例
func NewRedemptionCodeRepo(db *gorm.DB) RedemptionCodeRepository {
	return &redemptionCodeRepo{db: db}
}

func (r *redemptionCodeRepo) Create(ctx context.Context, code *model.RedemptionCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *redemptionCodeRepo) GetByID(ctx context.Context, id uint) (*model.RedemptionCode, error) {
	var code model.RedemptionCode
	err := r.db.WithContext(ctx).First(&code, id).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *redemptionCodeRepo) GetByCode(ctx context.Context, codeStr string) (*model.RedemptionCode, error) {
	var code model.RedemptionCode
	err := r.db.WithContext(ctx).
		Where("code = ?", codeStr).
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *redemptionCodeRepo) List(ctx context.Context, skip, limit int) ([]model.RedemptionCode, int64, error) {
	var codes []model.RedemptionCode
	var total int64

	db := r.db.WithContext(ctx).Model(&model.RedemptionCode{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&codes).Error; err != nil {
		return nil, 0, err
	}

	return codes, total, nil
}

func (r *redemptionCodeRepo) Update(ctx context.Context, code *model.RedemptionCode) error {
	return r.db.WithContext(ctx).Save(code).Error
}

func (r *redemptionCodeRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.RedemptionCode{}, id).Error
}

func (r *redemptionCodeRepo) Consume(ctx context.Context, codeStr string, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.RedemptionCode{}).
		Where("code = ?", codeStr).
		Where("max_uses = ? OR times_used < max_uses", model.MaxUsesUnlimited).
		Where("expires_at IS NULL OR expires_at > ?", now).
		UpdateColumn("times_used", gorm.Expr("times_used + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrConditionFailed
	}
	return nil
}
