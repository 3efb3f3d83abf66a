package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	pkgerrors "github.com/BlcaCola/Transcendent-Rebirth/pkg/errors"
)

// InvitationCodeRepository 邀请码数据访问接口
type InvitationCodeRepository interface {
	Create(ctx context.Context, code *model.InvitationCode) error
	GetByID(ctx context.Context, id uint) (*model.InvitationCode, error)
	GetByCode(ctx context.Context, code string) (*model.InvitationCode, error)
	List(ctx context.Context, skip, limit int) ([]model.InvitationCode, int64, error)
	Update(ctx context.Context, code *model.InvitationCode) error
	Delete(ctx context.Context, id uint) error
	// Consume 原子消耗一次使用次数
	// 单条条件 UPDATE 完成"校验+自增"，并发下不会超过 max_uses；
	// 未命中任何行返回 pkgerrors.ErrConditionFailed，调用方重读分类原因
	Consume(ctx context.Context, code string, now time.Time) error
}

type invitationCodeRepo struct {
	db *gorm.DB
}

// NewInvitationCodeRepo 创建 InvitationCodeRepository 实例
func NewInvitationCodeRepo(db *gorm.DB) InvitationCodeRepository {
	return &invitationCodeRepo{db: db}
}

func (r *invitationCodeRepo) Create(ctx context.Context, code *model.InvitationCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *invitationCodeRepo) GetByID(ctx context.Context, id uint) (*model.InvitationCode, error) {
	var code model.InvitationCode
	err := r.db.WithContext(ctx).First(&code, id).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *invitationCodeRepo) GetByCode(ctx context.Context, codeStr string) (*model.InvitationCode, error) {
	var code model.InvitationCode
	err := r.db.WithContext(ctx).
		Where("code = ?", codeStr).
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *invitationCodeRepo) List(ctx context.Context, skip, limit int) ([]model.InvitationCode, int64, error) {
	var codes []model.InvitationCode
	var total int64

	db := r.db.WithContext(ctx).Model(&model.InvitationCode{})
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

func (r *invitationCodeRepo) Update(ctx context.Context, code *model.InvitationCode) error {
	return r.db.WithContext(ctx).Save(code).Error
}

func (r *invitationCodeRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.InvitationCode{}, id).Error
}

func (r *invitationCodeRepo) Consume(ctx context.Context, codeStr string, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.InvitationCode{}).
		Where("code = ? AND is_active = TRUE", codeStr).
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
