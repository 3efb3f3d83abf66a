package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
	pkgerrors "github.com/BlcaCola/Transcendent-Rebirth/pkg/errors"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/timeutil"
)

// ── 邀请码业务错误 ──

var (
	ErrInvitationNotFound   = errors.New("邀请码不存在")
	ErrInvitationDisabled   = errors.New("邀请码已禁用")
	ErrInvitationExhausted  = errors.New("邀请码已用尽")
	ErrInvitationExpired    = errors.New("邀请码已过期")
	ErrInvitationCodeEmpty  = errors.New("邀请码不能为空")
	ErrInvitationCodeLength = errors.New("邀请码长度必须在4-32字符之间")
	ErrInvitationCodeExists = errors.New("该邀请码已存在")
	ErrInvalidMaxUses       = errors.New("最大使用次数不合法")
	ErrCodeGenExhausted     = errors.New("生成随机码重试次数耗尽")
)

// InvitationService 邀请码业务接口
type InvitationService interface {
	Create(ctx context.Context, req *dto.CreateInvitationCodeRequest, creatorID uint) (*dto.InvitationCodeResponse, error)
	List(ctx context.Context, skip, limit int) ([]dto.InvitationCodeResponse, int64, error)
	Get(ctx context.Context, id uint) (*dto.InvitationCodeResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateInvitationCodeRequest) (*dto.InvitationCodeResponse, error)
	Delete(ctx context.Context, id uint) error
	// CheckUsable 只读校验邀请码当前可用，不消耗次数
	CheckUsable(ctx context.Context, code string) error
	// Consume 原子消耗一次使用次数；失败时返回具体不可用原因
	Consume(ctx context.Context, code string) error
}

type invitationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInvitationService 创建 InvitationService 实例
func NewInvitationService(repo *repository.Repository, logger *zap.Logger) InvitationService {
	return &invitationService{repo: repo, logger: logger}
}

func (s *invitationService) Create(ctx context.Context, req *dto.CreateInvitationCodeRequest, creatorID uint) (*dto.InvitationCodeResponse, error) {
	maxUses := model.MaxUsesUnlimited
	if req.MaxUses != nil {
		maxUses = *req.MaxUses
	}
	if maxUses == 0 || maxUses < model.MaxUsesUnlimited {
		return nil, ErrInvalidMaxUses
	}

	code, err := s.resolveCode(ctx, req.CustomCode)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if req.DaysValid != nil {
		t := timeutil.Now().AddDate(0, 0, *req.DaysValid)
		expiresAt = &t
	}

	invCode := &model.InvitationCode{
		Code:      code,
		IsActive:  true,
		MaxUses:   maxUses,
		TimesUsed: 0,
		ExpiresAt: expiresAt,
		CreatedBy: creatorID,
		CreatedAt: timeutil.Now(),
	}

	if err := s.repo.InvitationCode.Create(ctx, invCode); err != nil {
		s.logger.Error("创建邀请码失败", zap.Error(err))
		return nil, err
	}

	return toInvitationCodeResponse(invCode), nil
}

// resolveCode 确定邀请码字符串：自定义码校验唯一性，否则随机生成并带重试
func (s *invitationService) resolveCode(ctx context.Context, customCode string) (string, error) {
	if custom := strings.TrimSpace(customCode); custom != "" {
		if len(custom) < 4 || len(custom) > 32 {
			return "", ErrInvitationCodeLength
		}
		if _, err := s.repo.InvitationCode.GetByCode(ctx, custom); err == nil {
			return "", ErrInvitationCodeExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		return custom, nil
	}
	if customCode != "" {
		// 自定义码全是空白
		return "", ErrInvitationCodeEmpty
	}

	for i := 0; i < codeGenMaxRetries; i++ {
		code, err := randomCode(invitationCodeLength)
		if err != nil {
			return "", err
		}
		if _, err := s.repo.InvitationCode.GetByCode(ctx, code); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return code, nil
			}
			return "", err
		}
	}
	return "", ErrCodeGenExhausted
}

func (s *invitationService) List(ctx context.Context, skip, limit int) ([]dto.InvitationCodeResponse, int64, error) {
	codes, total, err := s.repo.InvitationCode.List(ctx, skip, limit)
	if err != nil {
		s.logger.Error("查询邀请码列表失败", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.InvitationCodeResponse, 0, len(codes))
	for i := range codes {
		items = append(items, *toInvitationCodeResponse(&codes[i]))
	}
	return items, total, nil
}

func (s *invitationService) Get(ctx context.Context, id uint) (*dto.InvitationCodeResponse, error) {
	code, err := s.repo.InvitationCode.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return toInvitationCodeResponse(code), nil
}

func (s *invitationService) Update(ctx context.Context, id uint, req *dto.UpdateInvitationCodeRequest) (*dto.InvitationCodeResponse, error) {
	code, err := s.repo.InvitationCode.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	if req.IsActive != nil {
		code.IsActive = *req.IsActive
		if err := s.repo.InvitationCode.Update(ctx, code); err != nil {
			s.logger.Error("更新邀请码失败", zap.Uint("id", id), zap.Error(err))
			return nil, err
		}
	}

	return toInvitationCodeResponse(code), nil
}

func (s *invitationService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.InvitationCode.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}
	return s.repo.InvitationCode.Delete(ctx, id)
}

func (s *invitationService) CheckUsable(ctx context.Context, codeStr string) error {
	code, err := s.repo.InvitationCode.GetByCode(ctx, codeStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}
	return classifyInvitation(code)
}

func (s *invitationService) Consume(ctx context.Context, codeStr string) error {
	err := s.repo.InvitationCode.Consume(ctx, codeStr, timeutil.Now())
	if err == nil {
		return nil
	}
	if !errors.Is(err, pkgerrors.ErrConditionFailed) {
		s.logger.Error("消耗邀请码失败", zap.String("code", codeStr), zap.Error(err))
		return err
	}

	// 条件更新未命中，重读定位原因
	code, err := s.repo.InvitationCode.GetByCode(ctx, codeStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}
	if err := classifyInvitation(code); err != nil {
		return err
	}
	// 重读时条件又成立了，说明刚好与其他请求竞争；按已用尽处理
	return ErrInvitationExhausted
}

// classifyInvitation 给出邀请码当前不可用的原因，nil 表示可用
func classifyInvitation(code *model.InvitationCode) error {
	if !code.IsActive {
		return ErrInvitationDisabled
	}
	if code.Exhausted() {
		return ErrInvitationExhausted
	}
	if code.Expired(timeutil.Now()) {
		return ErrInvitationExpired
	}
	return nil
}

func toInvitationCodeResponse(code *model.InvitationCode) *dto.InvitationCodeResponse {
	return &dto.InvitationCodeResponse{
		ID:        code.ID,
		Code:      code.Code,
		IsActive:  code.IsActive,
		MaxUses:   code.MaxUses,
		TimesUsed: code.TimesUsed,
		ExpiresAt: formatTimePtr(code.ExpiresAt),
		CreatedAt: formatTime(code.CreatedAt),
		CreatedBy: code.CreatedBy,
	}
}
