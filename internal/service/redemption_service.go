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

// ── 兑换码业务错误 ──

var (
	ErrRedemptionNotFound   = errors.New("兑换码不存在")
	ErrRedemptionExhausted  = errors.New("兑换码已用尽")
	ErrRedemptionExpired    = errors.New("兑换码已过期")
	ErrRedemptionCodeEmpty  = errors.New("兑换码不能为空")
	ErrRedemptionCodeLength = errors.New("兑换码长度必须在4-50字符之间")
	ErrRedemptionCodeExists = errors.New("该兑换码已存在")
	ErrInvalidRewardValue   = errors.New("奖励数值必须大于0")
	ErrInvalidExpiresAt     = errors.New("过期时间格式不合法")
)

// defaultRewardType 未指定奖励类型时默认发放 AI 生成额度
const defaultRewardType = "ai"

// RedemptionService 兑换码业务接口
type RedemptionService interface {
	Create(ctx context.Context, req *dto.CreateRedemptionCodeRequest, creatorID uint) (*dto.RedemptionCodeResponse, error)
	List(ctx context.Context, skip, limit int) ([]dto.RedemptionCodeResponse, int64, error)
	Get(ctx context.Context, id uint) (*dto.RedemptionCodeResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateRedemptionCodeRequest) (*dto.RedemptionCodeResponse, error)
	Delete(ctx context.Context, id uint) error
	// Validate 只读校验兑换码当前可用，不消耗次数
	Validate(ctx context.Context, code string) (*dto.RedemptionCodeView, error)
	// Consume 原子消耗一次使用次数；失败时返回具体不可用原因
	Consume(ctx context.Context, code string) error
}

type redemptionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRedemptionService 创建 RedemptionService 实例
func NewRedemptionService(repo *repository.Repository, logger *zap.Logger) RedemptionService {
	return &redemptionService{repo: repo, logger: logger}
}

func (s *redemptionService) Create(ctx context.Context, req *dto.CreateRedemptionCodeRequest, creatorID uint) (*dto.RedemptionCodeResponse, error) {
	maxUses := 1
	if req.MaxUses != nil {
		maxUses = *req.MaxUses
	}
	if maxUses == 0 || maxUses < model.MaxUsesUnlimited {
		return nil, ErrInvalidMaxUses
	}

	rewardType := strings.TrimSpace(req.RewardType)
	if rewardType == "" {
		rewardType = defaultRewardType
	}
	rewardValue := req.RewardValue
	if rewardValue == 0 {
		rewardValue = 1
	}
	if rewardValue <= 0 {
		return nil, ErrInvalidRewardValue
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

	item := &model.RedemptionCode{
		Code:        code,
		RewardType:  rewardType,
		RewardValue: rewardValue,
		MaxUses:     maxUses,
		TimesUsed:   0,
		ExpiresAt:   expiresAt,
		CreatedBy:   &creatorID,
		CreatedAt:   timeutil.Now(),
	}

	if err := s.repo.RedemptionCode.Create(ctx, item); err != nil {
		s.logger.Error("创建兑换码失败", zap.Error(err))
		return nil, err
	}

	return toRedemptionCodeResponse(item), nil
}

// resolveCode 确定兑换码字符串：自定义码校验唯一性，否则随机生成并带重试
func (s *redemptionService) resolveCode(ctx context.Context, customCode string) (string, error) {
	if custom := strings.TrimSpace(customCode); custom != "" {
		if len(custom) < 4 || len(custom) > 50 {
			return "", ErrRedemptionCodeLength
		}
		if _, err := s.repo.RedemptionCode.GetByCode(ctx, custom); err == nil {
			return "", ErrRedemptionCodeExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		return custom, nil
	}
	if customCode != "" {
		return "", ErrRedemptionCodeEmpty
	}

	for i := 0; i < codeGenMaxRetries; i++ {
		code, err := randomCode(redemptionCodeLength)
		if err != nil {
			return "", err
		}
		if _, err := s.repo.RedemptionCode.GetByCode(ctx, code); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return code, nil
			}
			return "", err
		}
	}
	return "", ErrCodeGenExhausted
}

func (s *redemptionService) List(ctx context.Context, skip, limit int) ([]dto.RedemptionCodeResponse, int64, error) {
	codes, total, err := s.repo.RedemptionCode.List(ctx, skip, limit)
	if err != nil {
		s.logger.Error("查询兑换码列表失败", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.RedemptionCodeResponse, 0, len(codes))
	for i := range codes {
		items = append(items, *toRedemptionCodeResponse(&codes[i]))
	}
	return items, total, nil
}

func (s *redemptionService) Get(ctx context.Context, id uint) (*dto.RedemptionCodeResponse, error) {
	code, err := s.repo.RedemptionCode.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, err
	}
	return toRedemptionCodeResponse(code), nil
}

func (s *redemptionService) Update(ctx context.Context, id uint, req *dto.UpdateRedemptionCodeRequest) (*dto.RedemptionCodeResponse, error) {
	code, err := s.repo.RedemptionCode.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, err
	}

	if req.MaxUses != nil {
		if *req.MaxUses == 0 || *req.MaxUses < model.MaxUsesUnlimited {
			return nil, ErrInvalidMaxUses
		}
		code.MaxUses = *req.MaxUses
	}

	if req.ExpiresAt != nil {
		// 允许设置为过去的时间，效果等同创建后立即过期
		t, err := time.ParseInLocation(time.RFC3339, *req.ExpiresAt, timeutil.BeijingTZ)
		if err != nil {
			return nil, ErrInvalidExpiresAt
		}
		code.ExpiresAt = &t
	}

	if err := s.repo.RedemptionCode.Update(ctx, code); err != nil {
		s.logger.Error("更新兑换码失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	return toRedemptionCodeResponse(code), nil
}

func (s *redemptionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.RedemptionCode.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRedemptionNotFound
		}
		return err
	}
	return s.repo.RedemptionCode.Delete(ctx, id)
}

func (s *redemptionService) Validate(ctx context.Context, codeStr string) (*dto.RedemptionCodeView, error) {
	codeStr = strings.TrimSpace(codeStr)
	if codeStr == "" {
		return nil, ErrRedemptionCodeEmpty
	}

	code, err := s.repo.RedemptionCode.GetByCode(ctx, codeStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, err
	}
	if err := classifyRedemption(code); err != nil {
		return nil, err
	}

	return &dto.RedemptionCodeView{
		ID:        code.ID,
		Code:      code.Code,
		TimesUsed: code.TimesUsed,
		MaxUses:   code.MaxUses,
		ExpiresAt: formatTimePtr(code.ExpiresAt),
	}, nil
}

func (s *redemptionService) Consume(ctx context.Context, codeStr string) error {
	codeStr = strings.TrimSpace(codeStr)
	if codeStr == "" {
		return ErrRedemptionCodeEmpty
	}

	err := s.repo.RedemptionCode.Consume(ctx, codeStr, timeutil.Now())
	if err == nil {
		return nil
	}
	if !errors.Is(err, pkgerrors.ErrConditionFailed) {
		s.logger.Error("消耗兑换码失败", zap.String("code", codeStr), zap.Error(err))
		return err
	}

	code, err := s.repo.RedemptionCode.GetByCode(ctx, codeStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRedemptionNotFound
		}
		return err
	}
	if err := classifyRedemption(code); err != nil {
		return err
	}
	return ErrRedemptionExhausted
}

// classifyRedemption 给出兑换码当前不可用的原因，nil 表示可用
func classifyRedemption(code *model.RedemptionCode) error {
	if code.Expired(timeutil.Now()) {
		return ErrRedemptionExpired
	}
	if code.Exhausted() {
		return ErrRedemptionExhausted
	}
	return nil
}

func toRedemptionCodeResponse(code *model.RedemptionCode) *dto.RedemptionCodeResponse {
	return &dto.RedemptionCodeResponse{
		ID:          code.ID,
		Code:        code.Code,
		RewardType:  code.RewardType,
		RewardValue: code.RewardValue,
		MaxUses:     code.MaxUses,
		TimesUsed:   code.TimesUsed,
		ExpiresAt:   formatTimePtr(code.ExpiresAt),
		CreatedAt:   formatTime(code.CreatedAt),
	}
}
