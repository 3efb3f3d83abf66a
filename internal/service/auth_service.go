package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
	pkgerrors "github.com/BlcaCola/Transcendent-Rebirth/pkg/errors"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/jwt"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/timeutil"
)

// ── 认证业务错误 ──

var (
	ErrUserNameExists     = errors.New("用户名已被注册")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrNotAdmin           = errors.New("该账号没有管理员权限")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrInvalidAmount      = errors.New("扣减数量必须大于0")
	ErrInsufficientPoints = errors.New("穿越点数不足")
)

// 注册相关常量
const (
	// registerTravelPoints 新用户注册赠送的穿越点数
	registerTravelPoints = 100

	// accountIDRetries 随机 9 位账号 ID 碰撞重试上限，超出后账号 ID 置空
	accountIDRetries = 10
)

// AuthService 认证与账号业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	GetProfile(ctx context.Context, userID uint) (*dto.UserProfile, error)
	// ConsumeTravelPoints 原子扣减当前用户穿越点数，返回扣减后余额
	ConsumeTravelPoints(ctx context.Context, userID uint, amount int) (*dto.ConsumeTravelPointsResponse, error)
}

type authService struct {
	repo       *repository.Repository
	invitation InvitationService
	jwt        *jwt.Manager
	logger     *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, invitation InvitationService, jwtManager *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{
		repo:       repo,
		invitation: invitation,
		jwt:        jwtManager,
		logger:     logger,
	}
}

// Register 用户注册
// 流程：唯一性检查 → 邀请码可用性检查 → 建用户（赠送点数 + 随机账号 ID）→ 消耗邀请码
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	userName := strings.TrimSpace(req.UserName)

	if _, err := s.repo.User.GetByUserName(ctx, userName); err == nil {
		return nil, ErrUserNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var email *string
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		e := strings.TrimSpace(*req.Email)
		if _, err := s.repo.User.GetByEmail(ctx, e); err == nil {
			return nil, ErrEmailExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		email = &e
	}

	invitationCode := strings.TrimSpace(req.InvitationCode)
	if invitationCode != "" {
		if err := s.invitation.CheckUsable(ctx, invitationCode); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		AccountID:    s.newAccountID(ctx),
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      false,
		IsActive:     true,
		TravelPoints: registerTravelPoints,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("user_name", userName), zap.Error(err))
		return nil, err
	}

	// 用户已落库，邀请码消耗失败只记日志不回滚
	if invitationCode != "" {
		if err := s.invitation.Consume(ctx, invitationCode); err != nil {
			s.logger.Warn("注册后消耗邀请码失败",
				zap.String("code", invitationCode),
				zap.Uint("user_id", user.ID),
				zap.Error(err))
		}
	}

	return &dto.RegisterResponse{
		UserID:    user.ID,
		AccountID: user.AccountID,
	}, nil
}

// newAccountID 生成随机 9 位账号 ID（100000000-999999999），碰撞重试，
// 重试耗尽时返回 nil，账号后续可由管理员补配
func (s *authService) newAccountID(ctx context.Context) *int64 {
	const span = int64(900000000)
	for i := 0; i < accountIDRetries; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			s.logger.Warn("生成账号ID失败", zap.Error(err))
			return nil
		}
		id := n.Int64() + 100000000

		_, err = s.repo.User.GetByAccountID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &id
		}
		if err != nil {
			s.logger.Warn("检查账号ID冲突失败", zap.Error(err))
			return nil
		}
	}
	s.logger.Warn("账号ID重试耗尽，置空")
	return nil
}

// Login 用户登录
// req.IsAdmin 为 true 时要求账号本身是管理员（管理后台入口）
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUserName(ctx, strings.TrimSpace(req.UserName))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}
	if req.IsAdmin && !user.IsAdmin {
		return nil, ErrNotAdmin
	}

	now := timeutil.Now()
	user.LastLogin = &now
	if err := s.repo.User.Update(ctx, user); err != nil {
		// 登录时间更新失败不阻断登录
		s.logger.Warn("更新最后登录时间失败", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	token, err := s.jwt.Generate(user.ID, user.UserName, user.IsAdmin)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserName:    user.UserName,
		IsAdmin:     user.IsAdmin,
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*dto.UserProfile, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &dto.UserProfile{
		UserID:       user.ID,
		AccountID:    user.AccountID,
		UserName:     user.UserName,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		TravelPoints: user.TravelPoints,
		LastLogin:    formatTimePtr(user.LastLogin),
		CreatedAt:    formatTime(user.CreatedAt),
	}, nil
}

func (s *authService) ConsumeTravelPoints(ctx context.Context, userID uint, amount int) (*dto.ConsumeTravelPointsResponse, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	err := s.repo.User.ConsumeTravelPoints(ctx, userID, amount)
	if err != nil && !errors.Is(err, pkgerrors.ErrConditionFailed) {
		s.logger.Error("扣减穿越点数失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	user, rerr := s.repo.User.GetByID(ctx, userID)
	if rerr != nil {
		if errors.Is(rerr, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, rerr
	}

	if err != nil {
		// 条件更新未命中且用户存在，只剩余额不足一种解释
		return nil, ErrInsufficientPoints
	}

	return &dto.ConsumeTravelPointsResponse{TravelPoints: user.TravelPoints}, nil
}
