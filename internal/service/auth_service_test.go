package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/config"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/jwt"
)

func newTestAuthService() (AuthService, InvitationService, *repository.Repository) {
	repo := newTestRepository()
	logger := zap.NewNop()
	invitation := NewInvitationService(repo, logger)
	jwtManager := jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  720 * time.Hour,
	})
	return NewAuthService(repo, invitation, jwtManager, logger), invitation, repo
}

func TestRegister_HappyPath(t *testing.T) {
	svc, _, repo := newTestAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "道友一号",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register 失败: %v", err)
	}

	user, err := repo.User.GetByID(context.Background(), resp.UserID)
	if err != nil {
		t.Fatalf("读取新用户失败: %v", err)
	}

	if user.TravelPoints != 100 {
		t.Errorf("新用户期望 100 穿越点数，实际=%d", user.TravelPoints)
	}
	if user.IsAdmin {
		t.Error("新用户不应是管理员")
	}
	if !user.IsActive {
		t.Error("新用户应为启用状态")
	}
	if user.PasswordHash == "secret123" {
		t.Error("密码不应明文存储")
	}
	if user.AccountID != nil {
		if *user.AccountID < 100000000 || *user.AccountID > 999999999 {
			t.Errorf("账号 ID 应为 9 位数字，实际=%d", *user.AccountID)
		}
	}
}

func TestRegister_DuplicateUserName(t *testing.T) {
	svc, _, _ := newTestAuthService()

	req := &dto.RegisterRequest{UserName: "道友一号", Password: "secret123"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrUserNameExists) {
		t.Errorf("期望 ErrUserNameExists，实际: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	email := "a@example.com"
	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "用户A", Password: "secret123", Email: &email,
	}); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "用户B", Password: "secret123", Email: &email,
	}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestRegister_WithInvitationCode(t *testing.T) {
	svc, invitation, repo := newTestAuthService()

	code, err := invitation.Create(context.Background(), &dto.CreateInvitationCodeRequest{
		MaxUses: intPtr(1),
	}, 1)
	if err != nil {
		t.Fatalf("创建邀请码失败: %v", err)
	}

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName:       "受邀用户",
		Password:       "secret123",
		InvitationCode: code.Code,
	}); err != nil {
		t.Fatalf("Register 失败: %v", err)
	}

	stored, _ := repo.InvitationCode.GetByCode(context.Background(), code.Code)
	if stored.TimesUsed != 1 {
		t.Errorf("注册成功后邀请码 times_used 应为 1，实际=%d", stored.TimesUsed)
	}
}

func TestRegister_InvalidInvitationCode(t *testing.T) {
	svc, _, repo := newTestAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName:       "受邀用户",
		Password:       "secret123",
		InvitationCode: "no-such-code",
	})
	if !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("期望 ErrInvitationNotFound，实际: %v", err)
	}

	// 邀请码无效时不应创建用户
	if _, err := repo.User.GetByUserName(context.Background(), "受邀用户"); err == nil {
		t.Error("邀请码无效时不应创建用户")
	}
}

func TestLogin_HappyPath(t *testing.T) {
	svc, _, repo := newTestAuthService()

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "道友一号", Password: "secret123",
	}); err != nil {
		t.Fatalf("Register 失败: %v", err)
	}

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		UserName: "道友一号", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}

	if resp.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("期望 token_type=bearer，实际=%s", resp.TokenType)
	}
	if resp.IsAdmin {
		t.Error("普通用户 IsAdmin 应为 false")
	}

	user, _ := repo.User.GetByUserName(context.Background(), "道友一号")
	if user.LastLogin == nil {
		t.Error("登录后 last_login 应被更新")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "道友一号", Password: "secret123",
	})

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		UserName: "道友一号", Password: "wrong-password",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService()

	// 不存在的用户与密码错误返回同一个错误，不泄露账号是否存在
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		UserName: "不存在", Password: "whatever",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_DisabledUser(t *testing.T) {
	svc, _, repo := newTestAuthService()

	resp, _ := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "道友一号", Password: "secret123",
	})

	user, _ := repo.User.GetByID(context.Background(), resp.UserID)
	user.IsActive = false
	repo.User.Update(context.Background(), user)

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		UserName: "道友一号", Password: "secret123",
	}); !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

func TestLogin_AdminEntryRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestAuthService()

	svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "道友一号", Password: "secret123",
	})

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		UserName: "道友一号", Password: "secret123", IsAdmin: true,
	}); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("期望 ErrNotAdmin，实际: %v", err)
	}
}

func TestConsumeTravelPoints(t *testing.T) {
	svc, _, _ := newTestAuthService()

	resp, _ := svc.Register(context.Background(), &dto.RegisterRequest{
		UserName: "道友一号", Password: "secret123",
	})

	// 注册赠送 100 点
	result, err := svc.ConsumeTravelPoints(context.Background(), resp.UserID, 30)
	if err != nil {
		t.Fatalf("ConsumeTravelPoints 失败: %v", err)
	}
	if result.TravelPoints != 70 {
		t.Errorf("期望余额 70，实际=%d", result.TravelPoints)
	}

	// 余额不足
	if _, err := svc.ConsumeTravelPoints(context.Background(), resp.UserID, 1000); !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("期望 ErrInsufficientPoints，实际: %v", err)
	}

	// 非法数量
	for _, amount := range []int{0, -10} {
		if _, err := svc.ConsumeTravelPoints(context.Background(), resp.UserID, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount=%d 期望 ErrInvalidAmount，实际: %v", amount, err)
		}
	}
}

func TestConsumeTravelPoints_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.ConsumeTravelPoints(context.Background(), 9999, 10); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
