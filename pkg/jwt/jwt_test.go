package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/BlcaCola/Transcendent-Rebirth/config"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/timeutil"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  720 * time.Hour,
	})
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager()

	token, err := m.Generate(42, "张三", false)
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("期望 UserID=42，实际=%d", claims.UserID)
	}
	if claims.UserName != "张三" {
		t.Errorf("期望 UserName=张三，实际=%s", claims.UserName)
	}
	if claims.IsAdmin {
		t.Error("期望 IsAdmin=false")
	}
	if claims.Issuer != "transcendent-rebirth" {
		t.Errorf("期望 Issuer=transcendent-rebirth，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestGenerate_AdminClaim(t *testing.T) {
	m := newTestManager()

	token, err := m.Generate(1, "admin", true)
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if !claims.IsAdmin {
		t.Error("期望 IsAdmin=true")
	}
}

func TestGenerate_TTL(t *testing.T) {
	m := newTestManager()

	token, err := m.Generate(1, "user", false)
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}

	// 过期时间约为签发后 30 天
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != 720*time.Hour {
		t.Errorf("期望 TTL=720h，实际=%v", ttl)
	}
}

func TestGenerate_BeijingClock(t *testing.T) {
	m := newTestManager()

	token, err := m.Generate(1, "user", false)
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}

	// 签发时刻应落在当前北京时间附近
	diff := timeutil.Now().Sub(claims.IssuedAt.Time)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("签发时间偏离当前北京时间: %v", diff)
	}
}

func TestParse_InvalidToken(t *testing.T) {
	m := newTestManager()

	_, err := m.Parse("invalid.token.string")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{
		JWTSecret: "a-totally-different-secret-key-here",
		TokenTTL:  720 * time.Hour,
	})

	token, _ := m1.Generate(1, "user", false)
	if _, err := m2.Parse(token); err == nil {
		t.Error("不同密钥签名的 token 不应通过验证")
	}
}

func TestParse_ExpiredToken(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		TokenTTL:  1 * time.Millisecond,
	})

	token, _ := m.Generate(1, "user", false)
	time.Sleep(10 * time.Millisecond)

	_, err := m.Parse(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}
