package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/timeutil"
)

func newTestRedemptionService() (RedemptionService, *repository.Repository) {
	repo := newTestRepository()
	return NewRedemptionService(repo, zap.NewNop()), repo
}

func TestRedemptionCreate_Defaults(t *testing.T) {
	svc, _ := newTestRedemptionService()

	resp, err := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{}, 1)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	if resp.MaxUses != 1 {
		t.Errorf("省略 max_uses 时期望 1，实际=%d", resp.MaxUses)
	}
	if resp.RewardType != "ai" {
		t.Errorf("省略 reward_type 时期望 ai，实际=%s", resp.RewardType)
	}
	if resp.RewardValue != 1 {
		t.Errorf("省略 reward_value 时期望 1，实际=%d", resp.RewardValue)
	}
	if len(resp.Code) != 12 {
		t.Errorf("随机兑换码长度期望 12，实际=%d", len(resp.Code))
	}
}

func TestRedemptionCreate_InvalidInput(t *testing.T) {
	svc, _ := newTestRedemptionService()

	if _, err := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		MaxUses: intPtr(0),
	}, 1); !errors.Is(err, ErrInvalidMaxUses) {
		t.Errorf("max_uses=0 期望 ErrInvalidMaxUses，实际: %v", err)
	}

	if _, err := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		RewardValue: -5,
	}, 1); !errors.Is(err, ErrInvalidRewardValue) {
		t.Errorf("reward_value=-5 期望 ErrInvalidRewardValue，实际: %v", err)
	}

	if _, err := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		CustomCode: "abc",
	}, 1); !errors.Is(err, ErrRedemptionCodeLength) {
		t.Errorf("3 字符自定义码期望 ErrRedemptionCodeLength，实际: %v", err)
	}
}

func TestRedemptionCreate_CustomCodeDuplicate(t *testing.T) {
	svc, _ := newTestRedemptionService()

	if _, err := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		CustomCode: "ABCD1234",
		MaxUses:    intPtr(1),
	}, 1); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	if _, err := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		CustomCode: "ABCD1234",
	}, 1); !errors.Is(err, ErrRedemptionCodeExists) {
		t.Errorf("期望 ErrRedemptionCodeExists，实际: %v", err)
	}
}

func TestRedemptionValidate_DoesNotConsume(t *testing.T) {
	svc, repo := newTestRedemptionService()

	resp, _ := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		CustomCode: "ABCD1234",
		MaxUses:    intPtr(1),
	}, 1)

	view, err := svc.Validate(context.Background(), "ABCD1234")
	if err != nil {
		t.Fatalf("Validate 失败: %v", err)
	}
	if view.TimesUsed != 0 || view.MaxUses != 1 {
		t.Errorf("期望 times_used=0 max_uses=1，实际 %d/%d", view.TimesUsed, view.MaxUses)
	}

	code, _ := repo.RedemptionCode.GetByCode(context.Background(), resp.Code)
	if code.TimesUsed != 0 {
		t.Errorf("只读校验不应消耗次数，实际 times_used=%d", code.TimesUsed)
	}
}

func TestRedemptionConsume_ExactlyOnce(t *testing.T) {
	svc, _ := newTestRedemptionService()

	_, err := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		CustomCode: "ABCD1234",
		MaxUses:    intPtr(1),
	}, 1)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	if err := svc.Consume(context.Background(), "ABCD1234"); err != nil {
		t.Fatalf("首次 Consume 失败: %v", err)
	}
	if err := svc.Consume(context.Background(), "ABCD1234"); !errors.Is(err, ErrRedemptionExhausted) {
		t.Errorf("期望 ErrRedemptionExhausted，实际: %v", err)
	}

	// 用尽后只读校验同样报已用尽
	if _, err := svc.Validate(context.Background(), "ABCD1234"); !errors.Is(err, ErrRedemptionExhausted) {
		t.Errorf("Validate 期望 ErrRedemptionExhausted，实际: %v", err)
	}
}

// 并发兑换 max_uses=1 的兑换码，只能有一个请求成功
func TestRedemptionConsume_Concurrent(t *testing.T) {
	svc, repo := newTestRedemptionService()

	resp, _ := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		MaxUses: intPtr(1),
	}, 1)

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Consume(context.Background(), resp.Code); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("max_uses=1 并发兑换期望恰好 1 个成功，实际=%d", succeeded)
	}

	code, _ := repo.RedemptionCode.GetByCode(context.Background(), resp.Code)
	if code.TimesUsed != 1 {
		t.Errorf("期望 times_used=1，实际=%d", code.TimesUsed)
	}
}

func TestRedemptionConsume_Unlimited(t *testing.T) {
	svc, repo := newTestRedemptionService()

	resp, _ := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		MaxUses: intPtr(model.MaxUsesUnlimited),
	}, 1)

	for i := 0; i < 10; i++ {
		if err := svc.Consume(context.Background(), resp.Code); err != nil {
			t.Fatalf("第 %d 次 Consume 失败: %v", i+1, err)
		}
	}

	code, _ := repo.RedemptionCode.GetByCode(context.Background(), resp.Code)
	if code.TimesUsed != 10 {
		t.Errorf("期望 times_used=10，实际=%d", code.TimesUsed)
	}
}

func TestRedemptionConsume_Expired(t *testing.T) {
	svc, repo := newTestRedemptionService()

	expired := timeutil.Now().Add(-time.Hour)
	code := &model.RedemptionCode{
		Code:        "expiredreward",
		RewardType:  "ai",
		RewardValue: 1,
		MaxUses:     1,
		ExpiresAt:   &expired,
		CreatedAt:   timeutil.Now(),
	}
	if err := repo.RedemptionCode.Create(context.Background(), code); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	if err := svc.Consume(context.Background(), "expiredreward"); !errors.Is(err, ErrRedemptionExpired) {
		t.Errorf("期望 ErrRedemptionExpired，实际: %v", err)
	}
}

func TestRedemptionUpdate_ExpiresAtInPast(t *testing.T) {
	svc, _ := newTestRedemptionService()

	resp, _ := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{
		MaxUses: intPtr(5),
	}, 1)

	// 允许把过期时间改到过去，等价于立即作废
	past := timeutil.Now().Add(-time.Minute).Format(time.RFC3339)
	if _, err := svc.Update(context.Background(), resp.ID, &dto.UpdateRedemptionCodeRequest{
		ExpiresAt: &past,
	}); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	if err := svc.Consume(context.Background(), resp.Code); !errors.Is(err, ErrRedemptionExpired) {
		t.Errorf("期望 ErrRedemptionExpired，实际: %v", err)
	}
}

func TestRedemptionUpdate_InvalidExpiresAt(t *testing.T) {
	svc, _ := newTestRedemptionService()

	resp, _ := svc.Create(context.Background(), &dto.CreateRedemptionCodeRequest{}, 1)

	bad := "not-a-timestamp"
	if _, err := svc.Update(context.Background(), resp.ID, &dto.UpdateRedemptionCodeRequest{
		ExpiresAt: &bad,
	}); !errors.Is(err, ErrInvalidExpiresAt) {
		t.Errorf("期望 ErrInvalidExpiresAt，实际: %v", err)
	}
}
