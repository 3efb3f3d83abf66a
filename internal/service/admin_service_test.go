package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/config"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
)

func newTestAdminService() (AdminService, *repository.Repository) {
	repo := newTestRepository()
	cfg := &config.Config{
		Admin: config.AdminConfig{UserName: "admin", Password: "admin-pass"},
	}
	return NewAdminService(repo, cfg, zap.NewNop()), repo
}

func seedUser(t *testing.T, repo *repository.Repository, name string) *model.User {
	t.Helper()
	user := &model.User{
		UserName:     name,
		PasswordHash: "hashed",
		IsActive:     true,
		TravelPoints: 100,
	}
	if err := repo.User.Create(context.Background(), user); err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

func TestAdminSetTravelPoints(t *testing.T) {
	svc, repo := newTestAdminService()
	user := seedUser(t, repo, "道友一号")

	item, err := svc.SetTravelPoints(context.Background(), user.ID, 500)
	if err != nil {
		t.Fatalf("SetTravelPoints 失败: %v", err)
	}
	if item.TravelPoints != 500 {
		t.Errorf("期望 500，实际=%d", item.TravelPoints)
	}

	if _, err := svc.SetTravelPoints(context.Background(), user.ID, -1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("负数点数期望 ErrInvalidAmount，实际: %v", err)
	}
}

func TestAdminUpdateUser_UniquenessChecks(t *testing.T) {
	svc, repo := newTestAdminService()
	userA := seedUser(t, repo, "用户A")
	seedUser(t, repo, "用户B")

	// 改成已占用的用户名
	if _, err := svc.UpdateUser(context.Background(), userA.ID, &dto.AdminUpdateUserRequest{
		UserName: "用户B",
	}); !errors.Is(err, ErrUserNameExists) {
		t.Errorf("期望 ErrUserNameExists，实际: %v", err)
	}

	// 保持自己的用户名不算冲突
	if _, err := svc.UpdateUser(context.Background(), userA.ID, &dto.AdminUpdateUserRequest{
		UserName: "用户A",
	}); err != nil {
		t.Errorf("保持原用户名不应报错: %v", err)
	}
}

func TestAdminDeleteUser_CascadesData(t *testing.T) {
	svc, repo := newTestAdminService()
	user := seedUser(t, repo, "道友一号")

	repo.Character.Create(context.Background(), &model.Character{
		UserID: user.ID, CharName: "李青山", SaveData: model.JSONMap{}, IsActive: true,
	})
	repo.UserData.SaveLocalData(context.Background(), &model.UserLocalData{
		UserID: user.ID, CharactersJSON: model.JSONMap{}, SavesJSON: model.JSONMap{},
	})
	repo.UserData.SaveUserPrompts(context.Background(), &model.UserPromptConfig{
		UserID: user.ID, PromptsJSON: model.JSONMap{},
	})

	if err := svc.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser 失败: %v", err)
	}

	if _, err := repo.User.GetByID(context.Background(), user.ID); err == nil {
		t.Error("用户应已删除")
	}
	if chars, _ := repo.Character.ListByUser(context.Background(), user.ID); len(chars) != 0 {
		t.Error("关联角色应已删除")
	}
	if _, err := repo.UserData.GetLocalData(context.Background(), user.ID); err == nil {
		t.Error("关联本地存档数据应已删除")
	}
	if _, err := repo.UserData.GetUserPrompts(context.Background(), user.ID); err == nil {
		t.Error("关联提示词应已删除")
	}
}

func TestAdminDeleteUser_SeedAdminProtected(t *testing.T) {
	svc, repo := newTestAdminService()
	admin := seedUser(t, repo, "admin")

	if err := svc.DeleteUser(context.Background(), admin.ID); !errors.Is(err, ErrCannotDeleteSeedAdmin) {
		t.Errorf("期望 ErrCannotDeleteSeedAdmin，实际: %v", err)
	}
}

func TestAdminExportUsers(t *testing.T) {
	svc, repo := newTestAdminService()
	seedUser(t, repo, "用户A")
	seedUser(t, repo, "用户B")

	buf, err := svc.ExportUsers(context.Background())
	if err != nil {
		t.Fatalf("ExportUsers 失败: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("导出内容不应为空")
	}
	// xlsx 本质是 zip，前两个字节为 PK
	head := buf.Bytes()[:2]
	if head[0] != 'P' || head[1] != 'K' {
		t.Errorf("导出内容应为 xlsx(zip) 格式，文件头=%v", head)
	}
}

func TestAdminSaves(t *testing.T) {
	svc, repo := newTestAdminService()
	user := seedUser(t, repo, "道友一号")

	char := &model.Character{
		UserID: user.ID, CharName: "李青山",
		SaveData: model.JSONMap{"realm": "炼气"}, IsActive: true,
	}
	repo.Character.Create(context.Background(), char)

	detail, err := svc.GetSave(context.Background(), char.ID)
	if err != nil {
		t.Fatalf("GetSave 失败: %v", err)
	}
	if detail.SaveData["realm"] != "炼气" {
		t.Errorf("存档内容不符: %v", detail.SaveData)
	}

	if err := svc.SetSaveActive(context.Background(), char.ID, false); err != nil {
		t.Fatalf("SetSaveActive 失败: %v", err)
	}
	stored, _ := repo.Character.GetByID(context.Background(), char.ID)
	if stored.IsActive {
		t.Error("存档应已停用")
	}

	if err := svc.DeleteSave(context.Background(), char.ID); err != nil {
		t.Fatalf("DeleteSave 失败: %v", err)
	}
	if _, err := svc.GetSave(context.Background(), char.ID); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("删除后期望 ErrSaveNotFound，实际: %v", err)
	}
}

func TestAdminDefaultPrompts(t *testing.T) {
	svc, _ := newTestAdminService()

	// 未配置时返回空对象
	resp, err := svc.GetDefaultPrompts(context.Background())
	if err != nil {
		t.Fatalf("GetDefaultPrompts 失败: %v", err)
	}
	if len(resp.Prompts) != 0 {
		t.Errorf("期望空提示词，实际=%v", resp.Prompts)
	}

	if err := svc.SaveDefaultPrompts(context.Background(), &dto.PromptsPayload{
		Prompts: map[string]interface{}{"system": "默认"},
	}); err != nil {
		t.Fatalf("SaveDefaultPrompts 失败: %v", err)
	}

	resp, _ = svc.GetDefaultPrompts(context.Background())
	if resp.Prompts["system"] != "默认" {
		t.Errorf("期望 system=默认，实际=%v", resp.Prompts)
	}
}
