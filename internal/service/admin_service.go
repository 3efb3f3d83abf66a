package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/config"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
)

// ── 管理后台业务错误 ──

var (
	ErrAccountIDExists       = errors.New("账号ID已被占用")
	ErrCannotDeleteSeedAdmin = errors.New("不能删除初始管理员账号")
	ErrSaveNotFound          = errors.New("存档不存在")
	ErrLocalDataNotFound     = errors.New("该用户没有本地存档数据")
	ErrPromptsNotFound       = errors.New("该用户没有自定义提示词")
)

// AdminService 管理后台业务接口
type AdminService interface {
	// 用户管理
	ListUsers(ctx context.Context) ([]dto.AdminUserItem, error)
	GetUser(ctx context.Context, id uint) (*dto.AdminUserItem, error)
	UpdateUser(ctx context.Context, id uint, req *dto.AdminUpdateUserRequest) (*dto.AdminUserItem, error)
	SetTravelPoints(ctx context.Context, id uint, points int) (*dto.AdminUserItem, error)
	SetUserActive(ctx context.Context, id uint, isActive bool) error
	// DeleteUser 删除用户及其全部关联数据（角色、API 配置、本地存档、提示词）
	DeleteUser(ctx context.Context, id uint) error
	// ExportUsers 导出全部用户为 xlsx
	ExportUsers(ctx context.Context) (*bytes.Buffer, error)

	// 存档管理
	ListSaves(ctx context.Context, req *dto.AdminListSavesRequest) ([]dto.AdminSaveItem, int64, error)
	GetSave(ctx context.Context, id uint) (*dto.AdminSaveDetail, error)
	// ReplaceSave 整体替换存档内容
	ReplaceSave(ctx context.Context, id uint, saveData map[string]interface{}) error
	SetSaveActive(ctx context.Context, id uint, isActive bool) error
	DeleteSave(ctx context.Context, id uint) error

	// 本地存档数据管理
	ListLocalData(ctx context.Context, req *dto.AdminListUserDataRequest) ([]dto.AdminUserDataItem, error)
	GetLocalData(ctx context.Context, userID uint) (*dto.AdminLocalDataDetail, error)
	ReplaceLocalData(ctx context.Context, userID uint, req *dto.UserLocalDataPayload) error
	DeleteLocalData(ctx context.Context, userID uint) error

	// 提示词管理
	ListUserPrompts(ctx context.Context, req *dto.AdminListUserDataRequest) ([]dto.AdminUserDataItem, error)
	GetUserPrompts(ctx context.Context, userID uint) (*dto.AdminUserPromptsDetail, error)
	ReplaceUserPrompts(ctx context.Context, userID uint, req *dto.PromptsPayload) error
	DeleteUserPrompts(ctx context.Context, userID uint) error
	GetDefaultPrompts(ctx context.Context) (*dto.PromptsResponse, error)
	SaveDefaultPrompts(ctx context.Context, req *dto.PromptsPayload) error
}

type adminService struct {
	repo   *repository.Repository
	cfg    *config.Config
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, cfg *config.Config, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, cfg: cfg, logger: logger}
}

// ── 用户管理 ──

func (s *adminService) ListUsers(ctx context.Context) ([]dto.AdminUserItem, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AdminUserItem, 0, len(users))
	for i := range users {
		items = append(items, toAdminUserItem(&users[i]))
	}
	return items, nil
}

func (s *adminService) GetUser(ctx context.Context, id uint) (*dto.AdminUserItem, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	item := toAdminUserItem(user)
	return &item, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uint, req *dto.AdminUpdateUserRequest) (*dto.AdminUserItem, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	newName := strings.TrimSpace(req.UserName)
	if newName != user.UserName {
		if other, err := s.repo.User.GetByUserName(ctx, newName); err == nil && other.ID != id {
			return nil, ErrUserNameExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.UserName = newName
	}

	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		e := strings.TrimSpace(*req.Email)
		if user.Email == nil || *user.Email != e {
			if other, err := s.repo.User.GetByEmail(ctx, e); err == nil && other.ID != id {
				return nil, ErrEmailExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = &e
		}
	} else {
		user.Email = nil
	}

	if req.AccountID != nil {
		if user.AccountID == nil || *user.AccountID != *req.AccountID {
			if other, err := s.repo.User.GetByAccountID(ctx, *req.AccountID); err == nil && other.ID != id {
				return nil, ErrAccountIDExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.AccountID = req.AccountID
		}
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	user.IsAdmin = req.IsAdmin
	if req.TravelPoints != nil && *req.TravelPoints >= 0 {
		user.TravelPoints = *req.TravelPoints
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	item := toAdminUserItem(user)
	return &item, nil
}

func (s *adminService) SetTravelPoints(ctx context.Context, id uint, points int) (*dto.AdminUserItem, error) {
	if points < 0 {
		return nil, ErrInvalidAmount
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.TravelPoints = points
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("设置穿越点数失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	item := toAdminUserItem(user)
	return &item, nil
}

func (s *adminService) SetUserActive(ctx context.Context, id uint, isActive bool) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.IsActive = isActive
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("设置用户状态失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.cfg.Admin.UserName != "" && user.UserName == s.cfg.Admin.UserName {
		return ErrCannotDeleteSeedAdmin
	}

	// 先清关联数据再删用户，任一步失败直接中止
	if err := s.repo.Character.DeleteByUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UserData.DeleteAPIConfig(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UserData.DeleteLocalData(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UserData.DeleteUserPrompts(ctx, id); err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户已删除", zap.Uint("id", id), zap.String("user_name", user.UserName))
	return nil
}

// 用户导出表头
var exportUserHeaders = []string{
	"ID", "账号ID", "用户名", "邮箱", "管理员", "启用", "穿越点数", "注册时间", "最后登录",
}

func (s *adminService) ExportUsers(ctx context.Context) (*bytes.Buffer, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "用户列表"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range exportUserHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, user := range users {
		accountID := ""
		if user.AccountID != nil {
			accountID = fmt.Sprintf("%d", *user.AccountID)
		}
		email := ""
		if user.Email != nil {
			email = *user.Email
		}
		lastLogin := ""
		if user.LastLogin != nil {
			lastLogin = formatTime(*user.LastLogin)
		}

		values := []interface{}{
			user.ID,
			accountID,
			user.UserName,
			email,
			user.IsAdmin,
			user.IsActive,
			user.TravelPoints,
			formatTime(user.CreatedAt),
			lastLogin,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("导出用户表失败", zap.Error(err))
		return nil, err
	}
	return buf, nil
}

// ── 存档管理 ──

func (s *adminService) ListSaves(ctx context.Context, req *dto.AdminListSavesRequest) ([]dto.AdminSaveItem, int64, error) {
	filters := &repository.CharacterFilters{
		UserName: req.UserName,
		CharName: req.CharName,
		IsActive: req.IsActive,
	}

	characters, total, err := s.repo.Character.List(ctx, filters, req.Skip, req.GetLimit())
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.AdminSaveItem, 0, len(characters))
	for i := range characters {
		c := &characters[i]
		userName := ""
		if c.User != nil {
			userName = c.User.UserName
		}
		items = append(items, dto.AdminSaveItem{
			ID:        c.ID,
			UserName:  userName,
			CharName:  c.CharName,
			WorldID:   c.WorldID,
			IsActive:  c.IsActive,
			CreatedAt: formatTime(c.CreatedAt),
			UpdatedAt: formatTime(c.UpdatedAt),
		})
	}
	return items, total, nil
}

func (s *adminService) GetSave(ctx context.Context, id uint) (*dto.AdminSaveDetail, error) {
	c, err := s.repo.Character.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaveNotFound
		}
		return nil, err
	}

	userName := ""
	if c.User != nil {
		userName = c.User.UserName
	}
	return &dto.AdminSaveDetail{
		ID:        c.ID,
		UserID:    c.UserID,
		UserName:  userName,
		CharName:  c.CharName,
		WorldID:   c.WorldID,
		IsActive:  c.IsActive,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
		SaveData:  map[string]interface{}(c.SaveData),
	}, nil
}

func (s *adminService) ReplaceSave(ctx context.Context, id uint, saveData map[string]interface{}) error {
	c, err := s.repo.Character.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaveNotFound
		}
		return err
	}

	c.SaveData = model.JSONMap(saveData)
	if err := s.repo.Character.Update(ctx, c); err != nil {
		s.logger.Error("替换存档内容失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *adminService) SetSaveActive(ctx context.Context, id uint, isActive bool) error {
	c, err := s.repo.Character.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaveNotFound
		}
		return err
	}

	c.IsActive = isActive
	if err := s.repo.Character.Update(ctx, c); err != nil {
		s.logger.Error("设置存档状态失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *adminService) DeleteSave(ctx context.Context, id uint) error {
	if _, err := s.repo.Character.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaveNotFound
		}
		return err
	}
	return s.repo.Character.Delete(ctx, id)
}

// ── 本地存档数据管理 ──

func (s *adminService) ListLocalData(ctx context.Context, req *dto.AdminListUserDataRequest) ([]dto.AdminUserDataItem, error) {
	records, err := s.repo.UserData.ListLocalData(ctx, req.UserName, req.Skip, req.GetLimit())
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminUserDataItem, 0, len(records))
	for i := range records {
		r := &records[i]
		userName := ""
		if r.User != nil {
			userName = r.User.UserName
		}
		items = append(items, dto.AdminUserDataItem{
			UserID:    r.UserID,
			UserName:  userName,
			CreatedAt: formatTime(r.CreatedAt),
			UpdatedAt: formatTime(r.UpdatedAt),
		})
	}
	return items, nil
}

func (s *adminService) GetLocalData(ctx context.Context, userID uint) (*dto.AdminLocalDataDetail, error) {
	record, err := s.repo.UserData.GetLocalData(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocalDataNotFound
		}
		return nil, err
	}

	userName := ""
	if user, err := s.repo.User.GetByID(ctx, userID); err == nil {
		userName = user.UserName
	}

	return &dto.AdminLocalDataDetail{
		UserID:     record.UserID,
		UserName:   userName,
		CreatedAt:  formatTime(record.CreatedAt),
		UpdatedAt:  formatTime(record.UpdatedAt),
		Characters: map[string]interface{}(record.CharactersJSON),
		Saves:      map[string]interface{}(record.SavesJSON),
	}, nil
}

func (s *adminService) ReplaceLocalData(ctx context.Context, userID uint, req *dto.UserLocalDataPayload) error {
	record, err := s.repo.UserData.GetLocalData(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLocalDataNotFound
		}
		return err
	}

	record.CharactersJSON = model.JSONMap(req.Characters)
	record.SavesJSON = model.JSONMap(req.Saves)
	if err := s.repo.UserData.SaveLocalData(ctx, record); err != nil {
		s.logger.Error("替换本地存档数据失败", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *adminService) DeleteLocalData(ctx context.Context, userID uint) error {
	if _, err := s.repo.UserData.GetLocalData(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLocalDataNotFound
		}
		return err
	}
	return s.repo.UserData.DeleteLocalData(ctx, userID)
}

// ── 提示词管理 ──

func (s *adminService) ListUserPrompts(ctx context.Context, req *dto.AdminListUserDataRequest) ([]dto.AdminUserDataItem, error) {
	records, err := s.repo.UserData.ListUserPrompts(ctx, req.UserName, req.Skip, req.GetLimit())
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminUserDataItem, 0, len(records))
	for i := range records {
		r := &records[i]
		userName := ""
		if r.User != nil {
			userName = r.User.UserName
		}
		items = append(items, dto.AdminUserDataItem{
			UserID:    r.UserID,
			UserName:  userName,
			CreatedAt: formatTime(r.CreatedAt),
			UpdatedAt: formatTime(r.UpdatedAt),
		})
	}
	return items, nil
}

func (s *adminService) GetUserPrompts(ctx context.Context, userID uint) (*dto.AdminUserPromptsDetail, error) {
	record, err := s.repo.UserData.GetUserPrompts(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromptsNotFound
		}
		return nil, err
	}

	userName := ""
	if user, err := s.repo.User.GetByID(ctx, userID); err == nil {
		userName = user.UserName
	}

	return &dto.AdminUserPromptsDetail{
		UserID:    record.UserID,
		UserName:  userName,
		CreatedAt: formatTime(record.CreatedAt),
		UpdatedAt: formatTime(record.UpdatedAt),
		Prompts:   map[string]interface{}(record.PromptsJSON),
	}, nil
}

func (s *adminService) ReplaceUserPrompts(ctx context.Context, userID uint, req *dto.PromptsPayload) error {
	record, err := s.repo.UserData.GetUserPrompts(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromptsNotFound
		}
		return err
	}

	record.PromptsJSON = model.JSONMap(req.Prompts)
	if err := s.repo.UserData.SaveUserPrompts(ctx, record); err != nil {
		s.logger.Error("替换用户提示词失败", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *adminService) DeleteUserPrompts(ctx context.Context, userID uint) error {
	if _, err := s.repo.UserData.GetUserPrompts(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromptsNotFound
		}
		return err
	}
	return s.repo.UserData.DeleteUserPrompts(ctx, userID)
}

func (s *adminService) GetDefaultPrompts(ctx context.Context) (*dto.PromptsResponse, error) {
	record, err := s.repo.UserData.GetDefaultPrompts(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.PromptsResponse{Prompts: map[string]interface{}{}}, nil
		}
		return nil, err
	}
	return &dto.PromptsResponse{Prompts: map[string]interface{}(record.PromptsJSON)}, nil
}

func (s *adminService) SaveDefaultPrompts(ctx context.Context, req *dto.PromptsPayload) error {
	record, err := s.repo.UserData.GetDefaultPrompts(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record = &model.DefaultPromptConfig{}
	}

	record.PromptsJSON = model.JSONMap(req.Prompts)
	if err := s.repo.UserData.SaveDefaultPrompts(ctx, record); err != nil {
		s.logger.Error("保存默认提示词失败", zap.Error(err))
		return err
	}
	return nil
}

func toAdminUserItem(user *model.User) dto.AdminUserItem {
	return dto.AdminUserItem{
		ID:           user.ID,
		AccountID:    user.AccountID,
		UserName:     user.UserName,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		IsActive:     user.IsActive,
		TravelPoints: user.TravelPoints,
		CreatedAt:    formatTime(user.CreatedAt),
		LastLogin:    formatTimePtr(user.LastLogin),
	}
}
