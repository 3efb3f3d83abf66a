package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
)

// UserDataService 用户侧 JSON 数据业务接口
// API 配置 / 本地存档数据 / 提示词，均为每用户一份、整体替换
type UserDataService interface {
	GetAPIConfig(ctx context.Context, userID uint) (*dto.UserAPIConfigResponse, error)
	SaveAPIConfig(ctx context.Context, userID uint, req *dto.UserAPIConfigPayload) error
	DeleteAPIConfig(ctx context.Context, userID uint) error

	GetLocalData(ctx context.Context, userID uint) (*dto.UserLocalDataResponse, error)
	SaveLocalData(ctx context.Context, userID uint, req *dto.UserLocalDataPayload) error
	DeleteLocalData(ctx context.Context, userID uint) error

	// GetPrompts 用户有自定义提示词时返回自定义，否则回落到全局默认，
	// 两者都没有时返回空对象
	GetPrompts(ctx context.Context, userID uint) (*dto.PromptsResponse, error)
	SavePrompts(ctx context.Context, userID uint, req *dto.PromptsPayload) error
	ResetPrompts(ctx context.Context, userID uint) error
}

type userDataService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserDataService 创建 UserDataService 实例
func NewUserDataService(repo *repository.Repository, logger *zap.Logger) UserDataService {
	return &userDataService{repo: repo, logger: logger}
}

// ── API 配置 ──

func (s *userDataService) GetAPIConfig(ctx context.Context, userID uint) (*dto.UserAPIConfigResponse, error) {
	record, err := s.repo.UserData.GetAPIConfig(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.UserAPIConfigResponse{Config: nil}, nil
		}
		return nil, err
	}
	return &dto.UserAPIConfigResponse{Config: map[string]interface{}(record.Config)}, nil
}

func (s *userDataService) SaveAPIConfig(ctx context.Context, userID uint, req *dto.UserAPIConfigPayload) error {
	record, err := s.repo.UserData.GetAPIConfig(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record = &model.UserAPIConfig{UserID: userID}
	}

	record.Config = model.JSONMap(req.Config)
	if err := s.repo.UserData.SaveAPIConfig(ctx, record); err != nil {
		s.logger.Error("保存 API 配置失败", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *userDataService) DeleteAPIConfig(ctx context.Context, userID uint) error {
	return s.repo.UserData.DeleteAPIConfig(ctx, userID)
}

// ── 本地存档数据 ──

func (s *userDataService) GetLocalData(ctx context.Context, userID uint) (*dto.UserLocalDataResponse, error) {
	record, err := s.repo.UserData.GetLocalData(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.UserLocalDataResponse{
				Characters: map[string]interface{}{},
				Saves:      map[string]interface{}{},
			}, nil
		}
		return nil, err
	}
	return &dto.UserLocalDataResponse{
		Characters: map[string]interface{}(record.CharactersJSON),
		Saves:      map[string]interface{}(record.SavesJSON),
	}, nil
}

func (s *userDataService) SaveLocalData(ctx context.Context, userID uint, req *dto.UserLocalDataPayload) error {
	record, err := s.repo.UserData.GetLocalData(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record = &model.UserLocalData{UserID: userID}
	}

	record.CharactersJSON = model.JSONMap(req.Characters)
	record.SavesJSON = model.JSONMap(req.Saves)
	if err := s.repo.UserData.SaveLocalData(ctx, record); err != nil {
		s.logger.Error("保存本地存档数据失败", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *userDataService) DeleteLocalData(ctx context.Context, userID uint) error {
	return s.repo.UserData.DeleteLocalData(ctx, userID)
}

// ── 提示词配置 ──

func (s *userDataService) GetPrompts(ctx context.Context, userID uint) (*dto.PromptsResponse, error) {
	record, err := s.repo.UserData.GetUserPrompts(ctx, userID)
	if err == nil {
		return &dto.PromptsResponse{Prompts: map[string]interface{}(record.PromptsJSON)}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults, err := s.repo.UserData.GetDefaultPrompts(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.PromptsResponse{Prompts: map[string]interface{}{}}, nil
		}
		return nil, err
	}
	return &dto.PromptsResponse{Prompts: map[string]interface{}(defaults.PromptsJSON)}, nil
}

func (s *userDataService) SavePrompts(ctx context.Context, userID uint, req *dto.PromptsPayload) error {
	record, err := s.repo.UserData.GetUserPrompts(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record = &model.UserPromptConfig{UserID: userID}
	}

	record.PromptsJSON = model.JSONMap(req.Prompts)
	if err := s.repo.UserData.SaveUserPrompts(ctx, record); err != nil {
		s.logger.Error("保存用户提示词失败", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ResetPrompts 删除用户自定义提示词，读取重新回落到默认配置
func (s *userDataService) ResetPrompts(ctx context.Context, userID uint) error {
	return s.repo.UserData.DeleteUserPrompts(ctx, userID)
}
