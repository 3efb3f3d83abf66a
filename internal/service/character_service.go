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

// ErrCharacterNotFound 角色不存在或不属于当前用户
var ErrCharacterNotFound = errors.New("角色不存在")

// CharacterService 角色/存档业务接口
// 所有操作均以当前用户为归属边界，跨用户访问视同不存在
type CharacterService interface {
	Create(ctx context.Context, userID uint, req *dto.CreateCharacterRequest) (*dto.CreateCharacterResponse, error)
	List(ctx context.Context, userID uint) ([]dto.CharacterResponse, error)
	Get(ctx context.Context, userID, characterID uint) (*dto.CharacterResponse, error)
	UpdateSave(ctx context.Context, userID, characterID uint, req *dto.UpdateSaveRequest) error
	Delete(ctx context.Context, userID, characterID uint) error
}

type characterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCharacterService 创建 CharacterService 实例
func NewCharacterService(repo *repository.Repository, logger *zap.Logger) CharacterService {
	return &characterService{repo: repo, logger: logger}
}

func (s *characterService) Create(ctx context.Context, userID uint, req *dto.CreateCharacterRequest) (*dto.CreateCharacterResponse, error) {
	character := &model.Character{
		UserID:   userID,
		CharName: req.CharName,
		WorldID:  req.WorldID,
		SaveData: model.JSONMap(req.SaveData),
		IsActive: true,
	}

	if err := s.repo.Character.Create(ctx, character); err != nil {
		s.logger.Error("创建角色失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	return &dto.CreateCharacterResponse{CharacterID: character.ID}, nil
}

func (s *characterService) List(ctx context.Context, userID uint) ([]dto.CharacterResponse, error) {
	characters, err := s.repo.Character.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CharacterResponse, 0, len(characters))
	for i := range characters {
		items = append(items, *toCharacterResponse(&characters[i]))
	}
	return items, nil
}

func (s *characterService) Get(ctx context.Context, userID, characterID uint) (*dto.CharacterResponse, error) {
	character, err := s.repo.Character.GetByIDAndUser(ctx, characterID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	return toCharacterResponse(character), nil
}

func (s *characterService) UpdateSave(ctx context.Context, userID, characterID uint, req *dto.UpdateSaveRequest) error {
	character, err := s.repo.Character.GetByIDAndUser(ctx, characterID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCharacterNotFound
		}
		return err
	}

	character.SaveData = model.JSONMap(req.SaveData)
	if err := s.repo.Character.Update(ctx, character); err != nil {
		s.logger.Error("更新存档失败", zap.Uint("character_id", characterID), zap.Error(err))
		return err
	}
	return nil
}

func (s *characterService) Delete(ctx context.Context, userID, characterID uint) error {
	if _, err := s.repo.Character.GetByIDAndUser(ctx, characterID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCharacterNotFound
		}
		return err
	}
	return s.repo.Character.Delete(ctx, characterID)
}

func toCharacterResponse(c *model.Character) *dto.CharacterResponse {
	return &dto.CharacterResponse{
		ID:        c.ID,
		CharName:  c.CharName,
		WorldID:   c.WorldID,
		SaveData:  map[string]interface{}(c.SaveData),
		IsActive:  c.IsActive,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}
