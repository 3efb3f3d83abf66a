package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/dto"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
)

// ── 参考数据/AI 内容业务错误 ──

var (
	ErrWorldNotFound      = errors.New("世界不存在")
	ErrTalentTierNotFound = errors.New("天资等级不存在")
	ErrInvalidAIContent   = errors.New("AI 生成内容不完整")
	ErrInvalidAIType      = errors.New("不支持的 AI 内容类型")
)

// GameDataService 参考游戏数据与 AI 内容业务接口
type GameDataService interface {
	ListWorlds(ctx context.Context) ([]dto.WorldResponse, error)
	ListTalentTiers(ctx context.Context) ([]dto.TalentTierResponse, error)
	ListOrigins(ctx context.Context) ([]dto.OriginResponse, error)
	ListSpiritRoots(ctx context.Context) ([]dto.SpiritRootResponse, error)
	ListTalents(ctx context.Context) ([]dto.TalentResponse, error)

	// SaveAIContent 消耗一个兑换码并将 AI 生成内容落库
	// 内容校验在消耗之前，非法内容不会浪费兑换码
	SaveAIContent(ctx context.Context, req *dto.AISaveRequest) (*dto.AISaveResponse, error)

	CreateWorld(ctx context.Context, req *dto.CreateWorldRequest) (*dto.WorldResponse, error)
	UpdateWorld(ctx context.Context, id uint, req *dto.UpdateWorldRequest) (*dto.WorldResponse, error)
	DeleteWorld(ctx context.Context, id uint) error
}

type gameDataService struct {
	repo       *repository.Repository
	redemption RedemptionService
	logger     *zap.Logger
}

// NewGameDataService 创建 GameDataService 实例
func NewGameDataService(repo *repository.Repository, redemption RedemptionService, logger *zap.Logger) GameDataService {
	return &gameDataService{repo: repo, redemption: redemption, logger: logger}
}

// ── 公开列表 ──

func (s *gameDataService) ListWorlds(ctx context.Context) ([]dto.WorldResponse, error) {
	worlds, err := s.repo.GameData.ListActiveWorlds(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WorldResponse, 0, len(worlds))
	for i := range worlds {
		items = append(items, toWorldResponse(&worlds[i]))
	}
	return items, nil
}

func (s *gameDataService) ListTalentTiers(ctx context.Context) ([]dto.TalentTierResponse, error) {
	tiers, err := s.repo.GameData.ListTalentTiers(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TalentTierResponse, 0, len(tiers))
	for _, t := range tiers {
		items = append(items, dto.TalentTierResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Multiplier:  t.Multiplier,
			Order:       t.Order,
		})
	}
	return items, nil
}

func (s *gameDataService) ListOrigins(ctx context.Context) ([]dto.OriginResponse, error) {
	origins, err := s.repo.GameData.ListActiveOrigins(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OriginResponse, 0, len(origins))
	for _, o := range origins {
		items = append(items, dto.OriginResponse{
			ID:          o.ID,
			Name:        o.Name,
			Description: o.Description,
			Effects:     map[string]interface{}(o.Effects),
			IsActive:    o.IsActive,
			Order:       o.Order,
		})
	}
	return items, nil
}

func (s *gameDataService) ListSpiritRoots(ctx context.Context) ([]dto.SpiritRootResponse, error) {
	roots, err := s.repo.GameData.ListActiveSpiritRoots(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SpiritRootResponse, 0, len(roots))
	for _, r := range roots {
		items = append(items, dto.SpiritRootResponse{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Elements:    map[string]interface{}(r.Elements),
			IsActive:    r.IsActive,
			Order:       r.Order,
		})
	}
	return items, nil
}

func (s *gameDataService) ListTalents(ctx context.Context) ([]dto.TalentResponse, error) {
	talents, err := s.repo.GameData.ListActiveTalents(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TalentResponse, 0, len(talents))
	for _, t := range talents {
		items = append(items, dto.TalentResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			TalentCost:  t.TalentCost,
			Rarity:      t.Rarity,
			TierID:      t.TierID,
			Source:      t.Source,
			Effects:     map[string]interface{}(t.Effects),
			IsActive:    t.IsActive,
		})
	}
	return items, nil
}

// ── AI 内容保存 ──

func (s *gameDataService) SaveAIContent(ctx context.Context, req *dto.AISaveRequest) (*dto.AISaveResponse, error) {
	builder, err := s.buildAIRecord(ctx, req.Type, req.Content)
	if err != nil {
		return nil, err
	}

	if err := s.redemption.Consume(ctx, req.Code); err != nil {
		return nil, err
	}

	id, err := builder()
	if err != nil {
		// 兑换码已消耗但落库失败，记录以便人工补偿
		s.logger.Error("AI 内容落库失败",
			zap.String("type", req.Type),
			zap.String("code", req.Code),
			zap.Error(err))
		return nil, err
	}

	return &dto.AISaveResponse{SavedID: id}, nil
}

// buildAIRecord 校验 AI 内容并返回延迟落库闭包
// 校验纯读不写，落库只在兑换码消耗成功之后执行
func (s *gameDataService) buildAIRecord(ctx context.Context, contentType string, content map[string]interface{}) (func() (uint, error), error) {
	name := stringField(content, "name")
	if name == "" {
		return nil, ErrInvalidAIContent
	}

	switch contentType {
	case "world":
		description := stringField(content, "description")
		if description == "" {
			return nil, ErrInvalidAIContent
		}
		return func() (uint, error) {
			world := &model.World{Name: name, Description: description, IsActive: true}
			if err := s.repo.GameData.CreateWorld(ctx, world); err != nil {
				return 0, err
			}
			return world.ID, nil
		}, nil

	case "talent_tier":
		multiplier, ok := floatField(content, "multiplier")
		if !ok || multiplier <= 0 {
			return nil, ErrInvalidAIContent
		}
		description := stringFieldPtr(content, "description")
		return func() (uint, error) {
			tier := &model.TalentTier{Name: name, Description: description, Multiplier: multiplier}
			if err := s.repo.GameData.CreateTalentTier(ctx, tier); err != nil {
				return 0, err
			}
			return tier.ID, nil
		}, nil

	case "origin":
		description := stringField(content, "description")
		if description == "" {
			return nil, ErrInvalidAIContent
		}
		effects := mapField(content, "effects")
		return func() (uint, error) {
			origin := &model.Origin{
				Name:        name,
				Description: description,
				Effects:     model.JSONMap(effects),
				IsActive:    true,
			}
			if err := s.repo.GameData.CreateOrigin(ctx, origin); err != nil {
				return 0, err
			}
			return origin.ID, nil
		}, nil

	case "spirit_root":
		description := stringField(content, "description")
		elements := mapField(content, "elements")
		if description == "" || elements == nil {
			return nil, ErrInvalidAIContent
		}
		return func() (uint, error) {
			root := &model.SpiritRoot{
				Name:        name,
				Description: description,
				Elements:    model.JSONMap(elements),
				IsActive:    true,
			}
			if err := s.repo.GameData.CreateSpiritRoot(ctx, root); err != nil {
				return 0, err
			}
			return root.ID, nil
		}, nil

	case "talent":
		tierID, err := s.resolveTierID(ctx, content)
		if err != nil {
			return nil, err
		}
		talent := &model.Talent{
			Name:        name,
			Description: stringFieldPtr(content, "description"),
			TalentCost:  1,
			Rarity:      1,
			TierID:      tierID,
			Effects:     model.JSONMap(mapField(content, "effects")),
			IsActive:    true,
		}
		if cost, ok := intField(content, "talent_cost"); ok && cost > 0 {
			talent.TalentCost = cost
		}
		if rarity, ok := intField(content, "rarity"); ok && rarity > 0 {
			talent.Rarity = rarity
		}
		return func() (uint, error) {
			if err := s.repo.GameData.CreateTalent(ctx, talent); err != nil {
				return 0, err
			}
			return talent.ID, nil
		}, nil

	default:
		return nil, ErrInvalidAIType
	}
}

// resolveTierID 天赋携带 tier_id 时检查其存在，无效引用直接拒绝
func (s *gameDataService) resolveTierID(ctx context.Context, content map[string]interface{}) (*uint, error) {
	raw, ok := intField(content, "tier_id")
	if !ok {
		return nil, nil
	}
	id := uint(raw)
	if _, err := s.repo.GameData.GetTalentTier(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTalentTierNotFound
		}
		return nil, err
	}
	return &id, nil
}

// ── 世界管理（管理员）──

func (s *gameDataService) CreateWorld(ctx context.Context, req *dto.CreateWorldRequest) (*dto.WorldResponse, error) {
	world := &model.World{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		Order:       req.Order,
	}
	if err := s.repo.GameData.CreateWorld(ctx, world); err != nil {
		s.logger.Error("创建世界失败", zap.Error(err))
		return nil, err
	}
	resp := toWorldResponse(world)
	return &resp, nil
}

func (s *gameDataService) UpdateWorld(ctx context.Context, id uint, req *dto.UpdateWorldRequest) (*dto.WorldResponse, error) {
	world, err := s.repo.GameData.GetWorld(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorldNotFound
		}
		return nil, err
	}

	world.Name = req.Name
	world.Description = req.Description
	world.IsActive = req.IsActive
	world.Order = req.Order

	if err := s.repo.GameData.UpdateWorld(ctx, world); err != nil {
		s.logger.Error("更新世界失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	resp := toWorldResponse(world)
	return &resp, nil
}

func (s *gameDataService) DeleteWorld(ctx context.Context, id uint) error {
	if _, err := s.repo.GameData.GetWorld(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorldNotFound
		}
		return err
	}
	return s.repo.GameData.DeleteWorld(ctx, id)
}

func toWorldResponse(w *model.World) dto.WorldResponse {
	return dto.WorldResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		IsActive:    w.IsActive,
		Order:       w.Order,
	}
}

// ── JSON 字段提取 ──

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func stringFieldPtr(m map[string]interface{}, key string) *string {
	if v := stringField(m, key); v != "" {
		return &v
	}
	return nil
}

// floatField 读取数值字段，JSON 解码后数值统一为 float64
func floatField(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func intField(m map[string]interface{}, key string) (int, bool) {
	f, ok := floatField(m, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func mapField(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}
