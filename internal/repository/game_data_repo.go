package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
)

// GameDataRepository 参考游戏数据访问接口（世界/天资/出身/改造核心/天赋）
type GameDataRepository interface {
	// 公开列表：只取启用项，按 order 排序
	ListActiveWorlds(ctx context.Context) ([]model.World, error)
	ListTalentTiers(ctx context.Context) ([]model.TalentTier, error)
	ListActiveOrigins(ctx context.Context) ([]model.Origin, error)
	ListActiveSpiritRoots(ctx context.Context) ([]model.SpiritRoot, error)
	ListActiveTalents(ctx context.Context) ([]model.Talent, error)

	GetWorld(ctx context.Context, id uint) (*model.World, error)
	CreateWorld(ctx context.Context, world *model.World) error
	UpdateWorld(ctx context.Context, world *model.World) error
	DeleteWorld(ctx context.Context, id uint) error

	GetTalentTier(ctx context.Context, id uint) (*model.TalentTier, error)
	CreateTalentTier(ctx context.Context, tier *model.TalentTier) error
	CreateOrigin(ctx context.Context, origin *model.Origin) error
	CreateSpiritRoot(ctx context.Context, root *model.SpiritRoot) error
	CreateTalent(ctx context.Context, talent *model.Talent) error
}

type gameDataRepo struct {
	db *gorm.DB
}

// NewGameDataRepo 创建 GameDataRepository 实例
func NewGameDataRepo(db *gorm.DB) GameDataRepository {
	return &gameDataRepo{db: db}
}

func (r *gameDataRepo) ListActiveWorlds(ctx context.Context) ([]model.World, error) {
	var worlds []model.World
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE").
		Order(`"order"`).
		Find(&worlds).Error
	return worlds, err
}

func (r *gameDataRepo) ListTalentTiers(ctx context.Context) ([]model.TalentTier, error) {
	var tiers []model.TalentTier
	err := r.db.WithContext(ctx).
		Order(`"order"`).
		Find(&tiers).Error
	return tiers, err
}

func (r *gameDataRepo) ListActiveOrigins(ctx context.Context) ([]model.Origin, error) {
	var origins []model.Origin
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE").
		Order(`"order"`).
		Find(&origins).Error
	return origins, err
}

func (r *gameDataRepo) ListActiveSpiritRoots(ctx context.Context) ([]model.SpiritRoot, error) {
	var roots []model.SpiritRoot
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE").
		Order(`"order"`).
		Find(&roots).Error
	return roots, err
}

func (r *gameDataRepo) ListActiveTalents(ctx context.Context) ([]model.Talent, error) {
	var talents []model.Talent
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE").
		Preload("Tier").
		Find(&talents).Error
	return talents, err
}

func (r *gameDataRepo) GetWorld(ctx context.Context, id uint) (*model.World, error) {
	var world model.World
	if err := r.db.WithContext(ctx).First(&world, id).Error; err != nil {
		return nil, err
	}
	return &world, nil
}

func (r *gameDataRepo) CreateWorld(ctx context.Context, world *model.World) error {
	return r.db.WithContext(ctx).Create(world).Error
}

func (r *gameDataRepo) UpdateWorld(ctx context.Context, world *model.World) error {
	return r.db.WithContext(ctx).Save(world).Error
}

func (r *gameDataRepo) DeleteWorld(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.World{}, id).Error
}

func (r *gameDataRepo) GetTalentTier(ctx context.Context, id uint) (*model.TalentTier, error) {
	var tier model.TalentTier
	if err := r.db.WithContext(ctx).First(&tier, id).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *gameDataRepo) CreateTalentTier(ctx context.Context, tier *model.TalentTier) error {
	return r.db.WithContext(ctx).Create(tier).Error
}

func (r *gameDataRepo) CreateOrigin(ctx context.Context, origin *model.Origin) error {
	return r.db.WithContext(ctx).Create(origin).Error
}

func (r *gameDataRepo) CreateSpiritRoot(ctx context.Context, root *model.SpiritRoot) error {
	return r.db.WithContext(ctx).Create(root).Error
}

func (r *gameDataRepo) CreateTalent(ctx context.Context, talent *model.Talent) error {
	return r.db.WithContext(ctx).Create(talent).Error
}
