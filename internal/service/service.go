package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/BlcaCola/Transcendent-Rebirth/config"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/jwt"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/timeutil"
)

// Service 所有业务 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Invitation InvitationService
	Redemption RedemptionService
	Character  CharacterService
	GameData   GameDataService
	UserData   UserDataService
	Admin      AdminService
}

// NewService 创建 Service 聚合
func NewService(repo *repository.Repository, jwtManager *jwt.Manager, cfg *config.Config, logger *zap.Logger) *Service {
	invitation := NewInvitationService(repo, logger)
	redemption := NewRedemptionService(repo, logger)
	return &Service{
		Auth:       NewAuthService(repo, invitation, jwtManager, logger),
		Invitation: invitation,
		Redemption: redemption,
		Character:  NewCharacterService(repo, logger),
		GameData:   NewGameDataService(repo, redemption, logger),
		UserData:   NewUserDataService(repo, logger),
		Admin:      NewAdminService(repo, cfg, logger),
	}
}

// formatTime 统一按北京时间输出 RFC3339 时间串
func formatTime(t time.Time) string {
	return t.In(timeutil.BeijingTZ).Format(time.RFC3339)
}

// formatTimePtr formatTime 的指针版本，nil 透传
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
