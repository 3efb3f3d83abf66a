package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User           UserRepository
	InvitationCode InvitationCodeRepository
	RedemptionCode RedemptionCodeRepository
	Character      CharacterRepository
	GameData       GameDataRepository
	UserData       UserDataRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:           NewUserRepo(db),
		InvitationCode: NewInvitationCodeRepo(db),
		RedemptionCode: NewRedemptionCodeRepo(db),
		Character:      NewCharacterRepo(db),
		GameData:       NewGameDataRepo(db),
		UserData:       NewUserDataRepo(db),
	}
}
