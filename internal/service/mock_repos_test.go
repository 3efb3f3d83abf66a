package service

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
	pkgerrors "github.com/BlcaCola/Transcendent-Rebirth/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUserName(_ context.Context, name string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserName == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email != nil && *u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByAccountID(_ context.Context, accountID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.AccountID != nil && *u.AccountID == accountID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

// ConsumeTravelPoints 与真实实现一致：条件检查与扣减在同一临界区内完成
func (m *mockUserRepo) ConsumeTravelPoints(_ context.Context, id uint, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.TravelPoints < amount {
		return pkgerrors.ErrConditionFailed
	}
	u.TravelPoints -= amount
	return nil
}

// ── Mock InvitationCodeRepository ──

type mockInvitationRepo struct {
	mu     sync.Mutex
	nextID uint
	codes  map[uint]*model.InvitationCode
}

func newMockInvitationRepo() *mockInvitationRepo {
	return &mockInvitationRepo{codes: make(map[uint]*model.InvitationCode)}
}

func (m *mockInvitationRepo) Create(_ context.Context, code *model.InvitationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	code.ID = m.nextID
	cp := *code
	m.codes[code.ID] = &cp
	return nil
}

func (m *mockInvitationRepo) GetByID(_ context.Context, id uint) (*model.InvitationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.codes[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvitationRepo) GetByCode(_ context.Context, codeStr string) (*model.InvitationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Code == codeStr {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvitationRepo) List(_ context.Context, skip, limit int) ([]model.InvitationCode, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.InvitationCode
	for _, c := range m.codes {
		all = append(all, *c)
	}
	total := int64(len(all))
	if skip >= len(all) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], total, nil
}

func (m *mockInvitationRepo) Update(_ context.Context, code *model.InvitationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *code
	m.codes[code.ID] = &cp
	return nil
}

func (m *mockInvitationRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, id)
	return nil
}

// Consume 与真实实现语义一致的条件自增：
// is_active、次数、过期三个条件与 +1 在同一临界区内判定
func (m *mockInvitationRepo) Consume(_ context.Context, codeStr string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Code != codeStr {
			continue
		}
		if !c.IsActive {
			return pkgerrors.ErrConditionFailed
		}
		if c.MaxUses != model.MaxUsesUnlimited && c.TimesUsed >= c.MaxUses {
			return pkgerrors.ErrConditionFailed
		}
		if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
			return pkgerrors.ErrConditionFailed
		}
		c.TimesUsed++
		return nil
	}
	return pkgerrors.ErrConditionFailed
}

// ── Mock RedemptionCodeRepository ──

type mockRedemptionRepo struct {
	mu     sync.Mutex
	nextID uint
	codes  map[uint]*model.RedemptionCode
}

func newMockRedemptionRepo() *mockRedemptionRepo {
	return &mockRedemptionRepo{codes: make(map[uint]*model.RedemptionCode)}
}

func (m *mockRedemptionRepo) Create(_ context.Context, code *model.RedemptionCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	code.ID = m.nextID
	cp := *code
	m.codes[code.ID] = &cp
	return nil
}

func (m *mockRedemptionRepo) GetByID(_ context.Context, id uint) (*model.RedemptionCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.codes[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRedemptionRepo) GetByCode(_ context.Context, codeStr string) (*model.RedemptionCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Code == codeStr {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRedemptionRepo) List(_ context.Context, skip, limit int) ([]model.RedemptionCode, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.RedemptionCode
	for _, c := range m.codes {
		all = append(all, *c)
	}
	total := int64(len(all))
	if skip >= len(all) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], total, nil
}

func (m *mockRedemptionRepo) Update(_ context.Context, code *model.RedemptionCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *code
	m.codes[code.ID] = &cp
	return nil
}

func (m *mockRedemptionRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, id)
	return nil
}

func (m *mockRedemptionRepo) Consume(_ context.Context, codeStr string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Code != codeStr {
			continue
		}
		if c.MaxUses != model.MaxUsesUnlimited && c.TimesUsed >= c.MaxUses {
			return pkgerrors.ErrConditionFailed
		}
		if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
			return pkgerrors.ErrConditionFailed
		}
		c.TimesUsed++
		return nil
	}
	return pkgerrors.ErrConditionFailed
}

// ── Mock CharacterRepository ──

type mockCharacterRepo struct {
	mu         sync.Mutex
	nextID     uint
	characters map[uint]*model.Character
}

func newMockCharacterRepo() *mockCharacterRepo {
	return &mockCharacterRepo{characters: make(map[uint]*model.Character)}
}

func (m *mockCharacterRepo) Create(_ context.Context, c *model.Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.characters[c.ID] = &cp
	return nil
}

func (m *mockCharacterRepo) GetByID(_ context.Context, id uint) (*model.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.characters[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCharacterRepo) GetByIDAndUser(_ context.Context, id, userID uint) (*model.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.characters[id]; ok && c.UserID == userID {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCharacterRepo) ListByUser(_ context.Context, userID uint) ([]model.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Character
	for _, c := range m.characters {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCharacterRepo) Update(_ context.Context, c *model.Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.characters[c.ID] = &cp
	return nil
}

func (m *mockCharacterRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.characters, id)
	return nil
}

func (m *mockCharacterRepo) DeleteByUser(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.characters {
		if c.UserID == userID {
			delete(m.characters, id)
		}
	}
	return nil
}

func (m *mockCharacterRepo) List(_ context.Context, filters *repository.CharacterFilters, skip, limit int) ([]model.Character, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Character
	for _, c := range m.characters {
		if filters != nil && filters.IsActive != nil && c.IsActive != *filters.IsActive {
			continue
		}
		result = append(result, *c)
	}
	total := int64(len(result))
	if skip >= len(result) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(result) {
		end = len(result)
	}
	return result[skip:end], total, nil
}

// ── Mock GameDataRepository ──

type mockGameDataRepo struct {
	mu          sync.Mutex
	nextID      uint
	worlds      map[uint]*model.World
	tiers       map[uint]*model.TalentTier
	origins     map[uint]*model.Origin
	spiritRoots map[uint]*model.SpiritRoot
	talents     map[uint]*model.Talent
}

func newMockGameDataRepo() *mockGameDataRepo {
	return &mockGameDataRepo{
		worlds:      make(map[uint]*model.World),
		tiers:       make(map[uint]*model.TalentTier),
		origins:     make(map[uint]*model.Origin),
		spiritRoots: make(map[uint]*model.SpiritRoot),
		talents:     make(map[uint]*model.Talent),
	}
}

func (m *mockGameDataRepo) id() uint {
	m.nextID++
	return m.nextID
}

func (m *mockGameDataRepo) ListActiveWorlds(_ context.Context) ([]model.World, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.World
	for _, w := range m.worlds {
		if w.IsActive {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (m *mockGameDataRepo) ListTalentTiers(_ context.Context) ([]model.TalentTier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.TalentTier
	for _, t := range m.tiers {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockGameDataRepo) ListActiveOrigins(_ context.Context) ([]model.Origin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Origin
	for _, o := range m.origins {
		if o.IsActive {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockGameDataRepo) ListActiveSpiritRoots(_ context.Context) ([]model.SpiritRoot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.SpiritRoot
	for _, r := range m.spiritRoots {
		if r.IsActive {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockGameDataRepo) ListActiveTalents(_ context.Context) ([]model.Talent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Talent
	for _, t := range m.talents {
		if t.IsActive {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockGameDataRepo) GetWorld(_ context.Context, id uint) (*model.World, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.worlds[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGameDataRepo) CreateWorld(_ context.Context, w *model.World) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = m.id()
	cp := *w
	m.worlds[w.ID] = &cp
	return nil
}

func (m *mockGameDataRepo) UpdateWorld(_ context.Context, w *model.World) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	m.worlds[w.ID] = &cp
	return nil
}

func (m *mockGameDataRepo) DeleteWorld(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.worlds, id)
	return nil
}

func (m *mockGameDataRepo) GetTalentTier(_ context.Context, id uint) (*model.TalentTier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tiers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGameDataRepo) CreateTalentTier(_ context.Context, t *model.TalentTier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	cp := *t
	m.tiers[t.ID] = &cp
	return nil
}

func (m *mockGameDataRepo) CreateOrigin(_ context.Context, o *model.Origin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = m.id()
	cp := *o
	m.origins[o.ID] = &cp
	return nil
}

func (m *mockGameDataRepo) CreateSpiritRoot(_ context.Context, r *model.SpiritRoot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.id()
	cp := *r
	m.spiritRoots[r.ID] = &cp
	return nil
}

func (m *mockGameDataRepo) CreateTalent(_ context.Context, t *model.Talent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	cp := *t
	m.talents[t.ID] = &cp
	return nil
}

// ── Mock UserDataRepository ──

type mockUserDataRepo struct {
	mu             sync.Mutex
	apiConfigs     map[uint]*model.UserAPIConfig
	localData      map[uint]*model.UserLocalData
	userPrompts    map[uint]*model.UserPromptConfig
	defaultPrompts *model.DefaultPromptConfig
}

func newMockUserDataRepo() *mockUserDataRepo {
	return &mockUserDataRepo{
		apiConfigs:  make(map[uint]*model.UserAPIConfig),
		localData:   make(map[uint]*model.UserLocalData),
		userPrompts: make(map[uint]*model.UserPromptConfig),
	}
}

func (m *mockUserDataRepo) GetAPIConfig(_ context.Context, userID uint) (*model.UserAPIConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.apiConfigs[userID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserDataRepo) SaveAPIConfig(_ context.Context, record *model.UserAPIConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.apiConfigs[record.UserID] = &cp
	return nil
}

func (m *mockUserDataRepo) DeleteAPIConfig(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.apiConfigs, userID)
	return nil
}

func (m *mockUserDataRepo) GetLocalData(_ context.Context, userID uint) (*model.UserLocalData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.localData[userID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserDataRepo) SaveLocalData(_ context.Context, record *model.UserLocalData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.localData[record.UserID] = &cp
	return nil
}

func (m *mockUserDataRepo) DeleteLocalData(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.localData, userID)
	return nil
}

func (m *mockUserDataRepo) ListLocalData(_ context.Context, _ string, skip, limit int) ([]model.UserLocalData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.UserLocalData
	for _, r := range m.localData {
		result = append(result, *r)
	}
	if skip >= len(result) {
		return nil, nil
	}
	end := skip + limit
	if end > len(result) {
		end = len(result)
	}
	return result[skip:end], nil
}

func (m *mockUserDataRepo) GetUserPrompts(_ context.Context, userID uint) (*model.UserPromptConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.userPrompts[userID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserDataRepo) SaveUserPrompts(_ context.Context, record *model.UserPromptConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.userPrompts[record.UserID] = &cp
	return nil
}

func (m *mockUserDataRepo) DeleteUserPrompts(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userPrompts, userID)
	return nil
}

func (m *mockUserDataRepo) ListUserPrompts(_ context.Context, _ string, skip, limit int) ([]model.UserPromptConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.UserPromptConfig
	for _, r := range m.userPrompts {
		result = append(result, *r)
	}
	if skip >= len(result) {
		return nil, nil
	}
	end := skip + limit
	if end > len(result) {
		end = len(result)
	}
	return result[skip:end], nil
}

func (m *mockUserDataRepo) GetDefaultPrompts(_ context.Context) (*model.DefaultPromptConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.defaultPrompts == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.defaultPrompts
	return &cp, nil
}

func (m *mockUserDataRepo) SaveDefaultPrompts(_ context.Context, record *model.DefaultPromptConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.defaultPrompts = &cp
	return nil
}

// newTestRepository 组装全 mock 的 Repository 聚合
func newTestRepository() *repository.Repository {
	return &repository.Repository{
		User:           newMockUserRepo(),
		InvitationCode: newMockInvitationRepo(),
		RedemptionCode: newMockRedemptionRepo(),
		Character:      newMockCharacterRepo(),
		GameData:       newMockGameDataRepo(),
		UserData:       newMockUserDataRepo(),
	}
}
