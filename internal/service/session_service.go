package service

import (
	"errors"
	"fmt"

	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrOwnerNotFound 在指定身份不存在时返回。
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrClaimSecretMismatch 在认领口令校验失败时返回。
	ErrClaimSecretMismatch = errors.New("claim secret mismatch")
)

// SessionIdentity 描述一次会话引导的结果。
// ClaimSecret 仅在新建身份时返回一次，用于在其它设备上认领同一身份。
type SessionIdentity struct {
	OwnerID     string
	ClaimSecret string
	Created     bool
}

// SessionService 负责匿名身份的建立与认领，以及默认档案的种子化。
// 远端未配置时本服务不参与，应用以纯本地模式运行。
type SessionService struct {
	db     *gorm.DB
	remote RemoteSync
}

// NewSessionService 构造 SessionService。
func NewSessionService(gdb *gorm.DB, remote RemoteSync) *SessionService {
	return &SessionService{db: gdb, remote: remote}
}

// EnsureOwner 复用或新建一个匿名身份。
// existingID 来自会话 cookie；命中则直接复用，否则创建新身份。
func (s *SessionService) EnsureOwner(existingID string) (SessionIdentity, error) {
	if existingID != "" {
		var owner db.Owner
		err := s.db.Where("id = ?", existingID).First(&owner).Error
		if err == nil {
			return SessionIdentity{OwnerID: owner.ID}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionIdentity{}, fmt.Errorf("load owner: %w", err)
		}
	}

	secret := model.NewID()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return SessionIdentity{}, fmt.Errorf("hash claim secret: %w", err)
	}

	owner := db.Owner{ID: model.NewID(), SecretHash: string(hash)}
	if err := s.db.Create(&owner).Error; err != nil {
		return SessionIdentity{}, fmt.Errorf("create owner: %w", err)
	}

	return SessionIdentity{OwnerID: owner.ID, ClaimSecret: secret, Created: true}, nil
}

// ClaimOwner 用身份 ID 和认领口令在新设备上认领既有身份。
func (s *SessionService) ClaimOwner(ownerID, secret string) error {
	var owner db.Owner
	if err := s.db.Where("id = ?", ownerID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("load owner: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.SecretHash), []byte(secret)); err != nil {
		return ErrClaimSecretMismatch
	}
	return nil
}

// BootstrapProfiles 加载某身份下的档案，为空时种子化一个默认档案。
// preferredID 存在于结果中时保持选中，否则回退到第一个档案。
func (s *SessionService) BootstrapProfiles(ownerID, preferredID string) ([]model.UserProfile, string, error) {
	users, err := s.remote.FetchProfiles(ownerID)
	if err != nil {
		return nil, "", err
	}

	if len(users) == 0 {
		profile := model.NewUserProfile("User 1")
		if err := s.remote.CreateProfile(ownerID, profile); err != nil {
			return nil, "", err
		}
		users = []model.UserProfile{profile}
	}

	selected := ""
	for _, user := range users {
		if user.ID == preferredID {
			selected = user.ID
			break
		}
	}
	if selected == "" {
		selected = users[0].ID
	}

	return users, selected, nil
}
