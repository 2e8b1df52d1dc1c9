package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobStore 是本地持久化面：按名字存取单个序列化块。
type BlobStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// GormBlobStore 用 state_snapshots 表实现 BlobStore。
type GormBlobStore struct {
	db *gorm.DB
}

// NewGormBlobStore 构造 GormBlobStore。
func NewGormBlobStore(gdb *gorm.DB) *GormBlobStore {
	return &GormBlobStore{db: gdb}
}

// Get 读取指定键的块，第二个返回值指示键是否存在。
func (s *GormBlobStore) Get(key string) (string, bool, error) {
	var row db.StateSnapshot
	if err := s.db.Where("key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return row.Value, true, nil
}

// Set 幂等写入指定键的块。
func (s *GormBlobStore) Set(key, value string) error {
	row := db.StateSnapshot{Key: key, Value: value}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// Remove 删除指定键的块。
func (s *GormBlobStore) Remove(key string) error {
	if err := s.db.Where("key = ?", key).Delete(&db.StateSnapshot{}).Error; err != nil {
		return fmt.Errorf("remove snapshot %s: %w", key, err)
	}
	return nil
}

// snapshotPayload 是持久化快照的解码超集：
// 既包含当前多用户结构，也保留 v1 单用户时代的 months 字段供迁移使用。
type snapshotPayload struct {
	model.AppState
	LegacyMonths map[string]model.MonthDocument `json:"months,omitempty"`
}

// migrationStep 把快照从 From 版本整体抬升到 From+1。
// 每一步都是全函数且无损：旧字段一一映射到新结构，不丢弃用户内容。
type migrationStep struct {
	From  int
	Apply func(p *snapshotPayload)
}

var migrations = []migrationStep{
	{From: 1, Apply: migrateSingleUserToProfiles},
}

// migrateSingleUserToProfiles 把 v1 单用户快照的所有月份
// 迁移到一个合成的默认档案之下。
func migrateSingleUserToProfiles(p *snapshotPayload) {
	user := model.NewUserProfile("User 1")
	p.Users = []model.UserProfile{user}
	p.SelectedUserID = user.ID

	months := p.LegacyMonths
	if months == nil {
		months = map[string]model.MonthDocument{}
	}
	p.MonthsByUser = map[string]map[string]model.MonthDocument{user.ID: months}
	p.LegacyMonths = nil
}

// SnapshotService 负责把完整应用状态序列化到本地持久化面，
// 并在加载时按版本号依次执行迁移。
type SnapshotService struct {
	blob BlobStore
}

// NewSnapshotService 构造 SnapshotService。
func NewSnapshotService(blob BlobStore) *SnapshotService {
	return &SnapshotService{blob: blob}
}

// Save 将状态树序列化写入快照键。
// AppState 本身不含瞬态连接标志，无需额外剔除。
func (s *SnapshotService) Save(state model.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.blob.Set(db.SnapshotKeyAppState, string(data))
}

// Load 读取快照并迁移到当前版本；无快照时返回 nil。
// 迁移完成后每个文档都会补齐远端标识占位并做一次规范化，
// 以回填后续版本引入的字段（周目标、心情、日记数组）。
func (s *SnapshotService) Load() (*model.AppState, error) {
	raw, ok, err := s.blob.Get(db.SnapshotKeyAppState)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var payload snapshotPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if payload.Version == 0 {
		payload.Version = 1
	}

	for _, step := range migrations {
		if payload.Version == step.From {
			step.Apply(&payload)
			payload.Version = step.From + 1
		}
	}

	state := payload.AppState
	state.Version = model.StorageVersion

	if state.MonthsByUser == nil {
		state.MonthsByUser = map[string]map[string]model.MonthDocument{}
	}

	for userID, months := range state.MonthsByUser {
		for key, doc := range months {
			if doc.RemoteID == "" {
				doc.RemoteID = model.NewID()
			}
			months[key] = model.Normalize(doc)
		}
		state.MonthsByUser[userID] = months
	}

	return &state, nil
}
