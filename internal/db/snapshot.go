package db

import "gorm.io/gorm"

// StateSnapshot 以键值形式保存序列化后的应用状态快照。
type StateSnapshot struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (StateSnapshot) TableName() string {
	return "state_snapshots"
}

// SnapshotKeyAppState 是应用状态快照的固定存储键。
const SnapshotKeyAppState = "habit-tracker-state"
