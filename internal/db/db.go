package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 打开指定路径的 sqlite 数据库。
// path 为空时回退到默认值 habitlog.db。
func Open(path string) (*gorm.DB, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = "habitlog.db"
	}

	if err := ensureParentDir(p); err != nil {
		return nil, err
	}

	return gorm.Open(sqlite.Open(p), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// MigrateLocal 为本地持久化面创建表。
func MigrateLocal(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&StateSnapshot{})
}

// MigrateRemote 为远端行存储创建表。
func MigrateRemote(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Owner{},
		&Profile{},
		&MonthRow{},
		&DailyHabitRow{},
		&DailyCheckRow{},
		&WeeklyHabitRow{},
		&WeeklyCheckRow{},
		&MonthlyHabitRow{},
		&GoalRow{},
		&WeeklyGoalRow{},
		&MoodRow{},
		&JournalRow{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
