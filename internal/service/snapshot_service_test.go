package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openLocalTestDB 打开一个独立命名的内存库并建好快照表。
func openLocalTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.MigrateLocal(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestSnapshotLoadMissing(t *testing.T) {
	svc := NewSnapshotService(NewGormBlobStore(openLocalTestDB(t, "snap_missing")))

	state, err := svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil for missing snapshot, got %+v", state)
	}
}

func TestSnapshotSaveLoadRoundtrip(t *testing.T) {
	svc := NewSnapshotService(NewGormBlobStore(openLocalTestDB(t, "snap_roundtrip")))

	user := model.NewUserProfile("Alice")
	doc := model.NewMonthDocument(2024, 3)
	doc.Notes = "hello"
	doc.Checks[doc.DailyHabits[0].ID][4] = true

	state := model.AppState{
		Version:        model.StorageVersion,
		SelectedYear:   2024,
		SelectedMonth:  3,
		SelectedUserID: user.ID,
		Users:          []model.UserProfile{user},
		MonthsByUser: map[string]map[string]model.MonthDocument{
			user.ID: {"2024-03": doc},
		},
	}

	if err := svc.Save(state); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected snapshot after Save")
	}
	if loaded.SelectedUserID != user.ID || loaded.SelectedYear != 2024 || loaded.SelectedMonth != 3 {
		t.Fatalf("selection not preserved: %+v", loaded)
	}

	got, ok := loaded.MonthsByUser[user.ID]["2024-03"]
	if !ok {
		t.Fatal("expected month document under user")
	}
	if got.Notes != "hello" {
		t.Fatalf("notes not preserved: %q", got.Notes)
	}
	if !got.Checks[doc.DailyHabits[0].ID][4] {
		t.Fatal("check cell not preserved")
	}
}

func TestSnapshotMigratesLegacySingleUser(t *testing.T) {
	blob := NewGormBlobStore(openLocalTestDB(t, "snap_legacy"))
	svc := NewSnapshotService(blob)

	// 版本 1 的单用户快照：月份直接挂在根上，打卡数组长度不规范
	legacy := `{
		"version": 1,
		"selectedYear": 2023,
		"selectedMonth": 2,
		"months": {
			"2023-02": {
				"year": 2023,
				"month": 2,
				"dailyHabits": [{"id": "h1", "name": "Gym", "goalType": "perDay", "goalValue": 0}],
				"checks": {"h1": [true, true]},
				"notes": "legacy notes"
			}
		}
	}`
	if err := blob.Set(db.SnapshotKeyAppState, legacy); err != nil {
		t.Fatalf("seed legacy snapshot: %v", err)
	}

	state, err := svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if state == nil {
		t.Fatal("expected migrated snapshot")
	}

	if state.Version != model.StorageVersion {
		t.Fatalf("expected version %d, got %d", model.StorageVersion, state.Version)
	}
	if len(state.Users) != 1 || state.Users[0].Name != "User 1" {
		t.Fatalf("expected synthesized default profile, got %+v", state.Users)
	}
	if state.SelectedUserID != state.Users[0].ID {
		t.Fatal("expected synthesized profile selected")
	}

	doc, ok := state.MonthsByUser[state.Users[0].ID]["2023-02"]
	if !ok {
		t.Fatal("expected legacy month under synthesized profile")
	}
	if doc.Notes != "legacy notes" {
		t.Fatalf("notes lost in migration: %q", doc.Notes)
	}
	if len(doc.DailyHabits) != 1 || doc.DailyHabits[0].Name != "Gym" {
		t.Fatalf("habits lost in migration: %+v", doc.DailyHabits)
	}
	// 迁移后文档已规范化：打卡数组补齐到月长，既有值保留
	checks := doc.Checks["h1"]
	if len(checks) != 28 {
		t.Fatalf("expected 28 slots for Feb 2023, got %d", len(checks))
	}
	if !checks[0] || !checks[1] {
		t.Fatal("existing check values lost in migration")
	}
	if doc.RemoteID == "" {
		t.Fatal("expected remote id backfilled")
	}
	if len(doc.MoodByDay) != 28 || doc.MoodByDay[0] != model.DefaultMoodScore {
		t.Fatalf("expected default moods backfilled, got %v", doc.MoodByDay)
	}
}

func TestSnapshotLoadRepairsOutOfRangeMonth(t *testing.T) {
	blob := NewGormBlobStore(openLocalTestDB(t, "snap_range"))
	svc := NewSnapshotService(blob)

	// 手工编辑过的快照可能携带非法月份，加载必须修复而非崩溃
	hostile := `{
		"version": 2,
		"selectedYear": 2024,
		"selectedMonth": 3,
		"selectedUserId": "u1",
		"users": [{"id": "u1", "name": "Solo"}],
		"monthsByUser": {
			"u1": {
				"2024-13": {
					"year": 2024,
					"month": 13,
					"dailyHabits": [{"id": "h1", "name": "Gym", "goalType": "perDay", "goalValue": 0}],
					"checks": {"h1": [true]},
					"notes": "edge"
				}
			}
		}
	}`
	if err := blob.Set(db.SnapshotKeyAppState, hostile); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	state, err := svc.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if state == nil {
		t.Fatal("expected snapshot loaded")
	}

	doc, ok := state.MonthsByUser["u1"]["2024-13"]
	if !ok {
		t.Fatal("expected document kept under its key")
	}
	if doc.Month != 12 {
		t.Fatalf("expected month repaired to 12, got %d", doc.Month)
	}
	if len(doc.Checks["h1"]) != 31 || !doc.Checks["h1"][0] {
		t.Fatalf("expected repaired 31-slot checks with values kept, got %v", doc.Checks["h1"])
	}
	if doc.Notes != "edge" {
		t.Fatalf("notes lost during repair: %q", doc.Notes)
	}
}

func TestSnapshotLoadCorrupt(t *testing.T) {
	blob := NewGormBlobStore(openLocalTestDB(t, "snap_corrupt"))
	svc := NewSnapshotService(blob)

	if err := blob.Set(db.SnapshotKeyAppState, "{not json"); err != nil {
		t.Fatalf("seed corrupt snapshot: %v", err)
	}

	_, err := svc.Load()
	if err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
	if !strings.Contains(err.Error(), "decode snapshot") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBlobStoreSetIsIdempotent(t *testing.T) {
	blob := NewGormBlobStore(openLocalTestDB(t, "snap_blob"))

	if err := blob.Set("k", "v1"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := blob.Set("k", "v2"); err != nil {
		t.Fatalf("Set replay returned error: %v", err)
	}

	value, ok, err := blob.Get("k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok || value != "v2" {
		t.Fatalf("expected latest value, got ok=%v value=%q", ok, value)
	}

	if err := blob.Remove("k"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, ok, _ := blob.Get("k"); ok {
		t.Fatal("expected key removed")
	}
}
