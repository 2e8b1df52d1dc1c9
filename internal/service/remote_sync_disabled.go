package service

import "github.com/habitlog/internal/model"

// DisabledRemoteSync 是纯本地模式下的空实现。
// 未配置远端不是错误：所有写穿调用直接成功，读穿恒为未命中。
type DisabledRemoteSync struct{}

// NewDisabledRemoteSync 构造空实现。
func NewDisabledRemoteSync() *DisabledRemoteSync {
	return &DisabledRemoteSync{}
}

func (*DisabledRemoteSync) Enabled() bool { return false }

func (*DisabledRemoteSync) FetchMonth(string, int, int, SyncErrorReporter) *model.MonthDocument {
	return nil
}

func (*DisabledRemoteSync) CreateMonth(string, model.MonthDocument, SyncErrorReporter) {}

func (*DisabledRemoteSync) UpsertDailyCheck(string, int, bool) error  { return nil }
func (*DisabledRemoteSync) UpsertWeeklyCheck(string, int, bool) error { return nil }
func (*DisabledRemoteSync) UpdateMonthlyCheck(string, bool) error     { return nil }
func (*DisabledRemoteSync) UpdateNotes(string, string) error          { return nil }
func (*DisabledRemoteSync) UpdateGoalDone(string, bool) error         { return nil }

func (*DisabledRemoteSync) InsertDailyHabit(string, model.Habit, int) error { return nil }
func (*DisabledRemoteSync) UpdateDailyHabitName(string, string) error       { return nil }
func (*DisabledRemoteSync) DeleteDailyHabit(string) error                   { return nil }

func (*DisabledRemoteSync) UpsertMood(string, int, int) error       { return nil }
func (*DisabledRemoteSync) UpsertJournal(string, int, string) error { return nil }

func (*DisabledRemoteSync) InsertWeeklyGoal(string, model.WeeklyGoal, int) error { return nil }
func (*DisabledRemoteSync) UpdateWeeklyGoalDone(string, bool) error              { return nil }
func (*DisabledRemoteSync) DeleteWeeklyGoal(string) error                        { return nil }

func (*DisabledRemoteSync) FetchProfiles(string) ([]model.UserProfile, error) {
	return nil, nil
}

func (*DisabledRemoteSync) CreateProfile(string, model.UserProfile) error { return nil }
