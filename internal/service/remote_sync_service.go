package service

import (
	"errors"
	"fmt"

	"github.com/habitlog/internal/calendar"
	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncErrorReporter 接收一条带上下文的同步告警。
// 读写远端过程中任何单表失败都通过它上报，不中断其余操作。
type SyncErrorReporter func(context string, err error)

// RemoteSync 抽象远端行存储的读穿/写穿能力。
// 本地快照仓库只依赖该接口；未配置远端时注入 disabled 实现。
type RemoteSync interface {
	Enabled() bool

	FetchMonth(profileID string, year, month int, report SyncErrorReporter) *model.MonthDocument
	CreateMonth(profileID string, doc model.MonthDocument, report SyncErrorReporter)

	UpsertDailyCheck(habitID string, day int, checked bool) error
	UpsertWeeklyCheck(habitID string, week int, checked bool) error
	UpdateMonthlyCheck(habitID string, checked bool) error
	UpdateNotes(monthID, notes string) error
	UpdateGoalDone(goalID string, done bool) error
	InsertDailyHabit(monthID string, habit model.Habit, sortOrder int) error
	UpdateDailyHabitName(habitID, name string) error
	DeleteDailyHabit(habitID string) error
	UpsertMood(monthID string, day, score int) error
	UpsertJournal(monthID string, day int, entry string) error
	InsertWeeklyGoal(monthID string, goal model.WeeklyGoal, sortOrder int) error
	UpdateWeeklyGoalDone(goalID string, done bool) error
	DeleteWeeklyGoal(goalID string) error

	FetchProfiles(ownerID string) ([]model.UserProfile, error)
	CreateProfile(ownerID string, profile model.UserProfile) error
}

// RemoteSyncService 基于 gorm 行存储实现 RemoteSync。
// 每个变更对应单表上的一次幂等 upsert/update/insert/delete，
// 不做跨表事务，某张表失败不回滚其它表。
type RemoteSyncService struct {
	db *gorm.DB
}

// NewRemoteSyncService 构造 RemoteSyncService。
func NewRemoteSyncService(gdb *gorm.DB) *RemoteSyncService {
	return &RemoteSyncService{db: gdb}
}

// Enabled 恒为 true，本实现总是连接到已配置的远端。
func (s *RemoteSyncService) Enabled() bool { return true }

// FetchMonth 读穿：取出月主行并装配子表行为一个规范化文档。
// 月主行不存在不是错误，返回 nil 表示远端尚未创建；
// 子表单独失败仅上报告警并跳过，残缺数据优于没有数据。
func (s *RemoteSyncService) FetchMonth(profileID string, year, month int, report SyncErrorReporter) *model.MonthDocument {
	var monthRow db.MonthRow
	err := s.db.Where("profile_id = ? AND year = ? AND month = ?", profileID, year, month).
		First(&monthRow).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && report != nil {
			report("加载月份", err)
		}
		return nil
	}

	days := calendar.MustDaysInMonth(year, month)

	doc := model.MonthDocument{
		RemoteID:        monthRow.ID,
		Year:            monthRow.Year,
		Month:           monthRow.Month,
		Notes:           monthRow.Notes,
		DailyGoalTarget: monthRow.DailyGoalTarget,
		Checks:          map[string][]bool{},
	}

	var habitRows []db.DailyHabitRow
	if err := s.db.Where("month_id = ?", monthRow.ID).Order("sort_order").
		Find(&habitRows).Error; err != nil {
		reportIf(report, "加载日习惯", err)
	}
	habitIDs := make([]string, 0, len(habitRows))
	for _, row := range habitRows {
		doc.DailyHabits = append(doc.DailyHabits, model.Habit{
			ID:        row.ID,
			Name:      row.Name,
			GoalType:  row.GoalType,
			GoalValue: row.GoalValue,
		})
		doc.Checks[row.ID] = make([]bool, days)
		habitIDs = append(habitIDs, row.ID)
	}

	if len(habitIDs) > 0 {
		var checkRows []db.DailyCheckRow
		if err := s.db.Where("habit_id IN ?", habitIDs).Find(&checkRows).Error; err != nil {
			reportIf(report, "加载日打卡", err)
		}
		for _, row := range checkRows {
			if list, ok := doc.Checks[row.HabitID]; ok && row.Day >= 1 && row.Day <= days {
				list[row.Day-1] = row.Checked
			}
		}
	}

	var weeklyRows []db.WeeklyHabitRow
	if err := s.db.Where("month_id = ?", monthRow.ID).Order("sort_order").
		Find(&weeklyRows).Error; err != nil {
		reportIf(report, "加载周习惯", err)
	}
	weeklyIDs := make([]string, 0, len(weeklyRows))
	weeklyIndex := make(map[string]int, len(weeklyRows))
	for i, row := range weeklyRows {
		doc.WeeklyHabits = append(doc.WeeklyHabits, model.WeeklyHabit{
			ID:           row.ID,
			Name:         row.Name,
			ChecksByWeek: make([]bool, model.WeeksPerMonth),
		})
		weeklyIDs = append(weeklyIDs, row.ID)
		weeklyIndex[row.ID] = i
	}

	if len(weeklyIDs) > 0 {
		var checkRows []db.WeeklyCheckRow
		if err := s.db.Where("habit_id IN ?", weeklyIDs).Find(&checkRows).Error; err != nil {
			reportIf(report, "加载周打卡", err)
		}
		for _, row := range checkRows {
			if i, ok := weeklyIndex[row.HabitID]; ok && row.Week >= 1 && row.Week <= model.WeeksPerMonth {
				doc.WeeklyHabits[i].ChecksByWeek[row.Week-1] = row.Checked
			}
		}
	}

	var monthlyRows []db.MonthlyHabitRow
	if err := s.db.Where("month_id = ?", monthRow.ID).Order("sort_order").
		Find(&monthlyRows).Error; err != nil {
		reportIf(report, "加载月习惯", err)
	}
	for _, row := range monthlyRows {
		doc.MonthlyHabits = append(doc.MonthlyHabits, model.MonthlyHabit{
			ID:      row.ID,
			Name:    row.Name,
			Checked: row.Checked,
		})
	}

	var goalRows []db.GoalRow
	if err := s.db.Where("month_id = ?", monthRow.ID).Order("sort_order").
		Find(&goalRows).Error; err != nil {
		reportIf(report, "加载目标", err)
	}
	for _, row := range goalRows {
		doc.Goals = append(doc.Goals, model.GoalItem{ID: row.ID, Text: row.Text, Done: row.Done})
	}

	var weeklyGoalRows []db.WeeklyGoalRow
	if err := s.db.Where("month_id = ?", monthRow.ID).Order("sort_order").
		Find(&weeklyGoalRows).Error; err != nil {
		reportIf(report, "加载周目标", err)
	}
	for _, row := range weeklyGoalRows {
		doc.WeeklyGoals = append(doc.WeeklyGoals, model.WeeklyGoal{
			ID:   row.ID,
			Text: row.Text,
			Week: row.Week,
			Done: row.Done,
		})
	}

	doc.MoodByDay = make([]int, days)
	var moodRows []db.MoodRow
	if err := s.db.Where("month_id = ?", monthRow.ID).Find(&moodRows).Error; err != nil {
		reportIf(report, "加载心情", err)
	}
	for _, row := range moodRows {
		if row.Day >= 1 && row.Day <= days {
			doc.MoodByDay[row.Day-1] = row.Score
		}
	}

	doc.JournalEntries = make([]string, days)
	var journalRows []db.JournalRow
	if err := s.db.Where("month_id = ?", monthRow.ID).Find(&journalRows).Error; err != nil {
		reportIf(report, "加载日记", err)
	}
	for _, row := range journalRows {
		if row.Day >= 1 && row.Day <= days {
			doc.JournalEntries[row.Day-1] = row.Entry
		}
	}

	normalized := model.Normalize(doc)
	return &normalized
}

// CreateMonth 写穿一个新建文档：月主行 upsert，子表逐张批量插入。
// 各表独立提交，失败仅上报告警。
func (s *RemoteSyncService) CreateMonth(profileID string, doc model.MonthDocument, report SyncErrorReporter) {
	if doc.RemoteID == "" {
		return
	}

	monthRow := db.MonthRow{
		ID:              doc.RemoteID,
		ProfileID:       profileID,
		Year:            doc.Year,
		Month:           doc.Month,
		Notes:           doc.Notes,
		DailyGoalTarget: doc.DailyGoalTarget,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"notes", "daily_goal_target", "updated_at"}),
	}).Create(&monthRow).Error; err != nil {
		reportIf(report, "创建月份", err)
	}

	if len(doc.DailyHabits) > 0 {
		rows := make([]db.DailyHabitRow, 0, len(doc.DailyHabits))
		for i, habit := range doc.DailyHabits {
			rows = append(rows, db.DailyHabitRow{
				ID:        habit.ID,
				MonthID:   doc.RemoteID,
				Name:      habit.Name,
				GoalType:  habit.GoalType,
				GoalValue: habit.GoalValue,
				SortOrder: i,
			})
		}
		if err := s.db.Create(&rows).Error; err != nil {
			reportIf(report, "创建日习惯", err)
		}
	}

	if len(doc.WeeklyHabits) > 0 {
		rows := make([]db.WeeklyHabitRow, 0, len(doc.WeeklyHabits))
		for i, habit := range doc.WeeklyHabits {
			rows = append(rows, db.WeeklyHabitRow{
				ID:        habit.ID,
				MonthID:   doc.RemoteID,
				Name:      habit.Name,
				SortOrder: i,
			})
		}
		if err := s.db.Create(&rows).Error; err != nil {
			reportIf(report, "创建周习惯", err)
		}
	}

	if len(doc.MonthlyHabits) > 0 {
		rows := make([]db.MonthlyHabitRow, 0, len(doc.MonthlyHabits))
		for i, habit := range doc.MonthlyHabits {
			rows = append(rows, db.MonthlyHabitRow{
				ID:        habit.ID,
				MonthID:   doc.RemoteID,
				Name:      habit.Name,
				Checked:   habit.Checked,
				SortOrder: i,
			})
		}
		if err := s.db.Create(&rows).Error; err != nil {
			reportIf(report, "创建月习惯", err)
		}
	}

	if len(doc.Goals) > 0 {
		rows := make([]db.GoalRow, 0, len(doc.Goals))
		for i, goal := range doc.Goals {
			rows = append(rows, db.GoalRow{
				ID:        goal.ID,
				MonthID:   doc.RemoteID,
				Text:      goal.Text,
				Done:      goal.Done,
				SortOrder: i,
			})
		}
		if err := s.db.Create(&rows).Error; err != nil {
			reportIf(report, "创建目标", err)
		}
	}

	if len(doc.WeeklyGoals) > 0 {
		rows := make([]db.WeeklyGoalRow, 0, len(doc.WeeklyGoals))
		for i, goal := range doc.WeeklyGoals {
			rows = append(rows, db.WeeklyGoalRow{
				ID:        goal.ID,
				MonthID:   doc.RemoteID,
				Text:      goal.Text,
				Week:      goal.Week,
				Done:      goal.Done,
				SortOrder: i,
			})
		}
		if err := s.db.Create(&rows).Error; err != nil {
			reportIf(report, "创建周目标", err)
		}
	}
}

// UpsertDailyCheck 以 (habit_id, day) 为键幂等写入一格日打卡。
func (s *RemoteSyncService) UpsertDailyCheck(habitID string, day int, checked bool) error {
	row := db.DailyCheckRow{HabitID: habitID, Day: day, Checked: checked}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "habit_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"checked":    checked,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert daily check: %w", err)
	}
	return nil
}

// UpsertWeeklyCheck 以 (habit_id, week) 为键幂等写入一格周打卡。
func (s *RemoteSyncService) UpsertWeeklyCheck(habitID string, week int, checked bool) error {
	row := db.WeeklyCheckRow{HabitID: habitID, Week: week, Checked: checked}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "habit_id"}, {Name: "week"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"checked":    checked,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert weekly check: %w", err)
	}
	return nil
}

// UpdateMonthlyCheck 更新月习惯行的勾选状态。
func (s *RemoteSyncService) UpdateMonthlyCheck(habitID string, checked bool) error {
	if err := s.db.Model(&db.MonthlyHabitRow{}).Where("id = ?", habitID).
		Update("checked", checked).Error; err != nil {
		return fmt.Errorf("update monthly habit: %w", err)
	}
	return nil
}

// UpdateNotes 更新月主行的备注。
func (s *RemoteSyncService) UpdateNotes(monthID, notes string) error {
	if err := s.db.Model(&db.MonthRow{}).Where("id = ?", monthID).
		Update("notes", notes).Error; err != nil {
		return fmt.Errorf("update month notes: %w", err)
	}
	return nil
}

// UpdateGoalDone 更新目标完成状态。
func (s *RemoteSyncService) UpdateGoalDone(goalID string, done bool) error {
	if err := s.db.Model(&db.GoalRow{}).Where("id = ?", goalID).
		Update("done", done).Error; err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// InsertDailyHabit 插入新的日习惯定义行。
func (s *RemoteSyncService) InsertDailyHabit(monthID string, habit model.Habit, sortOrder int) error {
	row := db.DailyHabitRow{
		ID:        habit.ID,
		MonthID:   monthID,
		Name:      habit.Name,
		GoalType:  habit.GoalType,
		GoalValue: habit.GoalValue,
		SortOrder: sortOrder,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("insert daily habit: %w", err)
	}
	return nil
}

// UpdateDailyHabitName 更新日习惯名称。
func (s *RemoteSyncService) UpdateDailyHabitName(habitID, name string) error {
	if err := s.db.Model(&db.DailyHabitRow{}).Where("id = ?", habitID).
		Update("name", name).Error; err != nil {
		return fmt.Errorf("rename daily habit: %w", err)
	}
	return nil
}

// DeleteDailyHabit 删除日习惯定义行及其打卡行。
func (s *RemoteSyncService) DeleteDailyHabit(habitID string) error {
	if err := s.db.Where("habit_id = ?", habitID).Delete(&db.DailyCheckRow{}).Error; err != nil {
		return fmt.Errorf("delete daily checks: %w", err)
	}
	if err := s.db.Where("id = ?", habitID).Delete(&db.DailyHabitRow{}).Error; err != nil {
		return fmt.Errorf("delete daily habit: %w", err)
	}
	return nil
}

// UpsertMood 以 (month_id, day) 为键幂等写入一天的心情评分。
func (s *RemoteSyncService) UpsertMood(monthID string, day, score int) error {
	row := db.MoodRow{MonthID: monthID, Day: day, Score: score}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "month_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      score,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert mood: %w", err)
	}
	return nil
}

// UpsertJournal 以 (month_id, day) 为键幂等写入一天的日记。
func (s *RemoteSyncService) UpsertJournal(monthID string, day int, entry string) error {
	row := db.JournalRow{MonthID: monthID, Day: day, Entry: entry}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "month_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"entry":      entry,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert journal: %w", err)
	}
	return nil
}

// InsertWeeklyGoal 插入新的周目标行。
func (s *RemoteSyncService) InsertWeeklyGoal(monthID string, goal model.WeeklyGoal, sortOrder int) error {
	row := db.WeeklyGoalRow{
		ID:        goal.ID,
		MonthID:   monthID,
		Text:      goal.Text,
		Week:      goal.Week,
		Done:      goal.Done,
		SortOrder: sortOrder,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("insert weekly goal: %w", err)
	}
	return nil
}

// UpdateWeeklyGoalDone 更新周目标完成状态。
func (s *RemoteSyncService) UpdateWeeklyGoalDone(goalID string, done bool) error {
	if err := s.db.Model(&db.WeeklyGoalRow{}).Where("id = ?", goalID).
		Update("done", done).Error; err != nil {
		return fmt.Errorf("update weekly goal: %w", err)
	}
	return nil
}

// DeleteWeeklyGoal 删除周目标行。
func (s *RemoteSyncService) DeleteWeeklyGoal(goalID string) error {
	if err := s.db.Where("id = ?", goalID).Delete(&db.WeeklyGoalRow{}).Error; err != nil {
		return fmt.Errorf("delete weekly goal: %w", err)
	}
	return nil
}

// FetchProfiles 返回某身份下的全部档案，按创建时间排序。
func (s *RemoteSyncService) FetchProfiles(ownerID string) ([]model.UserProfile, error) {
	var rows []db.Profile
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	users := make([]model.UserProfile, 0, len(rows))
	for _, row := range rows {
		users = append(users, model.UserProfile{ID: row.ID, Name: row.Name})
	}
	return users, nil
}

// CreateProfile 在某身份下创建档案。
func (s *RemoteSyncService) CreateProfile(ownerID string, profile model.UserProfile) error {
	row := db.Profile{ID: profile.ID, OwnerID: ownerID, Name: profile.Name}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func reportIf(report SyncErrorReporter, context string, err error) {
	if report != nil && err != nil {
		report(context, err)
	}
}
