package model

import "github.com/habitlog/internal/calendar"

// Normalize 将文档整形为结构完整的规范形态：
// 每个日习惯的打卡数组长度等于当月天数，周打卡数组固定 5 格，
// 心情/日记数组按天数补齐，缺失的可选集合补为空集合。
// 该函数是全函数且幂等，只整形数组、从不丢弃任何实体；
// 月份越界的文档先修复到最近的合法月份再整形。
func Normalize(doc MonthDocument) MonthDocument {
	out := doc
	if out.Month < 1 {
		out.Month = 1
	} else if out.Month > 12 {
		out.Month = 12
	}
	days := calendar.MustDaysInMonth(out.Year, out.Month)

	checks := make(map[string][]bool, len(doc.DailyHabits))
	for _, habit := range doc.DailyHabits {
		current := doc.Checks[habit.ID]
		list := make([]bool, days)
		for i := 0; i < days && i < len(current); i++ {
			list[i] = current[i]
		}
		checks[habit.ID] = list
	}
	out.Checks = checks

	weekly := make([]WeeklyHabit, len(doc.WeeklyHabits))
	for i, habit := range doc.WeeklyHabits {
		list := make([]bool, WeeksPerMonth)
		for j := 0; j < WeeksPerMonth && j < len(habit.ChecksByWeek); j++ {
			list[j] = habit.ChecksByWeek[j]
		}
		habit.ChecksByWeek = list
		weekly[i] = habit
	}
	out.WeeklyHabits = weekly

	moods := make([]int, days)
	for i := range moods {
		if i < len(doc.MoodByDay) && doc.MoodByDay[i] != 0 {
			moods[i] = doc.MoodByDay[i]
		} else {
			moods[i] = DefaultMoodScore
		}
	}
	out.MoodByDay = moods

	journals := make([]string, days)
	copy(journals, doc.JournalEntries)
	out.JournalEntries = journals

	if out.DailyHabits == nil {
		out.DailyHabits = []Habit{}
	}
	if out.MonthlyHabits == nil {
		out.MonthlyHabits = []MonthlyHabit{}
	}
	if out.Goals == nil {
		out.Goals = []GoalItem{}
	}
	if out.WeeklyGoals == nil {
		out.WeeklyGoals = []WeeklyGoal{}
	}

	return out
}
