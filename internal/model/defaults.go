package model

import "github.com/habitlog/internal/calendar"

// 新建月份时种子化的默认内容，与产品初始模板保持一致。
var (
	seedDailyHabits = []string{
		"Wake up before 6:00 am",
		"Beard routine",
		"Pooja",
		"Gym",
		"Diet",
		"Brush",
		"10k Steps",
		"50 Pushups",
		"Abs Workout",
		"Project",
		"Certification Course",
	}

	seedWeeklyHabits = []string{
		"Plan meals",
		"Go to grocery",
		"Create weekly to-do list",
		"Prepare outfits",
	}

	seedMonthlyHabits = []string{
		"Plan for the month ahead",
		"Evaluate goals",
		"Clear out mail",
		"Do a general house cleaning",
	}

	seedGoals = []string{
		"Go on two long walks",
		"Finish one book",
		"Meal prep every Sunday",
		"Declutter one drawer",
	}

	seedWeeklyGoals = []string{
		"Complete 3 workouts",
		"Prep lunches for the week",
		"Plan next week priorities",
		"Schedule a recovery activity",
	}
)

const defaultDailyGoalTarget = 10

// NewHabit 构造一个按日打卡的习惯。
func NewHabit(name string) Habit {
	return Habit{ID: NewID(), Name: name, GoalType: GoalTypePerDay}
}

// NewUserProfile 构造一个用户档案。
func NewUserProfile(name string) UserProfile {
	return UserProfile{ID: NewID(), Name: name}
}

// NewMonthDocument 用种子内容构造一个全新月份文档。
// 所有数组直接按规范形态初始化，标识为全局唯一的随机 ID；
// RemoteID 同样预生成，首次写远端时原样使用。
func NewMonthDocument(year, month int) MonthDocument {
	days := calendar.MustDaysInMonth(year, month)

	dailyHabits := make([]Habit, 0, len(seedDailyHabits))
	checks := make(map[string][]bool, len(seedDailyHabits))
	for _, name := range seedDailyHabits {
		habit := NewHabit(name)
		dailyHabits = append(dailyHabits, habit)
		checks[habit.ID] = make([]bool, days)
	}

	weeklyHabits := make([]WeeklyHabit, 0, len(seedWeeklyHabits))
	for _, name := range seedWeeklyHabits {
		weeklyHabits = append(weeklyHabits, WeeklyHabit{
			ID:           NewID(),
			Name:         name,
			ChecksByWeek: make([]bool, WeeksPerMonth),
		})
	}

	monthlyHabits := make([]MonthlyHabit, 0, len(seedMonthlyHabits))
	for _, name := range seedMonthlyHabits {
		monthlyHabits = append(monthlyHabits, MonthlyHabit{ID: NewID(), Name: name})
	}

	goals := make([]GoalItem, 0, len(seedGoals))
	for _, text := range seedGoals {
		goals = append(goals, GoalItem{ID: NewID(), Text: text})
	}

	weeklyGoals := make([]WeeklyGoal, 0, len(seedWeeklyGoals))
	for i, text := range seedWeeklyGoals {
		week := i + 1
		if week > WeeksPerMonth {
			week = WeeksPerMonth
		}
		weeklyGoals = append(weeklyGoals, WeeklyGoal{ID: NewID(), Text: text, Week: week})
	}

	moods := make([]int, days)
	for i := range moods {
		moods[i] = DefaultMoodScore
	}

	return MonthDocument{
		RemoteID:        NewID(),
		Year:            year,
		Month:           month,
		DailyHabits:     dailyHabits,
		Checks:          checks,
		WeeklyHabits:    weeklyHabits,
		MonthlyHabits:   monthlyHabits,
		Goals:           goals,
		WeeklyGoals:     weeklyGoals,
		MoodByDay:       moods,
		JournalEntries:  make([]string, days),
		DailyGoalTarget: defaultDailyGoalTarget,
	}
}
