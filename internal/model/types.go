package model

import "github.com/google/uuid"

// StorageVersion 为当前持久化快照的模式版本。
// 版本 1 为单用户结构，版本 2 引入多用户、周目标与心情/日记数组。
const StorageVersion = 2

const (
	// GoalTypePerDay 表示按自然日打卡的习惯，目标即"每天"。
	GoalTypePerDay = "perDay"
	// GoalTypeTimesPerMonth 表示按每月次数达标的习惯。
	GoalTypeTimesPerMonth = "timesPerMonth"
)

// WeeksPerMonth 为周打卡数组的固定槽位数。
// 个别月份在周一起始布局下会出现第 6 个不完整周，该周不在表示范围内。
const WeeksPerMonth = 5

// DefaultMoodScore 为心情数组的中性默认值（1-5 分制）。
const DefaultMoodScore = 3

// NewID 生成全局唯一标识，跨会话/并发用户不会冲突。
func NewID() string {
	return uuid.NewString()
}

// Habit 描述一个按日打卡的习惯。
// GoalType 为 perDay 时 GoalValue 被忽略，隐含目标为"每天"。
type Habit struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GoalType  string `json:"goalType"`
	GoalValue int    `json:"goalValue"`
}

// WeeklyHabit 描述按周打卡的习惯，固定 5 个周槽位。
type WeeklyHabit struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ChecksByWeek []bool `json:"checksByWeek"`
}

// MonthlyHabit 描述当月一次性完成的习惯。
type MonthlyHabit struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// GoalItem 是当月的自由文本目标。
type GoalItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// WeeklyGoal 是挂在某一周（1-5）下的目标。
type WeeklyGoal struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Week int    `json:"week"`
	Done bool   `json:"done"`
}

// MonthDocument 是同步的基本单元：一个用户一个自然月的全部记录。
// RemoteID 为空表示该文档从未写入远端。
// (Year, Month) 在创建后不可变，切换月份意味着寻址另一个文档。
type MonthDocument struct {
	RemoteID       string          `json:"id,omitempty"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	DailyHabits    []Habit         `json:"dailyHabits"`
	Checks         map[string][]bool `json:"checks"`
	WeeklyHabits   []WeeklyHabit   `json:"weeklyHabits"`
	MonthlyHabits  []MonthlyHabit  `json:"monthlyHabits"`
	Goals          []GoalItem      `json:"goals"`
	WeeklyGoals    []WeeklyGoal    `json:"weeklyGoals"`
	Notes          string          `json:"notes"`
	MoodByDay      []int           `json:"moodByDay"`
	JournalEntries []string        `json:"journalEntries"`
	DailyGoalTarget int            `json:"dailyGoalTarget"`
}

// UserProfile 是同一远端身份下的一个本地档案（子用户）。
type UserProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AppState 是完整的应用状态树，持久化与导入导出的对象。
// MonthsByUser 以用户 ID 为一级键、规范月份键为二级键。
type AppState struct {
	Version        int                                `json:"version"`
	SelectedYear   int                                `json:"selectedYear"`
	SelectedMonth  int                                `json:"selectedMonth"`
	SelectedUserID string                             `json:"selectedUserId"`
	Users          []UserProfile                      `json:"users"`
	MonthsByUser   map[string]map[string]MonthDocument `json:"monthsByUser"`
}

// Clone 返回文档的深拷贝，避免调用方共享内部切片。
func (d MonthDocument) Clone() MonthDocument {
	out := d

	out.DailyHabits = append([]Habit(nil), d.DailyHabits...)
	out.MonthlyHabits = append([]MonthlyHabit(nil), d.MonthlyHabits...)
	out.Goals = append([]GoalItem(nil), d.Goals...)
	out.WeeklyGoals = append([]WeeklyGoal(nil), d.WeeklyGoals...)
	out.MoodByDay = append([]int(nil), d.MoodByDay...)
	out.JournalEntries = append([]string(nil), d.JournalEntries...)

	out.Checks = make(map[string][]bool, len(d.Checks))
	for id, list := range d.Checks {
		out.Checks[id] = append([]bool(nil), list...)
	}

	out.WeeklyHabits = make([]WeeklyHabit, len(d.WeeklyHabits))
	for i, habit := range d.WeeklyHabits {
		habit.ChecksByWeek = append([]bool(nil), habit.ChecksByWeek...)
		out.WeeklyHabits[i] = habit
	}

	return out
}
