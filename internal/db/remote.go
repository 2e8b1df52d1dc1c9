package db

import "time"

// Owner 是一个匿名远端身份，SecretHash 存放认领口令的 bcrypt 哈希。
type Owner struct {
	ID         string `gorm:"primaryKey;size:36"`
	SecretHash string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Profile 是挂在某个身份下的本地档案（子用户）。
type Profile struct {
	ID        string `gorm:"primaryKey;size:36"`
	OwnerID   string `gorm:"index;size:36"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MonthRow 是某档案某自然月的主行，子表都以 month_id 关联。
// (profile_id, year, month) 唯一，保证同一档案同一月份只有一行。
type MonthRow struct {
	ID              string `gorm:"primaryKey;size:36"`
	ProfileID       string `gorm:"index;index:idx_months_period,unique;size:36"`
	Year            int    `gorm:"index:idx_months_period,unique"`
	Month           int    `gorm:"index:idx_months_period,unique"`
	Notes           string `gorm:"type:text"`
	DailyGoalTarget int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (MonthRow) TableName() string { return "months" }

// DailyHabitRow 是日习惯定义行。
type DailyHabitRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	MonthID   string `gorm:"index;size:36"`
	Name      string
	GoalType  string
	GoalValue int
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DailyHabitRow) TableName() string { return "daily_habits" }

// DailyCheckRow 记录某习惯某天的勾选状态。
// (habit_id, day) 唯一索引支撑幂等 upsert，重放同一格的切换是安全的。
type DailyCheckRow struct {
	ID        uint   `gorm:"primaryKey"`
	HabitID   string `gorm:"index;index:idx_daily_checks_cell,unique;size:36"`
	Day       int    `gorm:"index:idx_daily_checks_cell,unique"`
	Checked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DailyCheckRow) TableName() string { return "daily_checks" }

// WeeklyHabitRow 是周习惯定义行。
type WeeklyHabitRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	MonthID   string `gorm:"index;size:36"`
	Name      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WeeklyHabitRow) TableName() string { return "weekly_habits" }

// WeeklyCheckRow 记录某周习惯某周的勾选状态，(habit_id, week) 唯一。
type WeeklyCheckRow struct {
	ID        uint   `gorm:"primaryKey"`
	HabitID   string `gorm:"index;index:idx_weekly_checks_cell,unique;size:36"`
	Week      int    `gorm:"index:idx_weekly_checks_cell,unique"`
	Checked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WeeklyCheckRow) TableName() string { return "weekly_checks" }

// MonthlyHabitRow 是月习惯行，勾选状态直接存在本行。
type MonthlyHabitRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	MonthID   string `gorm:"index;size:36"`
	Name      string
	Checked   bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MonthlyHabitRow) TableName() string { return "monthly_habits" }

// GoalRow 是月目标行。
type GoalRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	MonthID   string `gorm:"index;size:36"`
	Text      string `gorm:"type:text"`
	Done      bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GoalRow) TableName() string { return "goals" }

// WeeklyGoalRow 是周目标行，Week 取值 1-5。
type WeeklyGoalRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	MonthID   string `gorm:"index;size:36"`
	Text      string `gorm:"type:text"`
	Week      int
	Done      bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WeeklyGoalRow) TableName() string { return "weekly_goals" }

// MoodRow 记录某月某天的心情评分，(month_id, day) 唯一。
type MoodRow struct {
	ID        uint   `gorm:"primaryKey"`
	MonthID   string `gorm:"index;index:idx_moods_cell,unique;size:36"`
	Day       int    `gorm:"index:idx_moods_cell,unique"`
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MoodRow) TableName() string { return "moods" }

// JournalRow 记录某月某天的日记，(month_id, day) 唯一。
type JournalRow struct {
	ID        uint   `gorm:"primaryKey"`
	MonthID   string `gorm:"index;index:idx_journals_cell,unique;size:36"`
	Day       int    `gorm:"index:idx_journals_cell,unique"`
	Entry     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (JournalRow) TableName() string { return "journals" }
