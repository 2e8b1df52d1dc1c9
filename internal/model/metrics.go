package model

import (
	"sort"

	"github.com/habitlog/internal/calendar"
)

// HabitStat 汇总单个日习惯的完成情况。
type HabitStat struct {
	Habit      Habit   `json:"habit"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthMetrics 汇总整月的完成度指标，供图表与总结视图使用。
type MonthMetrics struct {
	DaysInMonth     int         `json:"daysInMonth"`
	TotalPossible   int         `json:"totalPossible"`
	Completed       int         `json:"completed"`
	ProgressPct     float64     `json:"progressPct"`
	DailyCounts     []int       `json:"dailyCounts"`
	PerHabitStats   []HabitStat `json:"perHabitStats"`
	TopHabits       []HabitStat `json:"topHabits"`
	WeeklyProgress  float64     `json:"weeklyProgress"`
	MonthlyProgress float64     `json:"monthlyProgress"`
}

const topHabitLimit = 10

// CalculateMonthMetrics 基于规范化后的文档计算当月指标。
// perDay 习惯按天数计算完成率，timesPerMonth 习惯按目标次数计算，
// 完成率封顶 100%。
func CalculateMonthMetrics(doc MonthDocument) MonthMetrics {
	days := calendar.MustDaysInMonth(doc.Year, doc.Month)
	dailyCounts := make([]int, days)

	perHabitStats := make([]HabitStat, 0, len(doc.DailyHabits))
	completed := 0
	totalPossible := 0

	for _, habit := range doc.DailyHabits {
		checks := doc.Checks[habit.ID]
		count := 0
		for i, checked := range checks {
			if checked {
				count++
				if i < days {
					dailyCounts[i]++
				}
			}
		}

		var pct float64
		if habit.GoalType == GoalTypePerDay {
			pct = float64(count) / float64(days) * 100
			totalPossible += days
		} else if habit.GoalValue > 0 {
			pct = float64(count) / float64(habit.GoalValue) * 100
			totalPossible += habit.GoalValue
		}
		if pct > 100 {
			pct = 100
		}

		completed += count
		perHabitStats = append(perHabitStats, HabitStat{Habit: habit, Count: count, Percentage: pct})
	}

	progressPct := 0.0
	if totalPossible > 0 {
		progressPct = float64(completed) / float64(totalPossible) * 100
	}

	topHabits := append([]HabitStat(nil), perHabitStats...)
	sort.SliceStable(topHabits, func(i, j int) bool {
		return topHabits[i].Percentage > topHabits[j].Percentage
	})
	if len(topHabits) > topHabitLimit {
		topHabits = topHabits[:topHabitLimit]
	}

	weeklyTotal := len(doc.WeeklyHabits) * WeeksPerMonth
	weeklyCompleted := 0
	for _, habit := range doc.WeeklyHabits {
		for _, checked := range habit.ChecksByWeek {
			if checked {
				weeklyCompleted++
			}
		}
	}
	weeklyProgress := 0.0
	if weeklyTotal > 0 {
		weeklyProgress = float64(weeklyCompleted) / float64(weeklyTotal) * 100
	}

	monthlyCompleted := 0
	for _, habit := range doc.MonthlyHabits {
		if habit.Checked {
			monthlyCompleted++
		}
	}
	monthlyProgress := 0.0
	if len(doc.MonthlyHabits) > 0 {
		monthlyProgress = float64(monthlyCompleted) / float64(len(doc.MonthlyHabits)) * 100
	}

	return MonthMetrics{
		DaysInMonth:     days,
		TotalPossible:   totalPossible,
		Completed:       completed,
		ProgressPct:     progressPct,
		DailyCounts:     dailyCounts,
		PerHabitStats:   perHabitStats,
		TopHabits:       topHabits,
		WeeklyProgress:  weeklyProgress,
		MonthlyProgress: monthlyProgress,
	}
}
