package model

import "testing"

func metricsFixture() MonthDocument {
	doc := MonthDocument{
		Year:  2024,
		Month: 4, // 30 天
		DailyHabits: []Habit{
			{ID: "h1", Name: "Gym", GoalType: GoalTypePerDay},
			{ID: "h2", Name: "Project", GoalType: GoalTypeTimesPerMonth, GoalValue: 10},
		},
		Checks: map[string][]bool{},
		WeeklyHabits: []WeeklyHabit{
			{ID: "w1", Name: "Plan meals"},
		},
		MonthlyHabits: []MonthlyHabit{
			{ID: "m1", Name: "Evaluate goals", Checked: true},
			{ID: "m2", Name: "Clear out mail"},
		},
	}
	doc = Normalize(doc)

	checks := doc.Checks["h1"]
	for i := 0; i < 15; i++ {
		checks[i] = true
	}
	for i := 0; i < 5; i++ {
		doc.Checks["h2"][i] = true
	}
	doc.WeeklyHabits[0].ChecksByWeek[0] = true
	doc.WeeklyHabits[0].ChecksByWeek[1] = true

	return doc
}

func TestCalculateMonthMetrics(t *testing.T) {
	metrics := CalculateMonthMetrics(metricsFixture())

	if metrics.DaysInMonth != 30 {
		t.Fatalf("expected 30 days, got %d", metrics.DaysInMonth)
	}
	// perDay 习惯占 30，timesPerMonth 习惯占其目标 10
	if metrics.TotalPossible != 40 {
		t.Fatalf("expected total possible 40, got %d", metrics.TotalPossible)
	}
	if metrics.Completed != 20 {
		t.Fatalf("expected 20 completed, got %d", metrics.Completed)
	}
	if metrics.ProgressPct != 50 {
		t.Fatalf("expected 50%% progress, got %f", metrics.ProgressPct)
	}

	if len(metrics.PerHabitStats) != 2 {
		t.Fatalf("expected 2 habit stats, got %d", len(metrics.PerHabitStats))
	}
	if metrics.PerHabitStats[0].Percentage != 50 {
		t.Fatalf("expected 50%% for perDay habit, got %f", metrics.PerHabitStats[0].Percentage)
	}
	if metrics.PerHabitStats[1].Percentage != 50 {
		t.Fatalf("expected 50%% for timesPerMonth habit, got %f", metrics.PerHabitStats[1].Percentage)
	}

	// 前 5 天两个习惯都完成
	for i := 0; i < 5; i++ {
		if metrics.DailyCounts[i] != 2 {
			t.Fatalf("expected 2 completions on day %d, got %d", i+1, metrics.DailyCounts[i])
		}
	}
	if metrics.DailyCounts[10] != 1 {
		t.Fatalf("expected 1 completion on day 11, got %d", metrics.DailyCounts[10])
	}

	if metrics.WeeklyProgress != 40 {
		t.Fatalf("expected 40%% weekly progress, got %f", metrics.WeeklyProgress)
	}
	if metrics.MonthlyProgress != 50 {
		t.Fatalf("expected 50%% monthly progress, got %f", metrics.MonthlyProgress)
	}
}

func TestCalculateMonthMetricsCapsPercentage(t *testing.T) {
	doc := Normalize(MonthDocument{
		Year:  2024,
		Month: 4,
		DailyHabits: []Habit{
			{ID: "h1", Name: "Project", GoalType: GoalTypeTimesPerMonth, GoalValue: 2},
		},
	})
	for i := 0; i < 10; i++ {
		doc.Checks["h1"][i] = true
	}

	metrics := CalculateMonthMetrics(doc)
	if metrics.PerHabitStats[0].Percentage != 100 {
		t.Fatalf("expected capped 100%%, got %f", metrics.PerHabitStats[0].Percentage)
	}
}

func TestCalculateMonthMetricsEmpty(t *testing.T) {
	metrics := CalculateMonthMetrics(Normalize(MonthDocument{Year: 2024, Month: 4}))

	if metrics.ProgressPct != 0 || metrics.WeeklyProgress != 0 || metrics.MonthlyProgress != 0 {
		t.Fatal("expected zero progress for empty document")
	}
	if len(metrics.TopHabits) != 0 {
		t.Fatalf("expected no top habits, got %d", len(metrics.TopHabits))
	}
}
