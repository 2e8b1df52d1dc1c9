package model

import "testing"

func TestNewMonthDocumentShapes(t *testing.T) {
	doc := NewMonthDocument(2024, 3)

	if doc.RemoteID == "" {
		t.Fatal("expected generated remote id")
	}
	if doc.Year != 2024 || doc.Month != 3 {
		t.Fatalf("unexpected period: %d-%d", doc.Year, doc.Month)
	}

	if len(doc.DailyHabits) == 0 || len(doc.WeeklyHabits) == 0 ||
		len(doc.MonthlyHabits) == 0 || len(doc.Goals) == 0 || len(doc.WeeklyGoals) == 0 {
		t.Fatal("expected seeded collections to be non-empty")
	}

	for _, habit := range doc.DailyHabits {
		checks, ok := doc.Checks[habit.ID]
		if !ok {
			t.Fatalf("missing check array for habit %s", habit.Name)
		}
		if len(checks) != 31 {
			t.Fatalf("expected 31 entries for %s, got %d", habit.Name, len(checks))
		}
	}

	for _, habit := range doc.WeeklyHabits {
		if len(habit.ChecksByWeek) != WeeksPerMonth {
			t.Fatalf("expected %d week slots, got %d", WeeksPerMonth, len(habit.ChecksByWeek))
		}
	}

	if len(doc.MoodByDay) != 31 || len(doc.JournalEntries) != 31 {
		t.Fatalf("expected 31 mood/journal entries, got %d/%d", len(doc.MoodByDay), len(doc.JournalEntries))
	}

	for _, goal := range doc.WeeklyGoals {
		if goal.Week < 1 || goal.Week > WeeksPerMonth {
			t.Fatalf("weekly goal week out of range: %d", goal.Week)
		}
	}

	if doc.DailyGoalTarget != defaultDailyGoalTarget {
		t.Fatalf("unexpected daily goal target %d", doc.DailyGoalTarget)
	}
}

func TestNewMonthDocumentUniqueIDs(t *testing.T) {
	a := NewMonthDocument(2024, 3)
	b := NewMonthDocument(2024, 3)

	if a.RemoteID == b.RemoteID {
		t.Fatal("expected distinct remote ids")
	}
	if a.DailyHabits[0].ID == b.DailyHabits[0].ID {
		t.Fatal("expected distinct habit ids across documents")
	}
}

func TestNewMonthDocumentAlreadyNormalized(t *testing.T) {
	doc := NewMonthDocument(2024, 2)
	normalized := Normalize(doc)

	if len(normalized.Checks[doc.DailyHabits[0].ID]) != 29 {
		t.Fatal("expected leap February to have 29 check entries")
	}
	for _, habit := range doc.DailyHabits {
		if len(doc.Checks[habit.ID]) != len(normalized.Checks[habit.ID]) {
			t.Fatal("expected factory output to already be normalized")
		}
	}
}
