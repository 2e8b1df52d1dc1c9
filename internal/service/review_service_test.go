package service

import (
	"strings"
	"testing"

	"github.com/habitlog/internal/model"
)

func TestRenderMonthSkipsBlankDays(t *testing.T) {
	svc := NewReviewService()

	doc := model.NewMonthDocument(2024, 3)
	doc.Notes = "# March focus"
	doc.JournalEntries[0] = "Slept **well** today"
	doc.JournalEntries[14] = "   "
	doc.JournalEntries[30] = "Wrapped up the month"
	doc.MoodByDay[0] = 5

	review, err := svc.RenderMonth(doc)
	if err != nil {
		t.Fatalf("RenderMonth returned error: %v", err)
	}

	if review.Title != "March 2024" {
		t.Fatalf("unexpected title: %q", review.Title)
	}
	if !strings.Contains(review.NotesHTML, "<h1") {
		t.Fatalf("expected notes rendered as markdown, got %q", review.NotesHTML)
	}

	// 只保留写过内容的天，空白日记被跳过
	if len(review.Days) != 2 {
		t.Fatalf("expected 2 review days, got %d", len(review.Days))
	}
	first := review.Days[0]
	if first.Day != 1 || first.Mood != 5 {
		t.Fatalf("unexpected first day: %+v", first)
	}
	if !strings.Contains(first.JournalHTML, "<strong>") {
		t.Fatalf("expected markdown emphasis, got %q", first.JournalHTML)
	}
	last := review.Days[1]
	if last.Day != 31 || last.Week != 5 {
		t.Fatalf("unexpected last day: %+v", last)
	}

	if review.Metrics.TotalPossible == 0 {
		t.Fatal("expected metrics computed")
	}
}

func TestRenderMonthSanitizesHTML(t *testing.T) {
	svc := NewReviewService()

	doc := model.NewMonthDocument(2024, 3)
	doc.JournalEntries[0] = `before <script>alert("x")</script> after`

	review, err := svc.RenderMonth(doc)
	if err != nil {
		t.Fatalf("RenderMonth returned error: %v", err)
	}
	if len(review.Days) != 1 {
		t.Fatalf("expected 1 review day, got %d", len(review.Days))
	}
	if strings.Contains(review.Days[0].JournalHTML, "<script>") {
		t.Fatalf("script tag survived sanitization: %q", review.Days[0].JournalHTML)
	}
	if !strings.Contains(review.Days[0].JournalHTML, "before") {
		t.Fatalf("expected text content kept, got %q", review.Days[0].JournalHTML)
	}
}
