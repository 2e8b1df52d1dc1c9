package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/habitlog/internal/calendar"
	"github.com/habitlog/internal/model"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	reviewSanitizer = bluemonday.UGCPolicy()
)

// ReviewDay 是月度回顾中的一天：心情评分加渲染后的日记。
type ReviewDay struct {
	Day         int    `json:"day"`
	Week        int    `json:"week"`
	Mood        int    `json:"mood"`
	JournalHTML string `json:"journalHtml"`
}

// MonthReview 是一个月的可读回顾：备注与日记按 Markdown
// 渲染为净化后的 HTML，并附整月指标。
type MonthReview struct {
	Title     string             `json:"title"`
	NotesHTML string             `json:"notesHtml"`
	Days      []ReviewDay        `json:"days"`
	Metrics   model.MonthMetrics `json:"metrics"`
}

// ReviewService 将月份文档渲染成回顾视图。
type ReviewService struct{}

// NewReviewService 构造 ReviewService。
func NewReviewService() *ReviewService {
	return &ReviewService{}
}

// RenderMonth 渲染整月回顾。输入文档应已规范化；
// 空白日记的天会被跳过，只保留写过内容的天。
func (s *ReviewService) RenderMonth(doc model.MonthDocument) (MonthReview, error) {
	review := MonthReview{
		Title:   fmt.Sprintf("%s %d", calendar.MonthName(doc.Month), doc.Year),
		Metrics: model.CalculateMonthMetrics(doc),
	}

	notesHTML, err := renderMarkdown(doc.Notes)
	if err != nil {
		return MonthReview{}, fmt.Errorf("render notes: %w", err)
	}
	review.NotesHTML = notesHTML

	for i, entry := range doc.JournalEntries {
		if strings.TrimSpace(entry) == "" {
			continue
		}

		entryHTML, err := renderMarkdown(entry)
		if err != nil {
			return MonthReview{}, fmt.Errorf("render journal day %d: %w", i+1, err)
		}

		mood := model.DefaultMoodScore
		if i < len(doc.MoodByDay) {
			mood = doc.MoodByDay[i]
		}

		review.Days = append(review.Days, ReviewDay{
			Day:         i + 1,
			Week:        calendar.WeekOfMonth(i+1, doc.Year, doc.Month),
			Mood:        mood,
			JournalHTML: entryHTML,
		})
	}

	return review, nil
}

func renderMarkdown(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return reviewSanitizer.Sanitize(buf.String()), nil
}
