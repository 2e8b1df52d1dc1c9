package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/calendar"
	"github.com/habitlog/internal/model"
	"github.com/habitlog/internal/service"
)

// SelectPeriod 切换当前年月并确保目标月份就绪。
func (a *API) SelectPeriod(c *gin.Context) {
	var payload struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if err := a.state.SetSelectedMonthYear(payload.Year, payload.Month); err != nil {
		if errors.Is(err, calendar.ErrMonthOutOfRange) {
			respondError(c, http.StatusBadRequest, "无效的月份")
			return
		}
		handleStateError(c, err)
		return
	}

	doc, err := a.state.CurrentMonth()
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// GetCurrentMonth 返回当前选中 (用户, 年月) 的文档，必要时物化。
func (a *API) GetCurrentMonth(c *gin.Context) {
	doc, err := a.state.CurrentMonth()
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// RefreshCurrentMonth 强制从远端重新读穿当前月份。
func (a *API) RefreshCurrentMonth(c *gin.Context) {
	state := a.state.State()
	doc, err := a.state.RefreshMonth(state.SelectedYear, state.SelectedMonth)
	if err != nil {
		handleStateError(c, err)
		return
	}
	if doc == nil {
		c.JSON(http.StatusOK, gin.H{"refreshed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": true, "month": doc})
}

// GetMonthMetrics 返回当前月份的完成度指标。
func (a *API) GetMonthMetrics(c *gin.Context) {
	doc, err := a.state.CurrentMonth()
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": model.CalculateMonthMetrics(doc)})
}

// GetMonthReview 返回当前月份的回顾视图（Markdown 渲染为净化 HTML）。
func (a *API) GetMonthReview(c *gin.Context) {
	doc, err := a.state.CurrentMonth()
	if err != nil {
		handleStateError(c, err)
		return
	}

	review, err := a.reviews.RenderMonth(doc)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "生成月度回顾失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// UpdateNotes 更新当月备注。
func (a *API) UpdateNotes(c *gin.Context) {
	var payload struct {
		Notes string `json:"notes"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	doc, err := a.state.UpdateNotes(payload.Notes)
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// SetMood 记录某天的心情评分（1-5）。
func (a *API) SetMood(c *gin.Context) {
	var payload struct {
		DayIndex int `json:"dayIndex"`
		Score    int `json:"score"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if payload.Score < 1 || payload.Score > 5 {
		respondError(c, http.StatusBadRequest, "心情评分应在 1-5 之间")
		return
	}
	if !a.validDayIndex(payload.DayIndex) {
		respondError(c, http.StatusBadRequest, "无效的日期索引")
		return
	}

	doc, err := a.state.SetMoodForDay(payload.DayIndex, payload.Score)
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// UpdateJournal 更新某天的日记。
func (a *API) UpdateJournal(c *gin.Context) {
	var payload struct {
		DayIndex int    `json:"dayIndex"`
		Entry    string `json:"entry"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if !a.validDayIndex(payload.DayIndex) {
		respondError(c, http.StatusBadRequest, "无效的日期索引")
		return
	}

	doc, err := a.state.UpdateJournalEntry(payload.DayIndex, payload.Entry)
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// validDayIndex 校验 0 基日索引是否落在当前选中月份内。
func (a *API) validDayIndex(dayIndex int) bool {
	state := a.state.State()
	days, err := calendar.DaysInMonth(state.SelectedYear, state.SelectedMonth)
	if err != nil {
		return false
	}
	return dayIndex >= 0 && dayIndex < days
}

func handleStateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoUserSelected):
		respondError(c, http.StatusConflict, "尚未选择用户，请先完成会话引导")
	case errors.Is(err, service.ErrEmptyName):
		respondError(c, http.StatusBadRequest, "名称不能为空")
	case errors.Is(err, calendar.ErrMonthOutOfRange):
		respondError(c, http.StatusBadRequest, "无效的月份")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
