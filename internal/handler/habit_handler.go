package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/model"
)

// ToggleDailyCheck 翻转某日习惯某天的勾选。
func (a *API) ToggleDailyCheck(c *gin.Context) {
	var payload struct {
		HabitID  string `json:"habitId"`
		DayIndex int    `json:"dayIndex"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if payload.HabitID == "" {
		respondError(c, http.StatusBadRequest, "缺少习惯ID")
		return
	}
	if !a.validDayIndex(payload.DayIndex) {
		respondError(c, http.StatusBadRequest, "无效的日期索引")
		return
	}

	doc, err := a.state.ToggleDailyCheck(payload.HabitID, payload.DayIndex)
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// ToggleWeeklyCheck 翻转某周习惯某周的勾选。
func (a *API) ToggleWeeklyCheck(c *gin.Context) {
	var payload struct {
		HabitID   string `json:"habitId"`
		WeekIndex int    `json:"weekIndex"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if payload.HabitID == "" {
		respondError(c, http.StatusBadRequest, "缺少习惯ID")
		return
	}
	if payload.WeekIndex < 0 || payload.WeekIndex >= model.WeeksPerMonth {
		respondError(c, http.StatusBadRequest, "无效的周索引")
		return
	}

	doc, err := a.state.ToggleWeeklyCheck(payload.HabitID, payload.WeekIndex)
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// ToggleMonthlyCheck 翻转某月习惯的勾选。
func (a *API) ToggleMonthlyCheck(c *gin.Context) {
	var payload struct {
		HabitID string `json:"habitId"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	if payload.HabitID == "" {
		respondError(c, http.StatusBadRequest, "缺少习惯ID")
		return
	}

	doc, err := a.state.ToggleMonthlyCheck(payload.HabitID)
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// AddDailyHabit 新增日习惯。
func (a *API) AddDailyHabit(c *gin.Context) {
	var payload struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	doc, err := a.state.AddDailyHabit(payload.Name)
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// RenameDailyHabit 重命名日习惯。
func (a *API) RenameDailyHabit(c *gin.Context) {
	var payload struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	doc, err := a.state.RenameDailyHabit(c.Param("id"), payload.Name)
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// RemoveDailyHabit 删除日习惯。
func (a *API) RemoveDailyHabit(c *gin.Context) {
	doc, err := a.state.RemoveDailyHabit(c.Param("id"))
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// ToggleGoal 翻转月目标完成状态。
func (a *API) ToggleGoal(c *gin.Context) {
	doc, err := a.state.ToggleGoal(c.Param("id"))
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// AddWeeklyGoal 新增周目标。
func (a *API) AddWeeklyGoal(c *gin.Context) {
	var payload struct {
		Week int    `json:"week"`
		Text string `json:"text"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if payload.Week < 1 || payload.Week > model.WeeksPerMonth {
		respondError(c, http.StatusBadRequest, "无效的周序号")
		return
	}

	doc, err := a.state.AddWeeklyGoal(payload.Week, payload.Text)
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// ToggleWeeklyGoal 翻转周目标完成状态。
func (a *API) ToggleWeeklyGoal(c *gin.Context) {
	doc, err := a.state.ToggleWeeklyGoal(c.Param("id"))
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}

// RemoveWeeklyGoal 删除周目标。
func (a *API) RemoveWeeklyGoal(c *gin.Context) {
	doc, err := a.state.RemoveWeeklyGoal(c.Param("id"))
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": doc})
}
