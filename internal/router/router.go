package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由。
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件，cookie 里只保存匿名身份 ID
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("habitlog_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/session", api.Bootstrap)
		apiGroup.POST("/session/claim", api.ClaimSession)

		apiGroup.GET("/users", api.ListUsers)
		apiGroup.POST("/users", api.AddUser)
		apiGroup.POST("/users/:id/select", api.SelectUser)

		apiGroup.POST("/period", api.SelectPeriod)
		apiGroup.GET("/months/current", api.GetCurrentMonth)
		apiGroup.POST("/months/current/refresh", api.RefreshCurrentMonth)
		apiGroup.GET("/months/current/metrics", api.GetMonthMetrics)
		apiGroup.GET("/months/current/review", api.GetMonthReview)
		apiGroup.POST("/months/current/notes", api.UpdateNotes)
		apiGroup.POST("/months/current/moods", api.SetMood)
		apiGroup.POST("/months/current/journal", api.UpdateJournal)

		apiGroup.POST("/checks/daily", api.ToggleDailyCheck)
		apiGroup.POST("/checks/weekly", api.ToggleWeeklyCheck)
		apiGroup.POST("/checks/monthly", api.ToggleMonthlyCheck)

		apiGroup.POST("/habits", api.AddDailyHabit)
		apiGroup.PUT("/habits/:id", api.RenameDailyHabit)
		apiGroup.DELETE("/habits/:id", api.RemoveDailyHabit)

		apiGroup.POST("/goals/:id/toggle", api.ToggleGoal)
		apiGroup.POST("/weekly-goals", api.AddWeeklyGoal)
		apiGroup.POST("/weekly-goals/:id/toggle", api.ToggleWeeklyGoal)
		apiGroup.DELETE("/weekly-goals/:id", api.RemoveWeeklyGoal)

		apiGroup.GET("/state/export", api.ExportState)
		apiGroup.POST("/state/import", api.ImportState)

		apiGroup.GET("/sync/errors", api.GetSyncErrors)
		apiGroup.DELETE("/sync/errors", api.ClearSyncErrors)
	}

	return r
}
