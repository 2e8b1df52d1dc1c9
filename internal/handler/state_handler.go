package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/model"
)

// ExportState 导出完整应用状态，用于手动备份。
func (a *API) ExportState(c *gin.Context) {
	c.JSON(http.StatusOK, a.state.ExportState())
}

// ImportState 用导入的状态整体覆盖本地状态（不做合并）。
// 无法解码为状态对象、或包含非法年月文档的载荷被忽略，
// 现有状态保持不变。
func (a *API) ImportState(c *gin.Context) {
	var payload model.AppState
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "导入数据格式不正确")
		return
	}

	if err := a.state.ImportState(payload); err != nil {
		respondError(c, http.StatusBadRequest, "导入数据格式不正确")
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": true})
}

// GetSyncErrors 返回最近的同步告警。
func (a *API) GetSyncErrors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"remoteActive": a.state.SessionActive(),
		"errors":       a.state.SyncErrors(),
	})
}

// ClearSyncErrors 清空同步告警。
func (a *API) ClearSyncErrors(c *gin.Context) {
	a.state.ClearSyncErrors()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
