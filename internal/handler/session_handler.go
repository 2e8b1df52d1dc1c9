package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/service"
)

const sessionKeyOwnerID = "owner_id"

// Bootstrap 建立（或复用）远端身份并引导档案列表。
// 每个会话执行一次；远端未配置或失败时降级为纯本地模式，
// 不返回错误，告警通过 /api/sync/errors 暴露。
func (a *API) Bootstrap(c *gin.Context) {
	sess := sessions.Default(c)

	existing := ""
	if v, ok := sess.Get(sessionKeyOwnerID).(string); ok {
		existing = v
	}

	identity := a.state.InitializeRemote(a.sessions, existing)

	if identity.OwnerID != "" && identity.OwnerID != existing {
		sess.Set(sessionKeyOwnerID, identity.OwnerID)
		if err := sess.Save(); err != nil {
			respondError(c, http.StatusInternalServerError, "保存会话失败")
			return
		}
	}

	state := a.state.State()
	payload := gin.H{
		"remoteActive":   a.state.SessionActive(),
		"ownerId":        identity.OwnerID,
		"users":          state.Users,
		"selectedUserId": state.SelectedUserID,
		"selectedYear":   state.SelectedYear,
		"selectedMonth":  state.SelectedMonth,
	}
	// 认领口令只在身份新建时返回一次
	if identity.Created {
		payload["claimSecret"] = identity.ClaimSecret
	}

	c.JSON(http.StatusOK, payload)
}

// ClaimSession 用身份 ID 和认领口令在本设备认领既有身份。
func (a *API) ClaimSession(c *gin.Context) {
	var payload struct {
		OwnerID string `json:"ownerId"`
		Secret  string `json:"secret"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if err := a.sessions.ClaimOwner(payload.OwnerID, payload.Secret); err != nil {
		switch {
		case errors.Is(err, service.ErrOwnerNotFound):
			respondError(c, http.StatusNotFound, "身份不存在")
		case errors.Is(err, service.ErrClaimSecretMismatch):
			respondError(c, http.StatusForbidden, "认领口令不正确")
		default:
			respondError(c, http.StatusInternalServerError, "认领身份失败")
		}
		return
	}

	sess := sessions.Default(c)
	sess.Set(sessionKeyOwnerID, payload.OwnerID)
	if err := sess.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "保存会话失败")
		return
	}

	a.state.SwitchOwner(a.sessions, payload.OwnerID)

	state := a.state.State()
	c.JSON(http.StatusOK, gin.H{
		"remoteActive":   a.state.SessionActive(),
		"ownerId":        payload.OwnerID,
		"users":          state.Users,
		"selectedUserId": state.SelectedUserID,
	})
}
