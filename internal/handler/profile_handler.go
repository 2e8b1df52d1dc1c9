package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUsers 返回全部用户档案及当前选中项。
func (a *API) ListUsers(c *gin.Context) {
	state := a.state.State()
	c.JSON(http.StatusOK, gin.H{
		"users":          state.Users,
		"selectedUserId": state.SelectedUserID,
	})
}

// AddUser 新建用户档案并切换过去。
func (a *API) AddUser(c *gin.Context) {
	var payload struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	user, err := a.state.AddUser(payload.Name)
	if err != nil {
		handleStateError(c, err)
		return
	}

	state := a.state.State()
	c.JSON(http.StatusOK, gin.H{
		"user":           user,
		"users":          state.Users,
		"selectedUserId": state.SelectedUserID,
	})
}

// SelectUser 切换当前用户。
func (a *API) SelectUser(c *gin.Context) {
	userID := c.Param("id")

	found := false
	for _, user := range a.state.State().Users {
		if user.ID == userID {
			found = true
			break
		}
	}
	if !found {
		respondError(c, http.StatusNotFound, "用户不存在")
		return
	}

	if err := a.state.SelectUser(userID); err != nil {
		handleStateError(c, err)
		return
	}

	doc, err := a.state.CurrentMonth()
	if err != nil {
		handleStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedUserId": userID, "month": doc})
}
