package handler

import (
	"github.com/habitlog/internal/service"
)

// API 持有各 HTTP 处理器共享的服务依赖。
type API struct {
	state    *service.StateService
	sessions *service.SessionService
	reviews  *service.ReviewService
}

// NewAPI 创建处理器集合。
func NewAPI(state *service.StateService, sessions *service.SessionService) *API {
	return &API{
		state:    state,
		sessions: sessions,
		reviews:  service.NewReviewService(),
	}
}
