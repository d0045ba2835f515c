package handler

import (
	"github.com/d60-Lab/social-feed/internal/realtime"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/token"
)

// Handler 聚合核心依赖的 HTTP/WS 入口
type Handler struct {
	dispatcher *service.Dispatcher
	accounts   *service.AccountService
	hub        *realtime.Hub
	verifier   *token.Verifier
}

func NewHandler(dispatcher *service.Dispatcher, accounts *service.AccountService, hub *realtime.Hub, verifier *token.Verifier) *Handler {
	return &Handler{dispatcher: dispatcher, accounts: accounts, hub: hub, verifier: verifier}
}
