package handler

import (
	"github.com/devitachiui22/kuanda-sub000/internal/service"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type Handlers struct {
	Health *HealthHandler
	Auth   *AuthHandler
	Chat   *ChatHandler
	Vip    *VipHandler
	Page   *PageHandler
}

func NewHandlers(services *service.Services, log logger.Logger) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(),
		Auth:   NewAuthHandler(services.Auth, log),
		Chat:   NewChatHandler(services.Chat, services.Order, services.User, services.Attachments, log),
		Vip:    NewVipHandler(services.Vip, log),
		Page:   NewPageHandler(),
	}
}
