package service

import (
	"github.com/devitachiui22/kuanda-sub000/internal/config"
	"github.com/devitachiui22/kuanda-sub000/internal/repository"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type Services struct {
	Auth        AuthService
	User        UserService
	Chat        ChatService
	Order       OrderService
	Vip         VipService
	Attachments AttachmentService
	RateLimit   RateLimitService
	Notifier    Notifier
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) (*Services, error) {
	attachments, err := NewAttachmentService(cfg.Upload, log)
	if err != nil {
		return nil, err
	}

	notifier := NewNotifier(repos.Conversation, repos.Message, log)

	return &Services{
		Auth:        NewAuthService(repos.User, cfg.JWT, log),
		User:        NewUserService(repos.User, log),
		Chat:        NewChatService(repos.Conversation, repos.Message, log),
		Order:       NewOrderService(repos.Order, log),
		Vip:         NewVipService(repos.Vip, repos.User, notifier, log),
		Attachments: attachments,
		RateLimit:   NewRateLimitService(repos.RateLimit, log),
		Notifier:    notifier,
	}, nil
}
