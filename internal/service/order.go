package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	"github.com/devitachiui22/kuanda-sub000/internal/repository"
	pkgerrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type OrderService interface {
	// Detail returns (nil, nil) when the order does not exist.
	Detail(ctx context.Context, orderID int64) (*domain.OrderDetail, error)
	UpdateStatus(ctx context.Context, orderID int64, status string, conversationID int64, actorID uuid.UUID) (*domain.Message, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	log       logger.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, log logger.Logger) OrderService {
	return &orderService{orderRepo: orderRepo, log: log}
}

func (s *orderService) Detail(ctx context.Context, orderID int64) (*domain.OrderDetail, error) {
	return s.orderRepo.GetWithItems(ctx, orderID)
}

// UpdateStatus writes the order status and the "Status atualizado" system
// message in one transaction, so neither lands without the other.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status string, conversationID int64, actorID uuid.UUID) (*domain.Message, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !domain.ValidOrderStatus(status) {
		return nil, pkgerrors.ErrBadRequest
	}

	message := &domain.Message{
		ConversationID: conversationID,
		SenderID:       actorID,
		Content:        "Status atualizado: " + strings.ToUpper(status),
		ActionKind:     domain.ActionStatus,
		IsSystem:       true,
	}

	if err := s.orderRepo.UpdateStatusWithMessage(ctx, orderID, status, message); err != nil {
		return nil, err
	}

	s.log.Info("Order status updated", "pedido_id", orderID, "status", status, "conversa_id", conversationID)
	return message, nil
}
