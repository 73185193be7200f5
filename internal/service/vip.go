package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	"github.com/devitachiui22/kuanda-sub000/internal/repository"
	pkgerrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type VipService interface {
	Request(ctx context.Context, vendorID uuid.UUID) (*domain.VipRequest, error)
	ListPending(ctx context.Context) ([]*domain.VipRequest, error)
	Decide(ctx context.Context, requestID int64, approve bool, adminID uuid.UUID) (*domain.VipRequest, error)
}

type vipService struct {
	vipRepo  repository.VipRepository
	userRepo repository.UserRepository
	notifier Notifier
	log      logger.Logger
}

func NewVipService(vipRepo repository.VipRepository, userRepo repository.UserRepository, notifier Notifier, log logger.Logger) VipService {
	return &vipService{vipRepo: vipRepo, userRepo: userRepo, notifier: notifier, log: log}
}

func (s *vipService) Request(ctx context.Context, vendorID uuid.UUID) (*domain.VipRequest, error) {
	vendor, err := s.userRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.Role != domain.RoleVendor {
		return nil, pkgerrors.ErrForbidden
	}

	pending, err := s.vipRepo.HasPending(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, pkgerrors.ErrBadRequest
	}

	request := &domain.VipRequest{VendorID: vendorID, Status: domain.VipStatusPending}
	if err := s.vipRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *vipService) ListPending(ctx context.Context) ([]*domain.VipRequest, error) {
	return s.vipRepo.ListPending(ctx)
}

// Decide settles a pending request and tells the vendor about it in chat.
// The notification is best-effort: the decision stands even when chat is down.
func (s *vipService) Decide(ctx context.Context, requestID int64, approve bool, adminID uuid.UUID) (*domain.VipRequest, error) {
	status := domain.VipStatusRejected
	if approve {
		status = domain.VipStatusApproved
	}

	request, err := s.vipRepo.Decide(ctx, requestID, status)
	if err != nil {
		return nil, err
	}

	if approve {
		if err := s.userRepo.SetVip(ctx, request.VendorID, true); err != nil {
			s.log.Error("Failed to flag vendor as vip", "error", err, "vendedor_id", request.VendorID)
		}
	}

	content := "Sua solicitação VIP foi recusada."
	if approve {
		content = "Sua solicitação VIP foi aprovada! Sua loja agora tem destaque."
	}
	s.notifier.Notify(ctx, adminID, request.VendorID, content, domain.ActionSystem, nil)

	return request, nil
}
