package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	"github.com/devitachiui22/kuanda-sub000/internal/repository"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

// Counterpart discovery is bounded: the picker never needs more.
const counterpartLimit = 50

type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Counterparts(ctx context.Context, exclude uuid.UUID) ([]*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewUserService(userRepo repository.UserRepository, log logger.Logger) UserService {
	return &userService{userRepo: userRepo, log: log}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Counterparts(ctx context.Context, exclude uuid.UUID) ([]*domain.User, error) {
	return s.userRepo.ListCounterparts(ctx, exclude, counterpartLimit)
}
