package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	pkgerrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type fakeOrderRepo struct {
	detail    *domain.OrderDetail
	updates   []orderUpdate
	updateErr error
}

type orderUpdate struct {
	orderID int64
	status  string
	message *domain.Message
}

func (f *fakeOrderRepo) GetWithItems(_ context.Context, id int64) (*domain.OrderDetail, error) {
	if f.detail != nil && f.detail.ID == id {
		return f.detail, nil
	}
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatusWithMessage(_ context.Context, orderID int64, status string, message *domain.Message) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	message.ID = int64(len(f.updates) + 1)
	f.updates = append(f.updates, orderUpdate{orderID: orderID, status: status, message: message})
	return nil
}

func TestUpdateStatusEmitsStatusMessage(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, logger.NewNop())

	actor := uuid.New()
	message, err := svc.UpdateStatus(context.Background(), 42, "enviado", 7, actor)
	require.NoError(t, err)

	require.Len(t, repo.updates, 1)
	update := repo.updates[0]
	assert.Equal(t, int64(42), update.orderID)
	assert.Equal(t, "enviado", update.status)

	assert.Equal(t, "Status atualizado: ENVIADO", message.Content)
	assert.Equal(t, domain.ActionStatus, message.ActionKind)
	assert.True(t, message.IsSystem)
	assert.Equal(t, int64(7), message.ConversationID)
	assert.Equal(t, actor, message.SenderID)
}

func TestUpdateStatusNormalizesCase(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, logger.NewNop())

	message, err := svc.UpdateStatus(context.Background(), 1, "  Entregue ", 2, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "entregue", repo.updates[0].status)
	assert.Equal(t, "Status atualizado: ENTREGUE", message.Content)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, logger.NewNop())

	_, err := svc.UpdateStatus(context.Background(), 1, "teleportado", 2, uuid.New())
	assert.ErrorIs(t, err, pkgerrors.ErrBadRequest)
	assert.Empty(t, repo.updates)
}

func TestDetailNilForUnknownOrder(t *testing.T) {
	svc := NewOrderService(&fakeOrderRepo{}, logger.NewNop())

	detail, err := svc.Detail(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, detail)
}
