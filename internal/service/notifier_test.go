package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

func TestNotifyCreatesConversationAndSystemMessage(t *testing.T) {
	convs := newFakeConversationRepo()
	msgs := newFakeMessageRepo(convs)
	notifier := NewNotifier(convs, msgs, logger.NewNop())

	admin := uuid.New()
	vendor := uuid.New()

	ok := notifier.Notify(context.Background(), admin, vendor, "Pedido confirmado", "", nil)
	require.True(t, ok)

	require.Len(t, msgs.messages, 1)
	m := msgs.messages[0]
	assert.True(t, m.IsSystem)
	assert.False(t, m.Read)
	assert.Equal(t, domain.ActionSystem, m.ActionKind, "empty kind defaults to system")
	assert.Equal(t, admin, m.SenderID)
	assert.Equal(t, "Pedido confirmado", m.Content)
	assert.Len(t, convs.byID, 1, "conversation created on first contact")
}

func TestNotifyMissingParticipantIsNoOp(t *testing.T) {
	convs := newFakeConversationRepo()
	msgs := newFakeMessageRepo(convs)
	notifier := NewNotifier(convs, msgs, logger.NewNop())

	ok := notifier.Notify(context.Background(), uuid.New(), uuid.Nil, "perdido", domain.ActionSystem, nil)
	assert.False(t, ok)
	assert.Empty(t, msgs.messages)
	assert.Empty(t, convs.byID)

	ok = notifier.Notify(context.Background(), uuid.Nil, uuid.New(), "perdido", domain.ActionSystem, nil)
	assert.False(t, ok)
	assert.Empty(t, msgs.messages)
}

func TestNotifySwallowsResolveFailure(t *testing.T) {
	convs := newFakeConversationRepo()
	convs.resolveErr = errors.New("connection refused")
	msgs := newFakeMessageRepo(convs)
	notifier := NewNotifier(convs, msgs, logger.NewNop())

	ok := notifier.Notify(context.Background(), uuid.New(), uuid.New(), "oi", domain.ActionSystem, nil)
	assert.False(t, ok)
	assert.Empty(t, msgs.messages)
}

func TestNotifySwallowsInsertFailure(t *testing.T) {
	convs := newFakeConversationRepo()
	msgs := newFakeMessageRepo(convs)
	msgs.createErr = errors.New("connection reset")
	notifier := NewNotifier(convs, msgs, logger.NewNop())

	ok := notifier.Notify(context.Background(), uuid.New(), uuid.New(), "oi", domain.ActionSystem, nil)
	assert.False(t, ok)
}
