package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	"github.com/devitachiui22/kuanda-sub000/internal/repository"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

// Notifier pushes a system-authored message into the conversation between two
// accounts, creating the conversation when absent. It is best-effort by
// contract: it never returns an error, so a chat failure can never abort the
// business operation that triggered it. The boolean only reports whether the
// message was persisted.
//
// Components that need to emit cross-module chat events receive a Notifier
// explicitly; there is no package-level hook.
type Notifier interface {
	Notify(ctx context.Context, senderID, recipientID uuid.UUID, content, kind string, orderID *int64) bool
}

type chatNotifier struct {
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	log      logger.Logger
}

func NewNotifier(convRepo repository.ConversationRepository, msgRepo repository.MessageRepository, log logger.Logger) Notifier {
	return &chatNotifier{convRepo: convRepo, msgRepo: msgRepo, log: log}
}

func (n *chatNotifier) Notify(ctx context.Context, senderID, recipientID uuid.UUID, content, kind string, orderID *int64) bool {
	if senderID == uuid.Nil || recipientID == uuid.Nil {
		n.log.Warn("Notification skipped, missing participant", "sender_id", senderID, "recipient_id", recipientID)
		return false
	}
	if kind == "" {
		kind = domain.ActionSystem
	}

	conversationID, err := n.convRepo.Resolve(ctx, senderID, recipientID, orderID)
	if err != nil {
		n.log.Error("Notification dropped, conversation resolve failed", "error", err,
			"sender_id", senderID, "recipient_id", recipientID)
		return false
	}

	message := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		ActionKind:     kind,
		IsSystem:       true,
	}
	if err := n.msgRepo.Create(ctx, message); err != nil {
		n.log.Error("Notification dropped, message insert failed", "error", err,
			"conversa_id", conversationID)
		return false
	}

	return true
}
