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

type SendMessageInput struct {
	ConversationID int64
	SenderID       uuid.UUID
	Content        string
	Attachment     *StoredAttachment
}

type ChatService interface {
	ListConversations(ctx context.Context, userID uuid.UUID, filter string) ([]*domain.ConversationSummary, error)
	ListMessages(ctx context.Context, conversationID int64, viewerID uuid.UUID) ([]*domain.MessageView, error)
	SendMessage(ctx context.Context, in SendMessageInput) (*domain.Message, error)
	StartConversation(ctx context.Context, userID, targetID uuid.UUID, orderID *int64) (int64, error)
	UnreadStatus(ctx context.Context, userID uuid.UUID) (*domain.UnreadStatus, error)
}

type chatService struct {
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	log      logger.Logger
}

func NewChatService(convRepo repository.ConversationRepository, msgRepo repository.MessageRepository, log logger.Logger) ChatService {
	return &chatService{convRepo: convRepo, msgRepo: msgRepo, log: log}
}

func (s *chatService) ListConversations(ctx context.Context, userID uuid.UUID, filter string) ([]*domain.ConversationSummary, error) {
	return s.convRepo.ListForUser(ctx, userID, strings.TrimSpace(filter))
}

// ListMessages implements read-on-view: opening a conversation marks every
// message the viewer did not author as read, then returns the full timeline.
func (s *chatService) ListMessages(ctx context.Context, conversationID int64, viewerID uuid.UUID) ([]*domain.MessageView, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.Participant1 != viewerID && conv.Participant2 != viewerID {
		return nil, pkgerrors.ErrForbidden
	}

	if err := s.msgRepo.MarkRead(ctx, conversationID, viewerID); err != nil {
		// Non-fatal: the listing is still correct, unread counters catch up
		// on the next view.
		s.log.Warn("Read-marking failed", "error", err, "conversa_id", conversationID)
	}

	return s.msgRepo.ListByConversation(ctx, conversationID)
}

func (s *chatService) SendMessage(ctx context.Context, in SendMessageInput) (*domain.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.Attachment == nil {
		return nil, pkgerrors.ErrBadRequest
	}

	conv, err := s.convRepo.GetByID(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv.Participant1 != in.SenderID && conv.Participant2 != in.SenderID {
		return nil, pkgerrors.ErrForbidden
	}

	message := &domain.Message{
		ConversationID: in.ConversationID,
		SenderID:       in.SenderID,
		Content:        content,
		ActionKind:     domain.ActionText,
	}
	if in.Attachment != nil {
		message.ActionKind = in.Attachment.Kind
		message.AttachmentURL = &in.Attachment.StoredName
		message.AttachmentType = &in.Attachment.Kind
		message.AttachmentName = &in.Attachment.OriginalName
	}

	if err := s.msgRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := s.convRepo.Touch(ctx, in.ConversationID); err != nil {
		s.log.Warn("Failed to refresh conversation activity", "error", err, "conversa_id", in.ConversationID)
	}

	return message, nil
}

func (s *chatService) StartConversation(ctx context.Context, userID, targetID uuid.UUID, orderID *int64) (int64, error) {
	if targetID == uuid.Nil || targetID == userID {
		return 0, pkgerrors.ErrBadRequest
	}
	return s.convRepo.Resolve(ctx, userID, targetID, orderID)
}

func (s *chatService) UnreadStatus(ctx context.Context, userID uuid.UUID) (*domain.UnreadStatus, error) {
	return s.msgRepo.UnreadStatus(ctx, userID)
}
