package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	pkgerrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
)

// In-memory repository fakes. The conversation fake mirrors the upsert
// semantics of the real store: one row per normalized pair, updated_at
// refresh on reuse, pedido_id overwritten only when supplied.

type fakeConversationRepo struct {
	byPair     map[string]*domain.Conversation
	byID       map[int64]*domain.Conversation
	nextID     int64
	resolveErr error
	touched    []int64
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		byPair: make(map[string]*domain.Conversation),
		byID:   make(map[int64]*domain.Conversation),
	}
}

func (f *fakeConversationRepo) Resolve(_ context.Context, a, b uuid.UUID, orderID *int64) (int64, error) {
	if f.resolveErr != nil {
		return 0, f.resolveErr
	}

	p1, p2 := domain.NormalizePair(a, b)
	key := p1.String() + "|" + p2.String()

	if conv, ok := f.byPair[key]; ok {
		conv.UpdatedAt = time.Now()
		if orderID != nil {
			conv.OrderID = orderID
		}
		return conv.ID, nil
	}

	f.nextID++
	conv := &domain.Conversation{
		ID:           f.nextID,
		OrderID:      orderID,
		Participant1: p1,
		Participant2: p2,
		UpdatedAt:    time.Now(),
		CreatedAt:    time.Now(),
	}
	f.byPair[key] = conv
	f.byID[conv.ID] = conv
	return conv.ID, nil
}

func (f *fakeConversationRepo) GetByID(_ context.Context, id int64) (*domain.Conversation, error) {
	conv, ok := f.byID[id]
	if !ok {
		return nil, pkgerrors.ErrConversationNotFound
	}
	return conv, nil
}

func (f *fakeConversationRepo) ListForUser(_ context.Context, _ uuid.UUID, _ string) ([]*domain.ConversationSummary, error) {
	return nil, nil
}

func (f *fakeConversationRepo) Touch(_ context.Context, id int64) error {
	f.touched = append(f.touched, id)
	if conv, ok := f.byID[id]; ok {
		conv.UpdatedAt = time.Now()
	}
	return nil
}

type fakeMessageRepo struct {
	convs     *fakeConversationRepo
	messages  []*domain.Message
	names     map[uuid.UUID]string
	nextID    int64
	createErr error
}

func newFakeMessageRepo(convs *fakeConversationRepo) *fakeMessageRepo {
	return &fakeMessageRepo{convs: convs, names: make(map[uuid.UUID]string)}
}

func (f *fakeMessageRepo) Create(_ context.Context, message *domain.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	message.ID = f.nextID
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) ListByConversation(_ context.Context, conversationID int64) ([]*domain.MessageView, error) {
	var views []*domain.MessageView
	for _, m := range f.messages {
		if m.ConversationID != conversationID {
			continue
		}
		views = append(views, &domain.MessageView{
			Message:    *m,
			SenderName: f.names[m.SenderID],
		})
	}
	return views, nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, conversationID int64, readerID uuid.UUID) error {
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID {
			m.Read = true
		}
	}
	return nil
}

func (f *fakeMessageRepo) UnreadStatus(_ context.Context, userID uuid.UUID) (*domain.UnreadStatus, error) {
	status := &domain.UnreadStatus{}
	var latest *domain.Message
	for _, m := range f.messages {
		conv, ok := f.convs.byID[m.ConversationID]
		if !ok || (conv.Participant1 != userID && conv.Participant2 != userID) {
			continue
		}
		if m.Read || m.SenderID == userID {
			continue
		}
		status.Unread++
		latest = m
	}
	if latest != nil {
		status.LatestText = domain.Preview(latest.ActionKind, latest.Content)
	}
	return status, nil
}
