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

func newChatFixture() (*fakeConversationRepo, *fakeMessageRepo, ChatService) {
	convs := newFakeConversationRepo()
	msgs := newFakeMessageRepo(convs)
	return convs, msgs, NewChatService(convs, msgs, logger.NewNop())
}

func TestStartConversationOrderInsensitive(t *testing.T) {
	_, _, svc := newChatFixture()
	ctx := context.Background()

	alice := uuid.New()
	bruno := uuid.New()

	first, err := svc.StartConversation(ctx, alice, bruno, nil)
	require.NoError(t, err)

	second, err := svc.StartConversation(ctx, bruno, alice, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second, "resolving (A,B) and (B,A) must address the same conversation")
}

func TestStartConversationOrderReferenceLastWriterWins(t *testing.T) {
	convs, _, svc := newChatFixture()
	ctx := context.Background()

	alice := uuid.New()
	bruno := uuid.New()

	order5 := int64(5)
	id, err := svc.StartConversation(ctx, alice, bruno, &order5)
	require.NoError(t, err)

	// Resolving again without an order keeps the stored reference.
	_, err = svc.StartConversation(ctx, bruno, alice, nil)
	require.NoError(t, err)
	require.NotNil(t, convs.byID[id].OrderID)
	assert.Equal(t, int64(5), *convs.byID[id].OrderID)

	// Supplying a different order overwrites it.
	order7 := int64(7)
	_, err = svc.StartConversation(ctx, alice, bruno, &order7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), *convs.byID[id].OrderID)
}

func TestStartConversationRejectsSelfAndNil(t *testing.T) {
	_, _, svc := newChatFixture()
	ctx := context.Background()

	alice := uuid.New()

	_, err := svc.StartConversation(ctx, alice, alice, nil)
	assert.ErrorIs(t, err, pkgerrors.ErrBadRequest)

	_, err = svc.StartConversation(ctx, alice, uuid.Nil, nil)
	assert.ErrorIs(t, err, pkgerrors.ErrBadRequest)
}

func TestSendMessageListedUnreadForSender(t *testing.T) {
	_, _, svc := newChatFixture()
	ctx := context.Background()

	alice := uuid.New()
	bruno := uuid.New()
	convID, err := svc.StartConversation(ctx, alice, bruno, nil)
	require.NoError(t, err)

	sent, err := svc.SendMessage(ctx, SendMessageInput{
		ConversationID: convID,
		SenderID:       alice,
		Content:        "Olá, o produto ainda está disponível?",
	})
	require.NoError(t, err)

	// Listing as the sender does not mark anything: own messages stay as sent.
	messages, err := svc.ListMessages(ctx, convID, alice)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, sent.ID, messages[0].ID)
	assert.Equal(t, alice, messages[0].SenderID)
	assert.False(t, messages[0].Read)
	assert.Equal(t, domain.ActionText, messages[0].ActionKind)
}

func TestListMessagesMarksCounterpartMessagesRead(t *testing.T) {
	_, msgs, svc := newChatFixture()
	ctx := context.Background()

	alice := uuid.New()
	bruno := uuid.New()
	convID, err := svc.StartConversation(ctx, alice, bruno, nil)
	require.NoError(t, err)

	for _, content := range []string{"oi", "tudo bem?"} {
		_, err := svc.SendMessage(ctx, SendMessageInput{ConversationID: convID, SenderID: alice, Content: content})
		require.NoError(t, err)
	}
	_, err = svc.SendMessage(ctx, SendMessageInput{ConversationID: convID, SenderID: bruno, Content: "tudo sim"})
	require.NoError(t, err)

	// Bruno opens the conversation: Alice's messages flip to read, his own
	// message is untouched.
	_, err = svc.ListMessages(ctx, convID, bruno)
	require.NoError(t, err)

	for _, m := range msgs.messages {
		if m.SenderID == alice {
			assert.True(t, m.Read)
		} else {
			assert.False(t, m.Read)
		}
	}

	brunoStatus, err := svc.UnreadStatus(ctx, bruno)
	require.NoError(t, err)
	assert.Equal(t, 0, brunoStatus.Unread)

	aliceStatus, err := svc.UnreadStatus(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, aliceStatus.Unread)
	assert.Equal(t, "tudo sim", aliceStatus.LatestText)
}

func TestListMessagesForbiddenForOutsider(t *testing.T) {
	_, _, svc := newChatFixture()
	ctx := context.Background()

	convID, err := svc.StartConversation(ctx, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc.ListMessages(ctx, convID, uuid.New())
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
}

func TestSendMessageRequiresContentOrAttachment(t *testing.T) {
	_, _, svc := newChatFixture()
	ctx := context.Background()

	alice := uuid.New()
	convID, err := svc.StartConversation(ctx, alice, uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, SendMessageInput{ConversationID: convID, SenderID: alice, Content: "   "})
	assert.ErrorIs(t, err, pkgerrors.ErrBadRequest)
}

func TestSendMessageWithAttachmentCarriesKind(t *testing.T) {
	convs, _, svc := newChatFixture()
	ctx := context.Background()

	alice := uuid.New()
	convID, err := svc.StartConversation(ctx, alice, uuid.New(), nil)
	require.NoError(t, err)

	sent, err := svc.SendMessage(ctx, SendMessageInput{
		ConversationID: convID,
		SenderID:       alice,
		Attachment: &StoredAttachment{
			StoredName:   "1725000000000_a1b2c3d4.ogg",
			OriginalName: "gravacao.ogg",
			Kind:         domain.ActionAudio,
			ContentType:  "audio/ogg",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ActionAudio, sent.ActionKind)
	require.NotNil(t, sent.AttachmentURL)
	assert.Equal(t, "1725000000000_a1b2c3d4.ogg", *sent.AttachmentURL)
	require.NotNil(t, sent.AttachmentName)
	assert.Equal(t, "gravacao.ogg", *sent.AttachmentName)
	assert.Contains(t, convs.touched, convID, "sending must refresh conversation activity")
}

func TestSendMessageUnknownConversation(t *testing.T) {
	_, _, svc := newChatFixture()

	_, err := svc.SendMessage(context.Background(), SendMessageInput{
		ConversationID: 999,
		SenderID:       uuid.New(),
		Content:        "oi",
	})
	assert.ErrorIs(t, err, pkgerrors.ErrConversationNotFound)
}
