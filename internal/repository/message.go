package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByConversation(ctx context.Context, conversationID int64) ([]*domain.MessageView, error)
	MarkRead(ctx context.Context, conversationID int64, readerID uuid.UUID) error
	UnreadStatus(ctx context.Context, userID uuid.UUID) (*domain.UnreadStatus, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO mensagens (conversa_id, remetente_id, conteudo, tipo_acao,
		                       anexo_url, anexo_tipo, anexo_nome, lida, is_system)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.ConversationID, message.SenderID, message.Content, message.ActionKind,
		message.AttachmentURL, message.AttachmentType, message.AttachmentName, message.IsSystem,
	).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create message", "error", err, "conversa_id", message.ConversationID)
		return err
	}

	return nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID int64) ([]*domain.MessageView, error) {
	query := `
		SELECT m.id, m.conversa_id, m.remetente_id, m.conteudo, m.tipo_acao,
		       m.anexo_url, m.anexo_tipo, m.anexo_nome, m.lida, m.is_system, m.created_at,
		       u.display_name
		FROM mensagens m
		JOIN users u ON u.id = m.remetente_id
		WHERE m.conversa_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		r.log.Error("Failed to list messages", "error", err, "conversa_id", conversationID)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.MessageView
	for rows.Next() {
		m := &domain.MessageView{}
		err := rows.Scan(
			&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.ActionKind,
			&m.AttachmentURL, &m.AttachmentType, &m.AttachmentName, &m.Read, &m.IsSystem, &m.CreatedAt,
			&m.SenderName,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// MarkRead flips every message in the conversation that the reader did not
// author. Read-on-view; the transition only goes unread -> read.
func (r *messageRepository) MarkRead(ctx context.Context, conversationID int64, readerID uuid.UUID) error {
	query := `
		UPDATE mensagens
		SET lida = TRUE
		WHERE conversa_id = $1 AND remetente_id <> $2 AND lida = FALSE
	`

	_, err := r.db.Exec(ctx, query, conversationID, readerID)
	if err != nil {
		r.log.Error("Failed to mark messages read", "error", err, "conversa_id", conversationID)
	}
	return err
}

func (r *messageRepository) UnreadStatus(ctx context.Context, userID uuid.UUID) (*domain.UnreadStatus, error) {
	query := `
		SELECT COUNT(*)
		FROM mensagens m
		JOIN conversas c ON c.id = m.conversa_id
		WHERE (c.participante_1 = $1 OR c.participante_2 = $1)
		  AND m.lida = FALSE AND m.remetente_id <> $1
	`

	status := &domain.UnreadStatus{}
	if err := r.db.QueryRow(ctx, query, userID).Scan(&status.Unread); err != nil {
		r.log.Error("Failed to count unread messages", "error", err, "user_id", userID)
		return nil, err
	}

	if status.Unread > 0 {
		latest := `
			SELECT m.tipo_acao, m.conteudo
			FROM mensagens m
			JOIN conversas c ON c.id = m.conversa_id
			WHERE (c.participante_1 = $1 OR c.participante_2 = $1)
			  AND m.lida = FALSE AND m.remetente_id <> $1
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT 1
		`
		var kind, content string
		if err := r.db.QueryRow(ctx, latest, userID).Scan(&kind, &content); err == nil {
			status.LatestText = domain.Preview(kind, content)
		}
	}

	return status, nil
}
