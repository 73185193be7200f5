package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	pkgerrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type ConversationRepository interface {
	Resolve(ctx context.Context, a, b uuid.UUID, orderID *int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filter string) ([]*domain.ConversationSummary, error)
	Touch(ctx context.Context, id int64) error
}

type conversationRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewConversationRepository(db *pgxpool.Pool, log logger.Logger) ConversationRepository {
	return &conversationRepository{db: db, log: log}
}

// Resolve returns the conversation id for the unordered pair (a,b), creating
// the row when absent. A single conditional insert against the unique pair
// index; on reuse it refreshes updated_at and, when an order reference is
// supplied, overwrites the stored one (last writer wins).
func (r *conversationRepository) Resolve(ctx context.Context, a, b uuid.UUID, orderID *int64) (int64, error) {
	p1, p2 := domain.NormalizePair(a, b)

	query := `
		INSERT INTO conversas (participante_1, participante_2, pedido_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (participante_1, participante_2) DO UPDATE
		SET updated_at = now(),
		    pedido_id  = COALESCE(EXCLUDED.pedido_id, conversas.pedido_id)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(ctx, query, p1, p2, orderID).Scan(&id); err != nil {
		r.log.Error("Failed to resolve conversation", "error", err)
		return 0, err
	}

	return id, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	query := `
		SELECT id, pedido_id, participante_1, participante_2, updated_at, criado_em
		FROM conversas
		WHERE id = $1
	`

	conv := &domain.Conversation{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&conv.ID, &conv.OrderID, &conv.Participant1, &conv.Participant2,
		&conv.UpdatedAt, &conv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pkgerrors.ErrConversationNotFound
		}
		r.log.Error("Failed to get conversation", "error", err, "conversa_id", id)
		return nil, err
	}

	return conv, nil
}

// ListForUser returns every conversation involving the user, newest activity
// first, each joined with the counterpart identity, the latest message (for
// the preview) and the count of unread messages not authored by the user.
func (r *conversationRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter string) ([]*domain.ConversationSummary, error) {
	query := `
		SELECT c.id, c.pedido_id, c.updated_at,
		       u.id, u.display_name, COALESCE(u.store_name, ''), u.role,
		       COALESCE(m.tipo_acao, ''), COALESCE(m.conteudo, ''),
		       (SELECT COUNT(*) FROM mensagens x
		        WHERE x.conversa_id = c.id AND x.lida = FALSE AND x.remetente_id <> $1)
		FROM conversas c
		JOIN users u
		  ON u.id = CASE WHEN c.participante_1 = $1 THEN c.participante_2 ELSE c.participante_1 END
		LEFT JOIN LATERAL (
			SELECT tipo_acao, conteudo
			FROM mensagens
			WHERE conversa_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) m ON TRUE
		WHERE (c.participante_1 = $1 OR c.participante_2 = $1)
		  AND ($2 = '' OR u.display_name ILIKE '%' || $2 || '%' OR u.store_name ILIKE '%' || $2 || '%')
		ORDER BY c.updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, filter)
	if err != nil {
		r.log.Error("Failed to list conversations", "error", err, "user_id", userID)
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.ConversationSummary
	for rows.Next() {
		s := &domain.ConversationSummary{}
		var (
			counterpart           domain.User
			storeName             string
			lastKind, lastContent string
		)
		err := rows.Scan(
			&s.ID, &s.OrderID, &s.UpdatedAt,
			&counterpart.ID, &counterpart.DisplayName, &storeName, &counterpart.Role,
			&lastKind, &lastContent, &s.Unread,
		)
		if err != nil {
			r.log.Error("Failed to scan conversation summary", "error", err)
			return nil, err
		}
		if storeName != "" {
			counterpart.StoreName = &storeName
		}
		s.CounterpartID = counterpart.ID
		s.CounterpartName = counterpart.CounterpartLabel()
		s.Preview = domain.Preview(lastKind, lastContent)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (r *conversationRepository) Touch(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE conversas SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to touch conversation", "error", err, "conversa_id", id)
	}
	return err
}
