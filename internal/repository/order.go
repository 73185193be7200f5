package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	pkgerrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

type OrderRepository interface {
	GetWithItems(ctx context.Context, id int64) (*domain.OrderDetail, error)
	UpdateStatusWithMessage(ctx context.Context, orderID int64, status string, message *domain.Message) error
}

type orderRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewOrderRepository(db *pgxpool.Pool, log logger.Logger) OrderRepository {
	return &orderRepository{db: db, log: log}
}

// GetWithItems returns (nil, nil) when the order does not exist; an unknown
// order inside a chat is not an error.
func (r *orderRepository) GetWithItems(ctx context.Context, id int64) (*domain.OrderDetail, error) {
	query := `
		SELECT id, comprador_id, vendedor_id, status, total, criado_em
		FROM pedidos
		WHERE id = $1
	`

	detail := &domain.OrderDetail{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&detail.ID, &detail.BuyerID, &detail.VendorID,
		&detail.Status, &detail.Total, &detail.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("Failed to get order", "error", err, "pedido_id", id)
		return nil, err
	}

	itemsQuery := `
		SELECT id, pedido_id, produto, quantidade, preco_unitario
		FROM pedido_itens
		WHERE pedido_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, itemsQuery, id)
	if err != nil {
		r.log.Error("Failed to list order items", "error", err, "pedido_id", id)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Product, &item.Quantity, &item.UnitPrice); err != nil {
			r.log.Error("Failed to scan order item", "error", err)
			return nil, err
		}
		detail.Items = append(detail.Items, item)
	}

	return detail, rows.Err()
}

// UpdateStatusWithMessage applies the status change and the companion system
// message as one transaction, so the order row never changes without its chat
// notification (and vice versa).
func (r *orderRepository) UpdateStatusWithMessage(ctx context.Context, orderID int64, status string, message *domain.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin status transaction", "error", err, "pedido_id", orderID)
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE pedidos SET status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		r.log.Error("Failed to update order status", "error", err, "pedido_id", orderID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return pkgerrors.ErrOrderNotFound
	}

	insert := `
		INSERT INTO mensagens (conversa_id, remetente_id, conteudo, tipo_acao, lida, is_system)
		VALUES ($1, $2, $3, $4, FALSE, TRUE)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, insert,
		message.ConversationID, message.SenderID, message.Content, message.ActionKind,
	).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		r.log.Error("Failed to insert status message", "error", err, "pedido_id", orderID)
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE conversas SET updated_at = now() WHERE id = $1`, message.ConversationID)
	if err != nil {
		r.log.Error("Failed to touch conversation in status transaction", "error", err)
		return err
	}

	return tx.Commit(ctx)
}
