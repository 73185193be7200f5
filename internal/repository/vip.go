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

type VipRepository interface {
	Create(ctx context.Context, request *domain.VipRequest) error
	HasPending(ctx context.Context, vendorID uuid.UUID) (bool, error)
	ListPending(ctx context.Context) ([]*domain.VipRequest, error)
	Decide(ctx context.Context, id int64, status string) (*domain.VipRequest, error)
}

type vipRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewVipRepository(db *pgxpool.Pool, log logger.Logger) VipRepository {
	return &vipRepository{db: db, log: log}
}

func (r *vipRepository) Create(ctx context.Context, request *domain.VipRequest) error {
	query := `
		INSERT INTO vip_solicitacoes (vendedor_id, status)
		VALUES ($1, $2)
		RETURNING id, criado_em
	`

	err := r.db.QueryRow(ctx, query, request.VendorID, request.Status).
		Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create vip request", "error", err, "vendedor_id", request.VendorID)
	}
	return err
}

func (r *vipRepository) HasPending(ctx context.Context, vendorID uuid.UUID) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM vip_solicitacoes WHERE vendedor_id = $1 AND status = 'pendente'`,
		vendorID,
	).Scan(&count)
	if err != nil {
		r.log.Error("Failed to check pending vip request", "error", err)
		return false, err
	}
	return count > 0, nil
}

func (r *vipRepository) ListPending(ctx context.Context) ([]*domain.VipRequest, error) {
	query := `
		SELECT id, vendedor_id, status, criado_em, decidido_em
		FROM vip_solicitacoes
		WHERE status = 'pendente'
		ORDER BY criado_em ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list pending vip requests", "error", err)
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.VipRequest
	for rows.Next() {
		req := &domain.VipRequest{}
		if err := rows.Scan(&req.ID, &req.VendorID, &req.Status, &req.CreatedAt, &req.DecidedAt); err != nil {
			r.log.Error("Failed to scan vip request", "error", err)
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// Decide flips a pending request to its final status and returns the updated
// row. Deciding an already-decided request is a not-found.
func (r *vipRepository) Decide(ctx context.Context, id int64, status string) (*domain.VipRequest, error) {
	query := `
		UPDATE vip_solicitacoes
		SET status = $2, decidido_em = now()
		WHERE id = $1 AND status = 'pendente'
		RETURNING id, vendedor_id, status, criado_em, decidido_em
	`

	req := &domain.VipRequest{}
	err := r.db.QueryRow(ctx, query, id, status).
		Scan(&req.ID, &req.VendorID, &req.Status, &req.CreatedAt, &req.DecidedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pkgerrors.ErrVipRequestNotFound
		}
		r.log.Error("Failed to decide vip request", "error", err, "request_id", id)
		return nil, err
	}

	return req, nil
}
