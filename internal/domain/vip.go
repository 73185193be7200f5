package domain

import (
	"time"

	"github.com/google/uuid"
)

type VipRequest struct {
	ID        int64      `json:"id"`
	VendorID  uuid.UUID  `json:"vendedor_id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"criado_em"`
	DecidedAt *time.Time `json:"decidido_em,omitempty"`
}

const (
	VipStatusPending  = "pendente"
	VipStatusApproved = "aprovada"
	VipStatusRejected = "recusada"
)
