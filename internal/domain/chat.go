package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation is the persistent 1:1 relationship between two accounts,
// optionally scoped to one order. Participants are stored normalized
// (Participant1 < Participant2) so each unordered pair maps to one row.
type Conversation struct {
	ID           int64     `json:"id"`
	OrderID      *int64    `json:"pedido_id,omitempty"`
	Participant1 uuid.UUID `json:"participante_1"`
	Participant2 uuid.UUID `json:"participante_2"`
	UpdatedAt    time.Time `json:"updated_at"`
	CreatedAt    time.Time `json:"criado_em"`
}

// Message is immutable once created except for the read flag, which only
// transitions unread -> read.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversa_id"`
	SenderID       uuid.UUID `json:"remetente_id"`
	Content        string    `json:"conteudo"`
	ActionKind     string    `json:"tipo_acao"`
	AttachmentURL  *string   `json:"anexo_url,omitempty"`
	AttachmentType *string   `json:"anexo_tipo,omitempty"`
	AttachmentName *string   `json:"anexo_nome,omitempty"`
	Read           bool      `json:"lida"`
	IsSystem       bool      `json:"is_system"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageView is a message joined with its sender's display identity.
type MessageView struct {
	Message
	SenderName string `json:"remetente_nome"`
}

// ConversationSummary is one row of the caller's conversation listing.
type ConversationSummary struct {
	ID              int64     `json:"id"`
	OrderID         *int64    `json:"pedido_id,omitempty"`
	CounterpartID   uuid.UUID `json:"contato_id"`
	CounterpartName string    `json:"contato_nome"`
	Preview         string    `json:"preview"`
	Unread          int       `json:"nao_lidas"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UnreadStatus is the payload of the polling endpoint.
type UnreadStatus struct {
	Unread     int    `json:"unread"`
	LatestText string `json:"ultima_mensagem,omitempty"`
}

const (
	ActionText     = "text"
	ActionImage    = "image"
	ActionAudio    = "audio"
	ActionFile     = "file"
	ActionPurchase = "purchase"
	ActionSystem   = "system"
	ActionStatus   = "status"
)

const PreviewEmpty = "Nova conversa"

// Preview maps the latest message of a conversation to the short string shown
// in the listing. An empty kind means the conversation has no messages yet.
func Preview(actionKind, content string) string {
	switch actionKind {
	case ActionImage:
		return "📷 Imagem"
	case ActionAudio:
		return "🎤 Áudio"
	case ActionPurchase:
		return "🛍️ Compra"
	case ActionSystem, ActionStatus:
		return "🔔 Notificação"
	}
	if content != "" {
		return content
	}
	return PreviewEmpty
}

// NormalizePair orders two participant ids so that (A,B) and (B,A) address
// the same conversation row.
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) > 0 {
		return b, a
	}
	return a, b
}
