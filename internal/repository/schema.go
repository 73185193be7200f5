package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements bootstrap the persisted schema. Statements are idempotent;
// the pool runs them once at startup before any repository is used.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		display_name  VARCHAR(100) NOT NULL,
		store_name    VARCHAR(100),
		role          VARCHAR(20) NOT NULL DEFAULT 'cliente',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		is_vip        BOOLEAN NOT NULL DEFAULT FALSE,
		last_login_at TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_sessions (
		id                 UUID PRIMARY KEY,
		user_id            UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		refresh_token_hash VARCHAR(64) NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at         TIMESTAMPTZ NOT NULL,
		revoked_at         TIMESTAMPTZ,
		revoked_reason     VARCHAR(50)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_sessions_token_hash
		ON user_sessions (refresh_token_hash)`,
	`CREATE TABLE IF NOT EXISTS pedidos (
		id           BIGSERIAL PRIMARY KEY,
		comprador_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		vendedor_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status       VARCHAR(20) NOT NULL DEFAULT 'pendente',
		total        NUMERIC(12,2) NOT NULL DEFAULT 0,
		criado_em    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS pedido_itens (
		id             BIGSERIAL PRIMARY KEY,
		pedido_id      BIGINT NOT NULL REFERENCES pedidos(id) ON DELETE CASCADE,
		produto        VARCHAR(255) NOT NULL,
		quantidade     INT NOT NULL DEFAULT 1,
		preco_unitario NUMERIC(12,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS conversas (
		id             BIGSERIAL PRIMARY KEY,
		pedido_id      BIGINT REFERENCES pedidos(id) ON DELETE SET NULL,
		participante_1 UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		participante_2 UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		criado_em      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// One conversation per unordered pair. Participants are stored normalized
	// (participante_1 < participante_2), so the unique index closes the
	// first-contact race instead of a lookup-before-insert.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversas_par
		ON conversas (participante_1, participante_2)`,
	`CREATE TABLE IF NOT EXISTS mensagens (
		id           BIGSERIAL PRIMARY KEY,
		conversa_id  BIGINT NOT NULL REFERENCES conversas(id) ON DELETE CASCADE,
		remetente_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		conteudo     TEXT NOT NULL DEFAULT '',
		tipo_acao    VARCHAR(20) NOT NULL DEFAULT 'text',
		anexo_url    VARCHAR(255),
		anexo_tipo   VARCHAR(30),
		anexo_nome   VARCHAR(255),
		lida         BOOLEAN NOT NULL DEFAULT FALSE,
		is_system    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mensagens_conversa
		ON mensagens (conversa_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_mensagens_nao_lidas
		ON mensagens (conversa_id) WHERE lida = FALSE`,
	`CREATE TABLE IF NOT EXISTS vip_solicitacoes (
		id          BIGSERIAL PRIMARY KEY,
		vendedor_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status      VARCHAR(20) NOT NULL DEFAULT 'pendente',
		criado_em   TIMESTAMPTZ NOT NULL DEFAULT now(),
		decidido_em TIMESTAMPTZ
	)`,
}

func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
