package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		content string
		want    string
	}{
		{"image", ActionImage, "", "📷 Imagem"},
		{"audio", ActionAudio, "", "🎤 Áudio"},
		{"purchase", ActionPurchase, "", "🛍️ Compra"},
		{"system", ActionSystem, "Pedido confirmado", "🔔 Notificação"},
		{"status", ActionStatus, "Status atualizado: ENVIADO", "🔔 Notificação"},
		{"text shows raw content", ActionText, "Oi, tudo bem?", "Oi, tudo bem?"},
		{"file with content shows content", ActionFile, "nota.pdf", "nota.pdf"},
		{"no messages", "", "", PreviewEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.kind, tt.content))
		})
	}
}

func TestNormalizePair(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")

	p1, p2 := NormalizePair(a, b)
	q1, q2 := NormalizePair(b, a)

	assert.Equal(t, p1, q1)
	assert.Equal(t, p2, q2)
	assert.Equal(t, a, p1)
	assert.Equal(t, b, p2)
}

func TestCounterpartLabel(t *testing.T) {
	store := "Loja da Ana"

	vendor := &User{DisplayName: "Ana", StoreName: &store, Role: RoleVendor}
	assert.Equal(t, "Loja da Ana", vendor.CounterpartLabel())

	customer := &User{DisplayName: "Bruno", Role: RoleCustomer}
	assert.Equal(t, "Bruno", customer.CounterpartLabel())

	vendorNoStore := &User{DisplayName: "Carla", Role: RoleVendor}
	assert.Equal(t, "Carla", vendorNoStore.CounterpartLabel())
}
