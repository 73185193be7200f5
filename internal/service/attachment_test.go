package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devitachiui22/kuanda-sub000/internal/domain"
)

func TestClassifyAttachment(t *testing.T) {
	tests := []struct {
		name        string
		declared    string
		contentType string
		want        string
	}{
		{"declared audio wins over anything", "audio", "application/octet-stream", domain.ActionAudio},
		{"audio mime", "", "audio/ogg", domain.ActionAudio},
		{"webm audio", "", "audio/webm", domain.ActionAudio},
		{"image mime", "", "image/png", domain.ActionImage},
		{"jpeg", "", "image/jpeg", domain.ActionImage},
		{"pdf falls back to file", "", "application/pdf", domain.ActionFile},
		{"unknown falls back to file", "", "", domain.ActionFile},
		{"video is a generic file", "", "video/mp4", domain.ActionFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAttachment(tt.declared, tt.contentType))
		})
	}
}

func TestAttachmentExtension(t *testing.T) {
	tests := []struct {
		name         string
		originalName string
		contentType  string
		declared     string
		want         string
	}{
		{"webm audio forced", "blob", "audio/webm", "audio", ".webm"},
		{"webm audio with codec parameter", "blob", "audio/webm;codecs=opus", "audio", ".webm"},
		{"original extension kept", "nota-fiscal.pdf", "application/pdf", "", ".pdf"},
		{"extension from content type", "download", "image/png", "", ".png"},
		{"nothing known", "blob", "", "", ".bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attachmentExtension(tt.originalName, tt.contentType, tt.declared))
		})
	}
}

func TestBuildStoredNameShape(t *testing.T) {
	name := buildStoredName("recibo.pdf", "application/pdf", "")

	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.Contains(t, name, "_")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "recibo", "stored name must not leak the original filename")

	// Names are collision-resistant: two consecutive saves never collide.
	assert.NotEqual(t, name, buildStoredName("recibo.pdf", "application/pdf", ""))
}
