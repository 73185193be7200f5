package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/devitachiui22/kuanda-sub000/internal/config"
	"github.com/devitachiui22/kuanda-sub000/internal/domain"
	pkgerrors "github.com/devitachiui22/kuanda-sub000/pkg/errors"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

// StoredAttachment describes an attachment persisted under the upload
// directory. StoredName is what goes into anexo_url; it never contains a path.
type StoredAttachment struct {
	StoredName   string
	OriginalName string
	Kind         string
	ContentType  string
}

type AttachmentService interface {
	Save(file *multipart.FileHeader, declared string) (*StoredAttachment, error)
}

type attachmentService struct {
	dir     string
	maxSize int64
	log     logger.Logger
}

func NewAttachmentService(cfg config.UploadConfig, log logger.Logger) (AttachmentService, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &attachmentService{dir: cfg.Dir, maxSize: cfg.MaxSizeBytes, log: log}, nil
}

func (s *attachmentService) Save(file *multipart.FileHeader, declared string) (*StoredAttachment, error) {
	if file.Size > s.maxSize {
		return nil, pkgerrors.ErrAttachmentTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		// The browser gave us nothing useful; sniff the content.
		if mtype, err := mimetype.DetectReader(src); err == nil {
			contentType = mtype.String()
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind upload: %w", err)
		}
	}

	storedName := buildStoredName(file.Filename, contentType, declared)

	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		s.log.Error("Failed to create attachment file", "error", err, "name", storedName)
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.log.Error("Failed to write attachment file", "error", err, "name", storedName)
		return nil, fmt.Errorf("write attachment: %w", err)
	}

	return &StoredAttachment{
		StoredName:   storedName,
		OriginalName: file.Filename,
		Kind:         ClassifyAttachment(declared, contentType),
		ContentType:  contentType,
	}, nil
}

// ClassifyAttachment maps an upload to its message action kind. The client's
// declared intent wins ("audio" recordings arrive as generic blobs), then the
// MIME major type, then the generic file kind as the documented default.
func ClassifyAttachment(declared, contentType string) string {
	if declared == "audio" {
		return domain.ActionAudio
	}
	switch {
	case strings.HasPrefix(contentType, "audio/"):
		return domain.ActionAudio
	case strings.HasPrefix(contentType, "image/"):
		return domain.ActionImage
	}
	return domain.ActionFile
}

// buildStoredName generates a collision-resistant filename: unix-millis plus
// a random suffix plus an extension derived from the original name or the
// content type. Webm audio is forced to .webm; ".bin" when nothing is known.
func buildStoredName(originalName, contentType, declared string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	ext := attachmentExtension(originalName, contentType, declared)
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), suffix, ext)
}

func attachmentExtension(originalName, contentType, declared string) string {
	if contentType == "audio/webm" || (declared == "audio" && strings.Contains(contentType, "webm")) {
		return ".webm"
	}
	if ext := filepath.Ext(originalName); ext != "" {
		return ext
	}
	if contentType != "" {
		bare := strings.TrimSpace(strings.Split(contentType, ";")[0])
		if mtype := mimetype.Lookup(bare); mtype != nil && mtype.Extension() != "" {
			return mtype.Extension()
		}
	}
	return ".bin"
}
