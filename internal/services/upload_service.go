package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"salestrack/internal/domain/chat"
	"salestrack/internal/storage"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
)

// MaxAttachmentBytes caps chat attachments at 3 MB.
const MaxAttachmentBytes = 3 * 1024 * 1024

var allowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// UploadService validates attachment metadata and hands out presigned PUT
// URLs. Size and type are rejected before any storage call is made.
type UploadService struct {
	storage *storage.Client
}

type PresignInput struct {
	UploaderID  uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
}

type PresignResult struct {
	UploadURL  string            `json:"upload_url"`
	Headers    map[string]string `json:"headers"`
	Attachment chat.Attachment   `json:"attachment"`
}

func NewUploadService(storage *storage.Client) *UploadService {
	return &UploadService{storage: storage}
}

func (s *UploadService) PresignAttachment(ctx context.Context, in PresignInput) (PresignResult, error) {
	if s.storage == nil {
		return PresignResult{}, apperrors.ErrServiceUnavailable
	}
	if in.UploaderID == uuid.Nil || in.FileName == "" || in.SizeBytes <= 0 {
		return PresignResult{}, apperrors.ErrInvalidInput
	}
	if in.SizeBytes > MaxAttachmentBytes {
		return PresignResult{}, apperrors.ErrTooLarge
	}
	if !allowedAttachmentTypes[strings.ToLower(in.ContentType)] {
		return PresignResult{}, apperrors.ErrUnsupportedType
	}

	key := buildObjectKey(in.UploaderID, in.FileName)
	uploadURL, headers, err := s.storage.PresignPut(ctx, key, in.ContentType, in.SizeBytes)
	if err != nil {
		return PresignResult{}, err
	}

	return PresignResult{
		UploadURL: uploadURL,
		Headers:   headers,
		Attachment: chat.Attachment{
			Type:     attachmentKind(in.ContentType),
			URL:      s.storage.FileURL(key),
			Filename: in.FileName,
		},
	}, nil
}

func attachmentKind(contentType string) string {
	if strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "image"
	}
	return "file"
}

func buildObjectKey(uploaderID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("attachments/%s/%s%s", uploaderID, uuid.New(), ext)
}
