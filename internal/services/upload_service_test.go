package services

import (
	"context"
	"testing"

	"salestrack/internal/storage"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPresignAttachmentValidation(t *testing.T) {
	ctx := context.Background()
	uploader := uuid.New()

	// Validation happens before any storage call, so a zero client is safe
	// for every rejecting case.
	svc := NewUploadService(&storage.Client{})

	valid := PresignInput{
		UploaderID:  uploader,
		FileName:    "photo.png",
		ContentType: "image/png",
		SizeBytes:   2 * 1024 * 1024,
	}

	t.Run("storage not configured", func(t *testing.T) {
		_, err := NewUploadService(nil).PresignAttachment(ctx, valid)
		assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
	})

	t.Run("missing uploader", func(t *testing.T) {
		in := valid
		in.UploaderID = uuid.Nil
		_, err := svc.PresignAttachment(ctx, in)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("missing file name", func(t *testing.T) {
		in := valid
		in.FileName = ""
		_, err := svc.PresignAttachment(ctx, in)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("zero size", func(t *testing.T) {
		in := valid
		in.SizeBytes = 0
		_, err := svc.PresignAttachment(ctx, in)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("over the size cap", func(t *testing.T) {
		in := valid
		in.SizeBytes = MaxAttachmentBytes + 1
		_, err := svc.PresignAttachment(ctx, in)
		assert.ErrorIs(t, err, apperrors.ErrTooLarge)
	})

	t.Run("exactly at the size cap passes validation", func(t *testing.T) {
		in := valid
		in.SizeBytes = MaxAttachmentBytes
		_, err := svc.PresignAttachment(ctx, in)
		assert.NotErrorIs(t, err, apperrors.ErrTooLarge)
	})

	t.Run("disallowed content type", func(t *testing.T) {
		in := valid
		in.ContentType = "application/zip"
		_, err := svc.PresignAttachment(ctx, in)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedType)
	})

	t.Run("content type check is case-insensitive", func(t *testing.T) {
		in := valid
		in.ContentType = "IMAGE/PNG"
		_, err := svc.PresignAttachment(ctx, in)
		assert.NotErrorIs(t, err, apperrors.ErrUnsupportedType)
	})
}

func TestAttachmentKind(t *testing.T) {
	assert.Equal(t, "image", attachmentKind("image/png"))
	assert.Equal(t, "image", attachmentKind("IMAGE/JPEG"))
	assert.Equal(t, "file", attachmentKind("application/pdf"))
}

func TestBuildObjectKey(t *testing.T) {
	uploader := uuid.New()
	key := buildObjectKey(uploader, "Report.PDF")

	assert.Contains(t, key, "attachments/"+uploader.String()+"/")
	assert.Equal(t, ".pdf", key[len(key)-4:], "extension is lowercased")

	// Two uploads of the same file never collide.
	assert.NotEqual(t, key, buildObjectKey(uploader, "Report.PDF"))
}
