package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/promptgallery/gallery-server/internal/domain"
	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
	"github.com/promptgallery/gallery-server/internal/util"
)

// GenerateUploadURLRequest describes an image the admin is about to upload.
type GenerateUploadURLRequest struct {
	FileName    string   `json:"fileName" validate:"required,max=255"`
	FileSize    int64    `json:"fileSize" validate:"required,gt=0"`
	ContentType string   `json:"contentType,omitempty" validate:"omitempty,max=100"`
	Prompt      string   `json:"prompt" validate:"required,max=4000"`
	AIModel     string   `json:"aiModel,omitempty" validate:"omitempty,max=100"`
	Tags        []string `json:"tags" validate:"required,min=1,max=10,dive,tagname"`
	IsPublic    *bool    `json:"isPublic,omitempty"`
}

// GenerateUploadURLResponse tells the client where to PUT the file.
type GenerateUploadURLResponse struct {
	UploadURL    string            `json:"uploadUrl"`
	UploadMethod string            `json:"uploadMethod"`
	Headers      map[string]string `json:"headers,omitempty"`
	FilePath     string            `json:"filePath"`
	RecordID     string            `json:"recordId"`
	PublicURL    string            `json:"publicUrl"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

// ConfirmUploadRequest marks an upload as finished.
// Either ImageURL or FilePath must be given.
type ConfirmUploadRequest struct {
	RecordID string `json:"recordId" validate:"required"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	FilePath string `json:"filePath,omitempty" validate:"omitempty,max=512"`
}

// ConfirmUploadResponse echoes the stored URL.
type ConfirmUploadResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
}

// GenerateUploadURL signs an upload for the admin and creates the pending
// image record with its tags. The URL is signed first so a storage outage
// leaves no record behind.
func (s *ImageService) GenerateUploadURL(ctx context.Context, adminID string, req GenerateUploadURLRequest) (*GenerateUploadURLResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.FileSize > s.cfg.MaxFileSize {
		return nil, domainerrors.Validationf("file size exceeds maximum of %dMB", s.cfg.MaxFileSize/(1024*1024)).
			WithDetails(map[string]string{"fileSize": "too large"})
	}

	now := s.now()
	filePath := fmt.Sprintf("%d-%s", now.UnixMilli(), util.SanitizeFileName(req.FileName))

	upload, err := s.host.PresignUpload(ctx, filePath, req.ContentType, req.FileSize)
	if err != nil {
		return nil, domainerrors.External("failed to create upload URL", err)
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	img, err := s.tags.CreateImageWithTags(ctx, ImageAttributes{
		UploadedBy: adminID,
		ImageURL:   domain.PendingURL(now),
		Prompt:     req.Prompt,
		AIModel:    req.AIModel,
		FileSize:   req.FileSize,
		IsPublic:   isPublic,
	}, req.Tags)
	if err != nil {
		return nil, err
	}

	s.logger.Info("upload url generated", "record_id", img.ID, "file_path", filePath, "admin_id", adminID)

	return &GenerateUploadURLResponse{
		UploadURL:    upload.URL,
		UploadMethod: upload.Method,
		Headers:      upload.Headers,
		FilePath:     filePath,
		RecordID:     img.ID,
		PublicURL:    s.host.PublicURL(filePath),
		ExpiresAt:    upload.ExpiresAt,
	}, nil
}

// ConfirmUpload replaces the pending placeholder with the final URL.
func (s *ImageService) ConfirmUpload(ctx context.Context, req ConfirmUploadRequest) (*ConfirmUploadResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.ImageURL == "" && req.FilePath == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"imageUrl": "is required when filePath is empty"})
	}

	img, err := s.store.GetImage(ctx, req.RecordID)
	if err != nil {
		return nil, mapNotFound(err, "image record not found")
	}
	prefix, pending := img.UploadKeyPrefix()
	if !pending {
		return nil, domainerrors.Conflict("image upload already confirmed")
	}

	key, field := req.FilePath, "filePath"
	if key == "" {
		field = "imageUrl"
		var ok bool
		if key, ok = s.host.KeyFromURL(req.ImageURL); !ok {
			return nil, domainerrors.ValidationWithDetails("validation failed",
				map[string]string{field: "is not an image host URL"})
		}
	}
	if len(key) <= len(prefix) || !strings.HasPrefix(key, prefix) {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{field: "does not belong to this upload record"})
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = s.host.PublicURL(key)
	}

	if err := s.store.UpdateImageURL(ctx, req.RecordID, imageURL); err != nil {
		return nil, mapNotFound(err, "image record not found")
	}

	s.logger.Info("upload confirmed", "record_id", req.RecordID)
	return &ConfirmUploadResponse{Success: true, ImageURL: imageURL}, nil
}
