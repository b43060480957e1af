package postgres

import (
	"time"

	"github.com/promptgallery/gallery-server/internal/domain"
)

type userModel struct {
	ID           string `gorm:"primaryKey"`
	Email        string
	EmailLower   string
	Name         *string
	AvatarURL    *string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         deref(m.Name),
		AvatarURL:    deref(m.AvatarURL),
		Role:         domain.Role(m.Role),
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type tagModel struct {
	ID         string `gorm:"primaryKey"`
	Name       string
	Slug       string
	CreatedAt  time.Time
	UsageCount int `gorm:"->;-:migration"`
}

func (tagModel) TableName() string { return "tags" }

func (m *tagModel) toDomain() *domain.Tag {
	return &domain.Tag{
		ID:         m.ID,
		Name:       m.Name,
		Slug:       m.Slug,
		UsageCount: m.UsageCount,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type imageModel struct {
	ID         string `gorm:"primaryKey"`
	UploadedBy string
	ImageURL   string `gorm:"column:image_url"`
	Prompt     string
	AIModel    *string `gorm:"column:ai_model"`
	FileSize   int64
	IsPublic   bool
	CreatedAt  time.Time
}

func (imageModel) TableName() string { return "gallery_images" }

func (m *imageModel) toDomain() *domain.Image {
	return &domain.Image{
		ID:         m.ID,
		UploadedBy: m.UploadedBy,
		ImageURL:   m.ImageURL,
		Prompt:     m.Prompt,
		AIModel:    deref(m.AIModel),
		FileSize:   m.FileSize,
		IsPublic:   m.IsPublic,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type imageTagModel struct {
	ImageID   string `gorm:"primaryKey"`
	TagID     string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (imageTagModel) TableName() string { return "image_tags" }

type likeModel struct {
	UserID    string `gorm:"primaryKey"`
	PostID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (likeModel) TableName() string { return "post_likes" }

type postStatsModel struct {
	PostID          string `gorm:"primaryKey"`
	LikeCount       int
	DownloadCount   int
	PromptCopyCount int
	UpdatedAt       time.Time
}

func (postStatsModel) TableName() string { return "post_stats" }

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
