// Package store defines the persistence interface for the gallery server.
package store

import (
	"context"
	"time"

	"github.com/promptgallery/gallery-server/internal/domain"
)

// Tx is a transaction-scoped handle. Work done through it commits or rolls
// back as a unit when the function passed to Store.WithTx returns.
type Tx interface {
	// CreateImage inserts a new image row.
	CreateImage(ctx context.Context, img *domain.Image) error

	// GetTagBySlug returns ErrTagNotFound if no tag has the slug.
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)

	// CreateTag inserts a tag. Returns ErrAlreadyExists if the name or slug
	// is taken; the transaction stays usable in that case.
	CreateTag(ctx context.Context, t *domain.Tag) error

	// LinkImageTag associates an image with a tag. Linking an existing pair is a no-op.
	LinkImageTag(ctx context.Context, imageID, tagID string) error
}

// Store defines all persistence operations.
type Store interface {
	Close() error
	Ping(ctx context.Context) error

	// WithTx runs fn inside a single database transaction. If fn returns an
	// error, every write made through the Tx is rolled back.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Users
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserRole(ctx context.Context, id string, role domain.Role) error

	// Tags
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	ListTagsWithUsage(ctx context.Context) ([]*domain.Tag, error)
	SearchTags(ctx context.Context, query string, limit int) ([]*domain.Tag, error)
	GetTagsForImage(ctx context.Context, imageID string) ([]*domain.Tag, error)

	// Images
	GetImage(ctx context.Context, id string) (*domain.Image, error)
	ListPublicImages(ctx context.Context, params ImageListParams) (*PaginatedResult[*domain.Image], error)
	ListAllImagesWithTags(ctx context.Context) ([]*domain.Image, error)
	UpdateImageURL(ctx context.Context, id, imageURL string) error
	DeleteImage(ctx context.Context, id string) error
	DeletePendingImagesBefore(ctx context.Context, before time.Time) (int, error)

	// Engagement
	AddLike(ctx context.Context, userID, postID string) (bool, error)
	RemoveLike(ctx context.Context, userID, postID string) (bool, error)
	GetPostStats(ctx context.Context, postID string) (*domain.PostStats, error)
	IncrementCounter(ctx context.Context, postID string, counter domain.Counter) error
	ListLikedPostIDs(ctx context.Context, userID string) ([]string, error)

	// Analytics
	CountImages(ctx context.Context) (int, error)
	CountImagesCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	ListImageCreationTimesSince(ctx context.Context, since time.Time) ([]time.Time, error)
}
