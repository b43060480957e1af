// Package postgres implements the gallery store on PostgreSQL through gorm.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Store provides PostgreSQL-backed persistence for the gallery server.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// slogWriter routes gorm's log output through slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Info(fmt.Sprintf(format, args...), "component", "gorm")
}

// Open connects to PostgreSQL and applies the schema.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	gormLog := gormlogger.New(slogWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Exec(schemaSQL).Error; err != nil {
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WithTx runs fn in a transaction, committing only if fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx})
	})
}

type txStore struct {
	db *gorm.DB
}

var _ store.Tx = (*txStore)(nil)

func (t *txStore) CreateImage(ctx context.Context, img *domain.Image) error {
	return insertImage(t.db.WithContext(ctx), img)
}

func (t *txStore) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return getTagBySlug(t.db.WithContext(ctx), slug)
}

func (t *txStore) CreateTag(ctx context.Context, tag *domain.Tag) error {
	return insertTag(t.db.WithContext(ctx), tag)
}

func (t *txStore) LinkImageTag(ctx context.Context, imageID, tagID string) error {
	res := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&imageTagModel{ImageID: imageID, TagID: tagID, CreatedAt: now()})
	if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
		return store.ErrNotFound.WithMessage("image or tag not found")
	}
	if res.Error != nil {
		return fmt.Errorf("link image tag: %w", res.Error)
	}
	return nil
}

// now matches the microsecond precision of TIMESTAMPTZ.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
