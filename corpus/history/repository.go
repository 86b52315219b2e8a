package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
)

// Repository records the disposition of every examined track so later crawl
// runs can skip tracks already rejected. The corpus JSONL file cannot serve
// this purpose: rejected songs are never persisted there.
type Repository struct {
	db *gorm.DB
}

// NewSQLiteRepository creates a repository backed by SQLite.
func NewSQLiteRepository(dsn string, gormLogger logger.Interface) (*Repository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn required")
	}

	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	dbDir := filepath.Dir(dsn)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, err
	}

	if err := applySQLitePragmas(db); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&TrackHistoryModel{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// The crawler is single-threaded; one connection is all it gets.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return &Repository{db: db}, nil
}

// Lookup returns the remembered disposition for a track, or nil when the
// track has never been examined.
func (r *Repository) Lookup(ctx context.Context, trackID string) (*corpus.TrackHistory, error) {
	var model TrackHistoryModel
	err := r.db.WithContext(ctx).Where("track_id = ?", trackID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toInternal(model), nil
}

// Record upserts the disposition for a track. A re-examined track keeps one
// row; the newest disposition wins.
func (r *Repository) Record(ctx context.Context, entry *corpus.TrackHistory) error {
	if entry == nil || entry.TrackID == "" {
		return errors.New("history: track id required")
	}
	model := toModel(entry)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "track_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at",
			"title",
			"disposition",
			"reason",
		}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	entry.ID = model.ID
	return nil
}

// Count returns the number of remembered tracks.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TrackHistoryModel{}).Count(&count).Error
	return count, err
}

// CountByDisposition returns remembered track counts grouped by disposition.
func (r *Repository) CountByDisposition(ctx context.Context) (map[string]int64, error) {
	rows := make([]struct {
		Disposition string
		Count       int64
	}, 0)
	err := r.db.WithContext(ctx).Model(&TrackHistoryModel{}).
		Select("disposition, COUNT(*) as count").
		Group("disposition").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Disposition] = row.Count
	}
	return result, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func applySQLitePragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, stmt := range pragmas {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
