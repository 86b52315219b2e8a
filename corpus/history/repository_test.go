package history

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"gorm.io/gorm/logger"

	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
	logpkg "github.com/vocaloid-archive/LyricsCorpus-Go/corpus/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")

	base := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	gormLogger := logpkg.NewGormLogger(base, logger.Silent)

	repo, err := NewSQLiteRepository(path, gormLogger)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositoryRecordAndLookup(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	entry, err := repo.Lookup(ctx, "12345")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no history for unseen track, got %+v", entry)
	}

	err = repo.Record(ctx, &corpus.TrackHistory{
		TrackID:     "12345",
		Title:       "勾指起誓",
		Disposition: corpus.DispositionAdded,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	entry, err = repo.Lookup(ctx, "12345")
	if err != nil {
		t.Fatalf("lookup after record: %v", err)
	}
	if entry == nil || entry.Disposition != corpus.DispositionAdded {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestRepositoryUpsertKeepsOneRow(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &corpus.TrackHistory{
		TrackID:     "67890",
		Title:       "某纯音乐",
		Disposition: corpus.DispositionRejected,
		Reason:      "instrumental",
	}
	if err := repo.Record(ctx, first); err != nil {
		t.Fatalf("record: %v", err)
	}
	second := &corpus.TrackHistory{
		TrackID:     "67890",
		Title:       "某纯音乐",
		Disposition: corpus.DispositionAdded,
	}
	if err := repo.Record(ctx, second); err != nil {
		t.Fatalf("re-record: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", count)
	}

	entry, err := repo.Lookup(ctx, "67890")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if entry.Disposition != corpus.DispositionAdded {
		t.Fatalf("newest disposition must win, got %+v", entry)
	}
}

func TestRepositoryCountByDisposition(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	entries := []*corpus.TrackHistory{
		{TrackID: "1", Disposition: corpus.DispositionAdded},
		{TrackID: "2", Disposition: corpus.DispositionAdded},
		{TrackID: "3", Disposition: corpus.DispositionRejected, Reason: "empty"},
	}
	for _, entry := range entries {
		if err := repo.Record(ctx, entry); err != nil {
			t.Fatalf("record %s: %v", entry.TrackID, err)
		}
	}

	counts, err := repo.CountByDisposition(ctx)
	if err != nil {
		t.Fatalf("count by disposition: %v", err)
	}
	if counts[corpus.DispositionAdded] != 2 || counts[corpus.DispositionRejected] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestRepositoryRejectsEmptyTrackID(t *testing.T) {
	repo := newTestRepository(t)
	if err := repo.Record(context.Background(), &corpus.TrackHistory{}); err == nil {
		t.Fatal("expected error for empty track id")
	}
}
