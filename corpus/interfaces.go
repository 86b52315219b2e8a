package corpus

import "context"

// Logger is the minimal logging abstraction used across modules.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config provides typed access to configuration values.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
}

// Catalog defines the external music catalog operations used by the ingestor.
// Both calls hit the network and may fail; failures are soft for the caller.
type Catalog interface {
	Search(ctx context.Context, query string, page, pageSize int) ([]TrackDescriptor, error)
	GetLyrics(ctx context.Context, trackID string) (string, error)
}

// Store defines the durable corpus storage operations.
//
// AppendOne and RewriteAll are deliberately separate: AppendOne is a flushed
// single-line log append, RewriteAll is an atomic snapshot replace. Their
// crash-safety guarantees differ and they must not share a write path.
type Store interface {
	LoadAll() (StoreSnapshot, error)
	AppendOne(record SongRecord) error
	RewriteAll(records []SongRecord) error
	ExistingKeys() (map[string]struct{}, error)
}

// HistoryRepository records the disposition of every track examined during
// ingestion so later runs can skip tracks that were rejected rather than
// re-fetching their lyrics. Losing the history only costs redundant fetches.
type HistoryRepository interface {
	Lookup(ctx context.Context, trackID string) (*TrackHistory, error)
	Record(ctx context.Context, entry *TrackHistory) error
	Count(ctx context.Context) (int64, error)
}

// TrackHistory is one remembered ingestion decision.
type TrackHistory struct {
	ID          uint
	TrackID     string
	Title       string
	Disposition string
	Reason      string
}

// Track dispositions recorded in the fetch history.
const (
	DispositionAdded     = "added"
	DispositionDuplicate = "duplicate"
	DispositionRejected  = "rejected"
)
