package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/lyrics"
)

// Ingestor drives the sequential crawl: one page at a time, one song at a
// time, with a fixed pause between lyric fetches. No concurrent fetching; the
// catalog's tolerance for parallel clients is unknown and a lost crawl is
// cheaper than a ban.
type Ingestor struct {
	catalog    corpus.Catalog
	store      corpus.Store
	history    corpus.HistoryRepository
	normalizer lyrics.TitleNormalizer
	limiter    *rate.Limiter
	logger     corpus.Logger
}

// Options configures an Ingestor.
type Options struct {
	Catalog    corpus.Catalog
	Store      corpus.Store
	History    corpus.HistoryRepository // optional; skips re-fetching rejected tracks
	Normalizer lyrics.TitleNormalizer
	// FetchInterval is the pause between successive lyric fetches.
	FetchInterval time.Duration
	Logger        corpus.Logger
}

// New creates an Ingestor.
func New(opts Options) (*Ingestor, error) {
	if opts.Catalog == nil {
		return nil, errors.New("ingest: catalog required")
	}
	if opts.Store == nil {
		return nil, errors.New("ingest: store required")
	}
	interval := opts.FetchInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Ingestor{
		catalog:    opts.Catalog,
		store:      opts.Store,
		history:    opts.History,
		normalizer: opts.Normalizer,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		logger:     opts.Logger,
	}, nil
}

// Run scans pages startPage..startPage+pageCount-1 of the catalog search for
// query and appends every new, usable song to the store as soon as it is
// accepted. Page and track fetch failures are logged and skipped; store write
// failures abort the run.
//
// The seen-key index lives only for the duration of one run and is rebuilt
// from the store on the next invocation.
func (in *Ingestor) Run(ctx context.Context, query string, startPage, pageCount, pageSize int) (corpus.CrawlReport, error) {
	var report corpus.CrawlReport

	if query == "" {
		return report, errors.New("ingest: query required")
	}
	if pageSize <= 0 {
		pageSize = 30
	}

	index, err := in.store.ExistingKeys()
	if err != nil {
		return report, fmt.Errorf("ingest: load existing keys: %w", err)
	}
	in.logf("crawl started", "query", query, "start_page", startPage, "pages", pageCount, "known_titles", len(index))

	for page := startPage; page < startPage+pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		tracks, err := in.catalog.Search(ctx, query, page, pageSize)
		if err != nil {
			report.PagesFailed++
			in.warnf("page fetch failed, moving on", "page", page, "error", err)
			continue
		}
		report.PagesScanned++

		for _, track := range tracks {
			report.TracksSeen++
			if err := in.handleTrack(ctx, track, index, &report); err != nil {
				return report, err
			}
		}
	}

	report.CorpusSize = len(index)
	in.logf("crawl finished",
		"tracks_seen", report.TracksSeen,
		"added", report.TracksAdded,
		"skipped_existing", report.SkippedExisting,
		"rejected", report.Rejected,
		"corpus_size", report.CorpusSize,
	)
	return report, nil
}

// handleTrack processes one search hit. Only store write errors propagate.
func (in *Ingestor) handleTrack(ctx context.Context, track corpus.TrackDescriptor, index map[string]struct{}, report *corpus.CrawlReport) error {
	key := in.normalizer.Normalize(track.Title)
	if key == "" {
		report.Rejected++
		in.warnf("skipping track with empty title", "track_id", track.ID)
		return nil
	}

	if _, ok := index[key]; ok {
		report.SkippedExisting++
		in.remember(ctx, track, corpus.DispositionDuplicate, "")
		return nil
	}

	if entry := in.recall(ctx, track.ID); entry != nil && entry.Disposition == corpus.DispositionRejected {
		report.Rejected++
		in.logf("skipping previously rejected track", "track_id", track.ID, "reason", entry.Reason)
		return nil
	}

	// The pause between lyric fetches; with the search call itself, the only
	// suspension points of the crawl.
	if err := in.limiter.Wait(ctx); err != nil {
		return err
	}

	raw, err := in.catalog.GetLyrics(ctx, track.ID)
	if err != nil {
		report.Rejected++
		in.warnf("lyric fetch failed, moving on", "track_id", track.ID, "title", track.Title, "error", err)
		return nil
	}

	cleaned := lyrics.Clean(raw)
	if !cleaned.Accepted() {
		report.Rejected++
		in.remember(ctx, track, corpus.DispositionRejected, cleaned.Reason.String())
		in.logf("no usable lyrics", "track_id", track.ID, "title", track.Title, "reason", cleaned.Reason.String())
		return nil
	}

	residual, metadata := lyrics.Extract(cleaned.Text)
	record := corpus.SongRecord{
		Title:         track.Title,
		Producers:     corpus.NormalizeProducers(track.Artists),
		Lyrics:        cleaned.Text,
		CleanedLyrics: residual,
		Metadata:      metadata,
	}

	if err := in.store.AppendOne(record); err != nil {
		return fmt.Errorf("ingest: persist %q: %w", track.Title, err)
	}
	index[key] = struct{}{}
	report.TracksAdded++
	in.remember(ctx, track, corpus.DispositionAdded, "")
	in.logf("song added", "track_id", track.ID, "title", track.Title, "credits", len(metadata))
	return nil
}

func (in *Ingestor) recall(ctx context.Context, trackID string) *corpus.TrackHistory {
	if in.history == nil {
		return nil
	}
	entry, err := in.history.Lookup(ctx, trackID)
	if err != nil {
		in.warnf("history lookup failed", "track_id", trackID, "error", err)
		return nil
	}
	return entry
}

func (in *Ingestor) remember(ctx context.Context, track corpus.TrackDescriptor, disposition, reason string) {
	if in.history == nil {
		return
	}
	err := in.history.Record(ctx, &corpus.TrackHistory{
		TrackID:     track.ID,
		Title:       track.Title,
		Disposition: disposition,
		Reason:      reason,
	})
	if err != nil {
		in.warnf("history record failed", "track_id", track.ID, "error", err)
	}
}

func (in *Ingestor) logf(msg string, args ...any) {
	if in.logger != nil {
		in.logger.Info(msg, args...)
	}
}

func (in *Ingestor) warnf(msg string, args ...any) {
	if in.logger != nil {
		in.logger.Warn(msg, args...)
	}
}
