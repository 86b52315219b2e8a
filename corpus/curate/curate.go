package curate

import (
	"fmt"

	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/dedup"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/lyrics"
)

// Pass is the batch curation pass: it re-cleans and re-extracts every stored
// record, merges duplicates, and rewrites the store in one atomic swap. The
// transformation is pure and in-memory; re-running it over unchanged input
// produces identical output.
type Pass struct {
	Normalizer lyrics.TitleNormalizer
	Logger     corpus.Logger
}

// Report summarizes one curation pass.
type Report struct {
	Loaded         int
	MalformedLines int
	Merged         int
	Final          int
}

// Records transforms a loaded record set without touching storage.
//
// Records whose audit text no longer cleans (a retroactively blanked lyric,
// say) are kept untouched rather than dropped; the store never loses a song
// outside an explicit duplicate merge.
func (p Pass) Records(records []corpus.SongRecord) []corpus.SongRecord {
	curated := make([]corpus.SongRecord, 0, len(records))
	for _, record := range records {
		curated = append(curated, p.recordPass(record))
	}
	return dedup.Deduplicator{Normalizer: p.Normalizer}.Merge(curated)
}

func (p Pass) recordPass(record corpus.SongRecord) corpus.SongRecord {
	cleaned := lyrics.Clean(record.Lyrics)
	if !cleaned.Accepted() {
		if p.Logger != nil {
			p.Logger.Warn("stored lyrics no longer clean, keeping record as-is",
				"title", record.Title, "reason", cleaned.Reason.String())
		}
		return record
	}

	residual, metadata := lyrics.Extract(cleaned.Text)
	record.Lyrics = cleaned.Text
	record.CleanedLyrics = residual
	record.Metadata = metadata
	record.Producers = corpus.NormalizeProducers(record.Producers)
	return record
}

// Run loads the store, applies the pass, and atomically rewrites the store
// with the curated records.
func (p Pass) Run(store corpus.Store) (Report, error) {
	snapshot, err := store.LoadAll()
	if err != nil {
		return Report{}, fmt.Errorf("curate: load store: %w", err)
	}

	curated := p.Records(snapshot.Records)
	report := Report{
		Loaded:         len(snapshot.Records),
		MalformedLines: snapshot.MalformedLines,
		Merged:         len(snapshot.Records) - len(curated),
		Final:          len(curated),
	}

	if err := store.RewriteAll(curated); err != nil {
		return report, fmt.Errorf("curate: rewrite store: %w", err)
	}
	if p.Logger != nil {
		p.Logger.Info("curation pass finished",
			"loaded", report.Loaded,
			"malformed_lines", report.MalformedLines,
			"merged", report.Merged,
			"final", report.Final,
		)
	}
	return report, nil
}
