package dedup

import (
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/lyrics"
)

// Deduplicator merges records that share a normalized title.
type Deduplicator struct {
	Normalizer lyrics.TitleNormalizer
}

// Merge groups records by normalized title and collapses each group to one
// winner. The winner is the record with the most extracted credit roles, then
// the longer cleaned lyrics, then the earliest seen. The winner's producers
// become the union of the whole group, deduplicated in first-seen order; the
// losers' lyric text is discarded.
//
// Output order follows the first appearance of each group in the input, so
// repeated passes over unchanged input are idempotent.
func (d Deduplicator) Merge(records []corpus.SongRecord) []corpus.SongRecord {
	type group struct {
		winner    corpus.SongRecord
		producers [][]string
	}

	order := make([]string, 0, len(records))
	groups := make(map[string]*group, len(records))

	for _, record := range records {
		key := d.Normalizer.Normalize(record.Title)
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{winner: record, producers: [][]string{record.Producers}}
			order = append(order, key)
			continue
		}
		g.producers = append(g.producers, record.Producers)
		if beats(record, g.winner) {
			g.winner = record
		}
	}

	result := make([]corpus.SongRecord, 0, len(order))
	for _, key := range order {
		g := groups[key]
		merged := g.winner
		merged.Producers = corpus.NormalizeProducers(g.producers...)
		result = append(result, merged)
	}
	return result
}

// beats reports whether challenger wins over the incumbent. Ties keep the
// incumbent, which preserves first-seen order as the final tie-break.
func beats(challenger, incumbent corpus.SongRecord) bool {
	if len(challenger.Metadata) != len(incumbent.Metadata) {
		return len(challenger.Metadata) > len(incumbent.Metadata)
	}
	return len([]rune(challenger.CleanedLyrics)) > len([]rune(incumbent.CleanedLyrics))
}
