package stats

import (
	"sort"

	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/lyrics"
)

// ProducerCount is one row of the producer frequency ranking.
type ProducerCount struct {
	Name  string
	Count int
}

// Summary holds read-only corpus statistics.
type Summary struct {
	TotalSongs      int
	UniqueTitles    int
	DuplicateTitles int
	EmptyTitles     int
	EmptyLyrics     int
	AvgLyricLength  float64
	Producers       []ProducerCount
}

// Reporter computes corpus statistics over a loaded store.
type Reporter struct {
	Normalizer lyrics.TitleNormalizer
}

// Summarize computes totals, the pre-dedup duplicate count, the average
// cleaned-lyrics length in characters, and a producer frequency ranking.
// Ranking ties break by first appearance order in the corpus.
func (r Reporter) Summarize(records []corpus.SongRecord) Summary {
	summary := Summary{TotalSongs: len(records)}

	seenTitles := make(map[string]struct{}, len(records))
	producerCounts := make(map[string]int)
	producerOrder := make(map[string]int)
	var lyricRunes int
	var withLyrics int

	for _, record := range records {
		key := r.Normalizer.Normalize(record.Title)
		if key == "" {
			summary.EmptyTitles++
		}
		if _, ok := seenTitles[key]; ok {
			summary.DuplicateTitles++
		} else {
			seenTitles[key] = struct{}{}
		}

		if record.CleanedLyrics == "" {
			summary.EmptyLyrics++
		} else {
			lyricRunes += len([]rune(record.CleanedLyrics))
			withLyrics++
		}

		for _, producer := range record.Producers {
			if _, ok := producerOrder[producer]; !ok {
				producerOrder[producer] = len(producerOrder)
			}
			producerCounts[producer]++
		}
	}

	summary.UniqueTitles = len(seenTitles)
	if withLyrics > 0 {
		summary.AvgLyricLength = float64(lyricRunes) / float64(withLyrics)
	}

	summary.Producers = make([]ProducerCount, 0, len(producerCounts))
	for name, count := range producerCounts {
		summary.Producers = append(summary.Producers, ProducerCount{Name: name, Count: count})
	}
	sort.SliceStable(summary.Producers, func(i, j int) bool {
		if summary.Producers[i].Count != summary.Producers[j].Count {
			return summary.Producers[i].Count > summary.Producers[j].Count
		}
		return producerOrder[summary.Producers[i].Name] < producerOrder[summary.Producers[j].Name]
	})

	return summary
}

// Top returns the first n producer rows, or all of them when n exceeds the
// ranking size.
func (s Summary) Top(n int) []ProducerCount {
	if n < 0 {
		n = 0
	}
	if n > len(s.Producers) {
		n = len(s.Producers)
	}
	return s.Producers[:n]
}
