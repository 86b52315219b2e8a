package curate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/lyrics"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "lyrics.jsonl"), lyrics.TitleNormalizer{}, nil)
	require.NoError(t, err)
	return s
}

func TestRecordsRetrofitsOldRecords(t *testing.T) {
	// A record ingested by an older crawler: timing tags still present,
	// credits never extracted.
	records := []corpus.SongRecord{{
		Title:     "勾指起誓",
		Producers: []string{"ilem", "", "ilem", "洛天依"},
		Lyrics:    "[00:00.00]作词：ilem\n[00:03.20]作曲：ilem\n[00:05.00]第一行歌词",
	}}

	curated := Pass{}.Records(records)
	require.Len(t, curated, 1)

	got := curated[0]
	assert.Equal(t, "作词：ilem\n作曲：ilem\n第一行歌词", got.Lyrics)
	assert.Equal(t, "第一行歌词", got.CleanedLyrics)
	assert.Equal(t, map[string]string{"作词": "ilem", "作曲": "ilem"}, got.Metadata)
	assert.Equal(t, []string{"ilem", "洛天依"}, got.Producers)
}

func TestRecordsMergesDuplicates(t *testing.T) {
	records := []corpus.SongRecord{
		{
			Title:     "勾指起誓",
			Producers: []string{"ilem"},
			Lyrics:    "作词：ilem\n第一行歌词",
		},
		{
			Title:     "勾指起誓 (Live)",
			Producers: []string{"洛天依"},
			Lyrics:    "现场版歌词",
		},
	}

	curated := Pass{}.Records(records)
	require.Len(t, curated, 1)
	assert.Equal(t, "勾指起誓", curated[0].Title)
	assert.Equal(t, []string{"ilem", "洛天依"}, curated[0].Producers)
}

func TestRecordsKeepsUncleanableRecord(t *testing.T) {
	records := []corpus.SongRecord{{Title: "空壳", Lyrics: ""}}
	curated := Pass{}.Records(records)
	require.Len(t, curated, 1)
	assert.Equal(t, records[0], curated[0])
}

func TestRecordsIdempotent(t *testing.T) {
	records := []corpus.SongRecord{
		{Title: "歌", Producers: []string{"甲"}, Lyrics: "[00:00.00]作词：甲\n[00:01.00]正文"},
		{Title: "歌 (Live)", Producers: []string{"乙"}, Lyrics: "正文较长版本的文本"},
	}
	p := Pass{}
	once := p.Records(records)
	twice := p.Records(once)
	assert.Equal(t, once, twice)
}

func TestRunRewritesStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AppendOne(corpus.SongRecord{
		Title:  "勾指起誓",
		Lyrics: "[00:00.00]作词：ilem\n[00:05.00]第一行歌词",
	}))
	require.NoError(t, s.AppendOne(corpus.SongRecord{
		Title:  "勾指起誓 (Live)",
		Lyrics: "现场版歌词",
	}))

	report, err := Pass{}.Run(s)
	require.NoError(t, err)
	assert.Equal(t, Report{Loaded: 2, Merged: 1, Final: 1}, report)

	snapshot, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, snapshot.Records, 1)
	assert.Equal(t, "勾指起誓", snapshot.Records[0].Title)
	assert.Equal(t, "第一行歌词", snapshot.Records[0].CleanedLyrics)
}
