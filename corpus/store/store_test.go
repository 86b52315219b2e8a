package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/lyrics"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lyrics.jsonl")
	s, err := New(path, lyrics.TitleNormalizer{}, nil)
	require.NoError(t, err)
	return s
}

func sampleRecords() []corpus.SongRecord {
	return []corpus.SongRecord{
		{
			Title:         "勾指起誓",
			Producers:     []string{"ilem", "洛天依"},
			Lyrics:        "作词：ilem\n第一行歌词",
			CleanedLyrics: "第一行歌词",
			Metadata:      map[string]string{"作词": "ilem"},
		},
		{
			Title:         "普通DISCO",
			Producers:     []string{"ilem"},
			Lyrics:        "无元数据歌词",
			CleanedLyrics: "无元数据歌词",
		},
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	s := newTestStore(t)
	snapshot, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, snapshot.Records)
	assert.Zero(t, snapshot.MalformedLines)
}

func TestRewriteAllRoundTrip(t *testing.T) {
	s := newTestStore(t)
	records := sampleRecords()

	require.NoError(t, s.RewriteAll(records))

	snapshot, err := s.LoadAll()
	require.NoError(t, err)
	assert.Zero(t, snapshot.MalformedLines)
	assert.Equal(t, records, snapshot.Records)
}

func TestAppendOneAccumulates(t *testing.T) {
	s := newTestStore(t)
	records := sampleRecords()

	for _, record := range records {
		require.NoError(t, s.AppendOne(record))
	}

	snapshot, err := s.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, records, snapshot.Records)
}

func TestLoadAllSkipsMalformedLines(t *testing.T) {
	s := newTestStore(t)
	for _, record := range sampleRecords() {
		require.NoError(t, s.AppendOne(record))
	}

	f, err := os.OpenFile(s.Path(), os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("this is not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, s.AppendOne(corpus.SongRecord{Title: "达拉崩吧", CleanedLyrics: "x"}))

	snapshot, err := s.LoadAll()
	require.NoError(t, err)
	assert.Len(t, snapshot.Records, 3)
	assert.Equal(t, 1, snapshot.MalformedLines)
}

func TestRewriteAllReplacesContents(t *testing.T) {
	s := newTestStore(t)
	for _, record := range sampleRecords() {
		require.NoError(t, s.AppendOne(record))
	}

	replacement := []corpus.SongRecord{{Title: "仅此一首", CleanedLyrics: "歌词"}}
	require.NoError(t, s.RewriteAll(replacement))

	snapshot, err := s.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, replacement, snapshot.Records)

	// No temp files may survive the swap.
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExistingKeysNormalizesTitles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AppendOne(corpus.SongRecord{Title: "勾指起誓 (Live)", CleanedLyrics: "x"}))

	keys, err := s.ExistingKeys()
	require.NoError(t, err)
	_, ok := keys["勾指起誓"]
	assert.True(t, ok, "expected normalized key, got %v", keys)
}

func TestMetadataOmittedWhenEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AppendOne(corpus.SongRecord{Title: "x", CleanedLyrics: "y"}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "song_metadata")
}
