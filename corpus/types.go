package corpus

// SongRecord is the persisted unit of the corpus: one song per JSONL line.
//
// Lyrics keeps the text after timing-tag stripping and line trimming but before
// credit extraction; it is the audit trail and is never silently discarded.
// CleanedLyrics is Lyrics with all recognized credit lines removed. Metadata
// maps a fixed credit-role vocabulary to the credited name; absent roles are
// omitted rather than stored as empty values.
type SongRecord struct {
	Title         string            `json:"title"`
	Producers     []string          `json:"producers"`
	Lyrics        string            `json:"lyrics"`
	CleanedLyrics string            `json:"cleaned_lyrics"`
	Metadata      map[string]string `json:"song_metadata,omitempty"`
}

// TrackDescriptor is one entry of a catalog search result page.
type TrackDescriptor struct {
	ID      string
	Title   string
	Artists []string
}

// CrawlReport summarizes one ingestion run.
type CrawlReport struct {
	PagesScanned    int
	PagesFailed     int
	TracksSeen      int
	TracksAdded     int
	SkippedExisting int
	Rejected        int
	CorpusSize      int
}

// StoreSnapshot is the result of loading the persisted corpus.
type StoreSnapshot struct {
	Records        []SongRecord
	MalformedLines int
}
