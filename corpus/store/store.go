package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/lyrics"
)

// maxLineBytes bounds a single JSONL line; lyrics never come close.
const maxLineBytes = 4 * 1024 * 1024

// Store persists SongRecords as newline-delimited JSON, one record per line.
//
// Two write paths with different durability guarantees: AppendOne is a flushed
// log append so a crash loses at most the in-flight record, RewriteAll is a
// write-to-temp-then-rename snapshot so a crash never leaves a truncated file.
type Store struct {
	path       string
	normalizer lyrics.TitleNormalizer
	logger     corpus.Logger
}

// New creates a store over the given JSONL file path. The file does not need
// to exist yet; a missing file loads as an empty corpus. The normalizer must
// be the same one the ingestor keys with.
func New(path string, normalizer lyrics.TitleNormalizer, logger corpus.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: path required")
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: create data directory: %w", err)
		}
	}
	return &Store{path: path, normalizer: normalizer, logger: logger}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads every persisted line. A line that fails to parse is counted
// and skipped; the load never aborts because of one bad line.
func (s *Store) LoadAll() (corpus.StoreSnapshot, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return corpus.StoreSnapshot{}, nil
		}
		return corpus.StoreSnapshot{}, fmt.Errorf("store: open %s: %w", s.path, err)
	}
	defer file.Close()

	var snapshot corpus.StoreSnapshot
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record corpus.SongRecord
		if err := json.Unmarshal(line, &record); err != nil {
			snapshot.MalformedLines++
			if s.logger != nil {
				s.logger.Warn("skipping malformed store line", "line", lineNo, "error", err)
			}
			continue
		}
		snapshot.Records = append(snapshot.Records, record)
	}
	if err := scanner.Err(); err != nil {
		return corpus.StoreSnapshot{}, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	return snapshot, nil
}

// AppendOne durably appends a single record, flushing before returning, so an
// accepted song survives a crash on the very next line.
func (s *Store) AppendOne(record corpus.SongRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("store: marshal record %q: %w", record.Title, err)
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("store: open %s for append: %w", s.path, err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("store: append record %q: %w", record.Title, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("store: sync after append: %w", err)
	}
	return nil
}

// RewriteAll atomically replaces the entire persisted contents. The new
// snapshot is written to a temporary file in the same directory, synced, then
// renamed into place.
func (s *Store) RewriteAll(records []corpus.SongRecord) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := bufio.NewWriter(tmp)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("store: marshal record %q: %w", record.Title, err)
		}
		if _, err := writer.Write(append(line, '\n')); err != nil {
			tmp.Close()
			return fmt.Errorf("store: write temp file: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("store: flush temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("store: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("store: swap %s into place: %w", s.path, err)
	}
	return nil
}

// ExistingKeys returns the set of normalized titles already persisted.
// Used by the ingestor to avoid re-fetching known songs.
func (s *Store) ExistingKeys() (map[string]struct{}, error) {
	snapshot, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	keys := make(map[string]struct{}, len(snapshot.Records))
	for _, record := range snapshot.Records {
		keys[s.normalizer.Normalize(record.Title)] = struct{}{}
	}
	return keys, nil
}
