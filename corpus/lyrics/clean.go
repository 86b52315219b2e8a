package lyrics

import (
	"regexp"
	"strings"
)

// lrcTagRe matches synchronized-lyric timing tags: [mm:ss], [mm:ss.ff],
// [mm:ss.fff] and the occasional [mm:ss:ss.ff] the catalog emits.
var lrcTagRe = regexp.MustCompile(`\[\d{2}:\d{2}(?::\d{2})?(?:\.\d{2,3})?\]`)

// instrumentalSentinel is the fixed string NetEase returns in place of lyrics
// for instrumental-only tracks.
const instrumentalSentinel = "纯音乐，请欣赏"

// RejectReason classifies why raw lyric text produced no usable content.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectEmpty
	RejectInstrumental
)

func (r RejectReason) String() string {
	switch r {
	case RejectEmpty:
		return "empty"
	case RejectInstrumental:
		return "instrumental"
	default:
		return "none"
	}
}

// CleanResult is the classified outcome of cleaning raw lyric text.
// Rejection is a soft filter: the caller skips the song, nothing errors.
type CleanResult struct {
	Text   string
	Reason RejectReason
}

// Accepted reports whether the input yielded usable lyric text.
func (r CleanResult) Accepted() bool {
	return r.Reason == RejectNone
}

// Clean strips timing tags from raw lyric text, trims every line, drops lines
// that become empty, and classifies sentinel or empty results as rejected.
func Clean(raw string) CleanResult {
	if strings.TrimSpace(raw) == "" {
		return CleanResult{Reason: RejectEmpty}
	}

	text := StripTimingTags(raw)

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}

	text = strings.Join(kept, "\n")
	if text == "" {
		return CleanResult{Reason: RejectEmpty}
	}
	if strings.Contains(text, instrumentalSentinel) {
		return CleanResult{Reason: RejectInstrumental}
	}
	return CleanResult{Text: text}
}

// StripTimingTags removes every timing tag, leaving the line text untouched.
func StripTimingTags(s string) string {
	return lrcTagRe.ReplaceAllString(s, "")
}

// CollapseBlankRuns reduces consecutive blank lines to a single blank line.
// Clean drops blank lines entirely; this is for callers that keep them.
func CollapseBlankRuns(lines []string) []string {
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" && len(result) > 0 && result[len(result)-1] == "" {
			continue
		}
		result = append(result, line)
	}
	return result
}
