package lyrics

import (
	"regexp"
	"strings"
)

// RoleVocabulary is the fixed set of production-credit roles the extractor
// recognizes, in canonical order. Downstream attribution queries resolve
// against exactly these keys.
var RoleVocabulary = []string{
	"作词",
	"作曲",
	"编曲",
	"制作人",
	"混音",
	"母带",
	"美工",
	"配唱制作人",
	"监制",
}

// creditLineRe matches a line that begins with a known role name, a half- or
// full-width colon, and the credited name. Strictly line-oriented: a colon
// later in a lyric line never triggers extraction.
var creditLineRe = regexp.MustCompile(
	`^(作词|作曲|编曲|制作人|混音|母带|美工|配唱制作人|监制)\s*[:：]\s*(.+)$`,
)

// copyrightNotice is boilerplate the catalog appends to some lyrics; it is
// neither a credit nor lyric text and is dropped outright.
const copyrightNotice = "（版权所有，未经许可请勿使用）"

// Extract splits cleaned lyric text into the residual lyric body and a map of
// recognized credits. If a role appears more than once, the last occurrence
// wins. Unrecognized roles stay in the residual text as ordinary lines; the
// vocabulary is fixed and nothing is guessed.
func Extract(cleaned string) (string, map[string]string) {
	if cleaned == "" {
		return "", nil
	}

	lines := strings.Split(cleaned, "\n")
	metadata := make(map[string]string)
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == copyrightNotice {
			continue
		}
		if m := creditLineRe.FindStringSubmatch(trimmed); m != nil {
			metadata[m[1]] = strings.TrimSpace(m[2])
			continue
		}
		kept = append(kept, trimmed)
	}

	kept = CollapseBlankRuns(kept)
	residual := strings.TrimSpace(strings.Join(kept, "\n"))
	if len(metadata) == 0 {
		metadata = nil
	}
	return residual, metadata
}
