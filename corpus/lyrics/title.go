package lyrics

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var (
	asciiBracketRe = regexp.MustCompile(`\([^()]*\)`)
	fullBracketRe  = regexp.MustCompile(`（[^（）]*）`)
)

// TitleNormalizer produces the dedup key for a song title.
//
// Bracketed content marks cosmetic variants ("(Live)", "（翻自 xxx）") of the
// same song, so paired ASCII and full-width brackets are stripped along with
// surrounding whitespace. The original title is kept in the record unmodified;
// only the key is normalized.
type TitleNormalizer struct {
	// FoldWidth additionally folds full-width Latin characters to their
	// half-width forms before comparison. Off by default; the upstream
	// catalog is not consistent enough to guess either way.
	FoldWidth bool
}

// Normalize returns the dedup key for title. It is idempotent.
func (n TitleNormalizer) Normalize(title string) string {
	for {
		stripped := asciiBracketRe.ReplaceAllString(title, "")
		stripped = fullBracketRe.ReplaceAllString(stripped, "")
		if stripped == title {
			break
		}
		title = stripped
	}
	title = strings.TrimSpace(title)
	if n.FoldWidth {
		title = width.Fold.String(title)
	}
	return title
}

// NormalizeTitle normalizes with default rules (no width folding).
func NormalizeTitle(title string) string {
	return TitleNormalizer{}.Normalize(title)
}
