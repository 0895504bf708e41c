package progress

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

// DefaultMinSimilarity is the token-set Jaccard threshold used when the
// caller passes a non-positive one.
const DefaultMinSimilarity = 0.6

// DetectCompleted matches record names against catalog course titles and
// returns the matched titles, keyed exactly as they appear in the catalog.
//
// Matching runs in tiers, the first hit wins:
//  1. exact match after normalization
//  2. substring containment either way
//  3. token-set Jaccard similarity at or above minSimilarity
//
// A record whose best similarity score is shared by several courses is
// skipped with a warning rather than guessed.
func DetectCompleted(records, titles []string, minSimilarity float64) map[string]struct{} {
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}

	normTitles := make([]string, len(titles))
	for i, t := range titles {
		normTitles[i] = normalize(t)
	}

	completed := make(map[string]struct{})
	for _, rec := range records {
		recNorm := normalize(rec)
		if recNorm == "" {
			continue
		}

		if title, ok := exactMatch(recNorm, titles, normTitles); ok {
			completed[title] = struct{}{}
			continue
		}
		if title, ok := substringMatch(recNorm, titles, normTitles); ok {
			completed[title] = struct{}{}
			continue
		}

		switch title, status := similarityMatch(recNorm, titles, normTitles, minSimilarity); status {
		case simMatched:
			log.Debug().Str("record", rec).Str("course", title).Msg("matched record by similarity")
			completed[title] = struct{}{}
		case simAmbiguous:
			log.Warn().Str("record", rec).Msg("record matches several courses equally well, skipped")
		default:
			log.Debug().Str("record", rec).Msg("no course match for record")
		}
	}
	return completed
}

func exactMatch(recNorm string, titles, normTitles []string) (string, bool) {
	for i, nt := range normTitles {
		if nt != "" && nt == recNorm {
			return titles[i], true
		}
	}
	return "", false
}

func substringMatch(recNorm string, titles, normTitles []string) (string, bool) {
	for i, nt := range normTitles {
		if nt == "" {
			continue
		}
		if strings.Contains(recNorm, nt) || strings.Contains(nt, recNorm) {
			return titles[i], true
		}
	}
	return "", false
}

const (
	simNone = iota
	simMatched
	simAmbiguous
)

func similarityMatch(recNorm string, titles, normTitles []string, minSimilarity float64) (string, int) {
	recTokens := tokenSet(recNorm)

	best := 0.0
	bestIdx := -1
	bestCount := 0
	for i, nt := range normTitles {
		score := jaccard(recTokens, tokenSet(nt))
		switch {
		case score > best:
			best, bestIdx, bestCount = score, i, 1
		case score == best && score > 0:
			bestCount++
		}
	}

	if bestIdx < 0 || best < minSimilarity {
		return "", simNone
	}
	if bestCount > 1 {
		return "", simAmbiguous
	}
	return titles[bestIdx], simMatched
}

// normalize lowercases and reduces a name to space-separated alphanumeric
// words.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// jaccard is the intersection-over-union of two token sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
