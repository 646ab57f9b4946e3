package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

// Evidence aggregates the keyword matches of one classification run. Each
// occurrence appends to its tier list, so the counts are the list lengths
// and a document naming "producto" five times carries five hits.
type Evidence struct {
	Critical  []string
	Important []string
	Secondary []string
}

func (e Evidence) CriticalCount() int  { return len(e.Critical) }
func (e Evidence) ImportantCount() int { return len(e.Important) }
func (e Evidence) SecondaryCount() int { return len(e.Secondary) }

// Score is the weighted evidence total: 3 per critical hit, 2 per important,
// 1 per secondary.
func (e Evidence) Score() int {
	return e.CriticalCount()*TierCritical.Weight() +
		e.ImportantCount()*TierImportant.Weight() +
		e.SecondaryCount()*TierSecondary.Weight()
}

// Keywords copies the matched terms into the external result shape. The
// slices are never nil so callers serialize empty tiers as [].
func (e Evidence) Keywords() domain.MatchedKeywords {
	return domain.MatchedKeywords{
		Critical:  append([]string{}, e.Critical...),
		Important: append([]string{}, e.Important...),
		Secondary: append([]string{}, e.Secondary...),
	}
}

func (e *Evidence) record(t term) {
	switch t.tier {
	case TierCritical:
		e.Critical = append(e.Critical, t.variant)
	case TierImportant:
		e.Important = append(e.Important, t.variant)
	default:
		e.Secondary = append(e.Secondary, t.variant)
	}
}

// accentFolder strips combining marks after NFD decomposition, so "número"
// and "numero" compare equal.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalize(s string) string {
	folded, _, err := transform.String(accentFolder, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// token is one letter/digit run of normalized text. dotted marks a token
// immediately followed by a period, which matters for abbreviation variants
// like "qty." and "cant.".
type token struct {
	text   string
	dotted bool
}

func tokenize(s string) []token {
	var tokens []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		if !isWordRune(rs[i]) {
			i++
			continue
		}
		start := i
		for i < len(rs) && isWordRune(rs[i]) {
			i++
		}
		tok := token{text: string(rs[start:i])}
		if i < len(rs) && rs[i] == '.' {
			tok.dotted = true
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func phraseKey(tokens []token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.text
	}
	return strings.Join(parts, " ")
}
