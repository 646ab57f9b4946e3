// Package classify decides whether extracted document text is an invoice
// (FACTURA) or an informational document (INFORMACIÓN) from weighted keyword
// evidence. The engine is pure and stateless: the lexicon is loaded once at
// startup and shared read-only, every classification call derives fresh
// values from its input text, and no call can fail.
package classify

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Tier is a keyword's weight class. Critical terms name the document kind
// outright; important terms indicate invoice context; secondary terms are
// common words that also show up in other documents.
type Tier int

const (
	TierCritical Tier = iota
	TierImportant
	TierSecondary
)

func (t Tier) Weight() int {
	switch t {
	case TierCritical:
		return 3
	case TierImportant:
		return 2
	default:
		return 1
	}
}

func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierImportant:
		return "important"
	default:
		return "secondary"
	}
}

// term is one normalized lookup key of the lexicon: the variant text as it
// will appear in normalized input, plus the entry it belongs to.
type term struct {
	canonical string
	variant   string
	tier      Tier
}

// Lexicon is the immutable keyword table plus its derived lookup structures.
// Build it once at startup; reloading requires a restart.
type Lexicon struct {
	terms           map[string]term
	maxPhraseTokens int
}

type lexiconEntry struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

type lexiconFile struct {
	Critical  []lexiconEntry `yaml:"critical"`
	Important []lexiconEntry `yaml:"important"`
	Secondary []lexiconEntry `yaml:"secondary"`
}

// LoadDefault parses the embedded lexicon.
func LoadDefault() (*Lexicon, error) {
	return Load(defaultLexiconYAML)
}

// LoadFile parses a lexicon from an external YAML file, for deployments that
// tune the keyword table without rebuilding.
func LoadFile(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrConfig, "read lexicon file", err)
	}
	return Load(raw)
}

// Load parses and validates a YAML lexicon. A variant claimed by two entries
// is a configuration defect and fails the load: silently picking one tier
// would invisibly bias every future classification.
func Load(raw []byte) (*Lexicon, error) {
	var file lexiconFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, domain.WrapError(domain.ErrConfig, "parse lexicon yaml", err)
	}

	lex := &Lexicon{terms: make(map[string]term)}
	for _, group := range []struct {
		tier    Tier
		entries []lexiconEntry
	}{
		{TierCritical, file.Critical},
		{TierImportant, file.Important},
		{TierSecondary, file.Secondary},
	} {
		tier, entries := group.tier, group.entries
		if len(entries) == 0 {
			return nil, domain.WrapError(domain.ErrConfig, "load lexicon",
				fmt.Errorf("tier %s has no entries", tier))
		}
		for _, entry := range entries {
			if err := lex.addEntry(entry, tier); err != nil {
				return nil, domain.WrapError(domain.ErrConfig, "load lexicon", err)
			}
		}
	}
	return lex, nil
}

func (l *Lexicon) addEntry(entry lexiconEntry, tier Tier) error {
	if strings.TrimSpace(entry.Canonical) == "" {
		return errors.New("entry with empty canonical term")
	}
	for _, variant := range append([]string{entry.Canonical}, entry.Variants...) {
		key, tokenCount, err := variantKey(variant)
		if err != nil {
			return fmt.Errorf("entry %q: %w", entry.Canonical, err)
		}
		if prev, taken := l.terms[key]; taken {
			return fmt.Errorf("variant %q claimed by both %q (%s) and %q (%s)",
				key, prev.canonical, prev.tier, entry.Canonical, tier)
		}
		l.terms[key] = term{canonical: entry.Canonical, variant: key, tier: tier}
		if tokenCount > l.maxPhraseTokens {
			l.maxPhraseTokens = tokenCount
		}
	}
	return nil
}

// variantKey normalizes a lexicon variant the same way input text is
// normalized, so both sides of a lookup fold identically. A trailing dot on
// a single-word variant stays part of the key ("qty." vs "qty").
func variantKey(variant string) (string, int, error) {
	tokens := tokenize(normalize(variant))
	if len(tokens) == 0 {
		return "", 0, fmt.Errorf("variant %q normalizes to nothing", variant)
	}
	key := phraseKey(tokens)
	if len(tokens) == 1 && tokens[0].dotted && strings.HasSuffix(strings.TrimSpace(variant), ".") {
		key += "."
	}
	return key, len(tokens), nil
}

// Match reports whether a normalized word or phrase is in the lexicon.
func (l *Lexicon) Match(phrase string) (canonical string, tier Tier, ok bool) {
	t, ok := l.terms[phrase]
	if !ok {
		return "", 0, false
	}
	return t.canonical, t.tier, true
}

// longestMatch finds the longest lexicon phrase starting at tokens[at].
// Multi-word phrases win over their component words, so "numero de factura"
// is one critical hit rather than a phrase plus a spurious "factura".
func (l *Lexicon) longestMatch(tokens []token, at int) (term, int, bool) {
	maxN := l.maxPhraseTokens
	if rest := len(tokens) - at; rest < maxN {
		maxN = rest
	}
	for n := maxN; n >= 1; n-- {
		if n == 1 && tokens[at].dotted {
			if t, ok := l.terms[tokens[at].text+"."]; ok {
				return t, 1, true
			}
		}
		if t, ok := l.terms[phraseKey(tokens[at:at+n])]; ok {
			return t, n, true
		}
	}
	return term{}, 0, false
}
