package classify

import "github.com/LennynMH/onecore.mx/internal/core/domain"

// Classifier runs the full pipeline: normalize and scan text for lexicon
// evidence, apply the decision rules, assemble the result. It holds only the
// immutable lexicon, so one instance is safe for concurrent use from any
// number of goroutines.
type Classifier struct {
	lexicon *Lexicon
}

func New(lexicon *Lexicon) *Classifier {
	return &Classifier{lexicon: lexicon}
}

// NewDefault builds a classifier over the embedded lexicon.
func NewDefault() (*Classifier, error) {
	lexicon, err := LoadDefault()
	if err != nil {
		return nil, err
	}
	return New(lexicon), nil
}

// MustDefault is NewDefault for callers that treat a broken embedded
// lexicon as a programming error, e.g. tests and fixed-configuration
// wiring.
func MustDefault() *Classifier {
	c, err := NewDefault()
	if err != nil {
		panic(err)
	}
	return c
}

// Extract scans text for lexicon matches. The scan is greedy and
// non-overlapping, longest phrase first, and counts every occurrence.
// Empty or whitespace-only text yields zero evidence, not an error.
func (c *Classifier) Extract(text string) Evidence {
	ev := Evidence{Critical: []string{}, Important: []string{}, Secondary: []string{}}
	tokens := tokenize(normalize(text))
	for i := 0; i < len(tokens); {
		t, consumed, ok := c.lexicon.longestMatch(tokens, i)
		if !ok {
			i++
			continue
		}
		ev.record(t)
		i += consumed
	}
	return ev
}

// Classify produces the verdict for one document text. Identical input
// always yields an identical result.
func (c *Classifier) Classify(text string) domain.ClassificationResult {
	ev := c.Extract(text)
	label, firedRule, score := decide(ev)
	return domain.ClassificationResult{
		Label:           label,
		FiredRule:       firedRule,
		Score:           score,
		MatchedKeywords: ev.Keywords(),
	}
}
