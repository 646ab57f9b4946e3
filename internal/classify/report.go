package classify

import (
	"fmt"
	"strings"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

// Report renders a one-line human-readable breakdown of a classification:
// verdict, fired rule, score, and per tier both the match count and the
// weighted points it contributed (count/points). The
// structured counterpart is the ClassificationResult itself; callers
// serialize it into their own log or wire formats.
func Report(res domain.ClassificationResult) string {
	kw := res.MatchedKeywords
	var b strings.Builder
	fmt.Fprintf(&b, "classification=%s rule=%s score=%d matches=%d",
		res.Label, ruleName(res.FiredRule), res.Score,
		len(kw.Critical)+len(kw.Important)+len(kw.Secondary))
	appendTier(&b, TierCritical, kw.Critical)
	appendTier(&b, TierImportant, kw.Important)
	appendTier(&b, TierSecondary, kw.Secondary)
	return b.String()
}

// LogAttrs exposes the same breakdown as slog key/value pairs.
func LogAttrs(res domain.ClassificationResult) []any {
	kw := res.MatchedKeywords
	return []any{
		"classification", string(res.Label),
		"fired_rule", res.FiredRule,
		"score", res.Score,
		"critical_count", len(kw.Critical),
		"important_count", len(kw.Important),
		"secondary_count", len(kw.Secondary),
	}
}

func appendTier(b *strings.Builder, tier Tier, matched []string) {
	fmt.Fprintf(b, " %s=%d/%d", tier, len(matched), len(matched)*tier.Weight())
	if len(matched) > 0 {
		fmt.Fprintf(b, " [%s]", strings.Join(matched, ", "))
	}
}

func ruleName(id int) string {
	if id == defaultRuleID {
		return "default"
	}
	return fmt.Sprintf("%d", id)
}
