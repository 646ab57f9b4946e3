package classify

import "github.com/LennynMH/onecore.mx/internal/core/domain"

// The decision rules require corroborating evidence rather than a single
// strong keyword: a report that happens to say "factura" once must not become
// an invoice. Rules are evaluated strictly in order and the first one that
// fires wins; evaluation order is an observable contract because the fired
// rule id is reported for auditing even though rules 1-4 share a label.
type rule struct {
	id    int
	fires func(ev Evidence, score int) bool
}

var invoiceRules = []rule{
	{1, func(ev Evidence, score int) bool {
		return ev.CriticalCount() >= 1 && ev.ImportantCount() >= 2 && score >= 12
	}},
	{2, func(ev Evidence, score int) bool {
		return ev.CriticalCount() >= 2 && score >= 10
	}},
	{3, func(ev Evidence, score int) bool {
		return ev.ImportantCount() >= 4 && score >= 14
	}},
	{4, func(_ Evidence, score int) bool {
		return score >= 16
	}},
}

// defaultRuleID is the fallthrough: no invoice rule held.
const defaultRuleID = 5

// decide applies the rule chain to aggregated evidence. The score is
// computed once and reused by every predicate. It cannot fail: all-zero
// evidence simply falls through to the default.
func decide(ev Evidence) (label domain.DocumentClass, firedRule int, score int) {
	score = ev.Score()
	for _, r := range invoiceRules {
		if r.fires(ev, score) {
			return domain.ClassInvoice, r.id, score
		}
	}
	return domain.ClassInformational, defaultRuleID, score
}
