package classify

import (
	"strings"
	"testing"
)

func TestReportBreakdown(t *testing.T) {
	c := newTestClassifier(t)

	res := c.Classify("factura cliente proveedor total iva cantidad")
	report := Report(res)

	for _, want := range []string{
		"classification=FACTURA",
		"rule=1",
		"score=13",
		"matches=6",
		"critical=1/3 [factura]",
		"important=5/10",
		"secondary=0/0",
		"cliente",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestReportDefaultRule(t *testing.T) {
	c := newTestClassifier(t)

	report := Report(c.Classify(""))
	if !strings.Contains(report, "classification=INFORMACIÓN") {
		t.Fatalf("expected informational verdict in report: %s", report)
	}
	if !strings.Contains(report, "rule=default") {
		t.Fatalf("expected default rule marker: %s", report)
	}
	if !strings.Contains(report, "score=0 matches=0") {
		t.Fatalf("expected zero evidence summary: %s", report)
	}
	if !strings.Contains(report, "critical=0/0") {
		t.Fatalf("expected zero tier points: %s", report)
	}
}

func TestReportTierPointsMatchWeights(t *testing.T) {
	c := newTestClassifier(t)

	// 2 criticals, 2 importants, 1 secondary: 6, 4, and 1 points.
	report := Report(c.Classify("factura recibo cliente total pago"))
	for _, want := range []string{"critical=2/6", "important=2/4", "secondary=1/1", "score=11"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestLogAttrsPairs(t *testing.T) {
	c := newTestClassifier(t)

	attrs := LogAttrs(c.Classify("factura cliente proveedor total iva cantidad"))
	if len(attrs)%2 != 0 {
		t.Fatalf("expected key/value pairs, got %d elements", len(attrs))
	}
	byKey := map[string]any{}
	for i := 0; i < len(attrs); i += 2 {
		byKey[attrs[i].(string)] = attrs[i+1]
	}
	if byKey["classification"] != "FACTURA" {
		t.Fatalf("unexpected classification attr: %v", byKey["classification"])
	}
	if byKey["fired_rule"] != 1 || byKey["score"] != 13 {
		t.Fatalf("unexpected rule/score attrs: %+v", byKey)
	}
}
