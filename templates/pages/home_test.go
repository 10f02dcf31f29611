package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"domain-metrics/internal/domain"
	"domain-metrics/internal/usecases"
	"domain-metrics/templates/components"
)

func TestHome_RendersFormQuotaAndResults(t *testing.T) {
	// Arrange
	da, pa := 10.0, 20.0
	v := HomeView{
		Input: "example.com",
		Snapshot: usecases.Snapshot{
			State:     usecases.Merged,
			Domain:    "example.com",
			Record:    &domain.MetricsRecord{Domain: "example.com", MozDA: &da, MozPA: &pa},
			Selection: domain.NewFieldSelection("da_pa"),
		},
		Quota: components.Quota{Used: 2, Limit: 5, Window: 24 * time.Hour},
	}

	// Act
	var buf bytes.Buffer
	if err := Home(v).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := buf.String()

	// Assert
	if !strings.HasPrefix(html, "<!doctype html>") {
		t.Error("home should be a full document")
	}
	for _, want := range []string{
		"<h1>Domain Metrics Checker</h1>",
		`value="example.com"`,
		"You can check up to 5 domains every 24 hours",
		"(2 of 5 used)",
		`<section id="results"><div class="record"><h2>example.com</h2>`,
		"10 &amp; 20",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in %s", want, html)
		}
	}
}
