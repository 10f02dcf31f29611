package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleProviders = `
cors_relay: "${RELAY}"
authority:
  base_url: "https://domdetailer.test/api/checkDomain.php"
  app: "DomDetailer"
  api_key: "${DD_KEY}"
appraisal:
  base_url: "https://godaddy.test/v1/appraisal"
  use_relay: true
index:
  base_url: "https://index.test/is_domain_indexed"
redirects:
  base_url: "https://hostio.test/api/domains/redirects"
  api_key: "tok"
dns_history:
  base_url: "http://completedns.test/v2/dns-history"
  api_key: "k"
  use_relay: true
whois:
  base_url: "https://apilayer.test/whois/query"
  api_key: "w"
`

func TestParseProviders_ExpandsEnv(t *testing.T) {
	// Arrange
	env := envOf(map[string]string{"RELAY": "https://relay.test/", "DD_KEY": "secret"})

	// Act
	s, err := ParseProviders([]byte(sampleProviders), env)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CORSRelay != "https://relay.test/" {
		t.Errorf("CORSRelay = %q", s.CORSRelay)
	}
	if s.Authority.APIKey != "secret" || s.Authority.App != "DomDetailer" {
		t.Errorf("Authority = %+v", s.Authority)
	}
	if !s.Appraisal.UseRelay || s.Index.UseRelay {
		t.Error("use_relay flags not decoded")
	}
	if got := s.Relayed(s.DNSHistory); got != "https://relay.test/" {
		t.Errorf("Relayed(dns) = %q", got)
	}
	if got := s.Relayed(s.Whois); got != "" {
		t.Errorf("Relayed(whois) = %q, want empty", got)
	}
}

func TestParseProviders_MissingBaseURL(t *testing.T) {
	_, err := ParseProviders([]byte("authority:\n  base_url: x\n"), envOf(nil))

	if !errors.Is(err, ErrMissingEndpoint) {
		t.Errorf("error = %v, want ErrMissingEndpoint", err)
	}
}

func TestParseProviders_InvalidYAML(t *testing.T) {
	_, err := ParseProviders([]byte("authority: [unclosed"), envOf(nil))

	if err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadProviders_MissingFile(t *testing.T) {
	_, err := LoadProviders(filepath.Join(t.TempDir(), "nope.yaml"))

	if !os.IsNotExist(err) {
		t.Errorf("error = %v, want not exist", err)
	}
}

func TestProviderStore_Watch_ReloadsOnChange(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "providers.yaml")
	if err := os.WriteFile(path, []byte(sampleProviders), 0o600); err != nil {
		t.Fatal(err)
	}
	store, err := LoadProviders(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Watch(ctx, 10*time.Millisecond)

	// Act
	updated := strings.Replace(sampleProviders, "${RELAY}", "https://other.test/", 1)
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	// Assert
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.Current().CORSRelay == "https://other.test/" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("CORSRelay = %q, want reloaded value", store.Current().CORSRelay)
}

func TestProviderStore_Watch_KeepsLastGoodOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	if err := os.WriteFile(path, []byte(sampleProviders), 0o600); err != nil {
		t.Fatal(err)
	}
	store, err := LoadProviders(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := store.Current()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Watch(ctx, 10*time.Millisecond)

	if err := os.WriteFile(path, []byte("authority: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	_ = os.Chtimes(path, future, future)
	time.Sleep(100 * time.Millisecond)

	if store.Current() != before {
		t.Error("a broken file must not replace valid settings")
	}
}

func TestStatic_NeverReloads(t *testing.T) {
	s := Static(ProviderSettings{CORSRelay: "r"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.Watch(ctx, time.Millisecond)

	if s.Current().CORSRelay != "r" {
		t.Error("static settings changed")
	}
}
