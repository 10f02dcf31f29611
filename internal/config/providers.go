package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"domain-metrics/pkg/log"
)

// ErrMissingEndpoint is returned when a provider has no base URL configured.
var ErrMissingEndpoint = errors.New("provider base_url is required")

// Endpoint describes how to reach one provider.
type Endpoint struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	App      string `yaml:"app"`
	UseRelay bool   `yaml:"use_relay"`
}

// ProviderSettings is the decoded provider file.
type ProviderSettings struct {
	// CORSRelay is prefixed to the URL of providers with use_relay set.
	CORSRelay string `yaml:"cors_relay"`

	Authority  Endpoint `yaml:"authority"`
	Appraisal  Endpoint `yaml:"appraisal"`
	Index      Endpoint `yaml:"index"`
	Redirects  Endpoint `yaml:"redirects"`
	DNSHistory Endpoint `yaml:"dns_history"`
	Whois      Endpoint `yaml:"whois"`
}

// Validate checks that every provider has a base URL.
func (s ProviderSettings) Validate() error {
	endpoints := []struct {
		name string
		ep   Endpoint
	}{
		{"authority", s.Authority},
		{"appraisal", s.Appraisal},
		{"index", s.Index},
		{"redirects", s.Redirects},
		{"dns_history", s.DNSHistory},
		{"whois", s.Whois},
	}
	for _, e := range endpoints {
		if e.ep.BaseURL == "" {
			return fmt.Errorf("%s: %w", e.name, ErrMissingEndpoint)
		}
	}
	return nil
}

// Relayed returns the URL prefix for ep: the CORS relay when enabled, else "".
func (s ProviderSettings) Relayed(ep Endpoint) string {
	if ep.UseRelay {
		return s.CORSRelay
	}
	return ""
}

// ParseProviders decodes YAML after expanding ${VAR} references, so API keys
// can stay in the environment.
func ParseProviders(data []byte, getenv func(string) string) (ProviderSettings, error) {
	expanded := os.Expand(string(data), getenv)

	var s ProviderSettings
	if err := yaml.Unmarshal([]byte(expanded), &s); err != nil {
		return ProviderSettings{}, fmt.Errorf("parse providers: %w", err)
	}
	if err := s.Validate(); err != nil {
		return ProviderSettings{}, err
	}
	return s, nil
}

// ProviderStore holds the current provider settings and reloads them when the
// file changes. Readers always see a complete, validated snapshot.
type ProviderStore struct {
	path   string
	getenv func(string) string

	mu       sync.RWMutex
	settings ProviderSettings
	modTime  time.Time
}

// LoadProviders reads path once. Call Watch to keep it fresh.
func LoadProviders(path string) (*ProviderStore, error) {
	s := &ProviderStore{path: path, getenv: os.Getenv}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Static returns a store that never reloads. Used by tests and the JSON API.
func Static(settings ProviderSettings) *ProviderStore {
	return &ProviderStore{settings: settings}
}

// Current returns the latest valid settings.
func (s *ProviderStore) Current() ProviderSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *ProviderStore) reload() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	settings, err := ParseProviders(data, s.getenv)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.modTime = info.ModTime()
	s.mu.Unlock()
	return nil
}

// Watch polls the file every interval until ctx is done. A file that fails to
// parse is logged and the previous settings are kept.
func (s *ProviderStore) Watch(ctx context.Context, interval time.Duration) {
	if s.path == "" {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mod, ok := s.changed()
			if !ok {
				continue
			}
			if err := s.reload(); err != nil {
				log.GlobalWarn("provider config reload failed", "path", s.path, "error", err)
				s.mu.Lock()
				s.modTime = mod
				s.mu.Unlock()
				continue
			}
			log.GlobalInfo("provider config reloaded", "path", s.path)
		}
	}
}

func (s *ProviderStore) changed() (time.Time, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return info.ModTime(), info.ModTime().After(s.modTime)
}
