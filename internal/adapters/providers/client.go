// Package providers implements the six third-party metric sources as HTTP
// JSON clients.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"domain-metrics/internal/config"
	"domain-metrics/internal/domain"
	"domain-metrics/internal/usecases"
	"domain-metrics/pkg/log"
)

// Provider names as they appear in ProviderError and logs.
const (
	NameAuthority  = "authority"
	NameAppraisal  = "appraisal"
	NameIndex      = "index"
	NameRedirects  = "redirects"
	NameDNSHistory = "dns_history"
	NameWhois      = "whois"
)

const (
	maxBodyBytes     = 4 << 20
	maxRedirectHops  = 5
	defaultUserAgent = "domain-metrics/1.0"
)

var errTooManyRedirects = errors.New("stopped after too many redirects")

// SettingsSource supplies the current provider settings. It is read on every
// request so a reloaded config file takes effect immediately.
type SettingsSource interface {
	Current() config.ProviderSettings
}

// Client talks to every provider. It implements all six usecase ports.
type Client struct {
	http     *http.Client
	settings SettingsSource
}

// NewClient creates a provider client. timeout is the per-request limit and
// at most a few redirects are followed.
func NewClient(settings SettingsSource, timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{
			Timeout:       timeout,
			CheckRedirect: limitRedirects,
		},
		settings: settings,
	}
}

// Providers exposes the client through the engine's ports.
func (c *Client) Providers() usecases.Providers {
	return usecases.Providers{
		Authority:  c,
		Appraisal:  c,
		Index:      c,
		Redirects:  c,
		DNSHistory: c,
		Whois:      c,
	}
}

func limitRedirects(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirectHops {
		return errTooManyRedirects
	}
	return nil
}

// getJSON performs one GET and returns the parsed body. Transport errors,
// non-2xx statuses and invalid JSON all come back as *domain.ProviderError.
func (c *Client) getJSON(ctx context.Context, provider, rawURL string, header http.Header) (gjson.Result, error) {
	fail := func(err error) (gjson.Result, error) {
		return gjson.Result{}, &domain.ProviderError{Provider: provider, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	log.GlobalDebugCtx(ctx, "provider responded",
		"provider", provider,
		"status", resp.StatusCode,
		"bytes", len(body),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		return fail(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Errorf("%w: %d", domain.ErrProviderStatus, resp.StatusCode))
	}
	if !gjson.ValidBytes(body) {
		return fail(domain.ErrMalformedResponse)
	}

	return gjson.ParseBytes(body), nil
}

// optFloat reads a number or numeric string. Anything else is absent.
func optFloat(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		v := r.Num
		return &v
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}

// optCount reads a non-negative integer count. Fractions are truncated and
// counts outside the int64 range are absent.
func optCount(r gjson.Result) *int64 {
	f := optFloat(r)
	if f == nil || math.IsNaN(*f) || *f < 0 || *f >= math.MaxInt64 {
		return nil
	}
	v := int64(*f)
	return &v
}

// optBool reads a JSON boolean or the strings "true"/"false".
func optBool(r gjson.Result) *bool {
	switch r.Type {
	case gjson.True, gjson.False:
		v := r.Bool()
		return &v
	case gjson.String:
		v, err := strconv.ParseBool(strings.TrimSpace(r.Str))
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}

// optString reads a string value, or "" when absent or not a string.
func optString(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(r.Str)
}
