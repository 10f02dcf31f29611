// Package fixtures provides provider JSON bodies for tests.
package fixtures

import (
	"fmt"
	"strings"
)

// AuthorityFull is a DomDetailer response with every metric, mixing numbers
// and numeric strings the way the real API does.
func AuthorityFull() string {
	return `{
	"mozDA": 93,
	"mozPA": "70",
	"majesticTF": 60,
	"majesticCF": "55",
	"majesticRefDomains": "1500",
	"majesticLinks": 250000
}`
}

// AuthorityPartial omits the Majestic figures.
func AuthorityPartial() string {
	return `{"mozDA": 12, "mozPA": 20}`
}

// Appraisal returns a GoDaddy appraisal body.
func Appraisal(value int) string {
	return fmt.Sprintf(`{"govalue": %d, "domain": "example.com"}`, value)
}

// Indexed returns an index status body.
func Indexed(indexed bool) string {
	return fmt.Sprintf(`{"isIndexed": %t}`, indexed)
}

// RedirectsPage returns one host.io redirects page.
func RedirectsPage(total int, domains ...string) string {
	quoted := make([]string, len(domains))
	for i, d := range domains {
		quoted[i] = `"` + d + `"`
	}
	return fmt.Sprintf(`{"domain": "example.com", "limit": 5, "total": %d, "domains": [%s]}`, total, strings.Join(quoted, ", "))
}

// DNSHistory returns a completedns body.
func DNSHistory(drops int) string {
	return fmt.Sprintf(`{"drops": %d, "events": []}`, drops)
}

// Whois returns an apilayer WHOIS body with the given raw dates.
func Whois(created, expires string) string {
	return fmt.Sprintf(`{"result": {"domain_name": "example.com", "creation_date": %q, "expiration_date": %q}}`, created, expires)
}

// Truncated is a body cut off mid-object.
func Truncated() string {
	return `{"mozDA": 93, "mozPA": `
}
