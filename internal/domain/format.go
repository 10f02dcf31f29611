package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is rendered for any value a provider did not report.
const NotAvailable = "Not Available"

const secondsPerDay = 24 * 60 * 60

// dateLayouts are the shapes WHOIS providers use for dates, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatCurrency renders a numeric string with thousands separators and no
// decimals. Callers add the currency symbol. Values beyond the int64 range
// keep their magnitude.
func FormatCurrency(raw string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return message.NewPrinter(language.English).Sprintf("%.0f", math.Round(v))
}

// FormatNumberWithCommas renders n grouped by thousands.
func FormatNumberWithCommas(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// ParseDate parses a provider date string. Empty or unknown shapes return false.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a provider date as "January 15, 2020".
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return NotAvailable
	}
	return FormatTime(&t)
}

// FormatTime renders an optional date as "January 15, 2020".
func FormatTime(t *time.Time) string {
	if t == nil {
		return NotAvailable
	}
	return t.UTC().Format("January 2, 2006")
}

// DomainAgeDays returns whole days elapsed between created and now, never
// negative. It counts from Unix seconds, so very old dates are not capped.
func DomainAgeDays(created, now time.Time) int {
	days := (now.Unix() - created.Unix()) / secondsPerDay
	if days < 0 {
		return 0
	}
	return int(days)
}

// FormatDomainAge renders a day count as "Y Years M Months D Days".
// Years are 365 days and months 30 days; calendar lengths are ignored.
func FormatDomainAge(days *int) string {
	if days == nil {
		return NotAvailable
	}
	d := *days
	years := d / 365
	months := (d % 365) / 30
	rest := (d % 365) % 30
	return fmt.Sprintf("%d Years %d Months %d Days", years, months, rest)
}

// FormatScore renders an authority score without trailing zeros.
func FormatScore(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
