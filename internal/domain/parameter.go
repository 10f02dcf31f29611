package domain

import (
	"sort"
	"strconv"
)

// ParameterKind enumerates the metrics a consumer can choose to display.
type ParameterKind int

const (
	ParamAuthority ParameterKind = iota
	ParamTrust
	ParamReferringDomains
	ParamBacklinks
	ParamEstimatedValue
	ParamIndexed
	ParamDrops
	ParamExpiration
	ParamAge
	ParamRedirects
)

// Parameter describes one displayable metric: its label, its form key and
// how it renders from a record.
type Parameter struct {
	Kind   ParameterKind
	Key    string
	Label  string
	Render func(r *MetricsRecord) string
}

// Parameters is the display table in presentation order.
var Parameters = []Parameter{
	{ParamAuthority, "da_pa", "DA & PA", func(r *MetricsRecord) string { return pair(r.MozDA, r.MozPA) }},
	{ParamTrust, "tf_cf", "TF & CF", func(r *MetricsRecord) string { return pair(r.MajesticTF, r.MajesticCF) }},
	{ParamReferringDomains, "referring_domains", "Referring Domains", func(r *MetricsRecord) string { return count(r.ReferringDomains) }},
	{ParamBacklinks, "backlinks", "Total Backlinks", func(r *MetricsRecord) string { return count(r.Backlinks) }},
	{ParamEstimatedValue, "estimated_value", "Estimated Value", renderValue},
	{ParamIndexed, "indexed", "Google Indexed", renderIndexed},
	{ParamDrops, "drops", "Domain Drops", func(r *MetricsRecord) string { return strconv.FormatInt(r.Drops, 10) }},
	{ParamExpiration, "expiration_date", "Expiration Date", func(r *MetricsRecord) string { return FormatTime(r.ExpirationDate) }},
	{ParamAge, "domain_age", "Domain Age", func(r *MetricsRecord) string { return FormatDomainAge(r.DomainAgeDays) }},
	{ParamRedirects, "redirects", "Redirected Domains", func(r *MetricsRecord) string { return strconv.Itoa(len(r.Redirects)) }},
}

// LookupParameter returns the parameter with the given form key.
func LookupParameter(key string) (Parameter, bool) {
	for _, p := range Parameters {
		if p.Key == key {
			return p, true
		}
	}
	return Parameter{}, false
}

// ParameterOf returns the table entry for kind.
func ParameterOf(kind ParameterKind) Parameter {
	return Parameters[kind]
}

func pair(a, b *float64) string {
	if a == nil && b == nil {
		return NotAvailable
	}
	return FormatScore(a) + " & " + FormatScore(b)
}

func count(n *int64) string {
	if n == nil {
		return NotAvailable
	}
	return FormatNumberWithCommas(*n)
}

func renderValue(r *MetricsRecord) string {
	if r.EstimatedValue == nil {
		return NotAvailable
	}
	return "$" + FormatCurrency(strconv.FormatFloat(*r.EstimatedValue, 'f', -1, 64))
}

func renderIndexed(r *MetricsRecord) string {
	switch r.Indexed {
	case Yes:
		return "Yes"
	case No:
		return "No"
	default:
		return NotAvailable
	}
}

// FieldSelection is the set of parameters a consumer wants rendered.
// It never affects what is fetched.
type FieldSelection map[ParameterKind]struct{}

// NewFieldSelection builds a selection from form keys, ignoring unknown keys.
func NewFieldSelection(keys ...string) FieldSelection {
	s := make(FieldSelection)
	for _, k := range keys {
		if p, ok := LookupParameter(k); ok {
			s[p.Kind] = struct{}{}
		}
	}
	return s
}

// Has reports whether kind is selected.
func (s FieldSelection) Has(kind ParameterKind) bool {
	_, ok := s[kind]
	return ok
}

// Toggle flips kind in the selection.
func (s FieldSelection) Toggle(kind ParameterKind) {
	if s.Has(kind) {
		delete(s, kind)
		return
	}
	s[kind] = struct{}{}
}

// Kinds returns the selected kinds in presentation order.
func (s FieldSelection) Kinds() []ParameterKind {
	kinds := make([]ParameterKind, 0, len(s))
	for k := range s {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Clone returns an independent copy.
func (s FieldSelection) Clone() FieldSelection {
	c := make(FieldSelection, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
