// Package filter models the product-listing filters and their query-string
// form. Encoding is stable so a filter state always produces the same URL,
// and Decode tolerates junk values so a hand-edited URL degrades gracefully.
package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Filters is the product-browsing filter state.
type Filters struct {
	Query      string
	Brands     []string
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
	Page       int
}

// IsZero reports whether no filter is active.
func (f Filters) IsZero() bool {
	return f.Query == "" && len(f.Brands) == 0 && len(f.Categories) == 0 &&
		f.MinPrice == nil && f.MaxPrice == nil && f.Sort == "" && f.Page <= 1
}

// Encode renders the filters as a canonical query string. Empty fields are
// omitted, multi-value fields are sorted, page 1 is implied.
func (f Filters) Encode() string {
	v := url.Values{}
	if q := strings.TrimSpace(f.Query); q != "" {
		v.Set("q", q)
	}
	if len(f.Brands) > 0 {
		v["brand"] = sortedCopy(f.Brands)
	}
	if len(f.Categories) > 0 {
		v["category"] = sortedCopy(f.Categories)
	}
	if f.MinPrice != nil {
		v.Set("min_price", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		v.Set("max_price", f.MaxPrice.String())
	}
	if f.Sort != "" {
		v.Set("sort", f.Sort)
	}
	if f.Page > 1 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v.Encode()
}

// Decode rebuilds Filters from parsed query values. Unparseable prices and
// page numbers are dropped rather than reported.
func Decode(v url.Values) Filters {
	f := Filters{
		Query: strings.TrimSpace(v.Get("q")),
		Sort:  v.Get("sort"),
	}
	f.Brands = cleanValues(v["brand"])
	f.Categories = cleanValues(v["category"])
	if raw := v.Get("min_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil && !d.IsNegative() {
			f.MinPrice = &d
		}
	}
	if raw := v.Get("max_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil && !d.IsNegative() {
			f.MaxPrice = &d
		}
	}
	if raw := v.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 {
			f.Page = n
		}
	}
	return f
}

func sortedCopy(in []string) []string {
	out := cleanValues(in)
	sort.Strings(out)
	return out
}

func cleanValues(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
